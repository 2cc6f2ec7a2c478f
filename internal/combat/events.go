package combat

import (
	"context"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rise-gen/internal/errors"
)

// Sides of a fight.
const (
	SideRed  = "red"
	SideBlue = "blue"
)

// Event types published on Config.Events.
const (
	// EventStrike is one physical attack roll. Source is the attacker,
	// target the defender.
	EventStrike = "combat.strike"
	// EventSpell is one spell cast.
	EventSpell = "combat.spell"
	// EventDamage is one damage instance after damage reduction.
	EventDamage = "combat.damage"
	// EventRoundEnd closes a round. It has no source or target.
	EventRoundEnd = "combat.round_end"
)

// Event context keys.
const (
	KeySide      = "side"
	KeyNatural   = "natural"
	KeyTotal     = "total"
	KeyDefense   = "defense"
	KeyHit       = "hit"
	KeyCritical  = "critical"
	KeyDamage    = "damage"
	KeyLost      = "lost"
	KeyRound     = "round"
	KeyRedAlive  = "red_alive"
	KeyBlueAlive = "blue_alive"
)

// publish sends an event built from alternating key/value pairs.
func (s *Simulator) publish(ctx context.Context, eventType string, source, target core.Entity, kv ...any) error {
	if s.events == nil {
		return nil
	}

	event := events.NewGameEvent(eventType, source, target)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		event.Context().Set(key, kv[i+1])
	}

	if err := s.events.Publish(ctx, event); err != nil {
		return errors.Wrapf(err, "failed to publish %s", eventType)
	}
	return nil
}

func (s *Simulator) publishDamage(ctx context.Context, side string, source, target core.Entity, damage, lost int) error {
	return s.publish(ctx, EventDamage, source, target,
		KeySide, side,
		KeyDamage, damage,
		KeyLost, lost)
}

// eventInt reads an int from an event context, zero when absent.
func eventInt(event events.Event, key string) int {
	v, _ := event.Context().Get(key)
	n, _ := v.(int)
	return n
}

func eventBool(event events.Event, key string) bool {
	v, _ := event.Context().Get(key)
	b, _ := v.(bool)
	return b
}

func eventString(event events.Event, key string) string {
	v, _ := event.Context().Get(key)
	str, _ := v.(string)
	return str
}
