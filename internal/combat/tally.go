package combat

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rise-gen/internal/observe"
)

// SideTally is what one side did across every fight a Tally observed.
type SideTally struct {
	Attacks   int `json:"attacks"`
	Hits      int `json:"hits"`
	Criticals int `json:"criticals"`
	Damage    int `json:"damage"`
}

// HitRate is the share of attacks that hit, 0 without attacks.
func (t SideTally) HitRate() float64 {
	if t.Attacks == 0 {
		return 0
	}
	return float64(t.Hits) / float64(t.Attacks)
}

// Tally counts attacks and damage per side from simulator events. It is
// safe for concurrent use, so one tally can watch a whole batch of trials.
type Tally struct {
	mu    sync.Mutex
	sides map[string]*SideTally
}

// NewTally creates an empty tally
func NewTally() *Tally {
	return &Tally{sides: make(map[string]*SideTally)}
}

// Subscribe registers the tally on bus and returns the subscription IDs.
func (t *Tally) Subscribe(bus events.EventBus) []string {
	return []string{
		bus.SubscribeFunc(EventStrike, 0, t.handleAttack),
		bus.SubscribeFunc(EventSpell, 0, t.handleAttack),
		bus.SubscribeFunc(EventDamage, 0, t.handleDamage),
	}
}

func (t *Tally) handleAttack(_ context.Context, event events.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	side := t.side(eventString(event, KeySide))
	side.Attacks++
	if eventBool(event, KeyHit) {
		side.Hits++
	}
	if eventBool(event, KeyCritical) {
		side.Criticals++
	}
	return nil
}

func (t *Tally) handleDamage(_ context.Context, event events.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.side(eventString(event, KeySide)).Damage += eventInt(event, KeyLost)
	return nil
}

func (t *Tally) side(name string) *SideTally {
	side, ok := t.sides[name]
	if !ok {
		side = &SideTally{}
		t.sides[name] = side
	}
	return side
}

// Side returns a copy of the counts for one side.
func (t *Tally) Side(name string) SideTally {
	t.mu.Lock()
	defer t.mu.Unlock()

	if side, ok := t.sides[name]; ok {
		return *side
	}
	return SideTally{}
}

// Reset forgets everything counted so far.
func (t *Tally) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sides = make(map[string]*SideTally)
}

// RecordEvents feeds strike, spell and damage events into metrics and
// returns the subscription IDs.
func RecordEvents(bus events.EventBus, metrics *observe.Metrics) []string {
	attack := func(ctx context.Context, event events.Event) error {
		result := observe.StrikeMiss
		switch {
		case eventBool(event, KeyCritical):
			result = observe.StrikeCritical
		case eventBool(event, KeyHit):
			result = observe.StrikeHit
		}
		metrics.RecordStrike(ctx, eventString(event, KeySide), event.Type(), result)
		return nil
	}
	damage := func(ctx context.Context, event events.Event) error {
		metrics.RecordDamage(ctx, eventString(event, KeySide), eventInt(event, KeyLost))
		return nil
	}

	return []string{
		bus.SubscribeFunc(EventStrike, 0, attack),
		bus.SubscribeFunc(EventSpell, 0, attack),
		bus.SubscribeFunc(EventDamage, 0, damage),
	}
}
