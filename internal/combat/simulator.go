// Package combat runs dice-driven fights between two groups of creatures.
package combat

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rise-gen/internal/content"
	"github.com/KirkDiggler/rise-gen/internal/creature"
	"github.com/KirkDiggler/rise-gen/internal/dice"
	"github.com/KirkDiggler/rise-gen/internal/errors"
	"github.com/KirkDiggler/rise-gen/internal/observe"
)

const (
	// DefaultMaxRounds is the round cap that guarantees a fight ends.
	DefaultMaxRounds = 100

	attackDie     = 20
	rollSwing     = 10
	naturalFumble = 1
)

// Config holds the dependencies for a Simulator.
type Config struct {
	// Roller defaults to dice.DefaultRoller.
	Roller dice.Roller
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Metrics defaults to observe.DefaultMetrics().
	Metrics *observe.Metrics
	// Events receives strike, spell, damage and round end events. Nothing
	// is published when nil.
	Events events.EventBus
	// ExplodingAttacks re-rolls and adds natural 20s on attack rolls.
	ExplodingAttacks bool
	// MaxRounds defaults to DefaultMaxRounds.
	MaxRounds int
}

// Validate checks the configuration
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.MaxRounds < 0 {
		vb.InvalidField("MaxRounds", "must not be negative")
	}

	return vb.Build()
}

// Result is the outcome of one fight.
type Result struct {
	RedAlive  bool `json:"red_alive"`
	BlueAlive bool `json:"blue_alive"`
	Rounds    int  `json:"rounds"`
}

// Outcome names the winning side, "stalemate" when both survive the round
// cap, or "none" when both go down together.
func (r *Result) Outcome() string {
	switch {
	case r.RedAlive && r.BlueAlive:
		return observe.OutcomeStalemate
	case r.RedAlive:
		return observe.OutcomeRed
	case r.BlueAlive:
		return observe.OutcomeBlue
	}
	return observe.OutcomeNone
}

// Simulator resolves fights. It holds no per-fight state, so one simulator
// can run many fights concurrently as long as each has its own creatures.
type Simulator struct {
	roller           dice.Roller
	logger           *slog.Logger
	metrics          *observe.Metrics
	events           events.EventBus
	explodingAttacks bool
	maxRounds        int
}

// NewSimulator creates a new combat simulator
func NewSimulator(cfg *Config) (*Simulator, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &Simulator{
		roller:           cfg.Roller,
		logger:           cfg.Logger,
		metrics:          cfg.Metrics,
		events:           cfg.Events,
		explodingAttacks: cfg.ExplodingAttacks,
		maxRounds:        cfg.MaxRounds,
	}
	if s.roller == nil {
		s.roller = dice.DefaultRoller
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	if s.maxRounds == 0 {
		s.maxRounds = DefaultMaxRounds
	}
	return s, nil
}

// Run fights red against blue until one side is down or the round cap is
// passed. Both groups are refreshed first, so groups can be reused.
func (s *Simulator) Run(ctx context.Context, red, blue *Group) (*Result, error) {
	if red == nil || blue == nil {
		return nil, errors.InvalidArgument("both groups are required")
	}

	red.RefreshCombat()
	blue.RefreshCombat()

	rounds := 0
	for red.IsAlive() && blue.IsAlive() && rounds <= s.maxRounds {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeCanceled, "combat canceled")
		}

		if err := s.takeExtraRound(ctx, rounds, SideRed, red, blue); err != nil {
			return nil, err
		}
		if err := s.takeExtraRound(ctx, rounds, SideBlue, blue, red); err != nil {
			return nil, err
		}
		if err := s.attackGroup(ctx, SideRed, red, blue); err != nil {
			return nil, err
		}
		if err := s.attackGroup(ctx, SideBlue, blue, red); err != nil {
			return nil, err
		}

		red.RefreshRound()
		blue.RefreshRound()
		rounds++

		s.logger.Debug("round resolved",
			"round", rounds,
			"red_alive", red.IsAlive(),
			"blue_alive", blue.IsAlive())

		if err := s.publish(ctx, EventRoundEnd, nil, nil,
			KeyRound, rounds,
			KeyRedAlive, red.IsAlive(),
			KeyBlueAlive, blue.IsAlive()); err != nil {
			return nil, err
		}
	}

	return &Result{
		RedAlive:  red.IsAlive(),
		BlueAlive: blue.IsAlive(),
		Rounds:    rounds,
	}, nil
}

// takeExtraRound lets attackers with enough extra rounds act before
// initiative in the given round.
func (s *Simulator) takeExtraRound(ctx context.Context, round int, side string, attackers, defenders *Group) error {
	for _, attacker := range attackers.Creatures() {
		if !attacker.IsAlive() || attacker.ExtraRounds() <= round {
			continue
		}
		if err := s.takeTurn(ctx, side, attacker, defenders); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) attackGroup(ctx context.Context, side string, attackers, defenders *Group) error {
	for _, attacker := range attackers.Creatures() {
		if !attacker.IsAlive() {
			continue
		}
		if err := s.takeTurn(ctx, side, attacker, defenders); err != nil {
			return err
		}
	}
	return nil
}

// takeTurn spends the attacker's actions, each against the first living
// defender.
func (s *Simulator) takeTurn(ctx context.Context, side string, attacker *creature.Creature, defenders *Group) error {
	actions, err := attacker.ActionCount(s.roller)
	if err != nil {
		return errors.Wrapf(err, "failed to roll actions for %s", attacker.Name())
	}

	for i := 0; i < actions; i++ {
		target := defenders.FirstLiving()
		if target == nil {
			return nil
		}

		switch attacker.AttackType() {
		case content.AttackPhysical:
			_, err = s.physicalAction(ctx, side, attacker, target)
		case content.AttackSpell:
			_, err = s.spellAction(ctx, side, attacker, target)
		default:
			return errors.InvalidAttackType(string(attacker.AttackType()))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// attackRoll is one d20 attack: the natural roll decides criticals and the
// swing, the total is compared with a defense.
type attackRoll struct {
	natural int
	total   int
}

func (s *Simulator) rollAttack(attacker *creature.Creature) (attackRoll, error) {
	natural, err := s.roller.Roll(attackDie)
	if err != nil {
		return attackRoll{}, errors.Wrap(err, "failed to roll attack")
	}

	total := natural
	for last := natural; s.explodingAttacks && last == attackDie; {
		if last, err = s.roller.Roll(attackDie); err != nil {
			return attackRoll{}, errors.Wrap(err, "failed to roll exploding attack")
		}
		total += last
	}

	switch natural {
	case attackDie:
		total += rollSwing
	case naturalFumble:
		total -= rollSwing
	}

	return attackRoll{natural: natural, total: total + attacker.Accuracy()}, nil
}

// physicalAction makes AttackCount strikes against the same target and
// returns the hit points it lost. First hit dice join the first damage
// instance of the action only.
func (s *Simulator) physicalAction(ctx context.Context, side string, attacker, target *creature.Creature) (int, error) {
	firstHit := attacker.FirstHitDamageDice()
	lost := 0

	for i := 0; i < attacker.AttackCount(); i++ {
		outcome, err := s.strike(attacker, target)
		if err != nil {
			return lost, err
		}
		if err := s.publish(ctx, EventStrike, attacker, target,
			KeySide, side,
			KeyNatural, outcome.roll.natural,
			KeyTotal, outcome.roll.total,
			KeyDefense, outcome.defense,
			KeyHit, outcome.hit(),
			KeyCritical, outcome.critical); err != nil {
			return lost, err
		}

		for instances := outcome.instances; instances > 0; instances-- {
			pool := attacker.DamageDice()
			if firstHit != nil {
				pool.Dice = append(pool.Dice, firstHit.Dice...)
				pool.Bonus += firstHit.Bonus
				firstHit = nil
			}

			damage, err := s.rollDamage(attacker, pool)
			if err != nil {
				return lost, err
			}
			taken := target.TakeDamage(damage)
			lost += taken
			if err := s.publishDamage(ctx, side, attacker, target, damage, taken); err != nil {
				return lost, err
			}
		}
	}
	return lost, nil
}

// strikeOutcome is one resolved strike. roll is the roll that decided it.
type strikeOutcome struct {
	roll      attackRoll
	defense   int
	critical  bool
	instances int
}

func (o strikeOutcome) hit() bool {
	return o.instances > 0
}

// strike resolves one attack roll and the number of damage instances it
// earns. Dual wielders roll twice and keep the better roll; the worse roll
// adds one instance when the better one is critical and the worse one
// still hits.
func (s *Simulator) strike(attacker, target *creature.Creature) (strikeOutcome, error) {
	best, err := s.rollAttack(attacker)
	if err != nil {
		return strikeOutcome{}, err
	}

	var worse *attackRoll
	if w := attacker.Weapon(); w != nil && w.DualWielding {
		second, err := s.rollAttack(attacker)
		if err != nil {
			return strikeOutcome{}, err
		}
		if second.total > best.total {
			best, second = second, best
		}
		worse = &second
	}

	outcome := strikeOutcome{roll: best, defense: target.ArmorDefense()}
	if best.total < outcome.defense {
		return outcome, nil
	}
	if best.natural < attacker.CriticalThreshold() {
		outcome.instances = 1
		return outcome, nil
	}

	outcome.critical = true
	outcome.instances = attacker.CriticalMultiplier()
	if worse != nil && worse.total >= outcome.defense {
		outcome.instances++
	}
	return outcome, nil
}

// spellAction casts one spell against the target's lowest defense. A hit
// deals full damage and a miss deals half.
func (s *Simulator) spellAction(ctx context.Context, side string, attacker, target *creature.Creature) (int, error) {
	roll, err := s.rollAttack(attacker)
	if err != nil {
		return 0, err
	}

	damage, err := s.rollDamage(attacker, attacker.DamageDice())
	if err != nil {
		return 0, err
	}
	defense := target.LowestDefense()
	hit := roll.total >= defense
	if !hit {
		damage /= 2
	}
	if err := s.publish(ctx, EventSpell, attacker, target,
		KeySide, side,
		KeyNatural, roll.natural,
		KeyTotal, roll.total,
		KeyDefense, defense,
		KeyHit, hit,
		KeyCritical, false); err != nil {
		return 0, err
	}

	taken := target.TakeDamage(damage)
	return taken, s.publishDamage(ctx, side, attacker, target, damage, taken)
}

func (s *Simulator) rollDamage(attacker *creature.Creature, pool *dice.Pool) (int, error) {
	rolled, err := pool.Roll(s.roller)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll damage for %s", attacker.Name())
	}
	return rolled + attacker.DamageBonus(), nil
}
