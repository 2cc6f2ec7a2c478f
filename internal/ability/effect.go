package ability

import (
	"github.com/KirkDiggler/rise-gen/internal/content"
	"github.com/KirkDiggler/rise-gen/internal/dice"
	"github.com/KirkDiggler/rise-gen/internal/errors"
)

// View is the read-only surface of a creature that prerequisites and
// effects may consult.
type View interface {
	Level() int
	ClassLevel(class string) int
	ChallengeRating() int
	AttackType() content.AttackType
	Attribute(a content.Attribute) int
	CombatProwess() int
	Power() int
	Size() content.Size
	Weapon() *content.Weapon
	Armor() *content.Armor
}

// Combatant is a View that end of round effects can act on.
type Combatant interface {
	View
	Heal(hitPoints int)
}

// Variant discriminates how an effect transforms its statistic.
type Variant int

const (
	// VariantModifier returns a new value.
	VariantModifier Variant = iota + 1
	// VariantInPlace mutates a composite value and hands it back.
	VariantInPlace
	// VariantVariable is a modifier that also receives the ability strength.
	VariantVariable
	// VariantEndOfRound acts on a combatant between rounds.
	VariantEndOfRound
)

func (v Variant) String() string {
	switch v {
	case VariantModifier:
		return "modifier"
	case VariantInPlace:
		return "in place"
	case VariantVariable:
		return "variable"
	case VariantEndOfRound:
		return "end of round"
	}
	return "unknown"
}

// Effect is one tagged transform. The same transform is folded into each
// of its tags independently.
type Effect struct {
	tags     []Tag
	variant  Variant
	kind     Kind
	apply    func(v View, value any, strength int) any
	roundEnd func(c Combatant)
	strength int
}

// Modifier builds a pure value transform.
func Modifier[T any](fn func(v View, value T) T, tags ...Tag) Effect {
	return Effect{
		tags:    tags,
		variant: VariantModifier,
		kind:    kindOf[T](),
		apply: func(v View, value any, _ int) any {
			return fn(v, value.(T))
		},
	}
}

// InPlace builds a transform that mutates a composite such as a dice pool.
func InPlace[T any](fn func(v View, value T), tags ...Tag) Effect {
	return Effect{
		tags:    tags,
		variant: VariantInPlace,
		kind:    kindOf[T](),
		apply: func(v View, value any, _ int) any {
			fn(v, value.(T))
			return value
		},
	}
}

// Variable builds a modifier that closes over its ability's strength.
func Variable[T any](fn func(v View, value T, strength int) T, tags ...Tag) Effect {
	return Effect{
		tags:    tags,
		variant: VariantVariable,
		kind:    kindOf[T](),
		apply: func(v View, value any, strength int) any {
			return fn(v, value.(T), strength)
		},
	}
}

// EndOfRound builds a side effect run when a combat round ends.
func EndOfRound(fn func(c Combatant)) Effect {
	return Effect{
		tags:     []Tag{TagEndOfRound},
		variant:  VariantEndOfRound,
		kind:     KindNone,
		roundEnd: fn,
	}
}

func kindOf[T any]() Kind {
	var zero T
	switch any(zero).(type) {
	case int:
		return KindInt
	case *dice.Pool:
		return KindDice
	case content.Size:
		return KindSize
	case *content.Weapon:
		return KindWeapon
	case *content.Armor:
		return KindArmor
	}
	return KindNone
}

// Tags returns the statistics this effect applies to.
func (e Effect) Tags() []Tag {
	return append([]Tag(nil), e.tags...)
}

// HasTag reports whether the effect folds into t.
func (e Effect) HasTag(t Tag) bool {
	for _, tag := range e.tags {
		if tag == t {
			return true
		}
	}
	return false
}

// Variant reports how the effect transforms its value.
func (e Effect) Variant() Variant {
	return e.variant
}

// Strength is the strength injected by the owning ability.
func (e Effect) Strength() int {
	return e.strength
}

// Apply folds the effect into value. End of round effects leave it as is.
func (e Effect) Apply(v View, value any) any {
	if e.apply == nil {
		return value
	}
	return e.apply(v, value, e.strength)
}

// RoundEnd runs an end of round effect against c.
func (e Effect) RoundEnd(c Combatant) {
	if e.roundEnd != nil {
		e.roundEnd(c)
	}
}

func (e Effect) withStrength(strength int) Effect {
	e.strength = strength
	e.tags = append([]Tag(nil), e.tags...)
	return e
}

// Validate checks that every tag is in the vocabulary and carries the
// value type the transform expects.
func (e Effect) Validate() error {
	if len(e.tags) == 0 {
		return errors.InvalidArgument("effect has no tags").WithReason(errors.ReasonInvalidEffectTag)
	}
	for _, t := range e.tags {
		if !t.Valid() {
			return errors.InvalidEffectTag(t.String()).WithMeta("tag_id", int(t))
		}
		if (e.variant == VariantEndOfRound) != (t == TagEndOfRound) {
			return errors.InvalidEffectTag(t.String()).
				WithMeta("variant", e.variant.String())
		}
		if e.variant != VariantEndOfRound && t.Kind() != e.kind {
			return errors.InvalidEffectTag(t.String()).
				WithMeta("want_kind", t.Kind().String()).
				WithMeta("got_kind", e.kind.String())
		}
	}
	return nil
}
