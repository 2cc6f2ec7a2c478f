// Package ability defines effects, abilities and the catalog that maps
// ability names to their definitions.
package ability

import (
	"fmt"

	"github.com/KirkDiggler/rise-gen/internal/errors"
)

// TagHidden marks abilities left out of stat blocks.
const TagHidden = "hidden"

// Prerequisite gates an ability on the creature it belongs to.
type Prerequisite func(v View) bool

// Definition is the catalog entry an Ability is built from.
type Definition struct {
	Name         string
	Effects      []Effect
	Prerequisite Prerequisite
	Tags         []string
}

// Ability is an instance of a Definition carrying its own strength.
// It is not modified after construction.
type Ability struct {
	Name         string
	Effects      []Effect
	Prerequisite Prerequisite
	Tags         []string
	Strength     *int
}

// New builds an ability from def, injecting strength into every effect.
func New(def Definition, strength *int) (*Ability, error) {
	a := &Ability{
		Name:         def.Name,
		Effects:      make([]Effect, len(def.Effects)),
		Prerequisite: def.Prerequisite,
		Tags:         append([]string(nil), def.Tags...),
	}
	s := 0
	if strength != nil {
		s = *strength
		a.Strength = &s
	}
	for i, e := range def.Effects {
		if err := e.Validate(); err != nil {
			return nil, errors.Wrapf(err, "ability %s", def.Name)
		}
		a.Effects[i] = e.withStrength(s)
	}
	return a, nil
}

// Active reports whether the prerequisite holds for v.
func (a *Ability) Active(v View) bool {
	return a.Prerequisite == nil || a.Prerequisite(v)
}

// HasTag reports whether the ability carries a descriptive tag such as "hidden".
func (a *Ability) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// affects reports whether any effect folds into t.
func (a *Ability) affects(t Tag) bool {
	for _, e := range a.Effects {
		if e.HasTag(t) {
			return true
		}
	}
	return false
}

func (a *Ability) String() string {
	if a.Strength == nil {
		return a.Name
	}
	return fmt.Sprintf("%s %+d", a.Name, *a.Strength)
}

// Fold applies every effect tagged t, in ability order, to base. A
// prerequisite is only evaluated for abilities that touch t, so
// prerequisites may read statistics other than the one being folded.
func Fold[T any](v View, abilities []*Ability, t Tag, base T) T {
	value := any(base)
	for _, a := range abilities {
		if !a.affects(t) || !a.Active(v) {
			continue
		}
		for _, e := range a.Effects {
			if e.HasTag(t) {
				value = e.Apply(v, value)
			}
		}
	}
	return value.(T)
}

// RunEndOfRound runs every active end of round effect against c.
func RunEndOfRound(c Combatant, abilities []*Ability) {
	for _, a := range abilities {
		if !a.affects(TagEndOfRound) || !a.Active(c) {
			continue
		}
		for _, e := range a.Effects {
			if e.HasTag(TagEndOfRound) {
				e.RoundEnd(c)
			}
		}
	}
}
