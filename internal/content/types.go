package content

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rise-gen/internal/dice"
	"github.com/KirkDiggler/rise-gen/internal/errors"
)

// Attribute names one of the six core attributes.
type Attribute string

const (
	Strength     Attribute = "strength"
	Dexterity    Attribute = "dexterity"
	Constitution Attribute = "constitution"
	Intelligence Attribute = "intelligence"
	Perception   Attribute = "perception"
	Willpower    Attribute = "willpower"
)

// Attributes in stat block order.
var Attributes = []Attribute{Strength, Dexterity, Constitution, Intelligence, Perception, Willpower}

// AttackType selects how a creature attacks.
type AttackType string

const (
	AttackPhysical AttackType = "physical"
	AttackSpell    AttackType = "spell"
)

// Progression is a good/average/poor scaling rate.
type Progression string

const (
	ProgressionGood    Progression = "good"
	ProgressionAverage Progression = "average"
	ProgressionPoor    Progression = "poor"
)

// DefenseBonus is the flat base class bonus to a defense.
func (p Progression) DefenseBonus() int {
	switch p {
	case ProgressionGood:
		return 4
	case ProgressionAverage:
		return 2
	default:
		return 0
	}
}

// CombatProwess at the given level.
func (p Progression) CombatProwess(level int) int {
	switch p {
	case ProgressionGood:
		return level + 2
	case ProgressionAverage:
		return (3*level)/4 + 1
	default:
		return level / 2
	}
}

func (p Progression) valid() bool {
	return p == ProgressionGood || p == ProgressionAverage || p == ProgressionPoor
}

// Encumbrance of a weapon or armor.
type Encumbrance string

const (
	EncumbranceNone   Encumbrance = ""
	EncumbranceLight  Encumbrance = "light"
	EncumbranceMedium Encumbrance = "medium"
	EncumbranceHeavy  Encumbrance = "heavy"
)

// Lighter steps heavy -> medium -> light -> none.
func (e Encumbrance) Lighter() Encumbrance {
	switch e {
	case EncumbranceHeavy:
		return EncumbranceMedium
	case EncumbranceMedium:
		return EncumbranceLight
	default:
		return EncumbranceNone
	}
}

// AbilityRef names an ability and an optional strength. In YAML it is
// either a bare name or a single-entry map such as {natural armor: 4}.
type AbilityRef struct {
	Name     string
	Strength *int
}

// Ref builds an AbilityRef without a strength.
func Ref(name string) AbilityRef {
	return AbilityRef{Name: name}
}

// RefWithStrength builds an AbilityRef carrying a strength.
func RefWithStrength(name string, strength int) AbilityRef {
	return AbilityRef{Name: name, Strength: &strength}
}

// UnmarshalYAML accepts both reference forms.
func (r *AbilityRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&r.Name)
	case yaml.MappingNode:
		var m map[string]int
		if err := node.Decode(&m); err != nil {
			return err
		}
		if len(m) != 1 {
			return errors.InvalidArgumentf("invalid ability reference at line %d: want exactly one entry", node.Line)
		}
		for name, strength := range m {
			r.Name = name
			r.Strength = &strength
		}
		return nil
	default:
		return errors.InvalidArgumentf("invalid ability reference at line %d", node.Line)
	}
}

// MarshalYAML writes the short form when there is no strength.
func (r AbilityRef) MarshalYAML() (any, error) {
	if r.Strength == nil {
		return r.Name, nil
	}
	return map[string]int{r.Name: *r.Strength}, nil
}

func (r AbilityRef) String() string {
	if r.Strength == nil {
		return r.Name
	}
	return fmt.Sprintf("%s %+d", r.Name, *r.Strength)
}

// Class is a character or monster class. Monster classes leave the
// defense progressions empty and inherit them from the monster type.
type Class struct {
	Name          string       `yaml:"-"`
	CombatProwess Progression  `yaml:"combat prowess"`
	Fortitude     Progression  `yaml:"fortitude"`
	Reflex        Progression  `yaml:"reflex"`
	Mental        Progression  `yaml:"mental"`
	ClassFeatures []AbilityRef `yaml:"class features"`
}

// HasDefenses reports whether the class declares its own defense progressions.
func (c *Class) HasDefenses() bool {
	return c.Fortitude != "" || c.Reflex != "" || c.Mental != ""
}

// MonsterType supplies defenses and innate abilities to monster classes.
type MonsterType struct {
	Name      string       `yaml:"-"`
	Fortitude Progression  `yaml:"fortitude"`
	Reflex    Progression  `yaml:"reflex"`
	Mental    Progression  `yaml:"mental"`
	Abilities []AbilityRef `yaml:"abilities"`
}

// Race supplies a default size and land speed.
type Race struct {
	Name      string `yaml:"-"`
	Size      Size   `yaml:"size"`
	LandSpeed int    `yaml:"land speed"`
}

// Weapon is an equipped weapon. Dice is parsed from Die.
type Weapon struct {
	Name         string      `yaml:"-"`
	Die          string      `yaml:"die"`
	Encumbrance  Encumbrance `yaml:"encumbrance"`
	Range        int         `yaml:"range"`
	DualWielding bool        `yaml:"dual wielding"`
	Dice         *dice.Pool  `yaml:"-"`
}

// IsRanged reports whether the weapon attacks at range.
func (w *Weapon) IsRanged() bool {
	return w != nil && w.Range > 0
}

// Copy returns a deep copy so effects can mutate it in place.
func (w *Weapon) Copy() *Weapon {
	if w == nil {
		return nil
	}
	cp := *w
	cp.Dice = w.Dice.Copy()
	return &cp
}

// Armor is worn body armor.
type Armor struct {
	Name               string      `yaml:"-"`
	Bonus              int         `yaml:"bonus"`
	Encumbrance        Encumbrance `yaml:"encumbrance"`
	EncumbrancePenalty int         `yaml:"encumbrance penalty"`
}

// Copy returns a copy so effects can mutate it in place.
func (a *Armor) Copy() *Armor {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// DecreaseEncumbrance lightens the armor by one category.
func (a *Armor) DecreaseEncumbrance() {
	a.Encumbrance = a.Encumbrance.Lighter()
}

// Shield adds to armor defense and reflex.
type Shield struct {
	Name  string `yaml:"-"`
	Bonus int    `yaml:"bonus"`
}

// Skill ties a skill to its attribute.
type Skill struct {
	Name               string    `yaml:"-"`
	Attribute          Attribute `yaml:"attribute"`
	EncumbrancePenalty bool      `yaml:"encumbrance penalty"`
}

// Spell is a named damaging spell. Dice is parsed from Die.
type Spell struct {
	Name string     `yaml:"-"`
	Die  string     `yaml:"die"`
	Dice *dice.Pool `yaml:"-"`
}
