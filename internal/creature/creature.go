// Package creature derives the combat statistics of a creature from its
// declared properties and abilities, and tracks its state during combat.
package creature

import (
	"sort"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rise-gen/internal/ability"
	"github.com/KirkDiggler/rise-gen/internal/content"
	"github.com/KirkDiggler/rise-gen/internal/errors"
	"github.com/KirkDiggler/rise-gen/internal/pkg/idgen"
)

// Properties is the declarative description a creature is built from.
type Properties = content.Properties

// Config holds the dependencies and description for New
type Config struct {
	Catalog    *ability.Catalog
	Tables     *content.Tables
	Properties *Properties

	// IDGenerator defaults to prefixed UUIDs.
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Tables == nil {
		vb.RequiredField("Tables")
	}
	if c.Properties == nil {
		vb.RequiredField("Properties")
	} else if len(c.Properties.Levels) == 0 {
		vb.RequiredField("Properties.Levels")
	}

	return vb.Build()
}

// Creature is a fully derived, combat ready creature. A Creature is not
// safe for concurrent use; build one per goroutine.
type Creature struct {
	id   string
	name string

	catalog *ability.Catalog

	level       int
	levels      map[string]int
	classes     map[string]*content.Class
	baseClass   *content.Class
	monsterType *content.MonsterType
	race        *content.Race
	baseSize    *content.Size

	attributes  map[content.Attribute]int
	armor       *content.Armor
	shield      *content.Shield
	weapons     []*content.Weapon
	attackType  content.AttackType
	spell       *content.Spell
	speeds      map[string]int
	skills      map[string]*content.Skill
	skillPoints map[string]int
	templates   []string
	description string

	abilities []*ability.Ability
	cache     map[string]any

	combatState
}

var (
	_ ability.Combatant = (*Creature)(nil)
	_ core.Entity       = (*Creature)(nil)
)

// New builds a creature from cfg.Properties. Definition problems such as
// unknown content, unknown abilities or an inexpressible level split are
// returned unchanged to the caller.
func New(cfg *Config) (*Creature, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ids := cfg.IDGenerator
	if ids == nil {
		ids = idgen.NewUUID("creature")
	}

	props := cfg.Properties
	c := &Creature{
		id:          ids.Generate(),
		name:        props.Name,
		catalog:     cfg.Catalog,
		attributes:  make(map[content.Attribute]int, len(props.Attributes)),
		speeds:      make(map[string]int, len(props.Speeds)),
		skills:      make(map[string]*content.Skill, len(props.SkillPoints)),
		skillPoints: make(map[string]int, len(props.SkillPoints)),
		description: props.Description,
		cache:       make(map[string]any),
	}
	for a, v := range props.Attributes {
		c.attributes[a] = v
	}
	for k, v := range props.Speeds {
		c.speeds[k] = v
	}

	steps := []func(*content.Tables, *Properties) error{
		c.loadIdentity,
		c.loadLevels,
		c.loadEquipment,
		c.loadAttack,
		c.loadSkills,
	}
	for _, step := range steps {
		if err := step(cfg.Tables, props); err != nil {
			return nil, errors.Wrapf(err, "failed to build creature %s", c.name)
		}
	}

	if err := c.loadAbilities(props); err != nil {
		return nil, errors.Wrapf(err, "failed to build creature %s", c.name)
	}

	c.RefreshCombat()
	return c, nil
}

// FromSample builds the named sample creature. A level above zero
// overrides the sample's own level.
func FromSample(cfg *Config, name string, level int) (*Creature, error) {
	if cfg == nil || cfg.Tables == nil {
		return nil, errors.InvalidArgument("tables are required")
	}
	props, err := cfg.Tables.SampleCreature(name)
	if err != nil {
		return nil, err
	}
	if level > 0 {
		props.Level = level
	}
	return New(&Config{
		Catalog:     cfg.Catalog,
		Tables:      cfg.Tables,
		Properties:  props,
		IDGenerator: cfg.IDGenerator,
	})
}

func (c *Creature) loadIdentity(tables *content.Tables, props *Properties) error {
	if props.MonsterType != "" {
		mt, err := tables.MonsterType(props.MonsterType)
		if err != nil {
			return err
		}
		c.monsterType = mt
	}
	if props.Race != "" {
		race, err := tables.Race(props.Race)
		if err != nil {
			return err
		}
		c.race = race
	}
	switch {
	case props.Size != "":
		size, err := content.ParseSize(props.Size)
		if err != nil {
			return err
		}
		c.baseSize = &size
	case c.race != nil:
		size := c.race.Size
		c.baseSize = &size
	}
	return nil
}

// loadLevels resolves classes and distributes an explicit level across
// them, keeping their ratio.
func (c *Creature) loadLevels(tables *content.Tables, props *Properties) error {
	total := 0
	for _, lvl := range props.Levels {
		total += lvl
	}

	c.levels = make(map[string]int, len(props.Levels))
	switch {
	case props.Level == 0:
		c.level = total
		for name, lvl := range props.Levels {
			c.levels[name] = lvl
		}
	case props.Level < total:
		return errors.LevelSplit("level %d is too low for multiclass levels %v", props.Level, props.Levels)
	default:
		c.level = props.Level
		sum := 0
		for name, lvl := range props.Levels {
			c.levels[name] = lvl * props.Level / total
			sum += c.levels[name]
		}
		if sum != props.Level {
			return errors.LevelSplit("level %d cannot be split exactly across %v", props.Level, props.Levels)
		}
	}

	c.classes = make(map[string]*content.Class, len(c.levels))
	for name := range c.levels {
		class, err := tables.Class(name)
		if err != nil {
			return err
		}
		if !class.HasDefenses() {
			// monster classes take their defenses from the monster type
			if c.monsterType == nil {
				return errors.FailedPreconditionf("class %s requires a monster type", name)
			}
			inherited := *class
			inherited.Fortitude = c.monsterType.Fortitude
			inherited.Reflex = c.monsterType.Reflex
			inherited.Mental = c.monsterType.Mental
			class = &inherited
		}
		c.classes[name] = class
	}

	switch {
	case props.BaseClass != "":
		base, ok := c.classes[props.BaseClass]
		if !ok {
			return errors.InvalidArgumentf("base class %s is not one of the creature's classes", props.BaseClass)
		}
		c.baseClass = base
	case len(c.classes) == 1:
		for _, class := range c.classes {
			c.baseClass = class
		}
	default:
		return errors.InvalidArgument("no base class given for a multiclass creature")
	}
	return nil
}

func (c *Creature) loadEquipment(tables *content.Tables, props *Properties) error {
	if props.Armor != "" {
		armor, err := tables.Armor(props.Armor)
		if err != nil {
			return err
		}
		c.armor = armor
	}
	if props.Shield != "" {
		shield, err := tables.Shield(props.Shield)
		if err != nil {
			return err
		}
		c.shield = shield
	}
	for _, name := range props.Weapons {
		weapon, err := tables.Weapon(name)
		if err != nil {
			return err
		}
		c.weapons = append(c.weapons, weapon)
	}
	return nil
}

func (c *Creature) loadAttack(tables *content.Tables, props *Properties) error {
	c.attackType = props.AttackType
	if c.attackType == "" {
		c.attackType = content.AttackPhysical
	}
	if len(c.weapons) == 0 {
		weapon, err := tables.Weapon(unarmed)
		if err != nil {
			return err
		}
		c.weapons = append(c.weapons, weapon)
	}
	switch c.attackType {
	case content.AttackPhysical:
	case content.AttackSpell:
		spell, err := tables.Spell(props.SpecialAttackName)
		if err != nil {
			return err
		}
		c.spell = spell
	default:
		return errors.InvalidAttackType(string(c.attackType))
	}
	return nil
}

func (c *Creature) loadSkills(tables *content.Tables, props *Properties) error {
	for name, points := range props.SkillPoints {
		skill, err := tables.Skill(name)
		if err != nil {
			return err
		}
		c.skills[name] = skill
		c.skillPoints[name] = points
	}
	return nil
}

// loadAbilities adds abilities in their fixed order: monster type, class
// features, feats, subtraits, templates, traits and finally the automatic
// abilities.
func (c *Creature) loadAbilities(props *Properties) error {
	var refs []content.AbilityRef
	if c.monsterType != nil {
		refs = append(refs, c.monsterType.Abilities...)
	}
	classNames := make([]string, 0, len(c.classes))
	for name := range c.classes {
		classNames = append(classNames, name)
	}
	sort.Strings(classNames)
	for _, name := range classNames {
		refs = append(refs, c.classes[name].ClassFeatures...)
	}
	refs = append(refs, props.Feats...)
	refs = append(refs, props.Subtraits...)

	// duplicate templates raise the challenge rating without repeating effects
	seen := make(map[string]bool, len(props.Templates))
	for _, t := range props.Templates {
		c.templates = append(c.templates, t.Name)
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		refs = append(refs, t)
	}

	refs = append(refs, props.Traits...)
	for _, name := range ability.Automatic {
		refs = append(refs, content.Ref(name))
	}

	for _, ref := range refs {
		if err := c.AddAbilityByName(ref.Name, ref.Strength); err != nil {
			return err
		}
	}
	return nil
}

const unarmed = "no weapon"

// AddAbility appends a to the ability list and clears every cached
// statistic.
func (c *Creature) AddAbility(a *ability.Ability) {
	c.abilities = append(c.abilities, a)
	c.clearCache()
}

// AddAbilityByName looks the ability up in the creature's catalog and adds it.
func (c *Creature) AddAbilityByName(name string, strength *int) error {
	a, err := c.catalog.ByName(name, strength)
	if err != nil {
		return err
	}
	c.AddAbility(a)
	return nil
}

// HasAbility reports whether an ability with the given name was added.
func (c *Creature) HasAbility(name string) bool {
	for _, a := range c.abilities {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Abilities returns the ability list in insertion order.
func (c *Creature) Abilities() []*ability.Ability {
	return append([]*ability.Ability(nil), c.abilities...)
}

// ActiveAbilities returns the abilities whose prerequisite currently holds.
func (c *Creature) ActiveAbilities() []*ability.Ability {
	var active []*ability.Ability
	for _, a := range c.abilities {
		if a.Active(c) {
			active = append(active, a)
		}
	}
	return active
}

// VisibleAbilities returns the active abilities shown in stat blocks.
func (c *Creature) VisibleAbilities() []*ability.Ability {
	var visible []*ability.Ability
	for _, a := range c.ActiveAbilities() {
		if !a.HasTag(ability.TagHidden) {
			visible = append(visible, a)
		}
	}
	return visible
}

// GetID returns the creature's unique ID
func (c *Creature) GetID() string {
	return c.id
}

// GetType returns the entity type for rpg-toolkit
func (c *Creature) GetType() string {
	return "creature"
}

// Name is the creature's display name.
func (c *Creature) Name() string {
	return c.name
}

// Level is the creature's total level.
func (c *Creature) Level() int {
	return c.level
}

// ClassLevel is the creature's level in one class, zero if it has none.
func (c *Creature) ClassLevel(class string) int {
	return c.levels[class]
}

// ChallengeRating is the number of templates, counting duplicates, or 1.
func (c *Creature) ChallengeRating() int {
	if len(c.templates) == 0 {
		return 1
	}
	return len(c.templates)
}

// AttackType reports whether the creature attacks with weapons or spells.
func (c *Creature) AttackType() content.AttackType {
	return c.attackType
}

// SpellName is the special attack a spell attacker casts.
func (c *Creature) SpellName() string {
	if c.spell == nil {
		return ""
	}
	return c.spell.Name
}
