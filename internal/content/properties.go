package content

// Properties is the declarative description of a creature. Sample
// creatures are stored in this shape.
type Properties struct {
	Name              string            `yaml:"-"`
	Levels            map[string]int    `yaml:"levels"`
	Level             int               `yaml:"level"`
	BaseClass         string            `yaml:"base class"`
	MonsterType       string            `yaml:"monster type"`
	Race              string            `yaml:"race"`
	Size              string            `yaml:"size"`
	Attributes        map[Attribute]int `yaml:"attributes"`
	Armor             string            `yaml:"armor"`
	Shield            string            `yaml:"shield"`
	Weapons           []string          `yaml:"weapons"`
	AttackType        AttackType        `yaml:"attack type"`
	SpecialAttackName string            `yaml:"special attack name"`
	Speeds            map[string]int    `yaml:"speeds"`
	SkillPoints       map[string]int    `yaml:"skill points"`
	Feats             []AbilityRef      `yaml:"feats"`
	Subtraits         []AbilityRef      `yaml:"subtraits"`
	Templates         []AbilityRef      `yaml:"templates"`
	Traits            []AbilityRef      `yaml:"traits"`
	Description       string            `yaml:"description"`
}

// Copy returns a deep copy, so callers can adjust a sample without
// touching the shared table.
func (p *Properties) Copy() *Properties {
	cp := *p
	cp.Levels = copyMap(p.Levels)
	cp.Attributes = copyMap(p.Attributes)
	cp.Speeds = copyMap(p.Speeds)
	cp.SkillPoints = copyMap(p.SkillPoints)
	cp.Weapons = append([]string(nil), p.Weapons...)
	cp.Feats = append([]AbilityRef(nil), p.Feats...)
	cp.Subtraits = append([]AbilityRef(nil), p.Subtraits...)
	cp.Templates = append([]AbilityRef(nil), p.Templates...)
	cp.Traits = append([]AbilityRef(nil), p.Traits...)
	return &cp
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
