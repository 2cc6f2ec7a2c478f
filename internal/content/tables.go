// Package content loads the declarative rules tables: classes, monster
// types, races, equipment, skills, spells and sample creatures.
package content

import (
	"embed"
	"io"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rise-gen/internal/dice"
	"github.com/KirkDiggler/rise-gen/internal/errors"
)

//go:embed data/*.yaml
var embedded embed.FS

// Tables holds every content table keyed by name. It is read-only once
// loaded and safe to share across goroutines.
type Tables struct {
	classes      map[string]*Class
	monsterTypes map[string]*MonsterType
	races        map[string]*Race
	weapons      map[string]*Weapon
	armor        map[string]*Armor
	shields      map[string]*Shield
	skills       map[string]*Skill
	spells       map[string]*Spell
	creatures    map[string]*Properties
}

// Load decodes the tables bundled with the binary.
func Load() (*Tables, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open embedded content")
	}
	return LoadFS(sub)
}

// LoadDir decodes tables from a directory with the same file layout as
// the bundled data.
func LoadDir(dir string) (*Tables, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS decodes classes.yaml, monster_types.yaml, races.yaml,
// weapons.yaml, armor.yaml, shields.yaml, skills.yaml, spells.yaml and
// creatures.yaml from fsys.
func LoadFS(fsys fs.FS) (*Tables, error) {
	t := &Tables{}
	steps := []struct {
		file   string
		decode func(io.Reader) error
	}{
		{"classes.yaml", func(r io.Reader) (err error) { t.classes, err = decodeTable[Class](r); return }},
		{"monster_types.yaml", func(r io.Reader) (err error) { t.monsterTypes, err = decodeTable[MonsterType](r); return }},
		{"races.yaml", func(r io.Reader) (err error) { t.races, err = decodeTable[Race](r); return }},
		{"weapons.yaml", func(r io.Reader) (err error) { t.weapons, err = decodeTable[Weapon](r); return }},
		{"armor.yaml", func(r io.Reader) (err error) { t.armor, err = decodeTable[Armor](r); return }},
		{"shields.yaml", func(r io.Reader) (err error) { t.shields, err = decodeTable[Shield](r); return }},
		{"skills.yaml", func(r io.Reader) (err error) { t.skills, err = decodeTable[Skill](r); return }},
		{"spells.yaml", func(r io.Reader) (err error) { t.spells, err = decodeTable[Spell](r); return }},
		{"creatures.yaml", func(r io.Reader) (err error) { t.creatures, err = decodeTable[Properties](r); return }},
	}

	for _, step := range steps {
		f, err := fsys.Open(step.file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", step.file)
		}
		err = step.decode(f)
		_ = f.Close()
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode "+step.file)
		}
	}

	if err := t.finish(); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeTable[T any](r io.Reader) (map[string]*T, error) {
	table := make(map[string]*T)
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil && err != io.EOF {
		return nil, err
	}
	return table, nil
}

// finish sets names from keys, parses dice and checks progressions.
func (t *Tables) finish() error {
	for name, c := range t.classes {
		c.Name = name
		if !c.CombatProwess.valid() {
			return errors.InvalidArgumentf("class %s: invalid combat prowess %q", name, c.CombatProwess)
		}
		if c.HasDefenses() && !(c.Fortitude.valid() && c.Reflex.valid() && c.Mental.valid()) {
			return errors.InvalidArgumentf("class %s: defenses must all be good, average or poor", name)
		}
	}
	for name, m := range t.monsterTypes {
		m.Name = name
		if !(m.Fortitude.valid() && m.Reflex.valid() && m.Mental.valid()) {
			return errors.InvalidArgumentf("monster type %s: defenses must all be good, average or poor", name)
		}
	}
	for name, r := range t.races {
		r.Name = name
	}
	for name, w := range t.weapons {
		w.Name = name
		pool, err := parseLadderDice(w.Die)
		if err != nil {
			return errors.Wrapf(err, "weapon %s", name)
		}
		w.Dice = pool
	}
	for name, a := range t.armor {
		a.Name = name
	}
	for name, s := range t.shields {
		s.Name = name
	}
	for name, s := range t.skills {
		s.Name = name
	}
	for name, s := range t.spells {
		s.Name = name
		pool, err := parseLadderDice(s.Die)
		if err != nil {
			return errors.Wrapf(err, "spell %s", name)
		}
		s.Dice = pool
	}
	for name, p := range t.creatures {
		p.Name = name
	}
	return nil
}

func parseLadderDice(notation string) (*dice.Pool, error) {
	pool, err := dice.Parse(notation)
	if err != nil {
		return nil, err
	}
	for _, d := range pool.Dice {
		if !d.OnLadder() {
			return nil, errors.InvalidArgumentf("die %s cannot be resized", d)
		}
	}
	return pool, nil
}

// Class looks up a class.
func (t *Tables) Class(name string) (*Class, error) {
	return lookup(t.classes, "class", name)
}

// MonsterType looks up a monster type.
func (t *Tables) MonsterType(name string) (*MonsterType, error) {
	return lookup(t.monsterTypes, "monster type", name)
}

// Race looks up a race.
func (t *Tables) Race(name string) (*Race, error) {
	return lookup(t.races, "race", name)
}

// Weapon returns a private copy of the named weapon.
func (t *Tables) Weapon(name string) (*Weapon, error) {
	w, err := lookup(t.weapons, "weapon", name)
	if err != nil {
		return nil, err
	}
	return w.Copy(), nil
}

// Armor returns a private copy of the named armor.
func (t *Tables) Armor(name string) (*Armor, error) {
	a, err := lookup(t.armor, "armor", name)
	if err != nil {
		return nil, err
	}
	return a.Copy(), nil
}

// Shield looks up a shield.
func (t *Tables) Shield(name string) (*Shield, error) {
	return lookup(t.shields, "shield", name)
}

// Skill looks up a skill.
func (t *Tables) Skill(name string) (*Skill, error) {
	return lookup(t.skills, "skill", name)
}

// Spell looks up a spell. Misses report UnrecognizedSpell.
func (t *Tables) Spell(name string) (*Spell, error) {
	s, ok := t.spells[name]
	if !ok {
		return nil, errors.UnrecognizedSpell(name)
	}
	return s, nil
}

// SampleCreature returns a copy of the named sample creature.
func (t *Tables) SampleCreature(name string) (*Properties, error) {
	p, err := lookup(t.creatures, "sample creature", name)
	if err != nil {
		return nil, err
	}
	return p.Copy(), nil
}

// SampleCreatureNames lists the sample creatures in name order.
func (t *Tables) SampleCreatureNames() []string {
	names := make([]string, 0, len(t.creatures))
	for name := range t.creatures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SkillNames lists the skills in name order.
func (t *Tables) SkillNames() []string {
	names := make([]string, 0, len(t.skills))
	for name := range t.skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup[T any](table map[string]*T, kind, name string) (*T, error) {
	v, ok := table[name]
	if !ok {
		return nil, errors.UnknownContent(kind, name)
	}
	return v, nil
}
