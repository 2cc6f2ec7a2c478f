package creature

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/rise-gen/internal/content"
)

// String renders a compact stat block.
func (c *Creature) String() string {
	lines := []string{
		strings.TrimSpace(fmt.Sprintf("%s %s %s", c.kind(), c.name, c.levelsLine())),
		c.defensesLine(),
		c.attackLine(),
		c.attributesLine(),
		fmt.Sprintf("[Space] %d, [Reach] %d, [Speed] %d", c.Space(), c.Reach(), c.Speed()),
		c.abilitiesLine(),
	}
	return strings.Join(lines, "\n")
}

func (c *Creature) kind() string {
	switch {
	case c.race != nil:
		return c.race.Name
	case c.monsterType != nil:
		return c.monsterType.Name
	}
	return ""
}

func (c *Creature) levelsLine() string {
	parts := make([]string, 0, len(c.levels))
	for name, lvl := range c.levels {
		if name == c.baseClass.Name {
			name = strings.ToUpper(name[:1]) + name[1:]
		}
		parts = append(parts, fmt.Sprintf("%s %d", name, lvl))
	}
	sort.Strings(parts)
	text := strings.Join(parts, ", ")
	if cr := c.ChallengeRating(); cr != 1 {
		text += fmt.Sprintf(" [CR %d]", cr)
	}
	return text
}

func (c *Creature) defensesLine() string {
	hp := fmt.Sprintf("[HP] %d", c.HitPoints())
	if temp := c.TemporaryHitPoints(); temp != 0 {
		hp += fmt.Sprintf(" (%d)", c.HitPoints()+temp)
	}
	text := fmt.Sprintf("%s; [Defs] AD %d; Fort %d, Ref %d, Ment %d",
		hp, c.ArmorDefense(), c.Fortitude(), c.Reflex(), c.Mental())
	if dr := c.DamageReduction(); dr != 0 {
		text += fmt.Sprintf("\n    [DR] %d", dr)
	}
	return text
}

func (c *Creature) attackLine() string {
	damage := c.DamageDice()
	damage.Bonus += c.DamageBonus()
	text := fmt.Sprintf("[Atk] %+d: %s", c.Accuracy(), damage)
	if c.attackType == content.AttackSpell {
		text += fmt.Sprintf(" (%s)", c.SpellName())
	} else if w := c.Weapon(); w != nil {
		text += fmt.Sprintf(" (%s)", w.Name)
	}
	if n := c.AttackCount(); n > 1 {
		text += fmt.Sprintf(" x%d", n)
	}
	return text + fmt.Sprintf("; [Prowess] %d", c.CombatProwess())
}

func (c *Creature) attributesLine() string {
	values := make([]string, len(content.Attributes))
	for i, a := range content.Attributes {
		values[i] = fmt.Sprint(c.Attribute(a))
	}
	return "[Attr] " + strings.Join(values, " ")
}

func (c *Creature) abilitiesLine() string {
	var names []string
	for _, a := range c.VisibleAbilities() {
		names = append(names, a.String())
	}
	sort.Strings(names)
	return "[Abil] " + strings.Join(names, ", ")
}
