package creature

import (
	"sort"

	"github.com/KirkDiggler/rise-gen/internal/ability"
	"github.com/KirkDiggler/rise-gen/internal/content"
	"github.com/KirkDiggler/rise-gen/internal/dice"
)

// Base values that abilities fold onto.
const (
	baseCriticalThreshold  = 20
	baseCriticalMultiplier = 2
	baseDefense            = 10
	baseAccuracy           = 4
)

// cached returns the memoized value for key, computing it on a miss.
func cached[T any](c *Creature, key string, compute func() T) T {
	if v, ok := c.cache[key]; ok {
		return v.(T)
	}
	v := compute()
	c.cache[key] = v
	return v
}

func (c *Creature) clearCache() {
	c.cache = make(map[string]any)
}

func fold[T any](c *Creature, t ability.Tag, base T) T {
	return ability.Fold(c, c.abilities, t, base)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// modifier is the small bonus a high attribute grants on top of its value.
func modifier(value int) int {
	if value >= 0 {
		return value / 5
	}
	return floorDiv(value, 2)
}

// attributeProgression scales a starting attribute with level.
func attributeProgression(start, level int) int {
	switch start {
	case 1:
		return level/4 + 1
	case 2:
		return level/2 + 2
	case 3:
		return 3*level/4 + 3
	case 4:
		return level + 3
	case 5:
		return level + 4
	}
	return start
}

// Attribute returns a core attribute. Dexterity is halved under medium or
// heavy armor.
func (c *Creature) Attribute(a content.Attribute) int {
	return cached(c, "attribute:"+string(a), func() int {
		base := 0
		if start, ok := c.attributes[a]; ok {
			base = attributeProgression(start, c.level)
		}
		value := base
		if t, err := ability.AttributeTag(a); err == nil {
			value = fold(c, t, base)
		}
		if a == content.Dexterity {
			if armor := c.Armor(); armor != nil && (armor.Encumbrance == content.EncumbranceMedium || armor.Encumbrance == content.EncumbranceHeavy) {
				value = floorDiv(value, 2)
			}
		}
		return value
	})
}

// Attribute shortcuts.

func (c *Creature) Strength() int     { return c.Attribute(content.Strength) }
func (c *Creature) Dexterity() int    { return c.Attribute(content.Dexterity) }
func (c *Creature) Constitution() int { return c.Attribute(content.Constitution) }
func (c *Creature) Intelligence() int { return c.Attribute(content.Intelligence) }
func (c *Creature) Perception() int   { return c.Attribute(content.Perception) }
func (c *Creature) Willpower() int    { return c.Attribute(content.Willpower) }

// CombatProwess follows the base class progression.
func (c *Creature) CombatProwess() int {
	return cached(c, "combat prowess", func() int {
		return fold(c, ability.TagCombatProwess, c.baseClass.CombatProwess.CombatProwess(c.level))
	})
}

// Weapon returns a copy of the primary weapon after weapon effects.
func (c *Creature) Weapon() *content.Weapon {
	return cached(c, "weapon", func() *content.Weapon {
		if len(c.weapons) == 0 {
			return nil
		}
		return fold(c, ability.TagWeapon, c.weapons[0].Copy())
	}).Copy()
}

// Armor returns a copy of the worn armor after armor effects, or nil.
func (c *Creature) Armor() *content.Armor {
	return cached(c, "armor", func() *content.Armor {
		if c.armor == nil {
			return nil
		}
		return fold(c, ability.TagArmor, c.armor.Copy())
	}).Copy()
}

// Shield returns the carried shield, or nil.
func (c *Creature) Shield() *content.Shield {
	return c.shield
}

func (c *Creature) shieldBonus() int {
	if c.shield == nil {
		return 0
	}
	return c.shield.Bonus
}

// Accuracy is the bonus added to attack rolls.
func (c *Creature) Accuracy() int {
	return cached(c, "accuracy", func() int {
		if c.attackType == content.AttackSpell {
			return fold(c, ability.TagAccuracy, c.level+min(4, 1+c.level/4))
		}
		finesse := 0
		if w := c.Weapon(); w != nil && w.Encumbrance == content.EncumbranceLight {
			finesse = c.Dexterity()
		}
		base := baseAccuracy + max(c.CombatProwess(), c.Strength(), finesse) + modifier(c.Perception())
		return fold(c, ability.TagAccuracy, base)
	})
}

// AttackCount is the number of strikes in one physical action.
func (c *Creature) AttackCount() int {
	return cached(c, "attack count", func() int {
		if c.attackType == content.AttackSpell {
			return 1
		}
		return fold(c, ability.TagAttackCount, 1+floorDiv(c.CombatProwess()-1, 5))
	})
}

// DamageBonus is added to every damage roll.
func (c *Creature) DamageBonus() int {
	return cached(c, "damage bonus", func() int {
		if c.attackType == content.AttackSpell {
			return fold(c, ability.TagSpellDamageBonus, 0)
		}
		strength := c.Strength()
		base := floorDiv(max(strength, c.CombatProwess()), 2) + modifier(strength)
		if w := c.Weapon(); w != nil && w.Encumbrance == content.EncumbranceHeavy {
			base++
		}
		return fold(c, ability.TagPhysicalDamageBonus, base)
	})
}

// DamageDice returns a copy of the dice rolled for each damage instance.
func (c *Creature) DamageDice() *dice.Pool {
	return cached(c, "damage dice", func() *dice.Pool {
		if c.attackType == content.AttackSpell {
			return fold(c, ability.TagMagicalDamageDice, c.spell.Dice.Copy())
		}
		weaponDice := dice.NewPool()
		if w := c.Weapon(); w != nil {
			weaponDice = w.Dice.Copy()
		}
		weaponDice = fold(c, ability.TagWeaponDamageDice, weaponDice)
		return fold(c, ability.TagPhysicalDamageDice, weaponDice)
	}).Copy()
}

// FirstHitDamageDice returns a copy of the dice added once per action,
// to its first damage instance.
func (c *Creature) FirstHitDamageDice() *dice.Pool {
	return cached(c, "first hit damage dice", func() *dice.Pool {
		return fold(c, ability.TagFirstHitDamageDice, dice.NewPool())
	}).Copy()
}

// CriticalThreshold is the natural roll at or above which a hit is critical.
func (c *Creature) CriticalThreshold() int {
	return c.intStatistic(ability.TagCriticalThreshold, baseCriticalThreshold)
}

// CriticalMultiplier is the number of damage instances on a critical hit.
func (c *Creature) CriticalMultiplier() int {
	return c.intStatistic(ability.TagCriticalMultiplier, baseCriticalMultiplier)
}

// DamageReduction is absorbed from incoming damage each round.
func (c *Creature) DamageReduction() int {
	return c.intStatistic(ability.TagDamageReduction, 0)
}

// TemporaryHitPoints are added to hit points when combat starts.
func (c *Creature) TemporaryHitPoints() int {
	return c.intStatistic(ability.TagTemporaryHitPoints, 0)
}

// Spellpower is the creature's spellcasting strength.
func (c *Creature) Spellpower() int {
	return c.intStatistic(ability.TagSpellpower, 0)
}

// ExtraRounds is the number of rounds the creature acts before initiative.
func (c *Creature) ExtraRounds() int {
	return c.intStatistic(ability.TagExtraRounds, 0)
}

func (c *Creature) intStatistic(t ability.Tag, base int) int {
	return cached(c, t.String(), func() int {
		return fold(c, t, base)
	})
}

// ArmorDefense is the defense against physical attacks.
func (c *Creature) ArmorDefense() int {
	return cached(c, "armor defense", func() int {
		dex := c.Dexterity()
		base := baseDefense + max(c.CombatProwess(), dex, c.Constitution()) + modifier(dex)
		if armor := c.Armor(); armor != nil {
			base += armor.Bonus
		}
		base += c.shieldBonus()
		return fold(c, ability.TagArmorDefense, base)
	})
}

// Fortitude defends against attacks on the body.
func (c *Creature) Fortitude() int {
	return cached(c, "fortitude", func() int {
		base := baseDefense + max(c.Constitution(), c.level) + c.baseClass.Fortitude.DefenseBonus()
		return fold(c, ability.TagFortitude, base)
	})
}

// Mental defends against attacks on the mind.
func (c *Creature) Mental() int {
	return cached(c, "mental", func() int {
		base := baseDefense + max(c.Willpower(), c.level) + c.baseClass.Mental.DefenseBonus()
		return fold(c, ability.TagMental, base)
	})
}

// Reflex defends against area attacks.
func (c *Creature) Reflex() int {
	return cached(c, "reflex", func() int {
		base := baseDefense + max(c.Dexterity(), c.level) + c.baseClass.Reflex.DefenseBonus() + c.shieldBonus()
		return fold(c, ability.TagReflex, base)
	})
}

// LowestDefense is the weakest of fortitude, mental and reflex.
func (c *Creature) LowestDefense() int {
	return min(c.Fortitude(), c.Mental(), c.Reflex())
}

// HitPoints is the creature's maximum hit points.
func (c *Creature) HitPoints() int {
	return cached(c, "hit points", func() int {
		return fold(c, ability.TagHitPoints, c.Fortitude()+(4+c.level/4)*c.level)
	})
}

// Speed is the land speed in feet.
func (c *Creature) Speed() int {
	return cached(c, "speed", func() int {
		base, ok := c.speeds["land"]
		if !ok {
			if c.race != nil && c.race.LandSpeed > 0 {
				base = c.race.LandSpeed
			} else {
				base = c.Size().DefaultLandSpeed()
			}
		}
		return fold(c, ability.TagSpeed, base)
	})
}

// Size is the creature's size category.
func (c *Creature) Size() content.Size {
	return cached(c, "size", func() content.Size {
		base := content.SizeMedium
		if c.baseSize != nil {
			base = *c.baseSize
		}
		return fold(c, ability.TagSize, base)
	})
}

// Reach is the distance the creature threatens in feet.
func (c *Creature) Reach() int {
	return c.Size().Reach()
}

// Space is the width the creature occupies in feet.
func (c *Creature) Space() int {
	return c.Size().Space()
}

// Power measures a monster's overall strength.
func (c *Creature) Power() int {
	return cached(c, "power", func() int {
		return fold(c, ability.TagPower, c.level+c.ChallengeRating())
	})
}

// EncumbrancePenalty is subtracted from physical skills. It is never negative.
func (c *Creature) EncumbrancePenalty() int {
	return cached(c, "encumbrance penalty", func() int {
		penalty := 0
		if armor := c.Armor(); armor != nil {
			penalty = armor.EncumbrancePenalty
		}
		return max(0, fold(c, ability.TagEncumbrancePenalty, penalty))
	})
}

// Skill returns the modifier for the named skill. Skills without points
// are 0.
func (c *Creature) Skill(name string) int {
	return cached(c, "skill:"+name, func() int {
		skill, ok := c.skills[name]
		points := c.skillPoints[name]
		if !ok || points == 0 {
			return 0
		}

		var value int
		switch points {
		case 1:
			value = c.level/2 + 1
		case 2:
			value = c.level + 2
		default:
			value = points
		}
		value += floorDiv(c.Attribute(skill.Attribute), 2)
		if skill.EncumbrancePenalty {
			value -= c.EncumbrancePenalty()
		}
		if t, err := ability.SkillTag(name); err == nil {
			value = fold(c, t, value)
		}
		return value
	})
}

// SkillNames lists the skills the creature has points in.
func (c *Creature) SkillNames() []string {
	names := make([]string, 0, len(c.skills))
	for name := range c.skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActionCount draws the number of actions the creature takes this turn.
// Challenge rating 2 creatures act once or twice with equal odds.
func (c *Creature) ActionCount(roller dice.Roller) (int, error) {
	cr := c.ChallengeRating()
	if cr == 2 {
		return roller.Roll(2)
	}
	return max(1, cr-1), nil
}
