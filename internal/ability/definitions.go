package ability

import (
	"github.com/KirkDiggler/rise-gen/internal/content"
	"github.com/KirkDiggler/rise-gen/internal/dice"
)

// Automatic abilities every creature receives after its declared ones.
var Automatic = []string{"size modifiers", "challenge rating", "automatic damage scaling"}

// Definitions returns every built-in ability definition.
func Definitions() []Definition {
	var defs []Definition
	defs = append(defs, classFeatures()...)
	defs = append(defs, feats()...)
	defs = append(defs, misc()...)
	defs = append(defs, templates()...)
	defs = append(defs, traits()...)
	return defs
}

func plus(n int) func(View, int) int {
	return func(_ View, value int) int { return value + n }
}

func minLevel(level int) Prerequisite {
	return func(v View) bool { return v.Level() >= level }
}

func isMelee(v View) bool {
	return !v.Weapon().IsRanged()
}

// resize ignores errors: content loading only admits ladder dice.
func resize(p *dice.Pool, steps int) {
	_ = p.Resize(steps)
}

// levelBonus is the level/5+2 bonus shared by rage and quarry.
func levelBonus(v View) int {
	return v.Level()/5 + 2
}

func classFeatures() []Definition {
	return []Definition{
		// barbarian
		{
			Name: "damage reduction",
			Effects: []Effect{
				Modifier(func(v View, value int) int { return value + v.Level() }, TagDamageReduction),
			},
		},
		{
			Name:         "fast movement",
			Effects:      []Effect{Modifier(plus(10), TagSpeed)},
			Prerequisite: minLevel(2),
		},
		{
			Name: "larger than life",
			Effects: []Effect{
				InPlace(func(_ View, w *content.Weapon) { resize(w.Dice, 2) }, TagWeapon),
			},
			Prerequisite: minLevel(7),
		},
		{
			Name: "larger than belief",
			Effects: []Effect{
				InPlace(func(_ View, w *content.Weapon) { resize(w.Dice, 2) }, TagWeapon),
			},
			Prerequisite: minLevel(16),
		},
		{
			Name: "rage",
			Effects: []Effect{
				Modifier(func(v View, value int) int {
					return max(value, v.Attribute(content.Willpower)*2)
				}, TagTemporaryHitPoints),
				Modifier(func(v View, value int) int {
					return value + levelBonus(v)
				}, TagPhysicalDamageBonus, TagFortitude, TagMental),
				// hit points are derived from fortitude; remove the rage bonus again
				Modifier(func(v View, value int) int {
					return value - levelBonus(v)
				}, TagHitPoints),
				Modifier(plus(-2), TagArmorDefense),
			},
			Prerequisite: minLevel(1),
		},

		// fighter
		{
			Name:         "greater weapon discipline",
			Effects:      []Effect{Modifier(plus(-1), TagCriticalThreshold)},
			Prerequisite: minLevel(15),
		},
		{
			Name:         "improved weapon discipline",
			Effects:      []Effect{Modifier(plus(1), TagCriticalMultiplier)},
			Prerequisite: minLevel(9),
		},
		{
			Name:         "weapon discipline",
			Effects:      []Effect{Modifier(plus(1), TagAccuracy)},
			Prerequisite: minLevel(3),
		},
		{
			Name: "armor discipline (agility)",
			Effects: []Effect{
				Modifier(plus(-2), TagEncumbrancePenalty),
				InPlace(func(v View, a *content.Armor) {
					if a != nil && v.Level() >= 7 {
						a.DecreaseEncumbrance()
					}
				}, TagArmor),
				Modifier(func(v View, value int) int {
					switch {
					case v.Level() >= 13:
						return value + 4
					case v.Level() >= 7:
						return value + 2
					}
					return value
				}, TagArmorDefense),
			},
		},
		{
			Name: "armor discipline (resilience)",
			Effects: []Effect{
				Modifier(plus(1), TagArmorDefense),
				Modifier(func(v View, value int) int {
					if v.Level() >= 7 {
						return value + v.Level()
					}
					return value
				}, TagDamageReduction),
			},
		},

		// ranger
		{
			Name: "quarry",
			Effects: []Effect{
				Modifier(func(v View, value int) int {
					return value + levelBonus(v)
				}, TagPhysicalDamageBonus, TagArmorDefense, TagFortitude, TagReflex, TagMental),
				Modifier(func(v View, value int) int {
					return value - levelBonus(v)
				}, TagHitPoints),
			},
		},

		// rogue
		{
			Name: "sneak attack",
			Effects: []Effect{
				InPlace(func(v View, p *dice.Pool) {
					p.AddDie(dice.NewDie((v.Level()+1)/2, 6))
				}, TagFirstHitDamageDice),
			},
		},

		// casters
		{
			Name: "spell power",
			Effects: []Effect{
				Modifier(func(v View, value int) int { return value + v.Level()/2 + 1 }, TagSpellpower),
				Modifier(func(v View, value int) int { return value + v.Level()/2 }, TagSpellDamageBonus),
			},
		},

		// monster types
		{Name: "limited intelligence", Tags: []string{TagHidden}},
	}
}

func feats() []Definition {
	return []Definition{
		{
			Name: "alertness",
			Effects: []Effect{
				Modifier(plus(2), TagAwareness, TagSenseMotive),
			},
		},
		{
			Name:    "deadly aim",
			Effects: []Effect{Modifier(plus(2), TagPhysicalDamageBonus)},
			Prerequisite: func(v View) bool {
				return v.Attribute(content.Perception) >= 5 && v.Weapon().IsRanged()
			},
		},
		{Name: "dodge"},
		{
			Name:    "heartseeker",
			Effects: []Effect{Modifier(plus(-1), TagCriticalThreshold)},
			Prerequisite: func(v View) bool {
				return v.CombatProwess() >= 8
			},
		},
		{
			Name:    "mighty blows",
			Effects: []Effect{Modifier(plus(1), TagPhysicalDamageBonus)},
			Prerequisite: func(v View) bool {
				return v.Attribute(content.Strength) >= 3 && isMelee(v)
			},
		},
		{
			Name: "power attack",
			Effects: []Effect{
				Modifier(plus(-2), TagAccuracy),
				Modifier(plus(2), TagPhysicalDamageBonus),
			},
			Prerequisite: func(v View) bool {
				return v.Attribute(content.Strength) >= 3 && isMelee(v)
			},
		},
		{
			Name:    "two weapon fighting",
			Effects: []Effect{Modifier(plus(2), TagAccuracy)},
			Prerequisite: func(v View) bool {
				return v.Attribute(content.Dexterity) >= 3 && v.Weapon() != nil && v.Weapon().DualWielding
			},
		},
		{
			Name:    "weapon finesse",
			Effects: []Effect{Modifier(plus(1), TagPhysicalDamageBonus)},
			Prerequisite: func(v View) bool {
				w := v.Weapon()
				return v.Attribute(content.Dexterity) >= 3 && isMelee(v) &&
					w != nil && w.Encumbrance == content.EncumbranceLight
			},
		},
	}
}

func misc() []Definition {
	return []Definition{
		{Name: "darkvision"},
		{
			Name: "magic items",
			Effects: []Effect{
				Modifier(func(v View, value int) int { return value + v.Level()/3 }, TagPhysicalDamageBonus),
				Modifier(func(v View, value int) int {
					return max(value, (v.Level()/3)*v.Level())
				}, TagTemporaryHitPoints),
				InPlace(func(v View, p *dice.Pool) { p.AddCount(0, v.Level()/3) }, TagMagicalDamageDice),
			},
		},
		{
			Name: "size modifiers",
			Effects: []Effect{
				Modifier(func(v View, value int) int {
					return value + v.Size().Modifier()
				}, TagAccuracy, TagArmorDefense, TagReflex),
				InPlace(func(v View, p *dice.Pool) {
					resize(p, v.Size().DamageDiceSteps())
				}, TagWeaponDamageDice),
			},
			Tags: []string{TagHidden},
		},
		{
			Name: "challenge rating",
			Effects: []Effect{
				Modifier(func(v View, value int) int {
					return value * v.ChallengeRating()
				}, TagHitPoints),
			},
			Tags: []string{TagHidden},
		},
		{
			Name: "automatic damage scaling",
			Effects: []Effect{
				InPlace(func(v View, p *dice.Pool) { resize(p, v.Level()/2) }, TagMagicalDamageDice),
			},
			Tags: []string{TagHidden},
		},
		{Name: "extra attack", Effects: []Effect{Modifier(plus(1), TagAttackCount)}},
		{Name: "accuracy", Effects: []Effect{Modifier(plus(1), TagAccuracy)}},
		{Name: "damage bonus", Effects: []Effect{Modifier(plus(1), TagPhysicalDamageBonus)}},
		{Name: "critical multiplier", Effects: []Effect{Modifier(plus(1), TagCriticalMultiplier)}},
	}
}

func templates() []Definition {
	return []Definition{
		{
			Name: "martial",
			Effects: []Effect{
				Modifier(func(v View, _ int) int { return v.Level() + 2 }, TagCombatProwess),
			},
		},
		{
			Name: "summoned monster",
			Effects: []Effect{
				Modifier(func(v View, _ int) int { return v.Level() }, TagCombatProwess),
				Modifier(func(v View, _ int) int {
					return v.Level() + 10
				}, TagArmorDefense, TagFortitude, TagReflex, TagMental),
			},
		},
		{
			Name: "training dummy",
			Effects: []Effect{
				Modifier(func(View, int) int { return 1000 }, TagHitPoints),
				Modifier(func(v View, _ int) int { return v.Level() + 16 }, TagArmorDefense),
				Modifier(func(v View, _ int) int { return v.Level() + 14 }, TagFortitude, TagMental),
				Modifier(func(v View, _ int) int { return v.Level() + 10 }, TagReflex),
			},
		},
		{Name: "elite"},
	}
}

func traits() []Definition {
	defs := []Definition{
		{Name: "ambush", Effects: []Effect{Modifier(plus(1), TagExtraRounds)}},
		{
			Name: "arcanite mech",
			Effects: []Effect{
				Modifier(plus(4), TagFortitude, TagMental),
				Modifier(plus(2), TagStrength, TagConstitution),
				Modifier(func(v View, value int) int { return value + v.Level() }, TagDamageReduction),
			},
		},
		{Name: "arcanite sigil - armor", Effects: []Effect{Modifier(plus(3), TagArmorDefense)}},
		{
			Name: "arcanite sigil - flaming fists",
			Effects: []Effect{
				InPlace(func(v View, p *dice.Pool) {
					p.AddDie(dice.NewDie(v.Level()/2, 6))
				}, TagPhysicalDamageDice),
			},
		},
		{Name: "arcanite sigil - mind control", Effects: []Effect{Modifier(plus(5), TagMental)}},
		{
			Name: "durable",
			Effects: []Effect{
				Modifier(func(v View, value int) int { return value + v.Power()*2 }, TagHitPoints),
			},
		},
		{
			Name: "enlarged",
			Effects: []Effect{
				Modifier(func(_ View, s content.Size) content.Size { return s.Grow(1) }, TagSize),
			},
		},
		{
			Name: "fast healing",
			Effects: []Effect{
				EndOfRound(func(c Combatant) { c.Heal(c.Level()) }),
			},
		},
		{Name: "great fortitude", Effects: []Effect{Modifier(plus(4), TagFortitude)}},
		{
			Name: "natural armor",
			Effects: []Effect{
				Variable(func(_ View, value, strength int) int { return value + strength }, TagArmorDefense),
			},
		},
		{Name: "natural grab"},
		{Name: "tough hide", Effects: []Effect{Modifier(plus(2), TagArmorDefense)}},
	}

	// traits with no effect on derived statistics
	for _, name := range []string{
		"amphibious", "babble", "divine influence", "enslave", "incorporeal",
		"mucus cloud", "no strength", "no constitution", "psionics", "slime",
		"spell resistance", "tongues",
	} {
		defs = append(defs, Definition{Name: name})
	}
	return defs
}
