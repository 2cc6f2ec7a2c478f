package ability

import (
	"github.com/KirkDiggler/rise-gen/internal/content"
	"github.com/KirkDiggler/rise-gen/internal/errors"
)

// Tag identifies a derived statistic an effect folds into.
type Tag int

const (
	tagInvalid Tag = iota

	TagAccuracy
	TagArmor
	TagArmorDefense
	TagAttackCount
	TagCombatProwess
	TagCriticalMultiplier
	TagCriticalThreshold
	TagDamageReduction
	TagEncumbrancePenalty
	TagEndOfRound
	TagExtraRounds
	TagFirstHitDamageDice
	TagFortitude
	TagHitPoints
	TagMagicalDamageDice
	TagMental
	TagPhysicalDamageBonus
	TagPhysicalDamageDice
	TagPower
	TagReflex
	TagSize
	TagSpeed
	TagSpellDamageBonus
	TagSpellpower
	TagTemporaryHitPoints
	TagWeapon
	TagWeaponDamageDice

	TagStrength
	TagDexterity
	TagConstitution
	TagIntelligence
	TagPerception
	TagWillpower

	TagAwareness
	TagBalance
	TagClimb
	TagCraft
	TagCreatureHandling
	TagDeception
	TagEscapeArtist
	TagIntimidate
	TagJump
	TagKnowledge
	TagPersuasion
	TagRide
	TagSenseMotive
	TagSleightOfHand
	TagSpellcraft
	TagStealth
	TagSurvival
	TagSwim

	tagCount
)

// Kind is the value type a tagged statistic carries through its fold.
type Kind int

const (
	KindNone Kind = iota
	KindInt
	KindDice
	KindSize
	KindWeapon
	KindArmor
)

func (k Kind) String() string {
	return [...]string{"none", "int", "dice", "size", "weapon", "armor"}[k]
}

var tagNames = map[Tag]string{
	TagAccuracy:            "accuracy",
	TagArmor:               "armor",
	TagArmorDefense:        "armor defense",
	TagAttackCount:         "attack count",
	TagCombatProwess:       "combat prowess",
	TagCriticalMultiplier:  "critical multiplier",
	TagCriticalThreshold:   "critical threshold",
	TagDamageReduction:     "damage reduction",
	TagEncumbrancePenalty:  "encumbrance penalty",
	TagEndOfRound:          "end of round",
	TagExtraRounds:         "extra rounds",
	TagFirstHitDamageDice:  "first hit damage dice",
	TagFortitude:           "fortitude",
	TagHitPoints:           "hit points",
	TagMagicalDamageDice:   "magical damage dice",
	TagMental:              "mental",
	TagPhysicalDamageBonus: "physical damage bonus",
	TagPhysicalDamageDice:  "physical damage dice",
	TagPower:               "power",
	TagReflex:              "reflex",
	TagSize:                "size",
	TagSpeed:               "speed",
	TagSpellDamageBonus:    "spell damage bonus",
	TagSpellpower:          "spellpower",
	TagTemporaryHitPoints:  "temporary hit points",
	TagWeapon:              "weapon",
	TagWeaponDamageDice:    "weapon damage dice",

	TagStrength:     string(content.Strength),
	TagDexterity:    string(content.Dexterity),
	TagConstitution: string(content.Constitution),
	TagIntelligence: string(content.Intelligence),
	TagPerception:   string(content.Perception),
	TagWillpower:    string(content.Willpower),

	TagAwareness:        "awareness",
	TagBalance:          "balance",
	TagClimb:            "climb",
	TagCraft:            "craft",
	TagCreatureHandling: "creature handling",
	TagDeception:        "deception",
	TagEscapeArtist:     "escape artist",
	TagIntimidate:       "intimidate",
	TagJump:             "jump",
	TagKnowledge:        "knowledge",
	TagPersuasion:       "persuasion",
	TagRide:             "ride",
	TagSenseMotive:      "sense motive",
	TagSleightOfHand:    "sleight of hand",
	TagSpellcraft:       "spellcraft",
	TagStealth:          "stealth",
	TagSurvival:         "survival",
	TagSwim:             "swim",
}

var tagsByName = func() map[string]Tag {
	m := make(map[string]Tag, len(tagNames))
	for t, name := range tagNames {
		m[name] = t
	}
	return m
}()

// ParseTag maps a statistic name onto its Tag.
func ParseTag(name string) (Tag, error) {
	t, ok := tagsByName[name]
	if !ok {
		return tagInvalid, errors.InvalidEffectTag(name)
	}
	return t, nil
}

// AttributeTag returns the tag for a core attribute.
func AttributeTag(a content.Attribute) (Tag, error) {
	t, err := ParseTag(string(a))
	if err != nil || !t.IsAttribute() {
		return tagInvalid, errors.InvalidEffectTag(string(a))
	}
	return t, nil
}

// SkillTag returns the tag for a skill name.
func SkillTag(name string) (Tag, error) {
	t, err := ParseTag(name)
	if err != nil || !t.IsSkill() {
		return tagInvalid, errors.InvalidEffectTag(name)
	}
	return t, nil
}

// Valid reports whether t is in the vocabulary.
func (t Tag) Valid() bool {
	return t > tagInvalid && t < tagCount
}

// IsAttribute reports whether t names a core attribute.
func (t Tag) IsAttribute() bool {
	return t >= TagStrength && t <= TagWillpower
}

// IsSkill reports whether t names a skill.
func (t Tag) IsSkill() bool {
	return t >= TagAwareness && t <= TagSwim
}

// Kind is the value type of the statistic.
func (t Tag) Kind() Kind {
	switch {
	case !t.Valid() || t == TagEndOfRound:
		return KindNone
	case t == TagFirstHitDamageDice || t == TagMagicalDamageDice ||
		t == TagPhysicalDamageDice || t == TagWeaponDamageDice:
		return KindDice
	case t == TagSize:
		return KindSize
	case t == TagWeapon:
		return KindWeapon
	case t == TagArmor:
		return KindArmor
	default:
		return KindInt
	}
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "invalid"
}
