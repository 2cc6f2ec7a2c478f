package errors

// MetaReason is the metadata key holding a definition error's reason tag.
const MetaReason = "reason"

// Reason tags for content definition failures. These are never retried;
// they point at a broken creature or ability definition.
const (
	ReasonUnknownAbility    = "unknown_ability"
	ReasonInvalidEffectTag  = "invalid_effect_tag"
	ReasonInvalidAttackType = "invalid_attack_type"
	ReasonUnrecognizedSpell = "unrecognized_spell"
	ReasonLevelSplit        = "level_split"
	ReasonUnknownContent    = "unknown_content"
)

// UnknownAbility reports a lookup of an ability the catalog does not define
func UnknownAbility(name string) *Error {
	return NotFoundf("unable to recognize ability '%s'", name).
		WithReason(ReasonUnknownAbility).
		WithMeta("ability", name)
}

// InvalidEffectTag reports an effect tagged outside the statistic vocabulary
func InvalidEffectTag(tag string) *Error {
	return InvalidArgumentf("unable to recognize effect tag '%s'", tag).
		WithReason(ReasonInvalidEffectTag).
		WithMeta("tag", tag)
}

// InvalidAttackType reports an attack type other than physical or spell
func InvalidAttackType(attackType string) *Error {
	return InvalidArgumentf("invalid attack type '%s'", attackType).
		WithReason(ReasonInvalidAttackType).
		WithMeta("attack_type", attackType)
}

// UnrecognizedSpell reports a spell attacker naming a spell with no damage rule
func UnrecognizedSpell(name string) *Error {
	return NotFoundf("unrecognized spell '%s'", name).
		WithReason(ReasonUnrecognizedSpell).
		WithMeta("spell", name)
}

// UnknownContent reports a content table lookup miss, e.g. "unrecognized weapon 'x'"
func UnknownContent(kind, name string) *Error {
	return NotFoundf("unrecognized %s '%s'", kind, name).
		WithReason(ReasonUnknownContent).
		WithMeta("kind", kind).
		WithMeta("name", name)
}

// LevelSplit reports a multiclass level that cannot be distributed exactly
func LevelSplit(format string, args ...any) *Error {
	return FailedPreconditionf(format, args...).WithReason(ReasonLevelSplit)
}
