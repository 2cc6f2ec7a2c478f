package creature

import (
	"github.com/KirkDiggler/rise-gen/internal/ability"
)

// combatState is the part of a creature that changes while it fights.
type combatState struct {
	currentHitPoints         int
	availableDamageReduction int
	zeroThreshold            bool
	damageTakenThisRound     int
}

// RefreshCombat restores the creature for a new fight: full hit points
// plus temporary hit points, fresh damage reduction and an armed zero
// threshold.
func (c *Creature) RefreshCombat() {
	c.currentHitPoints = c.HitPoints() + c.TemporaryHitPoints()
	c.availableDamageReduction = c.DamageReduction()
	c.zeroThreshold = true
	c.damageTakenThisRound = 0
}

// RefreshRound closes a round. End of round effects run first, so healing
// can lift a creature back above 0 before the zero threshold is checked.
// Damage reduction is then restored, and the zero threshold decides
// whether a creature at or below 0 hit points is held at exactly 0.
// The threshold protects only the first round at or below 0, and never
// against more damage in one round than the creature's maximum hit points.
func (c *Creature) RefreshRound() {
	ability.RunEndOfRound(c, c.abilities)
	c.availableDamageReduction = c.DamageReduction()
	if c.currentHitPoints <= 0 {
		if c.zeroThreshold && c.damageTakenThisRound <= c.HitPoints() {
			c.currentHitPoints = 0
		}
		c.zeroThreshold = false
	} else {
		c.zeroThreshold = true
	}
	c.damageTakenThisRound = 0
}

// TakeDamage applies damage after damage reduction and returns the hit
// points actually lost.
func (c *Creature) TakeDamage(damage int) int {
	if damage <= 0 {
		return 0
	}
	absorbed := min(damage, c.availableDamageReduction)
	c.availableDamageReduction -= absorbed
	damage -= absorbed

	c.currentHitPoints -= damage
	c.damageTakenThisRound += damage
	return damage
}

// Heal restores hit points up to the maximum. Hit points already above
// the maximum, from temporary hit points, are kept.
func (c *Creature) Heal(hitPoints int) {
	c.currentHitPoints = max(c.currentHitPoints, min(c.HitPoints(), c.currentHitPoints+hitPoints))
}

// IsAlive reports whether the creature has 0 or more hit points.
func (c *Creature) IsAlive() bool {
	return c.currentHitPoints >= 0
}

// CurrentHitPoints returns the creature's remaining hit points.
func (c *Creature) CurrentHitPoints() int {
	return c.currentHitPoints
}

// AvailableDamageReduction is the damage reduction left this round.
func (c *Creature) AvailableDamageReduction() int {
	return c.availableDamageReduction
}

// ZeroThreshold reports whether the zero threshold can still hold the
// creature at 0 hit points.
func (c *Creature) ZeroThreshold() bool {
	return c.zeroThreshold
}

// DamageTakenThisRound is the damage that got past damage reduction this round.
func (c *Creature) DamageTakenThisRound() int {
	return c.damageTakenThisRound
}
