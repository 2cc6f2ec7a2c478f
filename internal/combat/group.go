package combat

import (
	"github.com/KirkDiggler/rise-gen/internal/creature"
)

// Group is an ordered list of creatures fighting as one side.
type Group struct {
	creatures []*creature.Creature
}

// NewGroup returns a group acting in the given order.
func NewGroup(creatures ...*creature.Creature) *Group {
	return &Group{creatures: append([]*creature.Creature(nil), creatures...)}
}

// Creatures returns the group members in acting order.
func (g *Group) Creatures() []*creature.Creature {
	return g.creatures
}

// FirstLiving returns the first listed creature that is still alive, or
// nil when the whole group is down.
func (g *Group) FirstLiving() *creature.Creature {
	for _, c := range g.creatures {
		if c.IsAlive() {
			return c
		}
	}
	return nil
}

// IsAlive reports whether any member is alive.
func (g *Group) IsAlive() bool {
	return g.FirstLiving() != nil
}

// RefreshCombat prepares every member for a new fight.
func (g *Group) RefreshCombat() {
	for _, c := range g.creatures {
		c.RefreshCombat()
	}
}

// RefreshRound closes the round for every member.
func (g *Group) RefreshRound() {
	for _, c := range g.creatures {
		c.RefreshRound()
	}
}
