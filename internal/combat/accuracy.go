package combat

import (
	"github.com/KirkDiggler/rise-gen/internal/content"
	"github.com/KirkDiggler/rise-gen/internal/creature"
	"github.com/KirkDiggler/rise-gen/internal/errors"
)

// HitRate estimates how often attackers land an attack on defenders. Each
// trial, every attacker rolls once against every defender. Spells roll
// against the lowest defense, everything else against armor defense.
// Dual wielding, criticals and damage play no part.
func (s *Simulator) HitRate(attackers, defenders *Group, trials int) (float64, error) {
	if attackers == nil || defenders == nil {
		return 0, errors.InvalidArgument("both groups are required")
	}
	if trials <= 0 {
		return 0, errors.InvalidArgumentf("trials must be positive, got %d", trials)
	}
	if len(attackers.Creatures()) == 0 || len(defenders.Creatures()) == 0 {
		return 0, errors.InvalidArgument("groups must not be empty")
	}

	hits, attacks := 0, 0
	for range trials {
		for _, attacker := range attackers.Creatures() {
			for _, defender := range defenders.Creatures() {
				roll, err := s.rollAttack(attacker)
				if err != nil {
					return 0, err
				}
				attacks++
				if roll.total >= defenseAgainst(attacker, defender) {
					hits++
				}
			}
		}
	}
	return float64(hits) / float64(attacks), nil
}

func defenseAgainst(attacker, defender *creature.Creature) int {
	if attacker.AttackType() == content.AttackSpell {
		return defender.LowestDefense()
	}
	return defender.ArmorDefense()
}
