package creature_test

import (
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rise-gen/internal/content"
	"github.com/KirkDiggler/rise-gen/internal/creature"
	dicemock "github.com/KirkDiggler/rise-gen/internal/dice/mock"
)

func (s *CreatureTestSuite) TestRefreshCombat() {
	c := s.mustBuild(plainFighter(0))

	s.Assert().Equal(c.HitPoints(), c.CurrentHitPoints())
	s.Assert().True(c.ZeroThreshold())
	s.Assert().True(c.IsAlive())

	c.TakeDamage(5)
	s.Assert().Equal(c.HitPoints()-5, c.CurrentHitPoints())
	s.Assert().Equal(5, c.DamageTakenThisRound())

	c.RefreshCombat()
	s.Assert().Equal(c.HitPoints(), c.CurrentHitPoints())
	s.Assert().Zero(c.DamageTakenThisRound())
}

func (s *CreatureTestSuite) TestRefreshCombatAddsTemporaryHitPoints() {
	props := plainFighter(6)
	props.Traits = []content.AbilityRef{content.Ref("magic items")}
	c := s.mustBuild(props)

	// magic items grant (level/3)*level temporary hit points
	s.Require().Equal(12, c.TemporaryHitPoints())
	s.Assert().Equal(c.HitPoints()+12, c.CurrentHitPoints())
}

func (s *CreatureTestSuite) TestDamageReductionAbsorbsDamage() {
	c := s.mustBuild(&creature.Properties{
		Name:    "barbarian",
		Levels:  map[string]int{"barbarian": 1},
		Level:   5,
		Weapons: []string{"greataxe"},
	})
	s.Require().Equal(5, c.DamageReduction())
	start := c.CurrentHitPoints()

	s.Assert().Zero(c.TakeDamage(3))
	s.Assert().Equal(start, c.CurrentHitPoints())
	s.Assert().Equal(2, c.AvailableDamageReduction())

	s.Assert().Equal(2, c.TakeDamage(4))
	s.Assert().Equal(start-2, c.CurrentHitPoints())
	s.Assert().Zero(c.AvailableDamageReduction())

	c.RefreshRound()
	s.Assert().Equal(5, c.AvailableDamageReduction())
	s.Assert().Zero(c.DamageTakenThisRound())
}

func (s *CreatureTestSuite) TestZeroThresholdClampsOnce() {
	c := s.mustBuild(plainFighter(0))
	s.Require().Zero(c.DamageReduction())
	maxHP := c.HitPoints()

	c.TakeDamage(maxHP - 2)
	c.RefreshRound()
	s.Require().Equal(2, c.CurrentHitPoints())
	s.Require().True(c.ZeroThreshold())

	// falls below 0 without taking more than max hit points this round
	c.TakeDamage(5)
	s.Assert().False(c.IsAlive())
	c.RefreshRound()
	s.Assert().Equal(0, c.CurrentHitPoints())
	s.Assert().True(c.IsAlive())
	s.Assert().False(c.ZeroThreshold())

	// the threshold is spent
	c.TakeDamage(1)
	c.RefreshRound()
	s.Assert().Equal(-1, c.CurrentHitPoints())
	s.Assert().False(c.IsAlive())
}

func (s *CreatureTestSuite) TestZeroThresholdIgnoresOverkill() {
	c := s.mustBuild(plainFighter(0))
	maxHP := c.HitPoints()

	c.TakeDamage(maxHP + 3)
	c.RefreshRound()
	s.Assert().Equal(-3, c.CurrentHitPoints())
	s.Assert().False(c.IsAlive())
}

func (s *CreatureTestSuite) TestZeroThresholdHoldsMaximumDamage() {
	c := s.mustBuild(plainFighter(0))
	maxHP := c.HitPoints()

	// from 2 hit points, exactly max hit points of damage in one round
	c.TakeDamage(maxHP - 2)
	c.RefreshRound()
	s.Require().Equal(2, c.CurrentHitPoints())

	c.TakeDamage(maxHP)
	s.Require().Equal(maxHP, c.DamageTakenThisRound())
	c.RefreshRound()
	s.Assert().Equal(0, c.CurrentHitPoints())
	s.Assert().True(c.IsAlive())

	// one more point than max hit points is not held
	c.RefreshCombat()
	c.TakeDamage(maxHP + 1)
	c.RefreshRound()
	s.Assert().Equal(-1, c.CurrentHitPoints())
	s.Assert().False(c.IsAlive())
}

func (s *CreatureTestSuite) TestEndOfRoundHealing() {
	c, err := creature.FromSample(&creature.Config{Catalog: s.catalog, Tables: s.tables}, "troll", 4)
	s.Require().NoError(err)
	maxHP := c.HitPoints()
	dr := c.DamageReduction()

	c.TakeDamage(dr + 10)
	c.RefreshRound()
	s.Assert().Equal(maxHP-10+4, c.CurrentHitPoints())

	// healing never raises hit points past the maximum
	c.RefreshRound()
	c.RefreshRound()
	c.RefreshRound()
	s.Assert().Equal(maxHP, c.CurrentHitPoints())
}

func (s *CreatureTestSuite) TestHealingRunsBeforeZeroThreshold() {
	c, err := creature.FromSample(&creature.Config{Catalog: s.catalog, Tables: s.tables}, "troll", 5)
	s.Require().NoError(err)
	maxHP := c.HitPoints()
	dr := c.DamageReduction()

	// fast healing restores 5 each round at level 5
	c.TakeDamage(dr + maxHP - 5)
	c.RefreshRound()
	s.Require().Equal(10, c.CurrentHitPoints())

	c.TakeDamage(dr + 12)
	s.Require().Equal(-2, c.CurrentHitPoints())
	c.RefreshRound()

	s.Assert().Equal(3, c.CurrentHitPoints())
	s.Assert().True(c.ZeroThreshold())
	s.Assert().True(c.IsAlive())
}

func (s *CreatureTestSuite) TestHealingCannotOutpaceOverkill() {
	c, err := creature.FromSample(&creature.Config{Catalog: s.catalog, Tables: s.tables}, "troll", 1)
	s.Require().NoError(err)

	c.TakeDamage(c.DamageReduction() + 3*c.HitPoints())
	c.RefreshRound()
	hp := c.CurrentHitPoints()
	s.Require().False(c.IsAlive())
	s.Require().False(c.ZeroThreshold())

	// healing still runs but stays far below 0
	c.RefreshRound()
	s.Assert().Equal(hp+1, c.CurrentHitPoints())
	s.Assert().False(c.IsAlive())
}

func (s *CreatureTestSuite) TestActionCount() {
	ctrl := gomock.NewController(s.T())
	roller := dicemock.NewMockRoller(ctrl)

	fighter := s.mustBuild(plainFighter(0))
	n, err := fighter.ActionCount(roller)
	s.Require().NoError(err)
	s.Assert().Equal(1, n)

	bear, err := creature.FromSample(&creature.Config{Catalog: s.catalog, Tables: s.tables}, "brown bear", 0)
	s.Require().NoError(err)
	roller.EXPECT().Roll(2).Return(2, nil)
	n, err = bear.ActionCount(roller)
	s.Require().NoError(err)
	s.Assert().Equal(2, n)

	troll, err := creature.FromSample(&creature.Config{Catalog: s.catalog, Tables: s.tables}, "troll", 0)
	s.Require().NoError(err)
	n, err = troll.ActionCount(roller)
	s.Require().NoError(err)
	s.Assert().Equal(2, n)
}
