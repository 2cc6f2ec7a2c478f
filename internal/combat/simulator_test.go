package combat

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rise-gen/internal/ability"
	"github.com/KirkDiggler/rise-gen/internal/content"
	"github.com/KirkDiggler/rise-gen/internal/creature"
	"github.com/KirkDiggler/rise-gen/internal/dice"
	dicemock "github.com/KirkDiggler/rise-gen/internal/dice/mock"
	"github.com/KirkDiggler/rise-gen/internal/errors"
	"github.com/KirkDiggler/rise-gen/internal/observe"
)

type SimulatorTestSuite struct {
	suite.Suite
	catalog *ability.Catalog
	tables  *content.Tables
	metrics *observe.Metrics
	logger  *slog.Logger

	ctrl   *gomock.Controller
	roller *dicemock.MockRoller
	sim    *Simulator
}

func TestSimulatorSuite(t *testing.T) {
	suite.Run(t, new(SimulatorTestSuite))
}

func (s *SimulatorTestSuite) SetupSuite() {
	catalog, err := ability.DefaultCatalog()
	s.Require().NoError(err)
	s.catalog = catalog

	tables, err := content.Load()
	s.Require().NoError(err)
	s.tables = tables

	metrics, err := observe.NewMetrics(noop.NewMeterProvider())
	s.Require().NoError(err)
	s.metrics = metrics
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *SimulatorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.roller = dicemock.NewMockRoller(s.ctrl)
	s.sim = s.newSimulator(&Config{Roller: s.roller})
}

func (s *SimulatorTestSuite) newSimulator(cfg *Config) *Simulator {
	cfg.Logger = s.logger
	cfg.Metrics = s.metrics
	sim, err := NewSimulator(cfg)
	s.Require().NoError(err)
	return sim
}

func (s *SimulatorTestSuite) build(props *creature.Properties) *creature.Creature {
	c, err := creature.New(&creature.Config{Catalog: s.catalog, Tables: s.tables, Properties: props})
	s.Require().NoError(err)
	return c
}

func (s *SimulatorTestSuite) sample(name string, level int) *creature.Creature {
	c, err := creature.FromSample(&creature.Config{Catalog: s.catalog, Tables: s.tables}, name, level)
	s.Require().NoError(err)
	return c
}

// fighter has accuracy 7 and deals 1d8+1.
func (s *SimulatorTestSuite) fighter(weapon string) *creature.Creature {
	return s.build(&creature.Properties{
		Name:       "fighter",
		Levels:     map[string]int{"fighter": 1},
		Attributes: map[content.Attribute]int{content.Strength: 3},
		Weapons:    []string{weapon},
	})
}

// dummy has armor defense 17, a lowest defense of 11 and 1000 hit points.
func (s *SimulatorTestSuite) dummy() *creature.Creature {
	d := s.sample("dummy", 1)
	s.Require().Equal(17, d.ArmorDefense())
	s.Require().Equal(11, d.LowestDefense())
	s.Require().Equal(1000, d.CurrentHitPoints())
	return d
}

func (s *SimulatorTestSuite) TestConfigValidation() {
	_, err := NewSimulator(&Config{MaxRounds: -1})
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))

	sim, err := NewSimulator(nil)
	s.Require().NoError(err)
	s.Assert().Equal(DefaultMaxRounds, sim.maxRounds)
	s.Assert().NotNil(sim.roller)
}

func (s *SimulatorTestSuite) TestRollAttackSwing() {
	attacker := s.fighter("longsword")

	testCases := []struct {
		name    string
		natural int
		total   int
	}{
		{name: "natural 20 adds 10", natural: 20, total: 37},
		{name: "natural 1 subtracts 10", natural: 1, total: -2},
		{name: "other rolls add accuracy", natural: 12, total: 19},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.roller.EXPECT().Roll(20).Return(tc.natural, nil)

			roll, err := s.sim.rollAttack(attacker)
			s.Require().NoError(err)
			s.Assert().Equal(tc.natural, roll.natural)
			s.Assert().Equal(tc.total, roll.total)
		})
	}
}

func (s *SimulatorTestSuite) TestExplodingAttackAddsRerolls() {
	sim := s.newSimulator(&Config{Roller: s.roller, ExplodingAttacks: true})
	attacker := s.fighter("longsword")

	gomock.InOrder(
		s.roller.EXPECT().Roll(20).Return(20, nil),
		s.roller.EXPECT().Roll(20).Return(20, nil),
		s.roller.EXPECT().Roll(20).Return(3, nil),
	)

	roll, err := sim.rollAttack(attacker)
	s.Require().NoError(err)
	s.Assert().Equal(20, roll.natural)
	s.Assert().Equal(20+20+3+10+7, roll.total)
}

func (s *SimulatorTestSuite) TestPhysicalHit() {
	attacker := s.fighter("longsword")
	target := s.dummy()

	gomock.InOrder(
		s.roller.EXPECT().Roll(20).Return(10, nil),
		s.roller.EXPECT().RollN(1, 8).Return([]int{5}, nil),
	)

	lost, err := s.sim.physicalAction(context.Background(), SideRed, attacker, target)
	s.Require().NoError(err)
	s.Assert().Equal(6, lost)
	s.Assert().Equal(994, target.CurrentHitPoints())
	s.Assert().Equal(6, target.DamageTakenThisRound())
}

func (s *SimulatorTestSuite) TestPhysicalMiss() {
	attacker := s.fighter("longsword")
	target := s.dummy()

	// 9 + 7 falls one short of armor defense 17
	s.roller.EXPECT().Roll(20).Return(9, nil)

	lost, err := s.sim.physicalAction(context.Background(), SideRed, attacker, target)
	s.Require().NoError(err)
	s.Assert().Zero(lost)
	s.Assert().Equal(1000, target.CurrentHitPoints())
}

func (s *SimulatorTestSuite) TestCriticalHitRollsExtraInstances() {
	attacker := s.fighter("longsword")
	target := s.dummy()
	s.Require().Equal(20, attacker.CriticalThreshold())
	s.Require().Equal(2, attacker.CriticalMultiplier())

	gomock.InOrder(
		s.roller.EXPECT().Roll(20).Return(20, nil),
		s.roller.EXPECT().RollN(1, 8).Return([]int{3}, nil),
		s.roller.EXPECT().RollN(1, 8).Return([]int{4}, nil),
	)

	lost, err := s.sim.physicalAction(context.Background(), SideRed, attacker, target)
	s.Require().NoError(err)
	s.Assert().Equal(3+1+4+1, lost)
}

func (s *SimulatorTestSuite) TestFirstHitDiceApplyOncePerAction() {
	attacker := s.build(&creature.Properties{
		Name:    "rogue",
		Levels:  map[string]int{"rogue": 1},
		Weapons: []string{"rapier"},
	})
	s.Require().Equal("1d6", attacker.FirstHitDamageDice().String())
	s.Require().Zero(attacker.DamageBonus())
	target := s.dummy()

	s.roller.EXPECT().Roll(20).Return(20, nil)
	// rapier and sneak attack on the first instance, rapier alone on the second
	s.roller.EXPECT().RollN(1, 6).Return([]int{2}, nil).Times(3)

	lost, err := s.sim.physicalAction(context.Background(), SideRed, attacker, target)
	s.Require().NoError(err)
	s.Assert().Equal(6, lost)
}

func (s *SimulatorTestSuite) TestDualWielding() {
	testCases := []struct {
		name      string
		rolls     []int
		instances int
	}{
		{name: "better roll decides the hit", rolls: []int{3, 12}, instances: 1},
		{name: "both miss", rolls: []int{2, 9}, instances: 0},
		{name: "critical with a hitting second roll", rolls: []int{15, 20}, instances: 3},
		{name: "critical with a missing second roll", rolls: []int{20, 4}, instances: 2},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			attacker := s.fighter("paired shortswords")
			s.Require().True(attacker.Weapon().DualWielding)
			target := s.dummy()

			gomock.InOrder(
				s.roller.EXPECT().Roll(20).Return(tc.rolls[0], nil),
				s.roller.EXPECT().Roll(20).Return(tc.rolls[1], nil),
			)

			outcome, err := s.sim.strike(attacker, target)
			s.Require().NoError(err)
			s.Assert().Equal(tc.instances, outcome.instances)
			s.Assert().Equal(tc.instances > 0, outcome.hit())
		})
	}
}

func (s *SimulatorTestSuite) TestSpellDamage() {
	testCases := []struct {
		name    string
		natural int
		lost    int
	}{
		{name: "hit deals full damage", natural: 10, lost: 7},
		{name: "miss deals half damage", natural: 5, lost: 3},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			attacker := s.sample("wizard", 1)
			target := s.dummy()

			gomock.InOrder(
				s.roller.EXPECT().Roll(20).Return(tc.natural, nil),
				s.roller.EXPECT().RollN(1, 8).Return([]int{7}, nil),
			)

			lost, err := s.sim.spellAction(context.Background(), SideRed, attacker, target)
			s.Require().NoError(err)
			s.Assert().Equal(tc.lost, lost)
		})
	}
}

func (s *SimulatorTestSuite) TestExtraRoundsActBeforeInitiative() {
	wolf := s.sample("dire wolf", 1)
	s.Require().Equal(1, wolf.ExtraRounds())
	red := NewGroup(wolf)
	blue := NewGroup(s.dummy())

	s.roller.EXPECT().Roll(20).Return(1, nil).Times(wolf.AttackCount())
	s.Require().NoError(s.sim.takeExtraRound(context.Background(), 0, SideRed, red, blue))

	// no rolls expected once the extra rounds are spent
	s.Require().NoError(s.sim.takeExtraRound(context.Background(), 1, SideRed, red, blue))
}

func (s *SimulatorTestSuite) TestRunStopsAtRoundCap() {
	sim := s.newSimulator(&Config{Roller: dice.DefaultRoller})

	result, err := sim.Run(context.Background(), NewGroup(s.dummy()), NewGroup(s.dummy()))
	s.Require().NoError(err)
	s.Assert().Equal(DefaultMaxRounds+1, result.Rounds)
	s.Assert().True(result.RedAlive)
	s.Assert().True(result.BlueAlive)
	s.Assert().Equal(observe.OutcomeStalemate, result.Outcome())

	sim = s.newSimulator(&Config{Roller: dice.DefaultRoller, MaxRounds: 5})
	result, err = sim.Run(context.Background(), NewGroup(s.dummy()), NewGroup(s.dummy()))
	s.Require().NoError(err)
	s.Assert().Equal(6, result.Rounds)
}

func (s *SimulatorTestSuite) TestRunRedStrikesFirst() {
	s.roller.EXPECT().Roll(20).Return(20, nil).AnyTimes()
	s.roller.EXPECT().RollN(gomock.Any(), gomock.Any()).DoAndReturn(func(count, size int) ([]int, error) {
		rolls := make([]int, count)
		for i := range rolls {
			rolls[i] = size
		}
		return rolls, nil
	}).AnyTimes()

	red := NewGroup(s.sample("fighter", 1))
	blue := NewGroup(s.sample("fighter", 1))

	result, err := s.sim.Run(context.Background(), red, blue)
	s.Require().NoError(err)
	s.Assert().True(result.RedAlive)
	s.Assert().False(result.BlueAlive)
	s.Assert().GreaterOrEqual(result.Rounds, 1)
	s.Assert().Equal(observe.OutcomeRed, result.Outcome())
}

func (s *SimulatorTestSuite) TestRunErrors() {
	_, err := s.sim.Run(context.Background(), nil, NewGroup(s.dummy()))
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.sim.Run(ctx, NewGroup(s.dummy()), NewGroup(s.dummy()))
	s.Require().Error(err)
	s.Assert().True(errors.IsCanceled(err))
}

func (s *SimulatorTestSuite) TestGroup() {
	first := s.dummy()
	second := s.dummy()
	g := NewGroup(first, second)

	s.Assert().Same(first, g.FirstLiving())
	first.TakeDamage(2000)
	s.Assert().Same(second, g.FirstLiving())
	s.Assert().True(g.IsAlive())

	second.TakeDamage(2000)
	s.Assert().Nil(g.FirstLiving())
	s.Assert().False(g.IsAlive())

	g.RefreshCombat()
	s.Assert().Same(first, g.FirstLiving())
}
