package combat

import (
	"context"
	"sync/atomic"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"go.uber.org/mock/gomock"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/KirkDiggler/rise-gen/internal/dice"
	"github.com/KirkDiggler/rise-gen/internal/errors"
	"github.com/KirkDiggler/rise-gen/internal/observe"
)

func (s *SimulatorTestSuite) TestStrikeEventsFeedTally() {
	bus := events.NewBus()
	tally := NewTally()
	s.Require().Len(tally.Subscribe(bus), 3)
	sim := s.newSimulator(&Config{Roller: s.roller, Events: bus})

	attacker := s.fighter("longsword")
	target := s.dummy()

	var strikes []events.Event
	bus.SubscribeFunc(EventStrike, 1, func(_ context.Context, event events.Event) error {
		strikes = append(strikes, event)
		return nil
	})

	gomock.InOrder(
		s.roller.EXPECT().Roll(20).Return(20, nil),
		s.roller.EXPECT().RollN(1, 8).Return([]int{3}, nil),
		s.roller.EXPECT().RollN(1, 8).Return([]int{4}, nil),
		s.roller.EXPECT().Roll(20).Return(9, nil),
	)

	_, err := sim.physicalAction(context.Background(), SideRed, attacker, target)
	s.Require().NoError(err)
	_, err = sim.physicalAction(context.Background(), SideRed, attacker, target)
	s.Require().NoError(err)

	s.Assert().Equal(SideTally{Attacks: 2, Hits: 1, Criticals: 1, Damage: 9}, tally.Side(SideRed))
	s.Assert().InDelta(0.5, tally.Side(SideRed).HitRate(), 1e-9)
	s.Assert().Equal(SideTally{}, tally.Side(SideBlue))

	s.Require().Len(strikes, 2)
	first := strikes[0]
	s.Assert().Equal(attacker.GetID(), first.Source().GetID())
	s.Assert().Equal(target.GetID(), first.Target().GetID())
	s.Assert().Equal(20, eventInt(first, KeyNatural))
	s.Assert().Equal(37, eventInt(first, KeyTotal))
	s.Assert().Equal(17, eventInt(first, KeyDefense))
	s.Assert().True(eventBool(first, KeyCritical))
	s.Assert().False(eventBool(strikes[1], KeyHit))

	tally.Reset()
	s.Assert().Equal(SideTally{}, tally.Side(SideRed))
}

func (s *SimulatorTestSuite) TestSpellEventsFeedTally() {
	bus := events.NewBus()
	tally := NewTally()
	tally.Subscribe(bus)
	sim := s.newSimulator(&Config{Roller: s.roller, Events: bus})

	gomock.InOrder(
		s.roller.EXPECT().Roll(20).Return(5, nil),
		s.roller.EXPECT().RollN(1, 8).Return([]int{7}, nil),
	)

	lost, err := sim.spellAction(context.Background(), SideBlue, s.sample("wizard", 1), s.dummy())
	s.Require().NoError(err)
	s.Require().Equal(3, lost)
	s.Assert().Equal(SideTally{Attacks: 1, Damage: 3}, tally.Side(SideBlue))
}

func (s *SimulatorTestSuite) TestRoundEndEvents() {
	bus := events.NewBus()
	var ends atomic.Int32
	var lastRound atomic.Int32
	bus.SubscribeFunc(EventRoundEnd, 0, func(_ context.Context, event events.Event) error {
		ends.Add(1)
		lastRound.Store(int32(eventInt(event, KeyRound)))
		s.Assert().Nil(event.Source())
		s.Assert().True(eventBool(event, KeyRedAlive))
		s.Assert().True(eventBool(event, KeyBlueAlive))
		return nil
	})
	sim := s.newSimulator(&Config{Roller: dice.DefaultRoller, Events: bus, MaxRounds: 2})

	result, err := sim.Run(context.Background(), NewGroup(s.dummy()), NewGroup(s.dummy()))
	s.Require().NoError(err)
	s.Assert().Equal(3, result.Rounds)
	s.Assert().Equal(int32(3), ends.Load())
	s.Assert().Equal(int32(3), lastRound.Load())
}

func (s *SimulatorTestSuite) TestFailingSubscriberStopsTheFight() {
	bus := events.NewBus()
	bus.SubscribeFunc(EventStrike, 0, func(context.Context, events.Event) error {
		return errors.Internal("ledger unavailable")
	})
	sim := s.newSimulator(&Config{Roller: dice.DefaultRoller, Events: bus})

	_, err := sim.Run(context.Background(), NewGroup(s.fighter("longsword")), NewGroup(s.dummy()))
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "ledger unavailable")
	s.Assert().Contains(err.Error(), "failed to publish "+EventStrike)
}

func (s *SimulatorTestSuite) TestRecordEventsCountsStrikes() {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()
	metrics, err := observe.NewMetrics(mp)
	s.Require().NoError(err)

	bus := events.NewBus()
	RecordEvents(bus, metrics)
	sim := s.newSimulator(&Config{Roller: s.roller, Events: bus})

	gomock.InOrder(
		s.roller.EXPECT().Roll(20).Return(20, nil),
		s.roller.EXPECT().RollN(1, 8).Return([]int{3}, nil),
		s.roller.EXPECT().RollN(1, 8).Return([]int{4}, nil),
	)
	_, err = sim.physicalAction(context.Background(), SideRed, s.fighter("longsword"), s.dummy())
	s.Require().NoError(err)

	var rm metricdata.ResourceMetrics
	s.Require().NoError(reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				sums[m.Name] += dp.Value
				if result, ok := dp.Attributes.Value("result"); ok {
					s.Assert().Equal(observe.StrikeCritical, result.AsString())
				}
			}
		}
	}
	s.Assert().Equal(int64(1), sums["rise.combat.strikes"])
	s.Assert().Equal(int64(9), sums["rise.combat.damage"])
}

func (s *SimulatorTestSuite) TestTallyWatchesConcurrentTrials() {
	bus := events.NewBus()
	tally := NewTally()
	tally.Subscribe(bus)
	sim := s.newSimulator(&Config{Roller: dice.DefaultRoller, Events: bus})

	_, err := sim.RunTrials(context.Background(), &TrialsInput{
		Trials:  200,
		Workers: 8,
		Build:   s.sampleBuilder("fighter", "fighter"),
	})
	s.Require().NoError(err)

	for _, side := range []string{SideRed, SideBlue} {
		t := tally.Side(side)
		s.Assert().Positive(t.Attacks, side)
		s.Assert().Positive(t.Damage, side)
		s.Assert().LessOrEqual(t.Hits, t.Attacks, side)
		s.Assert().LessOrEqual(t.Criticals, t.Hits, side)
	}
}

func (s *SimulatorTestSuite) TestHitRate() {
	s.Run("physical attacks roll against armor defense", func() {
		// accuracy 7 against armor defense 17
		gomock.InOrder(
			s.roller.EXPECT().Roll(20).Return(10, nil),
			s.roller.EXPECT().Roll(20).Return(9, nil),
			s.roller.EXPECT().Roll(20).Return(10, nil),
			s.roller.EXPECT().Roll(20).Return(9, nil),
		)
		rate, err := s.sim.HitRate(NewGroup(s.fighter("longsword")), NewGroup(s.dummy()), 4)
		s.Require().NoError(err)
		s.Assert().InDelta(0.5, rate, 1e-9)
	})

	s.Run("spells roll against the lowest defense", func() {
		// accuracy 2 against a lowest defense of 11
		gomock.InOrder(
			s.roller.EXPECT().Roll(20).Return(9, nil),
			s.roller.EXPECT().Roll(20).Return(9, nil),
			s.roller.EXPECT().Roll(20).Return(8, nil),
		)
		rate, err := s.sim.HitRate(NewGroup(s.sample("wizard", 1)), NewGroup(s.dummy()), 3)
		s.Require().NoError(err)
		s.Assert().InDelta(2.0/3.0, rate, 1e-9)
	})

	s.Run("every attacker rolls against every defender", func() {
		s.roller.EXPECT().Roll(20).Return(20, nil).Times(4)
		rate, err := s.sim.HitRate(
			NewGroup(s.fighter("longsword"), s.fighter("longsword")),
			NewGroup(s.dummy(), s.dummy()),
			1,
		)
		s.Require().NoError(err)
		s.Assert().Equal(1.0, rate)
	})

	s.Run("invalid input", func() {
		_, err := s.sim.HitRate(nil, NewGroup(s.dummy()), 1)
		s.Assert().True(errors.IsInvalidArgument(err))
		_, err = s.sim.HitRate(NewGroup(s.dummy()), NewGroup(s.dummy()), 0)
		s.Assert().True(errors.IsInvalidArgument(err))
		_, err = s.sim.HitRate(NewGroup(), NewGroup(s.dummy()), 1)
		s.Assert().True(errors.IsInvalidArgument(err))
	})
}
