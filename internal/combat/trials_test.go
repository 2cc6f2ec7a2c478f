package combat

import (
	"context"
	"sync/atomic"

	"github.com/stretchr/testify/assert"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/KirkDiggler/rise-gen/internal/creature"
	"github.com/KirkDiggler/rise-gen/internal/dice"
	"github.com/KirkDiggler/rise-gen/internal/errors"
	"github.com/KirkDiggler/rise-gen/internal/observe"
)

func (s *SimulatorTestSuite) sampleBuilder(red, blue string) BuildFunc {
	cfg := &creature.Config{Catalog: s.catalog, Tables: s.tables}
	return func() (*Group, *Group, error) {
		r, err := creature.FromSample(cfg, red, 1)
		if err != nil {
			return nil, nil, err
		}
		b, err := creature.FromSample(cfg, blue, 1)
		if err != nil {
			return nil, nil, err
		}
		return NewGroup(r), NewGroup(b), nil
	}
}

func (s *SimulatorTestSuite) TestSymmetricFightersAreNotOneSided() {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()
	metrics, err := observe.NewMetrics(mp)
	s.Require().NoError(err)

	sim, err := NewSimulator(&Config{Roller: dice.DefaultRoller, Logger: s.logger, Metrics: metrics})
	s.Require().NoError(err)

	const trials = 1000
	summary, err := sim.RunTrials(context.Background(), &TrialsInput{
		Trials:  trials,
		Workers: 8,
		Build:   s.sampleBuilder("fighter", "fighter"),
	})
	s.Require().NoError(err)

	s.Assert().Equal(trials, summary.Trials)
	// a side that is down never strikes back, so both cannot fall together
	s.Assert().Zero(summary.Draws)
	s.Assert().Equal(trials, summary.RedWins+summary.BlueWins+summary.Stalemates)
	s.Assert().Less(summary.RedWins, trials)
	s.Assert().Less(summary.BlueWins, trials)
	s.Assert().GreaterOrEqual(summary.AverageRounds, 1.0)
	s.Assert().LessOrEqual(summary.AverageRounds, float64(DefaultMaxRounds+1))

	var rm metricdata.ResourceMetrics
	s.Require().NoError(reader.Collect(context.Background(), &rm))
	var counted int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "rise.combat.trials" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			s.Require().True(ok)
			for _, dp := range sum.DataPoints {
				counted += dp.Value
			}
		}
	}
	s.Assert().Equal(int64(trials), counted)
}

func (s *SimulatorTestSuite) TestRunTrialsBuildsFreshGroups() {
	sim := s.newSimulator(&Config{Roller: dice.DefaultRoller})

	var builds atomic.Int32
	build := s.sampleBuilder("fighter", "rogue")
	summary, err := sim.RunTrials(context.Background(), &TrialsInput{
		Trials: 50,
		Build: func() (*Group, *Group, error) {
			builds.Add(1)
			return build()
		},
	})
	s.Require().NoError(err)
	s.Assert().Equal(int32(50), builds.Load())
	s.Assert().Equal(50, summary.Trials)
}

func (s *SimulatorTestSuite) TestRunTrialsErrors() {
	testCases := []struct {
		name  string
		input *TrialsInput
		check func(err error) bool
	}{
		{
			name:  "nil input",
			input: nil,
			check: errors.IsInvalidArgument,
		},
		{
			name:  "no trials",
			input: &TrialsInput{Build: s.sampleBuilder("fighter", "fighter")},
			check: errors.IsInvalidArgument,
		},
		{
			name:  "no builder",
			input: &TrialsInput{Trials: 1},
			check: errors.IsInvalidArgument,
		},
		{
			name: "builder fails",
			input: &TrialsInput{
				Trials: 3,
				Build:  s.sampleBuilder("fighter", "gelatinous cube"),
			},
			check: errors.IsNotFound,
		},
	}

	sim := s.newSimulator(&Config{Roller: dice.DefaultRoller})
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := sim.RunTrials(context.Background(), tc.input)
			s.Require().Error(err)
			s.Assert().True(tc.check(err), "got %v", err)
		})
	}
}

func (s *SimulatorTestSuite) TestSummarize() {
	summary := summarize([]*Result{
		{RedAlive: true, Rounds: 2},
		{BlueAlive: true, Rounds: 4},
		{RedAlive: true, BlueAlive: true, Rounds: 101},
		{Rounds: 3},
	})

	assert.Equal(s.T(), &Summary{
		Trials:           4,
		RedWins:          1,
		BlueWins:         1,
		Stalemates:       1,
		Draws:            1,
		RedAlivePercent:  50,
		BlueAlivePercent: 50,
		AverageRounds:    27.5,
	}, summary)
}
