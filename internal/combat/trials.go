package combat

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rise-gen/internal/errors"
)

// BuildFunc returns freshly built groups for one trial. Trials run
// concurrently, so it must never hand out creatures shared with another
// trial.
type BuildFunc func() (red, blue *Group, err error)

// TrialsInput configures a batch of independent fights.
type TrialsInput struct {
	Trials int
	Build  BuildFunc

	// Workers defaults to GOMAXPROCS.
	Workers int
}

// Validate checks the input
func (i *TrialsInput) Validate() error {
	vb := errors.NewValidationBuilder()

	if i.Trials <= 0 {
		vb.InvalidField("Trials", "must be positive")
	}
	if i.Workers < 0 {
		vb.InvalidField("Workers", "must not be negative")
	}
	if i.Build == nil {
		vb.RequiredField("Build")
	}

	return vb.Build()
}

// Summary aggregates a batch of fights. Draws counts fights where both
// sides went down in the same round.
type Summary struct {
	Trials     int `json:"trials"`
	RedWins    int `json:"red_wins"`
	BlueWins   int `json:"blue_wins"`
	Stalemates int `json:"stalemates"`
	Draws      int `json:"draws"`

	RedAlivePercent  float64 `json:"red_alive_percent"`
	BlueAlivePercent float64 `json:"blue_alive_percent"`
	AverageRounds    float64 `json:"average_rounds"`
}

// RunTrials runs input.Trials fights across a bounded pool of workers and
// summarizes them. The first failing trial cancels the rest.
func (s *Simulator) RunTrials(ctx context.Context, input *TrialsInput) (*Summary, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	workers := input.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	results := make([]*Result, input.Trials)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := range results {
		eg.Go(func() error {
			red, blue, err := input.Build()
			if err != nil {
				return errors.Wrapf(err, "failed to build trial %d", i)
			}
			result, err := s.Run(egCtx, red, blue)
			if err != nil {
				return errors.Wrapf(err, "trial %d failed", i)
			}
			results[i] = result
			s.metrics.RecordTrial(egCtx, result.Outcome(), result.Rounds)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		s.metrics.RecordBatch(ctx, "error", time.Since(start).Seconds())
		return nil, err
	}
	s.metrics.RecordBatch(ctx, "ok", time.Since(start).Seconds())

	summary := summarize(results)
	s.logger.Info("trials complete",
		"trials", summary.Trials,
		"workers", workers,
		"red_wins", summary.RedWins,
		"blue_wins", summary.BlueWins,
		"stalemates", summary.Stalemates,
		"average_rounds", summary.AverageRounds,
		"duration", time.Since(start))

	return summary, nil
}

func summarize(results []*Result) *Summary {
	summary := &Summary{Trials: len(results)}
	if len(results) == 0 {
		return summary
	}

	redAlive, blueAlive, rounds := 0, 0, 0
	for _, r := range results {
		if r.RedAlive {
			redAlive++
		}
		if r.BlueAlive {
			blueAlive++
		}
		rounds += r.Rounds

		switch {
		case r.RedAlive && r.BlueAlive:
			summary.Stalemates++
		case r.RedAlive:
			summary.RedWins++
		case r.BlueAlive:
			summary.BlueWins++
		default:
			summary.Draws++
		}
	}

	n := float64(len(results))
	summary.RedAlivePercent = 100 * float64(redAlive) / n
	summary.BlueAlivePercent = 100 * float64(blueAlive) / n
	summary.AverageRounds = float64(rounds) / n
	return summary
}
