// Package observe holds the OpenTelemetry instruments recorded while
// simulating combat.
//
// Tests should use [NewMetrics] with their own [metric.MeterProvider];
// [DefaultMetrics] uses the global provider.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/KirkDiggler/rise-gen"

// Outcomes of a single trial.
const (
	OutcomeRed       = "red"
	OutcomeBlue      = "blue"
	OutcomeStalemate = "stalemate"
	OutcomeNone      = "none"
)

// Results of a single attack.
const (
	StrikeMiss     = "miss"
	StrikeHit      = "hit"
	StrikeCritical = "critical"
)

// Metrics holds the instruments for combat trials. All fields are safe for
// concurrent use.
type Metrics struct {
	// Trials counts finished trials. Use with attribute "outcome".
	Trials metric.Int64Counter

	// Rounds records the number of rounds each trial lasted.
	Rounds metric.Int64Histogram

	// Batches counts RunTrials calls. Use with attribute "status".
	Batches metric.Int64Counter

	// BatchDuration tracks how long a batch of trials took.
	BatchDuration metric.Float64Histogram

	// Strikes counts attack rolls. Use with attributes "side", "event"
	// and "result".
	Strikes metric.Int64Counter

	// Damage counts hit points lost after damage reduction. Use with
	// attribute "side" naming the attacker.
	Damage metric.Int64Counter
}

var roundBuckets = []float64{1, 2, 3, 4, 5, 6, 8, 10, 15, 20, 50, 101}

// NewMetrics creates every instrument from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Trials, err = m.Int64Counter("rise.combat.trials",
		metric.WithDescription("Finished combat trials by outcome."),
	); err != nil {
		return nil, err
	}
	if met.Rounds, err = m.Int64Histogram("rise.combat.rounds",
		metric.WithDescription("Rounds fought per combat trial."),
		metric.WithExplicitBucketBoundaries(roundBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Batches, err = m.Int64Counter("rise.combat.batches",
		metric.WithDescription("Batches of combat trials by status."),
	); err != nil {
		return nil, err
	}
	if met.BatchDuration, err = m.Float64Histogram("rise.combat.batch.duration",
		metric.WithDescription("Wall time of a batch of combat trials."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if met.Strikes, err = m.Int64Counter("rise.combat.strikes",
		metric.WithDescription("Attack rolls by side, event and result."),
	); err != nil {
		return nil, err
	}
	if met.Damage, err = m.Int64Counter("rise.combat.damage",
		metric.WithDescription("Hit points lost to each side's attacks."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level instance built from the global
// meter provider on first use.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordTrial records one finished trial.
func (m *Metrics) RecordTrial(ctx context.Context, outcome string, rounds int) {
	m.Trials.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.Rounds.Record(ctx, int64(rounds))
}

// RecordBatch records a finished batch of trials.
func (m *Metrics) RecordBatch(ctx context.Context, status string, seconds float64) {
	m.Batches.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.BatchDuration.Record(ctx, seconds)
}

// RecordStrike records one attack roll.
func (m *Metrics) RecordStrike(ctx context.Context, side, event, result string) {
	m.Strikes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("side", side),
		attribute.String("event", event),
		attribute.String("result", result),
	))
}

// RecordDamage records hit points lost to side's attacks.
func (m *Metrics) RecordDamage(ctx context.Context, side string, lost int) {
	if lost <= 0 {
		return
	}
	m.Damage.Add(ctx, int64(lost), metric.WithAttributes(attribute.String("side", side)))
}
