package observe

import (
	"context"
	"fmt"
	"io"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
)

// ProviderConfig configures the OpenTelemetry SDK meter provider.
type ProviderConfig struct {
	// ServiceName is reported on every metric. Default: "rise".
	ServiceName string

	// Global registers the provider as the global OTel meter provider, so
	// DefaultMetrics records into it when first used afterwards.
	Global bool
}

// Provider is an SDK meter provider backed by a manual reader, so readings
// are collected on demand.
type Provider struct {
	mp      *sdkmetric.MeterProvider
	reader  *sdkmetric.ManualReader
	metrics *Metrics
}

// InitProvider builds the meter provider and the instruments recorded
// into it. Call Shutdown when done.
func InitProvider(cfg ProviderConfig) (*Provider, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "rise"
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName)),
	)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	if cfg.Global {
		otel.SetMeterProvider(mp)
	}

	metrics, err := NewMetrics(mp)
	if err != nil {
		_ = mp.Shutdown(context.Background())
		return nil, err
	}

	return &Provider{mp: mp, reader: reader, metrics: metrics}, nil
}

// Metrics returns the instruments bound to this provider.
func (p *Provider) Metrics() *Metrics {
	return p.metrics
}

// Collect reads the current value of every instrument.
func (p *Provider) Collect(ctx context.Context) (metricdata.ResourceMetrics, error) {
	var rm metricdata.ResourceMetrics
	err := p.reader.Collect(ctx, &rm)
	return rm, err
}

// Shutdown flushes and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.mp.Shutdown(ctx)
}

// WriteReport writes one line per data point, sorted. Counters print as
// name{attrs} value and histograms as count, sum, min and max.
func WriteReport(w io.Writer, rm metricdata.ResourceMetrics) error {
	var lines []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			lines = append(lines, reportLines(m)...)
		}
	}
	sort.Strings(lines)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func reportLines(m metricdata.Metrics) []string {
	var lines []string
	switch data := m.Data.(type) {
	case metricdata.Sum[int64]:
		for _, dp := range data.DataPoints {
			lines = append(lines, fmt.Sprintf("%s%s %d", m.Name, labels(dp.Attributes), dp.Value))
		}
	case metricdata.Histogram[int64]:
		for _, dp := range data.DataPoints {
			lowest, _ := dp.Min.Value()
			highest, _ := dp.Max.Value()
			lines = append(lines, fmt.Sprintf("%s%s count=%d sum=%d min=%d max=%d",
				m.Name, labels(dp.Attributes), dp.Count, dp.Sum, lowest, highest))
		}
	case metricdata.Histogram[float64]:
		for _, dp := range data.DataPoints {
			lines = append(lines, fmt.Sprintf("%s%s count=%d sum=%.3f",
				m.Name, labels(dp.Attributes), dp.Count, dp.Sum))
		}
	}
	return lines
}

func labels(set attribute.Set) string {
	if set.Len() == 0 {
		return ""
	}
	return "{" + set.Encoded(attribute.DefaultEncoder()) + "}"
}
