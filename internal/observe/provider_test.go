package observe

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestProviderReport(t *testing.T) {
	provider, err := InitProvider(ProviderConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx := context.Background()
	m := provider.Metrics()
	m.RecordTrial(ctx, OutcomeRed, 4)
	m.RecordTrial(ctx, OutcomeRed, 6)
	m.RecordTrial(ctx, OutcomeBlue, 3)
	m.RecordStrike(ctx, "red", "combat.strike", StrikeCritical)

	rm, err := provider.Collect(ctx)
	require.NoError(t, err)

	name, ok := rm.Resource.Set().Value(attribute.Key("service.name"))
	require.True(t, ok)
	assert.Equal(t, "rise", name.AsString())

	var out bytes.Buffer
	require.NoError(t, WriteReport(&out, rm))
	report := out.String()

	assert.Contains(t, report, "rise.combat.trials{outcome=red} 2\n")
	assert.Contains(t, report, "rise.combat.trials{outcome=blue} 1\n")
	assert.Contains(t, report, "rise.combat.rounds count=3 sum=13 min=3 max=6\n")
	assert.Contains(t, report, "rise.combat.strikes{event=combat.strike,result=critical,side=red} 1\n")
	assert.NotContains(t, report, "rise.combat.damage")
}

func TestProviderServiceName(t *testing.T) {
	provider, err := InitProvider(ProviderConfig{ServiceName: "rise-balance"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rm, err := provider.Collect(context.Background())
	require.NoError(t, err)
	name, _ := rm.Resource.Set().Value(attribute.Key("service.name"))
	assert.Equal(t, "rise-balance", name.AsString())
}

func TestWriteReportEmpty(t *testing.T) {
	provider, err := InitProvider(ProviderConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rm, err := provider.Collect(context.Background())
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, WriteReport(&out, rm))
	assert.Empty(t, out.String())
}
