package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rise-gen/internal/combat"
	"github.com/KirkDiggler/rise-gen/internal/observe"
)

// telemetry collects metrics and per side hit counts from every fight a
// command runs.
type telemetry struct {
	provider *observe.Provider
	bus      events.EventBus
	tally    *combat.Tally
}

func newTelemetry() (*telemetry, error) {
	provider, err := observe.InitProvider(observe.ProviderConfig{})
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()
	tally := combat.NewTally()
	tally.Subscribe(bus)
	combat.RecordEvents(bus, provider.Metrics())

	return &telemetry{provider: provider, bus: bus, tally: tally}, nil
}

func (t *telemetry) simulator() (*combat.Simulator, error) {
	return combat.NewSimulator(&combat.Config{
		Logger:           slog.Default(),
		Metrics:          t.provider.Metrics(),
		Events:           t.bus,
		ExplodingAttacks: exploding || cfg.Exploding,
		MaxRounds:        cfg.MaxRounds,
	})
}

func (t *telemetry) printHitRates(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	for _, side := range []string{combat.SideRed, combat.SideBlue} {
		tally := t.tally.Side(side)
		fmt.Fprintf(out, "%-5s hits:   %d/%d (%.1f%%), %d critical, %d damage\n",
			side, tally.Hits, tally.Attacks, tally.HitRate()*100, tally.Criticals, tally.Damage)
	}
}

func (t *telemetry) printMetrics(ctx context.Context, cmd *cobra.Command) error {
	rm, err := t.provider.Collect(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "metrics:")
	return observe.WriteReport(cmd.OutOrStdout(), rm)
}

func (t *telemetry) shutdown() {
	if err := t.provider.Shutdown(context.Background()); err != nil {
		slog.Warn("failed to shut down meter provider", "error", err)
	}
}
