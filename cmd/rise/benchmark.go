package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rise-gen/internal/combat"
	"github.com/KirkDiggler/rise-gen/internal/creature"
)

const (
	defaultBenchmarkTarget = "dummy"
	defaultBenchmarkTrials = 100
)

var (
	benchmarkLevel  int
	benchmarkTrials int
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark [target]",
	Short: "Measure how fast every sample creature defeats a target",
	Long: `Fight every sample creature alone against a target creature, the
training dummy by default, and print the average number of rounds each
needs to bring it down. Fights that reach the round cap count the cap.`,
	Example: `  rise benchmark
  rise benchmark dummy --level 5 --trials 500`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBenchmark,
}

func init() {
	benchmarkCmd.Flags().IntVarP(&benchmarkLevel, "level", "l", 0, "level of every creature (default RISE_LEVEL)")
	benchmarkCmd.Flags().IntVarP(&benchmarkTrials, "trials", "n", defaultBenchmarkTrials, "fights per creature")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	target := defaultBenchmarkTarget
	if len(args) == 1 {
		target = args[0]
	}

	creatureCfg, err := creatureConfig()
	if err != nil {
		return err
	}
	level := levelOrDefault(benchmarkLevel)
	if _, err := creature.FromSample(creatureCfg, target, level); err != nil {
		return err
	}

	tel, err := newTelemetry()
	if err != nil {
		return err
	}
	defer tel.shutdown()

	sim, err := tel.simulator()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range creatureCfg.Tables.SampleCreatureNames() {
		if name == target {
			continue
		}
		if _, err := creature.FromSample(creatureCfg, name, level); err != nil {
			slog.Warn("skipping sample creature", "name", name, "error", err)
			continue
		}

		summary, err := sim.RunTrials(ctx, &combat.TrialsInput{
			Trials:  benchmarkTrials,
			Workers: cfg.Workers,
			Build: func() (*combat.Group, *combat.Group, error) {
				attacker, err := buildGroup(creatureCfg, []string{name}, level)
				if err != nil {
					return nil, nil, err
				}
				defender, err := buildGroup(creatureCfg, []string{target}, level)
				if err != nil {
					return nil, nil, err
				}
				return attacker, defender, nil
			},
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-20s %.1f\n", name, summary.AverageRounds)
	}
	return nil
}
