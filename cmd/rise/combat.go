package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rise-gen/internal/combat"
	"github.com/KirkDiggler/rise-gen/internal/creature"
	"github.com/KirkDiggler/rise-gen/internal/errors"
	"github.com/KirkDiggler/rise-gen/internal/redis"
	"github.com/KirkDiggler/rise-gen/internal/repositories/reports"
)

// Level sweeps.
const (
	sweepLevels    = "levels"
	sweepLevelDiff = "level-diff"

	maxLevel = 20
	// levelGap is how far red trails blue in a level-diff sweep.
	levelGap = 2
)

var (
	redNames     []string
	blueNames    []string
	combatLevel  int
	redLevel     int
	blueLevel    int
	trials       int
	workers      int
	exploding    bool
	saveReport   bool
	showMetrics  bool
	showAccuracy bool
	sweep        string
)

var combatCmd = &cobra.Command{
	Use:   "combat",
	Short: "Simulate repeated combat between two groups",
	Long: `Simulate repeated combat between a red and a blue group of sample
creatures and report how often each side survives.

--sweep levels repeats the matchup at every level from 1 to 20.
--sweep level-diff fights blue at levels 3 to 20 against red two levels
lower.`,
	Example: `  rise combat --red fighter --blue troll --level 5
  rise combat --red fighter --blue troll --red-level 7 --blue-level 5 --accuracy
  rise combat --red fighter --blue cleric --sweep level-diff --trials 200
  rise combat --red fighter,cleric --blue "brown bear" --trials 5000 --save --metrics`,
	RunE: runCombat,
}

func init() {
	combatCmd.Flags().StringSliceVar(&redNames, "red", nil, "sample creatures on the red side, in acting order")
	combatCmd.Flags().StringSliceVar(&blueNames, "blue", nil, "sample creatures on the blue side, in acting order")
	combatCmd.Flags().IntVarP(&combatLevel, "level", "l", 0, "level of every creature (default RISE_LEVEL)")
	combatCmd.Flags().IntVar(&redLevel, "red-level", 0, "level of the red side (default --level)")
	combatCmd.Flags().IntVar(&blueLevel, "blue-level", 0, "level of the blue side (default --level)")
	combatCmd.Flags().IntVarP(&trials, "trials", "n", 0, "number of fights (default RISE_TRIALS)")
	combatCmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel fights (default RISE_WORKERS, 0 uses every CPU)")
	combatCmd.Flags().BoolVar(&exploding, "exploding", false, "re-roll and add natural 20s on attack rolls (default RISE_EXPLODING_ATTACKS)")
	combatCmd.Flags().BoolVar(&saveReport, "save", false, "store the summary and compare it with earlier runs of the same matchup")
	combatCmd.Flags().BoolVar(&showMetrics, "metrics", false, "print the trial, round and strike metrics collected during the run")
	combatCmd.Flags().BoolVar(&showAccuracy, "accuracy", false, "estimate each side's chance to hit the other before fighting")
	combatCmd.Flags().StringVar(&sweep, "sweep", "", "repeat the matchup across levels: levels or level-diff")

	_ = combatCmd.MarkFlagRequired("red")
	_ = combatCmd.MarkFlagRequired("blue")
}

// matchup is the red and blue roster at fixed levels.
type matchup struct {
	creatureCfg *creature.Config
	redLevel    int
	blueLevel   int
}

func (m matchup) build() (*combat.Group, *combat.Group, error) {
	red, err := buildGroup(m.creatureCfg, redNames, m.redLevel)
	if err != nil {
		return nil, nil, err
	}
	blue, err := buildGroup(m.creatureCfg, blueNames, m.blueLevel)
	if err != nil {
		return nil, nil, err
	}
	return red, blue, nil
}

func (m matchup) trialsInput() *combat.TrialsInput {
	input := &combat.TrialsInput{
		Trials:  trials,
		Workers: workers,
		Build:   m.build,
	}
	if input.Trials == 0 {
		input.Trials = cfg.Trials
	}
	if input.Workers == 0 {
		input.Workers = cfg.Workers
	}
	return input
}

func runCombat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if sweep != "" && sweep != sweepLevels && sweep != sweepLevelDiff {
		return errors.InvalidArgumentf("unknown sweep %q, want %s or %s", sweep, sweepLevels, sweepLevelDiff)
	}
	if sweep != "" && saveReport {
		return errors.InvalidArgument("--save cannot be combined with --sweep")
	}

	creatureCfg, err := creatureConfig()
	if err != nil {
		return err
	}

	level := levelOrDefault(combatLevel)
	m := matchup{
		creatureCfg: creatureCfg,
		redLevel:    sideLevel(redLevel, level),
		blueLevel:   sideLevel(blueLevel, level),
	}

	// fail fast on a bad matchup before spinning up workers
	if _, _, err := m.build(); err != nil {
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

	switch sweep {
	case sweepLevels:
		err = runSweep(ctx, cmd, sim, creatureCfg, 1, func(i int) (int, int) { return i, i })
	case sweepLevelDiff:
		err = runSweep(ctx, cmd, sim, creatureCfg, levelGap+1, func(i int) (int, int) { return i - levelGap, i })
	default:
		err = runMatchup(ctx, cmd, sim, m, tel)
	}
	if err != nil {
		return err
	}

	if showMetrics {
		return tel.printMetrics(ctx, cmd)
	}
	return nil
}

func runMatchup(ctx context.Context, cmd *cobra.Command, sim *combat.Simulator, m matchup, tel *telemetry) error {
	var repo reports.Repository
	if saveReport {
		var err error
		if repo, err = reportRepository(ctx); err != nil {
			return err
		}
	}

	if showAccuracy {
		if err := printAccuracy(cmd, sim, m); err != nil {
			return err
		}
	}

	input := m.trialsInput()
	summary, err := sim.RunTrials(ctx, input)
	if err != nil {
		return err
	}
	printSummary(cmd, summary)
	tel.printHitRates(cmd)

	if repo == nil {
		return nil
	}
	// reports key on the blue level, as level-diff sweeps do
	saved, err := repo.Save(ctx, &reports.SaveInput{
		Red:     redNames,
		Blue:    blueNames,
		Level:   m.blueLevel,
		Summary: summary,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved report %s\n", saved.Report.ID)

	history, err := repo.ListByMatchup(ctx, &reports.ListByMatchupInput{Red: redNames, Blue: blueNames})
	if err != nil {
		return err
	}
	printHistory(cmd, history.Reports)
	return nil
}

// runSweep runs the matchup once per step from first to maxLevel, with
// levels picking the red and blue level of each step.
func runSweep(ctx context.Context, cmd *cobra.Command, sim *combat.Simulator, creatureCfg *creature.Config,
	first int, levels func(i int) (int, int)) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-5s %-5s %-5s %-10s %-10s %s\n", "step", "red", "blue", "red alive", "blue alive", "avg rounds")

	for i := first; i <= maxLevel; i++ {
		r, b := levels(i)
		m := matchup{creatureCfg: creatureCfg, redLevel: r, blueLevel: b}

		summary, err := sim.RunTrials(ctx, m.trialsInput())
		if err != nil {
			return errors.Wrapf(err, "sweep failed at red level %d, blue level %d", r, b)
		}
		fmt.Fprintf(out, "%-5d %-5d %-5d %-10s %-10s %.2f\n", i, r, b,
			fmt.Sprintf("%.1f%%", summary.RedAlivePercent),
			fmt.Sprintf("%.1f%%", summary.BlueAlivePercent),
			summary.AverageRounds)
	}
	return nil
}

func printAccuracy(cmd *cobra.Command, sim *combat.Simulator, m matchup) error {
	red, blue, err := m.build()
	if err != nil {
		return err
	}
	n := m.trialsInput().Trials

	blueRate, err := sim.HitRate(blue, red, n)
	if err != nil {
		return err
	}
	redRate, err := sim.HitRate(red, blue, n)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "blue accuracy: %.1f%%\n", blueRate*100)
	fmt.Fprintf(out, "red accuracy:  %.1f%%\n", redRate*100)
	return nil
}

func sideLevel(level, fallback int) int {
	if level > 0 {
		return level
	}
	return fallback
}

func buildGroup(creatureCfg *creature.Config, names []string, level int) (*combat.Group, error) {
	if len(names) == 0 {
		return nil, errors.InvalidArgument("a group needs at least one creature")
	}
	members := make([]*creature.Creature, 0, len(names))
	for _, name := range names {
		c, err := creature.FromSample(creatureCfg, name, level)
		if err != nil {
			return nil, err
		}
		members = append(members, c)
	}
	return combat.NewGroup(members...), nil
}

func printSummary(cmd *cobra.Command, s *combat.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "trials:       %d\n", s.Trials)
	fmt.Fprintf(out, "red alive:    %.1f%%\n", s.RedAlivePercent)
	fmt.Fprintf(out, "blue alive:   %.1f%%\n", s.BlueAlivePercent)
	fmt.Fprintf(out, "red wins:     %d\n", s.RedWins)
	fmt.Fprintf(out, "blue wins:    %d\n", s.BlueWins)
	fmt.Fprintf(out, "stalemates:   %d\n", s.Stalemates)
	fmt.Fprintf(out, "draws:        %d\n", s.Draws)
	fmt.Fprintf(out, "avg rounds:   %.2f\n", s.AverageRounds)
}

// reportRepository connects to Redis when RISE_REDIS_ADDR is set and
// otherwise keeps reports for the life of the process only.
func reportRepository(ctx context.Context) (reports.Repository, error) {
	if cfg.RedisAddr == "" {
		slog.Warn("RISE_REDIS_ADDR is not set, reports will not outlive this run")
		return reports.NewInMemory(nil, nil), nil
	}
	client, err := redis.Connect(ctx, cfg.RedisAddr, nil)
	if err != nil {
		return nil, err
	}
	return reports.NewRedisRepository(&reports.Config{Client: client})
}
