package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rise-gen/internal/errors"
	"github.com/KirkDiggler/rise-gen/internal/repositories/reports"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Read stored combat reports",
}

var reportGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a stored combat report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportGet,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports for a matchup, oldest first",
	RunE:  runReportList,
}

func init() {
	reportListCmd.Flags().StringSliceVar(&redNames, "red", nil, "sample creatures on the red side, in acting order")
	reportListCmd.Flags().StringSliceVar(&blueNames, "blue", nil, "sample creatures on the blue side, in acting order")
	_ = reportListCmd.MarkFlagRequired("red")
	_ = reportListCmd.MarkFlagRequired("blue")

	reportCmd.AddCommand(reportGetCmd)
	reportCmd.AddCommand(reportListCmd)
}

func storedReports(cmd *cobra.Command) (reports.Repository, error) {
	if cfg.RedisAddr == "" {
		return nil, errors.FailedPrecondition("RISE_REDIS_ADDR is required to read reports")
	}
	return reportRepository(cmd.Context())
}

func runReportGet(cmd *cobra.Command, args []string) error {
	repo, err := storedReports(cmd)
	if err != nil {
		return err
	}

	out, err := repo.Get(cmd.Context(), &reports.GetInput{ID: args[0]})
	if err != nil {
		return err
	}

	r := out.Report
	fmt.Fprintf(cmd.OutOrStdout(), "%s at level %d (%s)\n", r.Matchup(), r.Level, r.CreatedAt.Format("2006-01-02 15:04:05"))
	printSummary(cmd, r.Summary)
	return nil
}

func runReportList(cmd *cobra.Command, args []string) error {
	repo, err := storedReports(cmd)
	if err != nil {
		return err
	}

	out, err := repo.ListByMatchup(cmd.Context(), &reports.ListByMatchupInput{Red: redNames, Blue: blueNames})
	if err != nil {
		return err
	}
	if len(out.Reports) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no reports for %s\n", reports.Matchup(redNames, blueNames))
		return nil
	}
	printHistory(cmd, out.Reports)
	return nil
}

func printHistory(cmd *cobra.Command, history []*reports.Report) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, r := range history {
		fmt.Fprintf(w, "%s  level %-2d  red %5.1f%%  blue %5.1f%%  rounds %5.2f  (%d trials)\n",
			r.ID, r.Level, r.Summary.RedAlivePercent, r.Summary.BlueAlivePercent,
			r.Summary.AverageRounds, r.Summary.Trials)
	}
}
