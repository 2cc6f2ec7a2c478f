package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rise-gen/internal/creature"
)

var creatureLevel int

var creatureCmd = &cobra.Command{
	Use:   "creature [sample]",
	Short: "Print the stat block of a sample creature",
	Long: `Print the stat block of a sample creature at the given level.
Without an argument, list the sample creatures.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreature,
}

func init() {
	creatureCmd.Flags().IntVarP(&creatureLevel, "level", "l", 0, "creature level (default RISE_LEVEL)")
}

func runCreature(cmd *cobra.Command, args []string) error {
	creatureCfg, err := creatureConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintln(out, strings.Join(creatureCfg.Tables.SampleCreatureNames(), "\n"))
		return nil
	}

	c, err := creature.FromSample(creatureCfg, args[0], levelOrDefault(creatureLevel))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, c.String())
	return nil
}
