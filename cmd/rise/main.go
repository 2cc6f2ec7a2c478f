// Package main is the entry point for the rise balance tools
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rise-gen/internal/ability"
	"github.com/KirkDiggler/rise-gen/internal/config"
	"github.com/KirkDiggler/rise-gen/internal/content"
	"github.com/KirkDiggler/rise-gen/internal/creature"
)

var (
	cfg        *config.Config
	contentDir string
)

var rootCmd = &cobra.Command{
	Use:   "rise",
	Short: "Rise creature statistics and combat balance tools",
	Long: `rise derives creature statistics from their abilities and simulates
combat between groups of creatures to measure game balance.

Settings default from RISE_* environment variables and can be overridden
with flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
		slog.SetDefault(logger)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&contentDir, "content", "", "directory of content tables (defaults to the built in tables)")

	rootCmd.AddCommand(creatureCmd)
	rootCmd.AddCommand(combatCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(benchmarkCmd)
}

// creatureConfig loads the catalog and content tables every command needs.
func creatureConfig() (*creature.Config, error) {
	catalog, err := ability.DefaultCatalog()
	if err != nil {
		return nil, err
	}

	var tables *content.Tables
	if contentDir != "" {
		tables, err = content.LoadDir(contentDir)
	} else {
		tables, err = content.Load()
	}
	if err != nil {
		return nil, err
	}

	return &creature.Config{Catalog: catalog, Tables: tables}, nil
}

func levelOrDefault(level int) int {
	if level > 0 {
		return level
	}
	return cfg.Level
}
