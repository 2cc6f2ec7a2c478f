package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag back to its default, since flag variables
// outlive a single Execute.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if slice, ok := f.Value.(pflag.SliceValue); ok {
			_ = slice.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCreatureCommand(t *testing.T) {
	out, err := execute(t, "creature")
	require.NoError(t, err)
	assert.Contains(t, out, "brown bear")

	out, err = execute(t, "creature", "fighter", "--level", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Fighter 3")
	assert.Contains(t, out, "[Atk]")

	_, err = execute(t, "creature", "gelatinous cube")
	assert.Error(t, err)
}

func TestCombatCommand(t *testing.T) {
	t.Setenv("RISE_LOG_LEVEL", "error")

	out, err := execute(t, "combat", "--red", "fighter", "--blue", "dummy", "--trials", "3", "--level", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "trials:       3")

	_, err = execute(t, "combat", "--red", "fighter", "--blue", "gelatinous cube", "--trials", "3")
	assert.Error(t, err)
}

func TestCombatPerSideLevelsAndTelemetry(t *testing.T) {
	t.Setenv("RISE_LOG_LEVEL", "error")

	out, err := execute(t, "combat", "--red", "fighter", "--blue", "dummy",
		"--red-level", "3", "--blue-level", "1", "--trials", "2", "--accuracy", "--metrics")
	require.NoError(t, err)

	assert.Contains(t, out, "red accuracy:")
	assert.Contains(t, out, "blue accuracy:")
	assert.Contains(t, out, "trials:       2")
	assert.Contains(t, out, "red   hits:")
	assert.Contains(t, out, "blue  hits:")
	assert.Contains(t, out, "metrics:")
	assert.Contains(t, out, "rise.combat.rounds count=2 ")
	assert.Contains(t, out, "rise.combat.strikes{event=combat.strike,")
	assert.Contains(t, out, "rise.combat.batches{status=ok} 1")
}

func TestCombatSweeps(t *testing.T) {
	t.Setenv("RISE_LOG_LEVEL", "error")

	out, err := execute(t, "combat", "--red", "fighter", "--blue", "fighter", "--sweep", "levels", "--trials", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 21, "a header and one row per level")
	assert.True(t, strings.HasPrefix(lines[1], "1     1     1 "), lines[1])
	assert.True(t, strings.HasPrefix(lines[20], "20    20    20 "), lines[20])

	out, err = execute(t, "combat", "--red", "fighter", "--blue", "fighter", "--sweep", "level-diff", "--trials", "1")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 19, "a header and one row for blue levels 3 to 20")
	assert.True(t, strings.HasPrefix(lines[1], "3     1     3 "), lines[1])
	assert.True(t, strings.HasPrefix(lines[18], "20    18    20 "), lines[18])

	_, err = execute(t, "combat", "--red", "fighter", "--blue", "fighter", "--sweep", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sweep")

	_, err = execute(t, "combat", "--red", "fighter", "--blue", "fighter", "--sweep", "levels", "--save")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--save")
}

func TestBenchmarkCommand(t *testing.T) {
	t.Setenv("RISE_LOG_LEVEL", "error")

	out, err := execute(t, "benchmark", "--trials", "1", "--level", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "fighter")
	assert.Contains(t, out, "troll")
	assert.NotContains(t, out, "dummy")

	_, err = execute(t, "benchmark", "gelatinous cube", "--trials", "1")
	assert.Error(t, err)
}

func TestReportCommandNeedsRedis(t *testing.T) {
	t.Setenv("RISE_REDIS_ADDR", "")

	_, err := execute(t, "report", "get", "report_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RISE_REDIS_ADDR")
}
