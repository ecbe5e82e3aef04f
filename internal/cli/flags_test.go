package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand() (*cobra.Command, *FlagValues) {
	cmd := &cobra.Command{Use: "test"}
	fv := BindFlags(cmd)
	return cmd, fv
}

func TestValidateFlagsRejectsVerboseAndQuiet(t *testing.T) {
	cmd, fv := newTestCommand()
	fv.Verbose = true
	fv.Quiet = true
	err := ValidateFlags(fv, cmd)
	require.Error(t, err)
}

func TestValidateFlagsRejectsUnknownFormat(t *testing.T) {
	cmd, fv := newTestCommand()
	fv.Format = "yaml"
	err := ValidateFlags(fv, cmd)
	require.Error(t, err)
}

func TestValidateFlagsRejectsUnknownIntensity(t *testing.T) {
	cmd, fv := newTestCommand()
	fv.Format = "markdown"
	fv.Intensity = "extreme"
	err := ValidateFlags(fv, cmd)
	require.Error(t, err)
}

func TestValidateFlagsAcceptsDefaults(t *testing.T) {
	cmd, fv := newTestCommand()
	err := ValidateFlags(fv, cmd)
	require.NoError(t, err)
}

func TestToRequestTranslatesFlags(t *testing.T) {
	fv := &FlagValues{
		Task:         "fix the bug",
		Budget:       4000,
		Intensity:    "deep",
		Strategies:   []string{"config"},
		Tree:         true,
		Includes:     []string{"src/**"},
		Excludes:     []string{"**/*.test.ts"},
		MaxResults:   5,
	}
	req := fv.ToRequest("/abs/repo")

	assert.Equal(t, "fix the bug", req.Task)
	assert.Equal(t, "/abs/repo", req.RepoRoot)
	assert.Equal(t, 4000, req.BudgetTokens)
	assert.True(t, req.IncludeTree)
	assert.Equal(t, []string{"config"}, req.Strategies)
	assert.Equal(t, 5, req.MaxResults)
}
