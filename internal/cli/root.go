package cli

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/slicekit/slicekit/internal/backend"
	"github.com/slicekit/slicekit/internal/config"
	"github.com/slicekit/slicekit/internal/packager"
	"github.com/slicekit/slicekit/internal/planner"
	"github.com/slicekit/slicekit/internal/selector"
	"github.com/slicekit/slicekit/internal/slicer"
)

// Exit codes, per the CLI surface spec.md §6 describes: 0 success, 2
// invalid request, 3 backend unavailable, 1 any other error.
const (
	ExitSuccess            = 0
	ExitError              = 1
	ExitInvalidRequest     = 2
	ExitBackendUnavailable = 3
)

var flagValues *FlagValues

var rootCmd = &cobra.Command{
	Use:   "slicekit",
	Short: "Assemble bounded context slices from a repository.",
	Long: `slicekit walks a repository with a pluggable set of strategies
(skeleton, keyword, ast, symbols, graph, config, diff, forest) and
assembles a token-budgeted context slice suitable for feeding to an LLM.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ValidateFlags(flagValues, cmd); err != nil {
			return err
		}

		level := config.ResolveLogLevel(flagValues.Verbose, flagValues.Quiet)
		format := config.ResolveLogFormat()
		config.SetupLogging(level, format)

		slog.Debug("logging initialized", "level", level, "format", format)
		return nil
	},
	RunE: runSlice,
}

func init() {
	flagValues = BindFlags(rootCmd)
	rootCmd.RegisterFlagCompletionFunc("format", completeFormat)
	rootCmd.RegisterFlagCompletionFunc("intensity", completeIntensity)
}

func completeFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"xml", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
}

func completeIntensity(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"lite", "standard", "deep"}, cobra.ShellCompDirectiveNoFileComp
}

func runSlice(cmd *cobra.Command, args []string) error {
	absRoot, err := filepath.Abs(flagValues.Dir)
	if err != nil {
		return slicer.NewWrappedError(slicer.InvalidRequest, "resolve --repo", err)
	}

	req := flagValues.ToRequest(absRoot)
	repo, err := backend.NewFSBackend(absRoot)
	if err != nil {
		return slicer.NewWrappedError(slicer.BackendUnavailable, "open repository", err)
	}

	plan, err := planner.New().Plan(cmd.Context(), req, repo)
	if err != nil {
		return err
	}

	result := selector.New().Select(plan, req)

	if flagValues.DryRun {
		PrintFileList(cmd.OutOrStdout(), result)
		PrintStats(cmd.OutOrStdout(), result)
	} else {
		if _, err := packager.Render(result, packager.Format(flagValues.Format)); err != nil {
			return err
		}
		cmd.OutOrStdout().Write([]byte(result.Rendered))
		if flagValues.Stats {
			PrintStats(cmd.ErrOrStderr(), result)
		}
	}

	for _, w := range result.Warnings {
		slog.Warn(w.Message, "kind", w.Kind)
	}

	return nil
}

// Execute runs the root command and returns a process exit code derived
// from the error kind.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		return extractExitCode(err)
	}
	return ExitSuccess
}

func extractExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var sliceErr *slicer.Error
	if errors.As(err, &sliceErr) {
		switch sliceErr.Kind {
		case slicer.InvalidRequest:
			return ExitInvalidRequest
		case slicer.BackendUnavailable:
			return ExitBackendUnavailable
		}
	}
	return ExitError
}

// RootCmd returns the root cobra.Command for use in testing.
func RootCmd() *cobra.Command {
	return rootCmd
}

// GlobalFlags returns the parsed flag values, available after
// PersistentPreRunE has run.
func GlobalFlags() *FlagValues {
	return flagValues
}
