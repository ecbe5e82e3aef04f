// Package cli implements the Cobra command hierarchy for the slicekit CLI
// tool. The root command defined here is the entry point for the "slice"
// workflow and handles cross-cutting concerns like logging initialization
// and exit-code mapping.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slicekit/slicekit/internal/packager"
	"github.com/slicekit/slicekit/internal/slicer"
)

// DefaultBudgetTokens is used when --budget is not specified.
const DefaultBudgetTokens = 8000

// FlagValues collects all parsed global flag values from the CLI. This
// struct is populated by BindFlags, checked by ValidateFlags in
// PersistentPreRunE, and translated into a slicer.SliceRequest by ToRequest
// in runSlice.
type FlagValues struct {
	Task       string
	Dir        string
	Budget     int
	Intensity  string
	Strategies []string
	Includes   []string
	Excludes   []string
	Format     string
	Tree       bool
	MaxResults int
	Stats      bool
	DryRun     bool
	Verbose    bool
	Quiet      bool
}

// BindFlags registers all persistent flags on cmd and returns a FlagValues
// pointer populated once Cobra parses arguments.
func BindFlags(cmd *cobra.Command) *FlagValues {
	fv := &FlagValues{}

	pf := cmd.PersistentFlags()
	pf.StringVar(&fv.Task, "task", "", "natural-language description of the task (required)")
	pf.StringVarP(&fv.Dir, "repo", "r", ".", "repository root to slice")
	pf.IntVar(&fv.Budget, "budget", DefaultBudgetTokens, "token budget for the assembled slice")
	pf.StringVar(&fv.Intensity, "intensity", "standard", "strategy intensity: lite, standard, deep")
	pf.StringSliceVar(&fv.Strategies, "strategies", nil, "comma-separated allow-list of strategy names")
	pf.StringArrayVar(&fv.Includes, "include", nil, "include glob pattern (repeatable)")
	pf.StringArrayVar(&fv.Excludes, "exclude", nil, "exclude glob pattern (repeatable)")
	pf.StringVar(&fv.Format, "format", "markdown", "output format: xml, markdown, json")
	pf.BoolVar(&fv.Tree, "tree", false, "include a directory tree in the output")
	pf.IntVar(&fv.MaxResults, "max-results", 0, "cap the number of selected candidates (0 = unbounded)")
	pf.BoolVar(&fv.Stats, "stats", false, "print token accounting to stderr after slicing")
	pf.BoolVar(&fv.DryRun, "dry-run", false, "print the selected file list and token accounting without rendering output")
	pf.BoolVarP(&fv.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&fv.Quiet, "quiet", "q", false, "suppress all output except errors")

	return fv
}

// ValidateFlags checks flag values and applies environment fallbacks before
// they are translated into a slicer.SliceRequest.
func ValidateFlags(fv *FlagValues, cmd *cobra.Command) error {
	applyEnvOverrides(fv, cmd)

	if fv.Verbose && fv.Quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}

	switch packager.Format(strings.ToLower(fv.Format)) {
	case packager.FormatXML, packager.FormatMarkdown, packager.FormatJSON:
	default:
		return fmt.Errorf("--format: invalid value %q (allowed: xml, markdown, json)", fv.Format)
	}

	switch slicer.Intensity(fv.Intensity) {
	case slicer.IntensityLite, slicer.IntensityStandard, slicer.IntensityDeep:
	default:
		return fmt.Errorf("--intensity: invalid value %q (allowed: lite, standard, deep)", fv.Intensity)
	}

	return nil
}

// applyEnvOverrides applies SLICEKIT_-prefixed environment variable
// fallbacks for flags not explicitly set on the command line.
func applyEnvOverrides(fv *FlagValues, cmd *cobra.Command) {
	if v := os.Getenv("SLICEKIT_REPO"); v != "" && !cmd.Flags().Changed("repo") {
		fv.Dir = v
	}
	if v := os.Getenv("SLICEKIT_FORMAT"); v != "" && !cmd.Flags().Changed("format") {
		fv.Format = v
	}
	if os.Getenv("SLICEKIT_VERBOSE") == "1" && !cmd.Flags().Changed("verbose") {
		fv.Verbose = true
	}
	if os.Getenv("SLICEKIT_QUIET") == "1" && !cmd.Flags().Changed("quiet") {
		fv.Quiet = true
	}
}

// ToRequest translates parsed flags plus the resolved absolute repo root
// into a slicer.SliceRequest.
func (fv *FlagValues) ToRequest(absRepoRoot string) *slicer.SliceRequest {
	return &slicer.SliceRequest{
		Task:         fv.Task,
		RepoRoot:     absRepoRoot,
		BudgetTokens: fv.Budget,
		Intensity:    slicer.Intensity(fv.Intensity),
		Strategies:   fv.Strategies,
		IncludeTree:  fv.Tree,
		Include:      fv.Includes,
		Exclude:      fv.Excludes,
		MaxResults:   fv.MaxResults,
	}
}
