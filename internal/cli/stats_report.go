// Package cli implements the Cobra command hierarchy for the slicekit CLI
// tool. This file provides helper functions for writing token accounting
// reports to an io.Writer (typically os.Stderr in --stats mode, or stdout in
// --dry-run mode).
package cli

import (
	"io"

	"github.com/slicekit/slicekit/internal/packager"
	"github.com/slicekit/slicekit/internal/slicer"
)

// PrintStats writes a formatted per-strategy/per-representation token
// accounting report to w. This is the handler for the --stats flag
// behavior.
func PrintStats(w io.Writer, result *slicer.SliceResult) {
	report := packager.NewStats(result)
	_, _ = io.WriteString(w, report.Format())
}

// PrintFileList writes the selected file list to w without rendering the
// full context document. This is the handler for the --dry-run flag
// behavior.
func PrintFileList(w io.Writer, result *slicer.SliceResult) {
	_, _ = io.WriteString(w, packager.FormatFileList(result))
}
