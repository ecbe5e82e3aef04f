package packager

import (
	"fmt"
	"sort"
	"strings"

	"github.com/slicekit/slicekit/internal/slicer"
)

// StrategyStat holds aggregate file and token counts for one strategy among
// a SliceResult's selected candidates.
type StrategyStat struct {
	Count  int
	Tokens int
}

// RepresentationStat holds aggregate file and token counts for one
// representation among a SliceResult's selected candidates.
type RepresentationStat struct {
	Count  int
	Tokens int
}

// Stats summarizes a SliceResult's per-strategy and per-representation
// token accounting, for callers who want budget visibility without parsing
// the rendered body (--stats, --dry-run).
type Stats struct {
	TotalTokens      int
	Budget           int
	ByStrategy       map[string]StrategyStat
	ByRepresentation map[slicer.Representation]RepresentationStat
}

// NewStats aggregates a SliceResult's selected candidates into per-strategy
// and per-representation statistics. Sidecars and the tree are folded into
// TotalTokens/Budget only, since neither has a strategy or representation.
func NewStats(result *slicer.SliceResult) *Stats {
	s := &Stats{
		TotalTokens:      result.TotalTokens,
		Budget:           result.Budget,
		ByStrategy:       make(map[string]StrategyStat),
		ByRepresentation: make(map[slicer.Representation]RepresentationStat),
	}
	for _, c := range result.Selected {
		st := s.ByStrategy[c.Strategy]
		st.Count++
		st.Tokens += c.Tokens
		s.ByStrategy[c.Strategy] = st

		rt := s.ByRepresentation[c.Representation]
		rt.Count++
		rt.Tokens += c.Tokens
		s.ByRepresentation[c.Representation] = rt
	}
	return s
}

// Format renders the stats as a plain-text report suitable for printing to
// stderr, using box-drawing separators the same way tokenizer.TokenReport
// does in the CLI's underlying library.
func (s *Stats) Format() string {
	var sb strings.Builder

	title := "Token Accounting"
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("─", len(title)+2) + "\n")
	fmt.Fprintf(&sb, "Total tokens: %s\n", formatInt(s.TotalTokens))
	if s.Budget > 0 {
		pct := int(float64(s.TotalTokens) / float64(s.Budget) * 100)
		fmt.Fprintf(&sb, "Budget:       %s (%d%% used)\n", formatInt(s.Budget), pct)
	} else {
		sb.WriteString("Budget:       unlimited\n")
	}

	if len(s.ByStrategy) > 0 {
		sb.WriteString("\nBy strategy:\n")
		names := make([]string, 0, len(s.ByStrategy))
		for name := range s.ByStrategy {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			st := s.ByStrategy[name]
			fmt.Fprintf(&sb, "  %-10s %s files  %s tokens\n", name, formatInt(st.Count), formatInt(st.Tokens))
		}
	}

	if len(s.ByRepresentation) > 0 {
		sb.WriteString("\nBy representation:\n")
		reps := make([]string, 0, len(s.ByRepresentation))
		for rep := range s.ByRepresentation {
			reps = append(reps, string(rep))
		}
		sort.Strings(reps)
		for _, rep := range reps {
			rt := s.ByRepresentation[slicer.Representation(rep)]
			fmt.Fprintf(&sb, "  %-10s %s files  %s tokens\n", rep, formatInt(rt.Count), formatInt(rt.Tokens))
		}
	}

	return sb.String()
}

// FormatFileList renders the selected candidates as a plain-text listing of
// path, strategy, representation, and token cost, in selection order. This
// is what --dry-run prints instead of a rendered context document.
func FormatFileList(result *slicer.SliceResult) string {
	var sb strings.Builder

	title := "Selected files:"
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("─", len(title)+2) + "\n")

	if len(result.Selected) == 0 {
		sb.WriteString("  (no files selected)\n")
		return sb.String()
	}

	for i, c := range result.Selected {
		fmt.Fprintf(&sb, " %2d. %-50s  %s tokens  (%s, %s)\n",
			i+1, c.Path, formatInt(c.Tokens), c.Strategy, string(c.Representation))
	}

	return sb.String()
}

// formatInt formats an integer with comma separators (e.g. 89420 ->
// "89,420"), matching the teacher's tokenizer.FormatInt convention.
func formatInt(n int) string {
	if n < 0 {
		return "-" + formatInt(-n)
	}

	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var out []byte
	start := len(str) % 3
	if start == 0 {
		start = 3
	}
	out = append(out, str[:start]...)
	for i := start; i < len(str); i += 3 {
		out = append(out, ',')
		out = append(out, str[i:i+3]...)
	}
	return string(out)
}
