// Package packager renders a slicer.SliceResult into a final context
// payload, per spec.md §4.H: xml, markdown, or json.
package packager

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/slicekit/slicekit/internal/buildinfo"
	"github.com/slicekit/slicekit/internal/slicer"
)

// Format is a supported packager output format.
type Format string

const (
	FormatXML      Format = "xml"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Render dispatches to the format-specific renderer named by format. format
// is matched case-insensitively; an unsupported value returns an
// slicer.UnknownFormat error. On success, result.Rendered is set and
// returned as the string as well.
func Render(result *slicer.SliceResult, format Format) (string, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatXML:
		rendered := renderXML(result)
		result.Rendered = rendered
		return rendered, nil
	case FormatMarkdown:
		rendered := renderMarkdown(result)
		result.Rendered = rendered
		return rendered, nil
	case FormatJSON:
		rendered, err := renderJSON(result)
		if err != nil {
			return "", slicer.NewWrappedError(slicer.UnknownFormat, "failed to marshal json", err)
		}
		result.Rendered = rendered
		return rendered, nil
	default:
		return "", slicer.NewError(slicer.UnknownFormat, fmt.Sprintf("unsupported format %q", format))
	}
}

func renderXML(result *slicer.SliceResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<context generator=%q>\n", "slicekit "+buildinfo.Version)

	if result.Tree != "" {
		b.WriteString("  <tree>\n")
		writeIndented(&b, result.Tree, "    ")
		b.WriteString("  </tree>\n")
	}

	for _, sc := range result.Sidecars {
		fmt.Fprintf(&b, "  <sidecar name=%q tokens=\"%d\">\n", sc.Name, sc.Tokens)
		writeIndented(&b, sc.Payload, "    ")
		b.WriteString("  </sidecar>\n")
	}

	for _, c := range result.Selected {
		fmt.Fprintf(&b, "  <file path=%q strategy=%q representation=%q score=%q>\n",
			c.Path, c.Strategy, string(c.Representation), formatScore(c.Score))
		writeIndented(&b, payloadOf(c), "    ")
		b.WriteString("  </file>\n")
	}

	b.WriteString("</context>\n")
	return b.String()
}

func renderMarkdown(result *slicer.SliceResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<!-- generator: slicekit %s -->\n\n", buildinfo.Version)

	if result.Tree != "" {
		b.WriteString("## Directory tree\n\n```\n")
		b.WriteString(result.Tree)
		if !strings.HasSuffix(result.Tree, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("```\n\n")
	}

	for _, sc := range result.Sidecars {
		fmt.Fprintf(&b, "## Sidecar: %s\n\n```\n%s\n```\n\n", sc.Name, strings.TrimRight(sc.Payload, "\n"))
	}

	for _, c := range result.Selected {
		fmt.Fprintf(&b, "## %s (%s, %s, score=%s)\n\n```\n%s\n```\n\n",
			c.Path, c.Strategy, string(c.Representation), formatScore(c.Score), strings.TrimRight(payloadOf(c), "\n"))
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

type jsonCandidate struct {
	Path           string  `json:"path"`
	Strategy       string  `json:"strategy"`
	Representation string  `json:"representation"`
	Score          float64 `json:"score"`
	Tokens         int     `json:"tokens"`
	Content        string  `json:"content,omitempty"`
}

type jsonSidecar struct {
	Name    string `json:"name"`
	Tokens  int    `json:"tokens"`
	Payload string `json:"payload"`
}

type jsonResult struct {
	Generator   string          `json:"generator"`
	Tree        string          `json:"tree,omitempty"`
	Sidecars    []jsonSidecar   `json:"sidecars"`
	Selected    []jsonCandidate `json:"selected"`
	TotalTokens int             `json:"totalTokens"`
	Budget      int             `json:"budget"`
}

func renderJSON(result *slicer.SliceResult) (string, error) {
	out := jsonResult{
		Generator:   "slicekit " + buildinfo.Version,
		Tree:        result.Tree,
		TotalTokens: result.TotalTokens,
		Budget:      result.Budget,
	}
	for _, sc := range result.Sidecars {
		out.Sidecars = append(out.Sidecars, jsonSidecar{Name: sc.Name, Tokens: sc.Tokens, Payload: sc.Payload})
	}
	for _, c := range result.Selected {
		out.Selected = append(out.Selected, jsonCandidate{
			Path:           c.Path,
			Strategy:       c.Strategy,
			Representation: string(c.Representation),
			Score:          c.Score,
			Tokens:         c.Tokens,
			Content:        payloadOf(c),
		})
	}
	if out.Sidecars == nil {
		out.Sidecars = []jsonSidecar{}
	}
	if out.Selected == nil {
		out.Selected = []jsonCandidate{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// payloadOf returns the renderable text for a candidate at its currently
// selected representation.
func payloadOf(c *slicer.SliceCandidate) string {
	switch c.Representation {
	case slicer.RepresentationCodemap:
		return c.Codemap
	case slicer.RepresentationReference:
		return c.Reason
	default:
		return c.Content
	}
}

func writeIndented(b *strings.Builder, text, prefix string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 4, 64)
}
