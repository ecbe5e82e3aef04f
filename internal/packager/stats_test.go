package packager_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slicekit/slicekit/internal/packager"
	"github.com/slicekit/slicekit/internal/slicer"
)

func statsResult() *slicer.SliceResult {
	return &slicer.SliceResult{
		Budget:      1000,
		TotalTokens: 300,
		Selected: []*slicer.SliceCandidate{
			{Path: "a.go", Strategy: "skeleton", Representation: slicer.RepresentationFull, Tokens: 100},
			{Path: "b.go", Strategy: "skeleton", Representation: slicer.RepresentationSnippet, Tokens: 50},
			{Path: "c.go", Strategy: "keyword", Representation: slicer.RepresentationFull, Tokens: 150},
		},
	}
}

func TestNewStatsAggregatesByStrategy(t *testing.T) {
	s := packager.NewStats(statsResult())

	require.Contains(t, s.ByStrategy, "skeleton")
	require.Contains(t, s.ByStrategy, "keyword")
	assert.Equal(t, packager.StrategyStat{Count: 2, Tokens: 150}, s.ByStrategy["skeleton"])
	assert.Equal(t, packager.StrategyStat{Count: 1, Tokens: 150}, s.ByStrategy["keyword"])
}

func TestNewStatsAggregatesByRepresentation(t *testing.T) {
	s := packager.NewStats(statsResult())

	require.Contains(t, s.ByRepresentation, slicer.RepresentationFull)
	require.Contains(t, s.ByRepresentation, slicer.RepresentationSnippet)
	assert.Equal(t, packager.RepresentationStat{Count: 2, Tokens: 250}, s.ByRepresentation[slicer.RepresentationFull])
	assert.Equal(t, packager.RepresentationStat{Count: 1, Tokens: 50}, s.ByRepresentation[slicer.RepresentationSnippet])
}

func TestStatsFormatIncludesBudgetPercentage(t *testing.T) {
	s := packager.NewStats(statsResult())
	out := s.Format()

	assert.Contains(t, out, "Total tokens: 300")
	assert.Contains(t, out, "Budget:       1,000 (30% used)")
	assert.Contains(t, out, "skeleton")
	assert.Contains(t, out, "keyword")
}

func TestStatsFormatUnlimitedBudget(t *testing.T) {
	result := statsResult()
	result.Budget = 0
	out := packager.NewStats(result).Format()

	assert.Contains(t, out, "Budget:       unlimited")
}

func TestFormatFileListListsEachSelectedCandidate(t *testing.T) {
	out := packager.FormatFileList(statsResult())

	assert.Contains(t, out, "a.go")
	assert.Contains(t, out, "skeleton")
	assert.Contains(t, out, "100 tokens")
	assert.Contains(t, out, "c.go")
}

func TestFormatFileListEmptySelection(t *testing.T) {
	out := packager.FormatFileList(&slicer.SliceResult{})
	assert.Contains(t, out, "(no files selected)")
}
