package importgraph

import (
	"testing"

	"github.com/slicekit/slicekit/internal/codemap"
	"github.com/stretchr/testify/assert"
)

func knownFor(paths ...string) map[string]bool {
	m := make(map[string]bool, len(paths))
	for _, p := range paths {
		m[p] = true
	}
	return m
}

func TestBuildResolvesRelativeImports(t *testing.T) {
	outlines := []*codemap.Outline{
		{Path: "src/index.ts", Imports: []string{"./auth", "lodash"}},
		{Path: "src/auth.ts", Imports: []string{"./session"}},
	}
	known := knownFor("src/index.ts", "src/auth.ts", "src/session.ts")

	g := Build(outlines, known)

	assert.Equal(t, []string{"src/auth.ts"}, g.Neighbors("src/index.ts"))
	assert.Equal(t, []string{"src/session.ts"}, g.Neighbors("src/auth.ts"))
}

func TestBuildDropsBareSpecifiers(t *testing.T) {
	outlines := []*codemap.Outline{
		{Path: "src/index.ts", Imports: []string{"react", "express"}},
	}
	g := Build(outlines, knownFor("src/index.ts"))
	assert.Empty(t, g.Neighbors("src/index.ts"))
}

func TestBFSWalkSeedsAreDepthZero(t *testing.T) {
	g := NewGraph()
	depth := BFSWalk(g, []string{"src/index.ts"}, 2)
	assert.Equal(t, 0, depth["src/index.ts"])
}

func TestBFSWalkRespectsMaxDepth(t *testing.T) {
	outlines := []*codemap.Outline{
		{Path: "a.go", Imports: []string{"./b"}},
		{Path: "b.go", Imports: []string{"./c"}},
		{Path: "c.go", Imports: []string{"./d"}},
	}
	known := knownFor("a.go", "b.go", "c.go", "d.go")
	g := Build(outlines, known)

	depth := BFSWalk(g, []string{"a.go"}, 1)
	assert.Equal(t, 0, depth["a.go"])
	assert.Equal(t, 1, depth["b.go"])
	_, present := depth["c.go"]
	assert.False(t, present)
}
