// Package importgraph builds a directed file-to-file import graph from
// codemaps and walks it breadth-first, per spec.md §4.C.
package importgraph

import (
	"path"
	"strings"

	"github.com/slicekit/slicekit/internal/codemap"
)

// resolveExtensions is the fixed extension list relative specifiers are
// tried against, in order, per spec.md §4.C.
var resolveExtensions = []string{".ts", ".js", ".tsx", ".jsx", ".py", ".go", ".rs"}

// Graph is a directed adjacency list keyed by repo-relative path.
type Graph struct {
	edges map[string][]string
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{edges: make(map[string][]string)}
}

// Neighbors returns the resolved import targets of path, in the order they
// were added.
func (g *Graph) Neighbors(path string) []string {
	return g.edges[path]
}

// addEdge appends to->g.edges[from] if not already present, preserving
// insertion order (needed for deterministic BFS tie-breaking downstream).
func (g *Graph) addEdge(from, to string) {
	for _, existing := range g.edges[from] {
		if existing == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

// Build constructs a directed graph of file-to-file imports from a set of
// codemaps. knownFiles is the set of repo-relative paths that exist in the
// repository, used both to validate resolved targets and as a fast
// existence check while trying each candidate extension.
//
// Resolution rules: a relative specifier (starting with "." or "..") is
// joined against the codemap's own directory and tried against each
// extension in resolveExtensions (and the bare specifier itself, and an
// "/index"+ext form, to cover directory-style imports). A bare (non
// relative) specifier is dropped — spec.md §4.C: "bare specifiers are
// dropped." Unresolved edges are discarded silently.
func Build(outlines []*codemap.Outline, knownFiles map[string]bool) *Graph {
	g := NewGraph()

	for _, o := range outlines {
		if o == nil {
			continue
		}
		dir := path.Dir(o.Path)
		for _, spec := range o.Imports {
			if !isRelative(spec) {
				continue
			}
			if target, ok := resolve(dir, spec, knownFiles); ok {
				g.addEdge(o.Path, target)
			}
		}
	}

	return g
}

func isRelative(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || spec == "." || spec == ".."
}

func resolve(dir, spec string, knownFiles map[string]bool) (string, bool) {
	joined := path.Clean(path.Join(dir, spec))

	if knownFiles[joined] {
		return joined, true
	}
	for _, ext := range resolveExtensions {
		candidate := joined + ext
		if knownFiles[candidate] {
			return candidate, true
		}
	}
	for _, ext := range resolveExtensions {
		candidate := path.Join(joined, "index"+ext)
		if knownFiles[candidate] {
			return candidate, true
		}
	}
	return "", false
}

// BFSWalk performs a standard breadth-first walk of g starting from seeds,
// returning a mapping path -> depth. Seeds get depth 0. Every node is
// visited at most once; ties within a frontier are broken by the order
// neighbors were added to the graph (insertion order), per spec.md §4.C and
// the resolved Open Question in DESIGN.md. Nodes deeper than maxDepth are
// not visited.
func BFSWalk(g *Graph, seeds []string, maxDepth int) map[string]int {
	depth := make(map[string]int, len(seeds))
	queue := make([]string, 0, len(seeds))

	for _, s := range seeds {
		if _, visited := depth[s]; visited {
			continue
		}
		depth[s] = 0
		queue = append(queue, s)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := depth[cur]
		if d >= maxDepth {
			continue
		}
		for _, next := range g.Neighbors(cur) {
			if _, visited := depth[next]; visited {
				continue
			}
			depth[next] = d + 1
			queue = append(queue, next)
		}
	}

	return depth
}
