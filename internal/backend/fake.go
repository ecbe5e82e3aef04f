package backend

import (
	"context"
	"sort"
	"strings"

	"github.com/slicekit/slicekit/internal/codemap"
)

// Fake is an in-memory RepoBackend keyed entirely by maps supplied at
// construction time — the seam spec.md §9 calls for ("Backend as a seam.
// Provide an in-memory backend for deterministic scenarios"). Every
// end-to-end scenario test in this module builds a Fake rather than
// touching the filesystem.
type Fake struct {
	// Files maps repo-relative path -> content.
	Files map[string]string

	// Tree, when set, is returned verbatim by GetTree.
	Tree string

	// DiffPaths, when set, is what a diff-strategy-facing caller would
	// expect git diff to report (the Fake does not shell out to git at
	// all; tests set this directly instead).
	DiffPaths []string
}

// NewFake constructs an empty Fake backend.
func NewFake() *Fake {
	return &Fake{Files: make(map[string]string)}
}

// WithFile adds or overwrites a file and returns the receiver for chaining.
func (f *Fake) WithFile(path, content string) *Fake {
	f.Files[path] = content
	return f
}

// ListFiles returns every path in Files, sorted.
func (f *Fake) ListFiles(ctx context.Context, root string) ([]string, error) {
	paths := make([]string, 0, len(f.Files))
	for p := range f.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadFile returns the stored content for path, or "" if absent.
func (f *Fake) ReadFile(ctx context.Context, path string) (string, error) {
	return f.Files[path], nil
}

// Search performs the same literal substring matching FSBackend.Search
// does, over the in-memory file set, so fakes behave identically to the
// real backend under test.
func (f *Fake) Search(ctx context.Context, keywords []string, opts SearchOptions) ([]SearchMatch, error) {
	paths, _ := f.ListFiles(ctx, "")
	var out []SearchMatch
	for _, p := range paths {
		out = append(out, searchContent(p, f.Files[p], keywords, opts.ContextLines)...)
	}
	if opts.MaxResults > 0 && len(out) > opts.MaxResults {
		out = out[:opts.MaxResults]
	}
	return out, nil
}

// GetStructure extracts codemaps for the requested paths using the real
// codemap package (tree-sitter parsing is deterministic and cheap enough
// to run directly in tests; it is the one piece of real behavior the Fake
// intentionally does not stub out, since scoring/selection tests usually
// want realistic codemap shapes).
func (f *Fake) GetStructure(ctx context.Context, paths []string, opts StructureOptions) (StructureResult, error) {
	filtered := paths
	if len(opts.Scope) > 0 {
		filtered = nil
		for _, p := range paths {
			if inScope(p, opts.Scope) {
				filtered = append(filtered, p)
			}
		}
	}

	var result StructureResult
	for _, p := range filtered {
		content, ok := f.Files[p]
		if !ok {
			continue
		}
		outline, ok := codemap.ExtractCodemap(ctx, p, []byte(content))
		if !ok || outline == nil {
			continue
		}
		result.Codemaps = append(result.Codemaps, CodemapEntry{
			Path:      outline.Path,
			Language:  outline.Language,
			Classes:   outline.Classes,
			Functions: outline.Functions,
			Types:     outline.Types,
			Imports:   outline.Imports,
		})
	}
	return result, nil
}

// GetTree returns Tree verbatim if set, otherwise a sorted newline-joined
// file listing.
func (f *Fake) GetTree(ctx context.Context, root string, opts TreeOptions) (TreeResult, error) {
	content := f.Tree
	if content == "" {
		paths, _ := f.ListFiles(ctx, root)
		content = strings.Join(paths, "\n")
	}
	return TreeResult{Content: content, Tokens: estimateTreeTokens(content)}, nil
}

var _ RepoBackend = (*Fake)(nil)
var _ RepoBackend = (*FSBackend)(nil)
