package backend

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/slicekit/slicekit/internal/codemap"
	"github.com/slicekit/slicekit/internal/config"
	"github.com/slicekit/slicekit/internal/gitutil"
)

const defaultMaxFileSize int64 = 1_048_576 // 1MB, same ceiling the teacher's discovery walker applies by default.

// FSBackend is the default RepoBackend: a read-only filesystem walker with
// .gitignore-awareness, binary/size filtering, and bounded-concurrency I/O.
// It is the concrete collaborator spec.md §6 treats as external.
type FSBackend struct {
	Root        string
	Concurrency int
	MaxFileSize int64

	logger       *slog.Logger
	ignore       *gitignoreMatcher
	defaults     defaultIgnorer
	codemapCache sync.Map // xxh3 content fingerprint -> *CodemapEntry

	gitAware     bool
	trackedFiles map[string]bool
}

// NewFSBackend constructs an FSBackend rooted at root. .gitignore discovery
// happens eagerly so repeated ListFiles calls are cheap.
func NewFSBackend(root string) (*FSBackend, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", absRoot)
	}

	ignore, err := newGitignoreMatcher(absRoot)
	if err != nil {
		return nil, err
	}

	b := &FSBackend{
		Root:        absRoot,
		Concurrency: runtime.NumCPU(),
		MaxFileSize: defaultMaxFileSize,
		logger:      config.NewLogger("backend"),
		ignore:      ignore,
	}

	// Tracked-file gating: when root is a git working tree, restrict
	// ListFiles to paths git itself considers part of the repo, on top of
	// .gitignore/binary/size filtering. A non-git root (or missing git
	// binary) leaves gating off and ListFiles behaves as a plain walk.
	ctx, cancel := context.WithTimeout(context.Background(), gitutil.DefaultTimeout)
	defer cancel()
	if gitutil.Available(ctx, absRoot) {
		b.gitAware = true
		b.trackedFiles = gitutil.TrackedFiles(ctx, absRoot)
	}

	return b, nil
}

// ListFiles walks Root, skipping VCS metadata, .gitignore matches, binary
// files, and files over MaxFileSize. Returned paths are repo-relative,
// forward-slashed, and sorted for deterministic downstream iteration order
// (strategies and the selector both depend on stable ordering for
// tie-breaking).
func (b *FSBackend) ListFiles(ctx context.Context, root string) ([]string, error) {
	var files []string

	walkErr := filepath.WalkDir(b.Root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			return nil
		}

		relPath, relErr := filepath.Rel(b.Root, path)
		if relErr != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}

		isDir := d.IsDir()
		if b.defaults.IsIgnored(relPath, isDir) || b.ignore.IsIgnored(relPath, isDir) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}
		if isDir {
			return nil
		}

		info, statErr := os.Stat(path)
		if statErr != nil {
			return nil
		}
		if b.MaxFileSize > 0 && info.Size() > b.MaxFileSize {
			return nil
		}

		bin, binErr := isBinary(path)
		if binErr == nil && bin {
			return nil
		}

		if b.gitAware && len(b.trackedFiles) > 0 && !b.trackedFiles[relPath] {
			return nil
		}

		files = append(files, relPath)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", b.Root, walkErr)
	}

	sort.Strings(files)
	return files, nil
}

// ReadFile returns the content of a repo-relative path.
func (b *FSBackend) ReadFile(ctx context.Context, path string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	data, err := os.ReadFile(filepath.Join(b.Root, filepath.FromSlash(path)))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// Search performs a literal, case-insensitive substring search for each
// keyword across every listed file, returning matches with opts.ContextLines
// of surrounding context folded into the snippet. Reads are bounded by
// Concurrency via errgroup, matching the teacher walker's content-loading
// phase.
func (b *FSBackend) Search(ctx context.Context, keywords []string, opts SearchOptions) ([]SearchMatch, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	paths, err := b.ListFiles(ctx, b.Root)
	if err != nil {
		return nil, err
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	type fileMatches struct {
		idx     int
		matches []SearchMatch
	}

	results := make([]fileMatches, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			content, err := b.ReadFile(gctx, p)
			if err != nil {
				return nil // unreadable files simply contribute no matches
			}
			results[i] = fileMatches{idx: i, matches: searchContent(p, content, keywords, opts.ContextLines)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	var out []SearchMatch
	for _, r := range results {
		out = append(out, r.matches...)
		if opts.MaxResults > 0 && len(out) >= opts.MaxResults {
			return out[:opts.MaxResults], nil
		}
	}
	return out, nil
}

func searchContent(path, content string, keywords []string, contextLines int) []SearchMatch {
	lines := strings.Split(content, "\n")
	lowerKeywords := make([]string, len(keywords))
	for i, k := range keywords {
		lowerKeywords[i] = strings.ToLower(k)
	}

	var matches []SearchMatch
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range lowerKeywords {
			if kw == "" || !strings.Contains(lower, kw) {
				continue
			}
			start := i - contextLines
			if start < 0 {
				start = 0
			}
			end := i + contextLines + 1
			if end > len(lines) {
				end = len(lines)
			}
			matches = append(matches, SearchMatch{
				Path:    path,
				Line:    i + 1,
				Snippet: strings.Join(lines[start:end], "\n"),
			})
			break
		}
	}
	return matches
}

// GetStructure batch-extracts codemaps for paths, bounded by Concurrency.
// Paths whose language is unsupported or whose content fails to read are
// simply omitted from the result, per the extractor's "must not throw"
// contract.
func (b *FSBackend) GetStructure(ctx context.Context, paths []string, opts StructureOptions) (StructureResult, error) {
	filtered := paths
	if len(opts.Scope) > 0 {
		filtered = make([]string, 0, len(paths))
		for _, p := range paths {
			if inScope(p, opts.Scope) {
				filtered = append(filtered, p)
			}
		}
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	entries := make([]*CodemapEntry, len(filtered))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, p := range filtered {
		i, p := i, p
		g.Go(func() error {
			content, err := b.ReadFile(gctx, p)
			if err != nil {
				return nil
			}
			fingerprint := xxh3.HashString(content)
			if cached, ok := b.codemapCache.Load(fingerprint); ok {
				entry := *cached.(*CodemapEntry)
				entry.Path = p
				entries[i] = &entry
				return nil
			}
			outline, ok := codemap.ExtractCodemap(gctx, p, []byte(content))
			if !ok || outline == nil {
				return nil
			}
			entry := &CodemapEntry{
				Path:      outline.Path,
				Language:  outline.Language,
				Classes:   outline.Classes,
				Functions: outline.Functions,
				Types:     outline.Types,
				Imports:   outline.Imports,
			}
			b.codemapCache.Store(fingerprint, entry)
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return StructureResult{}, fmt.Errorf("extracting structure: %w", err)
	}

	result := StructureResult{}
	for _, e := range entries {
		if e != nil {
			result.Codemaps = append(result.Codemaps, *e)
		}
	}
	return result, nil
}

func inScope(path string, scope []string) bool {
	for _, s := range scope {
		if path == s || strings.HasPrefix(path, s+"/") {
			return true
		}
	}
	return false
}

// GetTree renders a plain-text indented directory tree of root, bounded by
// opts.MaxDepth (0 = unbounded).
func (b *FSBackend) GetTree(ctx context.Context, root string, opts TreeOptions) (TreeResult, error) {
	paths, err := b.ListFiles(ctx, root)
	if err != nil {
		return TreeResult{}, err
	}

	var b2 strings.Builder
	writer := bufio.NewWriter(&b2)
	for _, p := range paths {
		depth := strings.Count(p, "/")
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			continue
		}
		fmt.Fprintf(writer, "%s%s\n", strings.Repeat("  ", depth), filepath.Base(p))
	}
	writer.Flush()

	content := b2.String()
	return TreeResult{Content: content, Tokens: estimateTreeTokens(content)}, nil
}

// estimateTreeTokens avoids importing tokencount here to keep backend free
// of a dependency on the estimator choice; it uses the same ceil(chars/4)
// formula directly since the tree is always rendered as plain text.
func estimateTreeTokens(s string) int {
	if s == "" {
		return 0
	}
	return (len(s) + 3) / 4
}

// Note: include/exclude filtering is applied by callers via
// pathmatch.IsPathIncluded against the paths ListFiles returns; the backend
// itself does not apply request-level include/exclude (that is a planner
// concern layered above the backend seam), only .gitignore/binary/size
// filtering intrinsic to "what counts as a file in this repo" at all.
