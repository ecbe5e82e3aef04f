package backend

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/slicekit/slicekit/internal/config"
)

// gitignoreMatcher loads and evaluates .gitignore patterns hierarchically:
// nested .gitignore files each add patterns scoped to their own subtree,
// inherited by every descendant. Paths passed to IsIgnored must be relative
// to the root directory used to construct the matcher.
type gitignoreMatcher struct {
	root     string
	matchers map[string]*gitignore.GitIgnore
	dirs     []string
	logger   *slog.Logger
}

// newGitignoreMatcher walks rootDir to discover every .gitignore file and
// compiles its patterns. A repository with no .gitignore files produces a
// matcher whose IsIgnored always returns false.
func newGitignoreMatcher(rootDir string) (*gitignoreMatcher, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root path %s: %w", rootDir, err)
	}

	logger := config.NewLogger("backend.gitignore")
	m := &gitignoreMatcher{
		root:     absRoot,
		matchers: make(map[string]*gitignore.GitIgnore),
		logger:   logger,
	}

	if err := m.discover(); err != nil {
		return nil, fmt.Errorf("discovering .gitignore files in %s: %w", absRoot, err)
	}
	return m, nil
}

func (m *gitignoreMatcher) discover() error {
	err := filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			m.logger.Debug("skipping unreadable path", "path", path, "error", err)
			return filepath.SkipDir
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if d.IsDir() || d.Name() != ".gitignore" {
			return nil
		}

		dirPath := filepath.Dir(path)
		relDir, err := filepath.Rel(m.root, dirPath)
		if err != nil {
			return nil
		}

		compiled, err := gitignore.CompileIgnoreFile(path)
		if err != nil {
			m.logger.Debug("skipping unreadable .gitignore", "path", path, "error", err)
			return nil
		}

		if relDir == "" {
			relDir = "."
		}
		m.matchers[relDir] = compiled
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking directory tree: %w", err)
	}

	m.dirs = make([]string, 0, len(m.matchers))
	for dir := range m.matchers {
		m.dirs = append(m.dirs, dir)
	}
	sort.Strings(m.dirs)
	return nil
}

// IsIgnored reports whether path (relative to root, forward-slashed) should
// be ignored according to every applicable .gitignore, from root toward
// path's parent directory.
func (m *gitignoreMatcher) IsIgnored(path string, isDir bool) bool {
	normalized := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if normalized == "" || normalized == "." {
		return false
	}

	matchPath := normalized
	if isDir && !strings.HasSuffix(matchPath, "/") {
		matchPath += "/"
	}

	for _, dir := range m.dirs {
		matcher := m.matchers[dir]
		if dir != "." {
			prefix := dir + "/"
			if !strings.HasPrefix(normalized, prefix) {
				continue
			}
		}

		var relPath string
		if dir == "." {
			relPath = matchPath
		} else {
			relPath = strings.TrimPrefix(matchPath, dir+"/")
		}

		if matcher.MatchesPath(relPath) {
			return true
		}
	}
	return false
}

// defaultIgnorer applies the fixed set of directories/files excluded
// regardless of .gitignore content: VCS metadata and common dependency
// directories that should never be scanned even in a repo lacking a
// .gitignore.
type defaultIgnorer struct{}

var defaultIgnoredNames = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".DS_Store":    true,
}

func (defaultIgnorer) IsIgnored(path string, isDir bool) bool {
	base := filepath.Base(path)
	if defaultIgnoredNames[base] {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if defaultIgnoredNames[part] {
			return true
		}
	}
	return false
}

// isBinary sniffs the first 8KB of a file for a null byte, matching Git's
// own binary-detection heuristic.
func isBinary(path string) (bool, error) {
	const sniffBytes = 8192
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s for binary detection: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, sniffBytes)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading %s for binary detection: %w", path, err)
	}
	if n == 0 {
		return false, nil
	}
	for i := 0; i < n; i++ {
		if buf[i] == 0 {
			return true, nil
		}
	}
	return false, nil
}
