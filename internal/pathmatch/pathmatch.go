// Package pathmatch implements the include/exclude glob matching utility
// spec.md §4.A calls isPathIncluded: a path is eligible when it matches at
// least one include pattern (or the include list is empty) and matches no
// exclude pattern.
package pathmatch

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NormalisePath strips a leading "./" and converts backslashes to forward
// slashes so paths from any platform match doublestar patterns consistently.
func NormalisePath(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	path = strings.TrimPrefix(path, "./")
	return path
}

// IsPathIncluded reports whether path is eligible under include/exclude
// glob pattern lists.
//
// Exclude wins over include: a path matching any exclude pattern is never
// included, regardless of the include list. An empty include list means
// "everything not excluded is included". Invalid patterns (failing
// doublestar.ValidatePattern) are ignored rather than erroring, matching
// the teacher's TierMatcher construction-time filtering.
func IsPathIncluded(path string, include, exclude []string) bool {
	normalised := NormalisePath(path)

	for _, pattern := range exclude {
		if matchPattern(pattern, normalised) {
			return false
		}
	}

	if len(include) == 0 {
		return true
	}

	for _, pattern := range include {
		if matchPattern(pattern, normalised) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, path string) bool {
	if !doublestar.ValidatePattern(pattern) {
		return false
	}
	matched, err := doublestar.Match(pattern, path)
	if err != nil {
		return false
	}
	if matched {
		return true
	}
	// Allow a directory-prefix pattern like "vendor/**" or bare "vendor" to
	// match any file beneath it, and a bare extension-less pattern like
	// "internal" to match "internal/foo.go" the way a typical .gitignore-style
	// exclude expects, without requiring callers to spell out "**" themselves.
	if !strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		prefix := pattern + "/"
		if strings.HasPrefix(path, prefix) || path == pattern {
			return true
		}
	}
	return false
}
