// Package keywordx extracts keywords from a natural-language task
// description, per spec.md §4.A: tokenize, lowercase, drop stopwords and
// short tokens, de-duplicate, cap at 20, preserving first-occurrence order
// so earlier keywords outrank later ones.
package keywordx

import (
	"strings"
	"unicode"
)

const maxKeywords = 20
const minKeywordLen = 3

// stopwords is a fixed English stopword set. Kept small and task-oriented
// rather than exhaustive; it only needs to filter the function words that
// would otherwise dominate keyword lists extracted from short task
// descriptions.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true,
	"has": true, "have": true, "how": true, "i": true, "in": true,
	"into": true, "is": true, "it": true, "its": true, "of": true,
	"on": true, "or": true, "our": true, "should": true, "that": true,
	"the": true, "their": true, "this": true, "to": true, "was": true,
	"were": true, "what": true, "when": true, "where": true, "which": true,
	"who": true, "why": true, "will": true, "with": true, "you": true,
	"your": true, "can": true, "does": true, "do": true, "not": true,
	"all": true, "any": true, "also": true, "about": true,
}

// Extract tokenizes task on non-alphanumeric runes, lowercases, drops
// stopwords and tokens shorter than minKeywordLen, de-duplicates preserving
// first occurrence, and returns at most maxKeywords entries in that order.
func Extract(task string) []string {
	fields := strings.FieldsFunc(task, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, maxKeywords)

	for _, f := range fields {
		if len(out) >= maxKeywords {
			break
		}
		lower := strings.ToLower(f)
		if len(lower) < minKeywordLen {
			continue
		}
		if stopwords[lower] {
			continue
		}
		if seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, lower)
	}

	return out
}

// IsCodePath reports whether path has an extension in the fixed code-path
// extension set spec.md §4.A defines for isCodePath.
func IsCodePath(path string) bool {
	ext := extensionOf(path)
	return codeExtensions[ext]
}

var codeExtensions = map[string]bool{
	"ts": true, "js": true, "tsx": true, "jsx": true, "py": true,
	"rs": true, "go": true, "cpp": true, "c": true, "h": true,
	"hpp": true, "java": true, "rb": true, "php": true, "swift": true,
	"kt": true,
}

func extensionOf(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 || idx == len(path)-1 {
		return ""
	}
	return strings.ToLower(path[idx+1:])
}
