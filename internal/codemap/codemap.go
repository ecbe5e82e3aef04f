// Package codemap is the concrete implementation standing in for spec.md
// §6's "external codemap extractor" collaborator: given a file path and its
// content, it returns a structured outline (classes, functions, types,
// imports) using tree-sitter grammars, or none for unsupported languages.
// It never returns an error from ExtractCodemap — a parse
// failure degrades to an empty-but-present Outline, matching the "must not
// throw" contract.
package codemap

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Outline is the structured per-file result spec.md §4.B/§6 describe.
type Outline struct {
	Path      string
	Language  string
	Classes   []string
	Functions []string
	Types     []string
	Imports   []string
}

// languageSpec binds a tree-sitter grammar to the named-child node types
// that count as a class, function, type declaration, or import for that
// language, plus how to pull the specifier string out of an import node.
type languageSpec struct {
	lang           *sitter.Language
	classTypes     map[string]bool
	functionTypes  map[string]bool
	typeTypes      map[string]bool
	importTypes    map[string]bool
	importExtractor func(node *sitter.Node, content []byte) []string
}

var languagesByExt map[string]string
var specs map[string]*languageSpec
var initOnce sync.Once

func initLanguages() {
	languagesByExt = map[string]string{
		".go":   "go",
		".py":   "python",
		".js":   "javascript",
		".jsx":  "javascript",
		".mjs":  "javascript",
		".ts":   "typescript",
		".tsx":  "typescript",
		".java": "java",
		".rs":   "rust",
		".rb":   "ruby",
		".php":  "php",
		".c":    "c",
		".h":    "c",
		".cpp":  "cpp",
		".cc":   "cpp",
		".hpp":  "cpp",
	}

	specs = map[string]*languageSpec{
		"go": {
			lang:          golang.GetLanguage(),
			classTypes:    map[string]bool{},
			functionTypes: map[string]bool{"function_declaration": true, "method_declaration": true},
			typeTypes:     map[string]bool{"type_declaration": true, "type_spec": true},
			importTypes:   map[string]bool{"import_declaration": true},
			importExtractor: extractQuotedStrings,
		},
		"python": {
			lang:          python.GetLanguage(),
			classTypes:    map[string]bool{"class_definition": true},
			functionTypes: map[string]bool{"function_definition": true},
			typeTypes:     map[string]bool{},
			importTypes:   map[string]bool{"import_statement": true, "import_from_statement": true},
			importExtractor: extractPythonImport,
		},
		"javascript": {
			lang:          javascript.GetLanguage(),
			classTypes:    map[string]bool{"class_declaration": true},
			functionTypes: map[string]bool{"function_declaration": true, "lexical_declaration": true, "method_definition": true},
			typeTypes:     map[string]bool{},
			importTypes:   map[string]bool{"import_statement": true},
			importExtractor: extractQuotedStrings,
		},
		"typescript": {
			lang:          typescript.GetLanguage(),
			classTypes:    map[string]bool{"class_declaration": true},
			functionTypes: map[string]bool{"function_declaration": true, "method_definition": true},
			typeTypes:     map[string]bool{"interface_declaration": true, "type_alias_declaration": true},
			importTypes:   map[string]bool{"import_statement": true},
			importExtractor: extractQuotedStrings,
		},
		"java": {
			lang:          java.GetLanguage(),
			classTypes:    map[string]bool{"class_declaration": true},
			functionTypes: map[string]bool{"method_declaration": true},
			typeTypes:     map[string]bool{"interface_declaration": true, "enum_declaration": true},
			importTypes:   map[string]bool{"import_declaration": true},
			importExtractor: extractPlainIdentifiers,
		},
		"rust": {
			lang:          rust.GetLanguage(),
			classTypes:    map[string]bool{"struct_item": true, "impl_item": true},
			functionTypes: map[string]bool{"function_item": true},
			typeTypes:     map[string]bool{"trait_item": true, "type_item": true, "enum_item": true},
			importTypes:   map[string]bool{"use_declaration": true},
			importExtractor: extractPlainIdentifiers,
		},
		"ruby": {
			lang:          ruby.GetLanguage(),
			classTypes:    map[string]bool{"class": true, "module": true},
			functionTypes: map[string]bool{"method": true},
			typeTypes:     map[string]bool{},
			importTypes:   map[string]bool{"call": true}, // require(...) surfaces as a call node
			importExtractor: extractQuotedStrings,
		},
		"php": {
			lang:          php.GetLanguage(),
			classTypes:    map[string]bool{"class_declaration": true, "interface_declaration": true},
			functionTypes: map[string]bool{"function_definition": true, "method_declaration": true},
			typeTypes:     map[string]bool{},
			importTypes:   map[string]bool{"namespace_use_declaration": true},
			importExtractor: extractPlainIdentifiers,
		},
		"c": {
			lang:          c.GetLanguage(),
			classTypes:    map[string]bool{"struct_specifier": true},
			functionTypes: map[string]bool{"function_definition": true},
			typeTypes:     map[string]bool{"type_definition": true, "enum_specifier": true},
			importTypes:   map[string]bool{"preproc_include": true},
			importExtractor: extractQuotedStrings,
		},
		"cpp": {
			lang:          cpp.GetLanguage(),
			classTypes:    map[string]bool{"class_specifier": true, "struct_specifier": true},
			functionTypes: map[string]bool{"function_definition": true},
			typeTypes:     map[string]bool{"type_definition": true, "enum_specifier": true},
			importTypes:   map[string]bool{"preproc_include": true},
			importExtractor: extractQuotedStrings,
		},
	}
}

// DetectLanguage returns a language tag for path's extension, or "" when
// the extension is outside the curated support set.
func DetectLanguage(path string) string {
	initOnce.Do(initLanguages)
	ext := strings.ToLower(filepath.Ext(path))
	return languagesByExt[ext]
}

// ExtractCodemap parses content with the grammar matching path's extension
// and returns the resulting Outline. Returns (nil, false) for an
// unsupported extension. A tree-sitter parse failure or panic-worthy
// malformed input still yields an Outline with empty fields rather than an
// error, per the "must not throw" contract.
func ExtractCodemap(ctx context.Context, path string, content []byte) (outline *Outline, ok bool) {
	lang := DetectLanguage(path)
	if lang == "" {
		return nil, false
	}
	spec := specs[lang]

	outline = &Outline{Path: path, Language: lang}
	defer func() {
		if r := recover(); r != nil {
			// A malformed file must not take down the planner; degrade to an
			// empty-but-present outline instead of propagating a panic.
			outline = &Outline{Path: path, Language: lang}
			ok = true
		}
	}()

	parser := sitter.NewParser()
	parser.SetLanguage(spec.lang)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil || tree == nil {
		return outline, true
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return outline, true
	}

	walk(root, content, spec, outline)
	return outline, true
}

// walk scans root's named children (and one level of their own named
// children, to catch decorated/exported declarations without implementing
// a full per-language grammar traversal) for classes, functions, types, and
// imports.
func walk(root *sitter.Node, content []byte, spec *languageSpec, out *Outline) {
	n := int(root.NamedChildCount())
	for i := 0; i < n; i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		classify(child, content, spec, out)

		m := int(child.NamedChildCount())
		for j := 0; j < m; j++ {
			grand := child.NamedChild(j)
			if grand == nil {
				continue
			}
			classify(grand, content, spec, out)
		}
	}
}

func classify(node *sitter.Node, content []byte, spec *languageSpec, out *Outline) {
	t := node.Type()
	name := declName(node, content)

	switch {
	case spec.classTypes[t]:
		if name != "" {
			out.Classes = append(out.Classes, name)
		}
	case spec.functionTypes[t]:
		if name != "" {
			out.Functions = append(out.Functions, name)
		}
	case spec.typeTypes[t]:
		if name != "" {
			out.Types = append(out.Types, name)
		}
	case spec.importTypes[t]:
		if spec.importExtractor != nil {
			out.Imports = append(out.Imports, spec.importExtractor(node, content)...)
		}
	}
}

func declName(node *sitter.Node, content []byte) string {
	if field := node.ChildByFieldName("name"); field != nil {
		return field.Content(content)
	}
	return ""
}

// extractQuotedStrings walks node's subtree collecting the text of any
// string-literal-shaped leaf, stripping surrounding quotes. Used for
// languages whose import syntax is "import "path"" / #include "path".
func extractQuotedStrings(node *sitter.Node, content []byte) []string {
	var out []string
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n == nil {
			return
		}
		t := n.Type()
		if t == "interpreted_string_literal" || t == "string_literal" || t == "string" ||
			t == "system_lib_string" {
			raw := n.Content(content)
			unquoted := strings.Trim(raw, "\"'<>")
			if unquoted != "" {
				out = append(out, unquoted)
			}
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(node)
	return out
}

// extractPythonImport handles both `import x.y` and `from x import y`
// shapes by pulling out dotted-name / identifier children directly.
func extractPythonImport(node *sitter.Node, content []byte) []string {
	var out []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "dotted_name", "identifier", "aliased_import":
			out = append(out, child.Content(content))
		}
	}
	return out
}

// extractPlainIdentifiers collects the text of any identifier-shaped
// children directly beneath an import-like node.
func extractPlainIdentifiers(node *sitter.Node, content []byte) []string {
	var out []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "scoped_identifier", "identifier", "qualified_name":
			out = append(out, child.Content(content))
		}
	}
	return out
}

// FormatCodemapCompact renders a deterministic, stable plain-text summary
// of an Outline, used both as token-estimator input and as the rendered
// codemap candidate payload.
func FormatCodemapCompact(o *Outline) string {
	if o == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(o.Path)
	if o.Language != "" {
		b.WriteString(" (")
		b.WriteString(o.Language)
		b.WriteString(")")
	}
	b.WriteString("\n")

	writeSection(&b, "classes", o.Classes)
	writeSection(&b, "functions", o.Functions)
	writeSection(&b, "types", o.Types)
	writeSection(&b, "imports", o.Imports)

	return b.String()
}

func writeSection(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("  ")
	b.WriteString(label)
	b.WriteString(" (")
	b.WriteString(strconv.Itoa(len(items)))
	b.WriteString("):\n")
	for _, item := range items {
		b.WriteString("    - ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}
