// Package lang provides a grammar registry mapping languages to tree-sitter
// parsers and the per-language dispatch tables used for structural
// extraction.
package lang

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/semchunk/internal/model"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Classification is the result of mapping a syntax node to a declaration.
type Classification struct {
	Kind model.DeclarationKind

	// Node is the effective declaration node when it differs from the
	// classified one (export wrappers, decorators). Nil means the node
	// itself.
	Node *sitter.Node

	// Export overrides the language's visibility rule when non-empty.
	Export model.ExportStatus
}

// Language holds tree-sitter configuration and extraction tables for one
// supported language. Adding a language means adding one file with these
// tables, not subclassing anything.
type Language struct {
	Name       string
	Extensions []string
	lang       *sitter.Language

	// Classify maps a top-level node to a declaration kind. Nodes it
	// rejects (statements, comments, imports) are not declarations.
	Classify func(node *sitter.Node, source []byte) (Classification, bool)

	// ClassifyMember does the same for nodes inside a class or interface
	// body.
	ClassifyMember func(node *sitter.Node, source []byte) (Classification, bool)

	// BodyNode returns the body to walk for member declarations, or nil.
	BodyNode func(node *sitter.Node) *sitter.Node

	// ResolveName returns the declared name, or "" when unresolvable.
	ResolveName func(node *sitter.Node, source []byte) string

	// ExportOf classifies visibility when the classification did not.
	ExportOf func(node *sitter.Node, name string, source []byte) model.ExportStatus

	// ExtractImports walks the whole tree for import relationships.
	ExtractImports func(root *sitter.Node, source []byte) []model.ImportRelationship

	Branches    map[string]bool // node types counted for cyclomatic complexity
	Nesting     map[string]bool // block-like node types for nesting depth
	Identifiers map[string]bool // identifier node types collected as dependencies
	Operands    map[string]bool // operand node types for Halstead metrics
	Functions   map[string]bool // function-like node types counted per file
	Modifiers   map[string]bool // modifier token types
	LineComment string
	CommentNode string
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// Parse parses source with a fresh parser. Files over maxBytes are
// rejected up front, and grammar-level panics are translated into typed
// errors instead of crashing the run.
func (l *Language) Parse(ctx context.Context, source []byte, maxBytes int) (tree *sitter.Tree, err error) {
	if maxBytes > 0 && len(source) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", model.ErrFileTooLarge, len(source), maxBytes)
	}
	defer func() {
		if r := recover(); r != nil {
			tree = nil
			msg := fmt.Sprint(r)
			if strings.Contains(msg, "too large") || strings.Contains(msg, "too complex") {
				err = fmt.Errorf("%w: %s", model.ErrFileTooLarge, msg)
			} else {
				err = fmt.Errorf("%w: parser panic: %s", model.ErrAnalysisFailed, msg)
			}
		}
	}()
	tree, err = l.NewParser().ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrAnalysisFailed, err)
	}
	return tree, nil
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// register adds a language to the registry. A grammar that failed to bind
// is skipped so the remaining languages stay available.
func register(l *Language) {
	if l == nil || l.lang == nil {
		return
	}
	Languages[l.Name] = l
}

// Get returns the registered language, or nil.
func Get(name string) *Language {
	return Languages[name]
}

// Supported returns the registered language names, sorted.
func Supported() []string {
	names := make([]string, 0, len(Languages))
	for name := range Languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if
// unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

// Detect resolves the language of a file, honoring a pre-detected tag when
// the caller supplied one. Returns "" for unsupported files.
func Detect(path, preDetected string) string {
	if preDetected != "" {
		if _, ok := Languages[preDetected]; ok {
			return preDetected
		}
		return ""
	}
	return ForExtension(filepath.Ext(path))
}

// Walk visits node and every descendant depth-first, anonymous tokens
// included. Returning false from fn prunes that subtree.
func Walk(node *sitter.Node, fn func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		Walk(node.Child(i), fn)
	}
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func setOf(items ...string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// firstChildOfType returns the first direct child matching one of types.
func firstChildOfType(node *sitter.Node, types ...string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		for _, t := range types {
			if child.Type() == t {
				return child
			}
		}
	}
	return nil
}

// firstDescendantOfType returns the first node of the given type anywhere
// in the subtree, depth-first.
func firstDescendantOfType(node *sitter.Node, nodeType string) *sitter.Node {
	var found *sitter.Node
	Walk(node, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.Type() == nodeType {
			found = n
			return false
		}
		return true
	})
	return found
}

// hasChildToken reports whether node has a direct anonymous child token of
// the given type.
func hasChildToken(node *sitter.Node, token string) bool {
	return firstChildOfType(node, token) != nil
}

// exportByAncestor implements the textual export rule: any ancestor whose
// source text begins with "export" marks the declaration exported, or
// default-exported when it begins with "export default".
func exportByAncestor(node *sitter.Node, source []byte) model.ExportStatus {
	for n := node; n != nil && n.Parent() != nil; n = n.Parent() {
		text := NodeText(n, source)
		if strings.HasPrefix(text, "export") {
			if strings.HasPrefix(text, "export default") {
				return model.ExportDefault
			}
			return model.ExportExported
		}
	}
	return model.ExportInternal
}

// underscoreExport treats names with a leading underscore as internal.
// Used by languages without an export syntax (Python, Ruby).
func underscoreExport(_ *sitter.Node, name string, _ []byte) model.ExportStatus {
	if name == "" || name == "anonymous" || strings.HasPrefix(name, "_") {
		return model.ExportInternal
	}
	return model.ExportExported
}

// stripQuotes removes surrounding string delimiters from a literal.
func stripQuotes(s string) string {
	return strings.Trim(s, "\"'`")
}
