// Package extract walks parsed syntax trees to produce per-file semantic
// analyses: declarations, import relationships, and complexity metrics.
package extract

import (
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/semchunk/internal/lang"
	"github.com/phobologic/semchunk/internal/model"
)

// AnonymousName is used when no declaration name could be resolved.
const AnonymousName = "anonymous"

// Analyze extracts the structural summary of one parsed file. Trees with
// syntax errors are analyzed best-effort; a failure while building a single
// declaration skips that declaration only, never the file.
func Analyze(l *lang.Language, tree *sitter.Tree, source []byte, path string) *model.SemanticAnalysis {
	root := tree.RootNode()
	analysis := &model.SemanticAnalysis{
		Language:        l.Name,
		Path:            path,
		TotalLines:      countLines(source),
		HasSyntaxErrors: root.HasError(),
		AnalyzedAt:      time.Now(),
	}

	if l.Classify != nil {
		for i := 0; i < int(root.ChildCount()); i++ {
			node := root.Child(i)
			c, ok := l.Classify(node, source)
			if !ok {
				continue
			}
			if decl, ok := buildDeclaration(l, node, c, source, true); ok {
				analysis.Declarations = append(analysis.Declarations, decl)
			}
		}
	}

	if l.ExtractImports != nil {
		analysis.Imports = l.ExtractImports(root, source)
	}
	analysis.Complexity = fileComplexity(l, root, source, analysis.Declarations)
	return analysis
}

func buildDeclaration(l *lang.Language, node *sitter.Node, c lang.Classification, source []byte, withMembers bool) (decl model.Declaration, ok bool) {
	// A malformed subtree costs only this declaration, not the file.
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	body := node
	if c.Node != nil {
		body = c.Node
	}

	name := ""
	if l.ResolveName != nil {
		name = l.ResolveName(body, source)
		if name == "" && body != node {
			name = l.ResolveName(node, source)
		}
	}
	if name == "" {
		name = AnonymousName
	}

	export := c.Export
	if export == "" {
		export = model.ExportInternal
		if l.ExportOf != nil {
			export = l.ExportOf(node, name, source)
		}
	}

	decl = model.Declaration{
		Kind:         c.Kind,
		Name:         name,
		StartLine:    int(node.StartPoint().Row) + 1,
		EndLine:      int(node.EndPoint().Row) + 1,
		Complexity:   cyclomatic(l, body),
		Export:       export,
		Comment:      leadingComment(l, node, source),
		Modifiers:    modifiers(l, body, source),
		Dependencies: dependencies(l, body, name, source),
	}

	if withMembers {
		decl.Children = members(l, body, c, source)
	}
	return decl, true
}

// members walks a class-like body for method and field declarations, so a
// method is never double-counted as a top-level unit.
func members(l *lang.Language, node *sitter.Node, c lang.Classification, source []byte) []model.Declaration {
	switch c.Kind {
	case model.KindClass, model.KindInterface, model.KindNamespace, model.KindEnum:
	default:
		return nil
	}
	if l.BodyNode == nil || l.ClassifyMember == nil {
		return nil
	}
	body := l.BodyNode(node)
	if body == nil {
		return nil
	}

	var kids []model.Declaration
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		mc, ok := l.ClassifyMember(child, source)
		if !ok {
			continue
		}
		if kid, ok := buildDeclaration(l, child, mc, source, false); ok {
			kids = append(kids, kid)
		}
	}
	return kids
}

// dependencies collects every identifier in the subtree. This deliberately
// over-approximates (local reads count too); the sets feed affinity
// grouping, not symbol resolution.
func dependencies(l *lang.Language, node *sitter.Node, selfName string, source []byte) []string {
	if len(l.Identifiers) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var deps []string
	lang.Walk(node, func(n *sitter.Node) bool {
		if l.Identifiers[n.Type()] {
			text := lang.NodeText(n, source)
			if text != "" && text != selfName && !seen[text] {
				seen[text] = true
				deps = append(deps, text)
			}
		}
		return true
	})
	return deps
}

// leadingComment gathers the contiguous comment block directly above a
// declaration.
func leadingComment(l *lang.Language, node *sitter.Node, source []byte) string {
	if l.CommentNode == "" {
		return ""
	}
	var parts []string
	expect := int(node.StartPoint().Row)
	for prev := node.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		if prev.Type() != l.CommentNode || int(prev.EndPoint().Row) != expect-1 {
			break
		}
		parts = append([]string{lang.NodeText(prev, source)}, parts...)
		expect = int(prev.StartPoint().Row)
	}
	return strings.Join(parts, "\n")
}

func modifiers(l *lang.Language, node *sitter.Node, source []byte) []string {
	if len(l.Modifiers) == 0 {
		return nil
	}
	var mods []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch {
		case l.Modifiers[child.Type()]:
			mods = append(mods, child.Type())
		case child.Type() == "accessibility_modifier":
			mods = append(mods, lang.NodeText(child, source))
		}
	}
	return mods
}

func countLines(source []byte) int {
	return strings.Count(string(source), "\n") + 1
}
