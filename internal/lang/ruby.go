package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/phobologic/semchunk/internal/model"
)

func init() {
	register(&Language{
		Name:           "ruby",
		Extensions:     []string{".rb"},
		lang:           ruby.GetLanguage(),
		Classify:       rbClassify,
		ClassifyMember: rbClassifyMember,
		BodyNode: func(node *sitter.Node) *sitter.Node {
			return firstChildOfType(node, "body_statement")
		},
		ResolveName:    rbResolveName,
		ExportOf:       underscoreExport,
		ExtractImports: rbExtractImports,
		Branches: setOf(
			"if", "unless", "elsif", "case", "when", "while", "until", "for",
			"rescue", "conditional",
			"if_modifier", "unless_modifier", "while_modifier", "until_modifier",
			"&&", "||", "and", "or",
		),
		Nesting: setOf(
			"begin", "do_block", "block", "if", "unless", "case",
			"while", "until", "for",
		),
		Identifiers: setOf("identifier", "constant"),
		Operands: setOf(
			"identifier", "constant", "string", "integer", "float",
			"simple_symbol", "true", "false", "nil",
		),
		Functions:   setOf("method", "singleton_method", "lambda"),
		Modifiers:   setOf(),
		LineComment: "#",
		CommentNode: "comment",
	})
}

func rbClassify(node *sitter.Node, _ []byte) (Classification, bool) {
	switch node.Type() {
	case "method", "singleton_method":
		return Classification{Kind: model.KindFunction}, true
	case "class":
		return Classification{Kind: model.KindClass}, true
	case "module":
		return Classification{Kind: model.KindNamespace}, true
	case "assignment":
		return Classification{Kind: model.KindVariable}, true
	}
	return Classification{}, false
}

func rbClassifyMember(node *sitter.Node, source []byte) (Classification, bool) {
	c, ok := rbClassify(node, source)
	if !ok {
		return Classification{}, false
	}
	if c.Kind == model.KindFunction {
		c.Kind = model.KindMethod
	}
	return c, true
}

func rbResolveName(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "method", "singleton_method", "class", "module":
		if n := node.ChildByFieldName("name"); n != nil {
			return NodeText(n, source)
		}
	case "assignment":
		if left := node.ChildByFieldName("left"); left != nil {
			if left.Type() == "identifier" || left.Type() == "constant" {
				return NodeText(left, source)
			}
		}
	}
	return ""
}

// rbExtractImports treats require/require_relative calls as imports.
func rbExtractImports(root *sitter.Node, source []byte) []model.ImportRelationship {
	var imports []model.ImportRelationship
	Walk(root, func(n *sitter.Node) bool {
		if n.Type() != "call" {
			return true
		}
		method := n.ChildByFieldName("method")
		if method == nil {
			return true
		}
		name := NodeText(method, source)
		if name != "require" && name != "require_relative" {
			return true
		}
		args := n.ChildByFieldName("arguments")
		if args == nil {
			return true
		}
		str := firstDescendantOfType(args, "string")
		if str == nil {
			return true
		}
		mod := stripQuotes(NodeText(str, source))
		imports = append(imports, model.ImportRelationship{
			Symbol: mod,
			Module: mod,
			Kind:   model.ImportNamespace,
			Line:   int(n.StartPoint().Row) + 1,
		})
		return false
	})
	return imports
}
