package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/phobologic/semchunk/internal/model"
)

func init() {
	branches := jsBranches()
	nesting := jsNesting()

	register(&Language{
		Name:           "typescript",
		Extensions:     []string{".ts"},
		lang:           typescript.GetLanguage(),
		Classify:       tsClassify,
		ClassifyMember: tsClassifyMember,
		BodyNode: func(node *sitter.Node) *sitter.Node {
			return node.ChildByFieldName("body")
		},
		ResolveName: tsResolveName,
		ExportOf: func(node *sitter.Node, _ string, source []byte) model.ExportStatus {
			return exportByAncestor(node, source)
		},
		ExtractImports: jsExtractImports,
		Branches:       branches,
		Nesting:        nesting,
		Identifiers: setOf(
			"identifier", "property_identifier",
			"shorthand_property_identifier", "type_identifier",
		),
		Operands: setOf(
			"identifier", "property_identifier", "type_identifier",
			"string", "number", "template_string",
			"true", "false", "null", "undefined",
		),
		Functions: setOf(
			"function_declaration", "generator_function_declaration",
			"function_expression", "function", "arrow_function",
			"method_definition", "method_signature",
		),
		Modifiers: setOf(
			"static", "async", "get", "set",
			"public", "private", "protected", "readonly", "abstract",
		),
		LineComment: "//",
		CommentNode: "comment",
	})
}

func tsClassify(node *sitter.Node, source []byte) (Classification, bool) {
	switch node.Type() {
	case "interface_declaration":
		return Classification{Kind: model.KindInterface}, true
	case "type_alias_declaration":
		return Classification{Kind: model.KindTypeAlias}, true
	case "enum_declaration":
		return Classification{Kind: model.KindEnum}, true
	case "internal_module", "module":
		return Classification{Kind: model.KindNamespace}, true
	case "abstract_class_declaration":
		return Classification{Kind: model.KindClass}, true
	case "ambient_declaration":
		for i := 0; i < int(node.ChildCount()); i++ {
			if c, ok := tsClassify(node.Child(i), source); ok {
				if c.Node == nil {
					c.Node = node.Child(i)
				}
				return c, true
			}
		}
		return Classification{}, false
	case "export_statement":
		return classifyExport(node, source, tsClassify)
	}
	return jsClassify(node, source)
}

func tsClassifyMember(node *sitter.Node, source []byte) (Classification, bool) {
	switch node.Type() {
	case "method_signature", "abstract_method_signature":
		return Classification{Kind: model.KindMethod}, true
	case "property_signature":
		return Classification{Kind: model.KindVariable}, true
	case "enum_assignment":
		return Classification{Kind: model.KindVariable}, true
	}
	return jsClassifyMember(node, source)
}

func tsResolveName(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "interface_declaration", "type_alias_declaration", "enum_declaration",
		"internal_module", "module", "abstract_class_declaration":
		if n := node.ChildByFieldName("name"); n != nil {
			return NodeText(n, source)
		}
	case "method_signature", "abstract_method_signature", "property_signature":
		if n := node.ChildByFieldName("name"); n != nil {
			return NodeText(n, source)
		}
	case "ambient_declaration":
		for i := 0; i < int(node.ChildCount()); i++ {
			if name := tsResolveName(node.Child(i), source); name != "" {
				return name
			}
		}
	}
	return jsResolveName(node, source)
}
