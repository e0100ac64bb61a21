package lang

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/phobologic/semchunk/internal/model"
)

func init() {
	register(&Language{
		Name:           "go",
		Extensions:     []string{".go"},
		lang:           golang.GetLanguage(),
		Classify:       goClassify,
		ResolveName:    goResolveName,
		ExportOf:       goExportOf,
		ExtractImports: goExtractImports,
		Branches: setOf(
			"if_statement", "for_statement",
			"expression_switch_statement", "type_switch_statement",
			"select_statement",
			"expression_case", "type_case", "communication_case",
			"&&", "||",
		),
		Nesting: setOf(
			"block", "if_statement", "for_statement",
			"expression_switch_statement", "type_switch_statement",
			"select_statement", "func_literal",
		),
		Identifiers: setOf("identifier", "type_identifier", "field_identifier", "package_identifier"),
		Operands: setOf(
			"identifier", "type_identifier", "field_identifier",
			"int_literal", "float_literal", "rune_literal",
			"interpreted_string_literal", "raw_string_literal",
		),
		Functions:   setOf("function_declaration", "method_declaration", "func_literal"),
		Modifiers:   setOf(),
		LineComment: "//",
		CommentNode: "comment",
	})
}

func goClassify(node *sitter.Node, _ []byte) (Classification, bool) {
	switch node.Type() {
	case "function_declaration":
		return Classification{Kind: model.KindFunction}, true
	case "method_declaration":
		return Classification{Kind: model.KindMethod}, true
	case "type_declaration":
		spec := firstChildOfType(node, "type_spec", "type_alias")
		if spec == nil {
			return Classification{Kind: model.KindTypeAlias}, true
		}
		if spec.Type() == "type_alias" {
			return Classification{Kind: model.KindTypeAlias}, true
		}
		switch typeNode := spec.ChildByFieldName("type"); {
		case typeNode == nil:
			return Classification{Kind: model.KindTypeAlias}, true
		case typeNode.Type() == "interface_type":
			return Classification{Kind: model.KindInterface}, true
		case typeNode.Type() == "struct_type":
			return Classification{Kind: model.KindClass}, true
		default:
			return Classification{Kind: model.KindTypeAlias}, true
		}
	case "const_declaration", "var_declaration":
		return Classification{Kind: model.KindVariable}, true
	}
	return Classification{}, false
}

func goResolveName(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "function_declaration":
		if n := node.ChildByFieldName("name"); n != nil {
			return NodeText(n, source)
		}
	case "method_declaration":
		var name string
		if n := node.ChildByFieldName("name"); n != nil {
			name = NodeText(n, source)
		}
		if recv := goReceiverType(node, source); recv != "" && name != "" {
			return recv + "." + name
		}
		return name
	case "type_declaration":
		if spec := firstChildOfType(node, "type_spec", "type_alias"); spec != nil {
			if n := spec.ChildByFieldName("name"); n != nil {
				return NodeText(n, source)
			}
		}
	case "const_declaration", "var_declaration":
		if spec := firstChildOfType(node, "const_spec", "var_spec"); spec != nil {
			if n := spec.ChildByFieldName("name"); n != nil {
				return NodeText(n, source)
			}
		}
	}
	return ""
}

// goReceiverType extracts the receiver type name from a method_declaration,
// unwrapping pointer and generic wrappers.
func goReceiverType(node *sitter.Node, source []byte) string {
	recv := node.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	if t := firstDescendantOfType(recv, "type_identifier"); t != nil {
		return NodeText(t, source)
	}
	return ""
}

// goExportOf applies Go's capitalization rule. Method names are qualified
// as Type.Method, so visibility is judged on the method part.
func goExportOf(_ *sitter.Node, name string, _ []byte) model.ExportStatus {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	for _, r := range name {
		if unicode.IsUpper(r) {
			return model.ExportExported
		}
		return model.ExportInternal
	}
	return model.ExportInternal
}

func goExtractImports(root *sitter.Node, source []byte) []model.ImportRelationship {
	var imports []model.ImportRelationship
	Walk(root, func(n *sitter.Node) bool {
		if n.Type() != "import_spec" {
			return true
		}
		path := n.ChildByFieldName("path")
		if path == nil {
			return true
		}
		mod := stripQuotes(NodeText(path, source))
		rel := model.ImportRelationship{
			Module: mod,
			Kind:   model.ImportNamespace,
			Line:   int(n.StartPoint().Row) + 1,
		}
		if name := n.ChildByFieldName("name"); name != nil {
			rel.Symbol = NodeText(name, source)
			rel.Kind = model.ImportNamed
		} else if i := strings.LastIndex(mod, "/"); i >= 0 {
			rel.Symbol = mod[i+1:]
		} else {
			rel.Symbol = mod
		}
		imports = append(imports, rel)
		return false
	})
	return imports
}
