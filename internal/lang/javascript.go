package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/phobologic/semchunk/internal/model"
)

func init() {
	register(&Language{
		Name:           "javascript",
		Extensions:     []string{".js", ".jsx", ".mjs", ".cjs"},
		lang:           javascript.GetLanguage(),
		Classify:       jsClassify,
		ClassifyMember: jsClassifyMember,
		BodyNode: func(node *sitter.Node) *sitter.Node {
			return node.ChildByFieldName("body")
		},
		ResolveName: jsResolveName,
		ExportOf: func(node *sitter.Node, _ string, source []byte) model.ExportStatus {
			return exportByAncestor(node, source)
		},
		ExtractImports: jsExtractImports,
		Branches:       jsBranches(),
		Nesting:        jsNesting(),
		Identifiers:    setOf("identifier", "property_identifier", "shorthand_property_identifier"),
		Operands: setOf(
			"identifier", "property_identifier", "string", "number",
			"template_string", "true", "false", "null", "undefined",
		),
		Functions: setOf(
			"function_declaration", "generator_function_declaration",
			"function_expression", "function", "arrow_function", "method_definition",
		),
		Modifiers:   setOf("static", "async", "get", "set"),
		LineComment: "//",
		CommentNode: "comment",
	})
}

func jsBranches() map[string]bool {
	return setOf(
		"if_statement", "for_statement", "for_in_statement",
		"while_statement", "do_statement", "switch_case", "catch_clause",
		"ternary_expression", "&&", "||",
	)
}

func jsNesting() map[string]bool {
	return setOf(
		"statement_block", "if_statement", "for_statement",
		"for_in_statement", "while_statement", "do_statement",
		"try_statement", "switch_body",
	)
}

func jsClassify(node *sitter.Node, source []byte) (Classification, bool) {
	switch node.Type() {
	case "function_declaration", "generator_function_declaration":
		return Classification{Kind: model.KindFunction}, true
	case "class_declaration":
		return Classification{Kind: model.KindClass}, true
	case "lexical_declaration", "variable_declaration":
		return classifyVarDeclaration(node), true
	case "export_statement":
		return classifyExport(node, source, jsClassify)
	}
	return Classification{}, false
}

// classifyVarDeclaration distinguishes function-valued bindings
// (const f = () => ...) from plain variables.
func classifyVarDeclaration(node *sitter.Node) Classification {
	if declarator := firstChildOfType(node, "variable_declarator"); declarator != nil {
		if value := declarator.ChildByFieldName("value"); value != nil {
			switch value.Type() {
			case "arrow_function", "function_expression", "function", "generator_function":
				return Classification{Kind: model.KindFunction}
			}
		}
	}
	return Classification{Kind: model.KindVariable}
}

// classifyExport unwraps an export_statement to the declaration it carries.
// Re-export lists (export { a, b }) become export declarations themselves.
func classifyExport(node *sitter.Node, source []byte, classify func(*sitter.Node, []byte) (Classification, bool)) (Classification, bool) {
	status := model.ExportExported
	if hasChildToken(node, "default") {
		status = model.ExportDefault
	}
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		c, ok := classify(decl, source)
		if !ok {
			return Classification{Kind: model.KindExport, Export: status}, true
		}
		if c.Node == nil {
			c.Node = decl
		}
		c.Export = status
		return c, true
	}
	if value := node.ChildByFieldName("value"); value != nil {
		// export default <expression>
		return Classification{Kind: model.KindExport, Node: value, Export: status}, true
	}
	return Classification{Kind: model.KindExport, Export: status}, true
}

func jsClassifyMember(node *sitter.Node, _ []byte) (Classification, bool) {
	switch node.Type() {
	case "method_definition":
		return Classification{Kind: model.KindMethod}, true
	case "field_definition", "public_field_definition":
		return Classification{Kind: model.KindVariable}, true
	}
	return Classification{}, false
}

func jsResolveName(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "function_declaration", "generator_function_declaration",
		"class_declaration", "method_definition":
		if n := node.ChildByFieldName("name"); n != nil {
			return NodeText(n, source)
		}
	case "lexical_declaration", "variable_declaration":
		if declarator := firstChildOfType(node, "variable_declarator"); declarator != nil {
			if n := declarator.ChildByFieldName("name"); n != nil {
				return NodeText(n, source)
			}
		}
	case "field_definition", "public_field_definition":
		if n := node.ChildByFieldName("property"); n != nil {
			return NodeText(n, source)
		}
	case "export_statement":
		if spec := firstDescendantOfType(node, "export_specifier"); spec != nil {
			if n := spec.ChildByFieldName("name"); n != nil {
				return NodeText(n, source)
			}
		}
	}
	return ""
}

func jsExtractImports(root *sitter.Node, source []byte) []model.ImportRelationship {
	var imports []model.ImportRelationship
	Walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement":
			imports = append(imports, jsStaticImports(n, source)...)
			return false
		case "call_expression":
			// Dynamic import: import("module")
			fn := n.ChildByFieldName("function")
			if fn == nil || fn.Type() != "import" {
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
				Kind:   model.ImportDynamic,
				Line:   int(n.StartPoint().Row) + 1,
			})
			return false
		}
		return true
	})
	return imports
}

func jsStaticImports(n *sitter.Node, source []byte) []model.ImportRelationship {
	line := int(n.StartPoint().Row) + 1
	mod := ""
	if src := n.ChildByFieldName("source"); src != nil {
		mod = stripQuotes(NodeText(src, source))
	}

	var imports []model.ImportRelationship
	clause := firstChildOfType(n, "import_clause")
	if clause == nil {
		// Side-effect import: import "module"
		return []model.ImportRelationship{{
			Symbol: mod, Module: mod, Kind: model.ImportNamespace, Line: line,
		}}
	}
	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(i)
		switch child.Type() {
		case "identifier":
			imports = append(imports, model.ImportRelationship{
				Symbol: NodeText(child, source), Module: mod,
				Kind: model.ImportDefault, Line: line,
			})
		case "namespace_import":
			if id := firstDescendantOfType(child, "identifier"); id != nil {
				imports = append(imports, model.ImportRelationship{
					Symbol: NodeText(id, source), Module: mod,
					Kind: model.ImportNamespace, Line: line,
				})
			}
		case "named_imports":
			for j := 0; j < int(child.ChildCount()); j++ {
				spec := child.Child(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					name = alias
				}
				if name != nil {
					imports = append(imports, model.ImportRelationship{
						Symbol: NodeText(name, source), Module: mod,
						Kind: model.ImportNamed, Line: line,
					})
				}
			}
		}
	}
	return imports
}
