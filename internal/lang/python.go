package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/phobologic/semchunk/internal/model"
)

func init() {
	register(&Language{
		Name:           "python",
		Extensions:     []string{".py"},
		lang:           python.GetLanguage(),
		Classify:       pyClassify,
		ClassifyMember: pyClassifyMember,
		BodyNode: func(node *sitter.Node) *sitter.Node {
			return node.ChildByFieldName("body")
		},
		ResolveName:    pyResolveName,
		ExportOf:       underscoreExport,
		ExtractImports: pyExtractImports,
		Branches: setOf(
			"if_statement", "elif_clause", "for_statement", "while_statement",
			"try_statement", "except_clause", "case_clause",
			"conditional_expression", "boolean_operator",
		),
		Nesting: setOf(
			"block", "if_statement", "for_statement", "while_statement",
			"try_statement", "with_statement",
		),
		Identifiers: setOf("identifier"),
		Operands: setOf(
			"identifier", "string", "integer", "float",
			"true", "false", "none",
		),
		Functions:   setOf("function_definition", "lambda"),
		Modifiers:   setOf("async"),
		LineComment: "#",
		CommentNode: "comment",
	})
}

func pyClassify(node *sitter.Node, source []byte) (Classification, bool) {
	switch node.Type() {
	case "function_definition":
		return Classification{Kind: model.KindFunction}, true
	case "class_definition":
		return Classification{Kind: model.KindClass}, true
	case "decorated_definition":
		inner := node.ChildByFieldName("definition")
		if inner == nil {
			return Classification{}, false
		}
		c, ok := pyClassify(inner, source)
		if !ok {
			return Classification{}, false
		}
		c.Node = inner
		return c, true
	case "expression_statement":
		if firstChildOfType(node, "assignment") != nil {
			return Classification{Kind: model.KindVariable}, true
		}
	}
	return Classification{}, false
}

func pyClassifyMember(node *sitter.Node, source []byte) (Classification, bool) {
	c, ok := pyClassify(node, source)
	if !ok {
		return Classification{}, false
	}
	if c.Kind == model.KindFunction {
		c.Kind = model.KindMethod
	}
	return c, true
}

func pyResolveName(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "function_definition", "class_definition":
		if n := node.ChildByFieldName("name"); n != nil {
			return NodeText(n, source)
		}
	case "decorated_definition":
		if inner := node.ChildByFieldName("definition"); inner != nil {
			return pyResolveName(inner, source)
		}
	case "expression_statement":
		if assign := firstChildOfType(node, "assignment"); assign != nil {
			if left := assign.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
				return NodeText(left, source)
			}
		}
	}
	return ""
}

func pyExtractImports(root *sitter.Node, source []byte) []model.ImportRelationship {
	var imports []model.ImportRelationship
	Walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement":
			line := int(n.StartPoint().Row) + 1
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(i)
				switch child.Type() {
				case "dotted_name":
					mod := NodeText(child, source)
					imports = append(imports, model.ImportRelationship{
						Symbol: mod, Module: mod, Kind: model.ImportNamespace, Line: line,
					})
				case "aliased_import":
					mod, alias := "", ""
					if m := child.ChildByFieldName("name"); m != nil {
						mod = NodeText(m, source)
					}
					if a := child.ChildByFieldName("alias"); a != nil {
						alias = NodeText(a, source)
					}
					imports = append(imports, model.ImportRelationship{
						Symbol: alias, Module: mod, Kind: model.ImportNamespace, Line: line,
					})
				}
			}
			return false
		case "import_from_statement":
			line := int(n.StartPoint().Row) + 1
			mod := ""
			if m := n.ChildByFieldName("module_name"); m != nil {
				mod = NodeText(m, source)
			}
			sawModule := false
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(i)
				switch child.Type() {
				case "dotted_name", "relative_import":
					// The first dotted_name is the module itself.
					if !sawModule {
						sawModule = true
						continue
					}
					imports = append(imports, model.ImportRelationship{
						Symbol: NodeText(child, source), Module: mod,
						Kind: model.ImportNamed, Line: line,
					})
				case "aliased_import":
					if a := child.ChildByFieldName("alias"); a != nil {
						imports = append(imports, model.ImportRelationship{
							Symbol: NodeText(a, source), Module: mod,
							Kind: model.ImportNamed, Line: line,
						})
					}
				case "wildcard_import":
					imports = append(imports, model.ImportRelationship{
						Symbol: "*", Module: mod,
						Kind: model.ImportNamespace, Line: line,
					})
				}
			}
			return false
		}
		return true
	})
	return imports
}
