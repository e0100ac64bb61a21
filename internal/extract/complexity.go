package extract

import (
	"math"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/semchunk/internal/lang"
	"github.com/phobologic/semchunk/internal/model"
)

// cyclomatic starts at 1 and increments once per branching construct in
// the subtree.
func cyclomatic(l *lang.Language, node *sitter.Node) int {
	count := 1
	lang.Walk(node, func(n *sitter.Node) bool {
		if l.Branches[n.Type()] {
			count++
		}
		return true
	})
	return count
}

// fileComplexity computes the per-file metrics. At the file level each
// function-like node also counts as a complexity contributor.
func fileComplexity(l *lang.Language, root *sitter.Node, source []byte, decls []model.Declaration) model.ComplexityMetrics {
	cyclo := 1
	functions := 0
	lang.Walk(root, func(n *sitter.Node) bool {
		t := n.Type()
		if l.Branches[t] {
			cyclo++
		}
		if l.Functions[t] {
			cyclo++
			functions++
		}
		return true
	})

	classes := 0
	declCount := 0
	for i := range decls {
		declCount += 1 + len(decls[i].Children)
		if decls[i].Kind == model.KindClass {
			classes++
		}
	}

	return model.ComplexityMetrics{
		Cyclomatic:       cyclo,
		Cognitive:        cyclo, // mirrors cyclomatic until a real cognitive metric exists
		MaxNesting:       maxNesting(l, root, 0),
		FunctionCount:    functions,
		ClassCount:       classes,
		LinesOfCode:      linesOfCode(source, l.LineComment),
		DeclarationCount: declCount,
		Halstead:         halstead(l, root, source),
	}
}

// maxNesting is the deepest stack of block-like constructs from the root
// to any leaf.
func maxNesting(l *lang.Language, node *sitter.Node, depth int) int {
	if l.Nesting[node.Type()] {
		depth++
	}
	deepest := depth
	for i := 0; i < int(node.ChildCount()); i++ {
		if d := maxNesting(l, node.Child(i), depth); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// linesOfCode counts lines that are neither blank nor line comments.
func linesOfCode(source []byte, lineComment string) int {
	count := 0
	for _, line := range strings.Split(string(source), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if lineComment != "" && strings.HasPrefix(trimmed, lineComment) {
			continue
		}
		count++
	}
	return count
}

// halstead derives operator/operand metrics over the whole tree. Anonymous
// tokens are operators (keywords and punctuation included, per the classic
// definition); operand node types come from the language table.
func halstead(l *lang.Language, root *sitter.Node, source []byte) *model.HalsteadMetrics {
	if len(l.Operands) == 0 {
		return nil
	}

	operators := make(map[string]int)
	operands := make(map[string]int)
	lang.Walk(root, func(n *sitter.Node) bool {
		switch {
		case l.Operands[n.Type()]:
			operands[lang.NodeText(n, source)]++
		case !n.IsNamed() && n.Type() != "":
			operators[n.Type()]++
		}
		return true
	})

	m := &model.HalsteadMetrics{
		UniqueOperators: len(operators),
		UniqueOperands:  len(operands),
	}
	for _, c := range operators {
		m.Operators += c
	}
	for _, c := range operands {
		m.Operands += c
	}

	vocabulary := m.UniqueOperators + m.UniqueOperands
	length := m.Operators + m.Operands
	if vocabulary > 0 {
		m.Volume = float64(length) * math.Log2(float64(vocabulary))
	}
	if m.UniqueOperands > 0 {
		m.Difficulty = float64(m.UniqueOperators) / 2 * float64(m.Operands) / float64(m.UniqueOperands)
	}
	m.Effort = m.Volume * m.Difficulty
	return m
}
