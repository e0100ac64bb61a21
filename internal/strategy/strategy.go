// Package strategy chooses a chunking strategy from a file's structural
// summary and the requested review intent.
package strategy

import (
	"github.com/phobologic/semchunk/internal/model"
)

// Thresholds behind the selector facts.
const (
	complexFunctionThreshold = 10
	manyDeclarations         = 10
	highFileComplexity       = 20
	manyImports              = 5
)

// Facts are the boolean inputs the selector decides on. Identical facts
// always yield the same strategy.
type Facts struct {
	HasClasses          bool
	HasComplexFunctions bool
	HasManyDeclarations bool
	HasHighComplexity   bool
	HasManyImports      bool
}

// FactsOf derives the selector facts from an analysis.
func FactsOf(a *model.SemanticAnalysis) Facts {
	f := Facts{
		HasManyDeclarations: len(a.Declarations) > manyDeclarations,
		HasHighComplexity:   a.Complexity.Cyclomatic > highFileComplexity,
		HasManyImports:      len(a.Imports) > manyImports,
	}
	for i := range a.Declarations {
		d := &a.Declarations[i]
		if d.Kind == model.KindClass {
			f.HasClasses = true
		}
		if functionLike(d.Kind) && d.Complexity > complexFunctionThreshold {
			f.HasComplexFunctions = true
		}
		for j := range d.Children {
			child := &d.Children[j]
			if functionLike(child.Kind) && child.Complexity > complexFunctionThreshold {
				f.HasComplexFunctions = true
			}
		}
	}
	return f
}

func functionLike(k model.DeclarationKind) bool {
	return k == model.KindFunction || k == model.KindMethod
}

// Select picks a strategy for the file. First match wins; the returned
// chunk count is a planning hint, not an enforced budget.
func Select(intent model.ReviewIntent, a *model.SemanticAnalysis) (model.Strategy, int, string) {
	f := FactsOf(a)

	switch {
	case intent == model.IntentArchitecture && f.HasClasses:
		return model.StrategyHierarchical, estimate(model.StrategyHierarchical, a),
			"architectural intent with classes: chunk along class structure"
	case intent == model.IntentSecurity && f.HasManyImports:
		return model.StrategyContextual, estimate(model.StrategyContextual, a),
			"security intent with many imports: keep import context together"
	case intent == model.IntentPerformance && f.HasComplexFunctions:
		return model.StrategyFunctional, estimate(model.StrategyFunctional, a),
			"performance intent with complex functions: group by shared dependencies"
	case f.HasManyDeclarations && !f.HasHighComplexity:
		return model.StrategyGrouped, estimate(model.StrategyGrouped, a),
			"many simple declarations: group related ones"
	case f.HasClasses:
		return model.StrategyHierarchical, estimate(model.StrategyHierarchical, a),
			"classes present: chunk along class structure"
	case f.HasHighComplexity:
		return model.StrategyIndividual, estimate(model.StrategyIndividual, a),
			"high file complexity: review one declaration at a time"
	}

	s := defaultFor(intent)
	return s, estimate(s, a), "default strategy for intent " + string(intent)
}

// defaultFor is the per-intent fallback table. Unknown intents get
// individual chunking.
func defaultFor(intent model.ReviewIntent) model.Strategy {
	switch intent {
	case model.IntentQuickFixes:
		return model.StrategyIndividual
	case model.IntentArchitecture:
		return model.StrategyHierarchical
	case model.IntentSecurity:
		return model.StrategyContextual
	case model.IntentPerformance:
		return model.StrategyFunctional
	case model.IntentUnusedCode:
		return model.StrategyGrouped
	}
	return model.StrategyIndividual
}

func estimate(s model.Strategy, a *model.SemanticAnalysis) int {
	declCount := len(a.Declarations)
	funcCount := a.Complexity.FunctionCount
	switch s {
	case model.StrategyHierarchical:
		return a.Complexity.ClassCount + ceilDiv(funcCount, 2)
	case model.StrategyGrouped:
		return ceilDiv(declCount, 5)
	case model.StrategyFunctional:
		return ceilDiv(funcCount, 2)
	case model.StrategyContextual:
		return ceilDiv(len(a.Imports), 3)
	default:
		return min(declCount, ceilDiv(a.TotalLines, 100))
	}
}

func ceilDiv(n, d int) int {
	if d <= 0 {
		return n
	}
	return (n + d - 1) / d
}
