package strategy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/semchunk/internal/model"
)

func funcs(n, complexity int) []model.Declaration {
	decls := make([]model.Declaration, n)
	for i := range decls {
		decls[i] = model.Declaration{
			Kind:       model.KindFunction,
			Name:       fmt.Sprintf("fn%d", i),
			StartLine:  i*10 + 1,
			EndLine:    i*10 + 8,
			Complexity: complexity,
		}
	}
	return decls
}

func imports(n int) []model.ImportRelationship {
	imps := make([]model.ImportRelationship, n)
	for i := range imps {
		imps[i] = model.ImportRelationship{Module: fmt.Sprintf("mod%d", i), Line: i + 1}
	}
	return imps
}

func TestFactsOf(t *testing.T) {
	t.Parallel()

	a := &model.SemanticAnalysis{
		Declarations: append(funcs(11, 2), model.Declaration{
			Kind: model.KindClass,
			Name: "Widget",
			Children: []model.Declaration{
				{Kind: model.KindMethod, Name: "render", Complexity: 12},
			},
		}),
		Imports:    imports(6),
		Complexity: model.ComplexityMetrics{Cyclomatic: 25},
	}

	f := FactsOf(a)
	assert.True(t, f.HasClasses)
	assert.True(t, f.HasComplexFunctions, "member complexity must count")
	assert.True(t, f.HasManyDeclarations)
	assert.True(t, f.HasHighComplexity)
	assert.True(t, f.HasManyImports)

	empty := FactsOf(&model.SemanticAnalysis{})
	assert.Equal(t, Facts{}, empty)
}

func TestSelectPrecedence(t *testing.T) {
	t.Parallel()

	classy := &model.SemanticAnalysis{
		Declarations: []model.Declaration{{Kind: model.KindClass, Name: "Svc", StartLine: 1, EndLine: 40}},
	}
	importHeavy := &model.SemanticAnalysis{
		Declarations: funcs(2, 1),
		Imports:      imports(8),
	}
	hotLoop := &model.SemanticAnalysis{
		Declarations: funcs(1, 14),
	}
	manySimple := &model.SemanticAnalysis{
		Declarations: funcs(12, 1),
	}
	tangled := &model.SemanticAnalysis{
		Declarations: funcs(3, 2),
		Complexity:   model.ComplexityMetrics{Cyclomatic: 30},
	}
	plain := &model.SemanticAnalysis{Declarations: funcs(2, 1)}

	cases := []struct {
		name     string
		intent   model.ReviewIntent
		analysis *model.SemanticAnalysis
		want     model.Strategy
	}{
		{"architectural with classes", model.IntentArchitecture, classy, model.StrategyHierarchical},
		{"security with many imports", model.IntentSecurity, importHeavy, model.StrategyContextual},
		{"performance with complex functions", model.IntentPerformance, hotLoop, model.StrategyFunctional},
		{"many simple declarations", model.IntentQuickFixes, manySimple, model.StrategyGrouped},
		{"classes without architectural intent", model.IntentQuickFixes, classy, model.StrategyHierarchical},
		{"high file complexity", model.IntentQuickFixes, tangled, model.StrategyIndividual},
		{"default quick-fixes", model.IntentQuickFixes, plain, model.StrategyIndividual},
		{"default architectural", model.IntentArchitecture, plain, model.StrategyHierarchical},
		{"default security", model.IntentSecurity, plain, model.StrategyContextual},
		{"default performance", model.IntentPerformance, plain, model.StrategyFunctional},
		{"default unused-code", model.IntentUnusedCode, plain, model.StrategyGrouped},
		{"unknown intent", model.ReviewIntent("whatever"), plain, model.StrategyIndividual},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, estimated, rationale := Select(tc.intent, tc.analysis)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, estimated, 0)
			assert.NotEmpty(t, rationale)
		})
	}
}

func TestSelectDeterministic(t *testing.T) {
	t.Parallel()

	a := &model.SemanticAnalysis{
		Declarations: funcs(12, 3),
		Imports:      imports(4),
	}
	first, estFirst, _ := Select(model.IntentQuickFixes, a)
	for i := 0; i < 10; i++ {
		s, est, _ := Select(model.IntentQuickFixes, a)
		require.Equal(t, first, s)
		require.Equal(t, estFirst, est)
	}
}

func TestEstimates(t *testing.T) {
	t.Parallel()

	a := &model.SemanticAnalysis{
		TotalLines:   400,
		Declarations: funcs(10, 1),
		Imports:      imports(7),
		Complexity:   model.ComplexityMetrics{FunctionCount: 10, ClassCount: 2},
	}

	assert.Equal(t, 2, estimate(model.StrategyGrouped, a))
	assert.Equal(t, 7, estimate(model.StrategyHierarchical, a))
	assert.Equal(t, 5, estimate(model.StrategyFunctional, a))
	assert.Equal(t, 3, estimate(model.StrategyContextual, a))
	assert.Equal(t, 4, estimate(model.StrategyIndividual, a))
}
