package relate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/semchunk/internal/model"
)

func TestAnalyzeSharedDependencies(t *testing.T) {
	t.Parallel()

	chunks := []model.CodeChunk{
		{ID: "chunk-1", Dependencies: []string{"db", "log"}},
		{ID: "chunk-2", Dependencies: []string{"db", "cache"}},
		{ID: "chunk-3", Dependencies: []string{"tmpl"}},
	}

	rels := Analyze(chunks)
	require.Len(t, rels, 1)

	rel := rels[0]
	assert.Equal(t, "chunk-1", rel.FromID)
	assert.Equal(t, "chunk-2", rel.ToID)
	assert.Equal(t, model.RelDependsOn, rel.Kind)
	assert.InDelta(t, 0.5, rel.Strength, 1e-9, "1 shared of 2 dependencies")
}

func TestAnalyzeDeclarationReference(t *testing.T) {
	t.Parallel()

	chunks := []model.CodeChunk{
		{ID: "chunk-1", Dependencies: []string{"helper"}},
		{ID: "chunk-2", Declarations: []model.Declaration{{Name: "helper"}}},
	}

	rels := Analyze(chunks)
	require.Len(t, rels, 1)
	assert.Equal(t, referenceStrength, rels[0].Strength)
	assert.Equal(t, "references helper", rels[0].Description)
}

func TestAnalyzeStrengthCappedAtOne(t *testing.T) {
	t.Parallel()

	chunks := []model.CodeChunk{
		{ID: "chunk-1", Dependencies: []string{"x"}},
		{ID: "chunk-2", Dependencies: []string{"x", "x2"}},
	}
	// 1 shared / 1 dep in chunk-1 = exactly 1.0; never above.
	rels := Analyze(chunks)
	require.Len(t, rels, 1)
	assert.LessOrEqual(t, rels[0].Strength, 1.0)
}

func TestAnalyzeOneEdgePerPair(t *testing.T) {
	t.Parallel()

	// Both rules match; only the shared-dependency edge is emitted.
	chunks := []model.CodeChunk{
		{ID: "chunk-1", Dependencies: []string{"db", "helper"}},
		{ID: "chunk-2", Dependencies: []string{"db"}, Declarations: []model.Declaration{{Name: "helper"}}},
	}
	rels := Analyze(chunks)
	require.Len(t, rels, 1)
	assert.Equal(t, "shares 1 dependency names", rels[0].Description)
}

func TestAnalyzeNoRelationships(t *testing.T) {
	t.Parallel()

	chunks := []model.CodeChunk{
		{ID: "chunk-1", Dependencies: []string{"a"}},
		{ID: "chunk-2", Dependencies: []string{"b"}},
	}
	assert.Empty(t, Analyze(chunks))
	assert.Empty(t, Analyze(nil))
}
