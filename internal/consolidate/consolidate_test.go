package consolidate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/semchunk/internal/model"
)

func fnChunk(id string, tokens int) model.CodeChunk {
	return model.CodeChunk{
		ID:              id,
		Path:            "main.go",
		Type:            model.ChunkFunction,
		StartLine:       1,
		EndLine:         tokens / 4,
		Priority:        model.PriorityLow,
		EstimatedTokens: tokens,
		Declarations:    []model.Declaration{{Kind: model.KindFunction, Name: id}},
		Content:         "func " + id + "() {}",
	}
}

func TestBelowMinimumUnchanged(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultConfig()
	chunks := []model.CodeChunk{fnChunk("a", 100), fnChunk("b", 100)}

	out := Consolidate(chunks, cfg)
	assert.Equal(t, chunks, out)
}

func TestSingleBatchShortcut(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultConfig()
	chunks := []model.CodeChunk{fnChunk("a", 500), fnChunk("b", 500), fnChunk("c", 500)}

	out := Consolidate(chunks, cfg)
	require.Len(t, out, 1)

	batch := out[0]
	assert.Equal(t, "batch-1", batch.ID)
	assert.Equal(t, model.ChunkModule, batch.Type)
	assert.Equal(t, 1500, batch.EstimatedTokens)
	assert.Equal(t, "true", batch.Metadata["consolidated"])
	assert.Equal(t, "a,b,c", batch.Metadata["source_chunks"])
	assert.Len(t, batch.Declarations, 3)
}

func TestBatchBoundsRespected(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultConfig()
	var chunks []model.CodeChunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, fnChunk(fmt.Sprintf("f%d", i), 900))
	}

	out := Consolidate(chunks, cfg)
	require.Greater(t, len(out), 1, "9000 tokens cannot fit one 4000-token batch")
	for _, c := range out {
		if c.Metadata["consolidated"] == "true" {
			assert.LessOrEqual(t, c.EstimatedTokens, cfg.MaxTokensPerBatch)
			assert.LessOrEqual(t, len(strings.Split(c.Metadata["source_chunks"], ",")), cfg.MaxChunksPerBatch)
		}
	}
	assert.Equal(t, 9000, sumAll(out), "no tokens lost in consolidation")
}

func TestChunkCountLimit(t *testing.T) {
	t.Parallel()

	// Fifty 20-line functions at 80 tokens each: 4000 tokens exactly, but
	// the per-batch chunk count cap still forces a split.
	cfg := model.DefaultConfig()
	var chunks []model.CodeChunk
	for i := 0; i < 50; i++ {
		chunks = append(chunks, fnChunk(fmt.Sprintf("f%02d", i), 80))
	}

	out := Consolidate(chunks, cfg)
	require.Len(t, out, 2)
	for _, c := range out {
		srcs := strings.Split(c.Metadata["source_chunks"], ",")
		assert.LessOrEqual(t, len(srcs), cfg.MaxChunksPerBatch)
	}
}

func TestOversizedChunkPassesThrough(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultConfig()
	huge := fnChunk("huge", 9000)
	chunks := []model.CodeChunk{fnChunk("a", 3900), fnChunk("b", 3900), huge}

	out := Consolidate(chunks, cfg)

	found := false
	for _, c := range out {
		if c.ID == "huge" {
			found = true
			assert.Equal(t, 9000, c.EstimatedTokens, "oversized chunk is passed through, never dropped")
		}
	}
	assert.True(t, found)
	assert.Equal(t, 3900+3900+9000, sumAll(out))
}

func TestAffinityBuckets(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "interfaces", affinity(&model.CodeChunk{Type: model.ChunkIface}))
	assert.Equal(t, "classes", affinity(&model.CodeChunk{
		Declarations: []model.Declaration{{Kind: model.KindClass, Name: "Svc"}},
	}))
	assert.Equal(t, "tests", affinity(&model.CodeChunk{
		Type:         model.ChunkFunction,
		Declarations: []model.Declaration{{Kind: model.KindFunction, Name: "TestParse"}},
	}))
	assert.Equal(t, "utilities", affinity(&model.CodeChunk{
		Type:         model.ChunkFunction,
		Declarations: []model.Declaration{{Kind: model.KindFunction, Name: "stringUtil"}},
	}))
	assert.Equal(t, "functions", affinity(&model.CodeChunk{
		Type:         model.ChunkFunction,
		Declarations: []model.Declaration{{Kind: model.KindFunction, Name: "run"}},
	}))
	assert.Equal(t, "other", affinity(&model.CodeChunk{Type: model.ChunkImports}))
}

func TestMergeUnionsMetadata(t *testing.T) {
	t.Parallel()

	a := fnChunk("a", 100)
	a.StartLine, a.EndLine = 10, 20
	a.Dependencies = []string{"db"}
	a.Focus = []model.ReviewFocus{model.FocusMaintainability}
	a.Priority = model.PriorityHigh

	b := fnChunk("b", 200)
	b.StartLine, b.EndLine = 30, 50
	b.Dependencies = []string{"db", "log"}
	b.Focus = []model.ReviewFocus{model.FocusMaintainability, model.FocusPerformance}

	batch := merge([]model.CodeChunk{a, b}, "test", 1)
	assert.Equal(t, 10, batch.StartLine)
	assert.Equal(t, 50, batch.EndLine)
	assert.Equal(t, 300, batch.EstimatedTokens)
	assert.Equal(t, model.PriorityHigh, batch.Priority, "first constituent's priority")
	assert.Equal(t, []string{"db", "log"}, batch.Dependencies)
	assert.Equal(t, []model.ReviewFocus{model.FocusMaintainability, model.FocusPerformance}, batch.Focus)
	assert.Contains(t, batch.Content, "func a")
	assert.Contains(t, batch.Content, "func b")
}

func sumAll(chunks []model.CodeChunk) int {
	total := 0
	for i := range chunks {
		total += chunks[i].EstimatedTokens
	}
	return total
}
