// Package consolidate bin-packs many small chunks into few token- and
// count-bounded batches, preferring semantic affinity grouping. The
// packing is a greedy heuristic, not optimal.
package consolidate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phobologic/semchunk/internal/model"
)

type bucket struct {
	name   string
	chunks []model.CodeChunk
}

// Consolidate merges chunks into batches bounded by MaxTokensPerBatch and
// MaxChunksPerBatch. Below MinChunksToMerge the input is returned
// unchanged; when everything fits one batch it is merged outright. A
// single chunk that alone exceeds the token budget is passed through
// untouched, never dropped.
func Consolidate(chunks []model.CodeChunk, cfg model.Config) []model.CodeChunk {
	if len(chunks) < cfg.MinChunksToMerge {
		return chunks
	}

	if totalTokens(chunks) <= cfg.MaxTokensPerBatch && len(chunks) <= cfg.MaxChunksPerBatch {
		return []model.CodeChunk{merge(chunks, "all chunks fit a single batch", 1)}
	}

	buckets := mergeSmallBuckets(classify(chunks), cfg)

	var out []model.CodeChunk
	batchNo := 0
	for _, bk := range buckets {
		sort.SliceStable(bk.chunks, func(i, j int) bool {
			return bk.chunks[i].EstimatedTokens < bk.chunks[j].EstimatedTokens
		})

		var cur []model.CodeChunk
		curTokens := 0
		flush := func() {
			switch {
			case len(cur) == 0:
			case len(cur) == 1:
				out = append(out, cur[0])
			default:
				batchNo++
				out = append(out, merge(cur, "affinity group "+bk.name, batchNo))
			}
			cur = nil
			curTokens = 0
		}

		for _, c := range bk.chunks {
			if len(cur) > 0 && (curTokens+c.EstimatedTokens > cfg.MaxTokensPerBatch || len(cur) >= cfg.MaxChunksPerBatch) {
				flush()
			}
			cur = append(cur, c)
			curTokens += c.EstimatedTokens
		}
		flush()
	}
	return out
}

// classify assigns each chunk to an affinity bucket. Function chunks are
// further split into tests, utilities, and plain functions by name and
// content substrings.
func classify(chunks []model.CodeChunk) []bucket {
	order := []string{"interfaces", "classes", "tests", "utilities", "functions", "other"}
	byName := make(map[string][]model.CodeChunk)
	for _, c := range chunks {
		key := affinity(&c)
		byName[key] = append(byName[key], c)
	}
	var buckets []bucket
	for _, name := range order {
		if len(byName[name]) > 0 {
			buckets = append(buckets, bucket{name: name, chunks: byName[name]})
		}
	}
	return buckets
}

func affinity(c *model.CodeChunk) string {
	switch c.Type {
	case model.ChunkIface:
		return "interfaces"
	case model.ChunkClass:
		return "classes"
	}
	for i := range c.Declarations {
		switch c.Declarations[i].Kind {
		case model.KindInterface:
			return "interfaces"
		case model.KindClass:
			return "classes"
		}
	}
	if c.Type == model.ChunkFunction || hasFunctionDecl(c) {
		names := declNames(c)
		switch {
		case strings.Contains(names, "test") || strings.Contains(names, "spec"):
			return "tests"
		case strings.Contains(names, "util") || strings.Contains(names, "helper"):
			return "utilities"
		default:
			return "functions"
		}
	}
	return "other"
}

func hasFunctionDecl(c *model.CodeChunk) bool {
	for i := range c.Declarations {
		k := c.Declarations[i].Kind
		if k == model.KindFunction || k == model.KindMethod {
			return true
		}
	}
	return false
}

func declNames(c *model.CodeChunk) string {
	var names []string
	for i := range c.Declarations {
		names = append(names, c.Declarations[i].Name)
	}
	return strings.ToLower(strings.Join(names, " "))
}

// mergeSmallBuckets sorts buckets ascending by chunk count and greedily
// folds adjacent small buckets together while the combined bucket still
// fits one batch, minimizing the number of final batches.
func mergeSmallBuckets(buckets []bucket, cfg model.Config) []bucket {
	sort.SliceStable(buckets, func(i, j int) bool {
		return len(buckets[i].chunks) < len(buckets[j].chunks)
	})

	var out []bucket
	for _, b := range buckets {
		if len(out) > 0 {
			last := &out[len(out)-1]
			if totalTokens(last.chunks)+totalTokens(b.chunks) <= cfg.MaxTokensPerBatch &&
				len(last.chunks)+len(b.chunks) <= cfg.MaxChunksPerBatch {
				last.name += "+" + b.name
				last.chunks = append(last.chunks, b.chunks...)
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

// merge materializes one batch as a module chunk: concatenated content,
// unioned declarations and dependencies, combined line span, the first
// constituent's priority, and provenance metadata.
func merge(chunks []model.CodeChunk, reason string, n int) model.CodeChunk {
	out := model.CodeChunk{
		ID:        fmt.Sprintf("batch-%d", n),
		Type:      model.ChunkModule,
		StartLine: chunks[0].StartLine,
		EndLine:   chunks[0].EndLine,
		Priority:  chunks[0].Priority,
		Path:      chunks[0].Path,
	}

	var ids, contents []string
	depSeen := make(map[string]bool)
	ctxSeen := make(map[string]bool)
	focusSeen := make(map[model.ReviewFocus]bool)
	for _, c := range chunks {
		ids = append(ids, c.ID)
		if c.Content != "" {
			contents = append(contents, c.Content)
		}
		if c.StartLine < out.StartLine {
			out.StartLine = c.StartLine
		}
		if c.EndLine > out.EndLine {
			out.EndLine = c.EndLine
		}
		if c.Path != out.Path {
			out.Path = ""
		}
		out.EstimatedTokens += c.EstimatedTokens
		out.Declarations = append(out.Declarations, c.Declarations...)
		for _, dep := range c.Dependencies {
			if !depSeen[dep] {
				depSeen[dep] = true
				out.Dependencies = append(out.Dependencies, dep)
			}
		}
		for _, ctx := range c.Context {
			if !ctxSeen[ctx.Name] {
				ctxSeen[ctx.Name] = true
				out.Context = append(out.Context, ctx)
			}
		}
		for _, f := range c.Focus {
			if !focusSeen[f] {
				focusSeen[f] = true
				out.Focus = append(out.Focus, f)
			}
		}
	}

	out.Content = strings.Join(contents, "\n\n")
	out.Metadata = map[string]string{
		"consolidated":  "true",
		"reason":        reason,
		"source_chunks": strings.Join(ids, ","),
	}
	return out
}

func totalTokens(chunks []model.CodeChunk) int {
	total := 0
	for i := range chunks {
		total += chunks[i].EstimatedTokens
	}
	return total
}
