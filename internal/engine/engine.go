// Package engine orchestrates the chunking pipeline: language detection,
// parsing, extraction, strategy selection, chunk building, relationship
// analysis, and consolidation, with layered fallbacks that must never
// leave the caller without chunks.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phobologic/semchunk/internal/chunk"
	"github.com/phobologic/semchunk/internal/consolidate"
	"github.com/phobologic/semchunk/internal/extract"
	"github.com/phobologic/semchunk/internal/lang"
	"github.com/phobologic/semchunk/internal/model"
	"github.com/phobologic/semchunk/internal/relate"
	"github.com/phobologic/semchunk/internal/strategy"
)

// Request is one chunking invocation over a batch of files.
type Request struct {
	Files  []model.FileInput
	Intent model.ReviewIntent
	Model  string // cache-key component only
}

// Engine runs the chunking pipeline. The result cache is the only state
// shared across invocations and is safe for concurrent use; everything
// else is per-invocation.
type Engine struct {
	cfg   model.Config
	cache *resultCache
}

// New creates an engine with the given configuration.
func New(cfg model.Config) *Engine {
	return &Engine{cfg: cfg, cache: newResultCache(cfg.CacheSize)}
}

// Chunk processes a batch of files. The caller always receives either a
// non-empty chunk list (possibly entirely fallback-derived) or an error
// after every fallback layer is exhausted.
func (e *Engine) Chunk(ctx context.Context, req Request) (res *model.ChunkingResult, err error) {
	key := cacheKey(req)
	if cached, ok := e.cache.get(key); ok {
		return cached, nil
	}

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res, err = e.emergency(req, r)
		}
		if res != nil {
			finish(res, req, started)
			if err == nil {
				e.cache.add(key, res)
			}
		}
	}()

	res = e.run(ctx, req)
	return res, nil
}

func (e *Engine) run(ctx context.Context, req Request) *model.ChunkingResult {
	res := &model.ChunkingResult{ID: uuid.NewString(), Method: model.MethodSemantic}
	builder := chunk.NewBuilder(e.cfg, req.Intent)

	if reason := e.semanticBlocked(req); reason != "" {
		res.Errors = append(res.Errors, reason)
		e.traditionalAll(builder, req, res)
		return res
	}

	semanticOK := 0
	var all []model.CodeChunk
	for _, f := range req.Files {
		chunks, analysis, ferr := e.semanticFile(ctx, builder, f, req.Intent)
		if analysis != nil {
			res.Analyses = append(res.Analyses, analysis)
			if analysis.HasSyntaxErrors {
				res.Errors = append(res.Errors, (&model.FileError{
					Path: f.Path, Stage: "parse", Err: model.ErrParse,
				}).Error())
			}
		}
		if ferr != nil {
			res.Errors = append(res.Errors, ferr.Error())
		}
		if ferr != nil || len(chunks) == 0 {
			res.FallbackUsed = true
			all = append(all, builder.Fallback(f.Path, splitLines(f.Content))...)
			continue
		}
		all = append(all, chunks...)
		semanticOK++
	}

	switch {
	case semanticOK == 0:
		// Nothing chunked semantically: redo the whole batch as line
		// chunks so the result is uniform.
		e.traditionalAll(builder, req, res)
		return res
	case res.FallbackUsed:
		res.Method = model.MethodHybrid
	}

	if e.cfg.Consolidate {
		all = consolidate.Consolidate(all, e.cfg)
	}
	res.Chunks = all
	return res
}

// semanticBlocked reports why semantic chunking cannot be attempted for
// this batch, or "" when it can.
func (e *Engine) semanticBlocked(req Request) string {
	if e.cfg.DisableSemantic {
		return "semantic chunking disabled by configuration"
	}

	supported := 0
	for _, f := range req.Files {
		name := lang.Detect(f.Path, f.Language)
		if name == "" {
			continue
		}
		for _, forced := range e.cfg.ForcedTraditional {
			if name == forced {
				return fmt.Sprintf("language %s is forced to traditional chunking", name)
			}
		}
		if len(f.Content) > e.cfg.MaxSemanticFileBytes {
			return (&model.FileError{Path: f.Path, Stage: "gate", Err: model.ErrFileTooLarge}).Error()
		}
		supported++
	}
	if supported == 0 {
		return model.ErrLanguageNotSupported.Error()
	}
	return ""
}

func (e *Engine) semanticFile(ctx context.Context, b *chunk.Builder, f model.FileInput, intent model.ReviewIntent) ([]model.CodeChunk, *model.SemanticAnalysis, error) {
	name := lang.Detect(f.Path, f.Language)
	if name == "" {
		return nil, nil, &model.FileError{Path: f.Path, Stage: "detect", Err: model.ErrLanguageNotSupported}
	}
	l := lang.Get(name)

	source := []byte(f.Content)
	tree, err := l.Parse(ctx, source, e.cfg.MaxFileBytes)
	if err != nil {
		return nil, nil, &model.FileError{Path: f.Path, Stage: "parse", Err: err}
	}
	defer tree.Close()

	analysis := extract.Analyze(l, tree, source, f.Path)
	strat, estimated, rationale := strategy.Select(intent, analysis)

	lines := splitLines(f.Content)
	chunks := b.Build(strat, analysis, lines)
	analysis.Recommendation = &model.ChunkingRecommendation{
		Strategy:        strat,
		Chunks:          chunks,
		Relationships:   relate.Analyze(chunks),
		Rationale:       rationale,
		EstimatedChunks: estimated,
		TotalTokens:     sumTokens(chunks),
		ChunkCount:      len(chunks),
	}
	return chunks, analysis, nil
}

// traditionalAll line-chunks every file of the batch.
func (e *Engine) traditionalAll(b *chunk.Builder, req Request, res *model.ChunkingResult) {
	res.Method = model.MethodTraditional
	res.FallbackUsed = true
	res.Chunks = nil
	for _, f := range req.Files {
		res.Chunks = append(res.Chunks, b.Fallback(f.Path, splitLines(f.Content))...)
	}
	if e.cfg.Consolidate {
		res.Chunks = consolidate.Consolidate(res.Chunks, e.cfg)
	}
}

// emergency is the last resort after a panic anywhere in the pipeline: a
// plain traditional pass. Only if that also fails is the error surfaced.
func (e *Engine) emergency(req Request, cause any) (res *model.ChunkingResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %v (emergency fallback also failed: %v)", model.ErrAnalysisFailed, cause, r)
		}
	}()

	res = &model.ChunkingResult{ID: uuid.NewString()}
	res.Errors = append(res.Errors, fmt.Sprintf("emergency fallback after internal failure: %v", cause))
	e.traditionalAll(chunk.NewBuilder(e.cfg, req.Intent), req, res)
	return res, nil
}

func finish(res *model.ChunkingResult, req Request, started time.Time) {
	res.Metrics = model.ResultMetrics{
		Duration:    time.Since(started),
		TotalTokens: sumTokens(res.Chunks),
		ChunkCount:  len(res.Chunks),
		FileCount:   len(req.Files),
	}
}

func sumTokens(chunks []model.CodeChunk) int {
	total := 0
	for i := range chunks {
		total += chunks[i].EstimatedTokens
	}
	return total
}

func splitLines(content string) []string {
	return strings.Split(content, "\n")
}
