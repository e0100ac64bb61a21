// Package chunk materializes CodeChunk values from a file's declarations
// according to a chunking strategy.
package chunk

import (
	"fmt"
	"strings"

	"github.com/phobologic/semchunk/internal/model"
)

// securityKeywords force high priority under a security review.
var securityKeywords = []string{"auth", "login", "password", "token", "security", "crypto", "hash"}

// Builder emits chunks for one engine invocation. Ids are sequential and
// unique across every file of the invocation.
type Builder struct {
	cfg    model.Config
	intent model.ReviewIntent
	nextID int
}

// NewBuilder creates a builder for one invocation.
func NewBuilder(cfg model.Config, intent model.ReviewIntent) *Builder {
	return &Builder{cfg: cfg, intent: intent}
}

// Build materializes chunks for one analyzed file under the given
// strategy. lines is the file content split on newlines.
func (b *Builder) Build(s model.Strategy, a *model.SemanticAnalysis, lines []string) []model.CodeChunk {
	var chunks []model.CodeChunk
	switch s {
	case model.StrategyGrouped:
		chunks = b.grouped(a, a.Declarations, lines)
	case model.StrategyHierarchical:
		chunks = b.hierarchical(a, lines)
	case model.StrategyFunctional:
		chunks = b.functional(a, a.Declarations, lines)
	case model.StrategyContextual:
		chunks = b.contextual(a, lines)
	default:
		chunks = b.individual(a, lines)
	}
	if b.cfg.IncludeContext {
		b.addContext(chunks, a.Declarations)
	}
	return chunks
}

func (b *Builder) newChunk(a *model.SemanticAnalysis, t model.ChunkType, decls []model.Declaration, lines []string) model.CodeChunk {
	start, end := span(decls)
	return b.newRangeChunk(a, t, decls, start, end, lines)
}

func (b *Builder) newRangeChunk(a *model.SemanticAnalysis, t model.ChunkType, decls []model.Declaration, start, end int, lines []string) model.CodeChunk {
	b.nextID++
	return model.CodeChunk{
		ID:              fmt.Sprintf("chunk-%d", b.nextID),
		Path:            a.Path,
		Type:            t,
		StartLine:       start,
		EndLine:         end,
		Declarations:    decls,
		Priority:        b.priority(decls),
		Focus:           b.focus(decls),
		EstimatedTokens: (end - start + 1) * b.cfg.TokensPerLine,
		Dependencies:    unionDeps(decls),
		Content:         sliceLines(lines, start, end),
	}
}

// declPriority is high for default exports or cyclomatic >= 15, medium
// for >= 8, low otherwise. A security review forces sensitive names high.
func (b *Builder) declPriority(d *model.Declaration) model.Priority {
	if b.intent == model.IntentSecurity && hasSecurityKeyword(d.Name) {
		return model.PriorityHigh
	}
	if d.Complexity >= 15 || d.Export == model.ExportDefault {
		return model.PriorityHigh
	}
	if d.Complexity >= 8 {
		return model.PriorityMedium
	}
	return model.PriorityLow
}

// priority of a chunk is the maximum across its declarations.
func (b *Builder) priority(decls []model.Declaration) model.Priority {
	p := model.PriorityLow
	for i := range decls {
		p = model.MaxPriority(p, b.declPriority(&decls[i]))
	}
	return p
}

func hasSecurityKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range securityKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// important declarations bypass the minimum-size filter.
func important(d *model.Declaration) bool {
	if d.Export != model.ExportInternal {
		return true
	}
	if d.Kind == model.KindClass || d.Kind == model.KindInterface {
		return true
	}
	return d.Complexity > 5
}

// addContext augments each chunk with up to MaxContextDecls sibling
// declarations it depends on by name. Context is for reviewer orientation,
// kept apart from the chunk's own declarations.
func (b *Builder) addContext(chunks []model.CodeChunk, decls []model.Declaration) {
	if len(decls) == 0 {
		return
	}
	byName := make(map[string]*model.Declaration, len(decls))
	for i := range decls {
		byName[decls[i].Name] = &decls[i]
	}
	for ci := range chunks {
		c := &chunks[ci]
		if c.Type == model.ChunkImports {
			continue
		}
		in := make(map[string]bool, len(c.Declarations))
		for i := range c.Declarations {
			in[c.Declarations[i].Name] = true
		}
		for _, dep := range c.Dependencies {
			if len(c.Context) >= b.cfg.MaxContextDecls {
				break
			}
			d, ok := byName[dep]
			if !ok || in[d.Name] {
				continue
			}
			in[d.Name] = true
			c.Context = append(c.Context, *d)
		}
	}
}

// chunkTypeFor maps a homogeneous declaration set to a chunk type; mixed
// sets are modules.
func chunkTypeFor(decls []model.Declaration) model.ChunkType {
	if len(decls) == 0 {
		return model.ChunkModule
	}
	kind := decls[0].Kind
	for i := 1; i < len(decls); i++ {
		if decls[i].Kind != kind {
			return model.ChunkModule
		}
	}
	switch kind {
	case model.KindFunction, model.KindMethod:
		return model.ChunkFunction
	case model.KindClass:
		return model.ChunkClass
	case model.KindInterface:
		return model.ChunkIface
	case model.KindTypeAlias, model.KindEnum:
		return model.ChunkTypes
	case model.KindImport:
		return model.ChunkImports
	case model.KindExport:
		return model.ChunkExports
	}
	return model.ChunkModule
}

func span(decls []model.Declaration) (int, int) {
	if len(decls) == 0 {
		return 1, 1
	}
	start, end := decls[0].StartLine, decls[0].EndLine
	for i := 1; i < len(decls); i++ {
		if decls[i].StartLine < start {
			start = decls[i].StartLine
		}
		if decls[i].EndLine > end {
			end = decls[i].EndLine
		}
	}
	return start, end
}

func unionDeps(decls []model.Declaration) []string {
	seen := make(map[string]bool)
	var deps []string
	for i := range decls {
		for _, dep := range decls[i].Dependencies {
			if !seen[dep] {
				seen[dep] = true
				deps = append(deps, dep)
			}
		}
	}
	return deps
}

// sliceLines joins the 1-based inclusive line range, clamped to the file.
func sliceLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end || len(lines) == 0 {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

func totalLines(decls []model.Declaration) int {
	total := 0
	for i := range decls {
		total += decls[i].LineCount()
	}
	return total
}
