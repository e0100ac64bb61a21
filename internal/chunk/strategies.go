package chunk

import (
	"strings"

	"github.com/phobologic/semchunk/internal/model"
)

// individual emits one chunk per top-level declaration, skipping small
// unimportant ones, plus a chunk for a large import block.
func (b *Builder) individual(a *model.SemanticAnalysis, lines []string) []model.CodeChunk {
	var chunks []model.CodeChunk
	if c := b.importsChunk(a, lines); c != nil {
		chunks = append(chunks, *c)
	}
	for i := range a.Declarations {
		d := a.Declarations[i]
		if d.LineCount() < b.cfg.MinChunkLines && !important(&d) {
			continue
		}
		decls := []model.Declaration{d}
		chunks = append(chunks, b.newChunk(a, chunkTypeFor(decls), decls, lines))
	}
	return chunks
}

// importsChunk covers the import block when the file has more than five
// import statements.
func (b *Builder) importsChunk(a *model.SemanticAnalysis, lines []string) *model.CodeChunk {
	if len(a.Imports) <= 5 {
		return nil
	}
	start, end := a.Imports[0].Line, a.Imports[0].Line
	seen := make(map[string]bool)
	var symbols []string
	for _, imp := range a.Imports {
		if imp.Line < start {
			start = imp.Line
		}
		if imp.Line > end {
			end = imp.Line
		}
		if imp.Symbol != "" && !seen[imp.Symbol] {
			seen[imp.Symbol] = true
			symbols = append(symbols, imp.Symbol)
		}
	}
	c := b.newRangeChunk(a, model.ChunkImports, nil, start, end, lines)
	c.Dependencies = symbols
	return &c
}

// grouped partitions declarations into related groups: same kind, a shared
// dependency name, a common name prefix of three or more characters, or
// adjacency within five lines. Oversized groups are split by greedily
// packing declarations up to the size cap, preserving order.
func (b *Builder) grouped(a *model.SemanticAnalysis, decls []model.Declaration, lines []string) []model.CodeChunk {
	var chunks []model.CodeChunk
	for _, g := range relatedGroups(decls) {
		for _, part := range splitBySize(g, b.cfg.MaxChunkLines) {
			chunks = append(chunks, b.newChunk(a, chunkTypeFor(part), part, lines))
		}
	}
	return chunks
}

func relatedGroups(decls []model.Declaration) [][]model.Declaration {
	var groups [][]model.Declaration
	for _, d := range decls {
		placed := false
		for gi := range groups {
			if related(groups[gi], d) {
				groups[gi] = append(groups[gi], d)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []model.Declaration{d})
		}
	}
	return groups
}

func related(group []model.Declaration, d model.Declaration) bool {
	for i := range group {
		g := &group[i]
		if g.Kind == d.Kind {
			return true
		}
		if sharesDependency(g.Dependencies, d.Dependencies) {
			return true
		}
		if commonPrefixLen(g.Name, d.Name) >= 3 {
			return true
		}
		if gap := d.StartLine - g.EndLine; gap >= 0 && gap <= 5 {
			return true
		}
	}
	return false
}

func sharesDependency(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, dep := range a {
		set[dep] = true
	}
	for _, dep := range b {
		if set[dep] {
			return true
		}
	}
	return false
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// splitBySize greedily packs declarations into parts whose combined line
// count stays at or under maxLines, preserving original order.
func splitBySize(g []model.Declaration, maxLines int) [][]model.Declaration {
	if len(g) <= 1 || totalLines(g) <= maxLines {
		return [][]model.Declaration{g}
	}
	var parts [][]model.Declaration
	var cur []model.Declaration
	curLines := 0
	for _, d := range g {
		lc := d.LineCount()
		if len(cur) > 0 && curLines+lc > maxLines {
			parts = append(parts, cur)
			cur = nil
			curLines = 0
		}
		cur = append(cur, d)
		curLines += lc
	}
	if len(cur) > 0 {
		parts = append(parts, cur)
	}
	return parts
}

// hierarchical chunks classes and interfaces along their structure;
// everything else goes through the grouped strategy.
func (b *Builder) hierarchical(a *model.SemanticAnalysis, lines []string) []model.CodeChunk {
	var chunks []model.CodeChunk
	var rest []model.Declaration
	for _, d := range a.Declarations {
		if d.Kind == model.KindClass || d.Kind == model.KindInterface {
			chunks = append(chunks, b.classChunks(a, d, lines)...)
		} else {
			rest = append(rest, d)
		}
	}
	if len(rest) > 0 {
		chunks = append(chunks, b.grouped(a, rest, lines)...)
	}
	return chunks
}

// classChunks keeps a class within the size cap whole. An oversized class
// becomes a header chunk (signature through the line before the first
// method) plus method-group chunks bucketed public before private.
func (b *Builder) classChunks(a *model.SemanticAnalysis, d model.Declaration, lines []string) []model.CodeChunk {
	t := model.ChunkClass
	if d.Kind == model.KindInterface {
		t = model.ChunkIface
	}
	if d.LineCount() <= b.cfg.MaxChunkLines {
		return []model.CodeChunk{b.newChunk(a, t, []model.Declaration{d}, lines)}
	}

	methods := methodsOf(&d)
	headerEnd := d.EndLine
	if len(methods) > 0 && methods[0].StartLine-1 >= d.StartLine {
		headerEnd = methods[0].StartLine - 1
	}
	header := b.newRangeChunk(a, t, []model.Declaration{d}, d.StartLine, headerEnd, lines)
	header.Metadata = map[string]string{"part": "header", "class": d.Name}
	chunks := []model.CodeChunk{header}

	public, private := splitVisibility(methods)
	for _, bucket := range []struct {
		name    string
		methods []model.Declaration
	}{{"public", public}, {"private", private}} {
		for _, part := range splitBySize(bucket.methods, b.cfg.MaxChunkLines) {
			if len(part) == 0 {
				continue
			}
			c := b.newChunk(a, t, part, lines)
			c.Metadata = map[string]string{
				"part":       "methods",
				"class":      d.Name,
				"visibility": bucket.name,
			}
			chunks = append(chunks, c)
		}
	}

	// The split must still cover the whole class, closing lines included.
	last := &chunks[len(chunks)-1]
	if last.EndLine < d.EndLine {
		last.EndLine = d.EndLine
		last.EstimatedTokens = last.LineCount() * b.cfg.TokensPerLine
		last.Content = sliceLines(lines, last.StartLine, last.EndLine)
	}
	return chunks
}

func methodsOf(d *model.Declaration) []model.Declaration {
	var methods []model.Declaration
	for _, child := range d.Children {
		if child.Kind == model.KindMethod {
			methods = append(methods, child)
		}
	}
	return methods
}

// splitVisibility buckets methods by declared visibility: private and
// protected modifiers, or an underscore/hash name prefix, mean private.
func splitVisibility(methods []model.Declaration) (public, private []model.Declaration) {
	for _, m := range methods {
		if isPrivate(&m) {
			private = append(private, m)
		} else {
			public = append(public, m)
		}
	}
	return public, private
}

func isPrivate(d *model.Declaration) bool {
	for _, mod := range d.Modifiers {
		if mod == "private" || mod == "protected" {
			return true
		}
	}
	return strings.HasPrefix(d.Name, "_") || strings.HasPrefix(d.Name, "#")
}

// functional groups declarations by shared dependency names: any
// identifier referenced by two or more declarations merges them into one
// group; the rest stay singletons.
func (b *Builder) functional(a *model.SemanticAnalysis, decls []model.Declaration, lines []string) []model.CodeChunk {
	parent := make([]int, len(decls))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	byDep := make(map[string][]int)
	for i := range decls {
		for _, dep := range decls[i].Dependencies {
			byDep[dep] = append(byDep[dep], i)
		}
	}
	for _, idxs := range byDep {
		for i := 1; i < len(idxs); i++ {
			parent[find(idxs[i])] = find(idxs[0])
		}
	}

	groups := make(map[int][]model.Declaration)
	var order []int
	for i := range decls {
		root := find(i)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], decls[i])
	}

	var chunks []model.CodeChunk
	for _, root := range order {
		for _, part := range splitBySize(groups[root], b.cfg.MaxChunkLines) {
			chunks = append(chunks, b.newChunk(a, chunkTypeFor(part), part, lines))
		}
	}
	return chunks
}

// contextual currently mirrors the functional grouping.
// TODO: broader-context heuristic that also pulls in the imports each
// group touches.
func (b *Builder) contextual(a *model.SemanticAnalysis, lines []string) []model.CodeChunk {
	return b.functional(a, a.Declarations, lines)
}
