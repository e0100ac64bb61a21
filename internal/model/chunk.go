package model

// ChunkType classifies the content of a code chunk.
type ChunkType string

const (
	ChunkFunction ChunkType = "function"
	ChunkClass    ChunkType = "class"
	ChunkIface    ChunkType = "interface"
	ChunkModule   ChunkType = "module"
	ChunkImports  ChunkType = "imports"
	ChunkExports  ChunkType = "exports"
	ChunkTypes    ChunkType = "type_definitions"
)

// Priority ranks a chunk for review attention.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var priorityRank = map[Priority]int{
	PriorityLow:    0,
	PriorityMedium: 1,
	PriorityHigh:   2,
}

// Rank returns a comparable ordering value for the priority.
func (p Priority) Rank() int {
	return priorityRank[p]
}

// MaxPriority returns the higher of two priorities.
func MaxPriority(a, b Priority) Priority {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// ReviewFocus is a non-exclusive review attention tag.
type ReviewFocus string

const (
	FocusMaintainability ReviewFocus = "maintainability"
	FocusArchitecture    ReviewFocus = "architecture"
	FocusSecurity        ReviewFocus = "security"
	FocusPerformance     ReviewFocus = "performance"
	FocusTypeSafety      ReviewFocus = "type-safety"
	FocusDocumentation   ReviewFocus = "documentation"
	FocusErrorHandling   ReviewFocus = "error-handling"
)

// CodeChunk is the unit handed to the review pipeline.
// Invariants: EndLine >= StartLine; ID is unique within a run.
type CodeChunk struct {
	ID              string
	Path            string
	Type            ChunkType
	StartLine       int
	EndLine         int
	Declarations    []Declaration
	Context         []Declaration // dependency declarations pulled in for orientation, not review
	Priority        Priority
	Focus           []ReviewFocus
	EstimatedTokens int
	Dependencies    []string
	Content         string
	Metadata        map[string]string // consolidation provenance and similar
}

// LineCount returns the number of lines the chunk spans.
func (c *CodeChunk) LineCount() int {
	return c.EndLine - c.StartLine + 1
}
