// Package model defines core data structures for semchunk.
package model

import "time"

// DeclarationKind indicates the syntactic kind of a declaration.
type DeclarationKind string

const (
	KindFunction  DeclarationKind = "function"
	KindMethod    DeclarationKind = "method"
	KindClass     DeclarationKind = "class"
	KindInterface DeclarationKind = "interface"
	KindTypeAlias DeclarationKind = "type_alias"
	KindEnum      DeclarationKind = "enum"
	KindNamespace DeclarationKind = "namespace"
	KindVariable  DeclarationKind = "variable"
	KindImport    DeclarationKind = "import"
	KindExport    DeclarationKind = "export"
)

// ExportStatus describes the visibility of a declaration.
type ExportStatus string

const (
	ExportInternal ExportStatus = "internal"
	ExportExported ExportStatus = "exported"
	ExportDefault  ExportStatus = "default_export"
)

// Declaration is a named structural unit extracted from a parsed tree.
// Line numbers are 1-based and inclusive. Immutable after construction.
type Declaration struct {
	Kind         DeclarationKind
	Name         string // "anonymous" if no name could be resolved
	StartLine    int
	EndLine      int
	Complexity   int // cyclomatic, >= 1
	Export       ExportStatus
	Comment      string // leading comment text, if any
	Children     []Declaration
	Dependencies []string // identifiers referenced within the body
	Modifiers    []string
}

// LineCount returns the number of lines the declaration spans.
func (d *Declaration) LineCount() int {
	return d.EndLine - d.StartLine + 1
}

// ImportKind classifies how a symbol is imported.
type ImportKind string

const (
	ImportDefault   ImportKind = "default"
	ImportNamed     ImportKind = "named"
	ImportNamespace ImportKind = "namespace"
	ImportDynamic   ImportKind = "dynamic"
)

// ImportRelationship records one imported symbol.
type ImportRelationship struct {
	Symbol string
	Module string
	Kind   ImportKind
	Line   int
	// Used is a declared gap: cross-file usage tracking is not implemented,
	// so this is always false.
	Used bool
}

// HalsteadMetrics holds optional operator/operand derived metrics.
type HalsteadMetrics struct {
	Operators       int
	Operands        int
	UniqueOperators int
	UniqueOperands  int
	Volume          float64
	Difficulty      float64
	Effort          float64
}

// ComplexityMetrics summarizes one file's complexity. Cognitive complexity
// mirrors cyclomatic until a dedicated cognitive metric exists.
type ComplexityMetrics struct {
	Cyclomatic       int
	Cognitive        int
	MaxNesting       int
	FunctionCount    int
	ClassCount       int
	LinesOfCode      int // comments and blank lines excluded
	DeclarationCount int
	Halstead         *HalsteadMetrics
}

// SemanticAnalysis is the per-file extraction result.
type SemanticAnalysis struct {
	Language        string
	Path            string
	TotalLines      int
	Declarations    []Declaration
	Imports         []ImportRelationship
	Complexity      ComplexityMetrics
	HasSyntaxErrors bool
	AnalyzedAt      time.Time
	Recommendation  *ChunkingRecommendation
}

// Strategy names a chunking strategy.
type Strategy string

const (
	StrategyIndividual   Strategy = "individual"
	StrategyGrouped      Strategy = "grouped"
	StrategyHierarchical Strategy = "hierarchical"
	StrategyFunctional   Strategy = "functional"
	StrategyContextual   Strategy = "contextual"
)

// ChunkingRecommendation is the chosen strategy and its produced chunks.
type ChunkingRecommendation struct {
	Strategy        Strategy
	Chunks          []CodeChunk
	Relationships   []ChunkRelationship
	Rationale       string
	EstimatedChunks int // planning hint from the selector, not enforced
	TotalTokens     int
	ChunkCount      int
}

// RelationshipKind names a chunk relationship edge type.
type RelationshipKind string

// RelDependsOn is currently the only relationship kind.
const RelDependsOn RelationshipKind = "depends_on"

// ChunkRelationship is a directed edge between two chunks.
type ChunkRelationship struct {
	FromID      string
	ToID        string
	Kind        RelationshipKind
	Strength    float64 // in [0, 1]
	Description string
}

// ReviewIntent biases strategy selection and focus tagging.
type ReviewIntent string

const (
	IntentQuickFixes   ReviewIntent = "quick-fixes"
	IntentArchitecture ReviewIntent = "architectural"
	IntentSecurity     ReviewIntent = "security"
	IntentPerformance  ReviewIntent = "performance"
	IntentUnusedCode   ReviewIntent = "unused-code"
)

// FileInput is one source file handed to the engine, already loaded.
type FileInput struct {
	Path     string
	Content  string
	Language string // optional pre-detected language; detected from extension if empty
}

// Method tags how a result was produced.
type Method string

const (
	MethodSemantic    Method = "semantic"
	MethodTraditional Method = "traditional"
	MethodHybrid      Method = "hybrid"
)

// ResultMetrics summarizes one engine invocation.
type ResultMetrics struct {
	Duration    time.Duration
	TotalTokens int
	ChunkCount  int
	FileCount   int
}

// ChunkingResult is the engine's output for one batch of files.
type ChunkingResult struct {
	ID           string // invocation id, for trace correlation only
	Chunks       []CodeChunk
	Method       Method
	FallbackUsed bool
	Analyses     []*SemanticAnalysis
	Errors       []string // non-fatal diagnostics
	Metrics      ResultMetrics
}
