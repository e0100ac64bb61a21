package model

// Config carries every tunable of the chunking engine. It is passed
// explicitly through all calls; nothing reads ambient state, so the engine
// stays reentrant and testable in isolation.
type Config struct {
	// Chunk shaping
	MaxChunkLines   int // split threshold for groups and classes
	MinChunkLines   int // declarations below this are skipped unless important
	TokensPerLine   int // linear token estimate constant
	IncludeContext  bool
	MaxContextDecls int

	// Parse gates
	MaxFileBytes         int // hard parse cap, translated to ErrFileTooLarge
	MaxSemanticFileBytes int // above this the orchestrator won't attempt semantic chunking

	// Consolidation
	Consolidate        bool
	MaxTokensPerBatch  int
	MaxChunksPerBatch  int
	MinChunksToMerge   int // below this no consolidation is attempted
	FallbackChunkLines int // minimum fallback chunk size

	// Orchestration
	ForcedTraditional []string // languages always routed to line-based chunking
	DisableSemantic   bool
	CacheSize         int // bounded LRU entries; 0 disables caching
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxChunkLines:        500,
		MinChunkLines:        10,
		TokensPerLine:        4,
		IncludeContext:       true,
		MaxContextDecls:      5,
		MaxFileBytes:         500_000,
		MaxSemanticFileBytes: 500_000,
		Consolidate:          true,
		MaxTokensPerBatch:    4000,
		MaxChunksPerBatch:    30,
		MinChunksToMerge:     3,
		FallbackChunkLines:   50,
		CacheSize:            512,
	}
}
