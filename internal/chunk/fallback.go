package chunk

import (
	"fmt"
	"strings"

	"github.com/phobologic/semchunk/internal/model"
)

// Fallback splits raw lines into contiguous ranges when structural
// analysis is unavailable or failed. The ranges tile [1, len(lines)]
// exactly, with chunk size min(MaxChunkLines, max(FallbackChunkLines,
// total/4)).
func (b *Builder) Fallback(path string, lines []string) []model.CodeChunk {
	total := len(lines)
	if total == 0 {
		return nil
	}

	size := total / 4
	if size < b.cfg.FallbackChunkLines {
		size = b.cfg.FallbackChunkLines
	}
	if size > b.cfg.MaxChunkLines {
		size = b.cfg.MaxChunkLines
	}

	var chunks []model.CodeChunk
	for start := 1; start <= total; start += size {
		end := start + size - 1
		if end > total {
			end = total
		}
		b.nextID++
		chunks = append(chunks, model.CodeChunk{
			ID:              fmt.Sprintf("chunk-%d", b.nextID),
			Path:            path,
			Type:            model.ChunkModule,
			StartLine:       start,
			EndLine:         end,
			Priority:        model.PriorityMedium,
			Focus:           baseFocus(b.intent),
			EstimatedTokens: (end - start + 1) * b.cfg.TokensPerLine,
			Content:         strings.Join(lines[start-1:end], "\n"),
		})
	}
	return chunks
}
