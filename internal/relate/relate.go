// Package relate computes pairwise dependency edges between the chunks of
// one file, used for downstream ordering and consolidation.
package relate

import (
	"fmt"

	"github.com/phobologic/semchunk/internal/model"
)

// referenceStrength is the fixed strength of a declaration-name reference
// edge.
const referenceStrength = 0.8

// Analyze emits at most one edge per unordered chunk pair: shared
// dependency names first, then declaration-name references. Quadratic in
// chunk count, which stays in the tens per file by construction of the
// chunking strategies.
func Analyze(chunks []model.CodeChunk) []model.ChunkRelationship {
	var rels []model.ChunkRelationship
	for i := 0; i < len(chunks); i++ {
		for j := i + 1; j < len(chunks); j++ {
			if rel, ok := relationship(&chunks[i], &chunks[j]); ok {
				rels = append(rels, rel)
			}
		}
	}
	return rels
}

func relationship(a, b *model.CodeChunk) (model.ChunkRelationship, bool) {
	if shared := sharedCount(a.Dependencies, b.Dependencies); shared > 0 {
		strength := float64(shared) / float64(max(1, len(a.Dependencies)))
		if strength > 1 {
			strength = 1
		}
		return model.ChunkRelationship{
			FromID:      a.ID,
			ToID:        b.ID,
			Kind:        model.RelDependsOn,
			Strength:    strength,
			Description: fmt.Sprintf("shares %d dependency names", shared),
		}, true
	}

	deps := make(map[string]bool, len(a.Dependencies))
	for _, dep := range a.Dependencies {
		deps[dep] = true
	}
	for i := range b.Declarations {
		if name := b.Declarations[i].Name; deps[name] {
			return model.ChunkRelationship{
				FromID:      a.ID,
				ToID:        b.ID,
				Kind:        model.RelDependsOn,
				Strength:    referenceStrength,
				Description: "references " + name,
			}, true
		}
	}
	return model.ChunkRelationship{}, false
}

func sharedCount(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, dep := range a {
		set[dep] = true
	}
	count := 0
	for _, dep := range b {
		if set[dep] {
			count++
		}
	}
	return count
}
