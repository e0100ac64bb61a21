package engine

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/phobologic/semchunk/internal/model"
)

// resultCache is a bounded LRU over finished results. A nil inner cache
// (CacheSize <= 0) disables caching entirely.
type resultCache struct {
	lru *lru.Cache[string, *model.ChunkingResult]
}

func newResultCache(size int) *resultCache {
	if size <= 0 {
		return &resultCache{}
	}
	c, err := lru.New[string, *model.ChunkingResult](size)
	if err != nil {
		// Only reachable with a non-positive size, which is handled above.
		panic(err)
	}
	return &resultCache{lru: c}
}

func (c *resultCache) get(key string) (*model.ChunkingResult, bool) {
	if c.lru == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

func (c *resultCache) add(key string, res *model.ChunkingResult) {
	if c.lru != nil {
		c.lru.Add(key, res)
	}
}

// cacheKey hashes every file path and content plus the intent and model,
// so any input change produces a fresh result.
func cacheKey(req Request) string {
	h := sha256.New()
	for _, f := range req.Files {
		h.Write([]byte(f.Path))
		h.Write([]byte{0})
		h.Write([]byte(f.Content))
		h.Write([]byte{0})
	}
	h.Write([]byte(req.Intent))
	h.Write([]byte{0})
	h.Write([]byte(req.Model))
	return hex.EncodeToString(h.Sum(nil))
}
