package texture

import (
	"fmt"
	"image"
	"strings"
	"sync"
)

// Resolver resolves a tile name to a loaded atlas tile.
type Resolver interface {
	Resolve(name string) *Tile
}

// Cache is a concurrency-safe tile cache.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

type cacheEntry struct {
	tile   *Tile
	loaded bool // true if we've attempted to load (tile may still be nil)
}

// NewCache creates a new tile cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Resolve loads and caches a tile by name. Returns nil if not found or if no
// frame decodes.
func (c *Cache) Resolve(name string) *Tile {
	key := strings.ToLower(name)
	paths, ok := c.index.FramePaths(key)
	if !ok {
		return nil
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[key]; exists {
		c.mu.RUnlock()
		return entry.tile
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	tile, _ := loadTile(key, paths)

	// Write lock with double-check
	c.mu.Lock()
	if entry, exists := c.items[key]; exists {
		c.mu.Unlock()
		return entry.tile
	}
	c.items[key] = &cacheEntry{tile: tile, loaded: true}
	c.mu.Unlock()

	return tile
}

// loadTile decodes every frame; frames that fail to decode are dropped.
func loadTile(name string, paths []string) (*Tile, error) {
	var frames []*image.NRGBA
	var firstErr error
	for _, p := range paths {
		img, err := LoadTexture(p)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		frames = append(frames, img)
	}
	if len(frames) == 0 {
		if firstErr == nil {
			firstErr = fmt.Errorf("texture: no frames for %s", name)
		}
		return nil, firstErr
	}
	return NewTile(name, frames...), nil
}

// BuildAtlas indexes dir and loads every tile, sorted by name. Tiles that fail
// to load are skipped and counted in the second return value.
func BuildAtlas(dir string) ([]*Tile, int) {
	idx := BuildIndex(dir)
	cache := NewCache(idx)

	var tiles []*Tile
	failed := 0
	for _, name := range idx.Names() {
		t := cache.Resolve(name)
		if t == nil {
			failed++
			continue
		}
		tiles = append(tiles, t)
	}
	return tiles, failed
}
