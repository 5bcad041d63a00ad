// Package scene holds the render inputs the rasterizer consumes read-only:
// projected batches grouped by chunk, lights, shader tables, occlusion and
// terrain queries, and the asset atlases.
package scene

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"tile-rasterizer/internal/shader"
	"tile-rasterizer/internal/texture"
)

// DefaultChunkSize is the edge length of a chunk in world units.
const DefaultChunkSize = 16

// ChunkKey is a chunk's integer grid coordinate (x, z).
type ChunkKey [2]int32

// Chunk is one region of the world with its own batches, shader table,
// lights and ground queries.
type Chunk struct {
	Key ChunkKey

	Batches2D []*Batch2D
	Batches3D []*Batch3D
	Terrain2D *Batch2D
	Terrain3D *Batch3D

	Shaders   []shader.Program
	Lights    []Light
	Occlusion Occluder
	Terrain   TerrainSampler
}

// GetOcclusion returns the exposure at p, or 1 when the chunk has no
// occlusion data.
func (c *Chunk) GetOcclusion(p mgl32.Vec2) float32 {
	if c == nil || c.Occlusion == nil {
		return 1
	}
	return c.Occlusion.Occlusion(p)
}

// IsVisible reports line of sight from p to a light on the ground plane.
func (c *Chunk) IsVisible(p, lightPos mgl32.Vec2) bool {
	if c == nil || c.Occlusion == nil {
		return true
	}
	return c.Occlusion.IsVisible(p, lightPos)
}

// Batches3DWithTerrain returns the chunk's 3D batches with the terrain
// batch (if any) first.
func (c *Chunk) Batches3DWithTerrain() []*Batch3D {
	if c.Terrain3D == nil {
		return c.Batches3D
	}
	return append([]*Batch3D{c.Terrain3D}, c.Batches3D...)
}

// Batches2DWithTerrain returns the chunk's 2D batches with the terrain batch
// (if any) first.
func (c *Chunk) Batches2DWithTerrain() []*Batch2D {
	if c.Terrain2D == nil {
		return c.Batches2D
	}
	return append([]*Batch2D{c.Terrain2D}, c.Batches2D...)
}

// Scene is everything one frame renders.
type Scene struct {
	Static2D  []*Batch2D
	Dynamic2D []*Batch2D
	Overlay2D []*Batch2D
	Static3D  []*Batch3D
	Dynamic3D []*Batch3D

	Chunks    map[ChunkKey]*Chunk
	ChunkSize float32

	Lights        []Light
	DynamicLights []Light

	Shaders        []shader.Program
	AnimationFrame int
	Background     shader.Program

	// Occlusion is the global mini-map fallback when no chunk covers a point.
	Occlusion Occluder
	// Terrain is the fallback terrain sampler when no chunk covers a point.
	Terrain TerrainSampler

	DynamicTextures []*texture.Tile
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{
		Chunks:    make(map[ChunkKey]*Chunk),
		ChunkSize: DefaultChunkSize,
	}
}

// AddChunk registers c under its key.
func (s *Scene) AddChunk(c *Chunk) {
	if s.Chunks == nil {
		s.Chunks = make(map[ChunkKey]*Chunk)
	}
	s.Chunks[c.Key] = c
}

// KeyAt returns the key of the chunk containing ground point p.
func (s *Scene) KeyAt(p mgl32.Vec2) ChunkKey {
	size := s.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	return ChunkKey{int32(math32.Floor(p[0] / size)), int32(math32.Floor(p[1] / size))}
}

// ChunkAt returns the chunk containing ground point p, or nil.
func (s *Scene) ChunkAt(p mgl32.Vec2) *Chunk {
	if len(s.Chunks) == 0 {
		return nil
	}
	return s.Chunks[s.KeyAt(p)]
}

// SortedChunks returns the chunks ordered by key (z, then x) so iteration is
// deterministic.
func (s *Scene) SortedChunks() []*Chunk {
	chunks := make([]*Chunk, 0, len(s.Chunks))
	for _, c := range s.Chunks {
		chunks = append(chunks, c)
	}
	sort.Slice(chunks, func(i, j int) bool {
		a, b := chunks[i].Key, chunks[j].Key
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[0] < b[0]
	})
	return chunks
}

// Project projects every 3D batch in the scene for a width×height viewport.
func (s *Scene) Project(viewProj mgl32.Mat4, width, height int) {
	for _, b := range s.Static3D {
		b.Project(viewProj, width, height)
	}
	for _, b := range s.Dynamic3D {
		b.Project(viewProj, width, height)
	}
	for _, c := range s.Chunks {
		for _, b := range c.Batches3DWithTerrain() {
			b.Project(viewProj, width, height)
		}
	}
}

// Has3D reports whether any 3D batch is present.
func (s *Scene) Has3D() bool {
	if len(s.Static3D) > 0 || len(s.Dynamic3D) > 0 {
		return true
	}
	for _, c := range s.Chunks {
		if len(c.Batches3D) > 0 || c.Terrain3D != nil {
			return true
		}
	}
	return false
}

// Assets are the shared texture atlases and palette.
type Assets struct {
	Tiles    []*texture.Tile
	Entities map[uuid.UUID][]*texture.Tile
	Items    map[uuid.UUID][]*texture.Tile
	Palette  shader.Palette
}

// NewAssets returns assets holding the given static atlas.
func NewAssets(tiles []*texture.Tile) *Assets {
	return &Assets{
		Tiles:    tiles,
		Entities: make(map[uuid.UUID][]*texture.Tile),
		Items:    make(map[uuid.UUID][]*texture.Tile),
	}
}

// StaticTile returns Tiles[i] or nil.
func (a *Assets) StaticTile(i int) *texture.Tile {
	if a == nil || i < 0 || i >= len(a.Tiles) {
		return nil
	}
	return a.Tiles[i]
}

// EntityTile returns an entity's i-th tile sequence or nil.
func (a *Assets) EntityTile(id uuid.UUID, i int) *texture.Tile {
	if a == nil {
		return nil
	}
	return at(a.Entities[id], i)
}

// ItemTile returns an item's i-th tile sequence or nil.
func (a *Assets) ItemTile(id uuid.UUID, i int) *texture.Tile {
	if a == nil {
		return nil
	}
	return at(a.Items[id], i)
}

// TileIndex returns the atlas index of the tile with the given name, or -1.
func (a *Assets) TileIndex(name string) int {
	if a == nil {
		return -1
	}
	for i, t := range a.Tiles {
		if t != nil && t.Name == name {
			return i
		}
	}
	return -1
}

func at(tiles []*texture.Tile, i int) *texture.Tile {
	if i < 0 || i >= len(tiles) {
		return nil
	}
	return tiles[i]
}
