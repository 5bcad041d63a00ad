package raster

// farDepth is the cleared value of both depth buffers.
const farDepth = 1

// tileBuffers are the render targets owned by one tile task. All slices are
// tile-local and row-major.
type tileBuffers struct {
	tile Tile

	color []uint8   // RGBA8, len = W*H*4
	depth []float32 // opaque pass, cleared to farDepth

	opColor []uint8   // opacity pass RGBA8
	opDepth []float32 // opacity pass, cleared to farDepth

	// surface holds the profile id of the translucent surface that claimed
	// each pixel; claimed marks which entries are set.
	surface []uint32
	claimed []bool
}

func newTileBuffers(t Tile) *tileBuffers {
	n := t.Area()
	b := &tileBuffers{
		tile:    t,
		color:   make([]uint8, n*4),
		depth:   make([]float32, n),
		opColor: make([]uint8, n*4),
		opDepth: make([]float32, n),
		surface: make([]uint32, n),
		claimed: make([]bool, n),
	}
	for i := range b.depth {
		b.depth[i] = farDepth
		b.opDepth[i] = farDepth
	}
	return b
}

// index maps frame pixel (x, y) to the tile-local pixel index.
func (b *tileBuffers) index(x, y int) int {
	return (y-b.tile.Y)*b.tile.Width + (x - b.tile.X)
}

func (b *tileBuffers) pixel(i int) [4]uint8 {
	o := i * 4
	return [4]uint8{b.color[o], b.color[o+1], b.color[o+2], b.color[o+3]}
}

func (b *tileBuffers) setPixel(i int, c [4]uint8) {
	copy(b.color[i*4:i*4+4], c[:])
}

// claimedBy reports whether pixel i was stamped with profile id.
func (b *tileBuffers) claimedBy(i int, id uint32) bool {
	return b.claimed[i] && b.surface[i] == id
}

func (b *tileBuffers) claim(i int, id uint32) {
	b.surface[i] = id
	b.claimed[i] = true
}
