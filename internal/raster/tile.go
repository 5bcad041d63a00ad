package raster

// Tile is a rectangular region of the framebuffer rendered by one task.
type Tile struct {
	X, Y          int
	Width, Height int
}

// Partition splits a width×height frame into tiles of at most
// tileSize×tileSize in row-major order. Tiles on the right and bottom edges
// are clipped to the frame. A non-positive tileSize yields one tile covering
// the whole frame.
func Partition(width, height, tileSize int) []Tile {
	if width <= 0 || height <= 0 {
		return nil
	}
	if tileSize <= 0 {
		return []Tile{{Width: width, Height: height}}
	}

	cols := (width + tileSize - 1) / tileSize
	rows := (height + tileSize - 1) / tileSize
	tiles := make([]Tile, 0, cols*rows)
	for y := 0; y < height; y += tileSize {
		h := min(tileSize, height-y)
		for x := 0; x < width; x += tileSize {
			tiles = append(tiles, Tile{X: x, Y: y, Width: min(tileSize, width-x), Height: h})
		}
	}
	return tiles
}

// Contains reports whether pixel (x, y) lies in the tile.
func (t Tile) Contains(x, y int) bool {
	return x >= t.X && x < t.X+t.Width && y >= t.Y && y < t.Y+t.Height
}

// Area is the tile's pixel count.
func (t Tile) Area() int {
	return t.Width * t.Height
}

// wrapToTile folds a sample position that falls outside the tile back in
// from the opposite edge, so textures tile seamlessly across tile seams.
func (t Tile) wrapToTile(x, y float32) (float32, float32) {
	x0, y0 := float32(t.X), float32(t.Y)
	x1, y1 := x0+float32(t.Width), y0+float32(t.Height)
	if x < x0 {
		x += float32(t.Width)
	} else if x >= x1 {
		x -= float32(t.Width)
	}
	if y < y0 {
		y += float32(t.Height)
	} else if y >= y1 {
		y -= float32(t.Height)
	}
	return x, y
}
