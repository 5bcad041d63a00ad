package texture

import (
	"image"

	"github.com/google/uuid"
)

// atlasNamespace seeds deterministic tile ids derived from tile names.
var atlasNamespace = uuid.MustParse("6f1c2a4e-9b0d-4f57-8d2e-3a7c5b1e0f92")

// Tile is one atlas entry: a named sequence of animation frames.
type Tile struct {
	ID     uuid.UUID
	Name   string
	Frames []*image.NRGBA
}

// NewTile builds a tile whose id is derived from its name.
func NewTile(name string, frames ...*image.NRGBA) *Tile {
	return &Tile{
		ID:     uuid.NewSHA1(atlasNamespace, []byte(name)),
		Name:   name,
		Frames: frames,
	}
}

// Frame selects the frame for an animation counter (counter % frame count).
// Returns nil for a tile without frames.
func (t *Tile) Frame(counter int) *image.NRGBA {
	if t == nil || len(t.Frames) == 0 {
		return nil
	}
	i := counter % len(t.Frames)
	if i < 0 {
		i += len(t.Frames)
	}
	return t.Frames[i]
}

// Solid returns a single-frame tile filled with one colour.
func Solid(name string, w, h int, r, g, b, a uint8) *Tile {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return NewTile(name, img)
}

// Checker returns a single-frame two-colour checkerboard tile with cells of
// the given size in pixels.
func Checker(name string, size, cell int, c0, c1 [4]uint8) *Tile {
	if cell <= 0 {
		cell = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := c0
			if (x/cell+y/cell)%2 == 1 {
				c = c1
			}
			i := img.PixOffset(x, y)
			copy(img.Pix[i:i+4], c[:])
		}
	}
	return NewTile(name, img)
}
