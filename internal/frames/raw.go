package frames

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/klauspost/compress/zlib"
)

// rawMagic opens every raw framebuffer dump.
var rawMagic = [4]byte{'T', 'R', 'F', 'B'}

// maxRawPixels bounds the size ReadRaw accepts from a header.
const maxRawPixels = 1 << 28

// Raw dump errors
var (
	ErrRawMagic = errors.New("frames: not a raw framebuffer")
	ErrRawSize  = errors.New("frames: raw framebuffer size out of range")
)

type rawHeader struct {
	Magic  [4]byte
	Width  uint32
	Height uint32
}

// WriteRaw stores img as a little-endian header (magic, width, height)
// followed by the zlib-compressed straight-alpha RGBA rows.
func WriteRaw(w io.Writer, img *image.NRGBA) error {
	b := img.Bounds()
	hdr := rawHeader{Magic: rawMagic, Width: uint32(b.Dx()), Height: uint32(b.Dy())}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("frames: write raw header: %w", err)
	}

	zw, err := zlib.NewWriterLevel(w, zlib.BestSpeed)
	if err != nil {
		return err
	}
	row := b.Dx() * 4
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		if _, err := zw.Write(img.Pix[off : off+row]); err != nil {
			zw.Close()
			return fmt.Errorf("frames: write raw pixels: %w", err)
		}
	}
	return zw.Close()
}

// ReadRaw decodes a dump written by WriteRaw.
func ReadRaw(r io.Reader) (*image.NRGBA, error) {
	var hdr rawHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("frames: read raw header: %w", err)
	}
	if hdr.Magic != rawMagic {
		return nil, ErrRawMagic
	}
	if hdr.Width == 0 || hdr.Height == 0 || uint64(hdr.Width)*uint64(hdr.Height) > maxRawPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrRawSize, hdr.Width, hdr.Height)
	}

	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("frames: read raw pixels: %w", err)
	}
	defer zr.Close()

	img := image.NewNRGBA(image.Rect(0, 0, int(hdr.Width), int(hdr.Height)))
	if _, err := io.ReadFull(zr, img.Pix); err != nil {
		return nil, fmt.Errorf("frames: read raw pixels: %w", err)
	}
	return img, nil
}
