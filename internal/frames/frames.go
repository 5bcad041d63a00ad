// Package frames renders a frame sequence and encodes every frame to disk.
package frames

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/sync/errgroup"

	"tile-rasterizer/internal/config"
	"tile-rasterizer/internal/postprocess"
	"tile-rasterizer/internal/raster"
	"tile-rasterizer/internal/scene"
)

// Director prepares the scene and rasterizer for frame i at time t (seconds)
// on a width×height framebuffer. Frames are requested in order, one at a
// time, so a Director may reuse and mutate its scene between calls.
type Director interface {
	Frame(i int, t float32, width, height int) (*scene.Scene, *raster.Rasterizer)
}

// Config holds all shared resources for a sequence run.
type Config struct {
	OutputDir   string
	Width       int
	Height      int
	TileSize    int
	Supersample int
	Frames      int
	FPS         int
	Format      string
	Workers     int
	Assets      *scene.Assets

	PreserveTransparency bool

	// Progress is the interval of the progress line; zero disables it.
	Progress time.Duration
}

// FromConfig copies the render settings of c.
func FromConfig(c config.Config, assets *scene.Assets) Config {
	return Config{
		OutputDir:            c.OutputDir,
		Width:                c.Width,
		Height:               c.Height,
		TileSize:             c.TileSize,
		Supersample:          c.Supersample,
		Frames:               c.Frames,
		FPS:                  c.FPS,
		Format:               c.Format,
		Workers:              c.Workers,
		Assets:               assets,
		PreserveTransparency: c.PreserveTransparency,
		Progress:             2 * time.Second,
	}
}

// RenderSize is the framebuffer size before downsampling.
func (c Config) RenderSize() (int, int) {
	ss := max(c.Supersample, 1)
	return c.Width * ss, c.Height * ss
}

// Result holds the outcome of one frame.
type Result struct {
	Frame   int
	Time    float32
	Path    string
	Success bool
	Error   string
}

type encodeFunc func(f *os.File, img *image.NRGBA) error

func encoderFor(format string) (encodeFunc, string, error) {
	switch format {
	case config.FormatWebP:
		return func(f *os.File, img *image.NRGBA) error {
			return nativewebp.Encode(f, img, nil)
		}, "webp", nil
	case config.FormatPNG:
		return func(f *os.File, img *image.NRGBA) error {
			return png.Encode(f, img)
		}, "png", nil
	case config.FormatRaw:
		return func(f *os.File, img *image.NRGBA) error {
			return WriteRaw(f, img)
		}, "rgbz", nil
	}
	return nil, "", fmt.Errorf("frames: unknown format %q", format)
}

// FramePath is the output file of frame i.
func FramePath(dir string, i int, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%04d.%s", i, ext))
}

// Run renders cfg.Frames frames from d. Rendering is sequential and uses the
// rasterizer's tile workers; encoding runs concurrently on up to cfg.Workers
// goroutines. Frames not started before ctx is done are reported as failed.
func Run(ctx context.Context, cfg Config, d Director) ([]Result, error) {
	encode, ext, err := encoderFor(cfg.Format)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("frames: create %s: %w", cfg.OutputDir, err)
	}

	total := cfg.Frames
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Progress)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	var g errgroup.Group
	g.SetLimit(max(cfg.Workers, 1))

	fps := float32(max(cfg.FPS, 1))
	ss := max(cfg.Supersample, 1)
	rw, rh := cfg.RenderSize()

	for i := 0; i < total; i++ {
		t := float32(i) / fps
		results[i] = Result{Frame: i, Time: t}
		if err := ctx.Err(); err != nil {
			results[i].Error = err.Error()
			continue
		}

		sc, r := d.Frame(i, t, rw, rh)
		r.Workers = cfg.Workers
		r.PreserveTransparency = cfg.PreserveTransparency
		pixels := make([]uint8, rw*rh*4)
		r.Rasterize(sc, pixels, rw, rh, cfg.TileSize*ss, cfg.Assets)

		path := FramePath(cfg.OutputDir, i, ext)
		g.Go(func() error {
			results[i] = writeFrame(results[i], path, pixels, rw, rh, cfg, encode)
			processed.Add(1)
			return nil
		})
	}

	g.Wait()
	close(done)

	return results, nil
}

func writeFrame(res Result, path string, pixels []uint8, rw, rh int, cfg Config, encode encodeFunc) Result {
	res.Path = path

	img := postprocess.FromPixels(pixels, rw, rh)
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.Width, cfg.Height)
	}

	f, err := os.Create(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := encode(f, img); err != nil {
		res.Error = fmt.Sprintf("%s encode: %v", cfg.Format, err)
		return res
	}

	res.Success = true
	return res
}
