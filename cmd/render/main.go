package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"tile-rasterizer/internal/config"
	"tile-rasterizer/internal/demo"
	"tile-rasterizer/internal/frames"
	"tile-rasterizer/internal/raster"
	"tile-rasterizer/internal/scene"
	"tile-rasterizer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	assetDir := flag.String("assets", "", "Atlas directory (default: built-in procedural tiles)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	width := flag.Int("width", 0, "Frame width in pixels (default: 320)")
	height := flag.Int("height", 0, "Frame height in pixels (default: 240)")
	tileSize := flag.Int("tile", 0, "Tile size in pixels (default: 64)")
	frameCount := flag.Int("frames", 0, "Number of frames (default: 1)")
	format := flag.String("format", "", "Output format: webp, png or raw (default: webp)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	hour := flag.Float64("hour", -1, "Time of day 0-24 (default: 10)")
	unlit := flag.Bool("unlit", false, "Skip lighting")
	verbose := flag.Bool("v", false, "Log rasterizer diagnostics to stderr")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	var hourFlag *float32
	if *hour >= 0 {
		h := float32(*hour)
		hourFlag = &h
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		AssetDir:  *assetDir,
		OutputDir: *outputDir,
		Width:     *width,
		Height:    *height,
		TileSize:  *tileSize,
		Frames:    *frameCount,
		Format:    *format,
		Workers:   *workers,
		Hour:      hourFlag,
		Unlit:     *unlit,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		raster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load atlas
	assets := demo.DefaultAssets()
	if cfg.AssetDir != "" {
		tiles, failed := texture.BuildAtlas(cfg.AssetDir)
		mergeTiles(assets, tiles)
		fmt.Printf("Atlas: %d tiles loaded, %d failed\n", len(tiles), failed)
	}

	d := demo.Build(assets)
	d.Hour = cfg.HourOfDay()
	if cfg.Unlit {
		d.Mode = raster.Unlit
	}

	mode := "lit"
	if cfg.Unlit {
		mode = "unlit"
	}
	fmt.Printf("Tile rasterizer → %s (%s)\n", strings.ToUpper(cfg.Format), mode)
	fmt.Printf("Frames: %d at %dx%d (x%d), Tile: %d, Workers: %d\n",
		cfg.Frames, cfg.Width, cfg.Height, cfg.Supersample, cfg.TileSize, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	results, err := frames.Run(ctx, frames.FromConfig(cfg, assets), d)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []frames.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(results))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(len(errors), 20)
		for _, e := range errors[:limit] {
			fmt.Printf("  frame %d: %s\n", e.Frame, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := frames.WriteManifest(manifestPath, frames.FromConfig(cfg, assets), results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// mergeTiles replaces built-in tiles with atlas tiles of the same name and
// appends the rest.
func mergeTiles(assets *scene.Assets, tiles []*texture.Tile) {
	for _, t := range tiles {
		if i := assets.TileIndex(t.Name); i >= 0 {
			assets.Tiles[i] = t
			continue
		}
		assets.Tiles = append(assets.Tiles, t)
	}
}
