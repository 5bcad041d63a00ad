package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"tile-rasterizer/internal/texture"
)

func main() {
	verbose := flag.Bool("v", false, "List every frame file")
	flag.Parse()

	dir := "."
	if flag.NArg() > 0 {
		dir = flag.Arg(0)
	}

	idx := texture.BuildIndex(dir)
	if idx.Len() == 0 {
		fmt.Printf("No tiles found in %s\n", dir)
		os.Exit(0)
	}

	fmt.Printf("Atlas: %s (%d tiles)\n", dir, idx.Len())
	fmt.Println("------------------------------------------------------------")

	bad := 0
	for i, name := range idx.Names() {
		paths, _ := idx.FramePaths(name)
		w, h, failed := 0, 0, 0
		for _, p := range paths {
			img, err := texture.LoadTexture(p)
			if err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "  %v\n", err)
				continue
			}
			if w == 0 {
				w, h = img.Rect.Dx(), img.Rect.Dy()
			} else if img.Rect.Dx() != w || img.Rect.Dy() != h {
				fmt.Fprintf(os.Stderr, "  %s: frame size %dx%d differs from %dx%d\n",
					p, img.Rect.Dx(), img.Rect.Dy(), w, h)
			}
		}
		if failed > 0 {
			bad++
		}

		fmt.Printf("%4d  %-24s frames=%-3d %dx%d", i, name, len(paths), w, h)
		if failed > 0 {
			fmt.Printf("  (%d failed)", failed)
		}
		fmt.Println()
		if *verbose {
			for _, p := range paths {
				rel, err := filepath.Rel(dir, p)
				if err != nil {
					rel = p
				}
				fmt.Printf("        %s\n", rel)
			}
		}
	}

	if bad > 0 {
		fmt.Printf("\n%d tiles with undecodable frames\n", bad)
		os.Exit(1)
	}
}
