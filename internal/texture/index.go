package texture

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Index maps lowercase tile names to their frame files, ordered by frame number.
// A file named "water_2.png" is frame 2 of tile "water"; "stone.png" is frame 0
// of tile "stone".
type Index struct {
	entries map[string][]frameFile
}

type frameFile struct {
	frame int
	path  string
}

// BuildIndex scans dir recursively for decodable images.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string][]frameFile)}

	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !IsSupported(path) {
			return nil
		}
		name, frame := splitFrame(filepath.Base(path))
		idx.entries[name] = append(idx.entries[name], frameFile{frame: frame, path: path})
		return nil
	})

	for name, frames := range idx.entries {
		sort.SliceStable(frames, func(i, j int) bool {
			if frames[i].frame != frames[j].frame {
				return frames[i].frame < frames[j].frame
			}
			return frames[i].path < frames[j].path
		})
		idx.entries[name] = frames
	}

	return idx
}

// splitFrame parses "name_3.png" into ("name", 3). Names without a numeric
// suffix are frame 0.
func splitFrame(base string) (string, int) {
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	cut := strings.LastIndexByte(stem, '_')
	if cut <= 0 || cut == len(stem)-1 {
		return stem, 0
	}
	n, err := strconv.Atoi(stem[cut+1:])
	if err != nil || n < 0 {
		return stem, 0
	}
	return stem[:cut], n
}

// FramePaths returns the frame files of a tile, or (nil, false).
func (idx *Index) FramePaths(name string) ([]string, bool) {
	frames, ok := idx.entries[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	paths := make([]string, len(frames))
	for i, f := range frames {
		paths[i] = f.path
	}
	return paths, true
}

// Names returns all tile names in sorted order.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.entries))
	for name := range idx.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of indexed tiles.
func (idx *Index) Len() int {
	return len(idx.entries)
}
