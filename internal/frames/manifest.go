package frames

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one rendered frame in the output manifest.
type ManifestEntry struct {
	Frame  int     `json:"frame"`
	Time   float32 `json:"time"`
	Image  string  `json:"image"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

// WriteManifest writes the successful frames of results to path. Image paths
// are relative to the manifest's directory.
func WriteManifest(path string, cfg Config, results []Result) error {
	dir := filepath.Dir(path)
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		rel, err := filepath.Rel(dir, r.Path)
		if err != nil {
			rel = r.Path
		}
		entries = append(entries, ManifestEntry{
			Frame:  r.Frame,
			Time:   r.Time,
			Image:  filepath.ToSlash(rel),
			Width:  cfg.Width,
			Height: cfg.Height,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
