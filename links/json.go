package links

import (
	"encoding/json"
	"fmt"
	"os"

	"ytscribe/internal/atomicfile"
)

// List is the transient JSON link list written between the extraction and
// download stages.
type List struct {
	YouTubeLinks []string `json:"youtube_links"`
}

// SaveJSON writes the link list to path atomically.
func SaveJSON(path string, urls []string) error {
	w, err := atomicfile.NewWriter(path)
	if err != nil {
		return fmt.Errorf("save links: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(List{YouTubeLinks: urls}); err != nil {
		w.Abort()
		return fmt.Errorf("save links: %w", err)
	}

	if err := w.Commit(); err != nil {
		return fmt.Errorf("save links: %w", err)
	}
	return nil
}

// LoadJSON reads a link list previously written by SaveJSON.
func LoadJSON(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}

	var list List
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return list.YouTubeLinks, nil
}
