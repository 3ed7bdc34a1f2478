package ranking

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"autodevstack/pkg/types"
)

// Load reads the ranking cache at path.
func Load(path string) (*types.BestModels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var doc types.BestModels
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &doc, nil
}

// Entry is the part of a ranked model the selector reads.
type Entry struct {
	ID      string `json:"id"`
	Explain string `json:"explain"`
}

// Entries is a lenient view of the ranking cache. Metadata is not decoded,
// so a cache written by another tool with different date or flag formats
// still yields its model ids.
type Entries struct {
	LastUpdated json.RawMessage  `json:"last_updated"`
	Best        map[string]Entry `json:"best"`
}

// Lookup returns the entry for task when it carries an id.
func (e *Entries) Lookup(task types.Task) (Entry, bool) {
	if e == nil {
		return Entry{}, false
	}
	m, ok := e.Best[string(task)]
	if !ok || m.ID == "" {
		return Entry{}, false
	}
	return m, true
}

// Updated returns last_updated as written, without JSON quoting.
func (e *Entries) Updated() string {
	if e == nil {
		return ""
	}
	return strings.Trim(string(e.LastUpdated), `"`)
}

// LoadEntries reads the ranking cache at path into the lenient view.
func LoadEntries(path string) (*Entries, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Entries
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &doc, nil
}

// Save writes the ranking cache as indented JSON, replacing any previous file.
func Save(path string, doc types.BestModels) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
