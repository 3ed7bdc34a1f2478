// Package registry knows which tasks a backing model supports.
package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"autodevstack/internal/common/fsutil"
	"autodevstack/pkg/types"
)

// Hardcoded fallback model ids, one per task.
const (
	DefaultChatModel  = "deepseek-ai/DeepSeek-V3-0324"
	DefaultTextModel  = "deepseek-ai/DeepSeek-V3-0324"
	DefaultImageModel = "black-forest-labs/FLUX.1-dev"
)

// Entry maps a model id to the task names it can serve.
type Entry struct {
	Model       string   `yaml:"model" json:"model"`
	Tasks       []string `yaml:"tasks" json:"tasks"`
	DefaultTask string   `yaml:"default_task" json:"default_task"`
}

// Supports reports whether the entry lists task.
func (e Entry) Supports(task string) bool {
	for _, t := range e.Tasks {
		if t == task {
			return true
		}
	}
	return false
}

// Registry is an ordered set of known models.
type Registry struct {
	entries []Entry
}

// Default returns the built-in registry.
func Default() *Registry {
	return &Registry{entries: []Entry{
		{Model: DefaultChatModel, Tasks: []string{"chat", "conversational", "text-generation"}, DefaultTask: "chat"},
		{Model: DefaultImageModel, Tasks: []string{"text-to-image"}, DefaultTask: "text-to-image"},
	}}
}

// Lookup finds the entry for model.
func (r *Registry) Lookup(model string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	for _, e := range r.entries {
		if e.Model == model {
			return e, true
		}
	}
	return Entry{}, false
}

// SupportsConversational reports whether model only speaks the chat-completion
// protocol; such models are called through chat completion for any task.
func (r *Registry) SupportsConversational(model string) bool {
	e, ok := r.Lookup(model)
	return ok && e.Supports("chat") && e.Supports("conversational") && len(e.Tasks) >= 2
}

// Entries returns a copy of the registry contents.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Add inserts or replaces an entry.
func (r *Registry) Add(e Entry) {
	for i := range r.entries {
		if r.entries[i].Model == e.Model {
			r.entries[i] = e
			return
		}
	}
	r.entries = append(r.entries, e)
}

// DefaultModel returns the hardcoded fallback for task.
func DefaultModel(task types.Task) string {
	switch task {
	case types.TaskChat:
		return DefaultChatModel
	case types.TaskTextToImage:
		return DefaultImageModel
	default:
		return DefaultTextModel
	}
}

// LoadFile merges entries from a YAML (or JSON) list into r.
// A missing file is not an error.
func (r *Registry) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read registry: %w", err)
	}
	var extra []Entry
	if err := yaml.Unmarshal(b, &extra); err != nil {
		return fmt.Errorf("parse registry %s: %w", path, err)
	}
	for _, e := range extra {
		if strings.TrimSpace(e.Model) == "" {
			continue
		}
		r.Add(e)
	}
	return nil
}
