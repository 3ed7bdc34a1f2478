package types

import "time"

// Task is the kind of remote inference operation being requested.
type Task string

const (
	TaskChat           Task = "chat"
	TaskTextGeneration Task = "text-generation"
	TaskTextToImage    Task = "text-to-image"
)

// Valid reports whether t is one of the known task categories.
func (t Task) Valid() bool {
	switch t {
	case TaskChat, TaskTextGeneration, TaskTextToImage:
		return true
	}
	return false
}

// Message is a single chat turn exchanged with a conversational model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HubModel is the subset of a Hugging Face Hub model listing used for ranking.
type HubModel struct {
	ID           string    `json:"id"`
	PipelineTag  string    `json:"pipeline_tag,omitempty"`
	Likes        int       `json:"likes"`
	Downloads    int       `json:"downloads"`
	LastModified time.Time `json:"lastModified"`
	Private      bool      `json:"private"`
	// Gated is false or a string ("auto", "manual") on the Hub; any truthy value counts.
	Gated      GatedFlag `json:"gated"`
	Deprecated bool      `json:"deprecated,omitempty"`
	SafeTags   []string  `json:"safetags,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
}

// ModelMeta is the provenance recorded next to a ranked model.
type ModelMeta struct {
	Likes        int       `json:"likes"`
	Downloads    int       `json:"downloads"`
	LastModified time.Time `json:"lastModified"`
	Private      bool      `json:"private"`
	Gated        bool      `json:"gated"`
	Deprecated   bool      `json:"deprecated"`
}

// RankedModel is the best known model for one task.
type RankedModel struct {
	ID      string    `json:"id"`
	Explain string    `json:"explain"`
	Meta    ModelMeta `json:"meta"`
}

// BestModels is the persisted ranking cache (best_models.json).
type BestModels struct {
	LastUpdated time.Time              `json:"last_updated"`
	Best        map[string]RankedModel `json:"best"`
}

// Lookup returns the ranked model for task, if any.
func (b *BestModels) Lookup(task Task) (RankedModel, bool) {
	if b == nil || b.Best == nil {
		return RankedModel{}, false
	}
	m, ok := b.Best[string(task)]
	if !ok || m.ID == "" {
		return RankedModel{}, false
	}
	return m, true
}
