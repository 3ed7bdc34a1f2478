package aiservice

import (
	"fmt"
	"regexp"

	"autodevstack/internal/ranking"
	"autodevstack/internal/registry"
	"autodevstack/pkg/types"
)

var (
	chatPattern  = regexp.MustCompile(`(?i)^(кто ты|ответь|чат|диалог|talk|chat|conversation|привет|создай|управляй|проект|русск|ru)`)
	imagePattern = regexp.MustCompile(`(?i)(картинк|image|рисуй|draw|photo|picture)`)
)

// Where a selected model came from.
const (
	SourceExplicit = "explicit"
	SourceCache    = "cache"
	SourceEnv      = "env"
	SourceDefault  = "default"
)

// Options are the per-call overrides accepted by Select and Call.
type Options struct {
	Task           types.Task
	Model          string
	Provider       string
	Messages       []types.Message
	ImagePrompt    string
	Role           string
	ProjectContext string
}

// Selection is the resolved task and model for a prompt.
type Selection struct {
	Task    types.Task
	Model   string
	Source  string
	Explain string
}

// Overrides are the per-task model ids taken from the environment
// (HF_MODEL, HF_MODEL_CHAT, HF_MODEL_IMAGE).
type Overrides struct {
	Text  string
	Chat  string
	Image string
}

func (o Overrides) forTask(task types.Task) string {
	switch task {
	case types.TaskChat:
		return o.Chat
	case types.TaskTextToImage:
		return o.Image
	default:
		return o.Text
	}
}

// Selector resolves tasks and models. The ranking cache is re-read on every
// call so a concurrent update-models run is picked up without a restart.
type Selector struct {
	CachePath string
	Overrides Overrides
}

// DetectTask resolves the task: explicit option, then chat words at the very
// start of the prompt or any caller messages (even an empty list), then image
// words or an image prompt, then text-generation.
func DetectTask(prompt string, opts Options) types.Task {
	if opts.Task != "" {
		return opts.Task
	}
	if opts.Messages != nil || chatPattern.MatchString(prompt) {
		return types.TaskChat
	}
	if opts.ImagePrompt != "" || imagePattern.MatchString(prompt) {
		return types.TaskTextToImage
	}
	return types.TaskTextGeneration
}

// Select resolves the task and then the model: explicit option, ranking
// cache, environment override, built-in default. It never fails; an
// unreadable or malformed cache counts as absent.
func (s Selector) Select(prompt string, opts Options) Selection {
	task := DetectTask(prompt, opts)
	if opts.Model != "" {
		return Selection{
			Task:    task,
			Model:   opts.Model,
			Source:  SourceExplicit,
			Explain: fmt.Sprintf("[AutoSelect] Using explicitly requested model for task '%s': %s", task, opts.Model),
		}
	}
	if s.CachePath != "" {
		if doc, err := ranking.LoadEntries(s.CachePath); err == nil {
			if best, ok := doc.Lookup(task); ok {
				return Selection{
					Task:   task,
					Model:  best.ID,
					Source: SourceCache,
					Explain: fmt.Sprintf("[AutoSelect] Selected model for task '%s': %s\n%s\n(Updated: %s)",
						task, best.ID, best.Explain, doc.Updated()),
				}
			}
		}
	}
	if m := s.Overrides.forTask(task); m != "" {
		return Selection{
			Task:    task,
			Model:   m,
			Source:  SourceEnv,
			Explain: fmt.Sprintf("[AutoSelect] Using configured default model for task '%s': %s", task, m),
		}
	}
	m := registry.DefaultModel(task)
	return Selection{
		Task:    task,
		Model:   m,
		Source:  SourceDefault,
		Explain: fmt.Sprintf("[AutoSelect] Using default model for task '%s': %s", task, m),
	}
}
