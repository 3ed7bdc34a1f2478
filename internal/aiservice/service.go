// Package aiservice picks a task and backing model for a prompt and calls the
// Hugging Face inference router. Remote failures never propagate: they come
// back as a Result with role "system".
package aiservice

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"autodevstack/internal/common/fsutil"
	"autodevstack/internal/hub"
	"autodevstack/internal/ranking"
	"autodevstack/internal/registry"
	"autodevstack/pkg/types"
)

// DefaultRole names the assistant when the caller does not.
const DefaultRole = "AutoDevStack Assistant"

const projectIntro = "Project: AutoDevStack. A fullstack application generator " +
	"(PostgreSQL + Express + React + Prisma + Next.js + Cypress + CLI) with AI support, autotests and autofix."

// Inference is the subset of the hub client the service needs.
type Inference interface {
	ChatCompletion(ctx context.Context, req hub.ChatRequest) (*hub.ChatResponse, error)
	TextGeneration(ctx context.Context, model, provider, inputs string) (*hub.TextGenerationResponse, error)
	TextToImage(ctx context.Context, model, provider, inputs string) (*hub.ImageResponse, error)
}

// Caller is implemented by Service; consumers depend on it for stubbing.
type Caller interface {
	Call(ctx context.Context, prompt string, opts Options) Result
}

// Result is the outcome of Call.
type Result struct {
	Content  string
	Role     string
	Model    string
	Task     types.Task
	Provider string
	Image    *hub.ImageResponse
	// Err is the failure behind a degraded result.
	Err error
}

// Degraded reports whether the result carries an error instead of a reply.
func (r Result) Degraded() bool { return r.Role == "system" }

// API converts the result to its wire form.
func (r Result) API() types.AIResponse {
	out := types.AIResponse{
		Content:  r.Content,
		Role:     r.Role,
		Model:    r.Model,
		Task:     r.Task,
		Provider: r.Provider,
	}
	if r.Image != nil && len(r.Image.Data) > 0 {
		out.Image = base64.StdEncoding.EncodeToString(r.Image.Data)
	}
	return out
}

// Config wires a Service.
type Config struct {
	Token    string
	Client   Inference
	Selector Selector
	Registry *registry.Registry
	// WorkDir is where README.md is looked up for the default project context.
	WorkDir string
	Logger  zerolog.Logger
}

// Service is safe for concurrent use; it holds no mutable state.
type Service struct {
	token    string
	client   Inference
	selector Selector
	reg      *registry.Registry
	workDir  string
	log      zerolog.Logger
}

// New constructs a Service. A nil registry means registry.Default().
func New(cfg Config) *Service {
	reg := cfg.Registry
	if reg == nil {
		reg = registry.Default()
	}
	return &Service{
		token:    cfg.Token,
		client:   cfg.Client,
		selector: cfg.Selector,
		reg:      reg,
		workDir:  cfg.WorkDir,
		log:      cfg.Logger,
	}
}

// Select resolves task and model without calling out.
func (s *Service) Select(prompt string, opts Options) Selection {
	sel := s.selector.Select(prompt, opts)
	selectionsTotal.WithLabelValues(sel.Source).Inc()
	return sel
}

// BestModels returns the current ranking cache.
func (s *Service) BestModels() (*types.BestModels, error) {
	return ranking.Load(s.selector.CachePath)
}

// Call selects a task and model for prompt and performs the matching remote
// call. Failures are logged and returned as a degraded Result.
func (s *Service) Call(ctx context.Context, prompt string, opts Options) Result {
	if s.token == "" {
		s.log.Error().Msg(ErrMissingToken.Error())
		callsTotal.WithLabelValues("", outcomeNoToken).Inc()
		return Result{Content: "Error: " + ErrMissingToken.Error(), Role: "system", Err: ErrMissingToken}
	}
	sel := s.Select(prompt, opts)
	provider := ValidProvider(opts.Provider)
	s.log.Debug().Str("prompt", prompt).Str("task", string(sel.Task)).Str("model", sel.Model).
		Str("source", sel.Source).Msg("auto-select")
	s.log.Info().Msg(sel.Explain)

	projectContext := opts.ProjectContext
	if projectContext == "" {
		projectContext = s.defaultContext()
	}
	role := opts.Role
	if role == "" {
		role = DefaultRole
	}

	base := Result{Model: sel.Model, Task: sel.Task, Provider: provider}
	s.log.Info().Str("task", string(sel.Task)).Str("model", sel.Model).Str("provider", provider).Msg("calling inference")
	start := time.Now()
	res, err := s.dispatch(ctx, prompt, opts, sel, provider, projectContext, role)
	callDuration.WithLabelValues(string(sel.Task)).Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Error().Err(err).Str("model", sel.Model).Msg("inference request failed")
		callsTotal.WithLabelValues(string(sel.Task), outcomeError).Inc()
		base.Content = fmt.Sprintf("[AIService error]: %v", err)
		base.Role = "system"
		base.Err = err
		return base
	}
	callsTotal.WithLabelValues(string(sel.Task), outcomeOK).Inc()
	res.Model, res.Task, res.Provider = base.Model, base.Task, base.Provider
	return res
}

func (s *Service) dispatch(ctx context.Context, prompt string, opts Options, sel Selection, provider, projectContext, role string) (Result, error) {
	if s.client == nil {
		return Result{}, fmt.Errorf("no inference client configured")
	}
	switch {
	case s.reg.SupportsConversational(sel.Model):
		msgs := opts.Messages
		if len(msgs) == 0 {
			msgs = []types.Message{
				{Role: "system", Content: projectContext},
				{Role: "assistant", Content: assistantIntro(role)},
				{Role: "user", Content: prompt},
			}
		}
		resp, err := s.client.ChatCompletion(ctx, hub.ChatRequest{Model: sel.Model, Messages: msgs, Provider: provider})
		if err != nil {
			return Result{}, err
		}
		msg, _ := resp.FirstMessage()
		if msg.Role == "" {
			msg.Role = "assistant"
		}
		return Result{Content: msg.Content, Role: msg.Role}, nil
	case sel.Task == types.TaskTextToImage:
		inputs := opts.ImagePrompt
		if inputs == "" {
			inputs = prompt
		}
		img, err := s.client.TextToImage(ctx, sel.Model, provider, inputs)
		if err != nil {
			return Result{}, err
		}
		return Result{Content: "[image]", Role: "assistant", Image: img}, nil
	default:
		resp, err := s.client.TextGeneration(ctx, sel.Model, provider, projectContext+"\n\n"+prompt)
		if err != nil {
			return Result{}, err
		}
		return Result{Content: resp.GeneratedText, Role: "assistant"}, nil
	}
}

func (s *Service) defaultContext() string {
	readme, _ := fsutil.ReadOptional(filepath.Join(s.workDir, "README.md"))
	return projectIntro + "\n\nREADME:\n" + readme
}

func assistantIntro(role string) string {
	return "I am " + role + ", the manager and expert of the AutoDevStack project. " +
		"I know its architecture, capabilities and commands, and can drive generation, testing and autofix. " +
		"Ask questions or give tasks."
}
