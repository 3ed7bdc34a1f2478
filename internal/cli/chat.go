package cli

import (
	"context"
	"io"
	"os"

	"autodevstack/internal/aiservice"
	"autodevstack/internal/chat"
	"autodevstack/internal/common/fsutil"
	"autodevstack/internal/scaffold"
	"autodevstack/pkg/types"
)

type chatOptions struct {
	Name     string
	Model    string
	Provider string
	Plain    bool
}

// chatInput is swapped in tests.
var chatInput = func() io.Reader { return os.Stdin }

func runChat(ctx context.Context, g *Globals, opts chatOptions) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	if err := a.requireToken(); err != nil {
		return err
	}
	orch := a.orchestrator(nil)
	name := opts.Name
	if name == "" {
		name = orch.DefaultName()
	}
	if err := scaffold.ValidateName(name); err != nil {
		return a.fail(err)
	}
	dir := orch.ProjectDir(name)
	if err := fsutil.EnsureDirs(dir, scaffold.Layout...); err != nil {
		return a.fail(err)
	}

	model := opts.Model
	if model == "" {
		sel := a.ai.Select("", aiservice.Options{Task: types.TaskChat})
		model = sel.Model
		a.log.Debug().Str("model", model).Str("source", sel.Source).Msg("chat model selected")
	}
	provider := opts.Provider
	if provider == "" {
		provider = a.cfg.Provider
	}
	cfg := chat.Config{
		AI:         a.ai,
		Model:      model,
		Provider:   provider,
		ProjectDir: dir,
		In:         chatInput(),
		Out:        g.out(),
		Log:        a.log.With().Str("component", "chat").Logger(),
	}
	if !opts.Plain {
		cfg.Render = chat.GlamourRenderer(100)
	}
	s := chat.NewSession(cfg)
	a.log.Debug().Str("session", s.ID).Str("dir", dir).Msg("chat started")
	if err := s.Run(ctx); err != nil && ctx.Err() == nil {
		return a.fail(err)
	}
	return nil
}
