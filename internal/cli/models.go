package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"autodevstack/internal/common/fsutil"
	"autodevstack/internal/hub"
	"autodevstack/internal/ranking"
	"autodevstack/pkg/types"
)

type listOptions struct {
	Out   string
	Limit int
}

// nowFn is swapped in tests.
var nowFn = time.Now

func updateModels(ctx context.Context, g *Globals) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	if err := a.requireToken(); err != nil {
		return err
	}
	models, err := a.hub.ListModels(ctx)
	if hub.IsUnauthorized(err) {
		a.con.Warnf("the Hub rejected HF_TOKEN; check the token and its scopes")
	}
	if err != nil {
		return a.fail(fmt.Errorf("list models: %w", err))
	}
	crit := ranking.DefaultCriteria()
	crit.MinLikes = a.cfg.MinLikes
	doc := ranking.SelectBest(models, crit, nowFn().UTC())
	if err := ranking.Save(a.cfg.BestModelsPath, doc); err != nil {
		return a.fail(err)
	}
	a.log.Info().Int("models", len(models)).Int("tasks", len(doc.Best)).Msg("ranking updated")
	a.con.Infof("Best models saved to %s", a.cfg.BestModelsPath)
	for _, task := range ranking.Tasks(doc) {
		a.con.Println()
		a.con.Println("[" + task + "]")
		a.con.Println(doc.Best[task].Explain)
	}
	return nil
}

// modelLine renders one listing row: "id | pipeline | public/private".
func modelLine(m types.HubModel) string {
	tag := m.PipelineTag
	if tag == "" {
		tag = "-"
	}
	vis := "public"
	if m.Private {
		vis = "private"
	}
	return m.ID + " | " + tag + " | " + vis
}

func listModels(ctx context.Context, g *Globals, opts listOptions) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	if err := a.requireToken(); err != nil {
		return err
	}
	models, err := a.hub.ListModels(ctx)
	if hub.IsUnauthorized(err) {
		a.con.Warnf("the Hub rejected HF_TOKEN; check the token and its scopes")
	}
	if err != nil {
		return a.fail(fmt.Errorf("list models: %w", err))
	}
	lines := make([]string, len(models))
	for i, m := range models {
		lines[i] = modelLine(m)
	}
	total := fmt.Sprintf("Total models: %d", len(models))
	if opts.Out != "" {
		if err := fsutil.WriteFile(opts.Out, strings.Join(lines, "\n")+"\n\n"+total+"\n"); err != nil {
			return a.fail(err)
		}
	}
	limit := opts.Limit
	if limit < 0 || limit > len(lines) {
		limit = len(lines)
	}
	for _, l := range lines[:limit] {
		a.con.Println(l)
	}
	if rest := len(lines) - limit; rest > 0 {
		a.con.Println(fmt.Sprintf("... (%d more models, full list in %s)", rest, opts.Out))
	}
	a.con.Println()
	a.con.Println(total)
	return nil
}
