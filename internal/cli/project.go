package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autodevstack/internal/debugengine"
	"autodevstack/internal/execx"
	"autodevstack/internal/generator"
	"autodevstack/internal/prisma"
	"autodevstack/internal/scaffold"
)

type createOptions struct {
	DB          string
	Frontend    string
	Backend     string
	Spec        string
	Name        string
	SkipMigrate bool
	NoInstall   bool
	NoStart     bool
}

type generateOptions struct {
	Name string
	Dir  string
}

// orchestrator wires the scaffold pipeline to the real npm/npx runner.
func (a *app) orchestrator(runner execx.Runner) *scaffold.Orchestrator {
	return scaffold.New(scaffold.Config{
		ProjectsDir:   a.cfg.ProjectsDir,
		AI:            a.ai,
		Generator:     generator.New(a.cfg.TemplatesDir, a.log.With().Str("component", "generator").Logger()),
		Prisma:        prisma.New(runner, a.cfg.DatabaseURL, a.log.With().Str("component", "prisma").Logger()),
		BackendPorts:  scaffold.Range{Start: a.cfg.BackendPortStart, End: a.cfg.BackendPortEnd},
		FrontendPorts: scaffold.Range{Start: a.cfg.FrontendPortStart, End: a.cfg.FrontendPortEnd},
		Logger:        a.log.With().Str("component", "scaffold").Logger(),
	})
}

func runCreate(ctx context.Context, g *Globals, opts createOptions) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	if err := a.requireToken(); err != nil {
		return err
	}
	if !opts.SkipMigrate && a.cfg.DatabaseURL != "" {
		if err := fnPreflight(ctx, a.cfg.DatabaseURL); err != nil {
			a.con.Warnf("database check failed, migration will likely fail: %v", err)
		}
	}
	orch := a.orchestrator(execx.OSRunner{})
	p, err := orch.RunCreate(ctx, scaffold.Options{
		DB:          opts.DB,
		Frontend:    opts.Frontend,
		Backend:     opts.Backend,
		Spec:        opts.Spec,
		ProjectName: opts.Name,
		SkipMigrate: opts.SkipMigrate,
	})
	if err != nil {
		if prisma.IsDrift(err) {
			a.con.Warnf("migration still failing after reset; check DATABASE_URL and the generated schema")
		}
		return a.fail(err)
	}
	a.con.Infof("Project %s created in %s (api port %d, web port %d, models: %v)", p.Name, p.Dir, p.BackendPort, p.FrontendPort, p.Models)
	if opts.NoInstall {
		return nil
	}
	return fnInstallProject(ctx, a, p.Dir, !opts.NoStart)
}

// installProject installs npm dependencies (failures are reported and
// ignored) and, when start is set, launches the project in the background.
func installProject(ctx context.Context, a *app, dir string, start bool) error {
	in := scaffold.NewInstaller(execx.OSRunner{}, a.log.With().Str("component", "npm").Logger())
	a.con.Infof("Installing dependencies in %s...", dir)
	if err := in.Install(ctx, dir); err != nil {
		a.con.Errorf("dependency install failed: %v", err)
	}
	if !start {
		return nil
	}
	a.con.Infof("Starting backend and frontend (npm run start) in %s...", dir)
	if err := in.Start(dir); err != nil {
		return a.fail(fmt.Errorf("start project: %w", err))
	}
	return nil
}

func preflight(ctx context.Context, databaseURL string) error {
	return prisma.Preflight(ctx, databaseURL, 5*time.Second)
}

func runGenerate(ctx context.Context, g *Globals, opts generateOptions) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	orch := a.orchestrator(execx.OSRunner{})
	dir := opts.Dir
	if dir == "" {
		if opts.Name == "" {
			return a.fail(errors.New("generate needs --name or --dir"))
		}
		if err := scaffold.ValidateName(opts.Name); err != nil {
			return a.fail(err)
		}
		dir = orch.ProjectDir(opts.Name)
	}
	p, err := orch.RunGenerate(ctx, dir)
	if err != nil {
		return a.fail(err)
	}
	a.con.Infof("Generated %d files for %v in %s", len(p.Files), p.Models, p.Dir)
	return nil
}

func runFix(ctx context.Context, g *Globals, logFile, targetFile string, dryRun bool) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	if err := a.requireToken(); err != nil {
		return err
	}
	eng := debugengine.New(a.ai, a.log.With().Str("component", "debug").Logger())
	fix, err := eng.FixError(ctx, logFile, targetFile, dryRun)
	if fix != nil {
		a.con.Infof("AI suggestion (%s):", fix.Model)
		a.con.Println(fix.Suggestion)
	}
	switch {
	case errors.Is(err, debugengine.ErrNoFix):
		a.con.Warnf("the reply has no code block; %s left unchanged", targetFile)
		return nil
	case err != nil:
		return a.fail(err)
	case fix.Applied:
		if fix.BackupPath != "" {
			a.con.Infof("Fix applied to %s (backup %s)", targetFile, fix.BackupPath)
		} else {
			a.con.Infof("Fix applied to %s", targetFile)
		}
	case dryRun:
		a.con.Infof("Dry run: %s left unchanged", targetFile)
	default:
		a.con.Warnf("the code block is empty; %s left unchanged", targetFile)
	}
	return nil
}
