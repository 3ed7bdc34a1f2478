// Package scaffold creates and regenerates fullstack projects: directory
// layout, ports and env files, Prisma schema and migrations, generated
// routers, components and tests, package.json and entry points.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"autodevstack/internal/aiservice"
	"autodevstack/internal/common/fsutil"
	"autodevstack/internal/generator"
	"autodevstack/internal/ports"
	"autodevstack/internal/prisma"
)

// Layout lists the directories every project gets.
var Layout = []string{
	filepath.Join("src", "adapters"),
	filepath.Join("src", "components"),
	"prisma",
	"logs",
	"pages",
}

var (
	// ErrEmptySpec means create was called without a description.
	ErrEmptySpec = errors.New("spec is required")
	// ErrUnsupportedStack means a db/frontend/backend choice is not implemented.
	ErrUnsupportedStack = errors.New("unsupported stack")
	// ErrInvalidName rejects project names that would escape the projects dir.
	ErrInvalidName = errors.New("invalid project name")
	// ErrNoSchema means generate found no prisma/schema.prisma.
	ErrNoSchema = errors.New("project has no prisma/schema.prisma")
)

// Options select the stack and describe the project to create.
type Options struct {
	DB          string
	Frontend    string
	Backend     string
	Spec        string
	ProjectName string
	// SkipMigrate writes the schema but does not touch the database.
	SkipMigrate bool
}

// Range is a closed port interval.
type Range struct{ Start, End int }

// Migrator is the part of the Prisma adapter the orchestrator drives.
type Migrator interface {
	ResetMigrations(ctx context.Context, projectDir string)
	Migrate(ctx context.Context, projectDir string) error
}

// Config wires an Orchestrator.
type Config struct {
	ProjectsDir   string
	AI            aiservice.Caller
	Generator     *generator.Generator
	Prisma        Migrator
	BackendPorts  Range
	FrontendPorts Range
	Logger        zerolog.Logger
	// FindPort defaults to ports.FindFreePort.
	FindPort func(start, end int) (int, error)
	// Now defaults to time.Now; used for generated project names.
	Now func() time.Time
}

// Orchestrator runs the create and generate pipelines.
type Orchestrator struct {
	cfg Config
	log zerolog.Logger
}

// Project describes a created or regenerated project.
type Project struct {
	Name         string
	Dir          string
	BackendPort  int
	FrontendPort int
	Models       []string
	Files        []string
}

// New returns an Orchestrator, filling defaults in cfg.
func New(cfg Config) *Orchestrator {
	if cfg.FindPort == nil {
		cfg.FindPort = ports.FindFreePort
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ProjectsDir == "" {
		cfg.ProjectsDir = "projects"
	}
	return &Orchestrator{cfg: cfg, log: cfg.Logger}
}

// ProjectDir resolves name under the projects directory.
func (o *Orchestrator) ProjectDir(name string) string {
	return filepath.Join(o.cfg.ProjectsDir, name)
}

// DefaultName returns project-<unix millis>.
func (o *Orchestrator) DefaultName() string {
	return fmt.Sprintf("project-%d", o.cfg.Now().UnixMilli())
}

// ValidateName rejects empty names and names containing path elements.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func (opts *Options) normalize() error {
	if strings.TrimSpace(opts.Spec) == "" {
		return ErrEmptySpec
	}
	if opts.DB == "" {
		opts.DB = "postgres"
	}
	if opts.Frontend == "" {
		opts.Frontend = "nextjs"
	}
	if opts.Backend == "" {
		opts.Backend = "express"
	}
	switch {
	case opts.DB != "postgres" && opts.DB != "postgresql":
		return fmt.Errorf("%w: db %q", ErrUnsupportedStack, opts.DB)
	case opts.Frontend != "nextjs":
		return fmt.Errorf("%w: frontend %q", ErrUnsupportedStack, opts.Frontend)
	case opts.Backend != "express":
		return fmt.Errorf("%w: backend %q", ErrUnsupportedStack, opts.Backend)
	}
	return nil
}

// RunCreate builds a new project from opts.Spec.
func (o *Orchestrator) RunCreate(ctx context.Context, opts Options) (*Project, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	if opts.ProjectName == "" {
		opts.ProjectName = o.DefaultName()
	}
	if err := ValidateName(opts.ProjectName); err != nil {
		return nil, err
	}
	p := &Project{Name: opts.ProjectName, Dir: o.ProjectDir(opts.ProjectName)}
	if err := fsutil.EnsureDirs(p.Dir, Layout...); err != nil {
		return nil, err
	}

	backend, err := o.cfg.FindPort(o.cfg.BackendPorts.Start, o.cfg.BackendPorts.End)
	if err != nil {
		return nil, fmt.Errorf("backend port: %w", err)
	}
	frontend, err := o.cfg.FindPort(o.cfg.FrontendPorts.Start, o.cfg.FrontendPorts.End)
	if err != nil {
		return nil, fmt.Errorf("frontend port: %w", err)
	}
	if frontend == backend && backend < o.cfg.FrontendPorts.End {
		// The backend probe released its port, so the frontend scan can land on it.
		if frontend, err = o.cfg.FindPort(backend+1, o.cfg.FrontendPorts.End); err != nil {
			return nil, fmt.Errorf("frontend port: %w", err)
		}
	}
	p.BackendPort, p.FrontendPort = backend, frontend
	o.log.Info().Int("backend", backend).Int("frontend", frontend).Msg("ports selected")

	if err := o.write(p, filepath.Join(p.Dir, ".env"), fmt.Sprintf("PORT=%d\n", backend)); err != nil {
		return nil, err
	}
	if err := o.write(p, filepath.Join(p.Dir, "pages", ".env"), fmt.Sprintf("NEXT_PUBLIC_API_URL=http://localhost:%d\n", backend)); err != nil {
		return nil, err
	}

	schema, err := generator.GenerateSchema(ctx, o.cfg.AI, opts.Spec)
	if err != nil {
		return nil, err
	}
	schemaPath, err := prisma.WriteSchema(schema, p.Dir)
	if err != nil {
		return nil, err
	}
	p.Files = append(p.Files, schemaPath)

	if !opts.SkipMigrate && o.cfg.Prisma != nil {
		o.cfg.Prisma.ResetMigrations(ctx, p.Dir)
		if err := o.cfg.Prisma.Migrate(ctx, p.Dir); err != nil {
			return p, err
		}
	}

	if err := o.generate(p, schema); err != nil {
		return p, err
	}
	if err := WritePackageJSON(p.Dir, p.Name, p.FrontendPort); err != nil {
		return p, err
	}
	p.Files = append(p.Files, filepath.Join(p.Dir, "package.json"))
	for _, write := range []func(string) (string, error){o.cfg.Generator.WriteServer, o.cfg.Generator.WriteIndexPage} {
		path, err := write(p.Dir)
		if err != nil {
			return p, err
		}
		p.Files = append(p.Files, path)
	}
	o.log.Info().Str("dir", p.Dir).Int("files", len(p.Files)).Msg("project created")
	return p, nil
}

// RunGenerate regenerates routers, components and tests of an existing
// project from its prisma/schema.prisma.
func (o *Orchestrator) RunGenerate(ctx context.Context, projectDir string) (*Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	schema, err := fsutil.ReadOptional(prisma.SchemaPath(projectDir))
	if err != nil {
		return nil, err
	}
	if schema == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoSchema, projectDir)
	}
	p := &Project{Name: filepath.Base(projectDir), Dir: projectDir}
	if err := fsutil.EnsureDirs(projectDir, Layout...); err != nil {
		return nil, err
	}
	if err := o.generate(p, schema); err != nil {
		return p, err
	}
	return p, nil
}

// generate emits per-model sources plus the router loader.
func (o *Orchestrator) generate(p *Project, schema string) error {
	g := o.cfg.Generator
	p.Models = generator.ParseModels(schema)
	if len(p.Models) == 0 {
		o.log.Warn().Msg("schema declares no models; nothing to generate")
	}
	files, err := g.GenerateCrud(schema, p.Dir)
	if err != nil {
		return err
	}
	p.Files = append(p.Files, files...)
	idx, err := g.WriteAdaptersIndex(p.Dir)
	if err != nil {
		return err
	}
	p.Files = append(p.Files, idx)
	for _, step := range []func(string, string) ([]string, error){g.GenerateComponents, g.GenerateTests} {
		files, err := step(schema, p.Dir)
		if err != nil {
			return err
		}
		p.Files = append(p.Files, files...)
	}
	return nil
}

func (o *Orchestrator) write(p *Project, path, content string) error {
	if err := fsutil.WriteFile(path, content); err != nil {
		return err
	}
	p.Files = append(p.Files, path)
	return nil
}
