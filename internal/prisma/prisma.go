// Package prisma writes schema.prisma and drives the Prisma migration CLI.
package prisma

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"autodevstack/internal/common/fsutil"
	"autodevstack/internal/execx"
)

// Header is prepended to schemas that do not declare a generator.
const Header = `generator client {
  provider = "prisma-client-js"
}

datasource db {
  provider = "postgresql"
  url      = env("DATABASE_URL")
}
`

var (
	migrateArgs = []string{"prisma", "migrate", "dev", "--name", "init"}
	resetArgs   = []string{"prisma", "migrate", "reset", "--force"}
)

// SchemaPath is where the schema of a project lives.
func SchemaPath(projectDir string) string {
	return filepath.Join(projectDir, "prisma", "schema.prisma")
}

// WriteSchema writes prisma/schema.prisma under projectDir, adding Header
// unless the schema already declares `generator client`.
func WriteSchema(schema, projectDir string) (string, error) {
	content := strings.TrimSpace(schema)
	if !strings.Contains(content, "generator client") {
		content = Header + "\n" + content
	}
	p := SchemaPath(projectDir)
	if err := fsutil.WriteFile(p, content); err != nil {
		return "", err
	}
	return p, nil
}

// IsDriftOutput reports whether migration output asks for a reset.
func IsDriftOutput(out string) bool {
	return strings.Contains(out, "Drift detected") || strings.Contains(out, "reset")
}

// Adapter runs `npx prisma` in a project's prisma directory.
type Adapter struct {
	Runner      execx.Runner
	NPX         string
	DatabaseURL string
	Log         zerolog.Logger
	// Stdout and Stderr receive the CLI output; nil means the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Adapter using runner.
func New(runner execx.Runner, databaseURL string, log zerolog.Logger) *Adapter {
	return &Adapter{Runner: runner, NPX: "npx", DatabaseURL: databaseURL, Log: log}
}

// ResetMigrations drops the database and migration history. Failures are
// logged and otherwise ignored.
func (a *Adapter) ResetMigrations(ctx context.Context, projectDir string) {
	if _, err := a.run(ctx, projectDir, resetArgs); err != nil {
		resetsTotal.WithLabelValues("error").Inc()
		a.Log.Warn().Err(err).Msg("prisma migrate reset failed")
		return
	}
	resetsTotal.WithLabelValues("ok").Inc()
	a.Log.Info().Msg("reset migrations and database (prisma migrate reset --force)")
}

// Migrate runs `prisma migrate dev --name init`. When the failure output
// reports drift it resets the database and retries exactly once.
func (a *Adapter) Migrate(ctx context.Context, projectDir string) error {
	res, err := a.run(ctx, projectDir, migrateArgs)
	if err == nil {
		migrationsTotal.WithLabelValues("ok").Inc()
		return nil
	}
	if !IsDriftOutput(res.Combined() + err.Error()) {
		migrationsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("prisma migrate: %w", err)
	}
	a.Log.Warn().Msg("drift detected or reset required; running prisma migrate reset")
	if _, rerr := a.run(ctx, projectDir, resetArgs); rerr != nil {
		migrationsTotal.WithLabelValues("failed").Inc()
		return &DriftError{Err: err, ResetErr: rerr}
	}
	if _, rerr := a.run(ctx, projectDir, migrateArgs); rerr != nil {
		migrationsTotal.WithLabelValues("failed").Inc()
		return &DriftError{Err: rerr}
	}
	migrationsTotal.WithLabelValues("reset_retry_ok").Inc()
	return nil
}

func (a *Adapter) run(ctx context.Context, projectDir string, args []string) (execx.Result, error) {
	c := execx.Cmd{
		Path:   a.NPX,
		Args:   args,
		Dir:    filepath.Join(projectDir, "prisma"),
		Stdout: a.Stdout,
		Stderr: a.Stderr,
	}
	if a.DatabaseURL != "" {
		c.Env = map[string]string{"DATABASE_URL": a.DatabaseURL}
	}
	a.Log.Debug().Str("cmd", c.String()).Str("dir", c.Dir).Msg("exec")
	return a.Runner.Run(ctx, c)
}

// DriftError is returned when migrating still fails after the automatic
// reset-and-retry.
type DriftError struct {
	Err      error
	ResetErr error
}

func (e *DriftError) Error() string {
	if e.ResetErr != nil {
		return fmt.Sprintf("prisma migrate: drift reset failed: %v (migrate: %v)", e.ResetErr, e.Err)
	}
	return fmt.Sprintf("prisma migrate: retry after reset failed: %v", e.Err)
}

func (e *DriftError) Unwrap() error { return e.Err }

// IsDrift reports whether err is a *DriftError.
func IsDrift(err error) bool {
	var de *DriftError
	return errors.As(err, &de)
}
