package scaffold

import (
	"context"
	"io"
	"os/exec"

	"github.com/rs/zerolog"

	"autodevstack/internal/execx"
)

// Installer installs npm dependencies and launches a project.
type Installer struct {
	Runner execx.Runner
	NPM    string
	Log    zerolog.Logger
	Stdout io.Writer
	Stderr io.Writer
	// StartDetached defaults to execx.StartDetached.
	StartDetached func(execx.Cmd) (*exec.Cmd, error)
}

// NewInstaller returns an Installer using runner and npm from PATH.
func NewInstaller(runner execx.Runner, log zerolog.Logger) *Installer {
	return &Installer{Runner: runner, NPM: "npm", Log: log, StartDetached: execx.StartDetached}
}

// Install runs `npm install concurrently` then `npm install` in projectDir.
// It stops at the first failure and returns it; callers treat it as a warning.
func (in *Installer) Install(ctx context.Context, projectDir string) error {
	for _, args := range [][]string{{"install", "concurrently"}, {"install"}} {
		c := execx.Cmd{Path: in.NPM, Args: args, Dir: projectDir, Stdout: in.Stdout, Stderr: in.Stderr}
		in.Log.Debug().Str("cmd", c.String()).Msg("exec")
		if _, err := in.Runner.Run(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// Start adds the start script and launches `npm run start` detached.
func (in *Installer) Start(projectDir string) error {
	if err := SetStartScript(projectDir); err != nil {
		return err
	}
	start := in.StartDetached
	if start == nil {
		start = execx.StartDetached
	}
	if _, err := start(execx.Cmd{Path: in.NPM, Args: []string{"run", "start"}, Dir: projectDir}); err != nil {
		return err
	}
	in.Log.Info().Str("dir", projectDir).Msg("started npm run start")
	return nil
}
