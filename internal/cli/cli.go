// Package cli implements the autodevstack command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Globals are the persistent flags shared by every command.
type Globals struct {
	ConfigPath string
	LogLevel   string
	Out        io.Writer
	Err        io.Writer
}

func (g *Globals) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Globals) errw() io.Writer {
	if g == nil || g.Err == nil {
		return os.Stderr
	}
	return g.Err
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: autodevstack [--config file] [--log-level info] <command>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  create [--spec text] [--name project] [--db postgres] [--frontend nextjs] [--backend express]")
	fmt.Fprintln(w, "  generate [--name project | --dir path]")
	fmt.Fprintln(w, "  fix <logFile> <targetFile> [--dry-run]")
	fmt.Fprintln(w, "  chat [--name project] [--model id] [--provider name]")
	fmt.Fprintln(w, "  update-models")
	fmt.Fprintln(w, "  list-models [--out models_list.txt] [--limit 20]")
	fmt.Fprintln(w, "  serve [--host 127.0.0.1] [--port-start 8080] [--port-end 8099]")
}

// Run executes args against a fresh command tree. It returns an error instead
// of exiting, enabling reuse from tests.
func Run(ctx context.Context, args []string, g *Globals) error {
	root := buildRootCmdWith(g)
	root.SetArgs(args)
	root.SetOut(g.out())
	root.SetErr(g.errw())
	return root.ExecuteContext(ctx)
}

// MainWithArgs is a testable variant of Main that accepts args explicitly.
// It returns 0 on success, 2 when no command is given and 1 on error.
func MainWithArgs(args []string) int {
	return mainWith(args, &Globals{})
}

func mainWith(args []string, g *Globals) int {
	for _, a := range args {
		if a == "-h" || a == "--help" || a == "help" {
			usage(g.out())
			return 0
		}
	}
	if len(args) == 0 {
		usage(g.errw())
		return 2
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := Run(ctx, args, g); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(g.errw(), err.Error())
		}
		return 1
	}
	return 0
}

// Main returns an exit code for use by cmd/autodevstack.
func Main() int { return MainWithArgs(os.Args[1:]) }
