// Package console prints human-facing status lines for CLI commands.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	tagStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	warnStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	errStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Printer writes tagged lines, e.g. "[autodevstack] Project created".
// Nil writers fall back to stdout and stderr.
type Printer struct {
	Out io.Writer
	Err io.Writer
	Tag string
}

func (p *Printer) Infof(format string, a ...any) {
	fmt.Fprintf(p.out(), "%s %s\n", tagStyle.Render("["+p.Tag+"]"), fmt.Sprintf(format, a...))
}

func (p *Printer) Warnf(format string, a ...any) {
	fmt.Fprintf(p.errw(), "%s %s\n", warnStyle.Render("["+p.Tag+"][WARN]"), fmt.Sprintf(format, a...))
}

func (p *Printer) Errorf(format string, a ...any) {
	fmt.Fprintf(p.errw(), "%s %s\n", errStyle.Render("["+p.Tag+"][ERR]"), fmt.Sprintf(format, a...))
}

// Println writes a raw line to the output stream.
func (p *Printer) Println(a ...any) { fmt.Fprintln(p.out(), a...) }

func (p *Printer) out() io.Writer {
	if p == nil || p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

func (p *Printer) errw() io.Writer {
	if p == nil || p.Err == nil {
		return os.Stderr
	}
	return p.Err
}
