// Package chat is the interactive line-oriented chat loop bound to a project.
package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"autodevstack/internal/aiservice"
	"autodevstack/pkg/types"
)

// HistoryFile is the transcript kept in the project directory.
const HistoryFile = "chat_history.txt"

const systemContext = "Project: AutoDevStack. A fullstack application generator " +
	"(PostgreSQL + Express + React + Prisma + Next.js + Cypress + CLI) with AI support, autotests and autofix."

const assistantIntro = "I am the manager and expert of the AutoDevStack project. I know its architecture, " +
	"capabilities and commands, and can drive generation, testing and autofix. Ask questions or give tasks."

// Config wires a Session.
type Config struct {
	AI         aiservice.Caller
	Model      string
	Provider   string
	ProjectDir string
	In         io.Reader
	Out        io.Writer
	// Render formats replies for the terminal; nil prints them verbatim.
	Render func(string) (string, error)
	Log    zerolog.Logger
}

// Session holds the running conversation.
type Session struct {
	ID       string
	cfg      Config
	messages []types.Message
}

// NewSession seeds the history with the system context and assistant intro.
func NewSession(cfg Config) *Session {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	return &Session{
		ID:  uuid.NewString(),
		cfg: cfg,
		messages: []types.Message{
			{Role: "system", Content: systemContext},
			{Role: "assistant", Content: assistantIntro},
		},
	}
}

// Messages returns a copy of the conversation so far.
func (s *Session) Messages() []types.Message {
	return append([]types.Message(nil), s.messages...)
}

// GlamourRenderer returns a markdown renderer for terminals.
func GlamourRenderer(width int) func(string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return nil
	}
	return r.Render
}

// Run reads prompts until "exit", EOF or ctx cancellation. Failed turns are
// reported and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		sc := bufio.NewScanner(s.cfg.In)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		readErr <- sc.Err()
	}()

	fmt.Fprintf(s.cfg.Out, "[%s] Type a request (exit to quit):\n", filepath.Base(s.cfg.ProjectDir))
	for {
		fmt.Fprint(s.cfg.Out, "> ")
		var q string
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.cfg.Out)
			return ctx.Err()
		case err := <-readErr:
			fmt.Fprintln(s.cfg.Out)
			return err
		case q = <-lines:
		}
		if strings.EqualFold(strings.TrimSpace(q), "exit") {
			return nil
		}
		if strings.TrimSpace(q) == "" {
			continue
		}
		s.turn(ctx, q)
	}
}

func (s *Session) turn(ctx context.Context, q string) {
	s.messages = append(s.messages, types.Message{Role: "user", Content: q})
	s.appendHistory("USER: " + q + "\n")
	res := s.cfg.AI.Call(ctx, q, aiservice.Options{
		Task:     types.TaskChat,
		Model:    s.cfg.Model,
		Provider: s.cfg.Provider,
		Messages: s.Messages(),
	})
	if res.Degraded() {
		// Drop the unanswered turn so the next request keeps user/assistant alternation.
		s.messages = s.messages[:len(s.messages)-1]
		s.cfg.Log.Error().Str("session", s.ID).Msg(res.Content)
		fmt.Fprintf(s.cfg.Out, "[error] %s\n", res.Content)
		return
	}
	msg := types.Message{Role: res.Role, Content: res.Content}
	s.messages = append(s.messages, msg)
	b, _ := json.MarshalIndent(msg, "", "  ")
	s.appendHistory("AI: " + string(b) + "\n")

	body := res.Content
	if s.cfg.Render != nil {
		if out, err := s.cfg.Render(body); err == nil {
			body = out
		}
	}
	fmt.Fprintf(s.cfg.Out, "[%s] (%s):\n%s\n", msg.Role, res.Model, body)
}

func (s *Session) appendHistory(line string) {
	if s.cfg.ProjectDir == "" {
		return
	}
	f, err := os.OpenFile(filepath.Join(s.cfg.ProjectDir, HistoryFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		s.cfg.Log.Warn().Err(err).Msg("chat history not written")
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		s.cfg.Log.Warn().Err(err).Msg("chat history not written")
	}
}
