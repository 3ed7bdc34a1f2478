// Package debugengine asks the AI for a fix of a failing file and applies it.
package debugengine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"autodevstack/internal/aiservice"
	"autodevstack/internal/common/fsutil"
	"autodevstack/internal/generator"
	"autodevstack/internal/prompts"
	"autodevstack/pkg/types"
)

// ErrNoFix means the reply contained no code to apply.
var ErrNoFix = errors.New("AI reply contains no code fix")

// Fix is the outcome of FixError.
type Fix struct {
	Suggestion string
	Code       string
	Applied    bool
	BackupPath string
	Model      string
}

// Engine wraps an AI caller.
type Engine struct {
	AI  aiservice.Caller
	Log zerolog.Logger
}

// New returns an Engine.
func New(ai aiservice.Caller, log zerolog.Logger) *Engine {
	return &Engine{AI: ai, Log: log}
}

// FixError reads targetFile and logFile (missing files read as empty), asks
// for a fix and, unless dryRun, replaces targetFile with the first fenced
// code block of the reply after copying the original to targetFile.bak.
func (e *Engine) FixError(ctx context.Context, logFile, targetFile string, dryRun bool) (*Fix, error) {
	code, err := fsutil.ReadOptional(targetFile)
	if err != nil {
		return nil, err
	}
	errLog, err := fsutil.ReadOptional(logFile)
	if err != nil {
		return nil, err
	}
	res := e.AI.Call(ctx, prompts.DebugFix(code, errLog), aiservice.Options{Task: types.TaskTextGeneration})
	if res.Degraded() {
		return nil, fmt.Errorf("fix request: %s", res.Content)
	}
	fix := &Fix{Suggestion: res.Content, Model: res.Model}
	body, fenced := generator.ExtractCode(res.Content)
	if !fenced {
		return fix, ErrNoFix
	}
	fix.Code = body
	if dryRun || fix.Code == "" {
		return fix, nil
	}
	if code != "" {
		fix.BackupPath = targetFile + ".bak"
		if err := os.WriteFile(fix.BackupPath, []byte(code), 0o644); err != nil {
			return fix, fmt.Errorf("backup %s: %w", targetFile, err)
		}
	}
	if err := fsutil.WriteFile(targetFile, fix.Code+"\n"); err != nil {
		return fix, err
	}
	fix.Applied = true
	e.Log.Info().Str("file", targetFile).Str("backup", fix.BackupPath).Msg("applied AI fix")
	return fix, nil
}
