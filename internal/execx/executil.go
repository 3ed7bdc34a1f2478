// Package execx runs external tools (npm, npx prisma) on behalf of commands.
package execx

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Cmd describes one subprocess invocation.
type Cmd struct {
	Path   string
	Args   []string
	Env    map[string]string // additional env vars
	Dir    string            // working directory
	Stream bool              // if true, echo output line by line to Stdout
	Stdout io.Writer         // defaults to os.Stdout
	Stderr io.Writer         // defaults to os.Stderr
}

func (c Cmd) String() string {
	return strings.TrimSpace(c.Path + " " + strings.Join(c.Args, " "))
}

// Result carries the captured output of a finished command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Combined returns stdout followed by stderr.
func (r Result) Combined() string { return r.Stdout + r.Stderr }

// ExitError reports a non-zero exit together with the captured output.
type ExitError struct {
	Cmd    string
	Result Result
	Err    error
}

func (e *ExitError) Error() string {
	tail := strings.TrimSpace(e.Result.Stderr)
	if len(tail) > 2048 {
		tail = tail[len(tail)-2048:]
	}
	if tail == "" {
		return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Cmd, e.Err, tail)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Runner abstracts subprocess execution so callers can be tested without npm.
type Runner interface {
	Run(ctx context.Context, c Cmd) (Result, error)
}

// OSRunner runs commands with os/exec. Output is both shown and captured.
type OSRunner struct{}

// Run executes c and waits for it. A non-zero exit returns *ExitError.
func (OSRunner) Run(ctx context.Context, c Cmd) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	// inherit environment
	cmd.Env = os.Environ()
	for k, v := range c.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	stdout := c.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := c.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	var outBuf, errBuf bytes.Buffer
	var res Result
	if c.Stream {
		outPipe, err := cmd.StdoutPipe()
		if err != nil {
			return res, err
		}
		errPipe, err := cmd.StderrPipe()
		if err != nil {
			return res, err
		}
		if err := cmd.Start(); err != nil {
			return res, fmt.Errorf("start %s: %w", c.Path, err)
		}
		done := make(chan struct{})
		go func() {
			stream(io.MultiWriter(stderr, &errBuf), errPipe)
			close(done)
		}()
		stream(io.MultiWriter(stdout, &outBuf), outPipe)
		<-done
		err = cmd.Wait()
		return finish(c, cmd, err, outBuf.String(), errBuf.String())
	}
	cmd.Stdout = io.MultiWriter(stdout, &outBuf)
	cmd.Stderr = io.MultiWriter(stderr, &errBuf)
	err := cmd.Run()
	return finish(c, cmd, err, outBuf.String(), errBuf.String())
}

func finish(c Cmd, cmd *exec.Cmd, err error, stdout, stderr string) (Result, error) {
	res := Result{Stdout: stdout, Stderr: stderr}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err == nil {
		return res, nil
	}
	var ee *exec.ExitError
	if !errors.As(err, &ee) && res.ExitCode == 0 {
		res.ExitCode = -1
	}
	return res, &ExitError{Cmd: c.String(), Result: res, Err: err}
}

// stream copies r to w line by line.
func stream(w io.Writer, r io.Reader) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		fmt.Fprintln(w, s.Text())
	}
}

// LookPath reports whether name is available in PATH.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
