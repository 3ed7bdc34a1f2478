package execx

import (
	"fmt"
	"os"
	"os/exec"
)

// StartDetached launches c in its own process group with output discarded and
// returns without waiting. The process outlives the caller.
func StartDetached(c Cmd) (*exec.Cmd, error) {
	cmd := exec.Command(c.Path, c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	cmd.Env = os.Environ()
	for k, v := range c.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", c, err)
	}
	// Release so the child is not reaped by us and keeps running.
	if err := cmd.Process.Release(); err != nil {
		return cmd, err
	}
	return cmd, nil
}
