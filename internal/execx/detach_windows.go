//go:build windows

package execx

import "os/exec"

func detach(cmd *exec.Cmd) {}
