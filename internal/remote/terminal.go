package remote

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
)

// Terminal hands the user's terminal over to the system ssh client.
type Terminal struct {
	Binary string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewTerminal returns a Terminal wired to the process's stdio.
func NewTerminal(binary string) *Terminal {
	if binary == "" {
		binary = "ssh"
	}
	return &Terminal{Binary: binary, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Handoff runs "<binary> login@address" in the foreground and returns when
// the session ends. A port in address becomes "-p port". The password is
// never passed on the command line.
func (t *Terminal) Handoff(ctx context.Context, login, address string) error {
	cmd := exec.CommandContext(ctx, t.Binary, sshArgs(login, address)...)
	cmd.Stdin = t.Stdin
	cmd.Stdout = t.Stdout
	cmd.Stderr = t.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ssh session to %s@%s: %w", login, address, err)
	}
	return nil
}

func sshArgs(login, address string) []string {
	if host, port, err := net.SplitHostPort(address); err == nil {
		return []string{"-p", port, "--", login + "@" + host}
	}
	return []string{"--", login + "@" + address}
}
