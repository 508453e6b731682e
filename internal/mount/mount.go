// Package mount mounts saved hosts under a fixed root with sshfs and
// unmounts them with fusermount, both run as child processes.
package mount

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dukerupert/remote/internal/config"
)

// ErrNotMounted is returned by Unmount when the path is not an active mount.
var ErrNotMounted = errors.New("mount point does not exist or is not mounted")

// ToolError reports a mount or unmount utility that failed to run or exited
// non-zero.
type ToolError struct {
	Command string
	Code    int
	Err     error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Runner starts a child process and waits for it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with the given stdio.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner attached to the process's terminal, so sudo
// and sshfs can prompt.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

// Controller derives mount paths from connection names and drives the
// external utilities.
type Controller struct {
	Root    string
	Mounter config.Tool
	Umount  config.Tool
	Runner  Runner

	// IsMounted reports whether path is an active mount point.
	IsMounted func(path string) (bool, error)
}

// New returns a Controller configured from cfg.
func New(cfg *config.Config, r Runner) *Controller {
	return &Controller{
		Root:      cfg.MountRoot,
		Mounter:   cfg.Mount,
		Umount:    cfg.Unmount,
		Runner:    r,
		IsMounted: IsMountPoint,
	}
}

// Path returns the mount point for name.
func (c *Controller) Path(name string) string {
	return filepath.Join(c.Root, name)
}

// Mount creates the mount point if needed and mounts login@address: there.
// A port in address is passed as "-p port".
// Running it again for the same name reuses the directory and invokes the
// utility again.
func (c *Controller) Mount(ctx context.Context, login, address, name string) error {
	if strings.HasPrefix(login, "-") || strings.HasPrefix(address, "-") {
		return fmt.Errorf("refusing to mount %s@%s: login and address must not start with '-'", login, address)
	}
	path := c.Path(name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("permission denied: unable to create %s, try running with sudo: %w", path, err)
		}
		return fmt.Errorf("creating mount point %s: %w", path, err)
	}

	var args []string
	if len(c.Mounter.Options) > 0 {
		args = append(args, "-o", strings.Join(c.Mounter.Options, ","))
	}
	args = append(args, c.Mounter.Args...)
	if host, port, err := net.SplitHostPort(address); err == nil {
		args = append(args, "-p", port)
		address = host
	}
	args = append(args, login+"@"+address+":", path)
	return c.run(ctx, c.Mounter, args)
}

// Unmount unmounts the mount point for name. It returns ErrNotMounted, and
// runs nothing, when the path is not an active mount.
func (c *Controller) Unmount(ctx context.Context, name string) error {
	path := c.Path(name)
	check := c.IsMounted
	if check == nil {
		check = IsMountPoint
	}
	mounted, err := check(path)
	if err != nil || !mounted {
		return ErrNotMounted
	}

	args := append(append([]string{}, c.Umount.Args...), path)
	return c.run(ctx, c.Umount, args)
}

func (c *Controller) run(ctx context.Context, tool config.Tool, args []string) error {
	name := tool.Command
	if tool.Sudo {
		args = append([]string{name}, args...)
		name = "sudo"
	}

	if err := c.Runner.Run(ctx, name, args...); err != nil {
		te := &ToolError{
			Command: strings.Join(append([]string{name}, args...), " "),
			Code:    1,
			Err:     err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			te.Code = exitErr.ExitCode()
		}
		return te
	}
	return nil
}
