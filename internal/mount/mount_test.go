package mount

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/dukerupert/remote/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls []call
	err   error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, call{name: name, args: args})
	return f.err
}

func newTestController(t *testing.T, r Runner) *Controller {
	t.Helper()
	cfg := &config.Config{
		MountRoot: filepath.Join(t.TempDir(), "mnt"),
		Mount:     config.Tool{Command: "sshfs", Options: []string{"allow_other"}, Sudo: true},
		Unmount:   config.Tool{Command: "fusermount", Args: []string{"-u"}, Sudo: true},
	}
	return New(cfg, r)
}

func TestMount(t *testing.T) {
	r := &fakeRunner{}
	c := newTestController(t, r)

	require.NoError(t, c.Mount(context.Background(), "bob", "10.0.0.5", "alpha"))

	info, err := os.Stat(c.Path("alpha"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.Len(t, r.calls, 1)
	assert.Equal(t, "sudo", r.calls[0].name)
	assert.Equal(t, []string{"sshfs", "-o", "allow_other", "bob@10.0.0.5:", c.Path("alpha")}, r.calls[0].args)
}

func TestMountWithPort(t *testing.T) {
	r := &fakeRunner{}
	c := newTestController(t, r)

	require.NoError(t, c.Mount(context.Background(), "bob", "10.0.0.5:2222", "alpha"))
	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"sshfs", "-o", "allow_other", "-p", "2222", "bob@10.0.0.5:", c.Path("alpha")}, r.calls[0].args)
}

func TestMountRejectsOptionLikeLogin(t *testing.T) {
	r := &fakeRunner{}
	c := newTestController(t, r)

	err := c.Mount(context.Background(), "-oProxyCommand=touch /tmp/x", "host", "alpha")
	require.Error(t, err)
	assert.Empty(t, r.calls)
	assert.NoDirExists(t, c.Path("alpha"))
}

func TestMountTwiceReusesDirectory(t *testing.T) {
	r := &fakeRunner{}
	c := newTestController(t, r)

	require.NoError(t, c.Mount(context.Background(), "bob", "10.0.0.5", "alpha"))
	require.NoError(t, c.Mount(context.Background(), "bob", "10.0.0.5", "alpha"))
	assert.Len(t, r.calls, 2)
}

func TestMountWithoutSudo(t *testing.T) {
	r := &fakeRunner{}
	c := newTestController(t, r)
	c.Mounter = config.Tool{Command: "sshfs", Options: []string{"allow_other", "reconnect"}, Args: []string{"-C"}}

	require.NoError(t, c.Mount(context.Background(), "bob", "host", "alpha"))
	require.Len(t, r.calls, 1)
	assert.Equal(t, "sshfs", r.calls[0].name)
	assert.Equal(t, []string{"-o", "allow_other,reconnect", "-C", "bob@host:", c.Path("alpha")}, r.calls[0].args)
}

func TestMountToolExitCode(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	c := newTestController(t, &ExecRunner{})
	c.Mounter = config.Tool{Command: sh, Args: []string{"-c", "exit 3"}}

	err = c.Mount(context.Background(), "bob", "host", "alpha")
	var te *ToolError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 3, te.Code)
}

func TestMountToolMissing(t *testing.T) {
	c := newTestController(t, &ExecRunner{})
	c.Mounter = config.Tool{Command: "definitely-not-a-real-sshfs"}

	err := c.Mount(context.Background(), "bob", "host", "alpha")
	var te *ToolError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 1, te.Code)
}

func TestMountPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	parent := t.TempDir()
	require.NoError(t, os.Chmod(parent, 0o500))
	t.Cleanup(func() { os.Chmod(parent, 0o700) })

	r := &fakeRunner{}
	c := newTestController(t, r)
	c.Root = filepath.Join(parent, "mnt")

	err := c.Mount(context.Background(), "bob", "host", "alpha")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Empty(t, r.calls)
}

func TestUnmountNotMounted(t *testing.T) {
	r := &fakeRunner{}
	c := newTestController(t, r)

	// Missing directory.
	assert.ErrorIs(t, c.Unmount(context.Background(), "alpha"), ErrNotMounted)

	// Plain directory.
	require.NoError(t, os.MkdirAll(c.Path("alpha"), 0o755))
	assert.ErrorIs(t, c.Unmount(context.Background(), "alpha"), ErrNotMounted)
	assert.Empty(t, r.calls)
}

func TestUnmount(t *testing.T) {
	r := &fakeRunner{}
	c := newTestController(t, r)
	c.IsMounted = func(string) (bool, error) { return true, nil }

	require.NoError(t, c.Unmount(context.Background(), "alpha"))
	require.Len(t, r.calls, 1)
	assert.Equal(t, "sudo", r.calls[0].name)
	assert.Equal(t, []string{"fusermount", "-u", c.Path("alpha")}, r.calls[0].args)
}

func TestUnmountFailure(t *testing.T) {
	r := &fakeRunner{err: errors.New("device busy")}
	c := newTestController(t, r)
	c.IsMounted = func(string) (bool, error) { return true, nil }

	err := c.Unmount(context.Background(), "alpha")
	var te *ToolError
	require.True(t, errors.As(err, &te))
	assert.Contains(t, te.Error(), "sudo fusermount -u")
	assert.Contains(t, te.Error(), "device busy")
}
