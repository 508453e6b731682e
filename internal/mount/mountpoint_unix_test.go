//go:build unix

package mount

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestIsMountPoint(t *testing.T) {
	root, err := IsMountPoint("/")
	require.NoError(t, err)
	assert.True(t, root)

	dir := t.TempDir()
	plain, err := IsMountPoint(dir)
	require.NoError(t, err)
	assert.False(t, plain)

	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink("/", link))
	linked, err := IsMountPoint(link)
	require.NoError(t, err)
	assert.False(t, linked)

	_, err = IsMountPoint(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestIsMountPointStaleFuse(t *testing.T) {
	orig := lstat
	t.Cleanup(func() { lstat = orig })
	lstat = func(path string, st *unix.Stat_t) error {
		return &os.PathError{Op: "lstat", Path: path, Err: unix.ENOTCONN}
	}

	mounted, err := IsMountPoint("/mnt/stale")
	require.NoError(t, err)
	assert.True(t, mounted)
}

func TestUnmountStaleFuse(t *testing.T) {
	orig := lstat
	t.Cleanup(func() { lstat = orig })
	lstat = func(string, *unix.Stat_t) error { return unix.ENOTCONN }

	r := &fakeRunner{}
	c := newTestController(t, r)

	require.NoError(t, c.Unmount(context.Background(), "alpha"))
	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"fusermount", "-u", c.Path("alpha")}, r.calls[0].args)
}
