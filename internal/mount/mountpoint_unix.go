//go:build unix

package mount

import (
	"errors"

	"golang.org/x/sys/unix"
)

var lstat = unix.Lstat

// IsMountPoint reports whether path is the root of a mounted filesystem: it
// sits on a different device than its parent, or is its own parent.
// Symlinks are never mount points. A FUSE mount whose server has gone away
// fails with ENOTCONN and still counts as mounted, so it can be unmounted.
func IsMountPoint(path string) (bool, error) {
	var st, parent unix.Stat_t
	if err := lstat(path, &st); err != nil {
		if errors.Is(err, unix.ENOTCONN) {
			return true, nil
		}
		return false, err
	}
	if st.Mode&unix.S_IFMT == unix.S_IFLNK {
		return false, nil
	}
	if err := lstat(path+"/..", &parent); err != nil {
		return false, err
	}
	if st.Dev != parent.Dev {
		return true, nil
	}
	return st.Ino == parent.Ino, nil
}
