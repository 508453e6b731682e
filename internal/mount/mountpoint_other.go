//go:build !unix

package mount

// IsMountPoint always reports false where sshfs mounts are not supported.
func IsMountPoint(path string) (bool, error) {
	return false, nil
}
