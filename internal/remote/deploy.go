package remote

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// ErrKeyNotFound is returned when the local key file does not exist.
var ErrKeyNotFound = errors.New("SSH key not found")

// DefaultStagingDir is where public keys are uploaded before being appended
// to authorized_keys.
const DefaultStagingDir = "/tmp"

var prepareCommands = []string{
	"mkdir -p ~/.ssh",
	"chmod 700 ~/.ssh",
	"touch ~/.ssh/authorized_keys",
	"chmod 600 ~/.ssh/authorized_keys",
}

// Service runs the connectivity check and key deployment against a host.
type Service struct {
	Timeout    time.Duration
	StagingDir string
}

// NewService returns a Service with the given connect timeout.
func NewService(timeout time.Duration) *Service {
	return &Service{Timeout: timeout, StagingDir: DefaultStagingDir}
}

// Check authenticates against t and disconnects.
func (s *Service) Check(ctx context.Context, t Target) error {
	conn, err := Dial(ctx, t, s.Timeout)
	if err != nil {
		return err
	}
	return conn.Close()
}

// DeployKey appends the public key at keyPath to the remote user's
// authorized_keys, creating ~/.ssh with the usual permissions. A key that is
// already present is not appended twice.
func (s *Service) DeployKey(ctx context.Context, t Target, keyPath string) error {
	keyFile, err := PublicKeyFile(keyPath)
	if err != nil {
		return err
	}

	conn, err := Dial(ctx, t, s.Timeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, c := range prepareCommands {
		if err := conn.Run(c); err != nil {
			return err
		}
	}

	dir := s.StagingDir
	if dir == "" {
		dir = DefaultStagingDir
	}
	staged := path.Join(dir, fmt.Sprintf("remote-key-%d.pub", time.Now().UnixNano()))
	if err := conn.Upload(keyFile, staged); err != nil {
		return err
	}

	return conn.Run(appendCommand(staged))
}

// appendCommand adds the staged key to authorized_keys unless an identical
// line exists, then removes the staged file whatever happened. A missing
// trailing newline on either file is supplied so keys never share a line.
func appendCommand(staged string) string {
	return "k=" + shellQuote(staged) + `; f="$HOME/.ssh/authorized_keys"; ` +
		`if ! grep -qxF -f "$k" "$f"; then ` +
		`if [ -s "$f" ] && [ -n "$(tail -c 1 "$f")" ]; then echo >> "$f"; fi; ` +
		`cat "$k" >> "$f" && if [ -n "$(tail -c 1 "$k")" ]; then echo >> "$f"; fi; ` +
		`fi && chmod 600 "$f"; rc=$?; rm -f "$k"; exit $rc`
}

// PublicKeyFile returns the path of a valid public key for keyPath. Given a
// private key with a sibling .pub file, the sibling is returned; a private
// key is never uploaded.
func PublicKeyFile(keyPath string) (string, error) {
	data, err := os.ReadFile(keyPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w at %s", ErrKeyNotFound, keyPath)
		}
		return "", fmt.Errorf("reading %s: %w", keyPath, err)
	}
	if _, _, _, _, err := ssh.ParseAuthorizedKey(data); err == nil {
		return keyPath, nil
	}

	if !strings.HasSuffix(keyPath, ".pub") {
		sibling := keyPath + ".pub"
		if data, err := os.ReadFile(sibling); err == nil {
			if _, _, _, _, err := ssh.ParseAuthorizedKey(data); err == nil {
				return sibling, nil
			}
		}
	}
	return "", fmt.Errorf("%s is not an SSH public key", keyPath)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
