// Package remote talks to saved hosts: password-authenticated SSH sessions,
// SFTP uploads, public key deployment and interactive handoff to the system
// ssh client.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// DefaultTimeout bounds the TCP connect and the authentication handshake.
const DefaultTimeout = 10 * time.Second

// Target identifies a host and the password credentials for it.
type Target struct {
	Login    string
	Address  string
	Password string
}

// Host returns "login@address".
func (t Target) Host() string {
	return t.Login + "@" + t.Address
}

// Conn is an authenticated SSH connection with a lazily opened SFTP channel.
type Conn struct {
	client *ssh.Client
	sftp   *sftp.Client
}

// Dial connects to t.Address (port 22 unless given) and authenticates with
// the password. Host keys are not verified.
func Dial(ctx context.Context, t Target, timeout time.Duration) (*Conn, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	config := &ssh.ClientConfig{
		User: t.Login,
		Auth: []ssh.AuthMethod{
			ssh.Password(t.Password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = t.Password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	addr := hostPort(t.Address)
	d := net.Dialer{Timeout: timeout}
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("SSH dial to %s: %w", addr, err)
	}

	// The handshake gets the same budget as the connect.
	_ = nc.SetDeadline(time.Now().Add(timeout))
	c, chans, reqs, err := ssh.NewClientConn(nc, addr, config)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("SSH connect to %s as %s: %w", addr, t.Login, err)
	}
	_ = nc.SetDeadline(time.Time{})

	return &Conn{client: ssh.NewClient(c, chans, reqs)}, nil
}

// Close closes the SFTP channel, if any, and the SSH connection.
func (c *Conn) Close() error {
	var err error
	if c.sftp != nil {
		err = c.sftp.Close()
	}
	if c.client != nil {
		if closeErr := c.client.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

// Run executes command in a fresh session. Output on stderr is included in
// the returned error.
func (c *Conn) Run(command string) error {
	_, err := c.Output(command)
	return err
}

// Output executes command in a fresh session and returns its stdout.
func (c *Conn) Output(command string) (string, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("SSH session failed: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	if err := session.Run(command); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.String(), fmt.Errorf("running %q: %w: %s", command, err, msg)
		}
		return stdout.String(), fmt.Errorf("running %q: %w", command, err)
	}
	return stdout.String(), nil
}

// Upload copies the local file to remotePath with mode 0600.
func (c *Conn) Upload(localPath, remotePath string) error {
	if c.sftp == nil {
		client, err := sftp.NewClient(c.client)
		if err != nil {
			return fmt.Errorf("failed to create sftp client: %w", err)
		}
		c.sftp = client
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer src.Close()

	dst, err := c.sftp.Create(remotePath)
	if err != nil {
		return fmt.Errorf("failed to create %s on remote: %w", remotePath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = c.sftp.Remove(remotePath)
		return fmt.Errorf("failed to write %s on remote: %w", remotePath, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("closing %s on remote: %w", remotePath, err)
	}
	if err := c.sftp.Chmod(remotePath, 0o600); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", remotePath, err)
	}
	return nil
}

// hostPort adds port 22 when address has none.
func hostPort(address string) string {
	if _, _, err := net.SplitHostPort(address); err == nil {
		return address
	}
	return net.JoinHostPort(address, "22")
}
