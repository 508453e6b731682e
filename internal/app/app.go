// Package app implements the command dispatcher: one method per CLI command,
// each a single transition from a loaded store to a terminal status.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dukerupert/remote/internal/logging"
	"github.com/dukerupert/remote/internal/mount"
	"github.com/dukerupert/remote/internal/remote"
	"github.com/dukerupert/remote/internal/store"
)

// Remote checks connectivity and deploys public keys.
type Remote interface {
	Check(ctx context.Context, t remote.Target) error
	DeployKey(ctx context.Context, t remote.Target, keyPath string) error
}

// Shell hands the terminal to an interactive SSH session.
type Shell interface {
	Handoff(ctx context.Context, login, address string) error
}

// Mounter mounts and unmounts saved hosts.
type Mounter interface {
	Path(name string) string
	Mount(ctx context.Context, login, address, name string) error
	Unmount(ctx context.Context, name string) error
}

// Input collects credentials and answers from the user.
type Input interface {
	Credentials() (login, address, password string, err error)
	Confirm(label string) (bool, error)
}

// Clipboard receives the password so the user can paste it at a prompt.
type Clipboard interface {
	WriteAll(text string) error
}

// App wires the store to its collaborators.
type App struct {
	Store      *store.Store
	Remote     Remote
	Shell      Shell
	Mounts     Mounter
	Input      Input
	Clipboard  Clipboard // nil disables copying
	Log        *logging.Logger
	Out        io.Writer
	DefaultKey string
}

// New saves a new connection after verifying that its credentials work, then
// offers to deploy keyPath (or the default key). Key deployment failures are
// reported but do not fail the command.
func (a *App) New(ctx context.Context, name, keyPath string) error {
	if err := store.ValidateName(name); err != nil {
		a.Log.Errorf("Invalid connection name: %v", err)
		return validationError(err)
	}
	if a.Store.Has(name) {
		err := fmt.Errorf("connection %s already exists", name)
		a.Log.Errorf("Connection name already exists.")
		return validationError(err)
	}

	login, address, password, err := a.Input.Credentials()
	if err != nil {
		a.Log.Errorf("Could not read credentials: %v", err)
		return validationError(err)
	}
	conn := store.Connection{Login: login, Address: address, Password: password}
	if err := conn.Validate(); err != nil {
		a.Log.Errorf("%v", err)
		return validationError(err)
	}

	target := remote.Target{Login: login, Address: address, Password: password}
	if err := a.Remote.Check(ctx, target); err != nil {
		a.Log.Errorf("Error connecting to SSH: %v", err)
		return &Error{Kind: KindConnectivity, Code: 1, Err: err}
	}
	a.Log.Successf("Successfully connected to %s as %s.", address, login)

	saved := true
	if err := a.Store.Save(name, login, address, password); err != nil {
		saved = false
		a.Log.Errorf("Error saving connection: %v", err)
	} else {
		a.Log.Successf("Connection %s saved successfully.", name)
	}

	send, err := a.Input.Confirm("Do you want to send the SSH key to the server?")
	if err != nil {
		a.Log.Warnf("Skipping key deployment: %v", err)
		return nil
	}
	if !send {
		return nil
	}

	switch err := a.deployKey(ctx, target, keyPath); {
	case err != nil && saved:
		a.Log.Errorf("Failed to send SSH key, but connection was saved.")
	case err != nil:
		a.Log.Errorf("Failed to send SSH key.")
	case saved:
		a.Log.Successf("SSH key sent and connection saved successfully.")
	}
	return nil
}

// Conn opens an interactive session to the named connection. The session's
// own exit status is not reflected in the result.
func (a *App) Conn(ctx context.Context, name string) error {
	c, err := a.lookup(name)
	if err != nil {
		return err
	}

	a.copyPassword(c.Password)
	a.Log.Noticef("Connecting to %s: %s", name, c.Host())
	if err := a.Shell.Handoff(ctx, c.Login, c.Address); err != nil {
		a.Log.Debug("session ended", "err", err)
	}
	a.Log.Successf("Connection closed.")
	return nil
}

// List prints every saved connection. Passwords are hidden unless reveal.
func (a *App) List(reveal bool) error {
	entries, err := a.Store.List(reveal)
	if errors.Is(err, store.ErrNoConnections) {
		a.Log.Warnf("No connections found.")
		return nil
	}
	if err != nil {
		a.Log.Errorf("Error listing connections: %v", err)
		return nil
	}
	printConnections(a.Out, entries)
	return nil
}

// Mount mounts the named connection. A failing mount utility is fatal and
// its exit status becomes the command's.
func (a *App) Mount(ctx context.Context, name string) error {
	c, err := a.lookup(name)
	if err != nil {
		return err
	}

	a.copyPassword(c.Password)
	path := a.Mounts.Path(name)
	a.Log.Noticef("Mounting %s at %s", name, path)
	if err := a.Mounts.Mount(ctx, c.Login, c.Address, name); err != nil {
		a.Log.Errorf("Failed to mount %s at %s: %v", name, path, err)
		code := 1
		var te *mount.ToolError
		if errors.As(err, &te) {
			code = te.Code
		}
		return &Error{Kind: KindExternalTool, Code: code, Err: err}
	}
	a.Log.Successf("Mounting completed.")
	return nil
}

// SendKey deploys keyPath (or the default key) to the named connection.
// Deployment failures are reported but the command still succeeds.
func (a *App) SendKey(ctx context.Context, name, keyPath string) error {
	c, err := a.lookup(name)
	if err != nil {
		return err
	}

	// The exit status does not distinguish a failed deployment.
	_ = a.deployKey(ctx, remote.Target{Login: c.Login, Address: c.Address, Password: c.Password}, keyPath)
	return nil
}

// OpenStore loads the store at path. An unreadable or corrupt file is
// reported and replaced by an empty store; the next save overwrites it.
func OpenStore(path string, log *logging.Logger) *store.Store {
	s, err := store.Open(path)
	if err != nil {
		log.Errorf("Error loading connections: %v", err)
	}
	return s
}

// Unmount unmounts the named connection's mount point. Nothing here is fatal
// except a missing name.
func (a *App) Unmount(ctx context.Context, name string) error {
	if name == "" {
		err := errors.New("no mount point specified for unmount")
		a.Log.Errorf("No mount point specified for unmount.")
		return validationError(err)
	}

	path := a.Mounts.Path(name)
	switch err := a.Mounts.Unmount(ctx, name); {
	case errors.Is(err, mount.ErrNotMounted):
		a.Log.Warnf("Mount point does not exist or is not mounted.")
	case err != nil:
		a.Log.Errorf("Failed to unmount %s: %v", name, err)
	default:
		a.Log.Successf("Unmounted %s from %s.", name, path)
	}
	return nil
}

func (a *App) lookup(name string) (store.Connection, error) {
	c, ok := a.Store.Get(name)
	if !ok {
		a.Log.Errorf("Connection not found.")
		return store.Connection{}, validationError(fmt.Errorf("connection %q not found", name))
	}
	return c, nil
}

// deployKey logs its own outcome and returns the failure, if any, so callers
// can choose their summary line.
func (a *App) deployKey(ctx context.Context, t remote.Target, keyPath string) error {
	if keyPath == "" {
		keyPath = a.DefaultKey
	}
	a.copyPassword(t.Password)
	a.Log.Noticef("Sending SSH key %s to %s", keyPath, t.Host())
	if err := a.Remote.DeployKey(ctx, t, keyPath); err != nil {
		a.Log.Errorf("Error sending SSH key: %v", err)
		return &Error{Kind: KindConnectivity, Code: 1, Err: err}
	}
	a.Log.Successf("SSH key successfully added to %s", t.Host())
	return nil
}

func (a *App) copyPassword(password string) {
	if a.Clipboard == nil {
		return
	}
	if err := a.Clipboard.WriteAll(password); err != nil {
		a.Log.Debug("clipboard unavailable", "err", err)
	}
}
