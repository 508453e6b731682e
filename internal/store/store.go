// Package store persists saved connection profiles in a single JSON file
// keyed by connection name.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// HiddenPassword replaces the password in listings unless reveal is set.
const HiddenPassword = "[hidden]"

// ErrNoConnections is returned by List when nothing has been saved yet.
var ErrNoConnections = errors.New("no connections found")

// Connection is one saved profile. The password is stored in clear text.
type Connection struct {
	Login    string `json:"login" validate:"required,startsnotwith=-"`
	Address  string `json:"address" validate:"required,hostname_rfc1123|ip|hostname_port"`
	Password string `json:"password"`
}

// Host returns "login@address".
func (c Connection) Host() string {
	return c.Login + "@" + c.Address
}

// Entry is a display row produced by List.
type Entry struct {
	Name     string
	Login    string
	Address  string
	Password string
}

// CorruptError reports a store file that exists but is not valid JSON.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("parsing connections file %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Store holds every connection in memory and rewrites the whole file on
// each save.
type Store struct {
	path        string
	connections map[string]Connection
}

// Open loads the store at path. A missing file yields an empty store and no
// error. An unreadable or corrupt file also yields a usable empty store,
// together with the error so the caller can report it.
func Open(path string) (*Store, error) {
	s := &Store{
		path:        path,
		connections: make(map[string]Connection),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("reading connections: %w", err)
	}

	var conns map[string]Connection
	if err := json.Unmarshal(data, &conns); err != nil {
		return s, &CorruptError{Path: path, Err: err}
	}
	for name, c := range conns {
		s.connections[name] = c
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Len returns the number of saved connections.
func (s *Store) Len() int { return len(s.connections) }

// Has reports whether name is saved.
func (s *Store) Has(name string) bool {
	_, ok := s.connections[name]
	return ok
}

// Get returns the connection saved under name.
func (s *Store) Get(name string) (Connection, bool) {
	c, ok := s.connections[name]
	return c, ok
}

// Names returns every saved name in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.connections))
	for name := range s.connections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save validates and stores the connection under name, then rewrites the
// file. Invalid input leaves both memory and disk untouched. A write
// failure keeps the in-memory entry and leaves the previous file in place.
func (s *Store) Save(name, login, address, password string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	c := Connection{Login: login, Address: address, Password: password}
	if err := c.Validate(); err != nil {
		return err
	}

	s.connections[name] = c
	if err := s.write(); err != nil {
		return fmt.Errorf("saving connection %s: %w", name, err)
	}
	return nil
}

// List returns every connection sorted by name. Passwords are replaced by
// HiddenPassword unless reveal is true.
func (s *Store) List(reveal bool) ([]Entry, error) {
	if len(s.connections) == 0 {
		return nil, ErrNoConnections
	}

	entries := make([]Entry, 0, len(s.connections))
	for _, name := range s.Names() {
		c := s.connections[name]
		password := HiddenPassword
		if reveal {
			password = c.Password
		}
		entries = append(entries, Entry{
			Name:     name,
			Login:    c.Login,
			Address:  c.Address,
			Password: password,
		})
	}
	return entries, nil
}

// write serializes the full map to a temp file beside the store and renames
// it over the original so readers never see a partial file.
func (s *Store) write() error {
	data, err := json.MarshalIndent(s.connections, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling connections: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".connections-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("restricting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
