// Package credstore persists the bearer token for the taskdeck API in
// ~/.taskdeck/credentials.json, with a TASKDECK_TOKEN env override.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	credFileName = "credentials.json"
	envToken     = "TASKDECK_TOKEN"
)

// TokenInfo is the on-disk credential record.
type TokenInfo struct {
	Token     string    `json:"token"`
	Source    string    `json:"source"`     // "env" | "file"
	CreatedAt time.Time `json:"created_at"` // when we saved to file
}

// Store reads and writes the credential file in a fixed directory.
type Store struct {
	dir string
}

// New returns a Store rooted at ~/.taskdeck.
func New() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	return &Store{dir: filepath.Join(home, ".taskdeck")}, nil
}

// At returns a Store rooted at dir. Used by tests and the -config flag.
func At(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) credPath() string {
	return filepath.Join(s.dir, credFileName)
}

// Info returns the full credential record, or nil when not logged in.
// The TASKDECK_TOKEN env var takes precedence over the file.
func (s *Store) Info() (*TokenInfo, error) {
	if env := strings.TrimSpace(os.Getenv(envToken)); env != "" {
		return &TokenInfo{Token: stripBearer(env), Source: "env"}, nil
	}
	b, err := os.ReadFile(s.credPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // not logged in
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = stripBearer(ti.Token)
	return &ti, nil
}

// Read returns the persisted token. A missing or unreadable credential
// file is reported as absence, never as an error.
func (s *Store) Read() (string, bool) {
	ti, err := s.Info()
	if err != nil || ti == nil || ti.Token == "" {
		return "", false
	}
	return ti.Token, true
}

// Save persists the token so it survives a process restart.
func (s *Store) Save(token string) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	// ensure the credentials dir exists with 0700
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	ti := TokenInfo{
		Token:     token,
		Source:    "file",
		CreatedAt: time.Now(),
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	// owner-only: the token is a credential
	if err := os.WriteFile(s.credPath(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Clearing when nothing is saved is not
// an error. An env-provided token cannot be cleared from here.
func (s *Store) Clear() error {
	if err := os.Remove(s.credPath()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
