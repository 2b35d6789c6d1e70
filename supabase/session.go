// ABOUTME: Session token persistence for the hosted backend
// ABOUTME: Stores the oauth2 token as JSON at an XDG path with owner-only permissions
package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// TokenStore persists the session token. Load returns nil, nil when empty.
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(token *oauth2.Token) error
	Clear() error
}

// FileStore keeps the token in a single JSON file.
type FileStore struct {
	Path string
}

func (f FileStore) Save(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	file, err := os.OpenFile(f.Path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := json.NewEncoder(file).Encode(token); err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return nil
}

func (f FileStore) Load() (*oauth2.Token, error) {
	file, err := os.Open(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var token oauth2.Token
	if err := json.NewDecoder(file).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &token, nil
}

func (f FileStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// memoryStore forgets the session when the process exits.
type memoryStore struct{}

func (memoryStore) Load() (*oauth2.Token, error) { return nil, nil }
func (memoryStore) Save(*oauth2.Token) error      { return nil }
func (memoryStore) Clear() error                  { return nil }
