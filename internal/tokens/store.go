// Package tokens persists the tool's single token pair and decides when it
// needs refreshing. Validity is established by a live probe against the API,
// never by a local clock comparison.
package tokens

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	meetup "github.com/meetup-tools/attendee-sync"
)

// ErrNoTokens is returned by Load when no token pair has ever been saved.
var ErrNoTokens = errors.New("tokens: no stored token pair")

// Store persists a single global token pair. Implementations overwrite the
// record wholesale on every Save.
type Store interface {
	Load() (*meetup.TokenPair, error)
	Save(*meetup.TokenPair) error
}

// FileStore keeps the token pair as one JSON object at a fixed path:
// {"access_token": ..., "refresh_token": ...}. Saves go through a temp file
// and rename so a crash mid-write cannot leave a truncated store behind.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (*meetup.TokenPair, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoTokens
		}
		return nil, fmt.Errorf("could not read token file: %w", err)
	}

	var pair meetup.TokenPair
	if err := json.Unmarshal(b, &pair); err != nil {
		return nil, fmt.Errorf("could not parse token file: %w", err)
	}

	if pair.AccessToken == "" {
		return nil, ErrNoTokens
	}

	return &pair, nil
}

func (s *FileStore) Save(pair *meetup.TokenPair) error {
	b, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("could not marshal token pair: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create token directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("could not create temp token file: %w", err)
	}

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("could not write token file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not close token file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not set token file mode: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not replace token file: %w", err)
	}

	return nil
}
