package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// Sentinel errors
var (
	// ErrNoCredential is returned when no credential is persisted. Absence
	// of the credential file is the logged-out state.
	ErrNoCredential = errors.New("no stored credential")
)

// Credential is the access/refresh token pair issued by the backend token
// endpoint. Its presence in durable storage is the sole source of truth for
// "is there a logged-in session".
type Credential struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Store manages the persisted credential on the local filesystem. Only the
// session store and the gateway's 401 handling write through it; every other
// component reads via AccessToken.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a credential store backed by the given file.
// If path is empty, uses ~/.rmsctl/session.json
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".rmsctl", "session.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	log.Debug().Str("path", path).Msg("credential store initialized")

	return &Store{path: path}, nil
}

// Path returns the credential file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted credential. Returns ErrNoCredential when absent;
// a file that cannot be parsed or lacks an access token is an error the
// caller recovers from by clearing.
func (s *Store) Load() (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCredential
		}
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to parse credential: %w", err)
	}

	if cred.Access == "" {
		return nil, errors.New("stored credential has no access token")
	}

	return &cred, nil
}

// Save persists the credential atomically with owner-only permissions.
func (s *Store) Save(cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	// Write to temp file first
	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save credential: %w", err)
	}

	log.Debug().
		Str("fingerprint", truncate(Fingerprint(cred.Access), 12)).
		Msg("credential persisted")

	return nil
}

// Clear removes the persisted credential. Clearing an absent credential is
// not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credential: %w", err)
	}

	log.Debug().Msg("credential cleared")

	return nil
}

// AccessToken implements gateway.CredentialSource. Any load failure means no
// header is attached; the request proceeds anonymously.
func (s *Store) AccessToken() (string, bool) {
	cred, err := s.Load()
	if err != nil {
		if !errors.Is(err, ErrNoCredential) {
			log.Debug().Err(err).Msg("stored credential unreadable, sending anonymous request")
		}
		return "", false
	}
	return cred.Access, true
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
