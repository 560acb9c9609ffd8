package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Keystore maps provider ids to API keys, persisted as a TOML file with
// owner-only permissions. Every mutation rewrites the whole file; the store
// is small and only touched from CLI commands, so there is no locking.
type Keystore struct {
	path string
}

type keystoreFile struct {
	Keys map[string]string `toml:"keys"`
}

func NewKeystore(path string) *Keystore {
	return &Keystore{path: path}
}

// DefaultKeystore opens the store at its standard config-dir location.
func DefaultKeystore() *Keystore {
	return NewKeystore(DefaultKeystorePath())
}

// All returns every stored credential. A missing file is an empty store.
func (s *Keystore) All() (map[string]string, error) {
	var f keystoreFile
	if _, err := toml.DecodeFile(s.path, &f); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading keystore: %w", err)
	}
	if f.Keys == nil {
		f.Keys = map[string]string{}
	}
	return f.Keys, nil
}

// Get returns the key for a provider id, or false when none is stored.
func (s *Keystore) Get(providerID string) (string, bool, error) {
	keys, err := s.All()
	if err != nil {
		return "", false, err
	}
	key, ok := keys[providerID]
	return key, ok, nil
}

// Set stores or replaces the key for a provider id.
func (s *Keystore) Set(providerID, key string) error {
	keys, err := s.All()
	if err != nil {
		return err
	}
	keys[providerID] = key
	return s.write(keys)
}

// Delete removes the key for a provider id. Deleting an absent id is not
// an error.
func (s *Keystore) Delete(providerID string) error {
	keys, err := s.All()
	if err != nil {
		return err
	}
	delete(keys, providerID)
	return s.write(keys)
}

func (s *Keystore) write(keys map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing keystore: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(keystoreFile{Keys: keys}); err != nil {
		return fmt.Errorf("encoding keystore: %w", err)
	}
	return nil
}
