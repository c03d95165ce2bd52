// Package settings stores the user's translation-provider credentials.
//
// Credentials live in the XDG data directory:
//
//	$XDG_DATA_HOME/uitrans/auth.json  (default: ~/.local/share/uitrans/auth.json)
//
// The file is a JSON object keyed by provider ID ({"deepl": {"key": "…"}})
// with 0600 permissions.
//
// Lookup order for the API key:
//  1. --api-key flag (highest priority)
//  2. DEEPL_API_KEY environment variable
//  3. This credential store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "uitrans"
	fileName    = "auth.json"
)

// ProviderDeepL is the only live provider this tool knows.
const ProviderDeepL = "deepl"

// EnvAPIKey is the environment variable consulted before the store.
const EnvAPIKey = "DEEPL_API_KEY"

// Info holds the stored credential for one provider.
type Info struct {
	Key string `json:"key"`
}

// Store holds all provider credentials, keyed by provider ID.
type Store map[string]*Info

// dataDir returns the XDG data directory for uitrans.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json file path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// Load reads the credential store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return make(Store)
	}
	if store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// SetKey stores an API key for a provider (upsert).
func SetKey(providerID, key string) error {
	store := Load()
	store[providerID] = &Info{Key: key}
	return Save(store)
}

// Remove deletes credentials for a provider. Removing a provider that
// has no stored credential is a no-op.
func Remove(providerID string) error {
	store := Load()
	if _, ok := store[providerID]; !ok {
		return nil
	}
	delete(store, providerID)
	return Save(store)
}

// ResolveAPIKey returns the effective API key for the DeepL provider,
// honoring the flag > environment > store lookup order. An empty result
// means no credential anywhere — the caller falls back to the offline
// dictionary, it does not fail.
func ResolveAPIKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvAPIKey); env != "" {
		return env
	}
	if info := Load()[ProviderDeepL]; info != nil {
		return info.Key
	}
	return ""
}
