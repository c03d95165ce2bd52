// Package store implements the persisted translation store: one JSON
// file per target language mapping original bundle strings to their
// translations.
//
// The on-disk format is a flat UTF-8 JSON object:
//
//	{
//	    "Open File": "파일 열기",
//	    "Save": "저장",
//	    "Toggle Terminal": ""
//	}
//
// Keys are the original English strings. An empty value means the key is
// known but not yet translated. Files are written canonically sorted by
// key so that diffs between runs stay readable.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store maps original strings to translated strings. An empty value
// marks a pending (untranslated) key.
type Store map[string]string

// ErrCorrupt reports that an existing store file could not be parsed.
// Callers treat it as a warning: the returned store is empty and the
// run continues as if nothing had been translated yet.
var ErrCorrupt = errors.New("translation store unreadable")

// FileFor returns the store file name for a target language.
func FileFor(lang string) string {
	return fmt.Sprintf("translations_%s.json", lang)
}

// PathFor returns the store file path for a target language inside dir.
func PathFor(dir, lang string) string {
	return filepath.Join(dir, FileFor(lang))
}

// Load reads a store file. A missing file yields an empty store with no
// error. A file that exists but fails to parse yields an empty store and
// an error wrapping ErrCorrupt — degraded, never fatal.
func Load(path string) (Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(Store), nil
		}
		return make(Store), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		return make(Store), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if s == nil {
		s = make(Store)
	}
	return s, nil
}

// Save persists the store canonically sorted by key (encoding/json sorts
// map keys) using write-to-temp-then-rename, so a failed write never
// corrupts the previous file.
func Save(s Store, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling store: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".store-*")
	if err != nil {
		return fmt.Errorf("creating temp store: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp store: %w", err)
	}
	os.Chmod(tmpPath, 0644)

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing store: %w", err)
	}
	return nil
}

// DiffUntranslated returns the candidates that are absent from s or
// present with an empty value, preserving candidate order. Runs in
// O(len(candidates)) via map lookup.
func DiffUntranslated(candidates []string, s Store) []string {
	var out []string
	for _, c := range candidates {
		if v, ok := s[c]; !ok || v == "" {
			out = append(out, c)
		}
	}
	return out
}

// Merge folds incoming translations into s and returns the number of
// keys that changed. Only non-empty incoming values are applied, and
// only when the key is absent or its stored value differs — a manual
// edit in s is never clobbered by an empty incoming value. Keys in s
// that the incoming batch does not mention are left alone.
func Merge(s Store, incoming Store) int {
	changed := 0
	for key, value := range incoming {
		if value == "" {
			continue
		}
		if existing, ok := s[key]; !ok || existing != value {
			s[key] = value
			changed++
		}
	}
	return changed
}

// AddPending inserts candidates that are not yet present in s with an
// empty value and returns how many were added. This keeps the store a
// complete template of everything extracted so far.
func AddPending(s Store, candidates []string) int {
	added := 0
	for _, c := range candidates {
		if _, ok := s[c]; !ok {
			s[c] = ""
			added++
		}
	}
	return added
}

// Prune removes keys that are still untranslated (empty value) and no
// longer appear in the current candidate set, returning the number of
// removed keys. Translated keys are always retained — the bundle update
// that dropped them may be temporary, and the work is expensive.
func Prune(s Store, candidates []string) int {
	current := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		current[c] = true
	}

	removed := 0
	for key, value := range s {
		if value == "" && !current[key] {
			delete(s, key)
			removed++
		}
	}
	return removed
}

// Stats returns (total, translated, untranslated) counts.
func Stats(s Store) (total, translated, untranslated int) {
	total = len(s)
	for _, v := range s {
		if v != "" {
			translated++
		} else {
			untranslated++
		}
	}
	return
}
