// Package lockfile implements uitrans.lock — a small state file that
// records the checksum of the bundle and of each applied translation
// set after a successful substitution.
//
// Cursor updates replace workbench.desktop.main.js wholesale. Comparing
// the recorded checksum against the current bundle tells a later run
// whether it is looking at the file it wrote (already localized), a
// fresh bundle from an update (needs a full pass), or something
// modified by hand.
//
// The lock file is stored in the translation store directory.
package lockfile

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// LockFileName is the default lock file name.
const LockFileName = "uitrans.lock"

// Version is the lock file format version.
const Version = 1

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// BundleState records the bundle as it was after the last write.
type BundleState struct {
	Path string `yaml:"path"`
	MD5  string `yaml:"md5"`
	Size int64  `yaml:"size"`
}

// AppliedState records one language's applied translation set.
type AppliedState struct {
	// MD5 covers the translated key/value pairs that were substituted.
	MD5  string `yaml:"md5"`
	Keys int    `yaml:"keys"`
	At   string `yaml:"at"`
}

// LockFile represents the uitrans.lock file structure.
type LockFile struct {
	Version int                     `yaml:"version"`
	Bundle  BundleState             `yaml:"bundle"`
	Applied map[string]AppliedState `yaml:"applied"` // lang -> state

	mu   sync.Mutex `yaml:"-"`
	path string     `yaml:"-"`
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load reads a lock file from the given directory.
// Returns an empty lock file if the file doesn't exist.
func Load(dir string) (*LockFile, error) {
	path := filepath.Join(dir, LockFileName)
	lf := &LockFile{
		Version: Version,
		Applied: make(map[string]AppliedState),
		path:    path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	lf.path = path

	if lf.Applied == nil {
		lf.Applied = make(map[string]AppliedState)
	}

	return lf, nil
}

// Save writes the lock file to disk.
func (lf *LockFile) Save() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.path == "" {
		return fmt.Errorf("lock file path not set")
	}

	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}

	if err := os.WriteFile(lf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lf.path, err)
	}

	return nil
}

// Path returns the lock file path.
func (lf *LockFile) Path() string {
	return lf.path
}

// ---------------------------------------------------------------------------
// Checksums
// ---------------------------------------------------------------------------

// Hash computes the MD5 hex digest of a string.
func Hash(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}

// HashPairs computes a checksum over a set of key/value pairs that is
// independent of map iteration order.
func HashPairs(pairs map[string]string) string {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte(0)
		b.WriteString(pairs[k])
		b.WriteByte(0)
	}
	return Hash(b.String())
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// RecordWrite records the bundle content as written, with lang's applied
// translation set.
func (lf *LockFile) RecordWrite(bundlePath, bundleContent, lang string, applied map[string]string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	lf.Bundle = BundleState{
		Path: filepath.ToSlash(bundlePath),
		MD5:  Hash(bundleContent),
		Size: int64(len(bundleContent)),
	}
	lf.Applied[lang] = AppliedState{
		MD5:  HashPairs(applied),
		Keys: len(applied),
		At:   time.Now().Format(time.RFC3339),
	}
}

// RecordRestore clears all applied state after the bundle was put back
// to its original content.
func (lf *LockFile) RecordRestore(bundlePath, bundleContent string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	lf.Bundle = BundleState{
		Path: filepath.ToSlash(bundlePath),
		MD5:  Hash(bundleContent),
		Size: int64(len(bundleContent)),
	}
	lf.Applied = make(map[string]AppliedState)
}

// BundleChanged reports whether content differs from the bundle recorded
// at the last write. A lock file with no recorded bundle reports true.
func (lf *LockFile) BundleChanged(content string) bool {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.Bundle.MD5 == "" {
		return true
	}
	return lf.Bundle.MD5 != Hash(content)
}

// IsApplied reports whether lang has an applied translation set on record.
func (lf *LockFile) IsApplied(lang string) bool {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	_, ok := lf.Applied[lang]
	return ok
}

// Langs returns the sorted list of languages with applied state.
func (lf *LockFile) Langs() []string {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	langs := make([]string, 0, len(lf.Applied))
	for l := range lf.Applied {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// ---------------------------------------------------------------------------
// Human-readable summary
// ---------------------------------------------------------------------------

// Summary returns a human-readable summary string.
func (lf *LockFile) Summary() string {
	langs := lf.Langs()
	if len(langs) == 0 {
		return "no translations applied"
	}

	lf.mu.Lock()
	defer lf.mu.Unlock()

	var parts []string
	for _, l := range langs {
		parts = append(parts, fmt.Sprintf("%s: %d keys", l, lf.Applied[l].Keys))
	}
	return fmt.Sprintf("applied %s", strings.Join(parts, ", "))
}
