// Package backup snapshots files before they are mutated. Backups are
// immutable once written: restore copies them back, list only reads
// them, and nothing in this tool ever deletes one.
package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// timestampLayout gives sortable backup names: newest-last on disk,
// newest-first in List.
const timestampLayout = "20060102_150405"

// suffix marks backup files inside the backup directory.
const suffix = ".bak"

// ErrVerify reports that a completed backup copy did not match the
// original. The pipeline must abort before any destructive write.
var ErrVerify = errors.New("backup verification failed")

// Record describes one immutable snapshot.
type Record struct {
	// Original is the path the snapshot was taken from. Records read
	// back from disk by List carry only the base name, which is all the
	// snapshot file name preserves.
	Original string
	// Path is the snapshot file inside the backup directory.
	Path string
	// Created is the snapshot timestamp parsed from the file name.
	Created time.Time
}

// Manager creates and reads snapshots in a single directory.
type Manager struct {
	// Dir is the backup directory; created on first use.
	Dir string

	// now is replaceable for tests.
	now func() time.Time
}

// NewManager returns a Manager writing snapshots under dir.
func NewManager(dir string) *Manager {
	return &Manager{Dir: dir, now: time.Now}
}

// Backup copies the file at path byte-for-byte into the backup
// directory, verifies the copy, and returns its Record. The caller must
// not mutate the original until Backup has returned without error.
func (m *Manager) Backup(path string) (Record, error) {
	if err := os.MkdirAll(m.Dir, 0755); err != nil {
		return Record{}, fmt.Errorf("creating backup directory: %w", err)
	}

	created := m.now()
	name := fmt.Sprintf("%s.%s%s", filepath.Base(path), created.Format(timestampLayout), suffix)
	dest := filepath.Join(m.Dir, name)

	size, err := copyFile(path, dest)
	if err != nil {
		os.Remove(dest)
		return Record{}, fmt.Errorf("copying %s: %w", path, err)
	}

	// Verify before letting the caller touch the original.
	origInfo, err := os.Stat(path)
	if err != nil {
		os.Remove(dest)
		return Record{}, fmt.Errorf("%w: stat original: %v", ErrVerify, err)
	}
	if size != origInfo.Size() {
		os.Remove(dest)
		return Record{}, fmt.Errorf("%w: copied %d bytes, original has %d", ErrVerify, size, origInfo.Size())
	}

	return Record{Original: path, Path: dest, Created: created}, nil
}

// List returns all snapshots in the backup directory, most recent
// first. A missing directory yields an empty list.
func (m *Manager) List() ([]Record, error) {
	entries, err := os.ReadDir(m.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var records []Record
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		rec, ok := parseName(e.Name())
		if !ok {
			continue
		}
		rec.Path = filepath.Join(m.Dir, e.Name())
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Created.After(records[j].Created)
	})
	return records, nil
}

// Latest returns the most recent snapshot whose original base name
// matches the given file, or false when none exists.
func (m *Manager) Latest(path string) (Record, bool, error) {
	records, err := m.List()
	if err != nil {
		return Record{}, false, err
	}
	base := filepath.Base(path)
	for _, rec := range records {
		if rec.Original == base {
			return rec, true, nil
		}
	}
	return Record{}, false, nil
}

// Restore copies a snapshot back over target. The snapshot itself is
// left in place — restore never consumes a backup.
func (m *Manager) Restore(rec Record, target string) error {
	if _, err := copyFile(rec.Path, target); err != nil {
		return fmt.Errorf("restoring %s: %w", rec.Path, err)
	}
	return nil
}

// parseName splits "<base>.<timestamp>.bak" into a Record with the
// original base name and creation time.
func parseName(name string) (Record, bool) {
	trimmed := strings.TrimSuffix(name, suffix)
	idx := strings.LastIndexByte(trimmed, '.')
	if idx < 0 {
		return Record{}, false
	}
	created, err := time.ParseInLocation(timestampLayout, trimmed[idx+1:], time.Local)
	if err != nil {
		return Record{}, false
	}
	return Record{Original: trimmed[:idx], Created: created}, true
}

// copyFile copies src to dest, fsyncs, and returns the byte count.
func copyFile(src, dest string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return n, err
	}
	return n, out.Close()
}
