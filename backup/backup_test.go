package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBackupCreatesVerifiedCopy(t *testing.T) {
	dir := t.TempDir()
	original := writeFile(t, dir, "workbench.desktop.main.js", "bundle content")

	m := NewManager(filepath.Join(dir, "backups"))
	rec, err := m.Backup(original)
	require.NoError(t, err)

	assert.Equal(t, original, rec.Original)
	assert.False(t, rec.Created.IsZero())

	data, err := os.ReadFile(rec.Path)
	require.NoError(t, err)
	assert.Equal(t, "bundle content", string(data), "backup must be byte-identical")
}

func TestBackupMissingOriginalFails(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "backups"))
	_, err := m.Backup(filepath.Join(t.TempDir(), "missing.js"))
	require.Error(t, err)
}

func TestListMostRecentFirst(t *testing.T) {
	dir := t.TempDir()
	original := writeFile(t, dir, "main.js", "v1")

	m := NewManager(filepath.Join(dir, "backups"))

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)
	for i := 0; i < 3; i++ {
		stamp := base.Add(time.Duration(i) * time.Minute)
		m.now = func() time.Time { return stamp }
		_, err := m.Backup(original)
		require.NoError(t, err)
	}

	records, err := m.List()
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i := 1; i < len(records); i++ {
		assert.True(t, records[i-1].Created.After(records[i].Created),
			"List must be most-recent-first")
	}
}

func TestListEmptyDirIsNotAnError(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "never-created"))
	records, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRestoreKeepsBackup(t *testing.T) {
	dir := t.TempDir()
	original := writeFile(t, dir, "main.js", "pre-substitution")

	m := NewManager(filepath.Join(dir, "backups"))
	rec, err := m.Backup(original)
	require.NoError(t, err)

	// Simulate the destructive write.
	require.NoError(t, os.WriteFile(original, []byte("substituted"), 0644))

	require.NoError(t, m.Restore(rec, original))

	data, err := os.ReadFile(original)
	require.NoError(t, err)
	assert.Equal(t, "pre-substitution", string(data))

	// Backup file survives restore.
	_, err = os.Stat(rec.Path)
	require.NoError(t, err)
}

func TestLatestMatchesBaseName(t *testing.T) {
	dir := t.TempDir()
	original := writeFile(t, dir, "main.js", "v1")
	other := writeFile(t, dir, "other.js", "x")

	m := NewManager(filepath.Join(dir, "backups"))

	m.now = func() time.Time { return time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local) }
	_, err := m.Backup(other)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Date(2026, 8, 30, 11, 0, 0, 0, time.Local) }
	_, err = m.Backup(original)
	require.NoError(t, err)

	rec, ok, err := m.Latest("/elsewhere/main.js")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "main.js", rec.Original)
}

func TestParseNameRejectsForeignFiles(t *testing.T) {
	_, ok := parseName("README.bak")
	assert.False(t, ok)

	rec, ok := parseName("main.js.20260830_120000.bak")
	require.True(t, ok)
	assert.Equal(t, "main.js", rec.Original)
	assert.Equal(t, 2026, rec.Created.Year())
}
