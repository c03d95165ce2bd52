package settings

import (
	"os"
	"path/filepath"
	"testing"
)

// useTempDataDir points XDG_DATA_HOME at a temp dir for the test.
func useTempDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	return dir
}

func TestLoadMissingIsEmpty(t *testing.T) {
	useTempDataDir(t)
	store := Load()
	if len(store) != 0 {
		t.Fatalf("expected empty store, got %v", store)
	}
}

func TestSetKeyRoundTrip(t *testing.T) {
	dir := useTempDataDir(t)

	if err := SetKey(ProviderDeepL, "secret-key"); err != nil {
		t.Fatalf("SetKey error: %v", err)
	}

	store := Load()
	info := store[ProviderDeepL]
	if info == nil || info.Key != "secret-key" {
		t.Fatalf("stored credential = %#v", info)
	}

	// File permissions must be owner-only.
	fi, err := os.Stat(filepath.Join(dir, dataDirName, fileName))
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0600 {
		t.Fatalf("auth file permissions = %v, want 0600", fi.Mode().Perm())
	}
}

func TestRemove(t *testing.T) {
	useTempDataDir(t)

	if err := SetKey(ProviderDeepL, "k"); err != nil {
		t.Fatal(err)
	}
	if err := Remove(ProviderDeepL); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if Load()[ProviderDeepL] != nil {
		t.Fatal("credential should be gone after Remove")
	}

	// Removing again is a no-op.
	if err := Remove(ProviderDeepL); err != nil {
		t.Fatalf("second Remove error: %v", err)
	}
}

func TestResolveAPIKeyOrder(t *testing.T) {
	useTempDataDir(t)

	if err := SetKey(ProviderDeepL, "from-store"); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIKey, "from-env")

	if got := ResolveAPIKey("from-flag"); got != "from-flag" {
		t.Fatalf("flag should win, got %q", got)
	}
	if got := ResolveAPIKey(""); got != "from-env" {
		t.Fatalf("env should beat store, got %q", got)
	}

	t.Setenv(EnvAPIKey, "")
	if got := ResolveAPIKey(""); got != "from-store" {
		t.Fatalf("store should be the last resort, got %q", got)
	}
}

func TestResolveAPIKeyAbsent(t *testing.T) {
	useTempDataDir(t)
	t.Setenv(EnvAPIKey, "")
	if got := ResolveAPIKey(""); got != "" {
		t.Fatalf("no credential anywhere should resolve to empty, got %q", got)
	}
}

func TestLoadCorruptIsEmpty(t *testing.T) {
	dir := useTempDataDir(t)
	authDir := filepath.Join(dir, dataDirName)
	if err := os.MkdirAll(authDir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(authDir, fileName), []byte("{bad"), 0600); err != nil {
		t.Fatal(err)
	}
	if len(Load()) != 0 {
		t.Fatal("corrupt auth file should load as empty store")
	}
}
