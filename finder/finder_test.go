package finder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/uitrans/uitrans/bundle"
)

func makeInstall(t *testing.T, root string) string {
	t.Helper()
	dir := filepath.Join(root, "resources", "app", "out", "vs", "workbench")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, bundle.MainJSName)
	if err := os.WriteFile(path, []byte(`label:"Open File"`), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindBundleConventionalPath(t *testing.T) {
	root := t.TempDir()
	want := makeInstall(t, root)

	got, err := FindBundle(root)
	if err != nil {
		t.Fatalf("FindBundle error: %v", err)
	}
	if got != want {
		t.Fatalf("FindBundle = %q, want %q", got, want)
	}
}

func TestFindBundleSearchFallback(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "some", "other", "layout")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, bundle.MainJSName)
	if err := os.WriteFile(want, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := FindBundle(root)
	if err != nil {
		t.Fatalf("FindBundle error: %v", err)
	}
	if got != want {
		t.Fatalf("FindBundle = %q, want %q", got, want)
	}
}

func TestFindBundleMissing(t *testing.T) {
	if _, err := FindBundle(t.TempDir()); err == nil {
		t.Fatal("expected error when no bundle exists")
	}
}

func TestResolveExplicitPathWins(t *testing.T) {
	root := t.TempDir()
	path := makeInstall(t, root)

	got, err := Resolve(path, nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != path {
		t.Fatalf("Resolve = %q, want %q", got, path)
	}
}

func TestResolveExplicitMissingFails(t *testing.T) {
	if _, err := Resolve(filepath.Join(t.TempDir(), "no.js"), nil); err == nil {
		t.Fatal("expected error for missing explicit path")
	}
}

func TestResolveUsesCache(t *testing.T) {
	root := t.TempDir()
	path := makeInstall(t, root)

	cache := LoadCache(t.TempDir())
	cache.Set(cacheKeyBundle, path)

	got, err := Resolve("", cache)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != path {
		t.Fatalf("Resolve = %q, want cached %q", got, path)
	}
}

func TestResolveDropsStaleCacheEntry(t *testing.T) {
	cache := LoadCache(t.TempDir())
	cache.Set(cacheKeyBundle, filepath.Join(t.TempDir(), "gone.js"))

	// No installation exists either, so Resolve fails — but the stale
	// entry must be gone afterwards.
	if _, err := Resolve("", cache); err == nil {
		t.Skip("a real installation exists on this machine")
	}
	if cache.Get(cacheKeyBundle) != "" {
		t.Fatal("stale cache entry should have been dropped")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()

	c := LoadCache(dir)
	c.Set("bundle_path", "/opt/cursor/bundle.js")
	if err := c.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	reloaded := LoadCache(dir)
	if got := reloaded.Get("bundle_path"); got != "/opt/cursor/bundle.js" {
		t.Fatalf("reloaded value = %q", got)
	}
}

func TestCacheCorruptStartsFresh(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, CacheFileName), []byte("\tnot yaml"), 0644); err != nil {
		t.Fatal(err)
	}

	c := LoadCache(dir)
	if c.Get("anything") != "" {
		t.Fatal("corrupt cache should start fresh")
	}
}

func TestDepth(t *testing.T) {
	root := string(filepath.Separator) + "a"
	if d := depth(root, filepath.Join(root, "b", "c")); d != 2 {
		t.Fatalf("depth = %d, want 2", d)
	}
	if d := depth(root, root); d != 0 {
		t.Fatalf("depth of root = %d, want 0", d)
	}
}
