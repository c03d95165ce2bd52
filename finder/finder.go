// Package finder locates the application installation and its workbench
// bundle file on the local machine. It is a thin boundary collaborator:
// the pipeline only ever consumes the resolved bundle path.
package finder

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/uitrans/uitrans/bundle"
)

// maxSearchDepth bounds the recursive bundle search below an
// installation root. The bundle sits a handful of directories deep;
// unbounded walks over Electron trees are slow.
const maxSearchDepth = 8

// FindInstallation returns the first existing installation root for the
// current OS, or "" when none is found. Not finding an installation is
// not an error — the caller decides what to report.
func FindInstallation() string {
	for _, candidate := range installCandidates(runtime.GOOS) {
		if candidate == "" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return ""
}

// installCandidates lists the known installation roots per OS,
// including the WSL mount when running on Linux.
func installCandidates(goos string) []string {
	switch goos {
	case "windows":
		if appdata := os.Getenv("LOCALAPPDATA"); appdata != "" {
			return []string{filepath.Join(appdata, "Programs", "cursor")}
		}
		return nil
	case "darwin":
		return []string{"/Applications/Cursor.app"}
	default:
		var out []string
		if home := os.Getenv("HOME"); home != "" {
			out = append(out, filepath.Join(home, ".local", "share", "cursor"))
		}
		out = append(out, "/opt/cursor")
		if isWSL() {
			if user := os.Getenv("USER"); user != "" {
				out = append(out, filepath.Join("/mnt/c/Users", user, "AppData", "Local", "Programs", "cursor"))
			}
		}
		return out
	}
}

// isWSL sniffs /proc/version for a Microsoft kernel tag.
func isWSL() bool {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), "microsoft")
}

// FindBundle returns the workbench bundle path under root. The
// conventional location is tried first; otherwise a depth-bounded
// search runs over the tree. Returns an error when nothing matches.
func FindBundle(root string) (string, error) {
	conventional := filepath.Join(root, "resources", "app", "out", "vs", "workbench", bundle.MainJSName)
	if _, err := os.Stat(conventional); err == nil {
		return conventional, nil
	}

	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() {
			if depth(root, path) > maxSearchDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == bundle.MainJSName {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching %s: %w", root, err)
	}
	if found == "" {
		return "", fmt.Errorf("%s not found under %s", bundle.MainJSName, root)
	}
	return found, nil
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// Resolve returns the bundle path using, in order: the explicit path,
// the cache, and a fresh installation search. A fresh search result is
// written back to the cache.
func Resolve(explicit string, cache *Cache) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("bundle path: %w", err)
		}
		return explicit, nil
	}

	if cache != nil {
		if cached := cache.Get(cacheKeyBundle); cached != "" {
			if _, err := os.Stat(cached); err == nil {
				return cached, nil
			}
			// Stale entry: the installation moved or was updated in place.
			cache.Delete(cacheKeyBundle)
		}
	}

	root := FindInstallation()
	if root == "" {
		return "", fmt.Errorf("no installation found; pass the bundle path explicitly")
	}

	path, err := FindBundle(root)
	if err != nil {
		return "", err
	}

	if cache != nil {
		cache.Set(cacheKeyBundle, path)
		if err := cache.Save(); err != nil {
			// Cache write failure is not worth aborting a resolved path.
			return path, nil
		}
	}
	return path, nil
}
