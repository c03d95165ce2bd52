package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDecodeUTF8(t *testing.T) {
	content := `label:"파일 열기",title:"Save"`
	got, err := Decode([]byte(content))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got != content {
		t.Fatalf("Decode changed valid UTF-8 content")
	}
}

func TestDecodeFallback(t *testing.T) {
	// 0xE9 is é in ISO 8859-1 and invalid as a standalone UTF-8 byte.
	raw := []byte{'c', 'a', 'f', 0xE9}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got != "café" {
		t.Fatalf("Decode = %q, want café", got)
	}
	if !utf8.ValidString(got) {
		t.Fatal("fallback decode must produce valid UTF-8")
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.js"))
	if err == nil {
		t.Fatal("expected error for missing bundle")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestWriteReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workbench.desktop.main.js")
	if err := os.WriteFile(path, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Write(path, "rewritten"); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "rewritten" {
		t.Fatalf("content = %q, want rewritten", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".uitrans-") {
			t.Fatalf("stale temp file left behind: %s", e.Name())
		}
	}
}
