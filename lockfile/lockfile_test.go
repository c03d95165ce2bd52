package lockfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingReturnsEmpty(t *testing.T) {
	lf, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if lf.Version != Version {
		t.Errorf("Version = %d, want %d", lf.Version, Version)
	}
	if len(lf.Applied) != 0 {
		t.Errorf("Applied = %v, want empty", lf.Applied)
	}
	if !lf.BundleChanged("anything") {
		t.Error("empty lock file must report the bundle as changed")
	}
}

func TestRecordWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()

	lf, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	content := `var x={label:"파일 열기"}`
	lf.RecordWrite("/opt/cursor/workbench.desktop.main.js", content, "ko",
		map[string]string{"Open File": "파일 열기"})
	if err := lf.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}

	if loaded.BundleChanged(content) {
		t.Error("recorded content must not report as changed")
	}
	if !loaded.BundleChanged(content + "x") {
		t.Error("different content must report as changed")
	}
	if !loaded.IsApplied("ko") {
		t.Error("ko must be recorded as applied")
	}
	if loaded.IsApplied("ja") {
		t.Error("ja must not be recorded as applied")
	}
	if got := loaded.Applied["ko"].Keys; got != 1 {
		t.Errorf("Keys = %d, want 1", got)
	}
	if loaded.Bundle.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", loaded.Bundle.Size, len(content))
	}
}

func TestRecordRestoreClearsApplied(t *testing.T) {
	lf, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	lf.RecordWrite("b.js", "translated", "ko", map[string]string{"Save": "저장"})
	lf.RecordRestore("b.js", "original")

	if lf.IsApplied("ko") {
		t.Error("restore must clear applied state")
	}
	if lf.BundleChanged("original") {
		t.Error("restored content must match the recorded bundle")
	}
}

func TestHashPairsOrderIndependent(t *testing.T) {
	a := HashPairs(map[string]string{"Open File": "파일 열기", "Save": "저장"})
	b := HashPairs(map[string]string{"Save": "저장", "Open File": "파일 열기"})
	if a != b {
		t.Errorf("HashPairs is order dependent: %s != %s", a, b)
	}

	c := HashPairs(map[string]string{"Save": "저장"})
	if a == c {
		t.Error("different pair sets must hash differently")
	}
}

func TestSummary(t *testing.T) {
	lf, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := lf.Summary(); got != "no translations applied" {
		t.Errorf("Summary() = %q", got)
	}

	lf.RecordWrite("b.js", "x", "ko", map[string]string{"Save": "저장"})
	lf.RecordWrite("b.js", "y", "ja", map[string]string{"Save": "保存", "Open": "開く"})

	if got := lf.Summary(); got != "applied ja: 2 keys, ko: 1 keys" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, LockFileName), []byte("applied: [oops\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("Load() accepted malformed YAML")
	}
}
