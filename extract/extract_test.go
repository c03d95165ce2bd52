package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleBundle = `({label:"Open File",title:"Save"},{"placeholder":"Search settings"},` +
	`{id:42,kind:"x"},url:"https://example.com/help",mail:"dev@example.com",` +
	`path:"vs/workbench/parts",detail:"Allow Agent to run tools without asking for confirmation",` +
	`function f(){return "Auto-scroll to bottom"},children:()=>"Getting Started",` +
	`desc:"If on, none of your code will be stored by us.",n:"12345",tok:"ab1")`

func TestExtractFindsPropertyLiterals(t *testing.T) {
	got := Extract(sampleBundle)

	want := []string{
		"Allow Agent to run tools without asking for confirmation",
		"Auto-scroll to bottom",
		"Getting Started",
		"If on, none of your code will be stored by us.",
		"Open File",
		"Search settings",
	}

	for _, w := range want {
		if !contains(got, w) {
			t.Fatalf("Extract missing %q; got %v", w, got)
		}
	}
}

func TestExtractFiltersNoise(t *testing.T) {
	got := Extract(sampleBundle)

	noise := []string{
		"https://example.com/help", // URL
		"dev@example.com",          // email
		"vs/workbench/parts",       // bare path
		"Save",                     // bare identifier shape
		"12345",                    // pure numeric
		"ab1",                      // short alphanumeric token
		"x",                        // below minimum length
	}
	for _, n := range noise {
		if contains(got, n) {
			t.Fatalf("Extract kept noise string %q", n)
		}
	}
}

func TestExtractOutputInvariants(t *testing.T) {
	got := Extract(sampleBundle)

	for i, s := range got {
		if len(s) < MinLength || len(s) > MaxLength {
			t.Fatalf("candidate %q violates length bounds", s)
		}
		if !hasLetter(s) {
			t.Fatalf("candidate %q has no letters", s)
		}
		if i > 0 && got[i-1] >= s {
			t.Fatalf("output not sorted/deduplicated at %d: %q >= %q", i, got[i-1], s)
		}
	}
}

func TestExtractDeterministic(t *testing.T) {
	a := Extract(sampleBundle)
	b := Extract(sampleBundle)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic output: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic output at %d: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestExtractEmpty(t *testing.T) {
	if got := Extract(""); len(got) != 0 {
		t.Fatalf("Extract(\"\") = %v, want empty", got)
	}
}

func TestScriptGuardDropsNonLatin(t *testing.T) {
	content := `label:"파일 열기",title:"Open File"`

	plain := Extract(content)
	if !contains(plain, "파일 열기") {
		t.Fatalf("without guard the Korean literal should be extracted: %v", plain)
	}

	guarded := ExtractWithOptions(content, Options{ScriptGuard: true})
	if contains(guarded, "파일 열기") {
		t.Fatalf("script guard should drop the Korean literal: %v", guarded)
	}
	if !contains(guarded, "Open File") {
		t.Fatalf("script guard must keep Latin text: %v", guarded)
	}
}

func TestSaveStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "strings.txt")
	if err := SaveStrings([]string{"Open File", "Save"}, path); err != nil {
		t.Fatalf("SaveStrings error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Open File\nSave\n" {
		t.Fatalf("unexpected artifact content: %q", data)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Fatal("artifact must end with a newline")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
