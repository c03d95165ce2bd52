// Package extract scans raw bundle text for quoted string literals that
// are plausible user-facing UI text.
//
// The bundle is minified JavaScript, but no parsing happens here: the
// extractor runs a curated list of regular expressions over the text and
// filters the matches. This is deliberately best-effort — recall is
// bounded by the pattern list, and that is fine; strings the patterns
// miss simply stay in English.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
)

// Candidate length bounds. Anything outside this window is noise:
// single characters are separators or format glyphs, and strings past
// 500 characters are embedded data blobs, not UI text.
const (
	MinLength = 2
	MaxLength = 500
)

// uiProperties is the fixed vocabulary of property names whose quoted
// values carry user-visible text in the workbench bundle.
var uiProperties = []string{
	"label",
	"categoryLabel",
	"placeholder",
	"detail",
	"title",
	"message",
	"buttonLabel",
	"failureMessage",
	"successMessage",
	"value",
	"aria-label",
	"name",
	"description",
	"children",
	"text",
}

// patterns is the ordered list of structural patterns. All matches are
// pooled into one set, so ordering only affects scan cost, not output.
var patterns = buildPatterns()

func buildPatterns() []*regexp.Regexp {
	var out []*regexp.Regexp

	// Quoted property form: "label":"Open File" / 'title': 'Save'
	for _, prop := range uiProperties {
		out = append(out, regexp.MustCompile(
			`['"]`+regexp.QuoteMeta(prop)+`['"]\s*:\s*['"]([^'"\\]+)['"]`))
	}

	// Minified property form: label:"Open File" (no quotes on the name).
	out = append(out, regexp.MustCompile(
		`\b(?:`+strings.Join(uiProperties, "|")+`):"([^"\\]{2,})"`))

	// Literal returned from a code expression: return "Auto-scroll to bottom"
	out = append(out, regexp.MustCompile(`\breturn\s+"([^"\\]{3,})"`))

	// Arrow-function children: children:()=>"Settings"
	out = append(out, regexp.MustCompile(`\bchildren:\(\)\s*=>\s*"([^"\\]{3,})"`))

	// Capitalized sentence(s) ending in a period:
	// "If on, none of your code will be stored by us."
	out = append(out, regexp.MustCompile(`"((?:[A-Z][^".\\]+\.)+)"`))

	return out
}

// Exclusion shapes. A match hitting any of these is discarded.
var excludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[0-9]+$`),                                  // pure numeric
	regexp.MustCompile(`^[a-zA-Z0-9]{1,3}$`),                        // short alphanumeric token
	regexp.MustCompile(`^https?://`),                                // URL
	regexp.MustCompile(`^www\.`),                                    // URL without scheme
	regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`), // email
	regexp.MustCompile(`^[a-zA-Z0-9._/\-\\]+$`),                     // bare path or identifier
}

// punctuationOnly are strings that are a lone separator once trimmed.
var punctuationOnly = map[string]bool{",": true, ".": true, ":": true, ";": true}

// Options controls optional extraction behavior.
type Options struct {
	// ScriptGuard drops candidates whose detected writing script is not
	// Latin. Useful when a bundle has already been partially localized:
	// previously substituted translations must not be re-extracted as
	// source keys.
	ScriptGuard bool
}

// Extract returns the sorted, deduplicated set of candidate UI strings
// found in content. It is a pure function of its input.
func Extract(content string) []string {
	return ExtractWithOptions(content, Options{})
}

// ExtractWithOptions is Extract with explicit options.
func ExtractWithOptions(content string, opts Options) []string {
	seen := make(map[string]bool)

	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			// The candidate is always the last capture group.
			seen[m[len(m)-1]] = true
		}
	}

	var out []string
	for s := range seen {
		if !keep(s, opts) {
			continue
		}
		out = append(out, s)
	}

	sort.Strings(out)
	return out
}

// keep applies the noise filters to a single candidate.
func keep(s string, opts Options) bool {
	if punctuationOnly[strings.TrimSpace(s)] {
		return false
	}
	if len(s) < MinLength || len(s) > MaxLength {
		return false
	}
	if !hasLetter(s) {
		return false
	}
	for _, re := range excludePatterns {
		if re.MatchString(s) {
			return false
		}
	}
	if opts.ScriptGuard && !isLatinScript(s) {
		return false
	}
	return true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func isLatinScript(s string) bool {
	script := whatlanggo.DetectScript(s)
	return script == nil || script == unicode.Latin
}

// SaveStrings writes candidates to path as a newline-delimited UTF-8
// artifact, one string per line, in the given (already sorted) order.
func SaveStrings(candidates []string, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	var b strings.Builder
	for _, s := range candidates {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing strings file: %w", err)
	}
	return nil
}
