// Package subst rewrites bundle text by replacing quoted occurrences of
// translated keys with their translations.
//
// The engine never parses the bundle. It looks for each key wrapped in
// one of the two literal quoting conventions the bundle uses ("..." and
// '...') and swaps the whole quoted literal for the translation in the
// same convention. Keys are applied longest first so that a short key
// can never clobber the inside of a longer key's literal.
package subst

import (
	"sort"
	"strings"

	"github.com/uitrans/uitrans/store"
)

// minKeyLength is the shortest key the engine will substitute. Anything
// shorter collides with too many unrelated tokens in minified code.
const minKeyLength = 3

// quoteRunes are the literal quoting conventions recognized in the bundle.
var quoteRunes = []string{`"`, `'`}

// Result reports what a substitution pass did.
type Result struct {
	// Keys is the number of distinct keys that caused at least one
	// replacement.
	Keys int
	// Occurrences is the total number of quoted literals replaced.
	Occurrences int
}

// Apply replaces every quoted occurrence of each translated key in
// content and returns the rewritten text with a Result. Keys with empty
// translations and keys shorter than three characters are skipped.
//
// Apply is deterministic and idempotent: once a key's literals have been
// rewritten they no longer match the original key, so a second pass over
// the output is a no-op.
func Apply(content string, s store.Store) (string, Result) {
	keys := orderedKeys(s)

	var res Result
	for _, key := range keys {
		replaced := 0
		for _, q := range quoteRunes {
			quoted := q + key + q
			n := strings.Count(content, quoted)
			if n == 0 {
				continue
			}
			content = strings.ReplaceAll(content, quoted, q+s[key]+q)
			replaced += n
		}
		if replaced > 0 {
			res.Keys++
			res.Occurrences += replaced
		}
	}

	return content, res
}

// orderedKeys returns the applicable keys in descending length order,
// ties broken lexicographically so the pass order is reproducible.
func orderedKeys(s store.Store) []string {
	keys := make([]string, 0, len(s))
	for key, value := range s {
		if value == "" || len(key) < minKeyLength {
			continue
		}
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
