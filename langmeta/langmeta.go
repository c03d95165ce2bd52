// Package langmeta provides the registry of translation target languages
// (native names and emoji flags) shared by the CLI and the translator.
package langmeta

import (
	"sort"
	"strings"
)

// Meta describes language display metadata.
type Meta struct {
	Name string
	Flag string
}

// Registry contains the languages the translation provider accepts as
// targets. Locale variants (pt_BR, zh-TW, ...) are resolved in Resolve()
// via normalization and base fallback.
var Registry = map[string]Meta{
	"de": {Name: "Deutsch", Flag: "🇩🇪"},
	"es": {Name: "Español", Flag: "🇪🇸"},
	"fr": {Name: "Français", Flag: "🇫🇷"},
	"it": {Name: "Italiano", Flag: "🇮🇹"},
	"ja": {Name: "日本語", Flag: "🇯🇵"},
	"ko": {Name: "한국어", Flag: "🇰🇷"},
	"pt": {Name: "Português", Flag: "🇵🇹"},
	"ru": {Name: "Русский", Flag: "🇷🇺"},
	"zh": {Name: "中文", Flag: "🇨🇳"},
}

// Supported returns the sorted list of supported target language codes.
func Supported() []string {
	codes := make([]string, 0, len(Registry))
	for code := range Registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// IsSupported reports whether lang resolves to a supported target code.
func IsSupported(lang string) bool {
	_, ok := Registry[Base(lang)]
	return ok
}

// Base returns the lowercase base code of a possibly region-qualified
// language tag ("pt_BR" -> "pt", "zh-TW" -> "zh").
func Base(lang string) string {
	normalized := canonicalize(lang)
	if idx := strings.IndexByte(normalized, '-'); idx >= 0 {
		return normalized[:idx]
	}
	return normalized
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort language metadata for language codes,
// supporting variants like pt_BR, pt-BR, and locale fallbacks.
func Resolve(lang string) Meta {
	if m, ok := Registry[lang]; ok {
		return m
	}
	normalized := canonicalize(lang)
	if m, ok := Registry[normalized]; ok {
		return m
	}
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		if m, ok := Registry[parts[0]]; ok {
			return m
		}
	}
	return Meta{Name: lang, Flag: ""}
}
