// Package language provides unified language code normalization.
//
// Catalog rows carry BCP-47 style codes ("te", "en", "pt-BR"); editorial
// input arrives in mixed case and with occasional region noise. All
// comparisons between asset languages, content URL keys, and primary
// language fields go through this package so a single canonical form is
// used everywhere.
package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Normalize parses a language code and returns its canonical base form
// ("TE" -> "te", "pt-BR" -> "pt-BR"). Unparseable input returns the
// lowercased trimmed original so stored data is still comparable.
func Normalize(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}
	return tag.String()
}

// Valid reports whether the code parses as a BCP-47 language tag.
func Valid(code string) bool {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return false
	}
	_, err := language.Parse(trimmed)
	return err == nil
}

// Equal reports whether two codes refer to the same language after
// normalization.
func Equal(a, b string) bool {
	na := Normalize(a)
	nb := Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb
}

// DisplayName returns a human-readable English name for a language code,
// falling back to the code itself when unrecognized.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return strings.ToUpper(trimmed)
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return strings.ToUpper(trimmed)
	}
	return name
}
