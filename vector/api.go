package vector

import (
	"slices"
	"strings"
)

// Document is one parsed recipe. ID is its position in the store and the
// only key shared with the weakness and full-text indices.
type Document struct {
	ID       int
	Metadata Metadata
	Content  string
}

// Metadata carries the header fields of a recipe. Tags and Languages are
// treated as sets; NormalizeSet produces the canonical form.
type Metadata struct {
	WeaknessID string
	Tags       []string
	Languages  []string
}

// HasLanguage reports whether lang is one of the document languages,
// ignoring case and surrounding whitespace.
func (m Metadata) HasLanguage(lang string) bool {
	lang = NormalizeLabel(lang)
	if lang == "" {
		return false
	}
	for _, l := range m.Languages {
		if NormalizeLabel(l) == lang {
			return true
		}
	}
	return false
}

// NormalizeLabel lower-cases and trims a tag or language.
func NormalizeLabel(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// NormalizeSet returns the sorted, de-duplicated, normalized labels; empty
// entries are dropped. A nil result means the set is empty.
func NormalizeSet(labels []string) []string {
	var out []string
	for _, l := range labels {
		if n := NormalizeLabel(l); n != "" {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
