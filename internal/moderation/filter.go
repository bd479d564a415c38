package moderation

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultBlockedTerms covers explicit sexual content, violence, hate speech and profanity.
var DefaultBlockedTerms = []string{
	"nsfw",
	"nude",
	"naked",
	"sex",
	"sexual",
	"porn",
	"adult",
	"explicit",
	"inappropriate",
	"violence",
	"gore",
	"bloody",
	"weapon",
	"gun",
	"knife",
	"hate",
	"racist",
	"discrimination",
	"offensive",
	"vulgar",
	"profanity",
}

// Filter flags text containing any blocked term as a substring, ignoring case.
// There are no word-boundary checks: "gun" also matches "begun".
type Filter struct {
	terms []string
}

// NewFilter builds a filter from terms. A nil or empty list uses DefaultBlockedTerms.
func NewFilter(terms []string) *Filter {
	if len(terms) == 0 {
		terms = DefaultBlockedTerms
	}

	normalized := make([]string, 0, len(terms))
	for _, term := range terms {
		term = lower(strings.TrimSpace(term))
		if term != "" {
			normalized = append(normalized, term)
		}
	}

	return &Filter{terms: normalized}
}

// Flagged reports whether text contains a blocked term.
func (f *Filter) Flagged(text string) bool {
	if text == "" {
		return false
	}
	folded := lower(text)
	for _, term := range f.terms {
		if strings.Contains(folded, term) {
			return true
		}
	}
	return false
}

// Terms returns a copy of the normalized block-list.
func (f *Filter) Terms() []string {
	out := make([]string, len(f.terms))
	copy(out, f.terms)
	return out
}

// Casers carry state, so each call gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
