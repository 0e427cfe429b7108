// Package namematch implements player name normalization and matching:
// unicode folding, phonetic keys, nickname canonicalization, first/last-name
// alignment scoring, and the fuzzy candidate scan used for deduplication.
package namematch

import (
	"strings"
	"unicode"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds a player/team/league string into its comparable form:
// trim, NFKC compose, optional ASCII transliteration, combining-mark strip,
// lower-case, punctuation to spaces, whitespace collapse.
// It never fails; empty input yields the empty string, and the result is
// stable under re-application.
func Normalize(raw string, transliterate bool) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = norm.NFKC.String(s)
	if transliterate {
		s = unidecode.Unidecode(s)
	}

	// Decompose so diacritics become standalone combining marks, then drop them.
	s = norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	s = strings.ToLower(b.String())
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return ' '
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// splitFirstLast returns the first and last tokens of a normalized name.
// A single-token name yields the same token for both.
func splitFirstLast(nameNorm string) (first, last string) {
	parts := strings.Fields(nameNorm)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], parts[len(parts)-1]
}
