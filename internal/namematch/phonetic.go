package namematch

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// PhoneticKey collapses a name token to a soundalike key. The primary key is
// the Double Metaphone code; when it comes back empty (non-Latin input,
// digits) we fall back to a consonant skeleton: vowels and whitespace
// stripped, repeated letters collapsed.
//
// The key is only safe as a last-name equality relaxation. Used alone it
// accepts far too many false positives, so callers must corroborate with a
// first-name check before trusting it.
func PhoneticKey(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return ""
	}
	if primary, _ := matchr.DoubleMetaphone(t); primary != "" {
		return primary
	}
	return consonantSkeleton(t)
}

func consonantSkeleton(s string) string {
	var b strings.Builder
	var prev rune
	for _, r := range s {
		switch r {
		case 'a', 'e', 'i', 'o', 'u', ' ', '\t':
			continue
		}
		if r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}
