package namematch

import "strings"

// nicknameMap maps informal, misspelled, or transliterated given names to
// their canonical form. Keys and values are lowercase. Applied only to the
// first token of a normalized name.
var nicknameMap = map[string]string{
	// Greek diminutives and transliteration variants
	"kostas":   "konstantinos",
	"kotsas":   "konstantinos",
	"kostaras": "konstantinos",
	"kostis":   "konstantinos",
	"konsta":   "konstantinos",

	"gianis": "giannis",
	"yianis": "giannis",
	"gannis": "giannis",

	// Anglophone diminutives
	"ken":    "kenneth",
	"kenny":  "kenneth",
	"bob":    "robert",
	"bobby":  "robert",
	"bill":   "william",
	"billy":  "william",
	"will":   "william",
	"willie": "william",
	"mike":   "michael",
	"mikey":  "michael",
	"chris":  "christopher",
	"tony":   "anthony",
	"joe":    "joseph",
	"joey":   "joseph",
	"dan":    "daniel",
	"danny":  "daniel",
	"dave":   "david",
	"matt":   "matthew",
	"matty":  "matthew",
	"steve":  "steven",
	"stevie": "steven",
	"jim":    "james",
	"jimmy":  "james",
	"tom":    "thomas",
	"tommy":  "thomas",

	// European variants
	"luca": "luka",
}

// CanonicalFirst maps an informal first-name token to its canonical form.
// A lookup miss returns the input unchanged.
func CanonicalFirst(token string) string {
	if canonical, ok := nicknameMap[token]; ok {
		return canonical
	}
	return token
}

// CanonicalName normalizes a raw name and folds the first token through the
// nickname table, producing the form used for equality comparison.
func CanonicalName(raw string) string {
	parts := strings.Fields(Normalize(raw, true))
	if len(parts) == 0 {
		return ""
	}
	parts[0] = CanonicalFirst(parts[0])
	return strings.Join(parts, " ")
}
