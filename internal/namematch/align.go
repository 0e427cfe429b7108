package namematch

import "strings"

// First-name agreement thresholds shared by the fuzzy scanner and the
// embedding safety check. Surnames dominate the weighted alignment score, so
// every consumer must confirm the first name before trusting a match.
const (
	// FirstNameRequire is the similarity a first name normally needs.
	FirstNameRequire = 60
	// FirstNameSecondary is the looser bar allowed only when the overall
	// match score clears the caller's very-strong ceiling.
	FirstNameSecondary = 40
)

// Alignment is the first/last-name pairing between a query and a candidate,
// after choosing between direct and crossed orientation.
type Alignment struct {
	FirstQ, LastQ string
	FirstC, LastC string
	FirstSim      int
	LastSim       int
	Crossed       bool
}

// WeightedScore favors the surname: surnames carry more discriminating
// weight than given names in most naming conventions.
func (a Alignment) WeightedScore() int {
	return 2*a.LastSim + a.FirstSim
}

// Align computes first/last-name similarity between two normalized names.
// It evaluates both the direct orientation (first-vs-first, last-vs-last)
// and the crossed one (first-vs-last, last-vs-first), so "Surname Given"
// input scores the same as "Given Surname", and returns whichever
// orientation wins on the weighted score.
func Align(queryNorm, candNorm string) Alignment {
	fq, lq := splitFirstLast(queryNorm)
	fc, lc := splitFirstLast(candNorm)

	direct := Alignment{
		FirstQ: fq, LastQ: lq,
		FirstC: fc, LastC: lc,
		FirstSim: TokenSetRatio(fq, fc),
		LastSim:  TokenSetRatio(lq, lc),
	}
	crossed := Alignment{
		FirstQ: fq, LastQ: lq,
		FirstC: lc, LastC: fc,
		FirstSim: TokenSetRatio(fq, lc),
		LastSim:  TokenSetRatio(lq, fc),
		Crossed:  true,
	}
	if crossed.WeightedScore() > direct.WeightedScore() {
		return crossed
	}
	return direct
}

// LastNamesAlign reports whether the surnames of two normalized names agree:
// exact, phonetic, or near-exact for longer names (one-typo tolerance). The
// comparison uses the winning Align orientation, so "Surname Given" input
// aligns against "Given Surname".
func LastNamesAlign(queryNorm, candNorm string) bool {
	aln := Align(queryNorm, candNorm)
	return lastTokensAgree(aln.LastQ, aln.LastC)
}

func lastTokensAgree(lq, lc string) bool {
	if lq == "" || lc == "" {
		return false
	}
	if lq == lc {
		return true
	}
	if pk := PhoneticKey(lq); pk != "" && pk == PhoneticKey(lc) {
		return true
	}
	if len(lq) >= 5 && len(lc) >= 5 && Ratio(lq, lc) >= 85 {
		return true
	}
	return false
}

// FirstNamesAligned reports whether the first names agree well enough to
// trust a match that already scored `score` (0-100). Nickname-canonical
// equality and prefix compatibility always pass; otherwise the similarity
// must reach FirstNameRequire, or FirstNameSecondary when the score exceeds
// veryStrong.
func FirstNamesAligned(queryNorm, candNorm string, score, veryStrong int) bool {
	aln := Align(queryNorm, candNorm)
	fq := CanonicalFirst(aln.FirstQ)
	fc := CanonicalFirst(aln.FirstC)
	if fq != "" && fq == fc {
		return true
	}
	if fq != "" && fc != "" && (strings.HasPrefix(fq, fc) || strings.HasPrefix(fc, fq)) {
		return true
	}
	if aln.FirstSim >= FirstNameRequire {
		return true
	}
	return score >= veryStrong && aln.FirstSim >= FirstNameSecondary
}
