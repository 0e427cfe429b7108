package namematch

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrTimeout is returned when a candidate scan exceeds its wall-clock
// budget. Callers treat it as "no match", never as a request failure.
var ErrTimeout = errors.New("name scan exceeded time budget")

// Candidate is the metadata-light projection of a stored report that the
// scanner scores against a query.
type Candidate struct {
	ID     int64
	Name   string
	Team   string
	League string
}

// Match is one scored candidate.
type Match struct {
	Candidate Candidate
	Score     int
	Alignment Alignment
}

// Scanner scores a bounded window of report candidates against a query name.
// The zero value uses a 3 second budget.
type Scanner struct {
	// Budget is the wall-clock limit for one scan. When exceeded the scan
	// aborts with ErrTimeout so a slow store degrades to generation instead
	// of blocking the caller.
	Budget time.Duration
}

const defaultScanBudget = 3 * time.Second

func (s *Scanner) budget() time.Duration {
	if s == nil || s.Budget <= 0 {
		return defaultScanBudget
	}
	return s.Budget
}

// FindExactCanonical looks for a candidate whose canonical name equals the
// query's: identical normalized forms, or same surname (exact, phonetic, or
// one-typo tolerant) with the same nickname-canonicalized first name.
// A hit is a perfect match and is reported with score 100; the caller still
// routes it through the suggest/accept path so cross-user credit accounting
// stays explicit.
func (s *Scanner) FindExactCanonical(ctx context.Context, query string, candidates []Candidate, teamHint, leagueHint string) (*Match, error) {
	queryNorm := Normalize(query, true)
	if queryNorm == "" {
		return nil, nil
	}
	firstQ, lastQ := splitFirstLast(queryNorm)
	firstQCanon := CanonicalFirst(firstQ)
	leagueNorm := strings.ToLower(strings.TrimSpace(leagueHint))
	teamNorm := strings.ToLower(strings.TrimSpace(teamHint))

	started := time.Now()
	for _, c := range candidates {
		if err := scanCheckpoint(ctx, started, s.budget()); err != nil {
			return nil, err
		}
		nameNorm := Normalize(c.Name, true)
		if nameNorm == "" {
			continue
		}

		exact := queryNorm == nameNorm
		if !exact {
			firstC, lastC := splitFirstLast(nameNorm)
			lastMatch := lastQ == lastC
			if !lastMatch {
				if pk := PhoneticKey(lastQ); pk != "" && pk == PhoneticKey(lastC) {
					lastMatch = true
				} else if len(lastQ) >= 5 && len(lastC) >= 5 && Ratio(lastQ, lastC) >= 85 {
					lastMatch = true
				}
			}
			exact = lastMatch && firstQCanon == CanonicalFirst(firstC)
		}
		if !exact {
			continue
		}

		candLeague := strings.ToLower(strings.TrimSpace(c.League))
		candTeam := strings.ToLower(strings.TrimSpace(c.Team))
		if leagueNorm != "" && candLeague != "" && leagueNorm != candLeague {
			continue
		}
		if teamNorm != "" && candTeam != "" && teamNorm != candTeam {
			continue
		}
		if !LastNamesAlign(queryNorm, nameNorm) {
			continue
		}

		return &Match{Candidate: c, Score: 100, Alignment: Align(queryNorm, nameNorm)}, nil
	}
	return nil, nil
}

// Scan fuzzy-scores every candidate against the query and returns the
// matches ranked best-first. capBelow is the suggest threshold in effect:
// surname-only collisions are capped to capBelow-1 so they can never
// auto-match (the surname-collision guard).
func (s *Scanner) Scan(ctx context.Context, query string, candidates []Candidate, teamHint, leagueHint string, capBelow int) ([]Match, error) {
	queryNorm := Normalize(query, true)
	if queryNorm == "" {
		return nil, nil
	}
	leagueNorm := strings.ToLower(strings.TrimSpace(leagueHint))
	teamNorm := strings.ToLower(strings.TrimSpace(teamHint))

	started := time.Now()
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		if err := scanCheckpoint(ctx, started, s.budget()); err != nil {
			return nil, err
		}
		nameNorm := Normalize(c.Name, true)
		if nameNorm == "" {
			continue
		}

		candLeague := strings.ToLower(strings.TrimSpace(c.League))
		candTeam := strings.ToLower(strings.TrimSpace(c.Team))
		// Same-league reports only when the caller pinned a league. This
		// blocks cross-league surname collisions outright.
		if leagueNorm != "" && candLeague != "" && leagueNorm != candLeague {
			continue
		}

		score := TokenSortRatio(queryNorm, nameNorm)
		if s2 := TokenSetRatio(queryNorm, nameNorm); s2 > score {
			score = s2
		}

		aln := Align(queryNorm, nameNorm)
		hintMatches := (leagueNorm != "" && candLeague != "" && leagueNorm == candLeague) ||
			(teamNorm != "" && candTeam != "" && teamNorm == candTeam)

		strongLast := aln.LastSim >= 85 || aln.LastQ == aln.LastC
		if !strongLast && PhoneticKey(aln.LastQ) == PhoneticKey(aln.LastC) && aln.LastQ != "" {
			strongLast = true
		}
		firstQCanon := CanonicalFirst(aln.FirstQ)
		firstCCanon := CanonicalFirst(aln.FirstC)
		strongFirst := aln.FirstSim >= FirstNameRequire || firstQCanon == firstCCanon

		if strongLast && (strongFirst || hintMatches) {
			// Surname plus corroborated first name (or a matching team/league
			// hint) outranks whatever the token score said.
			if score < 88 {
				score = 88
			}
		}

		// Surname-collision guard: identical or near-identical surnames with
		// clearly different first names must never climb past suggest.
		if aln.LastSim >= 75 || aln.LastQ == aln.LastC {
			prefixCompatible := firstQCanon != "" && firstCCanon != "" &&
				(strings.HasPrefix(aln.FirstQ, aln.FirstC) || strings.HasPrefix(aln.FirstC, aln.FirstQ))
			if firstQCanon != firstCCanon && aln.FirstSim < 80 && !prefixCompatible && !hintMatches {
				if limit := capBelow - 1; score > limit {
					score = limit
				}
			}
		}

		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Candidate: c, Score: score, Alignment: aln})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches, nil
}

func scanCheckpoint(ctx context.Context, started time.Time, budget time.Duration) error {
	if err := ctx.Err(); err != nil {
		return ErrTimeout
	}
	if time.Since(started) > budget {
		return ErrTimeout
	}
	return nil
}
