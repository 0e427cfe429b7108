// Package match implements the staged identity-resolution policy that
// decides whether a queried player maps onto a stored report. Stages run
// cheapest-safest first: exact canonical comparison, then embedding
// similarity, then fuzzy name scoring. Any stage error degrades to the
// next stage so a broken embedding backend never blocks a lookup.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scoutbot/internal/contextutil"
	"scoutbot/internal/embedding"
	"scoutbot/internal/namematch"
	"scoutbot/internal/storage"
)

// Kind classifies a resolution outcome.
type Kind string

const (
	// Auto means the match is confident enough to reuse without asking.
	Auto Kind = "auto"
	// Suggest means the match should be offered to the user for approval.
	Suggest Kind = "suggest"
	// Miss means no stored report matched.
	Miss Kind = "miss"
)

// Query is one player lookup. Team and League are optional hints.
type Query struct {
	Player string
	Team   string
	League string
}

// Decision is the outcome of a resolution run.
type Decision struct {
	Kind       Kind
	ReportID   int64
	OwnerID    string
	PlayerName string
	// Score is on the fuzzy 0-100 scale; embedding similarities are
	// mapped onto it so callers see one scale.
	Score int
	// Exact marks a canonical-identity hit. It is reported as a suggest
	// with score 100 so credit accounting stays explicit for cross-user
	// reuse, but callers may accept it without user interaction.
	Exact bool
	// Stage names the stage that produced the decision.
	Stage string
}

// embedNeighborWindow bounds how far down the ranked embedding neighbors
// the resolver will look when the best one violates a league or team hint.
const embedNeighborWindow = 2

// Resolver runs the staged matching pipeline over a candidate scope.
type Resolver struct {
	reports storage.ReportStore
	index   embedding.Index
	// Scanner performs the exact and fuzzy passes. Adjust its Budget to
	// bound scan time.
	Scanner    *namematch.Scanner
	Thresholds Thresholds
}

// NewResolver builds a resolver. index may be nil, which disables the
// embedding stage.
func NewResolver(reports storage.ReportStore, index embedding.Index, th Thresholds) *Resolver {
	return &Resolver{
		reports:    reports,
		index:      index,
		Scanner:    &namematch.Scanner{},
		Thresholds: th,
	}
}

// Resolve runs the full pipeline for a query over the given candidate
// scope (a user ID, or storage.GlobalScope for the whole corpus). It
// returns a Miss decision rather than an error when nothing matched.
func (r *Resolver) Resolve(ctx context.Context, scope string, q Query) (*Decision, error) {
	logger := contextutil.LoggerFromContext(ctx)

	queryNorm := namematch.Normalize(q.Player, true)
	if queryNorm == "" {
		return &Decision{Kind: Miss}, nil
	}

	candidates, byID, err := r.loadCandidates(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &Decision{Kind: Miss}, nil
	}

	if d := r.exactStage(ctx, q, candidates, byID); d != nil {
		return d, nil
	}

	if d := r.embeddingStage(ctx, queryNorm, q, byID); d != nil {
		return d, nil
	}

	hasLeague := strings.TrimSpace(q.League) != ""
	auto, suggest := r.Thresholds.fuzzy(hasLeague)
	if d := r.fuzzyStage(ctx, queryNorm, q, candidates, byID, auto, suggest); d != nil {
		return d, nil
	}

	logger.DebugContext(ctx, "no match in any stage", "query", queryNorm, "candidates", len(candidates))
	return &Decision{Kind: Miss}, nil
}

// ResolveFallback reruns only the fuzzy stage with the stricter fallback
// cutoffs. It is used after a generation attempt reported the subject as
// unknown: a stored report may still cover the player under a variant
// spelling, but the bar for trusting one is higher.
func (r *Resolver) ResolveFallback(ctx context.Context, scope string, q Query) (*Decision, error) {
	queryNorm := namematch.Normalize(q.Player, true)
	if queryNorm == "" {
		return &Decision{Kind: Miss}, nil
	}

	candidates, byID, err := r.loadCandidates(ctx, scope)
	if err != nil {
		return nil, err
	}

	hasLeague := strings.TrimSpace(q.League) != ""
	auto, suggest := r.Thresholds.fallback(hasLeague)
	if d := r.fuzzyStage(ctx, queryNorm, q, candidates, byID, auto, suggest); d != nil {
		d.Stage = "fallback"
		return d, nil
	}
	return &Decision{Kind: Miss}, nil
}

func (r *Resolver) loadCandidates(ctx context.Context, scope string) ([]namematch.Candidate, map[int64]*storage.ReportRecord, error) {
	limit := storage.UserScanLimit
	if scope == storage.GlobalScope {
		limit = storage.GlobalScanLimit
	}
	records, err := r.reports.ListCandidates(ctx, scope, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list match candidates: %w", err)
	}

	candidates := make([]namematch.Candidate, 0, len(records))
	byID := make(map[int64]*storage.ReportRecord, len(records))
	for _, rec := range records {
		candidates = append(candidates, namematch.Candidate{
			ID:     rec.ID,
			Name:   rec.PlayerName,
			Team:   rec.Team,
			League: rec.League,
		})
		byID[rec.ID] = rec
	}
	return candidates, byID, nil
}

func (r *Resolver) exactStage(ctx context.Context, q Query, candidates []namematch.Candidate, byID map[int64]*storage.ReportRecord) *Decision {
	logger := contextutil.LoggerFromContext(ctx)

	m, err := r.Scanner.FindExactCanonical(ctx, q.Player, candidates, q.Team, q.League)
	if err != nil {
		logger.WarnContext(ctx, "exact scan aborted", "error", err)
		return nil
	}
	if m == nil {
		return nil
	}

	rec := byID[m.Candidate.ID]
	logger.InfoContext(ctx, "exact canonical match",
		"report_id", m.Candidate.ID, "player", rec.PlayerName)
	return &Decision{
		Kind:       Suggest,
		ReportID:   rec.ID,
		OwnerID:    rec.UserID,
		PlayerName: rec.PlayerName,
		Score:      100,
		Exact:      true,
		Stage:      "exact",
	}
}

func (r *Resolver) embeddingStage(ctx context.Context, queryNorm string, q Query, byID map[int64]*storage.ReportRecord) *Decision {
	if r.index == nil {
		return nil
	}
	logger := contextutil.LoggerFromContext(ctx)

	vec, err := r.index.QueryVector(ctx, queryNorm)
	if err != nil {
		logger.WarnContext(ctx, "query embedding unavailable, skipping embedding stage", "error", err)
		return nil
	}
	scored, err := r.index.Similar(ctx, vec)
	if err != nil {
		logger.WarnContext(ctx, "similarity search failed, skipping embedding stage", "error", err)
		return nil
	}

	leagueNorm := strings.ToLower(strings.TrimSpace(q.League))
	teamNorm := strings.ToLower(strings.TrimSpace(q.Team))

	// Walk the ranked neighbors. A hint mismatch disqualifies a neighbor
	// but only within a small window: past it the similarity has dropped
	// enough that hint-repair is just noise.
	examined := 0
	for _, s := range scored {
		rec, ok := byID[s.ReportID]
		if !ok {
			continue
		}
		examined++
		if examined > embedNeighborWindow {
			break
		}

		if leagueNorm != "" {
			if cl := strings.ToLower(strings.TrimSpace(rec.League)); cl != "" && cl != leagueNorm {
				continue
			}
		} else if teamNorm != "" {
			if ct := strings.ToLower(strings.TrimSpace(rec.Team)); ct != "" && ct != teamNorm {
				continue
			}
		}

		candNorm := namematch.Normalize(rec.PlayerName, true)
		score := int(s.Score * 100)
		if !namematch.LastNamesAlign(queryNorm, candNorm) {
			continue
		}
		if !namematch.FirstNamesAligned(queryNorm, candNorm, score, r.Thresholds.VeryStrong) {
			continue
		}

		d := &Decision{
			ReportID:   rec.ID,
			OwnerID:    rec.UserID,
			PlayerName: rec.PlayerName,
			Score:      score,
			Stage:      "embedding",
		}
		switch {
		case s.Score >= r.Thresholds.EmbedAuto:
			d.Kind = Auto
		case s.Score >= r.Thresholds.embedSuggest(leagueNorm != ""):
			d.Kind = Suggest
		default:
			return nil
		}
		logger.InfoContext(ctx, "embedding match",
			"report_id", rec.ID, "player", rec.PlayerName,
			"similarity", s.Score, "decision", string(d.Kind))
		return d
	}
	return nil
}

func (r *Resolver) fuzzyStage(ctx context.Context, queryNorm string, q Query, candidates []namematch.Candidate, byID map[int64]*storage.ReportRecord, auto, suggest int) *Decision {
	logger := contextutil.LoggerFromContext(ctx)

	matches, err := r.Scanner.Scan(ctx, q.Player, candidates, q.Team, q.League, suggest)
	if err != nil {
		if errors.Is(err, namematch.ErrTimeout) {
			logger.WarnContext(ctx, "fuzzy scan timed out", "candidates", len(candidates))
			return nil
		}
		logger.WarnContext(ctx, "fuzzy scan failed", "error", err)
		return nil
	}

	for _, m := range matches {
		if m.Score < suggest {
			break
		}
		rec := byID[m.Candidate.ID]
		candNorm := namematch.Normalize(rec.PlayerName, true)
		if !namematch.LastNamesAlign(queryNorm, candNorm) {
			continue
		}
		if !namematch.FirstNamesAligned(queryNorm, candNorm, m.Score, r.Thresholds.VeryStrong) {
			continue
		}

		d := &Decision{
			ReportID:   rec.ID,
			OwnerID:    rec.UserID,
			PlayerName: rec.PlayerName,
			Score:      m.Score,
			Stage:      "fuzzy",
		}
		if m.Score >= auto {
			d.Kind = Auto
		} else {
			d.Kind = Suggest
		}
		logger.InfoContext(ctx, "fuzzy match",
			"report_id", rec.ID, "player", rec.PlayerName,
			"score", m.Score, "decision", string(d.Kind))
		return d
	}
	return nil
}
