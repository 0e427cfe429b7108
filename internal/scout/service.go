// Package scout implements the resolve-or-generate orchestrator: resolve a
// player query against the stored report library, and only when nothing
// matches, charge a credit and generate a fresh report.
package scout

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks scoutbot/internal/scout Generator
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_matcher.go -package=mocks scoutbot/internal/scout Matcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"scoutbot/internal/contextutil"
	"scoutbot/internal/embedding"
	"scoutbot/internal/ledger"
	"scoutbot/internal/llm"
	"scoutbot/internal/match"
	"scoutbot/internal/namematch"
	"scoutbot/internal/reportparse"
	"scoutbot/internal/storage"

	"github.com/google/uuid"
)

// Generator produces scouting reports. This interface is defined from the
// orchestrator's perspective (consumer-first).
type Generator interface {
	// GenerateReport writes a full markdown report for the request, or a
	// not-found sentinel body when the player cannot be verified.
	GenerateReport(ctx context.Context, req llm.ReportRequest) (*llm.Report, error)
}

// Matcher resolves a query against the stored report library.
type Matcher interface {
	// Resolve runs the full exact/embedding/fuzzy pipeline.
	Resolve(ctx context.Context, scope string, q match.Query) (*match.Decision, error)
	// ResolveFallback runs only the stricter fuzzy pass used after the
	// generator reported the player as unknown.
	ResolveFallback(ctx context.Context, scope string, q match.Query) (*match.Decision, error)
}

// Request is one resolve-or-generate call.
type Request struct {
	UserID string
	Player string
	Team   string
	League string
	Season string
	UseWeb bool
	// Refresh bypasses the cached-report shortcut and regenerates.
	Refresh bool
	// AcceptSuggestion confirms a previously returned suggestion.
	AcceptSuggestion bool
	SuggestionID     int64
}

// ReportPayload is the user-facing view of a stored report.
type ReportPayload struct {
	ID         int64     `json:"id"`
	PlayerName string    `json:"player_name"`
	Team       string    `json:"team,omitempty"`
	League     string    `json:"league,omitempty"`
	Season     string    `json:"season,omitempty"`
	Markdown   string    `json:"markdown"`
	Cached     bool      `json:"cached"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Usage      llm.Usage `json:"usage,omitempty"`
}

// SuggestionPayload asks the caller to confirm a probable match.
type SuggestionPayload struct {
	ReportID   int64  `json:"report_id"`
	PlayerName string `json:"player_name"`
	Team       string `json:"team,omitempty"`
	League     string `json:"league,omitempty"`
	Score      int    `json:"score"`
	Exact      bool   `json:"exact"`
}

// Result is either a report or a suggestion, never both.
type Result struct {
	Report     *ReportPayload     `json:"report,omitempty"`
	Suggestion *SuggestionPayload `json:"suggestion,omitempty"`
	Balance    int64              `json:"balance"`
}

// Options carries the tunable credit amounts.
type Options struct {
	// WelcomeCredits is the one-time signup grant. Zero disables it.
	WelcomeCredits int64
	// ReportCost is the debit per generated or adopted report.
	ReportCost int64
}

// Service orchestrates matching, credit accounting, and generation.
type Service struct {
	reports   storage.ReportStore
	aliases   storage.AliasStore
	credits   ledger.Ledger
	matcher   Matcher
	generator Generator
	index     embedding.Index
	parser    *reportparse.Parser
	opts      Options

	// newID mints ledger idempotency keys for generation debits.
	// Swappable in tests.
	newID func() string
}

// NewService creates the orchestrator. index may be nil, which disables
// vector indexing of new reports.
func NewService(reports storage.ReportStore, aliases storage.AliasStore, credits ledger.Ledger, matcher Matcher, generator Generator, index embedding.Index, opts Options) *Service {
	if opts.ReportCost <= 0 {
		opts.ReportCost = 1
	}
	return &Service{
		reports:   reports,
		aliases:   aliases,
		credits:   credits,
		matcher:   matcher,
		generator: generator,
		index:     index,
		parser:    reportparse.New(),
		opts:      opts,
		newID:     uuid.NewString,
	}
}

// QueryKey builds the deterministic cache key for a query tuple. Struct
// marshaling keeps field order stable, so equal tuples always collide.
func QueryKey(player, team string, useWeb bool) string {
	b, _ := json.Marshal(struct {
		Player string `json:"player"`
		Team   string `json:"team"`
		UseWeb bool   `json:"use_web"`
	}{
		Player: namematch.Normalize(player, true),
		Team:   namematch.Normalize(team, true),
		UseWeb: useWeb,
	})
	return string(b)
}

// Resolve runs the resolve-or-generate pipeline for one query.
func (s *Service) Resolve(ctx context.Context, req Request) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req.Player = strings.TrimSpace(req.Player)
	if req.Player == "" && !req.AcceptSuggestion {
		return nil, &ValidationError{Field: "player", Message: "player name is required"}
	}
	if req.UserID == "" {
		return nil, &ValidationError{Field: "user", Message: "user id is required"}
	}

	s.grantWelcome(ctx, req.UserID)

	if req.AcceptSuggestion {
		return s.acceptSuggestion(ctx, req)
	}

	queryKey := QueryKey(req.Player, req.Team, req.UseWeb)
	queriedNorm := namematch.Normalize(req.Player, true)

	if !req.Refresh {
		if res := s.cachedHit(ctx, req, queryKey, queriedNorm); res != nil {
			return res, nil
		}

		q := match.Query{Player: req.Player, Team: req.Team, League: req.League}
		d, err := s.matcher.Resolve(ctx, storage.GlobalScope, q)
		if err != nil {
			logger.WarnContext(ctx, "matcher unavailable, proceeding to generation", "error", err)
		} else if res, err := s.applyDecision(ctx, req, d); res != nil || err != nil {
			return res, err
		}
	}

	balance, err := s.credits.Balance(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	if balance < s.opts.ReportCost {
		return nil, ledger.ErrInsufficientCredits
	}

	report, err := s.generator.GenerateReport(ctx, llm.ReportRequest{
		Player: req.Player,
		Team:   req.Team,
		League: req.League,
		Season: req.Season,
		UseWeb: req.UseWeb,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if llm.IsSubjectNotFound(report.Markdown) {
		return s.subjectNotFound(ctx, req, report.Markdown)
	}

	return s.persistGenerated(ctx, req, report, queryKey, queriedNorm)
}

// AcceptSuggestion adopts a previously suggested report into the caller's
// library, charging one credit for cross-user reuse.
func (s *Service) AcceptSuggestion(ctx context.Context, userID string, reportID int64) (*Result, error) {
	s.grantWelcome(ctx, userID)
	return s.acceptSuggestion(ctx, Request{UserID: userID, AcceptSuggestion: true, SuggestionID: reportID})
}

// SaveSuggestion copies a suggested report into the caller's library without
// charging. Used when the user wants to keep a suggestion alongside a fresh
// generation rather than instead of one.
func (s *Service) SaveSuggestion(ctx context.Context, userID string, reportID int64) (*Result, error) {
	if reportID <= 0 {
		return nil, &ValidationError{Field: "report_id", Message: "report id is required"}
	}
	src, err := s.reports.GetByIDAnyUser(ctx, reportID)
	if err != nil {
		return nil, err
	}

	copyKey := QueryKey(src.PlayerName, src.Team, false)
	if existing, err := s.reports.FindByQueryKey(ctx, userID, copyKey); err == nil {
		return s.reportResult(ctx, userID, existing, nil)
	}

	rec := copyRecord(src, userID, copyKey)
	if err := s.reports.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save suggestion: %w", err)
	}
	return s.reportResult(ctx, userID, rec, nil)
}

// RecordAlias stores a confirmed queried-name to canonical-name mapping so
// future lookups shortcut straight to the canonical report.
func (s *Service) RecordAlias(ctx context.Context, queried, canonical string) error {
	queriedNorm := namematch.Normalize(queried, true)
	canonNorm := namematch.Normalize(canonical, true)
	if queriedNorm == "" || canonNorm == "" {
		return &ValidationError{Field: "alias", Message: "both names are required"}
	}
	return s.aliases.Record(ctx, queriedNorm, canonNorm)
}

func (s *Service) grantWelcome(ctx context.Context, userID string) {
	if s.opts.WelcomeCredits <= 0 {
		return
	}
	if _, err := s.credits.GrantWelcome(ctx, userID, s.opts.WelcomeCredits); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "welcome grant failed", "user_id", userID, "error", err)
	}
}

// cachedHit serves the query from the caller's own library: first by exact
// query key, then through a learned alias. No ledger mutation on either path.
func (s *Service) cachedHit(ctx context.Context, req Request, queryKey, queriedNorm string) *Result {
	logger := contextutil.LoggerFromContext(ctx)

	rec, err := s.reports.FindByQueryKey(ctx, req.UserID, queryKey)
	if err == nil {
		logger.InfoContext(ctx, "cache hit", "report_id", rec.ID)
		rec.Cached = true
		res, rerr := s.reportResult(ctx, req.UserID, rec, nil)
		if rerr != nil {
			return nil
		}
		return res
	}
	if !errors.Is(err, storage.ErrNotFound) {
		logger.WarnContext(ctx, "cache lookup failed", "error", err)
		return nil
	}

	canon, err := s.aliases.Lookup(ctx, queriedNorm)
	if err != nil || canon == "" || canon == queriedNorm {
		return nil
	}
	rec, err = s.reports.FindByQueryKey(ctx, req.UserID, QueryKey(canon, req.Team, req.UseWeb))
	if err != nil {
		return nil
	}
	logger.InfoContext(ctx, "alias cache hit", "report_id", rec.ID, "alias", queriedNorm)
	rec.Cached = true
	res, rerr := s.reportResult(ctx, req.UserID, rec, nil)
	if rerr != nil {
		return nil
	}
	return res
}

// applyDecision turns a matcher decision into a result. A nil, nil return
// means the pipeline should continue to generation.
func (s *Service) applyDecision(ctx context.Context, req Request, d *match.Decision) (*Result, error) {
	switch d.Kind {
	case match.Auto:
		return s.adopt(ctx, req, d.ReportID, "auto_match")
	case match.Suggest:
		if d.Exact {
			// A canonical-identity hit is trusted without confirmation,
			// but cross-user reuse still charges through the adopt path.
			return s.adopt(ctx, req, d.ReportID, "exact_match")
		}
		return s.suggestResult(ctx, req.UserID, d)
	default:
		return nil, nil
	}
}

// adopt brings a matched report into the caller's library. Same-user matches
// and already-owned copies are free; cross-user adoption debits one credit
// under an idempotent per-user, per-report source key.
func (s *Service) adopt(ctx context.Context, req Request, reportID int64, sourcePrefix string) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	src, err := s.reports.GetByIDAnyUser(ctx, reportID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logger.WarnContext(ctx, "matched report vanished", "report_id", reportID)
			return nil, nil
		}
		return nil, err
	}

	s.learnAlias(ctx, req.Player, src.PlayerName)

	if src.UserID == req.UserID {
		return s.reportResult(ctx, req.UserID, src, nil)
	}

	copyKey := QueryKey(src.PlayerName, src.Team, req.UseWeb)
	if existing, err := s.reports.FindByQueryKey(ctx, req.UserID, copyKey); err == nil {
		return s.reportResult(ctx, req.UserID, existing, nil)
	}

	sourceID := fmt.Sprintf("%s_%d_%s", sourcePrefix, src.ID, req.UserID)
	if _, err := s.credits.Spend(ctx, req.UserID, s.opts.ReportCost, sourcePrefix, "scout_match", sourceID); err != nil {
		return nil, err
	}

	rec := copyRecord(src, req.UserID, copyKey)
	if err := s.reports.Upsert(ctx, rec); err != nil {
		s.refund(ctx, req.UserID, "scout_match", sourceID+":refund")
		return nil, fmt.Errorf("failed to persist adopted report: %w", err)
	}

	logger.InfoContext(ctx, "adopted report", "report_id", src.ID, "copy_id", rec.ID, "source", sourceID)
	return s.reportResult(ctx, req.UserID, rec, nil)
}

func (s *Service) acceptSuggestion(ctx context.Context, req Request) (*Result, error) {
	if req.SuggestionID <= 0 {
		return nil, &ValidationError{Field: "suggestion_id", Message: "suggestion id is required"}
	}
	res, err := s.adopt(ctx, req, req.SuggestionID, "accept_suggestion")
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, storage.ErrNotFound
	}
	return res, nil
}

// subjectNotFound handles the generator's not-found sentinel: one stricter
// fuzzy pass over the library before giving up.
func (s *Service) subjectNotFound(ctx context.Context, req Request, sentinelBody string) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "generator could not verify player", "player", req.Player)

	q := match.Query{Player: req.Player, Team: req.Team, League: req.League}
	d, err := s.matcher.ResolveFallback(ctx, storage.GlobalScope, q)
	if err != nil {
		logger.WarnContext(ctx, "fallback match failed", "error", err)
	} else if res, aerr := s.applyDecision(ctx, req, d); res != nil || aerr != nil {
		return res, aerr
	}

	reason := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sentinelBody), llm.NotFoundSentinel))
	if reason == "" {
		return nil, ErrSubjectNotFound
	}
	return nil, fmt.Errorf("%w: %s", ErrSubjectNotFound, reason)
}

// persistGenerated charges for a fresh generation and stores it. Every
// failure after the debit is paired with a compensating refund so a failed
// pipeline nets to zero.
func (s *Service) persistGenerated(ctx context.Context, req Request, report *llm.Report, queryKey, queriedNorm string) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	requestID := s.newID()
	balance, err := s.credits.Spend(ctx, req.UserID, s.opts.ReportCost, "report_generation", "scout_request", requestID)
	if err != nil {
		return nil, err
	}

	canonical := s.parser.CanonicalPlayer(report.Markdown)
	if canonical == "" {
		canonical = req.Player
	}
	canonNorm := namematch.Normalize(canonical, true)

	// The generator may reveal that a differently spelled query was really
	// a player the user already has. Keep the existing report and refund.
	if !req.Refresh && canonNorm != queriedNorm {
		if existing := s.findOwnedByName(ctx, req.UserID, canonNorm); existing != nil {
			logger.InfoContext(ctx, "generated report duplicates library entry",
				"report_id", existing.ID, "canonical", canonical)
			s.refund(ctx, req.UserID, "post_llm_dedup", requestID+":post_llm_dedup")
			s.learnAlias(ctx, req.Player, existing.PlayerName)
			return s.reportResult(ctx, req.UserID, existing, &report.Usage)
		}
	}

	team, league, season := s.enrichFromReport(report.Markdown, req)

	rec := &storage.ReportRecord{
		UserID:     req.UserID,
		PlayerName: canonical,
		PlayerNorm: canonNorm,
		Team:       team,
		League:     league,
		Season:     season,
		QueryKey:   queryKey,
		ReportMD:   report.Markdown,
	}
	if err := s.saveReport(ctx, req, rec); err != nil {
		s.refund(ctx, req.UserID, "scout_request", requestID+":refund")
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}

	s.learnAlias(ctx, req.Player, canonical)
	s.indexReport(ctx, rec)

	logger.InfoContext(ctx, "report generated",
		"report_id", rec.ID, "player", canonical, "tokens", report.Usage.TotalTokens, "balance", balance)

	payload := toPayload(rec)
	payload.Usage = report.Usage
	return &Result{Report: payload, Balance: balance}, nil
}

// saveReport writes the generated report. A refresh rewrites the existing
// row in place so the report keeps its id; everything else upserts by
// (user, query key).
func (s *Service) saveReport(ctx context.Context, req Request, rec *storage.ReportRecord) error {
	if req.Refresh {
		if existing, err := s.reports.FindByQueryKey(ctx, req.UserID, rec.QueryKey); err == nil {
			rec.ID = existing.ID
			return s.reports.UpdateByID(ctx, rec)
		}
	}
	return s.reports.Upsert(ctx, rec)
}

// enrichFromReport fills request blanks with the report's own info fields.
func (s *Service) enrichFromReport(reportMD string, req Request) (team, league, season string) {
	fields := s.parser.InfoFields(reportMD)
	team = req.Team
	league = req.League
	season = req.Season
	if team == "" {
		team = knownField(fields, "Team")
	}
	if league == "" {
		league = knownField(fields, "League")
	}
	if season == "" {
		season = knownField(fields, "Season")
	}
	return team, league, season
}

func knownField(fields map[string]string, key string) string {
	v := fields[key]
	if strings.EqualFold(v, "Unknown") {
		return ""
	}
	return v
}

// findOwnedByName scans the user's recent reports for one whose canonical
// player name matches.
func (s *Service) findOwnedByName(ctx context.Context, userID, canonNorm string) *storage.ReportRecord {
	candidates, err := s.reports.ListCandidates(ctx, userID, storage.UserScanLimit)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "dedup scan failed", "error", err)
		return nil
	}
	target := namematch.CanonicalName(canonNorm)
	for _, c := range candidates {
		if namematch.CanonicalName(c.PlayerName) == target {
			full, err := s.reports.GetByID(ctx, userID, c.ID)
			if err != nil {
				return nil
			}
			return full
		}
	}
	return nil
}

// learnAlias records a queried-name to stored-name mapping when they differ.
func (s *Service) learnAlias(ctx context.Context, queried, canonical string) {
	queriedNorm := namematch.Normalize(queried, true)
	canonNorm := namematch.Normalize(canonical, true)
	if queriedNorm == "" || canonNorm == "" || queriedNorm == canonNorm {
		return
	}
	if err := s.aliases.Record(ctx, queriedNorm, canonNorm); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "alias record failed", "error", err)
	}
}

// indexReport stores the report's vector for embedding matches. The stored
// side encodes name, team and league together while queries embed the name
// alone, so team context pulls same-name players apart without requiring it
// in the query. Index failures only cost future match quality, never the
// request.
func (s *Service) indexReport(ctx context.Context, rec *storage.ReportRecord) {
	if s.index == nil {
		return
	}
	logger := contextutil.LoggerFromContext(ctx)
	text := strings.Join(strings.Fields(rec.PlayerNorm+" "+rec.Team+" "+rec.League), " ")
	vec, err := s.index.QueryVector(ctx, text)
	if err != nil {
		logger.WarnContext(ctx, "embedding unavailable, report not indexed", "report_id", rec.ID, "error", err)
		return
	}
	if err := s.index.Add(ctx, rec.ID, vec); err != nil {
		logger.WarnContext(ctx, "failed to index report", "report_id", rec.ID, "error", err)
	}
}

// refund compensates a debit. A refund failure is a reconciliation event:
// logged at error level, never surfaced to the caller.
func (s *Service) refund(ctx context.Context, userID, sourceType, sourceID string) {
	if _, err := s.credits.Refund(ctx, userID, s.opts.ReportCost, "compensation", sourceType, sourceID); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "compensating refund failed, needs reconciliation",
			"user_id", userID, "source_type", sourceType, "source_id", sourceID, "error", err)
	}
}

func (s *Service) suggestResult(ctx context.Context, userID string, d *match.Decision) (*Result, error) {
	balance, err := s.credits.Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	rec, err := s.reports.GetByIDAnyUser(ctx, d.ReportID)
	if err != nil {
		return nil, nil
	}
	return &Result{
		Suggestion: &SuggestionPayload{
			ReportID:   d.ReportID,
			PlayerName: d.PlayerName,
			Team:       rec.Team,
			League:     rec.League,
			Score:      d.Score,
			Exact:      d.Exact,
		},
		Balance: balance,
	}, nil
}

func (s *Service) reportResult(ctx context.Context, userID string, rec *storage.ReportRecord, usage *llm.Usage) (*Result, error) {
	balance, err := s.credits.Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	payload := toPayload(rec)
	if usage != nil {
		payload.Usage = *usage
	}
	return &Result{Report: payload, Balance: balance}, nil
}

func copyRecord(src *storage.ReportRecord, userID, queryKey string) *storage.ReportRecord {
	return &storage.ReportRecord{
		UserID:     userID,
		PlayerName: src.PlayerName,
		PlayerNorm: src.PlayerNorm,
		Team:       src.Team,
		League:     src.League,
		Season:     src.Season,
		QueryKey:   queryKey,
		ReportMD:   src.ReportMD,
		Cached:     true,
	}
}

func toPayload(rec *storage.ReportRecord) *ReportPayload {
	return &ReportPayload{
		ID:         rec.ID,
		PlayerName: rec.PlayerName,
		Team:       rec.Team,
		League:     rec.League,
		Season:     rec.Season,
		Markdown:   rec.ReportMD,
		Cached:     rec.Cached,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}
