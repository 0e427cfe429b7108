package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_report_store.go -package=mocks scoutbot/internal/storage ReportStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// GlobalScope selects candidates across all users in ListCandidates.
const GlobalScope = "*"

// Candidate scan windows. Matching only considers the most recent reports
// so scan cost stays bounded as the library grows.
const (
	GlobalScanLimit = 200
	UserScanLimit   = 50
)

// ReportStore defines the interface for report storage operations.
type ReportStore interface {
	// FindByQueryKey gets a user's report by its deterministic query key.
	// Returns nil and ErrNotFound if not found.
	FindByQueryKey(ctx context.Context, userID, queryKey string) (*ReportRecord, error)
	// ListCandidates returns id, player name, team and league for the most
	// recently created reports visible to the matcher, newest first, at
	// most limit of them. Pass GlobalScope as userID to search the whole
	// library. A non-positive limit falls back to GlobalScanLimit.
	ListCandidates(ctx context.Context, userID string, limit int) ([]*ReportRecord, error)
	// Upsert inserts a new report or replaces the body of an existing one
	// with the same (user_id, query_key). The record's ID is set on return.
	Upsert(ctx context.Context, rec *ReportRecord) error
	// UpdateByID rewrites the mutable fields of an existing report.
	UpdateByID(ctx context.Context, rec *ReportRecord) error
	// GetByID gets a report owned by the given user.
	// Returns nil and ErrNotFound if not found.
	GetByID(ctx context.Context, userID string, id int64) (*ReportRecord, error)
	// GetByIDAnyUser gets a report regardless of owner. Used when a match
	// against the global library needs the report body.
	GetByIDAnyUser(ctx context.Context, id int64) (*ReportRecord, error)
	// ListByUser returns the user's reports, newest first, without bodies.
	ListByUser(ctx context.Context, userID string) ([]*ReportSummary, error)
}

// ReportRepo provides methods for report operations.
// It implements the ReportStore interface.
type ReportRepo struct {
	db *sql.DB
}

// NewReportRepo creates a new ReportRepo.
func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

const reportColumns = "id, user_id, player_name, player_norm, team, league, season, query_key, report_md, cached, created_at, updated_at"

func scanReport(row *sql.Row) (*ReportRecord, error) {
	var rec ReportRecord
	var createdAtStr, updatedAtStr string

	err := row.Scan(&rec.ID, &rec.UserID, &rec.PlayerName, &rec.PlayerNorm,
		&rec.Team, &rec.League, &rec.Season, &rec.QueryKey, &rec.ReportMD,
		&rec.Cached, &createdAtStr, &updatedAtStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	if rec.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
		return nil, err
	}
	return &rec, nil
}

// parseTimestamp parses a SQLite DATETIME string.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		// SQLite might use a different format
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
		}
	}
	return t, nil
}

// FindByQueryKey gets a user's report by its deterministic query key.
// Returns nil and ErrNotFound if not found.
func (r *ReportRepo) FindByQueryKey(ctx context.Context, userID, queryKey string) (*ReportRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE user_id = ? AND query_key = ?",
		userID, queryKey,
	)
	return scanReport(row)
}

// ListCandidates returns the fields the matcher needs for the limit most
// recently created reports in the given scope, newest first.
func (r *ReportRepo) ListCandidates(ctx context.Context, userID string, limit int) ([]*ReportRecord, error) {
	if limit <= 0 {
		limit = GlobalScanLimit
	}

	query := "SELECT id, user_id, player_name, player_norm, team, league FROM reports"
	args := []any{}
	if userID != GlobalScope {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var recs []*ReportRecord
	for rows.Next() {
		var rec ReportRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.PlayerName, &rec.PlayerNorm, &rec.Team, &rec.League); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return recs, nil
}

// Upsert inserts a new report or replaces an existing one with the same
// (user_id, query_key), preserving its ID. The record's ID is set on return.
func (r *ReportRepo) Upsert(ctx context.Context, rec *ReportRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (user_id, player_name, player_norm, team, league, season, query_key, report_md, cached, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, query_key) DO UPDATE SET
		 player_name = excluded.player_name, player_norm = excluded.player_norm,
		 team = excluded.team, league = excluded.league, season = excluded.season,
		 report_md = excluded.report_md, cached = excluded.cached,
		 updated_at = CURRENT_TIMESTAMP`,
		rec.UserID, rec.PlayerName, rec.PlayerNorm, rec.Team, rec.League,
		rec.Season, rec.QueryKey, rec.ReportMD, rec.Cached,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert report: %w", err)
	}

	// LastInsertId is unreliable for the DO UPDATE branch, so re-read.
	err = r.db.QueryRowContext(ctx,
		"SELECT id FROM reports WHERE user_id = ? AND query_key = ?",
		rec.UserID, rec.QueryKey,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to read upserted report id: %w", err)
	}
	return nil
}

// UpdateByID rewrites the mutable fields of an existing report.
func (r *ReportRepo) UpdateByID(ctx context.Context, rec *ReportRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reports SET player_name = ?, player_norm = ?, team = ?, league = ?,
		 season = ?, report_md = ?, cached = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		rec.PlayerName, rec.PlayerNorm, rec.Team, rec.League, rec.Season,
		rec.ReportMD, rec.Cached, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID gets a report owned by the given user.
// Returns nil and ErrNotFound if not found.
func (r *ReportRepo) GetByID(ctx context.Context, userID string, id int64) (*ReportRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE id = ? AND user_id = ?",
		id, userID,
	)
	return scanReport(row)
}

// GetByIDAnyUser gets a report regardless of owner.
func (r *ReportRepo) GetByIDAnyUser(ctx context.Context, id int64) (*ReportRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE id = ?",
		id,
	)
	return scanReport(row)
}

// ListByUser returns the user's reports, newest first, without bodies.
func (r *ReportRepo) ListByUser(ctx context.Context, userID string) ([]*ReportSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, player_name, team, league, season, created_at
		 FROM reports WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var recs []*ReportSummary
	for rows.Next() {
		var rec ReportSummary
		var createdAtStr string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.PlayerName, &rec.Team, &rec.League, &rec.Season, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan report summary: %w", err)
		}
		if rec.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return recs, nil
}
