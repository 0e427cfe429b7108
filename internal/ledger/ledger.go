// Package ledger implements idempotent credit accounting on top of SQLite.
//
// Every balance change is recorded as a row in an append-only ledger keyed
// by (source_type, source_id). Retrying an operation with the same source
// is a no-op that reports the current balance, so a timed-out request can
// be replayed without double charging.
package ledger

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ledger.go -package=mocks scoutbot/internal/ledger Ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrInsufficientCredits is returned when a spend would take the
	// balance below zero.
	ErrInsufficientCredits = errors.New("insufficient credits")
)

// Ledger defines the interface for credit operations.
type Ledger interface {
	// Spend atomically deducts amount from the user's balance and records
	// the deduction under (sourceType, sourceID). A repeat call with the
	// same source does nothing and returns the current balance.
	Spend(ctx context.Context, userID string, amount int64, reason, sourceType, sourceID string) (int64, error)
	// Refund atomically credits amount back under (sourceType, sourceID),
	// with the same replay safety as Spend.
	Refund(ctx context.Context, userID string, amount int64, reason, sourceType, sourceID string) (int64, error)
	// Balance returns the user's current balance, zero for unknown users.
	Balance(ctx context.Context, userID string) (int64, error)
	// GrantWelcome credits the signup bonus exactly once per user.
	GrantWelcome(ctx context.Context, userID string, amount int64) (int64, error)
	// History returns the user's ledger entries, newest first.
	History(ctx context.Context, userID string, limit int) ([]Entry, error)
}

// SQLLedger implements Ledger on a SQLite database.
type SQLLedger struct {
	db *sql.DB
}

// New creates a new SQLLedger.
func New(db *sql.DB) *SQLLedger {
	return &SQLLedger{db: db}
}

// Spend atomically deducts amount from the user's balance.
func (l *SQLLedger) Spend(ctx context.Context, userID string, amount int64, reason, sourceType, sourceID string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("spend amount must be positive, got %d", amount)
	}
	return l.apply(ctx, userID, -amount, reason, sourceType, sourceID)
}

// Refund atomically credits amount back to the user's balance.
func (l *SQLLedger) Refund(ctx context.Context, userID string, amount int64, reason, sourceType, sourceID string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("refund amount must be positive, got %d", amount)
	}
	return l.apply(ctx, userID, amount, reason, sourceType, sourceID)
}

// GrantWelcome credits the signup bonus exactly once per user. The ledger
// source key makes the grant idempotent across concurrent first requests.
func (l *SQLLedger) GrantWelcome(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return l.Balance(ctx, userID)
	}
	return l.apply(ctx, userID, amount, "welcome bonus", "welcome_bonus", "welcome_bonus_"+userID)
}

// Balance returns the user's current balance, zero for unknown users.
func (l *SQLLedger) Balance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := l.db.QueryRowContext(ctx,
		"SELECT balance FROM user_credits WHERE user_id = ?", userID,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

// apply performs a balance change and its ledger insert in one transaction.
// The balance update is conditional so a deduction can never overdraw, and
// the ledger's unique source key turns replays into reads.
func (l *SQLLedger) apply(ctx context.Context, userID string, delta int64, reason, sourceType, sourceID string) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Make sure the account row exists before the conditional update.
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO user_credits (user_id, balance) VALUES (?, 0) ON CONFLICT (user_id) DO NOTHING",
		userID,
	); err != nil {
		return 0, fmt.Errorf("failed to ensure account: %w", err)
	}

	var res sql.Result
	if delta < 0 {
		res, err = tx.ExecContext(ctx,
			`UPDATE user_credits SET balance = balance + ?, updated_at = CURRENT_TIMESTAMP
			 WHERE user_id = ? AND balance >= ?`,
			delta, userID, -delta,
		)
	} else {
		res, err = tx.ExecContext(ctx,
			`UPDATE user_credits SET balance = balance + ?, updated_at = CURRENT_TIMESTAMP
			 WHERE user_id = ?`,
			delta, userID,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check balance update: %w", err)
	}
	if n == 0 {
		// The conditional update matched no row. Distinguish a replay of an
		// already-applied deduction from a genuine shortfall.
		if applied, aerr := l.sourceApplied(ctx, sourceType, sourceID); aerr == nil && applied {
			return l.Balance(ctx, userID)
		}
		return 0, ErrInsufficientCredits
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO credit_ledger (user_id, delta, reason, source_type, source_id) VALUES (?, ?, ?, ?, ?)",
		userID, delta, reason, sourceType, sourceID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Replay: the operation already happened. Roll back the second
			// balance change and report the standing balance.
			_ = tx.Rollback()
			return l.Balance(ctx, userID)
		}
		return 0, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return l.Balance(ctx, userID)
}

// sourceApplied reports whether a ledger row exists for the source key.
func (l *SQLLedger) sourceApplied(ctx context.Context, sourceType, sourceID string) (bool, error) {
	var count int64
	err := l.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM credit_ledger WHERE source_type = ? AND source_id = ?",
		sourceType, sourceID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// History returns the user's ledger entries, newest first.
func (l *SQLLedger) History(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, user_id, delta, reason, source_type, source_id
		 FROM credit_ledger WHERE user_id = ? ORDER BY id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Delta, &e.Reason, &e.SourceType, &e.SourceID); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}

// Entry is one ledger row as returned by History.
type Entry struct {
	ID         int64
	UserID     string
	Delta      int64
	Reason     string
	SourceType string
	SourceID   string
}
