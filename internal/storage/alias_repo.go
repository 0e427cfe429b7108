package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_alias_store.go -package=mocks scoutbot/internal/storage AliasStore

import (
	"context"
	"database/sql"
	"fmt"
)

// AliasStore defines the interface for learned name aliases.
type AliasStore interface {
	// Lookup returns the canonical normalized name a queried name was
	// previously resolved to. Returns "" and ErrNotFound if unknown.
	Lookup(ctx context.Context, queriedNorm string) (string, error)
	// Record stores or reinforces a queried name to canonical name mapping.
	Record(ctx context.Context, queriedNorm, playerNorm string) error
}

// AliasRepo provides methods for alias operations.
// It implements the AliasStore interface.
type AliasRepo struct {
	db *sql.DB
}

// NewAliasRepo creates a new AliasRepo.
func NewAliasRepo(db *sql.DB) *AliasRepo {
	return &AliasRepo{db: db}
}

// Lookup returns the canonical normalized name for a queried name.
// Returns "" and ErrNotFound if unknown.
func (r *AliasRepo) Lookup(ctx context.Context, queriedNorm string) (string, error) {
	var playerNorm string
	err := r.db.QueryRowContext(ctx,
		"SELECT player_norm FROM player_aliases WHERE queried_norm = ?",
		queriedNorm,
	).Scan(&playerNorm)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query alias: %w", err)
	}
	return playerNorm, nil
}

// Record stores or reinforces a queried name to canonical name mapping.
// A mapping identical to the queried name is not worth storing.
func (r *AliasRepo) Record(ctx context.Context, queriedNorm, playerNorm string) error {
	if queriedNorm == "" || playerNorm == "" || queriedNorm == playerNorm {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO player_aliases (queried_norm, player_norm) VALUES (?, ?)
		 ON CONFLICT (queried_norm) DO UPDATE SET
		 player_norm = excluded.player_norm, count = count + 1,
		 last_seen = CURRENT_TIMESTAMP`,
		queriedNorm, playerNorm,
	)
	if err != nil {
		return fmt.Errorf("failed to record alias: %w", err)
	}
	return nil
}
