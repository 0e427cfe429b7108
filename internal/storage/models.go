package storage

import "time"

// ReportRecord represents a stored scouting report in the database.
type ReportRecord struct {
	ID         int64
	UserID     string
	PlayerName string // Canonical display name from the report body
	PlayerNorm string // Normalized player name used for matching
	Team       string
	League     string
	Season     string
	QueryKey   string // Deterministic key of the originating request
	ReportMD   string // Markdown report body
	Cached     bool   // True when served from the library without a generation
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReportSummary is the listing projection of a report, without the body.
type ReportSummary struct {
	ID         int64
	UserID     string
	PlayerName string
	Team       string
	League     string
	Season     string
	CreatedAt  time.Time
}

// ReportVector pairs a report with its stored embedding.
type ReportVector struct {
	ReportID  int64
	Embedding []float32
}
