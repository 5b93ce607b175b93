// Package store persists match records and per-composition aggregates.
//
// Two backends implement the same contracts: Postgres (pgx) for deployments
// and SQLite for local runs; Memory backs tests. Aggregates are always
// derivable from the match table via a full rebuild, which is the
// authoritative path after a crawl.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"comp-tracker/internal/comp"
)

// ErrNotFound is returned by Lookup when no aggregate exists for a key.
var ErrNotFound = errors.New("composition not found")

// Side identifies one of the two teams in a match.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Outcome is one team's result in a match.
type Outcome int

const (
	OutcomeLoss Outcome = iota
	OutcomeWin
)

// MatchRecord is the immutable stored outcome of one match: both canonical
// team compositions and which side won. A match ID is stored at most once.
type MatchRecord struct {
	MatchID string
	TeamA   comp.Key
	TeamB   comp.Key
	Winner  Side
}

// Aggregate is the cumulative win/loss record for one composition key.
// Winrate is always derived from Wins and Losses, never stored
// independently of them.
type Aggregate struct {
	Key     comp.Key
	Wins    int
	Losses  int
	Winrate float64
}

// Games returns the total number of matches the composition appeared in.
func (a Aggregate) Games() int {
	return a.Wins + a.Losses
}

// SortKey selects the leaderboard ordering.
type SortKey string

const (
	SortByWinrate SortKey = "winrate"
	SortByGames   SortKey = "games"
)

// ParseSortKey validates a user-supplied sort key, defaulting to winrate
// for the empty string.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortByWinrate, nil
	case SortByWinrate, SortByGames:
		return SortKey(s), nil
	default:
		return "", fmt.Errorf("invalid sort key %q (want winrate or games)", s)
	}
}

// MatchStore persists raw match outcomes keyed by match ID.
type MatchStore interface {
	// HasMatch reports whether the match ID is already stored.
	HasMatch(ctx context.Context, matchID string) (bool, error)
	// InsertMatch stores the record unless the match ID already exists.
	// It reports whether the record was actually inserted; a duplicate is
	// a no-op, not an error.
	InsertMatch(ctx context.Context, rec MatchRecord) (bool, error)
	// AllMatches streams every stored record to fn. The scan is finite and
	// restartable; it is used by the full aggregate rebuild.
	AllMatches(ctx context.Context, fn func(MatchRecord) error) error
	// MatchCount returns the number of stored matches.
	MatchCount(ctx context.Context) (int, error)
}

// MatchSource is the read side of MatchStore needed by a rebuild.
type MatchSource interface {
	AllMatches(ctx context.Context, fn func(MatchRecord) error) error
}

// AggregateStore maintains cumulative win/loss counters per composition key.
type AggregateStore interface {
	// RecordOutcome applies one team's result to its composition,
	// creating the aggregate on first occurrence and recomputing the
	// winrate. The caller guarantees exactly-once per (match, side) by
	// checking MatchStore membership first.
	RecordOutcome(ctx context.Context, key comp.Key, outcome Outcome) error
	// RebuildFromMatches clears all aggregates and replays both sides of
	// every record in src. Running it twice yields the same state.
	RebuildFromMatches(ctx context.Context, src MatchSource) error
	// Lookup returns the aggregate for a key, or ErrNotFound.
	Lookup(ctx context.Context, key comp.Key) (Aggregate, error)
	// TopN returns up to n aggregates with at least minGames games,
	// sorted descending by the sort key with the composition key as a
	// deterministic tie-break.
	TopN(ctx context.Context, n int, sortKey SortKey, minGames int) ([]Aggregate, error)
}

// Store is a combined match and aggregate store backed by one database.
type Store interface {
	MatchStore
	AggregateStore
	// ApplyMatch inserts the record and, only if it was newly inserted,
	// applies both teams' outcomes to the aggregates as one atomic unit.
	// This is the incremental path; the full rebuild remains authoritative.
	ApplyMatch(ctx context.Context, rec MatchRecord) (bool, error)
	Close() error
}

// OpenFromEnv opens the configured backend: Postgres when DATABASE_URL is
// set, otherwise SQLite at SQLITE_PATH (default team_comps.db).
func OpenFromEnv(ctx context.Context) (Store, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return NewPostgres(ctx, dbURL)
	}
	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = "team_comps.db"
	}
	return OpenSQLite(path)
}

// winLossDelta converts an outcome into counter increments.
func winLossDelta(outcome Outcome) (wins, losses int) {
	if outcome == OutcomeWin {
		return 1, 0
	}
	return 0, 1
}

// outcomeFor returns the outcome of the given side under the record's winner.
func outcomeFor(rec MatchRecord, side Side) Outcome {
	if rec.Winner == side {
		return OutcomeWin
	}
	return OutcomeLoss
}
