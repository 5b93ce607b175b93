package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"comp-tracker/internal/comp"
)

//go:embed schema.sql
var schemaSQL string

// SQLite is a Store backed by a local SQLite file (or :memory: in tests).
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// The crawl loop is a single writer; one connection avoids SQLITE_BUSY
	// between it and concurrent readers.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// HasMatch reports whether a match ID is already stored.
func (s *SQLite) HasMatch(ctx context.Context, matchID string) (bool, error) {
	var one int
	err := s.conn.QueryRowContext(ctx, `
		SELECT 1 FROM matches WHERE match_id = ?
	`, matchID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// InsertMatch inserts the record if the match ID is new, reporting whether
// a row was written.
func (s *SQLite) InsertMatch(ctx context.Context, rec MatchRecord) (bool, error) {
	res, err := s.conn.ExecContext(ctx, `
		INSERT OR IGNORE INTO matches (match_id, team_a, team_b, winner)
		VALUES (?, ?, ?, ?)
	`, rec.MatchID, rec.TeamA.String(), rec.TeamB.String(), string(rec.Winner))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// AllMatches streams every stored record to fn.
func (s *SQLite) AllMatches(ctx context.Context, fn func(MatchRecord) error) error {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT match_id, team_a, team_b, winner FROM matches ORDER BY match_id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanMatchRow(rows.Scan)
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

// MatchCount returns the total number of stored matches.
func (s *SQLite) MatchCount(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count)
	return count, err
}

// Same recompute-in-statement shape as the Postgres upsert so the winrate
// column can never drift from the counters.
const sqliteUpsertOutcomeSQL = `
	INSERT INTO comp_aggregates (comp, wins, losses, winrate)
	VALUES (?1, ?2, ?3, CAST(?2 AS REAL) / (?2 + ?3))
	ON CONFLICT (comp) DO UPDATE SET
		wins    = wins + excluded.wins,
		losses  = losses + excluded.losses,
		winrate = CAST(wins + excluded.wins AS REAL)
			/ (wins + excluded.wins + losses + excluded.losses)
`

// RecordOutcome applies one team's result to its composition aggregate.
func (s *SQLite) RecordOutcome(ctx context.Context, key comp.Key, outcome Outcome) error {
	wins, losses := winLossDelta(outcome)
	_, err := s.conn.ExecContext(ctx, sqliteUpsertOutcomeSQL, key.String(), wins, losses)
	return err
}

// ApplyMatch inserts the record and both aggregate updates in one
// transaction. If the match ID already exists nothing is written.
func (s *SQLite) ApplyMatch(ctx context.Context, rec MatchRecord) (bool, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO matches (match_id, team_a, team_b, winner)
		VALUES (?, ?, ?, ?)
	`, rec.MatchID, rec.TeamA.String(), rec.TeamB.String(), string(rec.Winner))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, tx.Commit()
	}

	for _, side := range []struct {
		key  comp.Key
		side Side
	}{{rec.TeamA, SideA}, {rec.TeamB, SideB}} {
		wins, losses := winLossDelta(outcomeFor(rec, side.side))
		if _, err := tx.ExecContext(ctx, sqliteUpsertOutcomeSQL, side.key.String(), wins, losses); err != nil {
			return false, err
		}
	}
	return true, tx.Commit()
}

// RebuildFromMatches clears all aggregates and replays every stored match
// inside one transaction.
func (s *SQLite) RebuildFromMatches(ctx context.Context, src MatchSource) error {
	// Snapshot first: a single-connection SQLite handle cannot run the
	// match scan and the rebuild transaction concurrently.
	var records []MatchRecord
	err := src.AllMatches(ctx, func(rec MatchRecord) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return fmt.Errorf("rebuild scan failed: %w", err)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comp_aggregates`); err != nil {
		return fmt.Errorf("failed to clear aggregates: %w", err)
	}

	for _, rec := range records {
		for _, side := range []struct {
			key  comp.Key
			side Side
		}{{rec.TeamA, SideA}, {rec.TeamB, SideB}} {
			wins, losses := winLossDelta(outcomeFor(rec, side.side))
			if _, err := tx.ExecContext(ctx, sqliteUpsertOutcomeSQL, side.key.String(), wins, losses); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Lookup returns the aggregate for a key, or ErrNotFound.
func (s *SQLite) Lookup(ctx context.Context, key comp.Key) (Aggregate, error) {
	agg := Aggregate{Key: key}
	err := s.conn.QueryRowContext(ctx, `
		SELECT wins, losses, winrate FROM comp_aggregates WHERE comp = ?
	`, key.String()).Scan(&agg.Wins, &agg.Losses, &agg.Winrate)
	if errors.Is(err, sql.ErrNoRows) {
		return Aggregate{}, ErrNotFound
	}
	if err != nil {
		return Aggregate{}, err
	}
	return agg, nil
}

// TopN returns the leaderboard rows for the given sort key.
func (s *SQLite) TopN(ctx context.Context, n int, sortKey SortKey, minGames int) ([]Aggregate, error) {
	order := `winrate DESC, comp ASC`
	if sortKey == SortByGames {
		order = `wins + losses DESC, comp ASC`
	}

	rows, err := s.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT comp, wins, losses, winrate
		FROM comp_aggregates
		WHERE wins + losses >= ? AND wins + losses > 0
		ORDER BY %s
		LIMIT ?
	`, order), minGames, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Aggregate
	for rows.Next() {
		var (
			compText string
			agg      Aggregate
		)
		if err := rows.Scan(&compText, &agg.Wins, &agg.Losses, &agg.Winrate); err != nil {
			return nil, err
		}
		key, err := comp.ParseKey(compText)
		if err != nil {
			return nil, fmt.Errorf("corrupt composition key %q: %w", compText, err)
		}
		agg.Key = key
		out = append(out, agg)
	}
	return out, rows.Err()
}
