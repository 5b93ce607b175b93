package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"comp-tracker/internal/comp"
)

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database, verifies the connection, and
// ensures the schema exists.
func NewPostgres(ctx context.Context, dbURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.createTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) createTables(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS matches (
			match_id TEXT PRIMARY KEY,
			team_a   TEXT NOT NULL,
			team_b   TEXT NOT NULL,
			winner   TEXT NOT NULL CHECK (winner IN ('A', 'B'))
		);
		CREATE TABLE IF NOT EXISTS comp_aggregates (
			comp    TEXT PRIMARY KEY,
			wins    INTEGER NOT NULL DEFAULT 0 CHECK (wins >= 0),
			losses  INTEGER NOT NULL DEFAULT 0 CHECK (losses >= 0),
			winrate DOUBLE PRECISION NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// HasMatch reports whether a match ID is already stored.
func (p *Postgres) HasMatch(ctx context.Context, matchID string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM matches WHERE match_id = $1)
	`, matchID).Scan(&exists)
	return exists, err
}

// InsertMatch inserts the record if the match ID is new, reporting whether
// a row was written. Concurrent inserts of the same ID race on the primary
// key; at most one reports true.
func (p *Postgres) InsertMatch(ctx context.Context, rec MatchRecord) (bool, error) {
	tag, err := p.pool.Exec(ctx, `
		INSERT INTO matches (match_id, team_a, team_b, winner)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id) DO NOTHING
	`, rec.MatchID, rec.TeamA.String(), rec.TeamB.String(), string(rec.Winner))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// AllMatches streams every stored record to fn.
func (p *Postgres) AllMatches(ctx context.Context, fn func(MatchRecord) error) error {
	rows, err := p.pool.Query(ctx, `
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
func (p *Postgres) MatchCount(ctx context.Context) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count)
	return count, err
}

// upsertOutcomeSQL increments one counter and recomputes the winrate from
// the post-increment totals in the same statement, so the derived value
// can never drift from the counters.
const pgUpsertOutcomeSQL = `
	INSERT INTO comp_aggregates (comp, wins, losses, winrate)
	VALUES ($1, $2, $3, $2::float / ($2 + $3))
	ON CONFLICT (comp) DO UPDATE SET
		wins    = comp_aggregates.wins + EXCLUDED.wins,
		losses  = comp_aggregates.losses + EXCLUDED.losses,
		winrate = (comp_aggregates.wins + EXCLUDED.wins)::float
			/ (comp_aggregates.wins + EXCLUDED.wins + comp_aggregates.losses + EXCLUDED.losses)
`

// RecordOutcome applies one team's result to its composition aggregate.
func (p *Postgres) RecordOutcome(ctx context.Context, key comp.Key, outcome Outcome) error {
	wins, losses := winLossDelta(outcome)
	_, err := p.pool.Exec(ctx, pgUpsertOutcomeSQL, key.String(), wins, losses)
	return err
}

// ApplyMatch inserts the record and both aggregate updates in one
// transaction. If the match ID already exists nothing is written.
func (p *Postgres) ApplyMatch(ctx context.Context, rec MatchRecord) (bool, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO matches (match_id, team_a, team_b, winner)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id) DO NOTHING
	`, rec.MatchID, rec.TeamA.String(), rec.TeamB.String(), string(rec.Winner))
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		// Duplicate match: leave aggregates untouched.
		return false, tx.Commit(ctx)
	}

	for _, side := range []struct {
		key  comp.Key
		side Side
	}{{rec.TeamA, SideA}, {rec.TeamB, SideB}} {
		wins, losses := winLossDelta(outcomeFor(rec, side.side))
		if _, err := tx.Exec(ctx, pgUpsertOutcomeSQL, side.key.String(), wins, losses); err != nil {
			return false, err
		}
	}
	return true, tx.Commit(ctx)
}

// RebuildFromMatches clears all aggregates and replays every stored match
// inside one transaction, so readers never observe a half-built table.
func (p *Postgres) RebuildFromMatches(ctx context.Context, src MatchSource) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM comp_aggregates`); err != nil {
		return fmt.Errorf("failed to clear aggregates: %w", err)
	}

	err = src.AllMatches(ctx, func(rec MatchRecord) error {
		for _, side := range []struct {
			key  comp.Key
			side Side
		}{{rec.TeamA, SideA}, {rec.TeamB, SideB}} {
			wins, losses := winLossDelta(outcomeFor(rec, side.side))
			if _, err := tx.Exec(ctx, pgUpsertOutcomeSQL, side.key.String(), wins, losses); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	return tx.Commit(ctx)
}

// Lookup returns the aggregate for a key, or ErrNotFound.
func (p *Postgres) Lookup(ctx context.Context, key comp.Key) (Aggregate, error) {
	agg := Aggregate{Key: key}
	err := p.pool.QueryRow(ctx, `
		SELECT wins, losses, winrate FROM comp_aggregates WHERE comp = $1
	`, key.String()).Scan(&agg.Wins, &agg.Losses, &agg.Winrate)
	if errors.Is(err, pgx.ErrNoRows) {
		return Aggregate{}, ErrNotFound
	}
	if err != nil {
		return Aggregate{}, err
	}
	return agg, nil
}

// TopN returns the leaderboard rows for the given sort key.
func (p *Postgres) TopN(ctx context.Context, n int, sortKey SortKey, minGames int) ([]Aggregate, error) {
	order := `winrate DESC, comp ASC`
	if sortKey == SortByGames {
		order = `wins + losses DESC, comp ASC`
	}

	rows, err := p.pool.Query(ctx, fmt.Sprintf(`
		SELECT comp, wins, losses, winrate
		FROM comp_aggregates
		WHERE wins + losses >= $1 AND wins + losses > 0
		ORDER BY %s
		LIMIT $2
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

// scanMatchRow builds a MatchRecord from a matches row scanner.
func scanMatchRow(scan func(dest ...any) error) (MatchRecord, error) {
	var (
		rec    MatchRecord
		teamA  string
		teamB  string
		winner string
	)
	if err := scan(&rec.MatchID, &teamA, &teamB, &winner); err != nil {
		return MatchRecord{}, err
	}
	keyA, err := comp.ParseKey(teamA)
	if err != nil {
		return MatchRecord{}, fmt.Errorf("corrupt team_a key %q: %w", teamA, err)
	}
	keyB, err := comp.ParseKey(teamB)
	if err != nil {
		return MatchRecord{}, fmt.Errorf("corrupt team_b key %q: %w", teamB, err)
	}
	rec.TeamA = keyA
	rec.TeamB = keyB
	rec.Winner = Side(winner)
	return rec, nil
}
