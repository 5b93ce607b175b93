package store

import (
	"context"
	"sort"
	"sync"

	"comp-tracker/internal/comp"
)

// Memory is an in-memory Store used by tests and dry runs.
type Memory struct {
	mu         sync.Mutex
	matches    map[string]MatchRecord
	order      []string // insertion order, for a stable AllMatches scan
	aggregates map[comp.Key]*Aggregate
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		matches:    make(map[string]MatchRecord),
		aggregates: make(map[comp.Key]*Aggregate),
	}
}

// HasMatch reports whether a match ID is already stored.
func (m *Memory) HasMatch(_ context.Context, matchID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.matches[matchID]
	return ok, nil
}

// InsertMatch stores the record unless the match ID already exists.
func (m *Memory) InsertMatch(_ context.Context, rec MatchRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(rec), nil
}

func (m *Memory) insertLocked(rec MatchRecord) bool {
	if _, ok := m.matches[rec.MatchID]; ok {
		return false
	}
	m.matches[rec.MatchID] = rec
	m.order = append(m.order, rec.MatchID)
	return true
}

// AllMatches streams every stored record to fn in insertion order.
func (m *Memory) AllMatches(_ context.Context, fn func(MatchRecord) error) error {
	m.mu.Lock()
	records := make([]MatchRecord, 0, len(m.order))
	for _, id := range m.order {
		records = append(records, m.matches[id])
	}
	m.mu.Unlock()

	for _, rec := range records {
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// MatchCount returns the number of stored matches.
func (m *Memory) MatchCount(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matches), nil
}

// RecordOutcome applies one team's result to its composition aggregate.
func (m *Memory) RecordOutcome(_ context.Context, key comp.Key, outcome Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordLocked(key, outcome)
	return nil
}

func (m *Memory) recordLocked(key comp.Key, outcome Outcome) {
	agg, ok := m.aggregates[key]
	if !ok {
		agg = &Aggregate{Key: key}
		m.aggregates[key] = agg
	}
	wins, losses := winLossDelta(outcome)
	agg.Wins += wins
	agg.Losses += losses
	agg.Winrate = float64(agg.Wins) / float64(agg.Wins+agg.Losses)
}

// ApplyMatch inserts the record and, if new, applies both outcomes under
// one lock acquisition.
func (m *Memory) ApplyMatch(_ context.Context, rec MatchRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.insertLocked(rec) {
		return false, nil
	}
	m.recordLocked(rec.TeamA, outcomeFor(rec, SideA))
	m.recordLocked(rec.TeamB, outcomeFor(rec, SideB))
	return true, nil
}

// RebuildFromMatches clears all aggregates and replays every record in src.
func (m *Memory) RebuildFromMatches(ctx context.Context, src MatchSource) error {
	rebuilt := make(map[comp.Key]*Aggregate)
	record := func(key comp.Key, outcome Outcome) {
		agg, ok := rebuilt[key]
		if !ok {
			agg = &Aggregate{Key: key}
			rebuilt[key] = agg
		}
		wins, losses := winLossDelta(outcome)
		agg.Wins += wins
		agg.Losses += losses
		agg.Winrate = float64(agg.Wins) / float64(agg.Wins+agg.Losses)
	}

	err := src.AllMatches(ctx, func(rec MatchRecord) error {
		record(rec.TeamA, outcomeFor(rec, SideA))
		record(rec.TeamB, outcomeFor(rec, SideB))
		return nil
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.aggregates = rebuilt
	m.mu.Unlock()
	return nil
}

// Lookup returns the aggregate for a key, or ErrNotFound.
func (m *Memory) Lookup(_ context.Context, key comp.Key) (Aggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	agg, ok := m.aggregates[key]
	if !ok {
		return Aggregate{}, ErrNotFound
	}
	return *agg, nil
}

// TopN returns the leaderboard rows for the given sort key.
func (m *Memory) TopN(_ context.Context, n int, sortKey SortKey, minGames int) ([]Aggregate, error) {
	m.mu.Lock()
	out := make([]Aggregate, 0, len(m.aggregates))
	for _, agg := range m.aggregates {
		if agg.Games() >= minGames && agg.Games() > 0 {
			out = append(out, *agg)
		}
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		switch sortKey {
		case SortByGames:
			if out[i].Games() != out[j].Games() {
				return out[i].Games() > out[j].Games()
			}
		default:
			if out[i].Winrate != out[j].Winrate {
				return out[i].Winrate > out[j].Winrate
			}
		}
		return out[i].Key.String() < out[j].Key.String()
	})

	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error { return nil }
