package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"comp-tracker/internal/comp"
)

func mustKey(t *testing.T, categories ...comp.Category) comp.Key {
	t.Helper()
	key, err := comp.BuildKey(categories)
	if err != nil {
		t.Fatalf("BuildKey failed: %v", err)
	}
	return key
}

func openSQLite(t *testing.T) Store {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// backends returns every Store implementation the conformance tests run
// against. The Postgres store shares its SQL shape with SQLite and is
// covered by integration runs with DATABASE_URL set.
func backends(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemory() },
		"sqlite": openSQLite,
	}
}

func testKeys(t *testing.T) (poke, dive, protect comp.Key) {
	poke = mustKey(t, comp.CategoryMage, comp.CategoryMage, comp.CategoryMarksman, comp.CategorySupport, comp.CategoryTank)
	dive = mustKey(t, comp.CategoryAssassin, comp.CategoryFighter, comp.CategoryFighter, comp.CategoryMage, comp.CategoryMarksman)
	protect = mustKey(t, comp.CategoryMarksman, comp.CategorySupport, comp.CategorySupport, comp.CategoryTank, comp.CategoryTank)
	return
}

func TestInsertMatch_Idempotent(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()
			poke, dive, _ := testKeys(t)

			rec := MatchRecord{MatchID: "NA1_100", TeamA: poke, TeamB: dive, Winner: SideA}

			inserted, err := s.InsertMatch(ctx, rec)
			if err != nil {
				t.Fatalf("InsertMatch: %v", err)
			}
			if !inserted {
				t.Fatal("first insert reported not inserted")
			}

			inserted, err = s.InsertMatch(ctx, rec)
			if err != nil {
				t.Fatalf("second InsertMatch: %v", err)
			}
			if inserted {
				t.Error("duplicate insert reported inserted")
			}

			has, err := s.HasMatch(ctx, "NA1_100")
			if err != nil {
				t.Fatalf("HasMatch: %v", err)
			}
			if !has {
				t.Error("HasMatch = false after insert")
			}

			count, err := s.MatchCount(ctx)
			if err != nil {
				t.Fatalf("MatchCount: %v", err)
			}
			if count != 1 {
				t.Errorf("MatchCount = %d, want 1", count)
			}
		})
	}
}

func TestApplyMatch_DuplicateLeavesAggregatesUntouched(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()
			poke, dive, _ := testKeys(t)

			rec := MatchRecord{MatchID: "NA1_200", TeamA: poke, TeamB: dive, Winner: SideB}
			if _, err := s.ApplyMatch(ctx, rec); err != nil {
				t.Fatalf("ApplyMatch: %v", err)
			}

			before, err := s.Lookup(ctx, dive)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}

			inserted, err := s.ApplyMatch(ctx, rec)
			if err != nil {
				t.Fatalf("duplicate ApplyMatch: %v", err)
			}
			if inserted {
				t.Error("duplicate ApplyMatch reported inserted")
			}

			after, err := s.Lookup(ctx, dive)
			if err != nil {
				t.Fatalf("Lookup after duplicate: %v", err)
			}
			if after != before {
				t.Errorf("aggregates changed by duplicate apply: %+v != %+v", after, before)
			}
		})
	}
}

func TestApplyMatch_WinLossExample(t *testing.T) {
	// A composition winning M1 and losing M2 ends at 1-1, winrate 0.50.
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()
			poke, dive, _ := testKeys(t)

			m1 := MatchRecord{MatchID: "M1", TeamA: poke, TeamB: dive, Winner: SideA}
			m2 := MatchRecord{MatchID: "M2", TeamA: poke, TeamB: dive, Winner: SideB}
			for _, rec := range []MatchRecord{m1, m2} {
				if _, err := s.ApplyMatch(ctx, rec); err != nil {
					t.Fatalf("ApplyMatch(%s): %v", rec.MatchID, err)
				}
			}

			agg, err := s.Lookup(ctx, poke)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if agg.Wins != 1 || agg.Losses != 1 {
				t.Errorf("aggregate = %d-%d, want 1-1", agg.Wins, agg.Losses)
			}
			if agg.Games() != 2 {
				t.Errorf("Games() = %d, want 2", agg.Games())
			}
			if math.Abs(agg.Winrate-0.5) > 1e-9 {
				t.Errorf("Winrate = %v, want 0.50", agg.Winrate)
			}
		})
	}
}

func TestWinrate_AlwaysDerived(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()
			poke, _, _ := testKeys(t)

			outcomes := []Outcome{OutcomeWin, OutcomeWin, OutcomeLoss, OutcomeWin, OutcomeLoss}
			for _, o := range outcomes {
				if err := s.RecordOutcome(ctx, poke, o); err != nil {
					t.Fatalf("RecordOutcome: %v", err)
				}
			}

			agg, err := s.Lookup(ctx, poke)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			want := float64(agg.Wins) / float64(agg.Wins+agg.Losses)
			if math.Abs(agg.Winrate-want) > 1e-9 {
				t.Errorf("Winrate = %v, want %v (wins=%d losses=%d)", agg.Winrate, want, agg.Wins, agg.Losses)
			}
		})
	}
}

func TestLookup_NotFound(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			_, _, protect := testKeys(t)

			if _, err := s.Lookup(context.Background(), protect); !errors.Is(err, ErrNotFound) {
				t.Errorf("Lookup on empty store error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestRebuildFromMatches_MatchesIncremental(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()
			poke, dive, protect := testKeys(t)

			records := []MatchRecord{
				{MatchID: "M1", TeamA: poke, TeamB: dive, Winner: SideA},
				{MatchID: "M2", TeamA: dive, TeamB: protect, Winner: SideB},
				{MatchID: "M3", TeamA: protect, TeamB: poke, Winner: SideA},
				{MatchID: "M4", TeamA: poke, TeamB: poke, Winner: SideB},
			}
			for _, rec := range records {
				if _, err := s.ApplyMatch(ctx, rec); err != nil {
					t.Fatalf("ApplyMatch(%s): %v", rec.MatchID, err)
				}
			}

			incremental := snapshotAggregates(t, s, poke, dive, protect)

			// Rebuild twice: the result must match the incremental state
			// and be stable across runs.
			for i := 0; i < 2; i++ {
				if err := s.RebuildFromMatches(ctx, s); err != nil {
					t.Fatalf("RebuildFromMatches #%d: %v", i+1, err)
				}
				rebuilt := snapshotAggregates(t, s, poke, dive, protect)
				for key, want := range incremental {
					if rebuilt[key] != want {
						t.Errorf("rebuild #%d: aggregate[%s] = %+v, want %+v", i+1, key, rebuilt[key], want)
					}
				}
			}
		})
	}
}

func snapshotAggregates(t *testing.T, s Store, keys ...comp.Key) map[string]Aggregate {
	t.Helper()
	out := make(map[string]Aggregate)
	for _, key := range keys {
		agg, err := s.Lookup(context.Background(), key)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", key, err)
		}
		out[key.String()] = agg
	}
	return out
}

func TestTopN(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()
			poke, dive, protect := testKeys(t)

			// poke: 12-3 (80%), dive: 5-15 (25%), protect: 3-1 (75%).
			seed := func(key comp.Key, wins, losses int) {
				for i := 0; i < wins; i++ {
					if err := s.RecordOutcome(ctx, key, OutcomeWin); err != nil {
						t.Fatalf("RecordOutcome: %v", err)
					}
				}
				for i := 0; i < losses; i++ {
					if err := s.RecordOutcome(ctx, key, OutcomeLoss); err != nil {
						t.Fatalf("RecordOutcome: %v", err)
					}
				}
			}
			seed(poke, 12, 3)
			seed(dive, 5, 15)
			seed(protect, 3, 1)

			t.Run("by winrate", func(t *testing.T) {
				rows, err := s.TopN(ctx, 10, SortByWinrate, 0)
				if err != nil {
					t.Fatalf("TopN: %v", err)
				}
				if len(rows) != 3 {
					t.Fatalf("TopN returned %d rows, want 3", len(rows))
				}
				if rows[0].Key != poke || rows[1].Key != protect || rows[2].Key != dive {
					t.Errorf("unexpected winrate order: %v, %v, %v", rows[0].Key, rows[1].Key, rows[2].Key)
				}
			})

			t.Run("by games with minGames", func(t *testing.T) {
				rows, err := s.TopN(ctx, 5, SortByGames, 10)
				if err != nil {
					t.Fatalf("TopN: %v", err)
				}
				if len(rows) != 2 {
					t.Fatalf("TopN returned %d rows, want 2 (protect has only 4 games)", len(rows))
				}
				if rows[0].Key != dive || rows[1].Key != poke {
					t.Errorf("unexpected games order: %v, %v", rows[0].Key, rows[1].Key)
				}
				for _, row := range rows {
					if row.Games() < 10 {
						t.Errorf("row %s has %d games, below minGames", row.Key, row.Games())
					}
				}
			})

			t.Run("limit", func(t *testing.T) {
				rows, err := s.TopN(ctx, 1, SortByWinrate, 0)
				if err != nil {
					t.Fatalf("TopN: %v", err)
				}
				if len(rows) != 1 {
					t.Errorf("TopN(1) returned %d rows", len(rows))
				}
			})
		})
	}
}

func TestTopN_DeterministicTieBreak(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()
			poke, dive, protect := testKeys(t)

			// All three at 1-1: same winrate, same games.
			for i, key := range []comp.Key{poke, dive, protect} {
				rec := MatchRecord{MatchID: fmt.Sprintf("T%d", i), TeamA: key, TeamB: key, Winner: SideA}
				if _, err := s.ApplyMatch(ctx, rec); err != nil {
					t.Fatalf("ApplyMatch: %v", err)
				}
			}

			first, err := s.TopN(ctx, 10, SortByWinrate, 0)
			if err != nil {
				t.Fatalf("TopN: %v", err)
			}
			for i := 0; i < 5; i++ {
				again, err := s.TopN(ctx, 10, SortByWinrate, 0)
				if err != nil {
					t.Fatalf("TopN: %v", err)
				}
				for j := range first {
					if again[j].Key != first[j].Key {
						t.Fatalf("tie-break not deterministic: run %d row %d = %v, want %v", i, j, again[j].Key, first[j].Key)
					}
				}
			}
			for i := 1; i < len(first); i++ {
				if first[i-1].Key.String() >= first[i].Key.String() {
					t.Errorf("tied rows not in key order: %v before %v", first[i-1].Key, first[i].Key)
				}
			}
		})
	}
}
