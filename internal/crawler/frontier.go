package crawler

import (
	"github.com/bits-and-blooms/bloom/v3"
)

// Bloom filter sizing: large enough for any realistic single crawl run.
// A false positive skips one account or match; it can never double-count.
const (
	expectedMatches  = 500000
	expectedAccounts = 1000000
	falsePositive    = 0.001
)

// Frontier is the crawl worklist: pending player IDs to process, the set of
// players ever enqueued, and the set of match IDs already counted toward
// the collection target. It is owned by a single crawl loop and is not safe
// for concurrent use.
type Frontier struct {
	pending []string

	// enqueued is marked when a player enters pending, so a player is
	// never queued twice; visited is marked when a player is popped, as a
	// defensive second check against reprocessing.
	enqueued *bloom.BloomFilter
	visited  *bloom.BloomFilter

	collected      *bloom.BloomFilter
	collectedCount int
}

// NewFrontier creates an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{
		pending:   make([]string, 0, 1024),
		enqueued:  bloom.NewWithEstimates(expectedAccounts, falsePositive),
		visited:   bloom.NewWithEstimates(expectedAccounts, falsePositive),
		collected: bloom.NewWithEstimates(expectedMatches, falsePositive),
	}
}

// Enqueue adds a player to the pending set unless it was ever enqueued
// before. It reports whether the player was added.
func (f *Frontier) Enqueue(puuid string) bool {
	if puuid == "" || f.enqueued.TestString(puuid) {
		return false
	}
	f.enqueued.AddString(puuid)
	f.pending = append(f.pending, puuid)
	return true
}

// Next removes and returns the next pending player, skipping any that were
// somehow already visited. ok is false when pending is empty.
func (f *Frontier) Next() (puuid string, ok bool) {
	for len(f.pending) > 0 {
		puuid = f.pending[0]
		f.pending = f.pending[1:]
		if f.visited.TestString(puuid) {
			continue
		}
		f.visited.AddString(puuid)
		return puuid, true
	}
	return "", false
}

// Pending returns the number of players waiting to be processed.
func (f *Frontier) Pending() int {
	return len(f.pending)
}

// MarkCollected records a match ID toward the collection target. It
// reports false if the match was already counted.
func (f *Frontier) MarkCollected(matchID string) bool {
	if f.collected.TestString(matchID) {
		return false
	}
	f.collected.AddString(matchID)
	f.collectedCount++
	return true
}

// HasCollected reports whether a match ID was already counted this run.
func (f *Frontier) HasCollected(matchID string) bool {
	return f.collected.TestString(matchID)
}

// Collected returns the number of matches counted toward the target.
func (f *Frontier) Collected() int {
	return f.collectedCount
}
