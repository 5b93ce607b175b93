// Package crawler walks the match-history graph breadth-first: process a
// player, record their recent matches, enqueue every participant seen, and
// repeat until the match target is hit or the frontier drains.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"comp-tracker/internal/comp"
	"comp-tracker/internal/riot"
	"comp-tracker/internal/store"
)

// MatchSource is the slice of the Riot client the crawler needs. A fake
// implementation stands in for the real API in tests.
type MatchSource interface {
	ResolveAccount(ctx context.Context, gameName, tagLine string) (*riot.Account, error)
	ListMatchIDs(ctx context.Context, puuid string, count, queueID int) ([]string, error)
	GetMatch(ctx context.Context, matchID string) (*riot.Match, error)
}

// Config holds crawl parameters.
type Config struct {
	// TargetMatches stops the crawl once this many matches have been
	// recorded. Zero or negative means no target (run until exhausted).
	TargetMatches int

	// MatchesPerPlayer caps how many recent match IDs are listed per player.
	MatchesPerPlayer int

	// QueueID restricts match history to one queue; zero means all queues.
	QueueID int

	// Backoff is the wait before retrying a rate-limited request when the
	// server gives no Retry-After hint.
	Backoff time.Duration
}

// DefaultConfig returns the crawl parameters used by the collector binary.
func DefaultConfig() Config {
	return Config{
		TargetMatches:    1000,
		MatchesPerPlayer: 20,
		QueueID:          riot.QueueRankedSolo,
		Backoff:          10 * time.Second,
	}
}

// Seed identifies a starting player, either by Riot ID or directly by
// PUUID. When PUUID is set, no account resolution happens.
type Seed struct {
	GameName string
	TagLine  string
	PUUID    string
}

// EndState says why a crawl run stopped.
type EndState string

const (
	EndTargetReached EndState = "TARGET_REACHED"
	EndExhausted     EndState = "EXHAUSTED"
)

// Report summarizes a finished crawl run.
type Report struct {
	End              EndState
	PlayersVisited   int
	MatchesCollected int
	MatchesSkipped   int
	Failures         int
	Elapsed          time.Duration
}

// Crawler drives the breadth-first walk. It runs a single loop: the Riot
// API rate budget leaves nothing for worker parallelism to win, and a
// single loop keeps the frontier free of locking.
type Crawler struct {
	source   MatchSource
	store    store.Store
	mapper   *comp.Mapper
	cfg      Config
	frontier *Frontier
}

// New creates a Crawler. Zero-value config fields fall back to defaults.
func New(source MatchSource, st store.Store, mapper *comp.Mapper, cfg Config) *Crawler {
	def := DefaultConfig()
	if cfg.MatchesPerPlayer <= 0 {
		cfg.MatchesPerPlayer = def.MatchesPerPlayer
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = def.Backoff
	}
	return &Crawler{
		source:   source,
		store:    st,
		mapper:   mapper,
		cfg:      cfg,
		frontier: NewFrontier(),
	}
}

// Run resolves the seeds and crawls until the target is reached, the
// frontier drains, or ctx is cancelled.
func (c *Crawler) Run(ctx context.Context, seeds []Seed) (*Report, error) {
	start := time.Now()
	report := &Report{End: EndExhausted}

	for _, seed := range seeds {
		if seed.PUUID != "" {
			c.frontier.Enqueue(seed.PUUID)
			continue
		}
		var account *riot.Account
		err := c.retryRateLimit(ctx, fmt.Sprintf("resolve %s#%s", seed.GameName, seed.TagLine), func() error {
			var err error
			account, err = c.source.ResolveAccount(ctx, seed.GameName, seed.TagLine)
			return err
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				report.Elapsed = time.Since(start)
				return report, err
			}
			// A dead seed never stops the run; the remaining seeds still crawl.
			log.Printf("[Crawler] Failed to resolve seed %s#%s: %v (skipping)", seed.GameName, seed.TagLine, err)
			report.Failures++
			continue
		}
		c.frontier.Enqueue(account.PUUID)
	}

	for {
		if err := ctx.Err(); err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}
		if c.cfg.TargetMatches > 0 && c.frontier.Collected() >= c.cfg.TargetMatches {
			report.End = EndTargetReached
			break
		}

		puuid, ok := c.frontier.Next()
		if !ok {
			break
		}

		if err := c.processPlayer(ctx, puuid, report); err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}
		report.PlayersVisited++
	}

	report.MatchesCollected = c.frontier.Collected()
	report.Elapsed = time.Since(start)
	c.logSummary(report)
	return report, nil
}

// processPlayer lists one player's recent matches and records each new one.
func (c *Crawler) processPlayer(ctx context.Context, puuid string, report *Report) error {
	var matchIDs []string
	err := c.retryRateLimit(ctx, "list matches for "+shortID(puuid), func() error {
		var err error
		matchIDs, err = c.source.ListMatchIDs(ctx, puuid, c.cfg.MatchesPerPlayer, c.cfg.QueueID)
		return err
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		log.Printf("[Crawler] Failed to list matches for %s: %v", shortID(puuid), err)
		report.Failures++
		return nil
	}

	for _, matchID := range matchIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.cfg.TargetMatches > 0 && c.frontier.Collected() >= c.cfg.TargetMatches {
			return nil
		}
		if c.frontier.HasCollected(matchID) {
			continue
		}

		if err := c.processMatch(ctx, matchID, report); err != nil {
			return err
		}
	}
	return nil
}

// processMatch fetches a match, derives both composition keys, and applies
// it to storage. Matches already in storage are skipped without counting
// toward the target, so re-runs pick up where the last run stopped.
func (c *Crawler) processMatch(ctx context.Context, matchID string, report *Report) error {
	present, err := c.store.HasMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("checking match %s: %w", matchID, err)
	}
	if present {
		report.MatchesSkipped++
		return nil
	}

	var match *riot.Match
	err = c.retryRateLimit(ctx, "fetch match "+matchID, func() error {
		var err error
		match, err = c.source.GetMatch(ctx, matchID)
		return err
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		log.Printf("[Crawler] Failed to fetch %s: %v", matchID, err)
		report.Failures++
		return nil
	}

	// Every participant joins the frontier whether or not the match is
	// usable: the walk should keep widening past malformed matches.
	for _, p := range match.Info.Participants {
		c.frontier.Enqueue(p.PUUID)
	}

	record, err := c.buildRecord(match)
	if err != nil {
		if errors.Is(err, comp.ErrUnknownChampion) || errors.Is(err, comp.ErrCompositionSize) {
			log.Printf("[Crawler] Skipping %s: %v", matchID, err)
			report.MatchesSkipped++
			return nil
		}
		log.Printf("[Crawler] Skipping %s: %v", matchID, err)
		report.Failures++
		return nil
	}

	inserted, err := c.store.ApplyMatch(ctx, record)
	if err != nil {
		return fmt.Errorf("applying match %s: %w", matchID, err)
	}
	if !inserted {
		report.MatchesSkipped++
		return nil
	}

	if c.frontier.MarkCollected(matchID) {
		collected := c.frontier.Collected()
		if collected%100 == 0 {
			log.Printf("[Crawler] %d matches collected, %d players pending", collected, c.frontier.Pending())
		}
	}
	return nil
}

// buildRecord turns a raw match into a storable record: one composition key
// per side and the winner read from the team-level win flags.
func (c *Crawler) buildRecord(match *riot.Match) (store.MatchRecord, error) {
	var record store.MatchRecord
	record.MatchID = match.Metadata.MatchID

	blue := make([]comp.Category, 0, comp.TeamSize)
	red := make([]comp.Category, 0, comp.TeamSize)
	for _, p := range match.Info.Participants {
		category, err := c.mapper.CategoryOf(p.ChampionName)
		if err != nil {
			return record, err
		}
		switch p.TeamID {
		case riot.TeamIDBlue:
			blue = append(blue, category)
		case riot.TeamIDRed:
			red = append(red, category)
		default:
			return record, fmt.Errorf("participant %s on unknown team %d", p.PUUID, p.TeamID)
		}
	}

	var err error
	if record.TeamA, err = comp.BuildKey(blue); err != nil {
		return record, err
	}
	if record.TeamB, err = comp.BuildKey(red); err != nil {
		return record, err
	}

	// Winner comes from the team objects, never from a participant's flag.
	winner, err := winningSide(match.Info.Teams)
	if err != nil {
		return record, err
	}
	record.Winner = winner
	return record, nil
}

func winningSide(teams []riot.MatchTeam) (store.Side, error) {
	for _, team := range teams {
		if !team.Win {
			continue
		}
		switch team.TeamID {
		case riot.TeamIDBlue:
			return store.SideA, nil
		case riot.TeamIDRed:
			return store.SideB, nil
		}
	}
	return "", errors.New("no winning team in match data")
}

// retryRateLimit runs fn, sleeping and retrying for as long as it keeps
// returning a rate-limit error. The wait honors the server's Retry-After
// when present, falling back to the configured backoff. Cancellation of
// ctx is the only way out of the retry loop.
func (c *Crawler) retryRateLimit(ctx context.Context, op string, fn func() error) error {
	for {
		err := fn()
		if err == nil || !errors.Is(err, riot.ErrRateLimited) {
			return err
		}

		wait := c.cfg.Backoff
		var rl *riot.RateLimitError
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			wait = rl.RetryAfter
		}
		log.Printf("[Crawler] Rate limited on %s, waiting %s", op, wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Crawler) logSummary(report *Report) {
	log.Printf("[Crawler] Done (%s): %d matches collected, %d players visited, %d skipped, %d failures in %s",
		report.End, report.MatchesCollected, report.PlayersVisited,
		report.MatchesSkipped, report.Failures, formatDuration(report.Elapsed))
}

func shortID(puuid string) string {
	if len(puuid) <= 16 {
		return puuid
	}
	return puuid[:16]
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	} else if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%02ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%02dm%02ds", hours, mins, secs)
}
