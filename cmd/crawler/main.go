package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"comp-tracker/internal/comp"
	"comp-tracker/internal/crawler"
	"comp-tracker/internal/riot"
	"comp-tracker/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			fmt.Printf("Loaded .env from: %s\n", path)
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		log.Println("No .env file found, using environment variables")
	}

	riotID := flag.String("riot-id", "", "Seed Riot IDs, comma-separated (e.g. 'Player#NA1,Other#EUW')")
	puuids := flag.String("puuid", "", "Seed PUUIDs, comma-separated (skips account resolution)")
	target := flag.Int("target", 1000, "Stop after this many matches (0 = run until exhausted)")
	perPlayer := flag.Int("per-player", 20, "Matches to list per player")
	queue := flag.Int("queue", riot.QueueRankedSolo, "Queue ID filter (0 = all queues)")
	refresh := flag.Bool("refresh-champions", false, "Refresh the champion table from Data Dragon before crawling")
	flag.Parse()

	if *riotID == "" && *puuids == "" {
		fmt.Println("Usage:")
		fmt.Println("  crawler --riot-id='Player#NA1' [--target=1000] [--per-player=20] [--queue=420]")
		fmt.Println("  crawler --puuid=PUUID [--target=1000] [--per-player=20] [--queue=420]")
		fmt.Println()
		fmt.Println("Crawls ranked match history starting from the seed players,")
		fmt.Println("snowballing to every player seen in a collected match, and")
		fmt.Println("records team composition win/loss aggregates.")
		fmt.Println()
		fmt.Println("RIOT_API_KEY is required; DATABASE_URL or SQLITE_PATH selects storage.")
		os.Exit(1)
	}

	seeds, err := parseSeeds(*riotID, *puuids)
	if err != nil {
		log.Fatalf("Invalid seed: %v", err)
	}

	ctx := crawler.SetupSignalHandler()

	// Fail fast on a dead API key instead of partway into a crawl.
	apiKey := os.Getenv("RIOT_API_KEY")
	validator := riot.NewKeyValidator()
	valid, err := validator.ValidateKey(ctx, apiKey)
	if err != nil {
		log.Fatalf("Could not validate API key: %v", err)
	}
	if !valid {
		log.Fatal("RIOT_API_KEY was rejected by the Riot API (expired or revoked)")
	}

	client, err := riot.NewClient()
	if err != nil {
		log.Fatalf("Failed to create Riot client: %v", err)
	}

	mapper := comp.NewMapper()
	if *refresh {
		if err := mapper.RefreshFromDataDragon(ctx); err != nil {
			log.Fatalf("Failed to refresh champion table: %v", err)
		}
		log.Printf("[Main] Champion table refreshed: %d champions", len(mapper.Champions()))
	}

	st, err := store.OpenFromEnv(ctx)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	cfg := crawler.Config{
		TargetMatches:    *target,
		MatchesPerPlayer: *perPlayer,
		QueueID:          *queue,
		Backoff:          10 * time.Second,
	}

	start := time.Now()
	report, err := crawler.New(client, st, mapper, cfg).Run(ctx, seeds)
	if err != nil {
		log.Printf("Crawl stopped early: %v", err)
	}

	// The incremental path already applied every match; the rebuild makes
	// the aggregates authoritative even after an interrupted run.
	log.Println("[Main] Rebuilding aggregates from the match store...")
	if err := st.RebuildFromMatches(context.Background(), st); err != nil {
		log.Fatalf("Aggregate rebuild failed: %v", err)
	}

	fmt.Printf("\n=== Crawl Complete ===\n")
	fmt.Printf("End state: %s\n", report.End)
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Second))
	fmt.Printf("Players visited: %d\n", report.PlayersVisited)
	fmt.Printf("Matches collected: %d\n", report.MatchesCollected)
	fmt.Printf("Matches skipped: %d\n", report.MatchesSkipped)
	fmt.Printf("Failures: %d\n", report.Failures)
}

func parseSeeds(riotIDs, puuids string) ([]crawler.Seed, error) {
	var seeds []crawler.Seed
	for _, id := range strings.Split(riotIDs, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		parts := strings.SplitN(id, "#", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("%q is not in GameName#TagLine form", id)
		}
		seeds = append(seeds, crawler.Seed{
			GameName: strings.TrimSpace(parts[0]),
			TagLine:  strings.TrimSpace(parts[1]),
		})
	}
	for _, puuid := range strings.Split(puuids, ",") {
		if puuid = strings.TrimSpace(puuid); puuid != "" {
			seeds = append(seeds, crawler.Seed{PUUID: puuid})
		}
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("no seed players given")
	}
	return seeds, nil
}
