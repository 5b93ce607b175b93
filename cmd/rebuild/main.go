package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"comp-tracker/internal/store"

	"github.com/joho/godotenv"
)

// rebuild clears the composition aggregates and replays every stored
// match, repairing any drift left by interrupted runs.
func main() {
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			fmt.Printf("Loaded .env from: %s\n", path)
			break
		}
	}

	ctx := context.Background()

	st, err := store.OpenFromEnv(ctx)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	count, err := st.MatchCount(ctx)
	if err != nil {
		log.Fatalf("Failed to count matches: %v", err)
	}

	start := time.Now()
	log.Printf("[Rebuild] Replaying %d stored matches...", count)
	if err := st.RebuildFromMatches(ctx, st); err != nil {
		log.Fatalf("Rebuild failed: %v", err)
	}
	log.Printf("[Rebuild] Done in %s", time.Since(start).Round(time.Millisecond))
}
