package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"comp-tracker/internal/comp"
	"comp-tracker/internal/query"
	"comp-tracker/internal/store"

	"github.com/joho/godotenv"
)

var (
	st      store.Store
	service *query.Service
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

	ctx := context.Background()

	var err error
	st, err = store.OpenFromEnv(ctx)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	service = query.NewService(st, comp.NewMapper())

	http.HandleFunc("/api/comp", handleComp)
	http.HandleFunc("/api/leaderboard", handleLeaderboard)
	http.HandleFunc("/api/stats", handleStats)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

// handleComp answers a single composition lookup. Exactly one of
// ?champions= or ?categories= must carry five comma-separated entries.
func handleComp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	champions := splitParam(r.URL.Query().Get("champions"))
	categories := splitParam(r.URL.Query().Get("categories"))

	var (
		result *query.Result
		err    error
	)
	switch {
	case len(champions) > 0 && len(categories) > 0:
		http.Error(w, "pass champions or categories, not both", http.StatusBadRequest)
		return
	case len(champions) > 0:
		result, err = service.ByChampions(ctx, champions)
	case len(categories) > 0:
		result, err = service.ByCategories(ctx, categories)
	default:
		http.Error(w, "champions or categories query param required", http.StatusBadRequest)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, query.ErrNoData):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, query.ErrIncompleteQuery),
			errors.Is(err, comp.ErrUnknownChampion),
			errors.Is(err, comp.ErrUnknownCategory):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, compResponse(*result))
}

func handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	sortBy, err := store.ParseSortKey(q.Get("sort"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	minGames, err := intParam(q.Get("min_games"), 0)
	if err != nil {
		http.Error(w, "min_games must be an integer", http.StatusBadRequest)
		return
	}
	limit, err := intParam(q.Get("limit"), 20)
	if err != nil {
		http.Error(w, "limit must be an integer", http.StatusBadRequest)
		return
	}

	results, err := service.Leaderboard(ctx, sortBy, minGames, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rows := make([]map[string]interface{}, 0, len(results))
	for _, result := range results {
		rows = append(rows, compResponse(result))
	}
	writeJSON(w, rows)
}

func handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	matchCount, err := st.MatchCount(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"matches": matchCount,
	})
}

func compResponse(result query.Result) map[string]interface{} {
	return map[string]interface{}{
		"comp":    result.Key.String(),
		"wins":    result.Wins,
		"losses":  result.Losses,
		"games":   result.Games,
		"winrate": result.WinratePct,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
