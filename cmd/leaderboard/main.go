package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"comp-tracker/internal/comp"
	"comp-tracker/internal/query"
	"comp-tracker/internal/store"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

func main() {
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			break
		}
	}

	sortFlag := flag.String("sort", "winrate", "Sort order: winrate or games")
	minGames := flag.Int("min-games", 0, "Only show compositions with at least this many games")
	limit := flag.Int("limit", 20, "Number of rows to show")
	lookup := flag.String("comp", "", "Look up one composition instead (e.g. 'Tank/Fighter/Mage/Marksman/Support')")
	flag.Parse()

	ctx := context.Background()

	st, err := store.OpenFromEnv(ctx)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	service := query.NewService(st, comp.NewMapper())

	if *lookup != "" {
		showComp(ctx, service, *lookup)
		return
	}

	sortBy, err := store.ParseSortKey(*sortFlag)
	if err != nil {
		log.Fatalf("Invalid --sort: %v", err)
	}

	results, err := service.Leaderboard(ctx, sortBy, *minGames, *limit)
	if err != nil {
		log.Fatalf("Leaderboard query failed: %v", err)
	}
	if len(results) == 0 {
		fmt.Println("No compositions recorded yet. Run the crawler first.")
		return
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("#", "COMPOSITION", "WINS", "LOSSES", "GAMES", "WINRATE")
	for i, result := range results {
		table.Append(
			fmt.Sprintf("%d", i+1),
			result.Key.String(),
			fmt.Sprintf("%d", result.Wins),
			fmt.Sprintf("%d", result.Losses),
			fmt.Sprintf("%d", result.Games),
			result.WinratePct,
		)
	}
	table.Render()
}

func showComp(ctx context.Context, service *query.Service, arg string) {
	key, err := comp.ParseKey(arg)
	if err != nil {
		log.Fatalf("Invalid --comp: %v", err)
	}

	labels := make([]string, 0, comp.TeamSize)
	for _, category := range key.Categories() {
		labels = append(labels, string(category))
	}

	result, err := service.ByCategories(ctx, labels)
	if err != nil {
		if errors.Is(err, query.ErrNoData) {
			fmt.Printf("No games recorded for %s\n", key)
			return
		}
		log.Fatalf("Lookup failed: %v", err)
	}

	fmt.Printf("%s: %d-%d (%d games, %s winrate)\n",
		result.Key, result.Wins, result.Losses, result.Games, result.WinratePct)
}
