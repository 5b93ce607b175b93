// Package query answers composition questions against the aggregate store:
// look up one composition's record, or rank the best-performing ones.
package query

import (
	"context"
	"errors"
	"fmt"

	"comp-tracker/internal/comp"
	"comp-tracker/internal/store"
)

// ErrIncompleteQuery indicates the request did not name a full team.
var ErrIncompleteQuery = errors.New("query requires a full team of 5")

// ErrNoData indicates no recorded match produced the requested composition.
var ErrNoData = errors.New("no data for composition")

// Result is one composition's aggregate, shaped for presentation.
type Result struct {
	Key        comp.Key
	Categories []comp.Category
	Wins       int
	Losses     int
	Games      int
	Winrate    float64
	WinratePct string
}

// Service answers composition queries.
type Service struct {
	aggregates store.AggregateStore
	mapper     *comp.Mapper
}

// NewService creates a query service.
func NewService(aggregates store.AggregateStore, mapper *comp.Mapper) *Service {
	return &Service{aggregates: aggregates, mapper: mapper}
}

// ByChampions looks up the composition formed by five champion names.
func (s *Service) ByChampions(ctx context.Context, champions []string) (*Result, error) {
	if err := requireFive(champions); err != nil {
		return nil, err
	}

	categories := make([]comp.Category, 0, comp.TeamSize)
	for _, name := range champions {
		category, err := s.mapper.CategoryOf(name)
		if err != nil {
			return nil, fmt.Errorf("champion %q: %w", name, err)
		}
		categories = append(categories, category)
	}
	return s.lookup(ctx, categories)
}

// ByCategories looks up the composition formed by five category labels.
func (s *Service) ByCategories(ctx context.Context, labels []string) (*Result, error) {
	if err := requireFive(labels); err != nil {
		return nil, err
	}

	categories := make([]comp.Category, 0, comp.TeamSize)
	for _, label := range labels {
		category, err := comp.ParseCategory(label)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return s.lookup(ctx, categories)
}

func (s *Service) lookup(ctx context.Context, categories []comp.Category) (*Result, error) {
	key, err := comp.BuildKey(categories)
	if err != nil {
		return nil, err
	}

	agg, err := s.aggregates.Lookup(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoData, key)
		}
		return nil, err
	}
	result := toResult(agg)
	return &result, nil
}

// Leaderboard returns the top compositions. Zero values fall back to the
// defaults: sort by winrate, no minimum games, 20 rows.
func (s *Service) Leaderboard(ctx context.Context, sortBy store.SortKey, minGames, limit int) ([]Result, error) {
	if sortBy == "" {
		sortBy = store.SortByWinrate
	}
	if limit <= 0 {
		limit = 20
	}
	if minGames < 0 {
		minGames = 0
	}

	aggs, err := s.aggregates.TopN(ctx, limit, sortBy, minGames)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(aggs))
	for _, agg := range aggs {
		results = append(results, toResult(agg))
	}
	return results, nil
}

func requireFive(items []string) error {
	if len(items) != comp.TeamSize {
		return fmt.Errorf("%w: got %d", ErrIncompleteQuery, len(items))
	}
	for _, item := range items {
		if item == "" {
			return fmt.Errorf("%w: empty entry", ErrIncompleteQuery)
		}
	}
	return nil
}

func toResult(agg store.Aggregate) Result {
	return Result{
		Key:        agg.Key,
		Categories: agg.Key.Categories(),
		Wins:       agg.Wins,
		Losses:     agg.Losses,
		Games:      agg.Games(),
		Winrate:    agg.Winrate,
		WinratePct: fmt.Sprintf("%.2f%%", agg.Winrate*100),
	}
}
