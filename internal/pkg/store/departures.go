package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/crimestat/internal/domain"
	"github.com/ougirez/crimestat/internal/pkg/logger"
)

type ListDeparturesOpts struct {
	FromYear    *int
	ToYear      *int
	NewestFirst bool
	Limit       uint64
}

var travelStatsColumns = []string{"year", "country", "region", "departures"}

// UpsertDepartures writes the batch in one transaction.
func (s *store) UpsertDepartures(ctx context.Context, records []domain.YearlyDeparture) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	err := s.pool.InTx(ctx, func(tx Pool) error {
		for _, r := range records {
			key := map[string]any{"year": r.Year, "country": r.Country, "region": r.Region}
			attrs := map[string]any{"departures": r.Departures}
			if err := upsert(ctx, tx, travelStats, key, attrs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorf(ctx, "UpsertDepartures: %s", err.Error())
		return 0, fmt.Errorf("UpsertDepartures: %w", err)
	}

	return len(records), nil
}

func (s *store) ListDepartures(ctx context.Context, opts ListDeparturesOpts) ([]domain.YearlyDeparture, error) {
	query := s.pool.Builder().Select(travelStatsColumns...).
		From(tableTravelStats)

	if opts.FromYear != nil {
		query = query.Where(sq.GtOrEq{"year": *opts.FromYear})
	}
	if opts.ToYear != nil {
		query = query.Where(sq.LtOrEq{"year": *opts.ToYear})
	}

	if opts.NewestFirst {
		query = query.OrderBy("year desc", "region", "country")
	} else {
		query = query.OrderBy("year", "region", "country")
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	var selected []domain.YearlyDeparture
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) CountDepartures(ctx context.Context) (int, error) {
	query := s.pool.Builder().Select("count(*)").From(tableTravelStats)

	var count int
	if err := s.pool.Getx(ctx, &count, query); err != nil {
		return 0, wrapErr(err)
	}

	return count, nil
}

func (s *store) CountDeparturesByRegion(ctx context.Context) ([]domain.RegionCount, error) {
	query := s.pool.Builder().Select("region", "count(*) as count").
		From(tableTravelStats).
		GroupBy("region").
		OrderBy("region")

	var selected []domain.RegionCount
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
