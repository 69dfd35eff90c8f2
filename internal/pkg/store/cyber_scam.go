package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/crimestat/internal/domain"
	"github.com/ougirez/crimestat/internal/pkg/logger"
)

type ListCyberScamOpts struct {
	Category *string
	Years    []int
}

var cyberScamColumns = []string{
	"year", "category", "direct_trade", "shopping_mall", "game",
	"email_trade", "romance", "investment", "etc",
}

func (s *store) UpsertCyberScam(ctx context.Context, records []domain.CyberScamYearly) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	err := s.pool.InTx(ctx, func(tx Pool) error {
		for _, r := range records {
			key := map[string]any{"year": r.Year, "category": r.Category}
			attrs := map[string]any{
				"direct_trade":  r.DirectTrade,
				"shopping_mall": r.ShoppingMall,
				"game":          r.Game,
				"email_trade":   r.EmailTrade,
				"romance":       r.Romance,
				"investment":    r.Investment,
				"etc":           r.Etc,
			}
			if err := upsert(ctx, tx, cyberScamStats, key, attrs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorf(ctx, "UpsertCyberScam: %s", err.Error())
		return 0, fmt.Errorf("UpsertCyberScam: %w", err)
	}

	return len(records), nil
}

func (s *store) ListCyberScam(ctx context.Context, opts ListCyberScamOpts) ([]domain.CyberScamYearly, error) {
	query := s.pool.Builder().Select(cyberScamColumns...).
		From(tableCyberScamStats).
		OrderBy("year", "category")

	if opts.Category != nil {
		query = query.Where(sq.Eq{"category": *opts.Category})
	}
	if len(opts.Years) > 0 {
		query = query.Where(sq.Eq{"year": opts.Years})
	}

	var selected []domain.CyberScamYearly
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}

	return selected, nil
}
