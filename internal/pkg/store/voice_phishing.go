package store

import (
	"context"
	"fmt"

	"github.com/ougirez/crimestat/internal/domain"
	"github.com/ougirez/crimestat/internal/pkg/logger"
)

var voicePhishingColumns = []string{"year", "month", "cases"}

func (s *store) UpsertVoicePhishing(ctx context.Context, records []domain.VoicePhishingMonthly) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	err := s.pool.InTx(ctx, func(tx Pool) error {
		for _, r := range records {
			key := map[string]any{"year": r.Year, "month": r.Month}
			attrs := map[string]any{"cases": r.Cases}
			if err := upsert(ctx, tx, voicePhishingStats, key, attrs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorf(ctx, "UpsertVoicePhishing: %s", err.Error())
		return 0, fmt.Errorf("UpsertVoicePhishing: %w", err)
	}

	return len(records), nil
}

func (s *store) ListVoicePhishing(ctx context.Context) ([]domain.VoicePhishingMonthly, error) {
	query := s.pool.Builder().Select(voicePhishingColumns...).
		From(tableVoicePhishingStats).
		OrderBy("year", "month")

	var selected []domain.VoicePhishingMonthly
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}

	return selected, nil
}
