package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/ougirez/crimestat/internal/domain"
	"github.com/ougirez/crimestat/internal/domain/dto"
	"github.com/ougirez/crimestat/internal/pkg/constants"
	"github.com/ougirez/crimestat/internal/pkg/logger"
	"github.com/ougirez/crimestat/internal/pkg/opendata"
	"github.com/ougirez/crimestat/internal/pkg/store"
	"github.com/ougirez/crimestat/internal/pkg/tabular"
	"github.com/ougirez/crimestat/internal/service/aggregate"
)

const previewSize = 20

var previewColumns = []string{"year", "country", "region", "departures"}

type Options struct {
	Regions       []tabular.Source
	Watchlist     []string
	FromYear      domain.Year
	ToYear        domain.Year
	Retries       uint64
	RetryInterval time.Duration
}

type Service struct {
	store     store.Store
	fetcher   opendata.Fetcher
	regions   []tabular.Source
	watchlist aggregate.Watchlist
	fromYear  domain.Year
	toYear    domain.Year
	retries   uint64
	interval  time.Duration
}

func NewIngestService(store store.Store, fetcher opendata.Fetcher, opts Options) *Service {
	return &Service{
		store:     store,
		fetcher:   fetcher,
		regions:   opts.Regions,
		watchlist: aggregate.NewWatchlist(opts.Watchlist),
		fromYear:  opts.FromYear,
		toYear:    opts.ToYear,
		retries:   opts.Retries,
		interval:  opts.RetryInterval,
	}
}

func (s *Service) SyncCyberScam(ctx context.Context) (*dto.SyncResult, error) {
	ctx, res := s.begin(ctx, constants.FeedCyberScam)

	batch, err := s.fetch(ctx, s.fetcher.FetchCyberScam)
	if err != nil {
		return nil, err
	}
	res.Fetched, res.Pages = len(batch.Rows), batch.Pages
	res.Skipped.Merge(batch.Skipped)

	records := make([]domain.CyberScamYearly, 0, len(batch.Rows))
	for _, raw := range batch.Rows {
		row, skip := opendata.ParseCyberScamRow(raw)
		if skip != "" {
			res.Skipped.Add(skip)
			continue
		}
		records = append(records, row.Record())
	}

	res.Saved, err = s.store.UpsertCyberScam(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("store.UpsertCyberScam: %w", err)
	}

	logger.Infof(ctx, "sync done: fetched=%d saved=%d skipped=%d", res.Fetched, res.Saved, res.Skipped.Total())
	return res, nil
}

// SyncVoicePhishing stores the monthly rows and returns yearly totals over
// everything stored so far.
func (s *Service) SyncVoicePhishing(ctx context.Context) (*dto.VoiceSyncResult, error) {
	ctx, base := s.begin(ctx, constants.FeedVoicePhishing)
	res := &dto.VoiceSyncResult{SyncResult: *base}

	batch, err := s.fetch(ctx, s.fetcher.FetchVoicePhishing)
	if err != nil {
		return nil, err
	}
	res.Fetched, res.Pages = len(batch.Rows), batch.Pages
	res.Skipped.Merge(batch.Skipped)

	records := make([]domain.VoicePhishingMonthly, 0, len(batch.Rows))
	for _, raw := range batch.Rows {
		row, skip := opendata.ParseVoicePhishingRow(raw)
		if skip != "" {
			res.Skipped.Add(skip)
			continue
		}
		records = append(records, row.Record())
	}

	res.Saved, err = s.store.UpsertVoicePhishing(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("store.UpsertVoicePhishing: %w", err)
	}

	stored, err := s.store.ListVoicePhishing(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListVoicePhishing: %w", err)
	}
	res.Yearly = aggregate.YearTotals(aggregate.VoiceByYear(stored))

	logger.Infof(ctx, "sync done: fetched=%d saved=%d skipped=%d", res.Fetched, res.Saved, res.Skipped.Total())
	return res, nil
}

// SyncTravel parses every region file, stores the yearly reduction and
// summarises what was parsed. Failed regions are reported, not fatal,
// unless none loaded at all.
func (s *Service) SyncTravel(ctx context.Context) (*dto.TravelSyncResult, error) {
	ctx, base := s.begin(ctx, constants.FeedTravel)
	res := &dto.TravelSyncResult{SyncResult: *base, FromYear: s.fromYear, ToYear: s.toYear}

	yearly, reports, skipped, err := s.loadTravel(ctx)
	if err != nil {
		return nil, err
	}
	res.Regions = reports
	res.Skipped.Merge(skipped)
	res.Fetched = len(yearly)
	for _, r := range reports {
		res.Parsed += r.Rows
	}

	res.Saved, err = s.store.UpsertDepartures(ctx, yearly)
	if err != nil {
		return nil, fmt.Errorf("store.UpsertDepartures: %w", err)
	}

	totals := aggregate.TotalByYear(yearly)
	watched := aggregate.WatchlistTotalByYear(yearly, s.watchlist)
	res.YearTotals = aggregate.YearTotals(totals)
	res.WatchlistTotals = aggregate.YearTotals(watched)
	res.Ratios = aggregate.YearRatios(watched, totals, aggregate.RatioByYear(watched, totals))
	res.TotalInRange = aggregate.TotalInRange(totals, s.fromYear, s.toYear)

	logger.Infof(ctx, "sync done: parsed=%d saved=%d skipped=%d", res.Parsed, res.Saved, res.Skipped.Total())
	return res, nil
}

// PreviewTravel parses the region files without touching the store.
func (s *Service) PreviewTravel(ctx context.Context) (*dto.TravelPreview, error) {
	yearly, reports, skipped, err := s.loadTravel(ctx)
	if err != nil {
		return nil, err
	}

	sample := yearly
	if len(sample) > previewSize {
		sample = sample[:previewSize]
	}

	return &dto.TravelPreview{
		Rows:          len(yearly),
		Columns:       previewColumns,
		Sample:        sample,
		Regions:       reports,
		CountryYearly: aggregate.CountryByYear(yearly),
		Skipped:       skipped,
	}, nil
}

// SyncAll runs every feed. One failing feed does not stop the others.
func (s *Service) SyncAll(ctx context.Context) *dto.SyncAllResult {
	res := &dto.SyncAllResult{Errors: map[string]string{}}

	var err error
	if res.Cyber, err = s.SyncCyberScam(ctx); err != nil {
		res.Errors[constants.FeedCyberScam] = err.Error()
	}
	if res.Voice, err = s.SyncVoicePhishing(ctx); err != nil {
		res.Errors[constants.FeedVoicePhishing] = err.Error()
	}
	if res.Travel, err = s.SyncTravel(ctx); err != nil {
		res.Errors[constants.FeedTravel] = err.Error()
	}

	return res
}

func (s *Service) begin(ctx context.Context, feed string) (context.Context, *dto.SyncResult) {
	runID := uuid.NewString()
	ctx = logger.WithFields(ctx, constants.LogFieldRunID, runID, constants.LogFieldFeed, feed)
	logger.Infof(ctx, "sync started")

	return ctx, &dto.SyncResult{RunID: runID, Feed: feed, Skipped: domain.Tally{}}
}

func (s *Service) loadTravel(ctx context.Context) ([]domain.YearlyDeparture, []tabular.RegionReport, domain.Tally, error) {
	if len(s.regions) == 0 {
		return nil, nil, nil, constants.ErrNoSources
	}

	reports := tabular.LoadRegions(ctx, s.regions)

	failed := 0
	for _, r := range reports {
		if r.Failed() {
			failed++
		}
	}
	if failed == len(reports) {
		logger.Errorf(ctx, "travel: all %d region files failed", failed)
		return nil, reports, nil, constants.ErrNoSources
	}

	monthly, skipped := tabular.Combine(reports)
	return aggregate.ReduceToYearly(monthly), reports, skipped, nil
}

type fetchFunc func(ctx context.Context) (*opendata.Batch, error)

// fetch retries transient failures. Client errors and configuration
// problems fail at once.
func (s *Service) fetch(ctx context.Context, fn fetchFunc) (*opendata.Batch, error) {
	var batch *opendata.Batch

	err := backoff.Retry(
		func() error {
			b, err := fn(ctx)
			if err != nil {
				if !retryable(err) {
					return backoff.Permanent(err)
				}
				logger.Warnf(ctx, "fetch failed, retrying: %s", err.Error())
				return err
			}
			batch = b
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(s.interval), s.retries),
			ctx,
		),
	)
	if err != nil {
		logger.Errorf(ctx, "fetch failed: %s", err.Error())
		return nil, fmt.Errorf("%w: %w", constants.ErrUpstreamUnavailable, err)
	}

	return batch, nil
}

func retryable(err error) bool {
	var statusErr *opendata.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return !errors.Is(err, opendata.ErrMissingServiceKey) &&
		!errors.Is(err, opendata.ErrFeedNotConfigured) &&
		!errors.Is(err, opendata.ErrUnexpectedPayload) &&
		!errors.Is(err, context.Canceled)
}
