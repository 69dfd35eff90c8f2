package report

import (
	"context"
	"fmt"

	"github.com/ougirez/crimestat/internal/domain"
	"github.com/ougirez/crimestat/internal/pkg/store"
	"github.com/ougirez/crimestat/internal/service/aggregate"
)

const (
	DefaultDebugLimit = 100
	maxDebugLimit     = 1000
)

var radialCategories = []string{
	"shopping", "email_trade", "celebrity", "cyber_invest", "cyber_etc", "voice_phishing", "total",
}

type Options struct {
	Watchlist     []string
	FromYear      domain.Year
	ToYear        domain.Year
	CyberCategory string
}

type Service struct {
	store         store.Store
	watchlist     aggregate.Watchlist
	fromYear      domain.Year
	toYear        domain.Year
	cyberCategory string
}

func NewReportService(store store.Store, opts Options) *Service {
	return &Service{
		store:         store,
		watchlist:     aggregate.NewWatchlist(opts.Watchlist),
		fromYear:      opts.FromYear,
		toYear:        opts.ToYear,
		cyberCategory: opts.CyberCategory,
	}
}

// DefaultYears is the configured report window.
func (s *Service) DefaultYears() []domain.Year {
	return YearRange(s.fromYear, s.toYear)
}

func YearRange(from, to domain.Year) []domain.Year {
	if to < from {
		return []domain.Year{}
	}
	years := make([]domain.Year, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	return years
}

// BuildYearAlignedReport reads all three sources from the store and aligns
// them to years. Counts default to 0 for missing years, the ratio to null.
func (s *Service) BuildYearAlignedReport(ctx context.Context, years []domain.Year) (*domain.YearAlignedReport, error) {
	report := &domain.YearAlignedReport{
		Years:               years,
		CrimeRatio:          []*float64{},
		CyberScamCases:      []int{},
		VoicePhishingCases:  []int{},
		TotalDepartures:     []int{},
		WatchlistDepartures: []int{},
	}
	if len(years) == 0 {
		return report, nil
	}

	from, to := bounds(years)
	departures, err := s.store.ListDepartures(ctx, store.ListDeparturesOpts{FromYear: &from, ToYear: &to})
	if err != nil {
		return nil, fmt.Errorf("store.ListDepartures: %w", err)
	}

	cyberOpts := store.ListCyberScamOpts{Years: years}
	if s.cyberCategory != "" {
		cyberOpts.Category = &s.cyberCategory
	}
	cyber, err := s.store.ListCyberScam(ctx, cyberOpts)
	if err != nil {
		return nil, fmt.Errorf("store.ListCyberScam: %w", err)
	}

	voice, err := s.store.ListVoicePhishing(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListVoicePhishing: %w", err)
	}

	totals := aggregate.TotalByYear(departures)
	watched := aggregate.WatchlistTotalByYear(departures, s.watchlist)

	report.CrimeRatio = aggregate.AlignOptional(aggregate.RatioByYear(watched, totals), years)
	report.CyberScamCases = aggregate.AlignToYears(aggregate.CyberTotalByYear(cyber, s.cyberCategory), years, 0)
	report.VoicePhishingCases = aggregate.AlignToYears(aggregate.VoiceByYear(voice), years, 0)
	report.TotalDepartures = aggregate.AlignToYears(totals, years, 0)
	report.WatchlistDepartures = aggregate.AlignToYears(watched, years, 0)

	return report, nil
}

// BuildRadial breaks each stored cyber-fraud year down by category and adds
// that year's voice-phishing total. Direct trade and game cases are not
// part of the breakdown.
func (s *Service) BuildRadial(ctx context.Context) (*domain.RadialReport, error) {
	opts := store.ListCyberScamOpts{}
	if s.cyberCategory != "" {
		opts.Category = &s.cyberCategory
	}
	cyber, err := s.store.ListCyberScam(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListCyberScam: %w", err)
	}

	voice, err := s.store.ListVoicePhishing(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListVoicePhishing: %w", err)
	}
	voiceByYear := aggregate.VoiceByYear(voice)

	data := make([]domain.RadialRow, 0, len(cyber))
	for _, c := range cyber {
		row := domain.RadialRow{
			Year:          c.Year,
			Shopping:      c.ShoppingMall,
			EmailTrade:    c.EmailTrade,
			Celebrity:     c.Romance,
			CyberInvest:   c.Investment,
			CyberEtc:      c.Etc,
			VoicePhishing: voiceByYear[c.Year],
		}
		row.Total = row.Shopping + row.EmailTrade + row.Celebrity + row.CyberInvest + row.CyberEtc + row.VoicePhishing
		data = append(data, row)
	}

	return &domain.RadialReport{Categories: radialCategories, Data: data}, nil
}

func (s *Service) VoiceYearly(ctx context.Context) ([]domain.YearTotal, error) {
	voice, err := s.store.ListVoicePhishing(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListVoicePhishing: %w", err)
	}
	return aggregate.YearTotals(aggregate.VoiceByYear(voice)), nil
}

// TravelDebug lists the newest stored yearly rows and row counts per region.
func (s *Service) TravelDebug(ctx context.Context, limit int) (*domain.TravelDebug, error) {
	if limit <= 0 {
		limit = DefaultDebugLimit
	}
	if limit > maxDebugLimit {
		limit = maxDebugLimit
	}

	total, err := s.store.CountDepartures(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.CountDepartures: %w", err)
	}

	debug := &domain.TravelDebug{
		TotalCount: total,
		Regions:    []domain.RegionCount{},
		Stats:      []domain.YearlyDeparture{},
		Limit:      limit,
	}
	if total == 0 {
		return debug, nil
	}

	if debug.Regions, err = s.store.CountDeparturesByRegion(ctx); err != nil {
		return nil, fmt.Errorf("store.CountDeparturesByRegion: %w", err)
	}
	debug.Stats, err = s.store.ListDepartures(ctx, store.ListDeparturesOpts{NewestFirst: true, Limit: uint64(limit)})
	if err != nil {
		return nil, fmt.Errorf("store.ListDepartures: %w", err)
	}

	return debug, nil
}

func bounds(years []domain.Year) (domain.Year, domain.Year) {
	from, to := years[0], years[0]
	for _, y := range years[1:] {
		if y < from {
			from = y
		}
		if y > to {
			to = y
		}
	}
	return from, to
}
