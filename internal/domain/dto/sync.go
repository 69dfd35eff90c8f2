package dto

import (
	"github.com/ougirez/crimestat/internal/domain"
	"github.com/ougirez/crimestat/internal/pkg/tabular"
)

// SyncResult is what one feed sync did. Skipped lets callers tell "the
// source had no rows" apart from "rows were dropped".
type SyncResult struct {
	RunID   string       `json:"run_id"`
	Feed    string       `json:"feed"`
	Fetched int          `json:"fetched"`
	Saved   int          `json:"saved"`
	Pages   int          `json:"pages,omitempty"`
	Skipped domain.Tally `json:"skipped"`
}

type VoiceSyncResult struct {
	SyncResult
	Yearly []domain.YearTotal `json:"yearly_voice_stats"`
}

type TravelSyncResult struct {
	SyncResult
	Parsed          int                    `json:"parsed_rows"`
	Regions         []tabular.RegionReport `json:"regions"`
	YearTotals      []domain.YearTotal     `json:"year_totals"`
	WatchlistTotals []domain.YearTotal     `json:"watchlist_totals"`
	Ratios          []domain.YearRatio     `json:"watchlist_ratio"`
	FromYear        domain.Year            `json:"from_year"`
	ToYear          domain.Year            `json:"to_year"`
	TotalInRange    int                    `json:"total_in_range"`
}

type TravelPreview struct {
	Rows          int                            `json:"rows"`
	Columns       []string                       `json:"columns"`
	Sample        []domain.YearlyDeparture       `json:"sample"`
	Regions       []tabular.RegionReport         `json:"regions"`
	CountryYearly map[string]map[domain.Year]int `json:"country_yearly"`
	Skipped       domain.Tally                   `json:"skipped"`
}

// SyncAllResult keeps going past a failed feed; Errors is keyed by feed name.
type SyncAllResult struct {
	Cyber  *SyncResult       `json:"cyber_scam,omitempty"`
	Voice  *VoiceSyncResult  `json:"voice_phishing,omitempty"`
	Travel *TravelSyncResult `json:"travel,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}
