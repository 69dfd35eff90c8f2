package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ougirez/crimestat/internal/domain"
)

func TestReduceToYearly(t *testing.T) {
	monthly := []domain.MonthlyDeparture{
		{Year: 2019, Month: 1, Country: "중국", Region: "asia", Departures: 10},
		{Year: 2019, Month: 2, Country: "중국", Region: "asia", Departures: 15},
		{Year: 2019, Month: 1, Country: "러시아", Region: "europe", Departures: 3},
		{Year: 2019, Month: 1, Country: "러시아", Region: "asia", Departures: 4},
		{Year: 2018, Month: 12, Country: "중국", Region: "asia", Departures: 1},
	}

	want := []domain.YearlyDeparture{
		{Year: 2018, Country: "중국", Region: "asia", Departures: 1},
		{Year: 2019, Country: "러시아", Region: "asia", Departures: 4},
		{Year: 2019, Country: "중국", Region: "asia", Departures: 25},
		{Year: 2019, Country: "러시아", Region: "europe", Departures: 3},
	}
	if diff := cmp.Diff(want, ReduceToYearly(monthly)); diff != "" {
		t.Errorf("ReduceToYearly mismatch (-want +got):\n%s", diff)
	}
}

func TestReduceToYearly_Idempotent(t *testing.T) {
	monthly := []domain.MonthlyDeparture{
		{Year: 2020, Month: 1, Country: "인도", Region: "asia", Departures: 7},
		{Year: 2020, Month: 2, Country: "인도", Region: "asia", Departures: 8},
		{Year: 2021, Month: 1, Country: "미국", Region: "america", Departures: 9},
	}

	once := ReduceToYearly(monthly)

	asMonthly := make([]domain.MonthlyDeparture, 0, len(once))
	for _, y := range once {
		asMonthly = append(asMonthly, domain.MonthlyDeparture{Year: y.Year, Country: y.Country, Region: y.Region, Departures: y.Departures})
	}
	twice := ReduceToYearly(asMonthly)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second reduction changed totals (-once +twice):\n%s", diff)
	}
	if diff := cmp.Diff(TotalByYear(once), TotalByYear(twice)); diff != "" {
		t.Errorf("TotalByYear mismatch:\n%s", diff)
	}
}

func TestWatchlistTotals(t *testing.T) {
	yearly := []domain.YearlyDeparture{
		{Year: 2019, Country: "중국", Region: "asia", Departures: 200},
		{Year: 2019, Country: "필리핀", Region: "asia", Departures: 100},
		{Year: 2019, Country: "일본", Region: "asia", Departures: 700},
		{Year: 2020, Country: "일본", Region: "asia", Departures: 50},
		{Year: 2020, Country: "중국 ", Region: "asia", Departures: 50},
	}
	wl := NewWatchlist([]string{"중국", "필리핀"})

	totals := TotalByYear(yearly)
	watched := WatchlistTotalByYear(yearly, wl)

	if diff := cmp.Diff(map[domain.Year]int{2019: 1000, 2020: 100}, totals); diff != "" {
		t.Errorf("TotalByYear mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[domain.Year]int{2019: 300}, watched); diff != "" {
		t.Errorf("WatchlistTotalByYear mismatch (-want +got):\n%s", diff)
	}

	ratios := RatioByYear(watched, totals)
	if diff := cmp.Diff(map[domain.Year]float64{2019: 30}, ratios); diff != "" {
		t.Errorf("RatioByYear mismatch (-want +got):\n%s", diff)
	}
}

func TestRatioByYear(t *testing.T) {
	watched := map[domain.Year]int{2018: 1, 2019: 5, 2021: 3}
	totals := map[domain.Year]int{2018: 3, 2019: 0, 2020: 10}

	got := RatioByYear(watched, totals)

	want := map[domain.Year]float64{2018: 33.333}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RatioByYear mismatch (-want +got):\n%s", diff)
	}
	if _, ok := got[2020]; ok {
		t.Error("year without watched total must have no ratio")
	}
}

func TestAlignToYears(t *testing.T) {
	years := []domain.Year{2018, 2019, 2020, 2021}

	got := AlignToYears(map[domain.Year]int{2019: 5, 2021: 7}, years, 0)
	if diff := cmp.Diff([]int{0, 5, 0, 7}, got); diff != "" {
		t.Errorf("AlignToYears mismatch (-want +got):\n%s", diff)
	}

	optional := AlignOptional(map[domain.Year]float64{2020: 12.5}, years)
	if optional[0] != nil || optional[1] != nil || optional[3] != nil {
		t.Errorf("missing years must be nil: %v", optional)
	}
	if optional[2] == nil || *optional[2] != 12.5 {
		t.Errorf("optional[2] = %v, want 12.5", optional[2])
	}

	if got := AlignToYears(map[domain.Year]int{}, nil, 0); len(got) != 0 {
		t.Errorf("empty years must align to empty slice, got %v", got)
	}
}

func TestCyberTotalByYear(t *testing.T) {
	rows := []domain.CyberScamYearly{
		{Year: 2020, Category: "발생건수", DirectTrade: 1, ShoppingMall: 2, Game: 3, EmailTrade: 4, Romance: 5, Investment: 6, Etc: 7},
		{Year: 2020, Category: "검거건수", DirectTrade: 10},
		{Year: 2021, Category: "발생건수", Etc: 2},
	}

	if diff := cmp.Diff(map[domain.Year]int{2020: 28, 2021: 2}, CyberTotalByYear(rows, "발생건수")); diff != "" {
		t.Errorf("filtered mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[domain.Year]int{2020: 38, 2021: 2}, CyberTotalByYear(rows, "")); diff != "" {
		t.Errorf("unfiltered mismatch (-want +got):\n%s", diff)
	}
}

func TestVoiceAndCountrySeries(t *testing.T) {
	voice := []domain.VoicePhishingMonthly{{Year: 2019, Month: 1, Cases: 4}, {Year: 2019, Month: 2, Cases: 6}, {Year: 2020, Month: 1, Cases: 1}}
	if diff := cmp.Diff(map[domain.Year]int{2019: 10, 2020: 1}, VoiceByYear(voice)); diff != "" {
		t.Errorf("VoiceByYear mismatch (-want +got):\n%s", diff)
	}

	yearly := []domain.YearlyDeparture{
		{Year: 2019, Country: "러시아", Region: "asia", Departures: 1},
		{Year: 2019, Country: "러시아", Region: "europe", Departures: 2},
	}
	want := map[string]map[domain.Year]int{"러시아": {2019: 3}}
	if diff := cmp.Diff(want, CountryByYear(yearly)); diff != "" {
		t.Errorf("CountryByYear mismatch (-want +got):\n%s", diff)
	}

	series := map[domain.Year]int{2017: 100, 2018: 1, 2024: 2, 2025: 50}
	if got := TotalInRange(series, 2018, 2024); got != 3 {
		t.Errorf("TotalInRange = %d, want 3", got)
	}
}
