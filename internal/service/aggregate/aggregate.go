// Package aggregate reduces long-form departure records to yearly series and
// lines the travel, cyber-fraud and voice-phishing series up on one year axis.
package aggregate

import (
	"sort"

	"github.com/ougirez/crimestat/internal/domain"
	"github.com/shopspring/decimal"
)

const ratioPlaces = 3

type yearlyKey struct {
	year    domain.Year
	country string
	region  string
}

// ReduceToYearly sums departures per (year, country, region). Output is
// ordered by year, region, country.
func ReduceToYearly(monthly []domain.MonthlyDeparture) []domain.YearlyDeparture {
	sums := make(map[yearlyKey]int, len(monthly)/12+1)
	for _, m := range monthly {
		sums[yearlyKey{year: m.Year, country: m.Country, region: m.Region}] += m.Departures
	}

	yearly := make([]domain.YearlyDeparture, 0, len(sums))
	for k, departures := range sums {
		yearly = append(yearly, domain.YearlyDeparture{
			Year:       k.year,
			Country:    k.country,
			Region:     k.region,
			Departures: departures,
		})
	}

	sort.Slice(yearly, func(i, j int) bool {
		a, b := yearly[i], yearly[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		return a.Country < b.Country
	})

	return yearly
}

// TotalByYear sums every row of a year, so a country listed under two
// regions counts in both.
func TotalByYear(yearly []domain.YearlyDeparture) map[domain.Year]int {
	totals := make(map[domain.Year]int)
	for _, y := range yearly {
		totals[y.Year] += y.Departures
	}
	return totals
}

// Watchlist matches country labels exactly, without trimming or case folding.
type Watchlist map[string]struct{}

func NewWatchlist(countries []string) Watchlist {
	wl := make(Watchlist, len(countries))
	for _, c := range countries {
		wl[c] = struct{}{}
	}
	return wl
}

func (w Watchlist) Contains(country string) bool {
	_, ok := w[country]
	return ok
}

// WatchlistTotalByYear only has entries for years in which at least one
// watched country appears.
func WatchlistTotalByYear(yearly []domain.YearlyDeparture, watchlist Watchlist) map[domain.Year]int {
	totals := make(map[domain.Year]int)
	for _, y := range yearly {
		if watchlist.Contains(y.Country) {
			totals[y.Year] += y.Departures
		}
	}
	return totals
}

// RatioByYear is watched/total*100 rounded to three places. A year missing
// from either side, or with a zero total, has no entry.
func RatioByYear(watched, totals map[domain.Year]int) map[domain.Year]float64 {
	ratios := make(map[domain.Year]float64, len(totals))
	for year, total := range totals {
		w, ok := watched[year]
		if !ok || total == 0 {
			continue
		}
		ratios[year] = decimal.NewFromInt(int64(w)).
			Div(decimal.NewFromInt(int64(total))).
			Mul(decimal.NewFromInt(100)).
			Round(ratioPlaces).
			InexactFloat64()
	}
	return ratios
}

// AlignToYears returns one value per requested year, def where the series
// has no entry.
func AlignToYears[V any](series map[domain.Year]V, years []domain.Year, def V) []V {
	aligned := make([]V, len(years))
	for i, year := range years {
		if v, ok := series[year]; ok {
			aligned[i] = v
		} else {
			aligned[i] = def
		}
	}
	return aligned
}

// AlignOptional is AlignToYears with nil as the default, for series where a
// missing year means undefined rather than zero.
func AlignOptional(series map[domain.Year]float64, years []domain.Year) []*float64 {
	aligned := make([]*float64, len(years))
	for i, year := range years {
		if v, ok := series[year]; ok {
			v := v
			aligned[i] = &v
		}
	}
	return aligned
}

func VoiceByYear(monthly []domain.VoicePhishingMonthly) map[domain.Year]int {
	totals := make(map[domain.Year]int)
	for _, m := range monthly {
		totals[m.Year] += m.Cases
	}
	return totals
}

// CyberTotalByYear sums TotalCases per year over rows of the given category.
// An empty category takes every row.
func CyberTotalByYear(rows []domain.CyberScamYearly, category string) map[domain.Year]int {
	totals := make(map[domain.Year]int)
	for _, r := range rows {
		if category != "" && r.Category != category {
			continue
		}
		totals[r.Year] += r.TotalCases()
	}
	return totals
}

// CountryByYear merges regions: country -> year -> departures.
func CountryByYear(yearly []domain.YearlyDeparture) map[string]map[domain.Year]int {
	byCountry := make(map[string]map[domain.Year]int)
	for _, y := range yearly {
		years, ok := byCountry[y.Country]
		if !ok {
			years = make(map[domain.Year]int)
			byCountry[y.Country] = years
		}
		years[y.Year] += y.Departures
	}
	return byCountry
}

// TotalInRange sums the series over the inclusive window [from, to].
func TotalInRange(series map[domain.Year]int, from, to domain.Year) int {
	total := 0
	for year, v := range series {
		if year >= from && year <= to {
			total += v
		}
	}
	return total
}

// SortedYears returns the keys of a series in ascending order.
func SortedYears[V any](series map[domain.Year]V) []domain.Year {
	years := make([]domain.Year, 0, len(series))
	for year := range series {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

func YearTotals(series map[domain.Year]int) []domain.YearTotal {
	years := SortedYears(series)
	out := make([]domain.YearTotal, 0, len(years))
	for _, year := range years {
		out = append(out, domain.YearTotal{Year: year, Total: series[year]})
	}
	return out
}

// YearRatios pairs each ratio with the figures it was derived from.
func YearRatios(watched, totals map[domain.Year]int, ratios map[domain.Year]float64) []domain.YearRatio {
	years := SortedYears(ratios)
	out := make([]domain.YearRatio, 0, len(years))
	for _, year := range years {
		out = append(out, domain.YearRatio{
			Year:             year,
			WatchlistTotal:   watched[year],
			YearTotal:        totals[year],
			WatchlistPercent: ratios[year],
		})
	}
	return out
}
