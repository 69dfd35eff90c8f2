// Package tabular turns the ministry's per-region departure spreadsheets
// into long-form monthly records.
//
// Layout of a region file:
//
//	row 0   ignored
//	row 1   country labels, local name followed by the romanized name
//	row 2   column kind, "명수" (count) or "전년대비" (year-over-year %)
//	row 3+  data; column 0 optionally holds "2019년", column 1 holds "1월"
//
// Country columns start at index 3.
package tabular

import (
	"strings"

	"github.com/ougirez/crimestat/internal/domain"
	"github.com/ougirez/crimestat/internal/pkg/utils"
)

const (
	MarkerCount     = "명수"
	SuffixYear      = "년"
	SuffixMonth     = "월"
	labelRow        = 1
	kindRow         = 2
	firstDataRow    = 3
	firstDataColumn = 3
)

const (
	SkipNotCountColumn domain.SkipReason = "not_count_column"
	SkipBlankLabel     domain.SkipReason = "blank_label"
	SkipBeforeYear     domain.SkipReason = "month_before_year"
	SkipNotMonthRow    domain.SkipReason = "not_month_row"
	SkipBadMonth       domain.SkipReason = "month_out_of_range"
)

type Column struct {
	Index     int    `json:"index"`
	Country   string `json:"country"`
	Romanized string `json:"romanized,omitempty"`
}

type Result struct {
	Region  string                    `json:"region"`
	Columns []Column                  `json:"columns"`
	Records []domain.MonthlyDeparture `json:"records"`
	Skipped domain.Tally              `json:"skipped"`
}

// Parse never fails: columns and rows that do not fit the layout are
// counted in Result.Skipped and left out.
func Parse(grid Grid, region string) *Result {
	res := &Result{Region: region, Skipped: domain.Tally{}}
	res.Columns = countColumns(grid, res.Skipped)

	var (
		year    int
		hasYear bool
	)
	for row := firstDataRow; row < len(grid); row++ {
		yearCell := grid.Cell(row, 0)
		if strings.HasSuffix(yearCell, SuffixYear) {
			if y, ok := utils.LeadingDigits(yearCell); ok {
				year, hasYear = y, true
			}
			continue
		}

		monthCell := grid.Cell(row, 1)
		if !strings.HasSuffix(monthCell, SuffixMonth) {
			res.Skipped.Add(SkipNotMonthRow)
			continue
		}
		if !hasYear {
			res.Skipped.Add(SkipBeforeYear)
			continue
		}
		month, ok := utils.LeadingDigits(monthCell)
		if !ok || month < 1 || month > 12 {
			res.Skipped.Add(SkipBadMonth)
			continue
		}

		for _, col := range res.Columns {
			departures := utils.CoerceInt(grid.Cell(row, col.Index), 0)
			if departures < 0 {
				departures = 0
			}
			res.Records = append(res.Records, domain.MonthlyDeparture{
				Year:       year,
				Month:      month,
				Country:    col.Country,
				Region:     region,
				Departures: departures,
			})
		}
	}

	return res
}

func countColumns(grid Grid, skipped domain.Tally) []Column {
	var columns []Column
	for col := firstDataColumn; col < grid.Width(); col++ {
		if grid.Cell(kindRow, col) != MarkerCount {
			skipped.Add(SkipNotCountColumn)
			continue
		}

		label := grid.Cell(labelRow, col)
		if isBlankLabel(label) {
			skipped.Add(SkipBlankLabel)
			continue
		}

		romanized := grid.Cell(labelRow, col+1)
		if isBlankLabel(romanized) {
			romanized = ""
		}
		columns = append(columns, Column{Index: col, Country: label, Romanized: romanized})
	}
	return columns
}

func isBlankLabel(label string) bool {
	return label == "" || strings.EqualFold(label, "nan")
}
