package domain

type Year = int

// MonthlyDeparture is one long-form row of a region file: departures to one
// country in one month. It is never persisted; only its yearly reduction is.
type MonthlyDeparture struct {
	Year       Year   `json:"year"`
	Month      int    `json:"month"`
	Country    string `json:"country"`
	Region     string `json:"region"`
	Departures int    `json:"departures"`
}

// YearlyDeparture is keyed by (year, country, region). The same country
// listed in two region files is stored twice and merged when totals are read.
type YearlyDeparture struct {
	Year       Year   `db:"year" json:"year"`
	Country    string `db:"country" json:"country"`
	Region     string `db:"region" json:"region"`
	Departures int    `db:"departures" json:"departures"`
}

// VoicePhishingMonthly is keyed by (year, month).
type VoicePhishingMonthly struct {
	Year  Year `db:"year" json:"year"`
	Month int  `db:"month" json:"month"`
	Cases int  `db:"cases" json:"cases"`
}

// CyberScamYearly is keyed by (year, category), where category tells
// reported ("발생건수") from cleared ("검거건수") counts.
type CyberScamYearly struct {
	Year         Year   `db:"year" json:"year"`
	Category     string `db:"category" json:"category"`
	DirectTrade  int    `db:"direct_trade" json:"direct_trade"`
	ShoppingMall int    `db:"shopping_mall" json:"shopping_mall"`
	Game         int    `db:"game" json:"game"`
	EmailTrade   int    `db:"email_trade" json:"email_trade"`
	Romance      int    `db:"romance" json:"romance"`
	Investment   int    `db:"investment" json:"investment"`
	Etc          int    `db:"etc" json:"etc"`
}

// TotalCases is always recomputed from the seven typed counters.
func (c CyberScamYearly) TotalCases() int {
	return c.DirectTrade + c.ShoppingMall + c.Game + c.EmailTrade + c.Romance + c.Investment + c.Etc
}

type RegionCount struct {
	Region string `db:"region" json:"region"`
	Count  int    `db:"count" json:"count"`
}
