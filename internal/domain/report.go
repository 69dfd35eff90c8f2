package domain

// YearAlignedReport holds parallel arrays aligned by index to Years.
// CrimeRatio entries are nil where the ratio is undefined for that year.
type YearAlignedReport struct {
	Years               []Year     `json:"years"`
	CrimeRatio          []*float64 `json:"crime_ratio"`
	CyberScamCases      []int      `json:"cyber_scam_cases"`
	VoicePhishingCases  []int      `json:"voice_phishing_cases"`
	TotalDepartures     []int      `json:"total_departures"`
	WatchlistDepartures []int      `json:"watchlist_departures"`
}

type RadialRow struct {
	Year          Year `json:"year"`
	Shopping      int  `json:"shopping"`
	EmailTrade    int  `json:"email_trade"`
	Celebrity     int  `json:"celebrity"`
	CyberInvest   int  `json:"cyber_invest"`
	CyberEtc      int  `json:"cyber_etc"`
	VoicePhishing int  `json:"voice_phishing"`
	Total         int  `json:"total"`
}

type RadialReport struct {
	Categories []string    `json:"categories"`
	Data       []RadialRow `json:"data"`
}

type YearTotal struct {
	Year  Year `json:"year"`
	Total int  `json:"total"`
}

type YearRatio struct {
	Year             Year    `json:"year"`
	WatchlistTotal   int     `json:"watchlist_total"`
	YearTotal        int     `json:"year_total"`
	WatchlistPercent float64 `json:"watchlist_percent"`
}

type TravelDebug struct {
	TotalCount int               `json:"total_count"`
	Regions    []RegionCount     `json:"regions"`
	Stats      []YearlyDeparture `json:"stats"`
	Limit      int               `json:"limit"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
