package model

// Summary captures the overall medal statistics for a table.
type Summary struct {
	TotalMedals    int `json:"total_medals"`
	TotalGold      int `json:"total_gold"`
	TotalSilver    int `json:"total_silver"`
	TotalBronze    int `json:"total_bronze"`
	TotalAthletes  int `json:"total_athletes"`
	TotalCountries int `json:"total_countries"`
}

// RankingEntry is one (label, aggregate) pair of a Ranking.
type RankingEntry struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Ranking is an ordered list of entries, descending by value. Ties keep
// the first-seen order of the underlying groups.
type Ranking []RankingEntry

// ProportionEntry is a ranking entry whose value is a fraction in [0,1].
type ProportionEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// AthleteEntry is one row of the top-athletes ranking. Country and Sport
// carry the athlete's first appearance in input order, not a re-aggregate.
type AthleteEntry struct {
	Athlete     string `json:"athlete"`
	Country     string `json:"country"`
	Sport       string `json:"sport"`
	Gold        int    `json:"gold"`
	Silver      int    `json:"silver"`
	Bronze      int    `json:"bronze"`
	TotalMedals int    `json:"total_medals"`
}

// ImprovementRow is one country's best year-over-year medal gain.
type ImprovementRow struct {
	Country     string `json:"country"`
	Year        int    `json:"year"`
	TotalMedals int    `json:"total_medals"`
	Delta       int    `json:"delta"`
}

// MedalBreakdown splits a group's medals by type.
type MedalBreakdown struct {
	Label  string `json:"label"`
	Gold   int    `json:"gold"`
	Silver int    `json:"silver"`
	Bronze int    `json:"bronze"`
}

// TrendPoint is one (country, year) total used for trend series.
type TrendPoint struct {
	Country     string `json:"country"`
	Year        int    `json:"year"`
	TotalMedals int    `json:"total_medals"`
}
