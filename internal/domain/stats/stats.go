// Package stats computes summaries, rankings and deltas from a normalized
// medal table.
//
// Every function is a pure pass over its input: tables are never mutated,
// results are deterministic, and the empty table is always a valid input.
// Callers must normalize tables first; behavior on a non-normalized table
// is unspecified.
//
// Ordering contract: descending rankings use stable sorts, so equal
// values keep the first-seen order of their groups in the input.
package stats

import (
	"sort"

	"github.com/podiumhq/podium/internal/domain/model"
)

// Summarize returns the overall medal totals and distinct athlete and
// country counts. An empty table yields all zeros.
func Summarize(t model.Table) model.Summary {
	var s model.Summary
	athletes := make(map[string]struct{})
	countries := make(map[string]struct{})
	for _, r := range t.Rows {
		s.TotalMedals += r.TotalMedals
		s.TotalGold += r.Gold
		s.TotalSilver += r.Silver
		s.TotalBronze += r.Bronze
		athletes[r.Athlete] = struct{}{}
		countries[r.Country] = struct{}{}
	}
	s.TotalAthletes = len(athletes)
	s.TotalCountries = len(countries)
	return s
}

// TopCountries ranks countries by summed total medals, descending, and
// returns at most n entries.
func TopCountries(t model.Table, n int) model.Ranking {
	return topN(groupSum(t,
		func(r model.Record) string { return r.Country },
		func(r model.Record) int { return r.TotalMedals },
	), n)
}

// MedalsBySport ranks sports by summed total medals, descending.
func MedalsBySport(t model.Table) model.Ranking {
	return sortRanking(groupSum(t,
		func(r model.Record) string { return r.Sport },
		func(r model.Record) int { return r.TotalMedals },
	))
}

// MedalsInYear ranks countries by total medals won in the given year.
func MedalsInYear(t model.Table, year int) model.Ranking {
	rows := make([]model.Record, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.Year == year {
			rows = append(rows, r)
		}
	}
	return sortRanking(groupSum(model.Table{Rows: rows},
		func(r model.Record) string { return r.Country },
		func(r model.Record) int { return r.TotalMedals },
	))
}

// AthletesPerCountry ranks countries by their distinct athlete count.
func AthletesPerCountry(t model.Table) model.Ranking {
	type group struct {
		athletes map[string]struct{}
	}
	order := make([]string, 0)
	groups := make(map[string]*group)
	for _, r := range t.Rows {
		g, ok := groups[r.Country]
		if !ok {
			g = &group{athletes: make(map[string]struct{})}
			groups[r.Country] = g
			order = append(order, r.Country)
		}
		g.athletes[r.Athlete] = struct{}{}
	}
	ranking := make(model.Ranking, 0, len(order))
	for _, c := range order {
		ranking = append(ranking, model.RankingEntry{Label: c, Value: len(groups[c].athletes)})
	}
	return sortRanking(ranking)
}

// TopAthletes ranks athletes by summed total medals, descending, keeping
// per-type sums. Country and Sport come from the athlete's first row in
// input order; an athlete who switched countries or sports stays
// attributed to their first occurrence.
func TopAthletes(t model.Table, n int) []model.AthleteEntry {
	order := make([]string, 0)
	groups := make(map[string]*model.AthleteEntry)
	for _, r := range t.Rows {
		e, ok := groups[r.Athlete]
		if !ok {
			e = &model.AthleteEntry{
				Athlete: r.Athlete,
				Country: r.Country,
				Sport:   r.Sport,
			}
			groups[r.Athlete] = e
			order = append(order, r.Athlete)
		}
		e.Gold += r.Gold
		e.Silver += r.Silver
		e.Bronze += r.Bronze
		e.TotalMedals += r.TotalMedals
	}
	entries := make([]model.AthleteEntry, 0, len(order))
	for _, a := range order {
		entries = append(entries, *groups[a])
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalMedals > entries[j].TotalMedals
	})
	if n < 0 {
		n = 0
	}
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// GoldProportion returns each country's share of gold among its total
// medals, descending. Countries whose total is zero have an undefined
// ratio and are excluded; the result never contains NaN and every value
// lies in [0,1].
func GoldProportion(t model.Table) []model.ProportionEntry {
	type group struct {
		gold, total int
	}
	order := make([]string, 0)
	groups := make(map[string]*group)
	for _, r := range t.Rows {
		g, ok := groups[r.Country]
		if !ok {
			g = &group{}
			groups[r.Country] = g
			order = append(order, r.Country)
		}
		g.gold += r.Gold
		g.total += r.TotalMedals
	}
	out := make([]model.ProportionEntry, 0, len(order))
	for _, c := range order {
		g := groups[c]
		if g.total == 0 {
			continue
		}
		out = append(out, model.ProportionEntry{Label: c, Value: float64(g.gold) / float64(g.total)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// Improvement computes each country's greatest medal gain between
// consecutive Olympic appearances.
//
// Totals are grouped by (country, year); within a country, deltas run
// over its distinct years ascending. A country's first appearance has no
// delta, so countries with fewer than two distinct years are excluded.
// Per country the row with the maximum delta is kept (earliest year on a
// tie), and the result is ordered descending by delta.
func Improvement(t model.Table) []model.ImprovementRow {
	type cy struct {
		country string
		year    int
	}
	totals := make(map[cy]int)
	years := make(map[string][]int)
	order := make([]string, 0)
	for _, r := range t.Rows {
		k := cy{r.Country, r.Year}
		if _, ok := totals[k]; !ok {
			if len(years[r.Country]) == 0 {
				order = append(order, r.Country)
			}
			years[r.Country] = append(years[r.Country], r.Year)
		}
		totals[k] += r.TotalMedals
	}

	rows := make([]model.ImprovementRow, 0, len(order))
	for _, country := range order {
		ys := years[country]
		sort.Ints(ys)
		if len(ys) < 2 {
			continue
		}
		best := model.ImprovementRow{Country: country}
		haveBest := false
		for i := 1; i < len(ys); i++ {
			delta := totals[cy{country, ys[i]}] - totals[cy{country, ys[i-1]}]
			if !haveBest || delta > best.Delta {
				best = model.ImprovementRow{
					Country:     country,
					Year:        ys[i],
					TotalMedals: totals[cy{country, ys[i]}],
					Delta:       delta,
				}
				haveBest = true
			}
		}
		rows = append(rows, best)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Delta > rows[j].Delta })
	return rows
}

// CountryMedalBreakdown returns per-type medal sums for the top n
// countries, in top-countries order.
func CountryMedalBreakdown(t model.Table, n int) []model.MedalBreakdown {
	return breakdown(t, TopCountries(t, n), func(r model.Record) string { return r.Country })
}

// SportMedalBreakdown returns per-type medal sums for the top n sports,
// in medals-by-sport order.
func SportMedalBreakdown(t model.Table, n int) []model.MedalBreakdown {
	ranking := MedalsBySport(t)
	if n >= 0 && n < len(ranking) {
		ranking = ranking[:n]
	}
	return breakdown(t, ranking, func(r model.Record) string { return r.Sport })
}

// Trend returns (country, year) medal totals for the given countries,
// countries in first-seen input order and years ascending within each.
// A nil or empty countries slice selects every country.
func Trend(t model.Table, countries []string) []model.TrendPoint {
	want := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		want[c] = struct{}{}
	}
	type cy struct {
		country string
		year    int
	}
	totals := make(map[cy]int)
	years := make(map[string][]int)
	order := make([]string, 0)
	for _, r := range t.Rows {
		if len(want) > 0 {
			if _, ok := want[r.Country]; !ok {
				continue
			}
		}
		k := cy{r.Country, r.Year}
		if _, ok := totals[k]; !ok {
			if len(years[r.Country]) == 0 {
				order = append(order, r.Country)
			}
			years[r.Country] = append(years[r.Country], r.Year)
		}
		totals[k] += r.TotalMedals
	}
	out := make([]model.TrendPoint, 0, len(totals))
	for _, country := range order {
		ys := years[country]
		sort.Ints(ys)
		for _, y := range ys {
			out = append(out, model.TrendPoint{Country: country, Year: y, TotalMedals: totals[cy{country, y}]})
		}
	}
	return out
}

// groupSum accumulates val per key in first-seen key order, unsorted.
func groupSum(t model.Table, key func(model.Record) string, val func(model.Record) int) model.Ranking {
	order := make([]string, 0)
	sums := make(map[string]int)
	for _, r := range t.Rows {
		k := key(r)
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += val(r)
	}
	ranking := make(model.Ranking, 0, len(order))
	for _, k := range order {
		ranking = append(ranking, model.RankingEntry{Label: k, Value: sums[k]})
	}
	return ranking
}

func sortRanking(r model.Ranking) model.Ranking {
	sort.SliceStable(r, func(i, j int) bool { return r[i].Value > r[j].Value })
	return r
}

func topN(r model.Ranking, n int) model.Ranking {
	r = sortRanking(r)
	if n < 0 {
		n = 0
	}
	if n < len(r) {
		r = r[:n]
	}
	return r
}

func breakdown(t model.Table, ranking model.Ranking, key func(model.Record) string) []model.MedalBreakdown {
	sums := make(map[string]*model.MedalBreakdown, len(ranking))
	for _, e := range ranking {
		sums[e.Label] = &model.MedalBreakdown{Label: e.Label}
	}
	for _, r := range t.Rows {
		b, ok := sums[key(r)]
		if !ok {
			continue
		}
		b.Gold += r.Gold
		b.Silver += r.Silver
		b.Bronze += r.Bronze
	}
	out := make([]model.MedalBreakdown, 0, len(ranking))
	for _, e := range ranking {
		out = append(out, *sums[e.Label])
	}
	return out
}
