// Package filter applies year/country/sport inclusion filters to a
// normalized table.
package filter

import "github.com/podiumhq/podium/internal/domain/model"

// Selection holds the active filter sets. An empty or nil set for a
// dimension means no restriction on that dimension; this holds uniformly
// for years, countries and sports.
type Selection struct {
	Years     []int    `json:"years,omitempty"`
	Countries []string `json:"countries,omitempty"`
	Sports    []string `json:"sports,omitempty"`
}

// IsZero reports whether the selection restricts nothing.
func (s Selection) IsZero() bool {
	return len(s.Years) == 0 && len(s.Countries) == 0 && len(s.Sports) == 0
}

// Apply returns a new table with the rows matching every non-empty
// dimension of the selection. The input is never mutated; an empty result
// is valid and not an error.
func Apply(t model.Table, sel Selection) model.Table {
	if sel.IsZero() {
		return t.Clone()
	}

	years := make(map[int]struct{}, len(sel.Years))
	for _, y := range sel.Years {
		years[y] = struct{}{}
	}
	countries := toSet(sel.Countries)
	sports := toSet(sel.Sports)

	rows := make([]model.Record, 0, len(t.Rows))
	for _, r := range t.Rows {
		if len(years) > 0 {
			if _, ok := years[r.Year]; !ok {
				continue
			}
		}
		if len(countries) > 0 {
			if _, ok := countries[r.Country]; !ok {
				continue
			}
		}
		if len(sports) > 0 {
			if _, ok := sports[r.Sport]; !ok {
				continue
			}
		}
		rows = append(rows, r)
	}
	return model.Table{Rows: rows}
}

func toSet(vals []string) map[string]struct{} {
	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}
	return set
}
