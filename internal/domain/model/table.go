// Package model contains domain models passed between layers.
package model

import "sort"

// Record represents a single medal observation for an
// (athlete, country, sport, year) tuple.
type Record struct {
	Athlete     string   `json:"athlete"`
	Age         *float64 `json:"age,omitempty"` // nil when the source value is missing or non-numeric
	Country     string   `json:"country"`
	Year        int      `json:"year"`
	Sport       string   `json:"sport"`
	Gold        int      `json:"gold"`
	Silver      int      `json:"silver"`
	Bronze      int      `json:"bronze"`
	TotalMedals int      `json:"total_medals"` // always Gold+Silver+Bronze, recomputed during normalization
}

// Table is an ordered collection of Records sharing the canonical schema.
// Tables are immutable by convention: filtering and aggregation always
// produce new values and never mutate rows in place.
type Table struct {
	Rows []Record `json:"rows"`
}

// RawTable is a decoded delimited file before normalization: a header row
// plus string cells. Produced by the codec, consumed by the schema
// normalizer.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of records in the table.
func (t Table) Len() int { return len(t.Rows) }

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	rows := make([]Record, len(t.Rows))
	copy(rows, t.Rows)
	return Table{Rows: rows}
}

// Years returns the distinct years present in the table, ascending.
func (t Table) Years() []int {
	seen := make(map[int]struct{}, len(t.Rows))
	var out []int
	for _, r := range t.Rows {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		out = append(out, r.Year)
	}
	sort.Ints(out)
	return out
}

// Countries returns the distinct countries present in the table, sorted.
func (t Table) Countries() []string {
	return t.distinctStrings(func(r Record) string { return r.Country })
}

// Sports returns the distinct sports present in the table, sorted.
func (t Table) Sports() []string {
	return t.distinctStrings(func(r Record) string { return r.Sport })
}

func (t Table) distinctStrings(key func(Record) string) []string {
	seen := make(map[string]struct{}, len(t.Rows))
	var out []string
	for _, r := range t.Rows {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
