// Package schema validates and coerces raw tabular input into the
// canonical medal table.
package schema

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/podiumhq/podium/internal/domain/model"
)

// Version tags the normalization rules. It participates in dataset cache
// keys so a rules change invalidates memoized tables.
const Version = 1

// Canonical column names.
const (
	ColAthlete = "Athlete"
	ColAge     = "Age"
	ColCountry = "Country"
	ColYear    = "Year"
	ColSport   = "Sport"
	ColGold    = "Gold"
	ColSilver  = "Silver"
	ColBronze  = "Bronze"
	ColTotal   = "Total_Medals"
)

// requiredColumns must all be present after header canonicalization.
var requiredColumns = []string{
	ColAthlete, ColCountry, ColYear, ColSport, ColGold, ColSilver, ColBronze,
}

// defaultAliases maps known header misspellings to canonical names.
// Keys and values are in canonical (title-cased) form.
var defaultAliases = map[string]string{
	"Athelete": ColAthlete,
	"Total":    ColTotal,
	"Totals":   ColTotal,
}

// Option configures the normalizer.
type Option func(*normalizer)

// WithAliases merges extra header aliases over the built-in table. Keys
// and values may be given in any casing.
func WithAliases(aliases map[string]string) Option {
	return func(n *normalizer) {
		for k, v := range aliases {
			n.aliases[canonicalHeader(k)] = canonicalHeader(v)
		}
	}
}

type normalizer struct {
	aliases map[string]string
}

// Normalize coerces a raw table into the canonical schema.
//
// Steps, in order: canonicalize header names, apply alias renames, coerce
// medal counts to non-negative integers (non-numeric or negative become
// 0), coerce Year to an integer and Age to a number (missing allowed for
// Age only), recompute Total_Medals from the three parts, and drop rows
// missing Year, Country, or Athlete.
//
// It either fully succeeds or fails with *Error when a required column is
// absent; a partially coerced table is never returned. The function is
// idempotent: re-encoding and normalizing its output yields the same
// table.
func Normalize(raw model.RawTable, opts ...Option) (model.Table, error) {
	n := &normalizer{aliases: make(map[string]string, len(defaultAliases))}
	for k, v := range defaultAliases {
		n.aliases[k] = v
	}
	for _, opt := range opts {
		opt(n)
	}

	// First occurrence wins when a header repeats.
	index := make(map[string]int, len(raw.Header))
	found := make([]string, 0, len(raw.Header))
	for i, h := range raw.Header {
		name := canonicalHeader(h)
		if alias, ok := n.aliases[name]; ok {
			name = alias
		}
		if name == "" {
			continue
		}
		found = append(found, name)
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return model.Table{}, &Error{
			Required: append([]string(nil), requiredColumns...),
			Found:    found,
			Missing:  missing,
		}
	}

	cell := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rows := make([]model.Record, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		year, ok := parseYear(cell(row, ColYear))
		if !ok {
			continue
		}
		athlete := cell(row, ColAthlete)
		country := cell(row, ColCountry)
		if athlete == "" || country == "" {
			continue
		}

		rec := model.Record{
			Athlete: athlete,
			Country: country,
			Year:    year,
			Sport:   cell(row, ColSport),
			Gold:    parseCount(cell(row, ColGold)),
			Silver:  parseCount(cell(row, ColSilver)),
			Bronze:  parseCount(cell(row, ColBronze)),
			Age:     parseAge(cell(row, ColAge)),
		}
		// Never trust a supplied Total column; the sum of the parts is
		// the invariant.
		rec.TotalMedals = rec.Gold + rec.Silver + rec.Bronze
		rows = append(rows, rec)
	}
	return model.Table{Rows: rows}, nil
}

// canonicalHeader strips and title-cases a header name, normalizing word
// separators to underscores so "total medals", "Total_Medals" and
// " TOTAL_MEDALS " all compare equal.
func canonicalHeader(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	// cases.Caser carries internal state and is not safe for concurrent
	// use, so build one per call instead of sharing a package-level value.
	caser := cases.Title(language.Und)
	h = strings.Join(strings.Fields(h), "_")
	parts := strings.Split(strings.ToLower(h), "_")
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, "_")
}

// parseCount coerces a medal cell to a non-negative integer. Non-numeric
// and missing values become 0; fractional values are truncated.
func parseCount(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		n = int(f)
	}
	if n < 0 {
		return 0
	}
	return n
}

func parseYear(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, false
		}
		n = int(f)
	}
	return n, true
}

func parseAge(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
