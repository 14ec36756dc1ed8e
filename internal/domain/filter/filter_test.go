package filter_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/podiumhq/podium/internal/domain/filter"
	"github.com/podiumhq/podium/internal/domain/model"
)

func row(athlete, country string, year int, sport string, total int) model.Record {
	return model.Record{
		Athlete: athlete, Country: country, Year: year, Sport: sport,
		Gold: total, TotalMedals: total,
	}
}

func TestApply(t *testing.T) {
	convey.Convey("Given a normalized table", t, func() {
		table := model.Table{Rows: []model.Record{
			row("A", "USA", 2000, "Swimming", 2),
			row("B", "GBR", 2000, "Rowing", 1),
			row("C", "USA", 2004, "Swimming", 3),
			row("D", "FRA", 2004, "Fencing", 1),
		}}

		convey.Convey("When applying the zero selection", func() {
			got := filter.Apply(table, filter.Selection{})

			convey.Convey("Then every row passes; empty sets restrict nothing", func() {
				// The empty years set means all years, the same as the
				// other two dimensions.
				convey.So(got.Len(), convey.ShouldEqual, 4)
			})

			convey.Convey("And the input table is not aliased", func() {
				got.Rows[0].Country = "mutated"
				convey.So(table.Rows[0].Country, convey.ShouldEqual, "USA")
			})
		})

		convey.Convey("When filtering by years only", func() {
			got := filter.Apply(table, filter.Selection{Years: []int{2000}})

			convey.Convey("Then only matching years remain, in input order", func() {
				convey.So(got.Len(), convey.ShouldEqual, 2)
				convey.So(got.Rows[0].Athlete, convey.ShouldEqual, "A")
				convey.So(got.Rows[1].Athlete, convey.ShouldEqual, "B")
			})
		})

		convey.Convey("When filtering on all three dimensions", func() {
			got := filter.Apply(table, filter.Selection{
				Years:     []int{2000, 2004},
				Countries: []string{"USA"},
				Sports:    []string{"Swimming"},
			})

			convey.Convey("Then the dimensions combine with AND", func() {
				convey.So(got.Len(), convey.ShouldEqual, 2)
				convey.So(got.Rows[0].Athlete, convey.ShouldEqual, "A")
				convey.So(got.Rows[1].Athlete, convey.ShouldEqual, "C")
			})
		})

		convey.Convey("When the selection matches nothing", func() {
			got := filter.Apply(table, filter.Selection{Countries: []string{"KEN"}})

			convey.Convey("Then the empty result is valid, not an error", func() {
				convey.So(got.Len(), convey.ShouldEqual, 0)
			})
		})
	})
}
