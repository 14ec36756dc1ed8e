package codec_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/podiumhq/podium/internal/adapters/codec"
	"github.com/podiumhq/podium/internal/domain/model"
)

func TestDecode(t *testing.T) {
	convey.Convey("Given a comma-separated table", t, func() {
		input := "Athlete,Country,Year\nJane,USA,2000\nOmar,EGY,2004\n"

		convey.Convey("When decoding", func() {
			raw, err := codec.Decode(strings.NewReader(input))

			convey.Convey("Then header and rows are split", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(raw.Header, convey.ShouldResemble, []string{"Athlete", "Country", "Year"})
				convey.So(raw.Rows, convey.ShouldResemble, [][]string{
					{"Jane", "USA", "2000"},
					{"Omar", "EGY", "2004"},
				})
			})
		})
	})

	convey.Convey("Given a tab-separated table", t, func() {
		input := "Athlete\tCountry\tYear\nJane\tUSA\t2000\n"

		convey.Convey("When decoding without an explicit delimiter", func() {
			raw, err := codec.Decode(strings.NewReader(input))

			convey.Convey("Then tab is sniffed from the header line", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(raw.Header, convey.ShouldResemble, []string{"Athlete", "Country", "Year"})
				convey.So(raw.Rows[0], convey.ShouldResemble, []string{"Jane", "USA", "2000"})
			})
		})
	})

	convey.Convey("Given a forced delimiter", t, func() {
		input := "a;b\n1;2\n"

		convey.Convey("When decoding with WithDelimiter", func() {
			raw, err := codec.Decode(strings.NewReader(input), codec.WithDelimiter(';'))

			convey.Convey("Then sniffing is bypassed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(raw.Header, convey.ShouldResemble, []string{"a", "b"})
			})
		})
	})

	convey.Convey("Given a ragged table", t, func() {
		input := "Athlete,Country,Year\nJane,USA\n"

		convey.Convey("When decoding", func() {
			raw, err := codec.Decode(strings.NewReader(input))

			convey.Convey("Then short rows are padded to the header width", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(raw.Rows[0], convey.ShouldResemble, []string{"Jane", "USA", ""})
			})
		})
	})

	convey.Convey("Given an empty stream", t, func() {
		convey.Convey("When decoding", func() {
			_, err := codec.Decode(strings.NewReader(""))

			convey.Convey("Then ErrEmptyInput is returned", func() {
				convey.So(err, convey.ShouldWrap, codec.ErrEmptyInput)
			})
		})
	})

	convey.Convey("Given a header with no data rows", t, func() {
		raw, err := codec.Decode(strings.NewReader("Athlete,Country\n"))

		convey.Convey("Then an empty but valid table is returned", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(raw.Rows, convey.ShouldBeEmpty)
		})
	})
}

func TestEncodeTable(t *testing.T) {
	convey.Convey("Given a normalized table", t, func() {
		age := 23.0
		table := model.Table{Rows: []model.Record{
			{Athlete: "Jane", Age: &age, Country: "USA", Year: 2000, Sport: "Swimming",
				Gold: 2, Silver: 1, Bronze: 0, TotalMedals: 3},
			{Athlete: "Omar", Country: "EGY", Year: 2004, Sport: "Squash",
				Gold: 0, Silver: 0, Bronze: 1, TotalMedals: 1},
		}}

		convey.Convey("When encoding", func() {
			var buf bytes.Buffer
			err := codec.EncodeTable(&buf, table)

			convey.Convey("Then output uses the canonical column order", func() {
				convey.So(err, convey.ShouldBeNil)
				lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
				convey.So(lines[0], convey.ShouldEqual, "Athlete,Age,Country,Year,Sport,Gold,Silver,Bronze,Total_Medals")
				convey.So(lines[1], convey.ShouldEqual, "Jane,23,USA,2000,Swimming,2,1,0,3")
			})

			convey.Convey("And a missing age encodes as an empty cell", func() {
				convey.So(err, convey.ShouldBeNil)
				lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
				convey.So(lines[2], convey.ShouldEqual, "Omar,,EGY,2004,Squash,0,0,1,1")
			})
		})
	})
}

func TestEncodeSummary(t *testing.T) {
	convey.Convey("Given a summary", t, func() {
		s := model.Summary{
			TotalMedals: 7, TotalGold: 3, TotalSilver: 3, TotalBronze: 1,
			TotalAthletes: 2, TotalCountries: 2,
		}

		convey.Convey("When encoding", func() {
			var buf bytes.Buffer
			err := codec.EncodeSummary(&buf, s)

			convey.Convey("Then a single data row follows the header", func() {
				convey.So(err, convey.ShouldBeNil)
				lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
				convey.So(lines[0], convey.ShouldEqual, "total_medals,total_gold,total_silver,total_bronze,total_athletes,total_countries")
				convey.So(lines[1], convey.ShouldEqual, "7,3,3,1,2,2")
			})
		})
	})
}
