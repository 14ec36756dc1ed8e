package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/podiumhq/podium/internal/adapters/http/api"
	"github.com/podiumhq/podium/internal/adapters/repository"
	"github.com/podiumhq/podium/internal/app"
	"github.com/podiumhq/podium/internal/domain/filter"
	"github.com/podiumhq/podium/internal/domain/model"
	"github.com/podiumhq/podium/internal/domain/schema"
)

// mockService implements the Dependencies interface with canned data.
type mockService struct {
	info    app.DatasetInfo
	loadErr error
	getErr  error
	lastSel filter.Selection
	lastN   int
}

func (m *mockService) LoadDataset(_ context.Context, r io.Reader) (app.DatasetInfo, error) {
	_, _ = io.Copy(io.Discard, r)
	if m.loadErr != nil {
		return app.DatasetInfo{}, m.loadErr
	}
	return m.info, nil
}

func (m *mockService) Dataset(_ context.Context, id string) (app.DatasetInfo, error) {
	if m.getErr != nil {
		return app.DatasetInfo{}, m.getErr
	}
	return m.info, nil
}

func (m *mockService) Options(_ context.Context, id string) (app.FilterOptions, error) {
	if m.getErr != nil {
		return app.FilterOptions{}, m.getErr
	}
	return app.FilterOptions{
		Years:     []int{2000, 2004},
		Countries: []string{"EGY", "USA"},
		Sports:    []string{"Squash", "Swimming"},
	}, nil
}

func (m *mockService) Summary(_ context.Context, id string, sel filter.Selection) (model.Summary, error) {
	m.lastSel = sel
	if m.getErr != nil {
		return model.Summary{}, m.getErr
	}
	return model.Summary{TotalMedals: 9, TotalGold: 6, TotalSilver: 2, TotalBronze: 1,
		TotalAthletes: 3, TotalCountries: 3}, nil
}

func (m *mockService) TopCountries(_ context.Context, id string, sel filter.Selection, n int) (model.Ranking, error) {
	m.lastSel, m.lastN = sel, n
	if m.getErr != nil {
		return nil, m.getErr
	}
	return model.Ranking{{Label: "USA", Value: 6}, {Label: "CHN", Value: 2}}, nil
}

func (m *mockService) TopAthletes(_ context.Context, id string, sel filter.Selection, n int) ([]model.AthleteEntry, error) {
	m.lastSel, m.lastN = sel, n
	return []model.AthleteEntry{{Athlete: "Jane", Country: "USA", Sport: "Swimming", Gold: 5, TotalMedals: 6}}, nil
}

func (m *mockService) MedalsBySport(_ context.Context, id string, sel filter.Selection) (model.Ranking, error) {
	return model.Ranking{{Label: "Swimming", Value: 6}}, nil
}

func (m *mockService) GoldProportion(_ context.Context, id string, sel filter.Selection) ([]model.ProportionEntry, error) {
	return []model.ProportionEntry{{Label: "USA", Value: 0.75}}, nil
}

func (m *mockService) AthletesPerCountry(_ context.Context, id string, sel filter.Selection) (model.Ranking, error) {
	return model.Ranking{{Label: "USA", Value: 2}}, nil
}

func (m *mockService) MedalsInYear(_ context.Context, id string, sel filter.Selection, year int) (model.Ranking, error) {
	m.lastN = year
	return model.Ranking{{Label: "USA", Value: 3}}, nil
}

func (m *mockService) Improvement(_ context.Context, id string, sel filter.Selection) ([]model.ImprovementRow, error) {
	return []model.ImprovementRow{{Country: "USA", Year: 2004, TotalMedals: 3, Delta: 0}}, nil
}

func (m *mockService) CountryMedalBreakdown(_ context.Context, id string, sel filter.Selection, n int) ([]model.MedalBreakdown, error) {
	return []model.MedalBreakdown{{Label: "USA", Gold: 5, Silver: 1}}, nil
}

func (m *mockService) SportMedalBreakdown(_ context.Context, id string, sel filter.Selection, n int) ([]model.MedalBreakdown, error) {
	return []model.MedalBreakdown{{Label: "Swimming", Gold: 5, Silver: 1}}, nil
}

func (m *mockService) Trend(_ context.Context, id string, sel filter.Selection, countries []string) ([]model.TrendPoint, error) {
	return []model.TrendPoint{{Country: "USA", Year: 2000, TotalMedals: 3}}, nil
}

func (m *mockService) ExportTable(_ context.Context, id string, sel filter.Selection, w io.Writer) error {
	if m.getErr != nil {
		return m.getErr
	}
	_, err := io.WriteString(w, "Athlete,Age,Country,Year,Sport,Gold,Silver,Bronze,Total_Medals\n")
	return err
}

func (m *mockService) ExportSummary(_ context.Context, id string, sel filter.Selection, w io.Writer) error {
	if m.getErr != nil {
		return m.getErr
	}
	_, err := io.WriteString(w, "total_medals,total_gold,total_silver,total_bronze,total_athletes,total_countries\n9,6,2,1,3,3\n")
	return err
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestMux(deps api.Dependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockService{info: app.DatasetInfo{ID: "ds-1", Hash: "00000000deadbeef", Rows: 4}}
		mux := newTestMux(deps)

		Convey("Then the health endpoint responds", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then the stats endpoint responds", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/stats", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then unknown paths return 404", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/unknown", nil))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestDatasetUpload(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockService{info: app.DatasetInfo{ID: "ds-1", Rows: 4}}
		mux := newTestMux(deps)

		Convey("When uploading a dataset", func() {
			req := httptest.NewRequest("POST", "/datasets", strings.NewReader("Athlete,Country\n"))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then 201 is returned with the dataset info", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var info app.DatasetInfo
				So(json.NewDecoder(w.Body).Decode(&info), ShouldBeNil)
				So(info.ID, ShouldEqual, "ds-1")
			})
		})

		Convey("When the upload is a duplicate", func() {
			deps.info.Duplicate = true
			req := httptest.NewRequest("POST", "/datasets", strings.NewReader("x"))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then 200 is returned instead of 201", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the upload has schema problems", func() {
			deps.loadErr = &schema.Error{
				Required: []string{"Athlete", "Country", "Year", "Sport", "Gold", "Silver", "Bronze"},
				Found:    []string{"Athlete", "Country"},
				Missing:  []string{"Bronze", "Gold", "Silver", "Sport", "Year"},
			}
			req := httptest.NewRequest("POST", "/datasets", strings.NewReader("Athlete,Country\n"))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then 400 carries the column diagnosis", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var resp struct {
					Code           string   `json:"code"`
					MissingColumns []string `json:"missing_columns"`
				}
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "schema_error")
				So(resp.MissingColumns, ShouldContain, "Year")
			})
		})

		Convey("When the upload is too large", func() {
			deps.loadErr = app.ErrUploadTooLarge
			req := httptest.NewRequest("POST", "/datasets", strings.NewReader("x"))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then 413 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			})
		})

		Convey("When using GET on the upload endpoint", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets", nil))

			Convey("Then 405 names the allowed method", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, http.MethodPost)
			})
		})
	})
}

func TestDatasetQueries(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockService{info: app.DatasetInfo{ID: "ds-1", Rows: 4}}
		mux := newTestMux(deps)

		Convey("When fetching dataset metadata", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1", nil))

			Convey("Then the info is returned as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
			})
		})

		Convey("When the dataset does not exist", func() {
			deps.getErr = repository.ErrNotFound
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/missing", nil))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When fetching the filter options", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/options", nil))

			Convey("Then the distinct values come back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var opts app.FilterOptions
				So(json.NewDecoder(w.Body).Decode(&opts), ShouldBeNil)
				So(opts.Years, ShouldResemble, []int{2000, 2004})
			})
		})

		Convey("When fetching the summary with filters", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/summary?years=2000,2004&countries=USA", nil))

			Convey("Then the parsed selection reaches the service", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastSel.Years, ShouldResemble, []int{2000, 2004})
				So(deps.lastSel.Countries, ShouldResemble, []string{"USA"})
			})
		})

		Convey("When the years filter is not numeric", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/summary?years=abc", nil))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When writing to a dataset path", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("POST", "/datasets/ds-1/summary", nil))

			Convey("Then 405 names the allowed method", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, http.MethodGet)
			})
		})
	})
}

func TestRankingRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockService{info: app.DatasetInfo{ID: "ds-1"}}
		mux := newTestMux(deps)

		Convey("When requesting the countries ranking with a limit", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/rankings/countries?limit=2", nil))

			Convey("Then entries are returned and the limit is honored", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastN, ShouldEqual, 2)
				var ranking model.Ranking
				So(json.NewDecoder(w.Body).Decode(&ranking), ShouldBeNil)
				So(ranking[0].Label, ShouldEqual, "USA")
			})
		})

		Convey("When requesting athletes", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/rankings/athletes", nil))

			Convey("Then athlete entries come back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var entries []model.AthleteEntry
				So(json.NewDecoder(w.Body).Decode(&entries), ShouldBeNil)
				So(entries[0].Athlete, ShouldEqual, "Jane")
			})
		})

		Convey("When requesting every remaining kind", func() {
			for _, kind := range []string{"sports", "gold-share", "athletes-per-country"} {
				Convey(fmt.Sprintf("And the kind is %s", kind), func() {
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/rankings/"+kind, nil))
					So(w.Code, ShouldEqual, http.StatusOK)
				})
			}
		})

		Convey("When requesting the year ranking", func() {
			Convey("Then a year parameter is required", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/rankings/year", nil))
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And a valid year succeeds", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/rankings/year?year=2000", nil))
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastN, ShouldEqual, 2000)
			})
		})

		Convey("When requesting an unknown kind", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/rankings/bogus", nil))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit exceeds the cap", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/rankings/countries?limit=100000", nil))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When requesting breakdowns", func() {
			for _, kind := range []string{"countries", "sports"} {
				Convey(fmt.Sprintf("And the group is %s", kind), func() {
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/breakdown/"+kind, nil))
					So(w.Code, ShouldEqual, http.StatusOK)
				})
			}

			Convey("And an unknown group fails", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/breakdown/medals", nil))
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestTrendAndImprovementRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockService{info: app.DatasetInfo{ID: "ds-1"}}
		mux := newTestMux(deps)

		Convey("When requesting improvement", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/improvement", nil))

			Convey("Then improvement rows come back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var rows []model.ImprovementRow
				So(json.NewDecoder(w.Body).Decode(&rows), ShouldBeNil)
				So(rows[0].Country, ShouldEqual, "USA")
			})
		})

		Convey("When requesting the trend", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/trend?trend_countries=USA,CHN", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestExportRoute(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockService{info: app.DatasetInfo{ID: "ds-1"}}
		mux := newTestMux(deps)

		Convey("When exporting the table", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/export?scope=table", nil))

			Convey("Then CSV is returned as an attachment", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/csv")
				So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "attachment")
				So(w.Body.String(), ShouldStartWith, "Athlete,")
			})
		})

		Convey("When exporting the summary", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/export?scope=summary", nil))

			Convey("Then the summary row is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldStartWith, "total_medals,")
			})
		})

		Convey("When the scope is unknown", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/ds-1/export?scope=everything", nil))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the dataset is missing", func() {
			deps.getErr = repository.ErrNotFound
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/datasets/gone/export?scope=table", nil))

			Convey("Then the error is JSON, not a broken download", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
			})
		})
	})
}
