package dataset

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mgkapitany/pdsnd-github/internal/config"
	"github.com/mgkapitany/pdsnd-github/internal/dataset/datasettest"
	"github.com/mgkapitany/pdsnd-github/internal/models"
)

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	return NewLoader(datasettest.DataDir(t), config.DefaultCityTable())
}

func TestReadTrips_Chicago(t *testing.T) {
	schema, trips, err := ReadTrips(strings.NewReader(datasettest.ChicagoCSV))
	if err != nil {
		t.Fatalf("ReadTrips() failed: %v", err)
	}

	if len(trips) != 6 {
		t.Fatalf("len(trips) = %d, want 6", len(trips))
	}
	if !schema.HasRideID || !schema.HasEndTime || !schema.HasGender || !schema.HasBirthYear {
		t.Errorf("schema = %+v, want every optional column", schema)
	}
	if schema.Columns[0] != ColRideID {
		t.Errorf("first column = %q, want %q", schema.Columns[0], ColRideID)
	}

	first := trips[0]
	if first.RideID != "1423854" {
		t.Errorf("RideID = %q, want 1423854", first.RideID)
	}
	wantStart := time.Date(2017, 6, 23, 15, 9, 32, 0, time.UTC)
	if !first.StartTime.Equal(wantStart) {
		t.Errorf("StartTime = %v, want %v", first.StartTime, wantStart)
	}
	if first.Month != 6 || first.Weekday != 4 || first.Hour != 15 {
		t.Errorf("derived = (%d, %d, %d), want (6, 4, 15)", first.Month, first.Weekday, first.Hour)
	}
	if first.DurationSec != 321 {
		t.Errorf("DurationSec = %v, want 321", first.DurationSec)
	}
	if first.BirthYear != 1992 {
		t.Errorf("BirthYear = %d, want 1992", first.BirthYear)
	}
	for i, trip := range trips {
		if trip.RowIndex != i {
			t.Errorf("trips[%d].RowIndex = %d", i, trip.RowIndex)
		}
	}
}

func TestReadTrips_GenderNormalization(t *testing.T) {
	_, trips, err := ReadTrips(strings.NewReader(datasettest.ChicagoCSV))
	if err != nil {
		t.Fatalf("ReadTrips() failed: %v", err)
	}

	// Rows 3 and 4 have an empty gender in the file.
	for _, i := range []int{3, 4} {
		if trips[i].Gender != models.UndisclosedGender {
			t.Errorf("trips[%d].Gender = %q, want %q", i, trips[i].Gender, models.UndisclosedGender)
		}
		if trips[i].HasBirthYear() {
			t.Errorf("trips[%d] should have no birth year", i)
		}
	}
	for _, trip := range trips {
		if trip.Gender == "" {
			t.Errorf("row %d kept an empty gender", trip.RowIndex)
		}
	}
}

func TestReadTrips_Washington(t *testing.T) {
	schema, trips, err := ReadTrips(strings.NewReader(datasettest.WashingtonCSV))
	if err != nil {
		t.Fatalf("ReadTrips() failed: %v", err)
	}

	if schema.HasGender || schema.HasBirthYear {
		t.Errorf("schema = %+v, want no gender or birth year", schema)
	}
	if len(trips) != 4 {
		t.Fatalf("len(trips) = %d, want 4", len(trips))
	}
	if trips[0].Gender != "" {
		t.Errorf("Gender = %q, want empty when the column is absent", trips[0].Gender)
	}
	if trips[0].DurationSec != 489.066 {
		t.Errorf("DurationSec = %v, want 489.066", trips[0].DurationSec)
	}
}

func TestReadTrips_UnnamedIndexHeader(t *testing.T) {
	content := "Unnamed: 0,Start Time,Trip Duration,Start Station,End Station,User Type\n" +
		"7,2017-02-01 10:00:00,60,A,B,Customer\n"

	schema, trips, err := ReadTrips(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ReadTrips() failed: %v", err)
	}
	if !schema.HasRideID || trips[0].RideID != "7" {
		t.Errorf("unnamed index column should become %s, got schema %+v", ColRideID, schema)
	}
	if schema.HasEndTime {
		t.Error("HasEndTime should be false without an End Time column")
	}
	if !trips[0].EndTime.IsZero() {
		t.Error("EndTime should be zero without an End Time column")
	}
}

func TestReadTrips_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		wantMsg string
	}{
		{
			name:    "Empty",
			content: "",
			wantMsg: "empty",
		},
		{
			name:    "MissingColumn",
			content: ",Start Time,Trip Duration,Start Station,End Station\n",
			wantErr: ErrMissingColumn,
		},
		{
			name: "BadStartTime",
			content: ",Start Time,Trip Duration,Start Station,End Station,User Type\n" +
				"1,2017-01-01 00:00:00,60,A,B,Customer\n" +
				"2,yesterday,60,A,B,Customer\n",
			wantMsg: "line 3",
		},
		{
			name: "BadDuration",
			content: ",Start Time,Trip Duration,Start Station,End Station,User Type\n" +
				"1,2017-01-01 00:00:00,long,A,B,Customer\n",
			wantMsg: "trip duration",
		},
		{
			name: "BadBirthYear",
			content: ",Start Time,Trip Duration,Start Station,End Station,User Type,Birth Year\n" +
				"1,2017-01-01 00:00:00,60,A,B,Customer,NaN\n",
			wantMsg: "birth year",
		},
		{
			name: "RaggedRow",
			content: ",Start Time,Trip Duration,Start Station,End Station,User Type\n" +
				"1,2017-01-01 00:00:00,60,A,B\n",
			wantMsg: "row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadTrips(strings.NewReader(tt.content))
			if err == nil {
				t.Fatal("ReadTrips() should fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_NoFilterKeepsEverything(t *testing.T) {
	l := newTestLoader(t)

	ds, err := l.Load(models.NewFilter("chicago", "all", "all"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	_, all, err := ReadTrips(strings.NewReader(datasettest.ChicagoCSV))
	if err != nil {
		t.Fatalf("ReadTrips() failed: %v", err)
	}
	if !reflect.DeepEqual(ds.Trips, all) {
		t.Error("filter (all, all) must return the full dataset")
	}
	if ds.TotalRows != len(all) {
		t.Errorf("TotalRows = %d, want %d", ds.TotalRows, len(all))
	}
}

func TestLoad_MonthFilter(t *testing.T) {
	l := newTestLoader(t)

	for i, month := range models.FilterMonths {
		ds, err := l.Load(models.NewFilter("chicago", month, "all"))
		if err != nil {
			t.Fatalf("Load(%s) failed: %v", month, err)
		}
		for _, trip := range ds.Trips {
			if trip.Month != i+1 {
				t.Errorf("%s filter kept a trip in month %d", month, trip.Month)
			}
		}
	}

	ds, err := l.Load(models.NewFilter("chicago", "january", "all"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(ds.Trips) != 2 {
		t.Errorf("january rows = %d, want 2", len(ds.Trips))
	}
}

func TestLoad_DayFilter(t *testing.T) {
	l := newTestLoader(t)

	for i, day := range models.WeekdayNames {
		ds, err := l.Load(models.NewFilter("chicago", "all", day))
		if err != nil {
			t.Fatalf("Load(%s) failed: %v", day, err)
		}
		for _, trip := range ds.Trips {
			if trip.Weekday != i {
				t.Errorf("%s filter kept a trip on weekday %d", day, trip.Weekday)
			}
		}
	}

	ds, err := l.Load(models.NewFilter("chicago", "all", "monday"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(ds.Trips) != 2 {
		t.Errorf("monday rows = %d, want 2", len(ds.Trips))
	}
}

func TestLoad_BothFilters(t *testing.T) {
	l := newTestLoader(t)

	ds, err := l.Load(models.NewFilter("chicago", "june", "monday"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(ds.Trips) != 1 || ds.Trips[0].RideID != "1473887" {
		t.Errorf("june mondays = %+v, want only ride 1473887", ds.Trips)
	}
}

func TestLoad_FilterRemovesEverything(t *testing.T) {
	l := newTestLoader(t)

	ds, err := l.Load(models.NewFilter("washington", "february", "all"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(ds.Trips) != 0 {
		t.Errorf("len(Trips) = %d, want 0", len(ds.Trips))
	}
	if ds.TotalRows != 4 {
		t.Errorf("TotalRows = %d, want 4", ds.TotalRows)
	}
	summary := ds.Summary()
	if summary.Rows != 0 || !summary.First.IsZero() {
		t.Errorf("Summary() = %+v, want an empty summary", summary)
	}
}

func TestLoad_Idempotent(t *testing.T) {
	l := newTestLoader(t)
	filter := models.NewFilter("new york city", "all", "all")

	first, err := l.Load(filter)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	second, err := l.Load(filter)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("loading twice with the same filter must give identical datasets")
	}
}

func TestLoad_Errors(t *testing.T) {
	l := newTestLoader(t)

	if _, err := l.Load(models.NewFilter("boston", "all", "all")); !errors.Is(err, ErrUnknownCity) {
		t.Errorf("Load(boston) error = %v, want ErrUnknownCity", err)
	}
	if _, err := l.Load(models.NewFilter("chicago", "july", "all")); err == nil {
		t.Error("Load() should reject months outside the dataset range")
	}
	if _, err := l.Load(models.NewFilter("chicago", "all", "someday")); err == nil {
		t.Error("Load() should reject unknown weekdays")
	}

	empty := NewLoader(t.TempDir(), config.DefaultCityTable())
	if _, err := empty.Load(models.NewFilter("chicago", "all", "all")); err == nil {
		t.Error("Load() should fail when the file is missing")
	}
}

func TestLoader_Path(t *testing.T) {
	l := NewLoader("/data", config.NewCityTable([]config.City{
		{Name: "chicago", File: "chicago.csv"},
		{Name: "elsewhere", File: "/srv/elsewhere.csv"},
	}))

	path, err := l.Path("Chicago")
	if err != nil {
		t.Fatalf("Path() failed: %v", err)
	}
	if path != filepath.Join("/data", "chicago.csv") {
		t.Errorf("Path() = %q", path)
	}

	path, err = l.Path("elsewhere")
	if err != nil || path != "/srv/elsewhere.csv" {
		t.Errorf("Path(elsewhere) = %q, %v; absolute files are used as-is", path, err)
	}
}

func TestDataset_Summary(t *testing.T) {
	l := newTestLoader(t)

	ds, err := l.Load(models.NewFilter("chicago", "all", "all"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	s := ds.Summary()
	if s.Rows != 6 || s.TotalRows != 6 {
		t.Errorf("Rows = %d, TotalRows = %d, want 6, 6", s.Rows, s.TotalRows)
	}
	if !s.First.Equal(time.Date(2017, 1, 4, 8, 27, 49, 0, time.UTC)) {
		t.Errorf("First = %v", s.First)
	}
	if !s.Last.Equal(time.Date(2017, 6, 26, 9, 1, 20, 0, time.UTC)) {
		t.Errorf("Last = %v", s.Last)
	}
}

func TestApply_ReturnsFreshSliceWhenFiltering(t *testing.T) {
	_, trips, err := ReadTrips(strings.NewReader(datasettest.ChicagoCSV))
	if err != nil {
		t.Fatalf("ReadTrips() failed: %v", err)
	}

	out, err := Apply(trips, models.NewFilter("chicago", "june", "all"))
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	out[0].StartStation = "changed"
	if trips[0].StartStation == "changed" {
		t.Error("Apply() must not alias the input when filtering")
	}
}
