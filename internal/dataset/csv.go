package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mgkapitany/pdsnd-github/internal/models"
)

// Column names as they appear in the city files.
const (
	ColRideID       = "ride_id"
	ColStartTime    = "Start Time"
	ColEndTime      = "End Time"
	ColTripDuration = "Trip Duration"
	ColStartStation = "Start Station"
	ColEndStation   = "End Station"
	ColUserType     = "User Type"
	ColGender       = "Gender"
	ColBirthYear    = "Birth Year"
)

// unnamedIndexColumns are the names an exported row index shows up under.
var unnamedIndexColumns = []string{"", "Unnamed: 0"}

var requiredColumns = []string{
	ColStartTime, ColTripDuration, ColStartStation, ColEndStation, ColUserType,
}

var timeFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// columns holds the position of each known column, -1 when absent.
type columns struct {
	rideID, start, end, duration, startStation, endStation, userType, gender, birthYear int
}

func mapColumns(header []string) (columns, models.Schema, error) {
	pos := make(map[string]int, len(header))
	names := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
			for _, unnamed := range unnamedIndexColumns {
				if name == unnamed {
					name = ColRideID
				}
			}
		}
		names[i] = name
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	for _, req := range requiredColumns {
		if _, ok := pos[req]; !ok {
			return columns{}, models.Schema{}, fmt.Errorf("%w: %q", ErrMissingColumn, req)
		}
	}

	lookup := func(name string) int {
		if i, ok := pos[name]; ok {
			return i
		}
		return -1
	}

	cols := columns{
		rideID:       lookup(ColRideID),
		start:        lookup(ColStartTime),
		end:          lookup(ColEndTime),
		duration:     lookup(ColTripDuration),
		startStation: lookup(ColStartStation),
		endStation:   lookup(ColEndStation),
		userType:     lookup(ColUserType),
		gender:       lookup(ColGender),
		birthYear:    lookup(ColBirthYear),
	}

	schema := models.Schema{
		Columns:      names,
		HasRideID:    cols.rideID >= 0,
		HasEndTime:   cols.end >= 0,
		HasGender:    cols.gender >= 0,
		HasBirthYear: cols.birthYear >= 0,
	}
	return cols, schema, nil
}

// ReadTrips parses a city file. The leading unnamed index column is
// renamed to ride_id and missing genders become "Undisclosed".
func ReadTrips(r io.Reader) (models.Schema, []models.Trip, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return models.Schema{}, nil, errors.New("file is empty")
	}
	if err != nil {
		return models.Schema{}, nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols, schema, err := mapColumns(header)
	if err != nil {
		return models.Schema{}, nil, err
	}

	var trips []models.Trip
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.Schema{}, nil, fmt.Errorf("failed to read row: %w", err)
		}

		line, _ := cr.FieldPos(0)
		trip, err := parseRecord(rec, cols, len(trips))
		if err != nil {
			return models.Schema{}, nil, fmt.Errorf("line %d: %w", line, err)
		}
		trips = append(trips, trip)
	}

	return schema, trips, nil
}

func parseRecord(rec []string, cols columns, rowIndex int) (models.Trip, error) {
	field := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	trip := models.Trip{
		RowIndex:     rowIndex,
		RideID:       field(cols.rideID),
		StartStation: field(cols.startStation),
		EndStation:   field(cols.endStation),
		UserType:     field(cols.userType),
	}

	start, ok := parseTimeString(field(cols.start))
	if !ok {
		return models.Trip{}, fmt.Errorf("invalid start time %q", field(cols.start))
	}
	trip.StartTime = start
	trip.Derive()

	if end, ok := parseTimeString(field(cols.end)); ok {
		trip.EndTime = end
	}

	duration, err := parseNumber(field(cols.duration))
	if err != nil {
		return models.Trip{}, fmt.Errorf("invalid trip duration: %w", err)
	}
	trip.DurationSec = duration

	if cols.gender >= 0 {
		trip.Gender = field(cols.gender)
		if trip.Gender == "" {
			trip.Gender = models.UndisclosedGender
		}
	}

	if raw := field(cols.birthYear); raw != "" {
		year, err := parseNumber(raw)
		if err != nil {
			return models.Trip{}, fmt.Errorf("invalid birth year: %w", err)
		}
		trip.BirthYear = int(year)
	}

	return trip, nil
}

// parseNumber accepts integer or float text such as "1992.0".
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}
