// Package dataset loads city trip files into memory and applies the
// month/day filters.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgkapitany/pdsnd-github/internal/config"
	"github.com/mgkapitany/pdsnd-github/internal/logger"
	"github.com/mgkapitany/pdsnd-github/internal/models"
)

var (
	// ErrUnknownCity is returned when a city is not in the city table.
	ErrUnknownCity = errors.New("unknown city")

	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")
)

// Dataset is the filtered, in-memory view of one city file.
type Dataset struct {
	City      string
	File      string
	Filter    models.Filter
	Schema    models.Schema
	Trips     []models.Trip
	TotalRows int
}

// Summary describes the dataset for the post-load banner.
func (d *Dataset) Summary() models.DatasetSummary {
	s := models.DatasetSummary{
		Filter:    d.Filter,
		Schema:    d.Schema,
		File:      d.File,
		Rows:      len(d.Trips),
		TotalRows: d.TotalRows,
	}
	for i, t := range d.Trips {
		if i == 0 || t.StartTime.Before(s.First) {
			s.First = t.StartTime
		}
		if i == 0 || t.StartTime.After(s.Last) {
			s.Last = t.StartTime
		}
	}
	return s
}

// Loader reads city files from a data directory.
type Loader struct {
	dataDir string
	cities  config.CityTable
}

// NewLoader creates a loader over the given city table.
func NewLoader(dataDir string, cities config.CityTable) *Loader {
	return &Loader{dataDir: dataDir, cities: cities}
}

// Path returns the file backing a city.
func (l *Loader) Path(city string) (string, error) {
	c, ok := l.cities.Lookup(city)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCity, city)
	}
	if filepath.IsAbs(c.File) {
		return c.File, nil
	}
	return filepath.Join(l.dataDir, c.File), nil
}

// Load reads the city file named by the filter and applies its month and
// day restrictions.
func (l *Loader) Load(filter models.Filter) (*Dataset, error) {
	path, err := l.Path(filter.City)
	if err != nil {
		return nil, err
	}

	// Reject bad filter values before paying for the read.
	if _, _, err := filter.MonthNumber(); err != nil {
		return nil, err
	}
	if _, _, err := filter.WeekdayIndex(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	schema, trips, err := ReadTrips(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	filtered, err := Apply(trips, filter)
	if err != nil {
		return nil, err
	}

	logger.Debug("dataset read", "city", filter.City, "rows", len(trips), "kept", len(filtered))

	return &Dataset{
		City:      filter.City,
		File:      path,
		Filter:    filter,
		Schema:    schema,
		Trips:     filtered,
		TotalRows: len(trips),
	}, nil
}

// Apply keeps the trips whose derived month and weekday match the filter.
// A filter of "all" on both fields returns trips unchanged.
func Apply(trips []models.Trip, filter models.Filter) ([]models.Trip, error) {
	month, byMonth, err := filter.MonthNumber()
	if err != nil {
		return nil, err
	}
	day, byDay, err := filter.WeekdayIndex()
	if err != nil {
		return nil, err
	}

	if !byMonth && !byDay {
		return trips, nil
	}

	out := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		if byMonth && t.Month != month {
			continue
		}
		if byDay && t.Weekday != day {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
