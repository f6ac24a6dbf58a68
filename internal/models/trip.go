// Package models defines data structures and domain types.
package models

import "time"

// UndisclosedGender replaces missing gender values when the column exists.
const UndisclosedGender = "Undisclosed"

// Trip represents one row of a city dataset.
type Trip struct {
	StartTime    time.Time
	EndTime      time.Time
	RideID       string
	StartStation string
	EndStation   string
	UserType     string
	Gender       string
	DurationSec  float64
	RowIndex     int
	BirthYear    int

	// Derived from StartTime when the row is loaded.
	Month   int
	Weekday int
	Hour    int
}

// Schema describes which optional columns a loaded dataset carries.
type Schema struct {
	Columns      []string
	HasRideID    bool
	HasEndTime   bool
	HasGender    bool
	HasBirthYear bool
}

// WeekdayIndex converts a time.Weekday to the Monday=0 ... Sunday=6 convention.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Derive fills the calendar fields from StartTime.
func (t *Trip) Derive() {
	t.Month = int(t.StartTime.Month())
	t.Weekday = WeekdayIndex(t.StartTime.Weekday())
	t.Hour = t.StartTime.Hour()
}

// HasBirthYear reports whether the trip carries a birth year.
func (t Trip) HasBirthYear() bool {
	return t.BirthYear > 0
}
