package models

import "time"

// MissingValueLabel names the bucket of rows with no value in a categorical column.
const MissingValueLabel = "(missing)"

// DatasetSummary describes a freshly loaded dataset.
type DatasetSummary struct {
	Filter    Filter
	Schema    Schema
	File      string
	First     time.Time
	Last      time.Time
	Rows      int
	TotalRows int
	LoadTime  time.Duration
}

// ValueCount is one bucket of a value count.
type ValueCount struct {
	Value string
	Count int
}

// CrossCount is one cell of the user type by gender cross-tabulation.
type CrossCount struct {
	UserType string
	Gender   string
	Count    int
}

// TimeStats holds the most frequent travel times.
type TimeStats struct {
	// HourlyCounts is indexed by start hour.
	HourlyCounts [24]int
	Month        int
	MonthCount   int
	Weekday      int
	WeekdayCount int
	Hour         int
	HourCount    int
	Trips        int
	Elapsed      time.Duration
}

// Empty reports whether no trips were available to compute the modes.
func (s TimeStats) Empty() bool {
	return s.Trips == 0
}

// StationStats holds the most popular stations and trip.
type StationStats struct {
	StartStation string
	EndStation   string
	TripStart    string
	TripEnd      string
	StartCount   int
	EndCount     int
	TripCount    int
	Trips        int
	Elapsed      time.Duration
}

// Empty reports whether no trips were available.
func (s StationStats) Empty() bool {
	return s.Trips == 0
}

// DurationStats holds trip duration aggregates in seconds.
type DurationStats struct {
	TotalSec float64
	MeanSec  float64
	Trips    int
	Elapsed  time.Duration
}

// Total returns the summed duration as a time span.
func (s DurationStats) Total() time.Duration {
	return secondsToDuration(s.TotalSec)
}

// Mean returns the mean duration as a time span.
func (s DurationStats) Mean() time.Duration {
	return secondsToDuration(s.MeanSec)
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

// BirthYearStats holds the birth year extremes and mode.
type BirthYearStats struct {
	Earliest   int
	MostRecent int
	MostCommon int
	Known      int
}

// UserStats holds bike share user demographics.
type UserStats struct {
	UserTypes  []ValueCount
	Genders    []ValueCount
	Breakdown  []CrossCount
	BirthYears *BirthYearStats
	HasGender  bool
	HasBirth   bool
	Trips      int
	Elapsed    time.Duration
}

// RawPage is one block of rows from the raw data viewer.
type RawPage struct {
	Trips  []Trip
	Schema Schema
	Offset int
	Total  int
}

// HasMore reports whether rows remain after this page.
func (p RawPage) HasMore() bool {
	return p.Offset+len(p.Trips) < p.Total
}
