package models

import (
	"fmt"
	"strings"
)

// FilterAll disables a month or day filter.
const FilterAll = "all"

// MonthNames lists every calendar month; index+1 is the month number.
var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// FilterMonths is the month range covered by the datasets.
var FilterMonths = MonthNames[:6]

// WeekdayNames is ordered by weekday index, Monday first.
var WeekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Filter is the city/month/day selection made once per pass.
type Filter struct {
	City  string
	Month string
	Day   string
}

// NewFilter returns a filter with all values lower-cased.
func NewFilter(city, month, day string) Filter {
	return Filter{
		City:  strings.ToLower(city),
		Month: strings.ToLower(month),
		Day:   strings.ToLower(day),
	}
}

// MonthNumber resolves the month filter to 1-12. ok is false for "all".
func (f Filter) MonthNumber() (int, bool, error) {
	if f.Month == "" || f.Month == FilterAll {
		return 0, false, nil
	}
	for i, name := range FilterMonths {
		if strings.EqualFold(name, f.Month) {
			return i + 1, true, nil
		}
	}
	return 0, false, fmt.Errorf("unsupported month filter %q", f.Month)
}

// WeekdayIndex resolves the day filter to Monday=0 ... Sunday=6. ok is false for "all".
func (f Filter) WeekdayIndex() (int, bool, error) {
	if f.Day == "" || f.Day == FilterAll {
		return 0, false, nil
	}
	for i, name := range WeekdayNames {
		if strings.EqualFold(name, f.Day) {
			return i, true, nil
		}
	}
	return 0, false, fmt.Errorf("unsupported day filter %q", f.Day)
}

// Describe returns the acknowledgement shown after filters are chosen.
func (f Filter) Describe() string {
	month := Title(f.Month)
	day := Title(f.Day)

	switch {
	case f.Month == FilterAll && f.Day == FilterAll:
		return "Alright, we'll move forward with no filters applied."
	case f.Day == FilterAll:
		return fmt.Sprintf("Alright, we'll filter only for %s.", month)
	case f.Month == FilterAll:
		return fmt.Sprintf("Alright, we'll filter only for %ss.", day)
	default:
		return fmt.Sprintf("Alright, we'll filter for %ss in %s.", day, month)
	}
}

// MonthName returns the English name of month number m (1-12).
func MonthName(m int) string {
	if m < 1 || m > len(MonthNames) {
		return "Unknown"
	}
	return MonthNames[m-1]
}

// WeekdayName returns the English name of weekday index d (Monday=0).
func WeekdayName(d int) string {
	if d < 0 || d >= len(WeekdayNames) {
		return "Unknown"
	}
	return WeekdayNames[d]
}

// Title upper-cases the first letter of every space-separated word.
func Title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
