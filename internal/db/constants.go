package db

// timeLayout is how timestamps are stored in the trips table.
const timeLayout = "2006-01-02 15:04:05"

// Columns a mode can be computed over. Only these names are ever
// interpolated into SQL.
const (
	colMonth        = "month"
	colWeekday      = "weekday"
	colHour         = "hour"
	colStartStation = "start_station"
	colEndStation   = "end_station"
	colBirthYear    = "birth_year"
)
