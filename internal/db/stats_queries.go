package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mgkapitany/pdsnd-github/internal/models"
)

// modeQuery selects the most frequent non-NULL value of column. Ties go to
// the smallest value so repeated runs agree.
func modeQuery(column string) string {
	return fmt.Sprintf(`
		SELECT %[1]s, COUNT(*) AS n
		FROM trips
		WHERE %[1]s IS NOT NULL
		GROUP BY %[1]s
		ORDER BY n DESC, %[1]s ASC
		LIMIT 1
	`, column)
}

// modeInt returns the mode of an integer column. count is 0 when the
// column has no values.
func (db *DB) modeInt(column string) (value, count int, err error) {
	err = db.QueryRowContext(context.Background(), modeQuery(column)).Scan(&value, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query mode of %s: %w", column, err)
	}
	return value, count, nil
}

func (db *DB) modeText(column string) (value string, count int, err error) {
	err = db.QueryRowContext(context.Background(), modeQuery(column)).Scan(&value, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to query mode of %s: %w", column, err)
	}
	return value, count, nil
}

// TimeStats returns the most common month, weekday and start hour along
// with per-hour trip counts.
func (db *DB) TimeStats() (models.TimeStats, error) {
	var s models.TimeStats
	var err error

	if s.Trips, err = db.Count(); err != nil {
		return s, err
	}
	if s.Month, s.MonthCount, err = db.modeInt(colMonth); err != nil {
		return s, err
	}
	if s.Weekday, s.WeekdayCount, err = db.modeInt(colWeekday); err != nil {
		return s, err
	}
	if s.Hour, s.HourCount, err = db.modeInt(colHour); err != nil {
		return s, err
	}

	rows, err := db.QueryContext(context.Background(),
		"SELECT hour, COUNT(*) FROM trips GROUP BY hour ORDER BY hour")
	if err != nil {
		return s, fmt.Errorf("failed to query hourly counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var hour, n int
		if err := rows.Scan(&hour, &n); err != nil {
			return s, fmt.Errorf("failed to scan hourly count: %w", err)
		}
		if hour >= 0 && hour < len(s.HourlyCounts) {
			s.HourlyCounts[hour] = n
		}
	}

	return s, rows.Err()
}

// StationStats returns the most popular start station, end station and
// start-end pair.
func (db *DB) StationStats() (models.StationStats, error) {
	var s models.StationStats
	var err error

	if s.Trips, err = db.Count(); err != nil {
		return s, err
	}
	if s.StartStation, s.StartCount, err = db.modeText(colStartStation); err != nil {
		return s, err
	}
	if s.EndStation, s.EndCount, err = db.modeText(colEndStation); err != nil {
		return s, err
	}

	query := `
		SELECT start_station, end_station, COUNT(*) AS n
		FROM trips
		GROUP BY start_station, end_station
		ORDER BY n DESC, start_station ASC, end_station ASC
		LIMIT 1
	`
	err = db.QueryRowContext(context.Background(), query).Scan(&s.TripStart, &s.TripEnd, &s.TripCount)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return s, fmt.Errorf("failed to query popular trip: %w", err)
	}

	return s, nil
}

// DurationStats returns the total and mean trip duration in seconds.
func (db *DB) DurationStats() (models.DurationStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(duration_sec), 0),
			COALESCE(AVG(duration_sec), 0)
		FROM trips
	`

	var s models.DurationStats
	err := db.QueryRowContext(context.Background(), query).Scan(&s.Trips, &s.TotalSec, &s.MeanSec)
	if err != nil {
		return s, fmt.Errorf("failed to query trip durations: %w", err)
	}
	return s, nil
}

// UserStats returns user type and gender counts, their cross-tabulation and
// birth year statistics. Gender and birth year are only queried when the
// schema carries them.
func (db *DB) UserStats(schema models.Schema) (models.UserStats, error) {
	s := models.UserStats{
		HasGender: schema.HasGender,
		HasBirth:  schema.HasBirthYear,
	}
	var err error

	if s.Trips, err = db.Count(); err != nil {
		return s, err
	}
	if s.UserTypes, err = db.valueCounts("user_type"); err != nil {
		return s, err
	}

	if schema.HasGender {
		if s.Genders, err = db.valueCounts("gender"); err != nil {
			return s, err
		}
		if s.Breakdown, err = db.userGenderBreakdown(); err != nil {
			return s, err
		}
	}

	if schema.HasBirthYear {
		if s.BirthYears, err = db.birthYearStats(); err != nil {
			return s, err
		}
	}

	return s, nil
}

// valueCounts counts rows per distinct value, largest first. NULL values
// are counted under models.MissingValueLabel.
func (db *DB) valueCounts(column string) ([]models.ValueCount, error) {
	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*) AS n
		FROM trips
		GROUP BY %[1]s
		ORDER BY n DESC, %[1]s ASC
	`, column)

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s counts: %w", column, err)
	}
	defer func() { _ = rows.Close() }()

	var counts []models.ValueCount
	for rows.Next() {
		var value sql.NullString
		var vc models.ValueCount
		if err := rows.Scan(&value, &vc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan %s count: %w", column, err)
		}
		vc.Value = labelOf(value)
		counts = append(counts, vc)
	}

	return counts, rows.Err()
}

func (db *DB) userGenderBreakdown() ([]models.CrossCount, error) {
	query := `
		SELECT user_type, gender, COUNT(*)
		FROM trips
		GROUP BY user_type, gender
		ORDER BY user_type ASC, gender ASC
	`

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query gender breakdown: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cells []models.CrossCount
	for rows.Next() {
		var userType, gender sql.NullString
		var c models.CrossCount
		if err := rows.Scan(&userType, &gender, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan gender breakdown: %w", err)
		}
		c.UserType = labelOf(userType)
		c.Gender = labelOf(gender)
		cells = append(cells, c)
	}

	return cells, rows.Err()
}

// birthYearStats returns nil when no row has a birth year.
func (db *DB) birthYearStats() (*models.BirthYearStats, error) {
	query := `
		SELECT MIN(birth_year), MAX(birth_year), COUNT(birth_year)
		FROM trips
	`

	var earliest, latest sql.NullInt64
	var known int
	err := db.QueryRowContext(context.Background(), query).Scan(&earliest, &latest, &known)
	if err != nil {
		return nil, fmt.Errorf("failed to query birth years: %w", err)
	}
	if known == 0 {
		return nil, nil
	}

	common, _, err := db.modeInt(colBirthYear)
	if err != nil {
		return nil, err
	}

	return &models.BirthYearStats{
		Earliest:   int(earliest.Int64),
		MostRecent: int(latest.Int64),
		MostCommon: common,
		Known:      known,
	}, nil
}

func labelOf(v sql.NullString) string {
	if !v.Valid || v.String == "" {
		return models.MissingValueLabel
	}
	return v.String
}
