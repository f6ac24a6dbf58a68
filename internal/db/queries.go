package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mgkapitany/pdsnd-github/internal/logger"
	"github.com/mgkapitany/pdsnd-github/internal/models"
)

// ReplaceTrips swaps the contents of the trips table for the given rows.
func (db *DB) ReplaceTrips(trips []models.Trip) error {
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM trips"); err != nil {
		return fmt.Errorf("failed to clear trips: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trips (
			row_index, ride_id, start_time, end_time, duration_sec,
			start_station, end_station, user_type, gender, birth_year,
			month, weekday, hour
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range trips {
		_, err := stmt.ExecContext(ctx,
			t.RowIndex,
			nullString(t.RideID),
			t.StartTime.Format(timeLayout),
			nullTime(t.EndTime),
			t.DurationSec,
			t.StartStation,
			t.EndStation,
			nullString(t.UserType),
			nullString(t.Gender),
			nullInt(t.BirthYear),
			t.Month,
			t.Weekday,
			t.Hour,
		)
		if err != nil {
			return fmt.Errorf("failed to insert trip %d: %w", t.RowIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trips: %w", err)
	}
	return nil
}

// Count returns the number of rows in the trips table.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM trips").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}
	return n, nil
}

// Page returns up to limit trips in file order, skipping the first offset.
func (db *DB) Page(offset, limit int) ([]models.Trip, error) {
	query := `
		SELECT row_index, ride_id, start_time, end_time, duration_sec,
			   start_station, end_station, user_type, gender, birth_year,
			   month, weekday, hour
		FROM trips
		ORDER BY row_index
		LIMIT ? OFFSET ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips page: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var trips []models.Trip
	for rows.Next() {
		var t models.Trip
		var startStr string
		var rideID, endStr, userType, gender sql.NullString
		var birthYear sql.NullInt64

		err := rows.Scan(
			&t.RowIndex,
			&rideID,
			&startStr,
			&endStr,
			&t.DurationSec,
			&t.StartStation,
			&t.EndStation,
			&userType,
			&gender,
			&birthYear,
			&t.Month,
			&t.Weekday,
			&t.Hour,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}

		t.StartTime, _ = time.Parse(timeLayout, startStr)
		if endStr.Valid {
			t.EndTime, _ = time.Parse(timeLayout, endStr.String)
		}
		t.RideID = rideID.String
		t.UserType = userType.String
		t.Gender = gender.String
		t.BirthYear = int(birthYear.Int64)
		trips = append(trips, t)
	}

	return trips, rows.Err()
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullInt treats zero as missing.
func nullInt(v int) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(timeLayout), Valid: true}
}
