package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/trip-activity-go/internal/database"
	"github.com/jengzang/trip-activity-go/internal/models"
)

// TraceRepository stores uploaded traces so they can be evaluated later
type TraceRepository struct {
	db *sql.DB
}

// NewTraceRepository creates a new trace repository
func NewTraceRepository(db *sql.DB) *TraceRepository {
	return &TraceRepository{db: db}
}

// Save replaces the fixes stored under traceID, keeping their order
func (r *TraceRepository) Save(ctx context.Context, traceID string, fixes []models.GPSFix) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if err := deleteTrace(ctx, tx, traceID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO traces (trace_id) VALUES (?)", traceID); err != nil {
			return fmt.Errorf("failed to create trace: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO gps_fixes (trace_id, seq, timestamp_ms, latitude, longitude, accuracy, category)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, f := range fixes {
			if _, err := stmt.ExecContext(ctx, traceID, i, f.TimestampMs, f.Latitude, f.Longitude, f.Accuracy, string(f.Category)); err != nil {
				return fmt.Errorf("failed to insert fix %d: %w", i, err)
			}
		}
		return nil
	})
}

// Load returns the fixes of a trace in stored order
func (r *TraceRepository) Load(ctx context.Context, traceID string) ([]models.GPSFix, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM traces WHERE trace_id = ?", traceID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trace %q: %w", traceID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up trace: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT timestamp_ms, latitude, longitude, accuracy, category
		FROM gps_fixes
		WHERE trace_id = ?
		ORDER BY seq
	`, traceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixes: %w", err)
	}
	defer rows.Close()

	var fixes []models.GPSFix
	for rows.Next() {
		var f models.GPSFix
		var category string
		if err := rows.Scan(&f.TimestampMs, &f.Latitude, &f.Longitude, &f.Accuracy, &category); err != nil {
			return nil, fmt.Errorf("failed to scan fix: %w", err)
		}
		f.Category = models.Category(category)
		fixes = append(fixes, f)
	}

	return fixes, rows.Err()
}

// List returns a summary of every stored trace
func (r *TraceRepository) List(ctx context.Context) ([]models.TraceSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.trace_id,
		       COUNT(f.seq),
		       COALESCE(MIN(f.timestamp_ms), 0),
		       COALESCE(MAX(f.timestamp_ms), 0),
		       COALESCE(SUM(CASE WHEN f.category != '' THEN 1 ELSE 0 END), 0)
		FROM traces t
		LEFT JOIN gps_fixes f ON f.trace_id = t.trace_id
		GROUP BY t.trace_id
		ORDER BY t.trace_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query traces: %w", err)
	}
	defer rows.Close()

	summaries := []models.TraceSummary{}
	for rows.Next() {
		var s models.TraceSummary
		if err := rows.Scan(&s.TraceID, &s.FixCount, &s.FirstTime, &s.LastTime, &s.Labelled); err != nil {
			return nil, fmt.Errorf("failed to scan trace summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// Delete removes a trace and its fixes
func (r *TraceRepository) Delete(ctx context.Context, traceID string) error {
	var exists int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM traces WHERE trace_id = ?", traceID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("trace %q: %w", traceID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up trace: %w", err)
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		return deleteTrace(ctx, tx, traceID)
	})
}

// deleteTrace removes fixes explicitly; foreign_keys is a per-connection pragma
func deleteTrace(ctx context.Context, tx *sql.Tx, traceID string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM gps_fixes WHERE trace_id = ?", traceID); err != nil {
		return fmt.Errorf("failed to delete fixes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM traces WHERE trace_id = ?", traceID); err != nil {
		return fmt.Errorf("failed to delete trace: %w", err)
	}
	return nil
}
