package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/trip-activity-go/internal/models"
)

// EvaluationRepository handles database operations for evaluation runs
type EvaluationRepository struct {
	db *sql.DB
}

// NewEvaluationRepository creates a new evaluation repository
func NewEvaluationRepository(db *sql.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

const evaluationColumns = `id, source, trace_id, min_duration_ms, max_radius_m, min_interval_ms,
	accuracy_threshold, distance_unit, fix_count, activity_count, trip_count,
	time_total, time_correct, dist_total, dist_correct, created_at`

// Create stores an evaluation run; the caller assigns ID and CreatedAt
func (r *EvaluationRepository) Create(ctx context.Context, run *models.EvaluationRun) error {
	query := `INSERT INTO evaluation_runs (` + evaluationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Source,
		run.TraceID,
		run.MinDurationMs,
		run.MaxRadiusM,
		run.MinIntervalMs,
		run.AccuracyThreshold,
		run.DistanceUnit,
		run.FixCount,
		run.ActivityCount,
		run.TripCount,
		run.Score.TimeTotal,
		run.Score.TimeCorrect,
		run.Score.DistTotal,
		run.Score.DistCorrect,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create evaluation run: %w", err)
	}
	return nil
}

// GetByID retrieves an evaluation run by ID
func (r *EvaluationRepository) GetByID(ctx context.Context, id string) (*models.EvaluationRun, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluation_runs WHERE id = ?`

	run, err := scanEvaluation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("evaluation run %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation run: %w", err)
	}
	return run, nil
}

// List retrieves evaluation runs, newest first
func (r *EvaluationRepository) List(ctx context.Context, filter models.EvaluationFilter) ([]*models.EvaluationRun, error) {
	filter.Normalize()

	query := `SELECT ` + evaluationColumns + ` FROM evaluation_runs`

	var conditions []string
	var args []interface{}

	if filter.TraceID != "" {
		conditions = append(conditions, "trace_id = ?")
		args = append(args, filter.TraceID)
	}
	if filter.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, filter.Source)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation runs: %w", err)
	}
	defer rows.Close()

	runs := []*models.EvaluationRun{}
	for rows.Next() {
		run, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvaluation(row rowScanner) (*models.EvaluationRun, error) {
	run := &models.EvaluationRun{}
	err := row.Scan(
		&run.ID,
		&run.Source,
		&run.TraceID,
		&run.MinDurationMs,
		&run.MaxRadiusM,
		&run.MinIntervalMs,
		&run.AccuracyThreshold,
		&run.DistanceUnit,
		&run.FixCount,
		&run.ActivityCount,
		&run.TripCount,
		&run.Score.TimeTotal,
		&run.Score.TimeCorrect,
		&run.Score.DistTotal,
		&run.Score.DistCorrect,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}
