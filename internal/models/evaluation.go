package models

import "time"

// EvaluationRun records one segmentation + scoring pass over a labelled trace.
// Only the parameters, counts and accumulators are kept; the segments themselves
// are transient and never stored.
type EvaluationRun struct {
	ID string `json:"id" db:"id"` // UUID

	// Input identification
	Source  string `json:"source" db:"source"`             // File name or "api"
	TraceID string `json:"traceId,omitempty" db:"trace_id"` // Stored trace, if any

	// Parameters
	MinDurationMs     int64   `json:"minDurationMs" db:"min_duration_ms"`
	MaxRadiusM        float64 `json:"maxRadiusM" db:"max_radius_m"`
	MinIntervalMs     int64   `json:"minIntervalMs" db:"min_interval_ms"`
	AccuracyThreshold float64 `json:"accuracyThreshold" db:"accuracy_threshold"`
	DistanceUnit      string  `json:"distanceUnit" db:"distance_unit"`

	// Results
	FixCount      int   `json:"fixCount" db:"fix_count"`
	ActivityCount int   `json:"activityCount" db:"activity_count"`
	TripCount     int   `json:"tripCount" db:"trip_count"`
	Score         Score `json:"score"`

	// Present only on the response of the request that produced the run
	Result *SegmentationResult `json:"result,omitempty"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// EvaluationSourceAPI marks runs submitted inline over HTTP
const EvaluationSourceAPI = "api"
