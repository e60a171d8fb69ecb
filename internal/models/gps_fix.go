package models

import "strings"

// GPSFix represents one timestamped GPS observation from a phone
type GPSFix struct {
	TimestampMs int64   `json:"timestampMs" db:"timestamp_ms"` // Epoch milliseconds, non-decreasing within a trace
	Latitude    float64 `json:"latitude" db:"latitude"`
	Longitude   float64 `json:"longitude" db:"longitude"`
	Accuracy    float64 `json:"accuracy" db:"accuracy"` // Accuracy radius reported by the device

	// Ground truth, only consumed by the accuracy scorer
	Category Category `json:"category,omitempty" db:"category"`
}

// Category is the human-entered ground-truth label of a fix
type Category string

// Category constants
const (
	CategoryTrip     Category = "Trip"
	CategoryActivity Category = "Activity"
	CategoryUnknown  Category = ""
)

// ParseCategory maps a diary label onto a Category; anything unrecognised is unknown
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trip":
		return CategoryTrip
	case "activity":
		return CategoryActivity
	default:
		return CategoryUnknown
	}
}

// TraceSummary describes a stored trace without loading its fixes
type TraceSummary struct {
	TraceID   string `json:"traceId" db:"trace_id"`
	FixCount  int    `json:"fixCount" db:"fix_count"`
	FirstTime int64  `json:"firstTime" db:"first_ts"` // Epoch milliseconds
	LastTime  int64  `json:"lastTime" db:"last_ts"`   // Epoch milliseconds
	Labelled  int    `json:"labelled" db:"labelled"`  // Fixes carrying a Trip/Activity label
}
