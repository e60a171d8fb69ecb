package models

// EvaluationFilter represents filter parameters for querying evaluation runs
type EvaluationFilter struct {
	TraceID string `form:"traceId"`
	Source  string `form:"source"`
	Limit   int    `form:"limit"`  // Max results, default 100
	Offset  int    `form:"offset"`
}

// Normalize applies the default and maximum page size
func (f *EvaluationFilter) Normalize() {
	if f.Limit < 1 {
		f.Limit = 100
	}
	if f.Limit > 1000 {
		f.Limit = 1000
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
