package models

// Segment is a closed index range [Start, End] into a trace
type Segment struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SegmentationResult holds the inferred activities and the trips between them.
// Both lists are ordered by Start and never overlap within themselves.
type SegmentationResult struct {
	Activities []Segment `json:"activities"`
	Trips      []Segment `json:"trips"`
}
