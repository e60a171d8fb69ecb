// Package accuracy scores an inferred trip/activity segmentation against the
// ground-truth labels carried by the trace.
package accuracy

import (
	"github.com/jengzang/trip-activity-go/internal/models"
	"github.com/jengzang/trip-activity-go/internal/spatial"
)

// Score measures elapsed time and travelled distance, in meters, that the
// segmentation classified the same way as the ground truth.
func Score(trace []models.GPSFix, activities, trips []models.Segment) models.Score {
	return ScoreInUnit(trace, activities, trips, Meters)
}

// ScoreInUnit is Score with distances reported in the given unit.
//
// Accuracy is measured per inter-fix interval: a segment [a,b] covers the
// intervals starting at a..b-1, and interval i counts as correct when the label
// of fix i agrees with the list that covers it.
func ScoreInUnit(trace []models.GPSFix, activities, trips []models.Segment, unit Unit) models.Score {
	var score models.Score
	if len(trace) < 2 {
		return score
	}

	inActivity := coverage(len(trace), activities)
	inTrip := coverage(len(trace), trips)

	for i := 0; i < len(trace)-1; i++ {
		dt := float64(trace[i+1].TimestampMs-trace[i].TimestampMs) / 1000
		dd := unit.FromMeters(spatial.HaversineDistance(
			trace[i].Latitude, trace[i].Longitude,
			trace[i+1].Latitude, trace[i+1].Longitude))

		score.TimeTotal += dt
		score.DistTotal += dd

		switch trace[i].Category {
		case models.CategoryTrip:
			if inTrip[i] {
				score.TimeCorrect += dt
				score.DistCorrect += dd
			}
		case models.CategoryActivity:
			if inActivity[i] {
				score.TimeCorrect += dt
				score.DistCorrect += dd
			}
		}
	}

	return score
}

// coverage expands segments into a per-index membership table
func coverage(n int, segments []models.Segment) []bool {
	covered := make([]bool, n)
	for _, s := range segments {
		start, end := max(s.Start, 0), min(s.End, n)
		for i := start; i < end; i++ {
			covered[i] = true
		}
	}
	return covered
}
