// Package segmentation splits a GPS trace into activities (stops) and the
// trips between them.
//
// An activity is a run of successive fixes that stay within a circle of
// MaxRadius meters for longer than MinDuration milliseconds. Activities closer
// than MinInterval milliseconds to the previous one are merged into it. Fixes
// whose accuracy radius reaches AccuracyThreshold never join a cluster, but a
// short run of them inside an activity is bridged when the next good fix is
// still within range.
package segmentation

import (
	"errors"

	"github.com/jengzang/trip-activity-go/internal/models"
	"github.com/jengzang/trip-activity-go/internal/spatial"
)

// ErrTraceTooShort is returned for traces with fewer than two fixes
var ErrTraceTooShort = errors.New("trace must contain at least two fixes")

// Segment infers activities and trips over an ordered trace.
// The trace is not modified and is not re-sorted.
func Segment(trace []models.GPSFix, p Params) (models.SegmentationResult, error) {
	if len(trace) < 2 {
		return models.SegmentationResult{}, ErrTraceTooShort
	}

	s := &scanner{trace: trace, params: p, activities: []models.Segment{}}
	s.run()

	return models.SegmentationResult{
		Activities: s.activities,
		Trips:      deriveTrips(trace, s.activities, p),
	}, nil
}

// scanner is the cursor + accumulator state of one segmentation pass
type scanner struct {
	trace      []models.GPSFix
	params     Params
	activities []models.Segment
}

// cluster is the outcome of growing from a start index
type cluster struct {
	start   int
	next    int  // first index not in the cluster
	drained bool // the noisy run after the cluster reached the end of the trace
}

func (s *scanner) run() {
	n := len(s.trace)
	i := 0
	for i < n-1 {
		for i < n-1 && s.isNoisy(i) {
			i++
		}

		c := s.grow(i)
		last := c.next - 1

		if s.trace[last].TimestampMs-s.trace[i].TimestampMs > s.params.MinDuration {
			s.accept(models.Segment{Start: i, End: last})
			if last > i {
				i = last
			} else {
				i++
			}
		} else {
			i++
		}

		if c.drained {
			break
		}
	}
}

// grow accumulates fixes from start while they stay within MaxRadius of every
// accepted fix, then tries to bridge a run of noisy fixes.
func (s *scanner) grow(start int) cluster {
	n := len(s.trace)
	points := []spatial.LatLon{position(s.trace[start])}

	j := start + 1
	for j < n && !s.isNoisy(j) && spatial.MaxDistanceToSet(position(s.trace[j]), points) < s.params.MaxRadius {
		points = append(points, position(s.trace[j]))
		j++
	}

	k := j
	for k < n && s.isNoisy(k) {
		k++
	}

	c := cluster{start: start, next: j}
	if k > j {
		if k == n {
			c.drained = true
		} else if spatial.MaxDistanceToSet(position(s.trace[k]), points) < s.params.MaxRadius {
			c.next = k + 1
		}
	}
	return c
}

// accept appends a candidate activity, or folds it into the previous one when
// the gap between them is shorter than MinInterval.
func (s *scanner) accept(candidate models.Segment) {
	if len(s.activities) > 0 {
		prev := s.activities[len(s.activities)-1]
		gap := s.trace[candidate.Start].TimestampMs - s.trace[prev.End].TimestampMs
		if candidate.Start <= prev.End || gap < s.params.MinInterval {
			s.activities[len(s.activities)-1] = models.Segment{Start: prev.Start, End: candidate.End}
			return
		}
	}
	s.activities = append(s.activities, candidate)
}

func (s *scanner) isNoisy(i int) bool {
	return s.params.noisy(s.trace[i].Accuracy)
}

func position(f models.GPSFix) spatial.LatLon {
	return spatial.LatLon{Lat: f.Latitude, Lon: f.Longitude}
}
