package segmentation

import (
	"github.com/jengzang/trip-activity-go/internal/models"
)

// deriveTrips builds the trips as the complement of the activities. Each trip
// shares its boundary fixes with the activities (or trace ends) it connects.
func deriveTrips(trace []models.GPSFix, activities []models.Segment, p Params) []models.Segment {
	n := len(trace)
	if len(activities) == 0 {
		return []models.Segment{{Start: 0, End: n - 1}}
	}

	trips := make([]models.Segment, 0, len(activities)+1)

	if first := activities[0]; first.Start != 0 {
		trips = append(trips, models.Segment{Start: 0, End: first.Start})
	}

	for k := 1; k < len(activities); k++ {
		trips = append(trips, models.Segment{Start: activities[k-1].End, End: activities[k].Start})
	}

	last := activities[len(activities)-1]
	if last.End < n-1 {
		// Trailing noisy fixes are left out of both lists
		end := n - 1
		for end > last.End && p.noisy(trace[end].Accuracy) {
			end--
		}
		if end > last.End {
			trips = append(trips, models.Segment{Start: last.End, End: end})
		}
	}

	return trips
}
