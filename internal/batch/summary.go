package batch

import (
	"github.com/jengzang/trip-activity-go/internal/models"
	"github.com/jengzang/trip-activity-go/internal/stats"
)

// Summary aggregates the results of a batch
type Summary struct {
	Files     int          `json:"files"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Score     models.Score `json:"score"` // Summed over successful files

	// Per-file percentages; files with a zero total are left out
	Time     stats.Distribution `json:"time"`
	Distance stats.Distribution `json:"distance"`
}

// Summarize sums the accumulators of successful files and describes the per-file percentages
func Summarize(results []FileResult) Summary {
	summary := Summary{Files: len(results)}

	var timePct, distPct []float64
	for _, res := range results {
		if res.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Score.Add(res.Score)

		if pct, err := res.Score.TimePercent(); err == nil {
			timePct = append(timePct, pct)
		}
		if pct, err := res.Score.DistPercent(); err == nil {
			distPct = append(distPct, pct)
		}
	}

	summary.Time = stats.Describe(timePct)
	summary.Distance = stats.Describe(distPct)
	return summary
}
