package models

import "errors"

// ErrZeroTotal is returned when a percentage is requested for an empty total
var ErrZeroTotal = errors.New("total is zero")

// Score holds the accuracy accumulators produced by the scorer.
// Time is in seconds, distance in the unit requested by the caller.
type Score struct {
	TimeTotal   float64 `json:"timeTotal" db:"time_total"`
	TimeCorrect float64 `json:"timeCorrect" db:"time_correct"`
	DistTotal   float64 `json:"distTotal" db:"dist_total"`
	DistCorrect float64 `json:"distCorrect" db:"dist_correct"`
}

// Add accumulates another score into s
func (s *Score) Add(o Score) {
	s.TimeTotal += o.TimeTotal
	s.TimeCorrect += o.TimeCorrect
	s.DistTotal += o.DistTotal
	s.DistCorrect += o.DistCorrect
}

// TimePercent returns the share of elapsed time classified correctly (0-100)
func (s Score) TimePercent() (float64, error) {
	return percent(s.TimeCorrect, s.TimeTotal)
}

// DistPercent returns the share of travelled distance classified correctly (0-100)
func (s Score) DistPercent() (float64, error) {
	return percent(s.DistCorrect, s.DistTotal)
}

func percent(correct, total float64) (float64, error) {
	if total == 0 {
		return 0, ErrZeroTotal
	}
	return correct / total * 100, nil
}
