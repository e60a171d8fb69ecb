package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Testquantile(t *testing.T) {
	values := []float64{40, 10, 30, 20}

	assert.Equal(t, 10.0, quantile(values, 0))
	assert.Equal(t, 40.0, quantile(values, 1))
	assert.InDelta(t, 25.0, quantile(values, 0.5), 1e-12)
	assert.Equal(t, 40.0, quantile(values, 2), "clamped to the maximum")
	assert.Equal(t, 0.0, quantile(nil, 0.5))

	// Input order is untouched
	assert.Equal(t, []float64{40, 10, 30, 20}, values)
}

func TestPercentiles(t *testing.T) {
	values := []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	assert.InDeltaSlice(t, []float64{10, 50, 90}, Percentiles(values, []float64{10, 50, 90}), 1e-12)
	assert.Equal(t, []float64{0, 0}, Percentiles(nil, []float64{10, 90}))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, Distribution{}, Describe(nil))

	d := Describe([]float64{100, 50, 75})
	assert.Equal(t, 3, d.Count)
	assert.Equal(t, 50.0, d.Min)
	assert.Equal(t, 100.0, d.Max)
	assert.Equal(t, 75.0, d.Median)
	assert.InDelta(t, 55.0, d.P10, 1e-12)
	assert.InDelta(t, 95.0, d.P90, 1e-12)
	assert.InDelta(t, 75.0, d.Mean, 1e-12)

	single := Describe([]float64{42})
	assert.Equal(t, Distribution{Count: 1, Min: 42, P10: 42, Median: 42, P90: 42, Max: 42, Mean: 42}, single)
}
