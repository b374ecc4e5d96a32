package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	values := []float64{4, 1, 3, 2, 5}
	s := Summarize(values)

	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, 1.5811388, s.StdDev, 1e-6)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 3.0, s.P50)
	assert.InDelta(t, 4.6, s.P90, 1e-12)
	assert.Equal(t, []float64{4, 1, 3, 2, 5}, values)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestQuantile(t *testing.T) {
	values := []float64{10, 0}
	assert.Equal(t, 0.0, Quantile(values, -1))
	assert.Equal(t, 5.0, Quantile(values, 0.5))
	assert.Equal(t, 10.0, Quantile(values, 2))
	assert.Equal(t, 0.0, Quantile(nil, 0.5))
}

func TestHistogram(t *testing.T) {
	hist := Histogram([]float64{0, 1, 4.9, 5, 9.99, 10, 12, -1}, 0, 10, 2)

	assert.Equal(t, []Bin{
		{Lower: 0, Upper: 5, Count: 4},
		{Lower: 5, Upper: 10, Count: 4},
	}, hist)
	assert.Nil(t, Histogram([]float64{1}, 0, 0, 2))
	assert.Nil(t, Histogram([]float64{1}, 0, 10, 0))
}

func TestNormalizedEntropy(t *testing.T) {
	even := Histogram([]float64{1, 3, 5, 7}, 0, 8, 4)
	assert.InDelta(t, 1.0, NormalizedEntropy(even), 1e-12)

	single := Histogram([]float64{1, 1, 1}, 0, 8, 4)
	assert.Equal(t, 0.0, NormalizedEntropy(single))

	assert.Equal(t, 0.0, NormalizedEntropy(nil))
}
