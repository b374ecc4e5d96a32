package risk

import (
	"sync"

	"github.com/jengzang/ecorisk-backend-go/internal/models"
	"github.com/jengzang/ecorisk-backend-go/internal/spatial"
)

// Model constants
const (
	DecayScaleMeters = 500.0 // Distance at which a source's contribution halves
	MaxRiskLevel     = 10.0
)

// minCellsPerWorker keeps small grids on a single goroutine
const minCellsPerWorker = 256

// Aggregator scores grid cells against a source set
type Aggregator struct {
	Weights TypeWeights
	Workers int // <= 1 computes sequentially
}

// NewAggregator creates an aggregator using the given weights
func NewAggregator(weights TypeWeights, workers int) *Aggregator {
	return &Aggregator{Weights: weights, Workers: workers}
}

// Aggregate scores cells with the default sequential aggregator
func Aggregate(cells []models.GridCell, sources []models.PollutionSource, weights TypeWeights) []models.GridCell {
	return NewAggregator(weights, 1).Aggregate(cells, sources)
}

// Contribution is the share of one source's risk at the given point
func Contribution(source models.PollutionSource, weight, lat, lon float64) float64 {
	distance := spatial.HaversineDistance(source.Lat, source.Lon, lat, lon)
	return source.PollutionLevel * weight / (1 + distance/DecayScaleMeters)
}

// RawRisk sums every source's contribution at the point
func (a *Aggregator) RawRisk(sources []models.PollutionSource, lat, lon float64) float64 {
	total := 0.0
	for _, s := range sources {
		total += Contribution(s, a.Weights.Weight(s.ObjectType), lat, lon)
	}
	return total
}

// Aggregate returns a copy of cells with RiskLevel populated and normalized to [0, 10].
// The input slice is left untouched.
func (a *Aggregator) Aggregate(cells []models.GridCell, sources []models.PollutionSource) []models.GridCell {
	raw := a.rawPass(cells, sources)

	out := make([]models.GridCell, len(cells))
	copy(out, cells)

	scale := MaxRiskLevel / normalizer(raw)
	for i := range out {
		out[i].RiskLevel = raw[i] * scale
	}

	return out
}

func (a *Aggregator) rawPass(cells []models.GridCell, sources []models.PollutionSource) []float64 {
	raw := make([]float64, len(cells))

	workers := a.Workers
	if limit := len(cells) / minCellsPerWorker; workers > limit {
		workers = limit
	}
	if workers <= 1 {
		a.scoreRange(cells, sources, raw, 0, len(cells))
		return raw
	}

	// Each worker owns a disjoint index range of raw
	chunk := (len(cells) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(cells); start += chunk {
		end := start + chunk
		if end > len(cells) {
			end = len(cells)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			a.scoreRange(cells, sources, raw, start, end)
		}(start, end)
	}
	wg.Wait()

	return raw
}

func (a *Aggregator) scoreRange(cells []models.GridCell, sources []models.PollutionSource, raw []float64, start, end int) {
	for i := start; i < end; i++ {
		lat, lon := cells[i].Centroid()
		raw[i] = a.RawRisk(sources, lat, lon)
	}
}

// normalizer is the largest raw value, or 1 when nothing positive exists
func normalizer(raw []float64) float64 {
	max := 0.0
	for _, v := range raw {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		return 1
	}
	return max
}

// MaxRisk returns the highest risk level in cells
func MaxRisk(cells []models.GridCell) float64 {
	max := 0.0
	for _, c := range cells {
		if c.RiskLevel > max {
			max = c.RiskLevel
		}
	}
	return max
}
