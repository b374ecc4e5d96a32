package models

import "github.com/jengzang/ecorisk-backend-go/internal/stats"

// GridStats describes the distribution of normalized risk over a grid
type GridStats struct {
	Summary   stats.Summary `json:"summary"`
	Histogram []stats.Bin   `json:"histogram"`
	Spread    float64       `json:"spread"` // Normalized entropy of the histogram, 0..1
}
