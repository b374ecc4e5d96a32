package models

// GridLayout is the region and resolution a grid was built with.
// A stored grid is only reusable under the same layout.
type GridLayout struct {
	MinLat   float64 `json:"min_lat"`
	MaxLat   float64 `json:"max_lat"`
	MinLon   float64 `json:"min_lon"`
	MaxLon   float64 `json:"max_lon"`
	CellSize float64 `json:"cell_size"`
}
