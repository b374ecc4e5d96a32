package risk

import (
	"errors"
	"fmt"
	"math"

	"github.com/jengzang/ecorisk-backend-go/internal/models"
	"github.com/jengzang/ecorisk-backend-go/internal/spatial"
)

// DefaultCellSize is the grid resolution in degrees (~500m north-south)
const DefaultCellSize = 0.0045

// stepTolerance keeps exact multiples (e.g. 1.0 / 0.5) from losing a step to float error
const stepTolerance = 1e-9

// ErrInvalidGrid is returned for a non-positive cell size or an empty bounding box
var ErrInvalidGrid = errors.New("invalid grid parameters")

// BoundingBox is a lat/lon rectangle in degrees
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// SaintPetersburg is the fixed region covered by the city risk grid
var SaintPetersburg = BoundingBox{
	MinLat: 59.80,
	MaxLat: 60.05,
	MinLon: 30.10,
	MaxLon: 30.70,
}

// BuildGrid partitions the box into cellSize × cellSize cells.
// Each axis gets floor(range / cellSize) cells; the partial remainder past the
// last full breakpoint is dropped. Cells are ordered row by row from the
// bottom-left corner.
func BuildGrid(box BoundingBox, cellSize float64) ([]models.GridCell, error) {
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("%w: cell size %v", ErrInvalidGrid, cellSize)
	}
	if !(box.MaxLat > box.MinLat) || !(box.MaxLon > box.MinLon) {
		return nil, fmt.Errorf("%w: empty bounding box %+v", ErrInvalidGrid, box)
	}

	lats := breakpoints(box.MinLat, box.MaxLat, cellSize)
	lons := breakpoints(box.MinLon, box.MaxLon, cellSize)
	if len(lats) < 2 || len(lons) < 2 {
		return []models.GridCell{}, nil
	}

	cells := make([]models.GridCell, 0, (len(lats)-1)*(len(lons)-1))
	for i := 0; i < len(lats)-1; i++ {
		for j := 0; j < len(lons)-1; j++ {
			cell := models.GridCell{
				Left:   lons[j],
				Right:  lons[j+1],
				Bottom: lats[i],
				Top:    lats[i+1],
			}
			lat, lon := cell.Centroid()
			cell.ID = spatial.EncodeGeohash(lat, lon, spatial.CellIDPrecision)
			cells = append(cells, cell)
		}
	}

	return cells, nil
}

// breakpoints returns min, min+step, ... for every full step that fits in [min, max].
// Adjacent cells take their shared edge from the same element, so they never gap or overlap.
func breakpoints(min, max, step float64) []float64 {
	steps := int(math.Floor((max-min)/step + stepTolerance))
	points := make([]float64, steps+1)
	for i := range points {
		points[i] = min + float64(i)*step
	}
	return points
}

// CellAt returns the first cell containing the point
func CellAt(cells []models.GridCell, lat, lon float64) (models.GridCell, bool) {
	for _, c := range cells {
		if c.Contains(lat, lon) {
			return c, true
		}
	}
	return models.GridCell{}, false
}
