package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/ecorisk-backend-go/internal/models"
	"github.com/jengzang/ecorisk-backend-go/internal/risk"
	"github.com/jengzang/ecorisk-backend-go/internal/sources"
	"github.com/jengzang/ecorisk-backend-go/internal/spatial"
)

func cellAround(id string, lat, lon, level float64) models.GridCell {
	const half = 0.00225
	return models.GridCell{ID: id, Left: lon - half, Right: lon + half, Bottom: lat - half, Top: lat + half, RiskLevel: level}
}

func TestBuild_FiltersByRadiusAndThreshold(t *testing.T) {
	center := models.DefaultCenter()
	grid := []models.GridCell{
		cellAround("near", center.Lat, center.Lon, 7.5),
		cellAround("faint", center.Lat+0.001, center.Lon, 0.05),
		cellAround("far", center.Lat+0.2, center.Lon, 10),
	}

	m := Build(grid, sources.Demo(), center, models.DefaultRadius)

	require.Len(t, m.Cells, 1)
	assert.Equal(t, "near", m.Cells[0].ID)
	assert.Equal(t, 7.5, m.Cells[0].RiskLevel)
	assert.Equal(t, risk.Color(7.5), m.Cells[0].Color)
	assert.Equal(t, "Риск: 7.50", m.Cells[0].Tooltip)
	assert.Equal(t, 3, m.TotalCells)
	assert.Equal(t, 1, m.VisibleCells)
	assert.Equal(t, 7.5, m.MaxRisk)
}

func TestBuild_RadiusDoesNotRescale(t *testing.T) {
	center := models.DefaultCenter()
	grid := []models.GridCell{cellAround("a", center.Lat, center.Lon, 3)}

	small := Build(grid, nil, center, models.MinRadius)
	large := Build(grid, nil, center, models.MaxRadius)

	require.Len(t, small.Cells, 1)
	require.Len(t, large.Cells, 1)
	assert.Equal(t, small.Cells[0].RiskLevel, large.Cells[0].RiskLevel)
}

func TestBuild_MarkersAndOverlay(t *testing.T) {
	center := models.DefaultCenter()
	m := Build(nil, sources.Demo(), center, 1500)

	assert.Empty(t, m.Cells)
	assert.NotNil(t, m.Cells)
	assert.Len(t, m.Sources, len(sources.Demo()))
	assert.Equal(t, CenterIcon, m.Center.Icon)
	assert.Contains(t, m.Center.Popup, models.DefaultAddress)
	assert.Equal(t, risk.Legend(), m.Legend)

	assert.Equal(t, 1500.0, m.Circle.Radius)
	require.Len(t, m.Circle.Ring, CircleVertices+1)
	assert.Equal(t, m.Circle.Ring[0], m.Circle.Ring[CircleVertices])
	for _, p := range m.Circle.Ring {
		assert.InDelta(t, 1500, spatial.HaversineDistance(center.Lat, center.Lon, p[1], p[0]), 1)
	}
}

func TestFeatureCollection(t *testing.T) {
	center := models.DefaultCenter()
	grid := []models.GridCell{cellAround("cell-1", center.Lat, center.Lon, 9)}
	m := Build(grid, sources.Demo()[:2], center, models.DefaultRadius)

	fc := FeatureCollection(m)
	// 1 cell, 2 sources, center, radius circle
	require.Len(t, fc.Features, 5)

	cell := fc.Features[0]
	assert.True(t, cell.Geometry.IsPolygon())
	assert.Equal(t, "cell-1", cell.ID)
	assert.Equal(t, "cell", cell.Properties["kind"])
	assert.Equal(t, risk.Color(9), cell.Properties["color"])

	src := fc.Features[1]
	assert.True(t, src.Geometry.IsPoint())
	assert.Equal(t, []float64{m.Sources[0].Lon, m.Sources[0].Lat}, src.Geometry.Point)

	assert.Equal(t, "center", fc.Features[3].Properties["kind"])
	assert.Equal(t, "radius", fc.Features[4].Properties["kind"])

	raw, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"FeatureCollection"`)
}

func TestGridFeatureCollection_KeepsEveryCell(t *testing.T) {
	grid, err := risk.BuildGrid(risk.BoundingBox{MinLat: 59.9, MaxLat: 60.0, MinLon: 30.2, MaxLon: 30.3}, 0.05)
	require.NoError(t, err)
	grid = risk.Aggregate(grid, sources.Demo(), risk.DefaultTypeWeights())

	fc := GridFeatureCollection(grid)
	require.Len(t, fc.Features, len(grid))
	for i, f := range fc.Features {
		assert.Equal(t, grid[i].ID, f.ID)
		assert.Len(t, f.Geometry.Polygon[0], 5)
	}
}
