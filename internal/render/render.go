// Package render turns a normalized grid and the session viewport into the
// payload drawn by the browser map.
package render

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"

	"github.com/jengzang/ecorisk-backend-go/internal/models"
	"github.com/jengzang/ecorisk-backend-go/internal/risk"
	"github.com/jengzang/ecorisk-backend-go/internal/sources"
	"github.com/jengzang/ecorisk-backend-go/internal/spatial"
)

const (
	// CircleVertices is the number of vertices of the radius polygon
	CircleVertices = 64
	// CenterIcon marks the analysis center
	CenterIcon = "star"
	// CenterPopup is the center marker popup text
	CenterPopup = "Центр анализа"
)

// Tooltip formats the hover text of a cell
func Tooltip(level float64) string {
	return fmt.Sprintf("Риск: %.2f", level)
}

// Build assembles the render payload. Only cells inside the radius with
// non-negligible risk are included; their risk values are not rescaled.
func Build(grid []models.GridCell, set []models.PollutionSource, center models.AnalysisCenter, radius float64) models.RiskMap {
	cells := make([]models.RiskCell, 0)
	maxRisk := 0.0
	for _, cell := range grid {
		if !risk.Visible(cell, center, radius) {
			continue
		}
		cells = append(cells, models.RiskCell{
			GridCell: cell,
			Color:    risk.Color(cell.RiskLevel),
			Tooltip:  Tooltip(cell.RiskLevel),
		})
		if cell.RiskLevel > maxRisk {
			maxRisk = cell.RiskLevel
		}
	}

	popup := CenterPopup
	if center.Address != "" {
		popup = fmt.Sprintf("%s: %s", CenterPopup, center.Address)
	}

	return models.RiskMap{
		Center: models.CenterMarker{
			Lat:   center.Lat,
			Lon:   center.Lon,
			Icon:  CenterIcon,
			Popup: popup,
		},
		Circle: models.Circle{
			Lat:    center.Lat,
			Lon:    center.Lon,
			Radius: radius,
			Ring:   spatial.CircleRing(center.Lat, center.Lon, radius, CircleVertices),
		},
		Cells:        cells,
		Sources:      sources.Markers(set),
		Legend:       risk.Legend(),
		TotalCells:   len(grid),
		VisibleCells: len(cells),
		MaxRisk:      maxRisk,
	}
}

// FeatureCollection converts the payload to GeoJSON. Cells become polygons,
// sources and the center become points, and the radius circle is a polygon.
func FeatureCollection(m models.RiskMap) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, cell := range m.Cells {
		fc.AddFeature(cellFeature(cell))
	}

	for _, s := range m.Sources {
		f := geojson.NewPointFeature([]float64{s.Lon, s.Lat})
		f.SetProperty("kind", "source")
		f.SetProperty("name", s.Name)
		f.SetProperty("pollution_level", s.PollutionLevel)
		f.SetProperty("danger_level", s.DangerLevel)
		f.SetProperty("object_type", s.ObjectType)
		f.SetProperty("icon", s.Icon)
		f.SetProperty("popup", s.Popup)
		fc.AddFeature(f)
	}

	center := geojson.NewPointFeature([]float64{m.Center.Lon, m.Center.Lat})
	center.SetProperty("kind", "center")
	center.SetProperty("icon", m.Center.Icon)
	center.SetProperty("popup", m.Center.Popup)
	fc.AddFeature(center)

	if len(m.Circle.Ring) > 0 {
		circle := geojson.NewPolygonFeature([][][]float64{m.Circle.Ring})
		circle.SetProperty("kind", "radius")
		circle.SetProperty("radius", m.Circle.Radius)
		fc.AddFeature(circle)
	}

	return fc
}

// GridFeatureCollection converts a whole grid to GeoJSON without any viewport filtering
func GridFeatureCollection(grid []models.GridCell) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, cell := range grid {
		fc.AddFeature(cellFeature(models.RiskCell{
			GridCell: cell,
			Color:    risk.Color(cell.RiskLevel),
			Tooltip:  Tooltip(cell.RiskLevel),
		}))
	}
	return fc
}

func cellFeature(cell models.RiskCell) *geojson.Feature {
	f := geojson.NewPolygonFeature([][][]float64{cell.Ring()})
	f.ID = cell.ID
	f.SetProperty("kind", "cell")
	f.SetProperty("risk_level", cell.RiskLevel)
	f.SetProperty("color", cell.Color)
	f.SetProperty("tooltip", cell.Tooltip)
	return f
}
