package risk

import (
	"fmt"
	"math"

	"github.com/jengzang/ecorisk-backend-go/internal/models"
	"github.com/jengzang/ecorisk-backend-go/internal/spatial"
)

// VisibilityThreshold hides cells with negligible risk
const VisibilityThreshold = 0.1

type rgb struct{ r, g, b float64 }

// gradient stops, evenly spaced over [0, MaxRiskLevel]
var gradient = []rgb{
	{0, 255, 0},   // #00ff00
	{255, 255, 0}, // #ffff00
	{255, 0, 0},   // #ff0000
}

// Legend returns the color scale anchors
func Legend() []models.LegendStop {
	return []models.LegendStop{
		{Value: 0, Color: "#00ff00", Label: "Низкий риск"},
		{Value: MaxRiskLevel / 2, Color: "#ffff00", Label: "Средний риск"},
		{Value: MaxRiskLevel, Color: "#ff0000", Label: "Высокий риск"},
	}
}

// Color maps a risk level to a hex color on the green-yellow-red scale pinned to [0, 10]
func Color(level float64) string {
	if math.IsNaN(level) {
		level = 0
	}
	level = math.Min(math.Max(level, 0), MaxRiskLevel)

	segments := float64(len(gradient) - 1)
	pos := level / MaxRiskLevel * segments
	idx := int(math.Floor(pos))
	if idx >= len(gradient)-1 {
		idx = len(gradient) - 2
	}
	t := pos - float64(idx)

	lo, hi := gradient[idx], gradient[idx+1]
	return fmt.Sprintf("#%02x%02x%02x",
		channel(lo.r, hi.r, t),
		channel(lo.g, hi.g, t),
		channel(lo.b, hi.b, t),
	)
}

func channel(a, b, t float64) int {
	return int(math.Round(a + (b-a)*t))
}

// Visible reports whether a cell should be drawn for the given viewport.
// Filtering never changes the cell's stored risk.
func Visible(cell models.GridCell, center models.AnalysisCenter, radius float64) bool {
	if cell.RiskLevel <= VisibilityThreshold {
		return false
	}
	lat, lon := cell.Centroid()
	return spatial.HaversineDistance(center.Lat, center.Lon, lat, lon) <= radius
}
