package models

// RiskCell is a visible grid cell with its display color
type RiskCell struct {
	GridCell
	Color   string `json:"color"`   // Hex color on the green-yellow-red gradient
	Tooltip string `json:"tooltip"` // Hover text
}

// Circle is the analysis radius overlay
type Circle struct {
	Lat    float64     `json:"lat"`
	Lon    float64     `json:"lon"`
	Radius float64     `json:"radius"` // Meters
	Ring   [][]float64 `json:"ring"`   // Closed [lon, lat] polygon approximation
}

// CenterMarker marks the analysis center on the map
type CenterMarker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Icon  string  `json:"icon"`
	Popup string  `json:"popup"`
}

// LegendStop is one anchor of the color scale
type LegendStop struct {
	Value float64 `json:"value"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// RiskMap is the render payload handed to the browser map library
type RiskMap struct {
	Center  CenterMarker   `json:"center"`
	Circle  Circle         `json:"circle"`
	Cells   []RiskCell     `json:"cells"`
	Sources []SourceMarker `json:"sources"`
	Legend  []LegendStop   `json:"legend"`

	TotalCells   int     `json:"total_cells"`   // Cells in the cached grid
	VisibleCells int     `json:"visible_cells"` // Cells passing the radius/threshold filter
	MaxRisk      float64 `json:"max_risk"`      // Highest risk among visible cells
}
