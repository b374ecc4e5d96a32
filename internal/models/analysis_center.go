package models

// Default analysis viewport (Saint Petersburg city center)
const (
	DefaultCenterLat = 59.954
	DefaultCenterLon = 30.306
	DefaultAddress   = "Кронверкский проспект 49"
	DefaultRadius    = 2000.0

	MinRadius = 500.0
	MaxRadius = 5000.0
)

// AnalysisCenter is the user-selected point the map is focused on
type AnalysisCenter struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address"`
}

// DefaultCenter returns the city-center viewport used for new sessions
func DefaultCenter() AnalysisCenter {
	return AnalysisCenter{
		Lat:     DefaultCenterLat,
		Lon:     DefaultCenterLon,
		Address: DefaultAddress,
	}
}
