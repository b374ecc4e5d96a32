package models

// MapFilter represents query parameters for the rendered risk map
type MapFilter struct {
	Radius float64 `form:"radius"` // Meters, 0 means the session radius
}

// PointFilter represents query parameters for a single-point risk lookup
type PointFilter struct {
	Lat float64 `form:"lat" binding:"required"`
	Lon float64 `form:"lon" binding:"required"`
}

// CenterRequest is the body of an address search
type CenterRequest struct {
	Address string `json:"address" binding:"required"`
}

// RadiusRequest is the body of a radius change
type RadiusRequest struct {
	Radius float64 `json:"radius" binding:"required"`
}
