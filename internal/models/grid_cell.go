package models

import "github.com/golang/geo/s2"

// GridCell is one rectangle of the fixed-resolution risk grid
type GridCell struct {
	ID string `json:"id"` // Geohash of the centroid

	// Bounds in degrees
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`

	RiskLevel float64 `json:"risk_level"` // Normalized 0~10
}

// Centroid returns the geometric center of the cell as (lat, lon)
func (c GridCell) Centroid() (float64, float64) {
	return (c.Bottom + c.Top) / 2, (c.Left + c.Right) / 2
}

// Rect returns the cell as an s2 lat/lng rectangle
func (c GridCell) Rect() s2.Rect {
	return s2.RectFromLatLng(s2.LatLngFromDegrees(c.Bottom, c.Left)).
		AddPoint(s2.LatLngFromDegrees(c.Top, c.Right))
}

// Contains reports whether the point lies inside the cell, edges included
func (c GridCell) Contains(lat, lon float64) bool {
	return c.Rect().ContainsLatLng(s2.LatLngFromDegrees(lat, lon))
}

// Ring returns the closed outline of the cell as [lon, lat] pairs
func (c GridCell) Ring() [][]float64 {
	return [][]float64{
		{c.Left, c.Bottom},
		{c.Right, c.Bottom},
		{c.Right, c.Top},
		{c.Left, c.Top},
		{c.Left, c.Bottom},
	}
}
