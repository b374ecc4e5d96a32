// Package risk computes the pollution risk grid.
//
// A grid is a uniform tiling of a bounding box into rectangular cells. Each
// cell receives a raw score that sums every pollution source's intensity,
// scaled by a per-type weight and attenuated hyperbolically with distance:
//
//	contribution = pollutionLevel × weight / (1 + distance / 500m)
//
// Raw scores are then normalized so the worst cell of the current source set
// is exactly 10. Risk levels are therefore relative rankings, not absolute
// pollution units, and a cell's level only makes sense against the source
// set it was computed from.
package risk
