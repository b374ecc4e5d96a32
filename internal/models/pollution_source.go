package models

// PollutionSource is a fixed point emitter with a declared intensity
type PollutionSource struct {
	Name           string  `json:"name"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	PollutionLevel float64 `json:"pollution_level"` // Source-declared intensity, unscaled
	DangerLevel    string  `json:"danger_level"`    // Informational label only
	ObjectType     string  `json:"object_type"`     // Key into the type weight table
}

// SourceMarker is a pollution source prepared for display
type SourceMarker struct {
	PollutionSource
	Icon  string `json:"icon"`  // Font Awesome icon key
	Popup string `json:"popup"` // HTML popup body
}
