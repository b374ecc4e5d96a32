package models

import "time"

// SessionRecord is the persisted state of a map session
type SessionRecord struct {
	ID            string         `json:"id"`
	Center        AnalysisCenter `json:"center"`
	Radius        float64        `json:"radius"`         // Meters
	SourceVersion int64          `json:"source_version"` // Bumped on every source replacement
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
