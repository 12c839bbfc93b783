package models

import "time"

// IndexStats describes the current reverse-dependency snapshot.
type IndexStats struct {
	Ready             bool      `json:"ready"`
	Entries           int       `json:"entries"`
	DirectEntries     int       `json:"directEntries"`
	RangeEntries      int       `json:"rangeEntries"`
	ExpirationMinutes int       `json:"expirationMinutes"`
	TopConcept        string    `json:"conceptoMasDependientes,omitempty"`
	TopFanIn          int       `json:"maxDependientes,omitempty"`
	BuiltAt           time.Time `json:"builtAt,omitempty"`
}
