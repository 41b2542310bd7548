package models

// Coordinates is a known geographic point. Absence of a location is always
// modeled as a nil *Coordinates, never as zero or sentinel values.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
