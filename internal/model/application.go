// Package model defines the core data structures for the fitment engine.
package model

// PartApplication is one manufacturer-supplied application string after
// parsing: the year range plus the raw vehicle and position segments.
// It is immutable once created by the parser.
type PartApplication struct {
	RawText      string `json:"raw_text"`
	VehicleText  string `json:"vehicle_text"`
	PositionText string `json:"position_text"`
	YearStart    int    `json:"year_start"`
	YearEnd      int    `json:"year_end"`
}
