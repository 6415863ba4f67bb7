package model

import "fmt"

// PartFitment is one fully resolved candidate: a single year, a canonical
// make/model, and one position group. Fitments are never mutated after
// creation; they are either persisted or discarded based on validation.
type PartFitment struct {
	ID           string        `json:"id,omitempty"`
	Make         string        `json:"make"`
	Model        string        `json:"model"`
	VehicleCode  string        `json:"vehicle_code,omitempty"`
	Submodel     string        `json:"submodel,omitempty"`
	Engine       string        `json:"engine,omitempty"`
	Transmission string        `json:"transmission,omitempty"`
	Positions    PositionGroup `json:"positions"`
	Year         int           `json:"year"`
}

// Describe renders the fitment for log and error messages.
func (f *PartFitment) Describe() string {
	return fmt.Sprintf("%d %s %s (%s)", f.Year, f.Make, f.Model, f.Positions)
}
