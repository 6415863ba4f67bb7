package model

// VCDBVehicle is one vehicle configuration row from the external vehicle
// configuration database. Read-only to this engine.
type VCDBVehicle struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Submodel     string `json:"submodel,omitempty"`
	Engine       string `json:"engine,omitempty"`
	Transmission string `json:"transmission,omitempty"`
	VehicleID    int64  `json:"vehicle_id"`
	Year         int    `json:"year"`
}

// PartTerminology is one part type from the parts configuration database,
// together with the positions that are legal for it.
type PartTerminology struct {
	Name      string     `json:"name"`
	Positions []Position `json:"positions"`
	ID        int        `json:"id"`
}
