package model

// ValidationStatus grades a candidate fitment.
type ValidationStatus string

// Validation status constants.
const (
	StatusValid   ValidationStatus = "VALID"
	StatusWarning ValidationStatus = "WARNING"
	StatusError   ValidationStatus = "ERROR"
)

// ValidationResult is the validator's verdict on exactly one fitment.
type ValidationResult struct {
	Status      ValidationStatus `json:"status"`
	Message     string           `json:"message"`
	Suggestions []string         `json:"suggestions,omitempty"`
	Fitment     PartFitment      `json:"fitment"`
}

// Persistable reports whether the result clears the given persistence
// threshold (Error results never persist).
func (r *ValidationResult) Persistable(allowWarnings bool) bool {
	switch r.Status {
	case StatusValid:
		return true
	case StatusWarning:
		return allowWarnings
	default:
		return false
	}
}
