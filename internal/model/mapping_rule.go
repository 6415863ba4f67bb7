package model

import (
	"fmt"
	"strings"
	"time"
)

// ModelMapping is the decoded target of a mapping rule: the canonical
// make, the manufacturer's internal vehicle code, and the model name.
type ModelMapping struct {
	Make        string `json:"make"`
	VehicleCode string `json:"vehicle_code"`
	Model       string `json:"model"`
}

// ParseModelMapping decodes the stored "Make|Code|Model" form. Older rule
// imports used colons, so both delimiters are accepted.
func ParseModelMapping(s string) (ModelMapping, error) {
	sep := "|"
	if !strings.Contains(s, "|") && strings.Contains(s, ":") {
		sep = ":"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return ModelMapping{}, fmt.Errorf("mapping %q: want 3 fields, got %d", s, len(parts))
	}
	m := ModelMapping{
		Make:        strings.TrimSpace(parts[0]),
		VehicleCode: strings.TrimSpace(parts[1]),
		Model:       strings.TrimSpace(parts[2]),
	}
	if m.Make == "" || m.Model == "" {
		return ModelMapping{}, fmt.Errorf("mapping %q: make and model are required", s)
	}
	return m, nil
}

// String re-encodes the mapping in its canonical pipe-delimited form.
func (m ModelMapping) String() string {
	return m.Make + "|" + m.VehicleCode + "|" + m.Model
}

// ModelMappingRule resolves free-text vehicle descriptions to a canonical
// mapping. Patterns are case-insensitive substrings, or wildcards when
// they contain '*' or '?'. Higher priority wins when several rules match.
type ModelMappingRule struct {
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Pattern   string       `json:"pattern"`
	Mapping   ModelMapping `json:"mapping"`
	ID        int          `json:"id"`
	Priority  int          `json:"priority"`
	IsActive  bool         `json:"is_active"`
}

// IsWildcard reports whether the rule's pattern uses glob metacharacters.
func (r *ModelMappingRule) IsWildcard() bool {
	return strings.ContainsAny(r.Pattern, "*?")
}
