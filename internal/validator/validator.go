// Package validator checks candidate fitments against reference vehicle
// and position data and produces graded results.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gearpost/fitment/internal/common"
	"github.com/gearpost/fitment/internal/model"
)

const maxSuggestions = 3

// Validator grades fitments. It holds only immutable configuration, never
// mutates its inputs, and is safe for concurrent use.
type Validator struct {
	legal         map[model.Position]bool
	terminologyID int
}

// New creates a validator. A zero terminologyID disables the position
// legality check; otherwise legal lists the positions the PCDB allows for
// that part terminology.
func New(terminologyID int, legal []model.Position) *Validator {
	v := &Validator{terminologyID: terminologyID}
	if terminologyID != 0 {
		v.legal = make(map[model.Position]bool, len(legal))
		for _, p := range legal {
			v.legal[p] = true
		}
	}
	return v
}

// ValidateFitment checks that the fitment's vehicle exists among the
// available vehicles and that its positions are legal for the configured
// part terminology. Bad fitments come back as Error-status results; an
// error return means the validator was misused.
func (v *Validator) ValidateFitment(fitment *model.PartFitment, vehicles []model.VCDBVehicle) (model.ValidationResult, error) {
	if fitment == nil {
		return model.ValidationResult{}, fmt.Errorf("%w: nil fitment", common.ErrValidatorMisuse)
	}
	if len(fitment.Positions) == 0 {
		return model.ValidationResult{}, fmt.Errorf("%w: fitment %s has no positions", common.ErrValidatorMisuse, fitment.Describe())
	}

	if result, ok := v.checkExistence(fitment, vehicles); !ok {
		return result, nil
	}
	return v.checkPositions(fitment), nil
}

// checkExistence looks for a vehicle row matching the fitment. When none
// matches it builds the Error result with nearest-vehicle suggestions.
func (v *Validator) checkExistence(fitment *model.PartFitment, vehicles []model.VCDBVehicle) (model.ValidationResult, bool) {
	for _, vehicle := range vehicles {
		if vehicleMatches(fitment, vehicle) {
			return model.ValidationResult{}, true
		}
	}

	msg := fmt.Sprintf("no vehicle configuration for %d %s %s", fitment.Year, fitment.Make, fitment.Model)
	if fitment.Engine != "" {
		msg += " " + fitment.Engine
	}

	return model.ValidationResult{
		Status:      model.StatusError,
		Message:     msg,
		Suggestions: nearestVehicles(fitment, vehicles),
		Fitment:     *fitment,
	}, false
}

func vehicleMatches(fitment *model.PartFitment, vehicle model.VCDBVehicle) bool {
	if vehicle.Year != fitment.Year {
		return false
	}
	if !strings.EqualFold(vehicle.Make, fitment.Make) || !strings.EqualFold(vehicle.Model, fitment.Model) {
		return false
	}
	if fitment.Submodel != "" && !strings.EqualFold(vehicle.Submodel, fitment.Submodel) {
		return false
	}
	if fitment.Engine != "" && !strings.EqualFold(vehicle.Engine, fitment.Engine) {
		return false
	}
	if fitment.Transmission != "" && !strings.EqualFold(vehicle.Transmission, fitment.Transmission) {
		return false
	}
	return true
}

// checkPositions grades the fitment's position group against the PCDB
// legal set. N/A and Varies always pass; a tag outside the canonical
// vocabulary is an Error; a canonical tag the terminology does not list
// is a Warning.
func (v *Validator) checkPositions(fitment *model.PartFitment) model.ValidationResult {
	for _, p := range fitment.Positions {
		if !p.IsCanonical() {
			return model.ValidationResult{
				Status:  model.StatusError,
				Message: fmt.Sprintf("position %q is not in the canonical vocabulary", p),
				Fitment: *fitment,
			}
		}
	}

	if v.terminologyID != 0 {
		for _, p := range fitment.Positions {
			if p == model.PositionNA || p == model.PositionVaries {
				continue
			}
			if !v.legal[p] {
				return model.ValidationResult{
					Status:  model.StatusWarning,
					Message: fmt.Sprintf("position %q is not listed for part terminology %d", p, v.terminologyID),
					Fitment: *fitment,
				}
			}
		}
	}

	return model.ValidationResult{
		Status:  model.StatusValid,
		Message: fmt.Sprintf("fitment confirmed: %s", fitment.Describe()),
		Fitment: *fitment,
	}
}

// nearestVehicles ranks the available make/model pairs by edit distance
// from the fitment and returns the closest few as suggestion strings.
func nearestVehicles(fitment *model.PartFitment, vehicles []model.VCDBVehicle) []string {
	target := strings.ToLower(fitment.Make + " " + fitment.Model)

	type candidate struct {
		name string
		dist int
	}
	seen := make(map[string]bool)
	var candidates []candidate
	for _, v := range vehicles {
		name := v.Make + " " + v.Model
		if seen[name] {
			continue
		}
		seen[name] = true
		candidates = append(candidates, candidate{
			name: name,
			dist: levenshtein(target, strings.ToLower(name)),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	var suggestions []string
	for _, c := range candidates {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, c.name)
	}
	return suggestions
}

// levenshtein computes edit distance with a two-row table.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
