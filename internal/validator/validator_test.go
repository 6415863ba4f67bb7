package validator

import (
	"testing"

	"github.com/gearpost/fitment/internal/common"
	"github.com/gearpost/fitment/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func camryFitment(year int, positions ...model.Position) *model.PartFitment {
	return &model.PartFitment{
		Year:      year,
		Make:      "Toyota",
		Model:     "Camry",
		Positions: model.NewPositionGroup(positions...),
	}
}

func camryVehicles(years ...int) []model.VCDBVehicle {
	var vehicles []model.VCDBVehicle
	for i, y := range years {
		vehicles = append(vehicles, model.VCDBVehicle{
			VehicleID: int64(i + 1),
			Year:      y,
			Make:      "Toyota",
			Model:     "Camry",
		})
	}
	return vehicles
}

func TestValidateFitment_Valid(t *testing.T) {
	v := New(0, nil)
	result, err := v.ValidateFitment(camryFitment(2016, model.PositionFront, model.PositionLeft), camryVehicles(2015, 2016))
	require.NoError(t, err)
	assert.Equal(t, model.StatusValid, result.Status)
	assert.Equal(t, 2016, result.Fitment.Year)
}

func TestValidateFitment_MissingYear(t *testing.T) {
	v := New(0, nil)
	result, err := v.ValidateFitment(camryFitment(2015, model.PositionFront), camryVehicles(2016, 2017, 2018))
	require.NoError(t, err)
	assert.Equal(t, model.StatusError, result.Status)
	assert.Contains(t, result.Message, "2015 Toyota Camry")
	assert.Contains(t, result.Suggestions, "Toyota Camry")
}

func TestValidateFitment_SuggestionsByDistance(t *testing.T) {
	vehicles := []model.VCDBVehicle{
		{VehicleID: 1, Year: 2016, Make: "Toyota", Model: "Corolla"},
		{VehicleID: 2, Year: 2016, Make: "Toyota", Model: "Camry"},
		{VehicleID: 3, Year: 2016, Make: "Ford", Model: "Fusion"},
	}
	fitment := &model.PartFitment{
		Year:      2016,
		Make:      "Toyota",
		Model:     "Camryy",
		Positions: model.NewPositionGroup(model.PositionFront),
	}

	v := New(0, nil)
	result, err := v.ValidateFitment(fitment, vehicles)
	require.NoError(t, err)
	require.Equal(t, model.StatusError, result.Status)
	require.NotEmpty(t, result.Suggestions)
	assert.Equal(t, "Toyota Camry", result.Suggestions[0])
}

func TestValidateFitment_CaseInsensitiveExistence(t *testing.T) {
	fitment := &model.PartFitment{
		Year:      2016,
		Make:      "TOYOTA",
		Model:     "camry",
		Positions: model.NewPositionGroup(model.PositionRear),
	}
	v := New(0, nil)
	result, err := v.ValidateFitment(fitment, camryVehicles(2016))
	require.NoError(t, err)
	assert.Equal(t, model.StatusValid, result.Status)
}

func TestValidateFitment_EngineNarrowsMatch(t *testing.T) {
	vehicles := []model.VCDBVehicle{
		{VehicleID: 1, Year: 2016, Make: "Toyota", Model: "Camry", Engine: "2.5L"},
	}
	fitment := camryFitment(2016, model.PositionFront)
	fitment.Engine = "3.5L"

	v := New(0, nil)
	result, err := v.ValidateFitment(fitment, vehicles)
	require.NoError(t, err)
	assert.Equal(t, model.StatusError, result.Status)
}

func TestValidateFitment_PositionLegality(t *testing.T) {
	legal := []model.Position{model.PositionFront, model.PositionRear}
	v := New(42, legal)

	result, err := v.ValidateFitment(camryFitment(2016, model.PositionFront), camryVehicles(2016))
	require.NoError(t, err)
	assert.Equal(t, model.StatusValid, result.Status)

	// A canonical position the terminology does not list downgrades to
	// Warning, not Error.
	result, err = v.ValidateFitment(camryFitment(2016, model.PositionUpper), camryVehicles(2016))
	require.NoError(t, err)
	assert.Equal(t, model.StatusWarning, result.Status)
	assert.Contains(t, result.Message, "terminology 42")

	// Varies always passes the position check.
	result, err = v.ValidateFitment(camryFitment(2016, model.PositionVaries), camryVehicles(2016))
	require.NoError(t, err)
	assert.Equal(t, model.StatusValid, result.Status)
}

func TestValidateFitment_NonCanonicalPosition(t *testing.T) {
	fitment := &model.PartFitment{
		Year:      2016,
		Make:      "Toyota",
		Model:     "Camry",
		Positions: model.PositionGroup{model.Position("Sideways")},
	}
	v := New(42, []model.Position{model.PositionFront})
	result, err := v.ValidateFitment(fitment, camryVehicles(2016))
	require.NoError(t, err)
	assert.Equal(t, model.StatusError, result.Status)
}

func TestValidateFitment_Misuse(t *testing.T) {
	v := New(0, nil)

	_, err := v.ValidateFitment(nil, nil)
	assert.ErrorIs(t, err, common.ErrValidatorMisuse)

	_, err = v.ValidateFitment(&model.PartFitment{Year: 2016, Make: "Toyota", Model: "Camry"}, nil)
	assert.ErrorIs(t, err, common.ErrValidatorMisuse)
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("camry", "camry"))
	assert.Equal(t, 1, levenshtein("camry", "camri"))
	assert.Equal(t, 5, levenshtein("", "camry"))
}
