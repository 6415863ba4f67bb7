package refdata

import (
	"context"
	"testing"

	"github.com/gearpost/fitment/internal/common"
	"github.com/gearpost/fitment/internal/model"
	"github.com/gearpost/fitment/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededGateway(t *testing.T) *Gateway {
	t.Helper()

	g, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })

	vehicles := []model.VCDBVehicle{
		{VehicleID: 1, Year: 2015, Make: "Toyota", Model: "Camry", Engine: "2.5L"},
		{VehicleID: 2, Year: 2016, Make: "Toyota", Model: "Camry", Engine: "2.5L"},
		{VehicleID: 3, Year: 2016, Make: "Honda", Model: "Civic"},
	}
	terms := []model.PartTerminology{
		{ID: 42, Name: "Brake Pad Set", Positions: []model.Position{model.PositionFront, model.PositionRear}},
	}
	require.NoError(t, g.Seed(context.Background(), vehicles, terms))
	return g
}

func TestListVehicles(t *testing.T) {
	g := seededGateway(t)
	ctx := context.Background()

	all, err := g.ListVehicles(ctx, service.VehicleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	camrys, err := g.ListVehicles(ctx, service.VehicleFilter{Make: "toyota", Model: "CAMRY"})
	require.NoError(t, err)
	assert.Len(t, camrys, 2)
	assert.Equal(t, "2.5L", camrys[0].Engine)

	one, err := g.ListVehicles(ctx, service.VehicleFilter{Year: 2016, Make: "Honda"})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "Civic", one[0].Model)

	// Empty result sets are valid answers.
	none, err := g.ListVehicles(ctx, service.VehicleFilter{Make: "Ford"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetPartTerminology(t *testing.T) {
	g := seededGateway(t)
	ctx := context.Background()

	term, err := g.GetPartTerminology(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Brake Pad Set", term.Name)
	assert.Equal(t, []model.Position{model.PositionFront, model.PositionRear}, term.Positions)

	_, err = g.GetPartTerminology(ctx, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetLegalPositions_UnknownTerminologyIsEmpty(t *testing.T) {
	g := seededGateway(t)

	positions, err := g.GetLegalPositions(context.Background(), 999)
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestOpen_MissingPath(t *testing.T) {
	_, err := Open("")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}
