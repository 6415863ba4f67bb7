// Package service defines the interfaces for all engine collaborators.
package service

import (
	"context"
	"io"

	"github.com/gearpost/fitment/internal/model"
)

// VehicleFilter narrows ListVehicles queries. Zero values mean "any".
type VehicleFilter struct {
	Make  string
	Model string
	Year  int
}

// RefData is the read-only query contract over the external vehicle
// configuration (VCDB) and parts configuration (PCDB) datasets. Empty
// result sets are valid answers, not errors.
type RefData interface {
	ListVehicles(ctx context.Context, filter VehicleFilter) ([]model.VCDBVehicle, error)
	GetPartTerminology(ctx context.Context, id int) (*model.PartTerminology, error)
	GetLegalPositions(ctx context.Context, terminologyID int) ([]model.Position, error)
	Close() error
}

// Storage defines the persistence contract owned by the engine: the
// model-mapping rule table and accepted fitments.
type Storage interface {
	// Mapping rule operations
	CreateMappingRule(ctx context.Context, rule *model.ModelMappingRule) error
	GetMappingRule(ctx context.Context, id int) (*model.ModelMappingRule, error)
	ListMappingRules(ctx context.Context, activeOnly bool) ([]model.ModelMappingRule, error)
	UpdateMappingRule(ctx context.Context, rule *model.ModelMappingRule) error
	DeleteMappingRule(ctx context.Context, id int) error
	ImportRulesJSON(ctx context.Context, r io.Reader, priority int) (int, error)

	// Fitment operations
	SaveFitments(ctx context.Context, productID string, fitments []model.PartFitment) error
	GetFitmentsByProduct(ctx context.Context, productID string) ([]model.PartFitment, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
