package refdata

import (
	"context"
	"fmt"

	"github.com/gearpost/fitment/internal/common"
	"github.com/gearpost/fitment/internal/model"
)

// Seed creates the reference schema and bulk-inserts vehicles and
// terminologies. It backs the admin load path and test fixtures; the
// production datasets arrive pre-built.
func (g *Gateway) Seed(ctx context.Context, vehicles []model.VCDBVehicle, terms []model.PartTerminology) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS vcdb_vehicles (
			vehicle_id INTEGER PRIMARY KEY,
			year INTEGER NOT NULL,
			make TEXT NOT NULL,
			model TEXT NOT NULL,
			submodel TEXT,
			engine TEXT,
			transmission TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vcdb_year_make_model ON vcdb_vehicles(year, make, model)`,
		`CREATE TABLE IF NOT EXISTS part_terminology (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pcdb_positions (
			terminology_id INTEGER NOT NULL,
			position TEXT NOT NULL,
			PRIMARY KEY (terminology_id, position)
		)`,
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning seed transaction: %v", common.ErrRefDataUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: creating reference schema: %v", common.ErrRefDataUnavailable, err)
		}
	}

	for _, v := range vehicles {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO vcdb_vehicles
				(vehicle_id, year, make, model, submodel, engine, transmission)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			v.VehicleID, v.Year, v.Make, v.Model, v.Submodel, v.Engine, v.Transmission,
		)
		if err != nil {
			return fmt.Errorf("%w: inserting vehicle %d: %v", common.ErrRefDataUnavailable, v.VehicleID, err)
		}
	}

	for _, term := range terms {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO part_terminology (id, name) VALUES (?, ?)",
			term.ID, term.Name,
		); err != nil {
			return fmt.Errorf("%w: inserting terminology %d: %v", common.ErrRefDataUnavailable, term.ID, err)
		}
		for _, p := range term.Positions {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR REPLACE INTO pcdb_positions (terminology_id, position) VALUES (?, ?)",
				term.ID, string(p),
			); err != nil {
				return fmt.Errorf("%w: inserting position %s: %v", common.ErrRefDataUnavailable, p, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing seed: %v", common.ErrRefDataUnavailable, err)
	}
	return nil
}
