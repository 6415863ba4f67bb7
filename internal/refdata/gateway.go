// Package refdata provides the read-only query gateway over the external
// VCDB (vehicle configuration) and PCDB (parts configuration) datasets.
// Both ship as SQLite files; this engine only ever reads them.
package refdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gearpost/fitment/internal/common"
	"github.com/gearpost/fitment/internal/model"
	"github.com/gearpost/fitment/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Gateway implements service.RefData over a SQLite reference database.
type Gateway struct {
	db   *sql.DB
	path string
}

// Open connects to the reference database at path.
func Open(path string) (*Gateway, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: reference data path is required", common.ErrMissingConfig)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", common.ErrRefDataUnavailable, path, err)
	}

	// The legacy datasets are single files; one connection is plenty.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: pinging %s: %v", common.ErrRefDataUnavailable, path, err)
	}

	return &Gateway{db: db, path: path}, nil
}

// Close releases the database connection.
func (g *Gateway) Close() error {
	return g.db.Close()
}

// ListVehicles returns vehicle configurations matching the filter. Zero
// filter fields are ignored; an empty result set is a valid answer.
func (g *Gateway) ListVehicles(ctx context.Context, filter service.VehicleFilter) ([]model.VCDBVehicle, error) {
	query := `
		SELECT vehicle_id, year, make, model, submodel, engine, transmission
		FROM vcdb_vehicles
	`
	var conditions []string
	var args []any
	if filter.Year != 0 {
		conditions = append(conditions, "year = ?")
		args = append(args, filter.Year)
	}
	if filter.Make != "" {
		conditions = append(conditions, "make = ? COLLATE NOCASE")
		args = append(args, filter.Make)
	}
	if filter.Model != "" {
		conditions = append(conditions, "model = ? COLLATE NOCASE")
		args = append(args, filter.Model)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY year, make, model"

	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing vehicles: %v", common.ErrRefDataUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var vehicles []model.VCDBVehicle
	for rows.Next() {
		var v model.VCDBVehicle
		var submodel, engine, transmission sql.NullString
		if err := rows.Scan(&v.VehicleID, &v.Year, &v.Make, &v.Model, &submodel, &engine, &transmission); err != nil {
			return nil, fmt.Errorf("%w: scanning vehicle: %v", common.ErrRefDataUnavailable, err)
		}
		v.Submodel = submodel.String
		v.Engine = engine.String
		v.Transmission = transmission.String
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating vehicles: %v", common.ErrRefDataUnavailable, err)
	}

	return vehicles, nil
}

// GetPartTerminology returns one part terminology with its legal
// positions, or common.ErrNotFound.
func (g *Gateway) GetPartTerminology(ctx context.Context, id int) (*model.PartTerminology, error) {
	var term model.PartTerminology
	err := g.db.QueryRowContext(ctx,
		"SELECT id, name FROM part_terminology WHERE id = ?", id,
	).Scan(&term.ID, &term.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("part terminology %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getting terminology %d: %v", common.ErrRefDataUnavailable, id, err)
	}

	positions, err := g.GetLegalPositions(ctx, id)
	if err != nil {
		return nil, err
	}
	term.Positions = positions
	return &term, nil
}

// GetLegalPositions returns the PCDB positions legal for a terminology.
// An unknown terminology simply has no legal positions.
func (g *Gateway) GetLegalPositions(ctx context.Context, terminologyID int) ([]model.Position, error) {
	rows, err := g.db.QueryContext(ctx,
		"SELECT position FROM pcdb_positions WHERE terminology_id = ? ORDER BY position", terminologyID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing positions for terminology %d: %v", common.ErrRefDataUnavailable, terminologyID, err)
	}
	defer func() { _ = rows.Close() }()

	var positions []model.Position
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("%w: scanning position: %v", common.ErrRefDataUnavailable, err)
		}
		positions = append(positions, model.Position(p))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating positions: %v", common.ErrRefDataUnavailable, err)
	}

	return positions, nil
}
