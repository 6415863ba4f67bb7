package storage

import (
	"context"
	"fmt"

	"github.com/gearpost/fitment/internal/model"
	"github.com/google/uuid"
)

// SaveFitments persists accepted fitments for a product. Fitments without
// an ID are assigned one.
func (s *SQLiteStorage) SaveFitments(ctx context.Context, productID string, fitments []model.PartFitment) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(productID, "productID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range fitments {
		f := &fitments[i]
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO fitments
				(id, product_id, year, make, model, vehicle_code, submodel, engine, transmission, positions)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, productID, f.Year, f.Make, f.Model, f.VehicleCode,
			f.Submodel, f.Engine, f.Transmission, f.Positions.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to save fitment %s: %w", f.Describe(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fitments: %w", err)
	}
	return nil
}

// GetFitmentsByProduct retrieves all persisted fitments for a product.
func (s *SQLiteStorage) GetFitmentsByProduct(ctx context.Context, productID string) ([]model.PartFitment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(productID, "productID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, year, make, model, vehicle_code, submodel, engine, transmission, positions
		FROM fitments
		WHERE product_id = ?
		ORDER BY year, make, model, positions`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fitments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var fitments []model.PartFitment
	for rows.Next() {
		var f model.PartFitment
		var positions string
		if err := rows.Scan(&f.ID, &f.Year, &f.Make, &f.Model, &f.VehicleCode,
			&f.Submodel, &f.Engine, &f.Transmission, &positions); err != nil {
			return nil, fmt.Errorf("failed to scan fitment: %w", err)
		}
		f.Positions = model.ParsePositionGroup(positions)
		fitments = append(fitments, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fitments: %w", err)
	}

	return fitments, nil
}
