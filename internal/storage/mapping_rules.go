package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/gearpost/fitment/internal/common"
	"github.com/gearpost/fitment/internal/model"
)

// CreateMappingRule creates a new mapping rule.
func (s *SQLiteStorage) CreateMappingRule(ctx context.Context, rule *model.ModelMappingRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMappingRule(rule); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO mapping_rules (pattern, mapping, priority, is_active)
		VALUES (?, ?, ?, ?)`,
		rule.Pattern, rule.Mapping.String(), rule.Priority, rule.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create mapping rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get mapping rule ID: %w", err)
	}

	rule.ID = int(id)
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()
	return nil
}

// GetMappingRule retrieves a mapping rule by ID.
func (s *SQLiteStorage) GetMappingRule(ctx context.Context, id int) (*model.ModelMappingRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, pattern, mapping, priority, is_active, created_at, updated_at
		FROM mapping_rules WHERE id = ?`, id)

	rule, err := scanMappingRule(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mapping rule %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping rule: %w", err)
	}
	return rule, nil
}

// ListMappingRules retrieves mapping rules ordered by priority, optionally
// restricted to active rules.
func (s *SQLiteStorage) ListMappingRules(ctx context.Context, activeOnly bool) ([]model.ModelMappingRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, pattern, mapping, priority, is_active, created_at, updated_at
		FROM mapping_rules
	`
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY priority DESC, id ASC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list mapping rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.ModelMappingRule
	for rows.Next() {
		rule, err := scanMappingRule(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mapping rule: %w", err)
		}
		rules = append(rules, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mapping rules: %w", err)
	}

	return rules, nil
}

// UpdateMappingRule updates an existing mapping rule.
func (s *SQLiteStorage) UpdateMappingRule(ctx context.Context, rule *model.ModelMappingRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMappingRule(rule); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE mapping_rules
		SET pattern = ?, mapping = ?, priority = ?, is_active = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		rule.Pattern, rule.Mapping.String(), rule.Priority, rule.IsActive, rule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update mapping rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mapping rule %d: %w", rule.ID, common.ErrNotFound)
	}

	rule.UpdatedAt = time.Now()
	return nil
}

// DeleteMappingRule deletes a mapping rule by ID.
func (s *SQLiteStorage) DeleteMappingRule(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM mapping_rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete mapping rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mapping rule %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// ImportRulesJSON bulk-imports rules from a JSON document shaped as
// mapping string -> array of patterns. Existing (pattern, mapping) pairs
// are upserted rather than duplicated. Returns the number of rules
// written.
func (s *SQLiteStorage) ImportRulesJSON(ctx context.Context, r io.Reader, priority int) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var doc map[string][]string
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("%w: decoding import document: %v", common.ErrMappingCorrupt, err)
	}

	// Validate every mapping before touching the table so a bad document
	// imports nothing.
	keys := make([]string, 0, len(doc))
	for key := range doc {
		if _, err := model.ParseModelMapping(key); err != nil {
			return 0, fmt.Errorf("%w: %v", common.ErrMappingCorrupt, err)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	count := 0
	for _, key := range keys {
		mapping, _ := model.ParseModelMapping(key)
		for _, pattern := range doc[key] {
			if pattern == "" {
				return 0, fmt.Errorf("%w: empty pattern for mapping %q", common.ErrMappingCorrupt, key)
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO mapping_rules (pattern, mapping, priority, is_active)
				VALUES (?, ?, ?, 1)
				ON CONFLICT(pattern, mapping) DO UPDATE SET
					priority = excluded.priority,
					is_active = 1,
					updated_at = CURRENT_TIMESTAMP`,
				pattern, mapping.String(), priority,
			)
			if err != nil {
				return 0, fmt.Errorf("failed to import rule %q: %w", pattern, err)
			}
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return count, nil
}

// scanMappingRule decodes one rule row, parsing the stored mapping string
// into its structured form once at load.
func scanMappingRule(scan func(...any) error) (*model.ModelMappingRule, error) {
	var rule model.ModelMappingRule
	var mapping string
	if err := scan(&rule.ID, &rule.Pattern, &mapping, &rule.Priority, &rule.IsActive,
		&rule.CreatedAt, &rule.UpdatedAt); err != nil {
		return nil, err
	}

	decoded, err := model.ParseModelMapping(mapping)
	if err != nil {
		return nil, fmt.Errorf("%w: rule %d: %v", common.ErrMappingCorrupt, rule.ID, err)
	}
	rule.Mapping = decoded
	return &rule, nil
}
