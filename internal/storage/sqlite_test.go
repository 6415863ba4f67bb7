package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/gearpost/fitment/internal/common"
	"github.com/gearpost/fitment/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func camryRule() *model.ModelMappingRule {
	return &model.ModelMappingRule{
		Pattern:  "Camry",
		Mapping:  model.ModelMapping{Make: "Toyota", VehicleCode: "TC18", Model: "Camry"},
		Priority: 1,
		IsActive: true,
	}
}

func TestMappingRuleCRUD(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	rule := camryRule()
	require.NoError(t, s.CreateMappingRule(ctx, rule))
	assert.NotZero(t, rule.ID)

	got, err := s.GetMappingRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "Camry", got.Pattern)
	assert.Equal(t, "TC18", got.Mapping.VehicleCode)
	assert.True(t, got.IsActive)

	got.Priority = 5
	got.IsActive = false
	require.NoError(t, s.UpdateMappingRule(ctx, got))

	active, err := s.ListMappingRules(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := s.ListMappingRules(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 5, all[0].Priority)

	require.NoError(t, s.DeleteMappingRule(ctx, rule.ID))
	_, err = s.GetMappingRule(ctx, rule.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListMappingRules_PriorityOrder(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	low := camryRule()
	require.NoError(t, s.CreateMappingRule(ctx, low))

	high := &model.ModelMappingRule{
		Pattern:  "Camry Hybrid",
		Mapping:  model.ModelMapping{Make: "Toyota", VehicleCode: "TC18H", Model: "Camry Hybrid"},
		Priority: 9,
		IsActive: true,
	}
	require.NoError(t, s.CreateMappingRule(ctx, high))

	rules, err := s.ListMappingRules(ctx, true)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "Camry Hybrid", rules[0].Pattern)
}

func TestImportRulesJSON(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	doc := `{
		"Toyota|TC18|Camry": ["Camry", "CAMRY LE"],
		"Honda|HC10|Civic": ["Civic"]
	}`
	count, err := s.ImportRulesJSON(ctx, strings.NewReader(doc), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	rules, err := s.ListMappingRules(ctx, true)
	require.NoError(t, err)
	assert.Len(t, rules, 3)

	// Re-importing the same document upserts instead of duplicating.
	count, err = s.ImportRulesJSON(ctx, strings.NewReader(doc), 4)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	rules, err = s.ListMappingRules(ctx, true)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	for _, r := range rules {
		assert.Equal(t, 4, r.Priority)
	}
}

func TestImportRulesJSON_MalformedMappingImportsNothing(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	doc := `{
		"Toyota|TC18|Camry": ["Camry"],
		"not-a-mapping": ["Civic"]
	}`
	_, err := s.ImportRulesJSON(ctx, strings.NewReader(doc), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMappingCorrupt)

	rules, err := s.ListMappingRules(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestFitmentRoundTrip(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	fitments := []model.PartFitment{
		{
			Year:        2016,
			Make:        "Toyota",
			Model:       "Camry",
			VehicleCode: "TC18",
			Positions:   model.NewPositionGroup(model.PositionFront, model.PositionLeft),
		},
		{
			Year:      2017,
			Make:      "Toyota",
			Model:     "Camry",
			Positions: model.NewPositionGroup(model.PositionRear),
		},
	}

	require.NoError(t, s.SaveFitments(ctx, "prod-123", fitments))

	got, err := s.GetFitmentsByProduct(ctx, "prod-123")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2016, got[0].Year)
	assert.Equal(t, "Toyota", got[0].Make)
	assert.Equal(t, "Camry", got[0].Model)
	assert.Equal(t, "TC18", got[0].VehicleCode)
	assert.Equal(t, "Front Left", got[0].Positions.String())
	assert.NotEmpty(t, got[0].ID)

	other, err := s.GetFitmentsByProduct(ctx, "prod-999")
	require.NoError(t, err)
	assert.Empty(t, other)
}
