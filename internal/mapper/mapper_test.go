package mapper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gearpost/fitment/internal/common"
	"github.com/gearpost/fitment/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(id int, pattern, mapping string, priority int) model.ModelMappingRule {
	m, err := model.ParseModelMapping(mapping)
	if err != nil {
		panic(err)
	}
	return model.ModelMappingRule{
		ID:       id,
		Pattern:  pattern,
		Mapping:  m,
		Priority: priority,
		IsActive: true,
	}
}

func TestFindModelMapping(t *testing.T) {
	m := New()
	require.NoError(t, m.Configure([]model.ModelMappingRule{
		rule(1, "Camry", "Toyota|TC18|Camry", 1),
		rule(2, "Civic", "Honda|HC10|Civic", 1),
		rule(3, "Camry Hybrid", "Toyota|TC18H|Camry Hybrid", 1),
	}))

	matches := m.FindModelMapping("Toyota Camry 2.5L")
	require.Len(t, matches, 1)
	assert.Equal(t, "Toyota", matches[0].Mapping.Make)
	assert.Equal(t, "TC18", matches[0].Mapping.VehicleCode)
	assert.Equal(t, "Camry", matches[0].Mapping.Model)

	// Unmapped text is an empty result, not an error.
	assert.Empty(t, m.FindModelMapping("DeLorean DMC-12"))
}

func TestFindModelMapping_PriorityOrder(t *testing.T) {
	m := New()
	require.NoError(t, m.Configure([]model.ModelMappingRule{
		rule(1, "Camry", "Toyota|LOW|Camry", 1),
		rule(2, "Camry", "Toyota|HIGH|Camry", 5),
	}))

	matches := m.FindModelMapping("Toyota Camry")
	require.Len(t, matches, 2)
	assert.Equal(t, "HIGH", matches[0].Mapping.VehicleCode)
	assert.Equal(t, "LOW", matches[1].Mapping.VehicleCode)
}

func TestFindModelMapping_SpecificityTieBreak(t *testing.T) {
	m := New()
	require.NoError(t, m.Configure([]model.ModelMappingRule{
		rule(1, "Camry", "Toyota|TC18|Camry", 1),
		rule(2, "Camry Hybrid", "Toyota|TC18H|Camry Hybrid", 1),
	}))

	matches := m.FindModelMapping("Toyota Camry Hybrid LE")
	require.Len(t, matches, 2)
	assert.Equal(t, "TC18H", matches[0].Mapping.VehicleCode, "longer pattern wins the tie")
}

func TestFindModelMapping_Wildcard(t *testing.T) {
	m := New()
	require.NoError(t, m.Configure([]model.ModelMappingRule{
		rule(1, "F-*50", "Ford|FT|F-Series", 1),
	}))

	assert.Len(t, m.FindModelMapping("Ford F-150 XLT"), 1)
	assert.Len(t, m.FindModelMapping("Ford F-250"), 1)
	assert.Empty(t, m.FindModelMapping("Ford Ranger"))
}

func TestFindModelMapping_InactiveRulesSkipped(t *testing.T) {
	inactive := rule(1, "Camry", "Toyota|TC18|Camry", 1)
	inactive.IsActive = false

	m := New()
	require.NoError(t, m.Configure([]model.ModelMappingRule{inactive}))
	assert.Empty(t, m.FindModelMapping("Toyota Camry"))
}

func TestConfigure_MalformedRuleKeepsOldIndex(t *testing.T) {
	m := New()
	require.NoError(t, m.Configure([]model.ModelMappingRule{
		rule(1, "Camry", "Toyota|TC18|Camry", 1),
	}))

	bad := model.ModelMappingRule{ID: 2, Pattern: "Civic", IsActive: true}
	err := m.Configure([]model.ModelMappingRule{bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMappingCorrupt)

	// Old index still serves.
	assert.Len(t, m.FindModelMapping("Toyota Camry"), 1)
}

func TestRulesFromImport(t *testing.T) {
	doc := map[string][]string{
		"Toyota|TC18|Camry": {"Camry", "CAMRY LE"},
		"Honda|HC10|Civic":  {"Civic"},
	}

	rules, err := RulesFromImport(doc, 3)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	for _, r := range rules {
		assert.True(t, r.IsActive)
		assert.Equal(t, 3, r.Priority)
	}

	_, err = RulesFromImport(map[string][]string{"bad-mapping": {"x"}}, 0)
	assert.ErrorIs(t, err, common.ErrMappingCorrupt)
}

func TestConfigureFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.json")
	doc := `{"Toyota|TC18|Camry": ["Camry"], "Honda|HC10|Civic": ["Civic", "CIVIC SI"]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	m := New()
	require.NoError(t, m.ConfigureFromFile(path))
	assert.Equal(t, 3, m.RuleCount())
	assert.Len(t, m.FindModelMapping("Honda Civic Si Coupe"), 2)

	require.NoError(t, os.WriteFile(path, []byte(`{"broken": ["x"]}`), 0600))
	err := m.ConfigureFromFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMappingCorrupt)
	assert.Equal(t, 3, m.RuleCount(), "failed reload keeps the old index")
}

func TestParseModelMapping_ColonForm(t *testing.T) {
	m, err := model.ParseModelMapping("Toyota:TC18:Camry")
	require.NoError(t, err)
	assert.Equal(t, "Toyota|TC18|Camry", m.String())
}
