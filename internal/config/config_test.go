package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizedDefaults(t *testing.T) {
	cfg := (&Config{}).Normalized()

	assert.Equal(t, "warehouse", cfg.DefaultSource)
	assert.Equal(t, "warehouse_to_branch", cfg.DefaultTransferType)
	assert.Equal(t, []string{"to", "into"}, cfg.Prepositions["to"])
	assert.Equal(t, []string{"from"}, cfg.FromWords)
	assert.Contains(t, cfg.NonZeroSumTypes, "eaten")
	assert.Equal(t, []string{"trans_type", "location"}, cfg.RequiredFields)
	assert.Equal(t, "{uuid}.xlsx", cfg.Export.FilenameFormat)
	assert.Equal(t, "Ledger", cfg.Export.SheetName)
	assert.Len(t, cfg.UI.FieldOrder, 7)
}

func TestNormalizedKeepsExplicitValues(t *testing.T) {
	cfg := (&Config{
		DefaultSource:   "depot",
		NonZeroSumTypes: []string{},
	}).Normalized()

	assert.Equal(t, "depot", cfg.DefaultSource)
	assert.Empty(t, cfg.NonZeroSumTypes, "explicitly empty list stays empty")
}

func TestNormalizedIdempotent(t *testing.T) {
	once := (&Config{}).Normalized()
	twice := once.Normalized()
	assert.Equal(t, once, twice)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := StarterConfig()
	cfg.AddAlias("sketti", "spaghetti")
	cfg.AddConversion("cucumbers", "box", 10)
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Items, loaded.Items)
	assert.Equal(t, "spaghetti", loaded.Aliases["sketti"])

	table := loaded.UnitConversions["cucumbers"]
	factor, ok := table.Factor("box")
	require.True(t, ok)
	assert.Equal(t, float64(10), factor)

	cherry := loaded.UnitConversions["cherry tomatoes"]
	assert.Equal(t, "unit", cherry.BaseUnit, "base_unit key survives the round trip")
	factor, ok = cherry.Factor("small box")
	require.True(t, ok)
	assert.Equal(t, float64(990), factor)
	_, ok = cherry.Factor("base_unit")
	assert.False(t, ok, "base_unit is not a container")
}

func TestLoadMinimalYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - cucumbers\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cucumbers"}, cfg.Items)
	assert.Equal(t, "warehouse", cfg.DefaultSource, "defaults applied at load")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLocationsWithSource(t *testing.T) {
	cfg := &Config{Locations: []string{"L", "C"}, DefaultSource: "warehouse"}
	assert.Equal(t, []string{"warehouse", "L", "C"}, cfg.LocationsWithSource())

	listed := &Config{Locations: []string{"warehouse", "L"}, DefaultSource: "warehouse"}
	assert.Equal(t, []string{"warehouse", "L"}, listed.LocationsWithSource())
}

func TestClosedSetOptions(t *testing.T) {
	cfg := StarterConfig()

	assert.Equal(t, cfg.Items, cfg.ClosedSetOptions("item"))
	assert.Equal(t, cfg.TransactionTypes, cfg.ClosedSetOptions("trans_type"))
	assert.Contains(t, cfg.ClosedSetOptions("location"), "warehouse")
	assert.Nil(t, cfg.ClosedSetOptions("notes"))
}

func TestIsNonZeroSum(t *testing.T) {
	cfg := (&Config{}).Normalized()
	assert.True(t, cfg.IsNonZeroSum("eaten"))
	assert.True(t, cfg.IsNonZeroSum("recount"))
	assert.False(t, cfg.IsNonZeroSum("warehouse_to_branch"))
}

func TestAddConversionOnEmptyConfig(t *testing.T) {
	cfg := &Config{}
	cfg.AddConversion("cucumbers", "box", 10)
	factor, ok := cfg.UnitConversions["cucumbers"].Factor("box")
	require.True(t, ok)
	assert.Equal(t, float64(10), factor)
}
