package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-parser/internal/config"
	"inventory-parser/internal/parser"
)

func transferPair() []parser.Row {
	date := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	return []parser.Row{
		{Date: date, Item: "spaghetti", Qty: -34, TransType: "warehouse_to_branch", Location: "warehouse", Batch: 1},
		{Date: date, Item: "spaghetti", Qty: 34, TransType: "warehouse_to_branch", Location: "L", Batch: 1},
		{Date: date, Item: "cucumbers", Qty: 4, TransType: "eaten", Location: "L", Batch: 1},
	}
}

func TestFindPartner(t *testing.T) {
	rows := transferPair()

	pi, ok := FindPartner(rows, 0)
	require.True(t, ok)
	assert.Equal(t, 1, pi)

	pi, ok = FindPartner(rows, 1)
	require.True(t, ok)
	assert.Equal(t, 0, pi)

	_, ok = FindPartner(rows, 2)
	assert.False(t, ok, "single consumption row has no partner")

	_, ok = FindPartner(rows, 7)
	assert.False(t, ok, "out of range index")

	_, ok = FindPartner([]parser.Row{{Item: "x", Qty: 0, Batch: 1}, {Item: "x", Qty: 0, Batch: 1}}, 0)
	assert.False(t, ok, "zero quantity never pairs")
}

func TestFindPartnerRequiresSameBatch(t *testing.T) {
	rows := transferPair()
	rows[1].Batch = 2

	_, ok := FindPartner(rows, 0)
	assert.False(t, ok)
}

func TestUpdatePartner(t *testing.T) {
	t.Run("quantity edit is negated", func(t *testing.T) {
		rows := transferPair()
		require.True(t, UpdatePartner(rows, 1, "qty", float64(40)))
		assert.Equal(t, float64(-40), rows[0].Qty)
	})

	t.Run("item edit is copied", func(t *testing.T) {
		rows := transferPair()
		require.True(t, UpdatePartner(rows, 0, "item", "penne"))
		assert.Equal(t, "penne", rows[1].Item)
	})

	t.Run("date edit is copied", func(t *testing.T) {
		rows := transferPair()
		edited := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
		require.True(t, UpdatePartner(rows, 0, "date", edited))
		assert.True(t, edited.Equal(rows[1].Date))
	})

	t.Run("location edit is not mirrored", func(t *testing.T) {
		rows := transferPair()
		assert.False(t, UpdatePartner(rows, 0, "location", "C"))
		assert.Equal(t, "L", rows[1].Location)
	})
}

func TestEvalQty(t *testing.T) {
	tests := []struct {
		text     string
		expected float64
		ok       bool
	}{
		{"42", 42, true},
		{" 7 ", 7, true},
		{"2x17", 34, true},
		{"11 * 920", 10120, true},
		{"3×4", 12, true},
		{"2.5", 2.5, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := EvalQty(tc.text)
		assert.Equal(t, tc.ok, ok, "input %q", tc.text)
		assert.Equal(t, tc.expected, got, "input %q", tc.text)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		text     string
		expected time.Time
		ok       bool
	}{
		{"15.3.25", time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), true},
		{"15.3.2025", time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), true},
		{"3/15/25", time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), true},
		{"150325", time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), true},
		{"2025-03-15", time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), true},
		{"32.1.25", time.Time{}, false},
		{"nonsense", time.Time{}, false},
	}
	for _, tc := range tests {
		got, ok := ParseDate(tc.text)
		assert.Equal(t, tc.ok, ok, "input %q", tc.text)
		if tc.ok {
			assert.True(t, tc.expected.Equal(got), "input %q", tc.text)
		}
	}
}

func TestAliasOpportunities(t *testing.T) {
	cfg := (&config.Config{
		Items:   []string{"spaghetti", "cucumbers"},
		Aliases: map[string]string{"spag": "spaghetti"},
	}).Normalized()

	rows := []parser.Row{
		{Item: "spaghetti"},
		{Item: "cucumbers"},
		{Item: "spaghetti"},
		{Item: parser.ItemUnknown},
	}
	tokens := map[int]string{
		0: "sketti",    // new → prompt
		1: "cucumbers", // identical to canonical → skip
		2: "spag",      // already an alias → skip
		3: "mystery",   // unresolved row → skip
	}

	prompts := AliasOpportunities(rows, tokens, cfg)
	require.Len(t, prompts, 1)
	assert.Equal(t, AliasPrompt{Alias: "sketti", Canonical: "spaghetti"}, prompts[0])
}

func TestConversionOpportunities(t *testing.T) {
	cfg := (&config.Config{
		Items: []string{"cucumbers", "cherry tomatoes"},
		UnitConversions: map[string]config.ConversionTable{
			"cherry tomatoes": {Factors: map[string]float64{"small box": 990}},
		},
	}).Normalized()

	rows := []parser.Row{
		{Item: "cucumbers", PendingContainer: "box", Qty: 2, RawQty: 2},
		{Item: "cucumbers", PendingContainer: "box", Qty: -2, RawQty: 2},
		{Item: "cherry tomatoes", PendingContainer: "small box"},
		{Item: parser.ItemUnknown, PendingContainer: "box"},
		{Item: "cucumbers"},
	}

	prompts := ConversionOpportunities(rows, cfg)
	require.Len(t, prompts, 1, "pairs deduplicate and configured factors are skipped")
	assert.Equal(t, ConversionPrompt{Item: "cucumbers", Container: "box"}, prompts[0])
}

func TestApplyConversion(t *testing.T) {
	row := parser.Row{Item: "cucumbers", Qty: -2, RawQty: 2, PendingContainer: "box"}
	got := ApplyConversion(row, 10)

	assert.Equal(t, float64(-20), got.Qty)
	assert.Empty(t, got.PendingContainer)
	assert.Zero(t, got.RawQty)

	unchanged := ApplyConversion(parser.Row{Qty: 5}, 10)
	assert.Equal(t, float64(5), unchanged.Qty)
}

func TestEmptyRow(t *testing.T) {
	today := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	row := EmptyRow(today)

	assert.True(t, today.Equal(row.Date))
	assert.Equal(t, parser.ItemUnknown, row.Item)
	assert.Equal(t, 1, row.Batch)
	assert.Zero(t, row.Qty)
}
