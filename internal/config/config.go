// =============================================================================
// Inventory Message Parser - Configuration Module
// =============================================================================
//
// This module loads and manages the parser vocabulary configuration: item
// names, aliases, locations, transaction types, action verbs, unit
// conversions, and the various word lists that drive extraction.
//
// Every field is optional. An absent field means "no data for this feature",
// never an error: a minimal or empty config must parse without crashing.
// Defaults are resolved once at load time (Normalized), not at use sites.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the full parser vocabulary. It is read-only for the duration
// of a parse call; concurrent parses may safely share one instance.
type Config struct {
	// Items is the list of canonical inventory item names.
	// Multi-word names are allowed ("cherry tomatoes").
	Items []string `yaml:"items"`

	// Aliases maps alternate spellings to canonical names. Targets may be
	// items, locations, containers, or transaction types; each extractor
	// picks out the aliases relevant to it.
	Aliases map[string]string `yaml:"aliases"`

	// Locations is the list of branch/vehicle codes stock moves between.
	Locations []string `yaml:"locations"`

	// DefaultSource is the location stock is assumed to come from when a
	// message names only a destination. Default: "warehouse".
	DefaultSource string `yaml:"default_source"`

	// TransactionTypes is the list of canonical movement categories
	// (e.g. "warehouse_to_branch", "eaten", "recount").
	TransactionTypes []string `yaml:"transaction_types"`

	// ActionVerbs maps a transaction type to the verbs that trigger it
	// ("passed", "gave" → warehouse_to_branch).
	ActionVerbs map[string][]string `yaml:"action_verbs"`

	// UnitConversions maps item → container → count of base units.
	// A special base_unit key names the counting unit and is not a container.
	UnitConversions map[string]ConversionTable `yaml:"unit_conversions"`

	// Prepositions maps a direction ("to", "by", "from") to the words that
	// signal it before a location. Short non-ASCII prepositions (single
	// Hebrew letters) may be concatenated directly to the location.
	Prepositions map[string][]string `yaml:"prepositions"`

	// FromWords are the words that introduce a supplier name.
	FromWords []string `yaml:"from_words"`

	// FillerWords are stripped before item matching. Entries starting with
	// a backslash are treated as regular expressions; plain words are
	// wrapped in word boundaries.
	FillerWords []string `yaml:"filler_words"`

	// NonZeroSumTypes are transaction types that emit a single row instead
	// of a double-entry pair (consumption, stock counts, supplier intake).
	NonZeroSumTypes []string `yaml:"non_zero_sum_types"`

	// DefaultTransferType is used when a transfer row pair is generated but
	// no verb was matched. Default: "warehouse_to_branch".
	DefaultTransferType string `yaml:"default_transfer_type"`

	// RequiredFields are row fields that trigger a review warning when
	// unset. Default: trans_type and location.
	RequiredFields []string `yaml:"required_fields"`

	// UI holds review-surface settings.
	UI UISettings `yaml:"ui"`

	// Export holds exporter settings.
	Export ExportSettings `yaml:"export"`
}

// UISettings controls how rows are rendered by the review surfaces.
type UISettings struct {
	// FieldOrder is the column order for tables and TSV export.
	// Default: date, item, qty, trans_type, location, batch, notes.
	FieldOrder []string `yaml:"field_order"`

	// TableHeaders are the column titles for the XLSX ledger sheet.
	TableHeaders []string `yaml:"table_headers"`
}

// ExportSettings controls ledger workbook output.
type ExportSettings struct {
	// FilenameFormat names generated workbooks. Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	// Default: "{uuid}.xlsx"
	FilenameFormat string `yaml:"filename_format"`

	// SheetName is the worksheet rows are written to. Default: "Ledger".
	SheetName string `yaml:"sheet_name"`
}

// =============================================================================
// CONVERSION TABLE
// =============================================================================

// ConversionTable holds the container conversions for one item, plus the
// optional base_unit label. In YAML the two share one mapping:
//
//	cherry tomatoes:
//	  base_unit: unit
//	  small box: 990
//	  box: 2000
type ConversionTable struct {
	// BaseUnit is the name of the counting unit ("unit", "kg").
	BaseUnit string

	// Factors maps container name → base units per container.
	Factors map[string]float64
}

// UnmarshalYAML splits the mixed mapping into BaseUnit and Factors.
func (t *ConversionTable) UnmarshalYAML(value *yaml.Node) error {
	raw := map[string]yaml.Node{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	t.Factors = map[string]float64{}
	for key, node := range raw {
		if key == "base_unit" {
			if err := node.Decode(&t.BaseUnit); err != nil {
				return err
			}
			continue
		}
		var factor float64
		if err := node.Decode(&factor); err != nil {
			return fmt.Errorf("conversion factor for %q: %w", key, err)
		}
		t.Factors[key] = factor
	}
	return nil
}

// MarshalYAML re-joins BaseUnit and Factors into one mapping so a saved
// config round-trips.
func (t ConversionTable) MarshalYAML() (interface{}, error) {
	out := map[string]interface{}{}
	if t.BaseUnit != "" {
		out["base_unit"] = t.BaseUnit
	}
	for container, factor := range t.Factors {
		if factor == float64(int64(factor)) {
			out[container] = int64(factor)
		} else {
			out[container] = factor
		}
	}
	return out, nil
}

// Factor returns the base-unit count for a container, or false when no
// conversion is configured.
func (t ConversionTable) Factor(container string) (float64, bool) {
	f, ok := t.Factors[container]
	return f, ok
}

// =============================================================================
// DEFAULTS
// =============================================================================

var (
	defaultPrepositions = map[string][]string{
		"to":   {"to", "into"},
		"by":   {"by"},
		"from": {"from"},
	}

	defaultFillerWords = []string{
		`\bthat's\b`, `\bwhat\b`, `\bthe\b`, `\bof\b`,
		`\ba\b`, `\ban\b`, `\bsome\b`, `\bvia\b`,
	}

	defaultNonZeroSumTypes = []string{
		"eaten", "starting_point", "recount", "supplier_to_warehouse",
	}

	defaultFieldOrder = []string{
		"date", "item", "qty", "trans_type", "location", "batch", "notes",
	}

	defaultTableHeaders = []string{
		"DATE", "ITEM", "QTY", "TYPE", "LOCATION", "BATCH", "NOTES",
	}
)

// Normalized returns a copy of the config with every absent field replaced
// by its default. Explicitly empty lists are kept empty; only nil (absent)
// fields receive defaults. Idempotent.
func (c Config) Normalized() *Config {
	if c.DefaultSource == "" {
		c.DefaultSource = "warehouse"
	}
	if c.Prepositions == nil {
		c.Prepositions = defaultPrepositions
	}
	if c.FromWords == nil {
		c.FromWords = []string{"from"}
	}
	if c.FillerWords == nil {
		c.FillerWords = defaultFillerWords
	}
	if c.NonZeroSumTypes == nil {
		c.NonZeroSumTypes = defaultNonZeroSumTypes
	}
	if c.DefaultTransferType == "" {
		c.DefaultTransferType = "warehouse_to_branch"
	}
	if c.RequiredFields == nil {
		c.RequiredFields = []string{"trans_type", "location"}
	}
	if c.UI.FieldOrder == nil {
		c.UI.FieldOrder = defaultFieldOrder
	}
	if c.UI.TableHeaders == nil {
		c.UI.TableHeaders = defaultTableHeaders
	}
	if c.Export.FilenameFormat == "" {
		c.Export.FilenameFormat = "{uuid}.xlsx"
	}
	if c.Export.SheetName == "" {
		c.Export.SheetName = "Ledger"
	}
	return &c
}

// =============================================================================
// LOADING / SAVING
// =============================================================================

// Load reads a YAML config file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg.Normalized(), nil
}

// Save writes the config back to disk. Used after learning a new alias or
// unit conversion so the vocabulary persists across sessions.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VOCABULARY LEARNING
// =============================================================================

// AddAlias records a learned alias → canonical mapping.
func (c *Config) AddAlias(alias, canonical string) {
	if c.Aliases == nil {
		c.Aliases = map[string]string{}
	}
	c.Aliases[alias] = canonical
}

// AddConversion records a learned item/container conversion factor.
func (c *Config) AddConversion(item, container string, factor float64) {
	if c.UnitConversions == nil {
		c.UnitConversions = map[string]ConversionTable{}
	}
	table := c.UnitConversions[item]
	if table.Factors == nil {
		table.Factors = map[string]float64{}
	}
	table.Factors[container] = factor
	c.UnitConversions[item] = table
}

// =============================================================================
// DERIVED LOOKUPS
// =============================================================================

// LocationsWithSource returns the configured locations with the default
// source prepended when it is not already listed.
func (c *Config) LocationsWithSource() []string {
	for _, loc := range c.Locations {
		if loc == c.DefaultSource {
			return append([]string{}, c.Locations...)
		}
	}
	out := make([]string, 0, len(c.Locations)+1)
	out = append(out, c.DefaultSource)
	out = append(out, c.Locations...)
	return out
}

// ClosedSetOptions returns the valid values for a closed-set row field, for
// review surfaces that render pick lists.
func (c *Config) ClosedSetOptions(field string) []string {
	switch field {
	case "item":
		return append([]string{}, c.Items...)
	case "trans_type":
		return append([]string{}, c.TransactionTypes...)
	case "location":
		return c.LocationsWithSource()
	default:
		return nil
	}
}

// IsNonZeroSum reports whether a transaction type emits a single unpaired row.
func (c *Config) IsNonZeroSum(transType string) bool {
	for _, t := range c.NonZeroSumTypes {
		if t == transType {
			return true
		}
	}
	return false
}

// StarterConfig returns a minimal English-vocabulary config suitable as a
// starting point for a new deployment. Written by `config init`.
func StarterConfig() *Config {
	cfg := Config{
		Items:         []string{"cucumbers", "cherry tomatoes", "spaghetti", "small potatoes"},
		Aliases:       map[string]string{"cherry tom": "cherry tomatoes", "spaghetti noodles": "spaghetti"},
		Locations:     []string{"L", "C", "N"},
		DefaultSource: "warehouse",
		TransactionTypes: []string{
			"starting_point", "recount", "warehouse_to_branch",
			"supplier_to_warehouse", "eaten", "between_branch",
		},
		ActionVerbs: map[string][]string{
			"warehouse_to_branch":   {"passed", "gave", "sent", "delivered"},
			"supplier_to_warehouse": {"received", "got"},
			"eaten":                 {"eaten", "consumed", "used"},
		},
		UnitConversions: map[string]ConversionTable{
			"cherry tomatoes": {BaseUnit: "unit", Factors: map[string]float64{"small box": 990}},
		},
	}
	return cfg.Normalized()
}
