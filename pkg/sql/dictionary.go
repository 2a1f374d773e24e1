// Package sql is the SQL safety layer: table/column normalization against
// the operations schema, validation with bounded auto-fix, aggregate alias
// completion, single-statement guarding, and injection screening of
// parameter values.
package sql

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dictionary is the schema ground truth the safety layer validates
// against: table → column sets, natural-language table aliases, and the
// column-name common-mistake map. Read-only after construction.
type Dictionary struct {
	tables   map[string][]string
	columns  map[string]map[string]bool
	aliases  map[string]string
	mistakes map[string]string
}

// dictionaryOverrides is the YAML shape of an optional overrides file,
// merged over the built-in tables at startup so operations can extend
// vocabulary without a rebuild.
type dictionaryOverrides struct {
	Tables   map[string][]string `yaml:"tables"`
	Aliases  map[string]string   `yaml:"aliases"`
	Mistakes map[string]string   `yaml:"mistakes"`
}

// DefaultDictionary returns the built-in dictionary for the fixed
// mining-operations schema.
func DefaultDictionary() *Dictionary {
	d := &Dictionary{
		tables: map[string][]string{
			"production_summary": {
				"date", "shift", "equipment_code", "material", "bench",
				"qty_ton", "loads", "hours_operated",
			},
			"trip_records": {
				"trip_date", "shift", "truck_code", "excavator_code", "bench",
				"trips", "distance_km", "duration_hours", "qty_ton",
			},
			"equipment_master": {
				"equipment_code", "equipment_type", "model", "capacity_ton",
				"status", "commissioned_date",
			},
		},
		aliases: map[string]string{
			"production":       "production_summary",
			"production_data":  "production_summary",
			"daily_production": "production_summary",
			"summary":          "production_summary",
			"trip":             "trip_records",
			"trips":            "trip_records",
			"trip_data":        "trip_records",
			"hauling":          "trip_records",
			"haul_records":     "trip_records",
			"equipment":        "equipment_master",
			"equipment_list":   "equipment_master",
			"fleet":            "equipment_master",
			"machines":         "equipment_master",
			"machine":          "equipment_master",
		},
		mistakes: map[string]string{
			"total_tonnage":   "qty_ton",
			"tonnage":         "qty_ton",
			"tons":            "qty_ton",
			"production_tons": "qty_ton",
			"quantity":        "qty_ton",
			"trip_count":      "trips",
			"number_of_trips": "trips",
			"truck_id":        "truck_code",
			"excavator_id":    "excavator_code",
			"equipment_id":    "equipment_code",
			"equipment_name":  "equipment_code",
			"operating_hours": "hours_operated",
			"distance":        "distance_km",
			"kilometres":      "distance_km",
			"date":            "trip_date",
			"production_date": "date",
			"capacity":        "capacity_ton",
		},
	}
	d.rebuildColumnSets()
	return d
}

// NewDictionary builds a dictionary from an externally supplied schema
// descriptor (table → column list), keeping the built-in aliases and
// mistakes. The descriptor is authoritative; the static tables are only
// a fallback when no descriptor is available.
func NewDictionary(schema map[string][]string) *Dictionary {
	d := DefaultDictionary()
	if len(schema) == 0 {
		return d
	}
	d.tables = map[string][]string{}
	for table, cols := range schema {
		d.tables[normalizeIdent(table)] = append([]string(nil), cols...)
	}
	d.rebuildColumnSets()
	return d
}

// LoadOverrides merges an optional YAML overrides file into the
// dictionary. A missing path is not an error.
func (d *Dictionary) LoadOverrides(path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read dictionary overrides: %w", err)
	}
	var ov dictionaryOverrides
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return fmt.Errorf("parse dictionary overrides: %w", err)
	}
	for table, cols := range ov.Tables {
		d.tables[normalizeIdent(table)] = append([]string(nil), cols...)
	}
	for alias, canonical := range ov.Aliases {
		d.aliases[normalizeIdent(alias)] = normalizeIdent(canonical)
	}
	for wrong, right := range ov.Mistakes {
		d.mistakes[strings.ToLower(wrong)] = strings.ToLower(right)
	}
	d.rebuildColumnSets()
	return nil
}

func (d *Dictionary) rebuildColumnSets() {
	d.columns = map[string]map[string]bool{}
	for table, cols := range d.tables {
		set := map[string]bool{}
		for _, c := range cols {
			set[strings.ToLower(c)] = true
		}
		d.columns[table] = set
	}
}

// HasTable reports whether name is a canonical table.
func (d *Dictionary) HasTable(name string) bool {
	_, ok := d.tables[strings.ToLower(name)]
	return ok
}

// Tables returns the sorted canonical table names.
func (d *Dictionary) Tables() []string {
	out := make([]string, 0, len(d.tables))
	for name := range d.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HasColumn reports whether table has the named column.
func (d *Dictionary) HasColumn(table, column string) bool {
	set, ok := d.columns[strings.ToLower(table)]
	return ok && set[strings.ToLower(column)]
}

// Columns returns the sorted column list for a table, nil when the
// table is unknown. Used to build user-facing candidate lists.
func (d *Dictionary) Columns(table string) []string {
	cols, ok := d.tables[strings.ToLower(table)]
	if !ok {
		return nil
	}
	out := append([]string(nil), cols...)
	sort.Strings(out)
	return out
}

// Correction returns the canonical column for a known-mistake
// identifier, provided the canonical column actually exists on the
// resolved table. Second return is false when no safe correction exists.
func (d *Dictionary) Correction(table, ident string) (string, bool) {
	canonical, ok := d.mistakes[strings.ToLower(ident)]
	if !ok {
		return "", false
	}
	if !d.HasColumn(table, canonical) {
		return "", false
	}
	return canonical, true
}

// normalizeIdent lowercases and collapses whitespace runs to single
// underscores.
func normalizeIdent(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), "_")
}
