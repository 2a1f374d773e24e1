package sql

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultDictionary(t *testing.T) {
	d := DefaultDictionary()

	for _, table := range []string{"production_summary", "trip_records", "equipment_master"} {
		if !d.HasTable(table) {
			t.Errorf("HasTable(%s) = false", table)
		}
	}
	if d.HasTable("warehouse") {
		t.Error("HasTable(warehouse) = true, want false")
	}
	if !d.HasColumn("trip_records", "distance_km") {
		t.Error("HasColumn(trip_records, distance_km) = false")
	}
	if d.HasColumn("production_summary", "distance_km") {
		t.Error("distance_km should not exist on production_summary")
	}
}

func TestDictionary_Correction(t *testing.T) {
	d := DefaultDictionary()

	tests := []struct {
		table  string
		ident  string
		want   string
		wantOK bool
	}{
		{"production_summary", "total_tonnage", "qty_ton", true},
		{"trip_records", "trip_count", "trips", true},
		{"trip_records", "date", "trip_date", true},
		// "trips" maps to nothing on equipment_master, so the correction
		// must be withheld rather than applied blindly.
		{"equipment_master", "trip_count", "", false},
		{"production_summary", "no_such_thing", "", false},
	}
	for _, tt := range tests {
		got, ok := d.Correction(tt.table, tt.ident)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Correction(%s, %s) = (%q, %v), want (%q, %v)",
				tt.table, tt.ident, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNewDictionary_DescriptorIsAuthoritative(t *testing.T) {
	d := NewDictionary(map[string][]string{
		"blast_log": {"blast_date", "bench", "holes"},
	})

	if !d.HasTable("blast_log") {
		t.Error("descriptor table missing")
	}
	if d.HasTable("production_summary") {
		t.Error("static table survived an authoritative descriptor")
	}
	// Aliases and mistakes stay available regardless of descriptor.
	if got := d.NormalizeTableName("blast_log"); got != "blast_log" {
		t.Errorf("NormalizeTableName = %s", got)
	}
}

func TestNewDictionary_EmptyDescriptorKeepsDefaults(t *testing.T) {
	d := NewDictionary(nil)
	if !d.HasTable("production_summary") {
		t.Error("empty descriptor should keep the built-in schema")
	}
}

func TestDictionary_LoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	content := `
tables:
  stockpile_log: [measured_at, stockpile, qty_ton]
aliases:
  stockpiles: stockpile_log
mistakes:
  stock_tons: qty_ton
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	d := DefaultDictionary()
	if err := d.LoadOverrides(path); err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}

	if !d.HasTable("stockpile_log") {
		t.Error("override table missing")
	}
	if got := d.NormalizeTableName("stockpiles"); got != "stockpile_log" {
		t.Errorf("override alias = %s, want stockpile_log", got)
	}
	if got, ok := d.Correction("stockpile_log", "stock_tons"); !ok || got != "qty_ton" {
		t.Errorf("override mistake = (%q, %v)", got, ok)
	}
	// Built-ins survive the merge.
	if !d.HasTable("production_summary") {
		t.Error("built-in table lost after merge")
	}
}

func TestDictionary_LoadOverridesMissingFile(t *testing.T) {
	d := DefaultDictionary()
	if err := d.LoadOverrides(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Errorf("missing overrides file should not error, got %v", err)
	}
}
