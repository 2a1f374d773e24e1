package sql

import "testing"

func TestNormalizeTableName(t *testing.T) {
	d := DefaultDictionary()

	tests := []struct {
		in   string
		want string
	}{
		{"production_summary", "production_summary"},
		{"Production_Summary", "production_summary"},
		{"production", "production_summary"},
		{"trips", "trip_records"},
		{"hauling", "trip_records"},
		{"trip_record", "trip_records"}, // plural fold
		{"machines", "equipment_master"},
		{"machine", "equipment_master"},
		{"fleet", "equipment_master"},
		{"widgets", "widgets"}, // unknown falls back to the cleaned form
	}
	for _, tt := range tests {
		if got := d.NormalizeTableName(tt.in); got != tt.want {
			t.Errorf("NormalizeTableName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTableReferences(t *testing.T) {
	d := DefaultDictionary()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "alias to canonical",
			in:   "SELECT * FROM production WHERE shift = 'A'",
			want: "SELECT * FROM production_summary WHERE shift = 'A'",
		},
		{
			name: "existing alias preserved and made explicit",
			in:   "SELECT t.trips FROM trips t WHERE t.trips > 5",
			want: "SELECT t.trips FROM trip_records AS t WHERE t.trips > 5",
		},
		{
			name: "join clauses normalized too",
			in:   "SELECT * FROM trips JOIN machines ON trips.truck_code = machines.equipment_code",
			want: "SELECT * FROM trip_records JOIN equipment_master ON trips.truck_code = machines.equipment_code",
		},
		{
			name: "canonical statement untouched",
			in:   "SELECT shift FROM production_summary GROUP BY shift",
			want: "SELECT shift FROM production_summary GROUP BY shift",
		},
		{
			name: "split table name is not an alias",
			in:   "SELECT qty_ton FROM PRODUCTION SUMMARY WHERE shift = 'A'",
			want: "SELECT qty_ton FROM production_summary WHERE shift = 'A'",
		},
		{
			name: "genuine bare alias after split-name check",
			in:   "SELECT p.qty_ton FROM production p",
			want: "SELECT p.qty_ton FROM production_summary AS p",
		},
		{
			name: "explicit AS alias never joined into the table name",
			in:   "SELECT s.qty_ton FROM production AS summary",
			want: "SELECT s.qty_ton FROM production_summary AS summary",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.NormalizeTableReferences(tt.in)
			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
			// Idempotence: a second pass changes nothing.
			if again := d.NormalizeTableReferences(got); again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestResolveFromTable(t *testing.T) {
	d := DefaultDictionary()

	tests := []struct {
		in   string
		want string
	}{
		{"SELECT qty_ton FROM production", "production_summary"},
		{"SELECT * FROM trip_records WHERE shift = 'B'", "trip_records"},
		{"DELETE FROM machines", "equipment_master"},
		{"SELECT 1", ""},
	}
	for _, tt := range tests {
		if got := d.ResolveFromTable(tt.in); got != tt.want {
			t.Errorf("ResolveFromTable(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
