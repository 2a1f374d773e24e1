package sql

import "testing"

func TestQualifyAmbiguousColumns(t *testing.T) {
	d := DefaultDictionary()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "shared column gets the first table's alias",
			in:   "SELECT equipment_code, capacity_ton FROM production_summary AS p JOIN equipment_master AS e ON p.equipment_code = e.equipment_code",
			want: "SELECT p.equipment_code, capacity_ton FROM production_summary AS p JOIN equipment_master AS e ON p.equipment_code = e.equipment_code",
		},
		{
			name: "unaliased tables qualify with the table name",
			in:   "SELECT shift FROM production_summary JOIN trip_records ON 1=1",
			want: "SELECT production_summary.shift FROM production_summary JOIN trip_records ON 1=1",
		},
		{
			name: "single table untouched",
			in:   "SELECT equipment_code FROM production_summary",
			want: "SELECT equipment_code FROM production_summary",
		},
		{
			name: "already qualified untouched",
			in:   "SELECT p.shift FROM production_summary AS p JOIN trip_records AS t ON p.shift = t.shift",
			want: "SELECT p.shift FROM production_summary AS p JOIN trip_records AS t ON p.shift = t.shift",
		},
		{
			name: "column owned by one table untouched",
			in:   "SELECT capacity_ton FROM production_summary AS p JOIN equipment_master AS e ON p.equipment_code = e.equipment_code",
			want: "SELECT capacity_ton FROM production_summary AS p JOIN equipment_master AS e ON p.equipment_code = e.equipment_code",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.QualifyAmbiguousColumns(tt.in); got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}
