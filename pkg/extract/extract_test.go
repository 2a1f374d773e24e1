package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtract_Equipment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want any
	}{
		{"plain code", "how many trips did DT102 make", "DT102"},
		{"hyphenated lowercase", "utilization of ex-7 last week", "EX7"},
		{"two codes", "compare DT102 and DT105", []string{"DT102", "DT105"}},
		{"duplicate collapses", "DT102 against dt-102", "DT102"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := Extract(tt.text)
			if got := params["equipment"]; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("equipment = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtract_EquipmentIgnoresDateFragments(t *testing.T) {
	params := Extract("production for jan-2024")
	if got, ok := params["equipment"]; ok {
		t.Errorf("equipment = %v, want unset for a month fragment", got)
	}
	if params["date_kind"] == nil {
		t.Error("expected the fragment to still parse as a date")
	}
}

func TestExtract_Shifts(t *testing.T) {
	params := Extract("total output for shift a versus shift b")
	want := []string{"A", "B"}
	if got := params["shift"]; !reflect.DeepEqual(got, want) {
		t.Errorf("shift = %v, want %v", got, want)
	}
	if got := params["shift_count"]; got != 2 {
		t.Errorf("shift_count = %v, want 2", got)
	}
}

func TestExtract_Comparisons(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Comparison
	}{
		{"greater than", "days with more than 5,000 tons", Comparison{Operator: "gt", Value: 5000}},
		{"less than", "shifts below 20 trips", Comparison{Operator: "lt", Value: 20}},
		{"at least", "benches with at least 12 loads", Comparison{Operator: "gte", Value: 12}},
		{"at most", "trucks with at most 8 trips", Comparison{Operator: "lte", Value: 8}},
		{"exactly", "records with exactly 3 loads", Comparison{Operator: "eq", Value: 3}},
		{"between", "tonnage between 1,000 and 2,500", Comparison{Operator: "between", Min: 1000, Max: 2500}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := Extract(tt.text)
			got, ok := params["comparison"].(Comparison)
			if !ok {
				t.Fatalf("comparison missing from %v", params)
			}
			if got != tt.want {
				t.Errorf("comparison = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtract_Measurement(t *testing.T) {
	params := Extract("loads carrying 1,200 tonnes")
	got, ok := params["measurement"].(Measurement)
	if !ok {
		t.Fatalf("measurement missing from %v", params)
	}
	want := Measurement{Value: 1200, Unit: "tons"}
	if got != want {
		t.Errorf("measurement = %+v, want %+v", got, want)
	}
}

func TestExtract_TopN(t *testing.T) {
	params := Extract("top 5 trucks by tonnage")
	if got := params["limit"]; got != 5 {
		t.Errorf("limit = %v, want 5", got)
	}
	if got := params["order"]; got != "desc" {
		t.Errorf("order = %v, want desc", got)
	}

	params = Extract("worst 3 excavators by hours")
	if got := params["order"]; got != "asc" {
		t.Errorf("order = %v, want asc", got)
	}

	params = Extract("best performing shift")
	if got := params["order"]; got != "desc" {
		t.Errorf("bare order = %v, want desc", got)
	}
	if _, ok := params["limit"]; ok {
		t.Error("bare superlative should not set a limit")
	}
}

func TestExtract_Dates(t *testing.T) {
	params := Extract("production in January 2024")
	if got := params["start_date"]; got != "2024-01-01" {
		t.Errorf("start_date = %v, want 2024-01-01", got)
	}
	if got := params["end_date"]; got != "2024-01-31" {
		t.Errorf("end_date = %v, want 2024-01-31", got)
	}
	if got := params["date_kind"]; got != "month" {
		t.Errorf("date_kind = %v, want month", got)
	}
	if _, ok := params["single_day"]; ok {
		t.Error("single_day should be unset for a month range")
	}

	params = Extract("trips on 2024-03-05")
	if got := params["single_day"]; got != true {
		t.Errorf("single_day = %v, want true", got)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	const text = "top 3 trucks with more than 40 trips on shift a in January 2024"
	first := Extract(text)
	for i := 0; i < 10; i++ {
		got := Extract(text)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("iteration %d: %v != %v", i, got, first)
		}
	}
}

// TestEarlyExitEquivalence pins the contract on comparisonTriggers: the
// short-circuit may only skip work, never change what is extracted.
func TestEarlyExitEquivalence(t *testing.T) {
	questions := []string{
		"total tonnage by shift for January 2024",
		"top 5 trucks by trips",
		"days with more than 5,000 tons",
		"tonnage between 1,000 and 2,500",
		"how many hours did EX7 run yesterday",
		"which bench produced the least",
	}
	for _, q := range questions {
		withShortcut := Extract(q)

		full := map[string]any{}
		lower := strings.ToLower(q)
		extractEquipment(lower, full)
		extractShifts(lower, full)
		extractComparison(lower, full)
		extractMeasurement(lower, full)
		extractTopN(lower, full)
		extractDates(lower, full)

		if !reflect.DeepEqual(withShortcut, full) {
			t.Errorf("Extract(%q) = %v, full battery = %v", q, withShortcut, full)
		}
	}
}
