package sql

import "testing"

func TestScreenParameter(t *testing.T) {
	if f := ScreenParameter("bench", "B1"); f != nil {
		t.Errorf("clean value flagged: %+v", f)
	}
	if f := ScreenParameter("limit", 5); f != nil {
		t.Errorf("non-string value flagged: %+v", f)
	}

	f := ScreenParameter("material", "' OR '1'='1")
	if f == nil {
		t.Fatal("classic tautology not flagged")
	}
	if f.ParamName != "material" || f.Fingerprint == "" {
		t.Errorf("finding = %+v", f)
	}
}

func TestScreenParameters(t *testing.T) {
	clean := map[string]any{
		"equipment": "DT102",
		"shift":     "A",
		"limit":     5,
		"benches":   []string{"B1", "B2"},
	}
	if findings := ScreenParameters(clean); len(findings) != 0 {
		t.Errorf("clean params flagged: %+v", findings)
	}

	dirty := map[string]any{
		"equipment": "DT102",
		"material":  "ore'; DROP TABLE production_summary; --",
	}
	findings := ScreenParameters(dirty)
	if len(findings) != 1 || findings[0].ParamName != "material" {
		t.Errorf("findings = %+v", findings)
	}
}

func TestScreenParameters_StringSlice(t *testing.T) {
	params := map[string]any{
		"codes": []string{"DT102", "1' UNION SELECT password FROM users --"},
	}
	findings := ScreenParameters(params)
	if len(findings) != 1 || findings[0].ParamName != "codes" {
		t.Errorf("findings = %+v", findings)
	}
}
