package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionFinding reports one extracted parameter whose value matched a
// SQL-injection fingerprint.
type InjectionFinding struct {
	ParamName   string
	ParamValue  any
	Fingerprint string
}

// ScreenParameter runs libinjection over a single parameter value before
// it is bound into a statement. Only string values are checked; numbers
// and booleans cannot carry injection payloads. Returns nil when clean.
func ScreenParameter(name string, value any) *InjectionFinding {
	strValue, ok := value.(string)
	if !ok {
		return nil
	}
	isSQLi, fingerprint := libinjection.IsSQLi(strValue)
	if !isSQLi {
		return nil
	}
	return &InjectionFinding{
		ParamName:   name,
		ParamValue:  value,
		Fingerprint: string(fingerprint),
	}
}

// ScreenParameters screens every extracted parameter, descending into
// string slices, and returns a finding per dirty value. Empty result
// means all parameters are clean.
func ScreenParameters(params map[string]any) []*InjectionFinding {
	var findings []*InjectionFinding
	for name, value := range params {
		switch v := value.(type) {
		case []string:
			for _, s := range v {
				if f := ScreenParameter(name, s); f != nil {
					findings = append(findings, f)
				}
			}
		default:
			if f := ScreenParameter(name, value); f != nil {
				findings = append(findings, f)
			}
		}
	}
	return findings
}
