package sqlbuild

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oreline/oreline-engine/pkg/extract"
	"github.com/oreline/oreline-engine/pkg/intent"
)

// BuiltQuery is a successful deterministic synthesis.
type BuiltQuery struct {
	SQL       string
	QueryType QueryType
}

// target describes the table a template runs against.
type target struct {
	table        string
	metric       string
	dateColumn   string
	equipmentCol string
}

var (
	productionTarget = target{"production_summary", "qty_ton", "date", "equipment_code"}
	tripTarget       = target{"trip_records", "qty_ton", "trip_date", "truck_code"}
)

// templates holds one SQL skeleton per supported query type. Named
// placeholders are filled from the extracted parameters; a placeholder
// with nothing to say (an empty {{where}} or {{limit}}) renders as
// nothing rather than a malformed clause.
var templates = map[QueryType]string{
	TypeTimeSeries: "SELECT {{date_col}}, SUM({{metric}}) AS total_{{metric}} " +
		"FROM {{table}}{{where}} GROUP BY {{date_col}} ORDER BY {{date_col}}{{limit}}",

	TypeShiftGrouping: "SELECT shift, SUM({{metric}}) AS total_{{metric}}, " +
		"AVG({{metric}}) AS avg_{{metric}} FROM {{table}}{{where}} " +
		"GROUP BY shift ORDER BY shift{{limit}}",

	TypeEquipmentCombo: "SELECT truck_code, excavator_code, " +
		"SUM(qty_ton) AS total_qty_ton, SUM(trips) AS total_trips " +
		"FROM trip_records{{where}} GROUP BY truck_code, excavator_code " +
		"ORDER BY total_qty_ton {{direction}}{{limit}}",

	TypeDistribution: "SELECT {{dimension}}, SUM({{metric}}) AS total_{{metric}} " +
		"FROM {{table}}{{where}} GROUP BY {{dimension}} " +
		"ORDER BY total_{{metric}} {{direction}}{{limit}}",

	TypeSummary: "SELECT SUM({{metric}}) AS total_{{metric}}, " +
		"AVG({{metric}}) AS avg_{{metric}}, COUNT(*) AS count_all " +
		"FROM {{table}}{{where}}",
}

// Build attempts deterministic SQL synthesis for the question. A nil
// return means no template applies and is the only way the pipeline
// defers to the language-model collaborator; it is never an
// empty-but-valid query.
func Build(intentName string, params map[string]any, rawQuestion string) *BuiltQuery {
	qt := DetectType(rawQuestion)
	if qt == TypeGeneric || qt == TypeComparison {
		// Period-over-period comparisons need query shapes beyond the
		// template inventory; the LLM path owns them.
		return nil
	}
	skeleton, ok := templates[qt]
	if !ok {
		return nil
	}

	tgt := targetFor(intentName, qt)
	repl := map[string]string{
		"table":     tgt.table,
		"metric":    tgt.metric,
		"date_col":  tgt.dateColumn,
		"dimension": dimensionFor(rawQuestion),
		"direction": directionFor(params),
		"where":     whereClause(tgt, params),
		"limit":     limitClause(params),
	}

	sqlText := skeleton
	for key, value := range repl {
		sqlText = strings.ReplaceAll(sqlText, "{{"+key+"}}", value)
	}
	sqlText = strings.Join(strings.Fields(sqlText), " ")

	return &BuiltQuery{SQL: sqlText, QueryType: qt}
}

func targetFor(intentName string, qt QueryType) target {
	if qt == TypeEquipmentCombo {
		return tripTarget
	}
	switch intentName {
	case intent.IntentTripAnalysis:
		t := tripTarget
		t.metric = "trips"
		return t
	case intent.IntentEquipmentUtilization:
		t := productionTarget
		t.metric = "hours_operated"
		return t
	default:
		return productionTarget
	}
}

func dimensionFor(question string) string {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "material"):
		return "material"
	case strings.Contains(lower, "bench"):
		return "bench"
	default:
		return "equipment_code"
	}
}

func directionFor(params map[string]any) string {
	if order, ok := params["order"].(string); ok && order == "asc" {
		return "ASC"
	}
	return "DESC"
}

// whereClause assembles the filter from whichever parameters were
// extracted; missing parameters mean unconstrained, never an error.
func whereClause(tgt target, params map[string]any) string {
	var parts []string

	if start, ok := params["start_date"].(string); ok {
		end, _ := params["end_date"].(string)
		if single, _ := params["single_day"].(bool); single || end == start {
			parts = append(parts, fmt.Sprintf("%s = '%s'", tgt.dateColumn, escape(start)))
		} else if end != "" {
			parts = append(parts, fmt.Sprintf("%s BETWEEN '%s' AND '%s'", tgt.dateColumn, escape(start), escape(end)))
		}
	}

	switch shift := params["shift"].(type) {
	case string:
		parts = append(parts, fmt.Sprintf("shift = '%s'", escape(shift)))
	case []string:
		parts = append(parts, inList("shift", shift))
	}

	switch eq := params["equipment"].(type) {
	case string:
		parts = append(parts, fmt.Sprintf("%s = '%s'", tgt.equipmentCol, escape(eq)))
	case []string:
		parts = append(parts, inList(tgt.equipmentCol, eq))
	}

	if cmp, ok := params["comparison"].(extract.Comparison); ok {
		if clause := comparisonClause(tgt.metric, cmp); clause != "" {
			parts = append(parts, clause)
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

func comparisonClause(metric string, cmp extract.Comparison) string {
	switch cmp.Operator {
	case "gt":
		return fmt.Sprintf("%s > %g", metric, cmp.Value)
	case "gte":
		return fmt.Sprintf("%s >= %g", metric, cmp.Value)
	case "lt":
		return fmt.Sprintf("%s < %g", metric, cmp.Value)
	case "lte":
		return fmt.Sprintf("%s <= %g", metric, cmp.Value)
	case "eq":
		return fmt.Sprintf("%s = %g", metric, cmp.Value)
	case "between":
		return fmt.Sprintf("%s BETWEEN %g AND %g", metric, cmp.Min, cmp.Max)
	default:
		return ""
	}
}

func limitClause(params map[string]any) string {
	// Context-cache round-trips can degrade ints to float64.
	switch n := params["limit"].(type) {
	case int:
		if n > 0 {
			return fmt.Sprintf(" LIMIT %d", n)
		}
	case float64:
		if n > 0 {
			return fmt.Sprintf(" LIMIT %d", int(n))
		}
	}
	return ""
}

func inList(column string, values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	quoted := make([]string, len(sorted))
	for i, v := range sorted {
		quoted[i] = "'" + escape(v) + "'"
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(quoted, ", "))
}

// escape doubles single quotes for embedding in a SQL literal. Values
// reaching here are already shape-constrained by the extractor, and the
// injection screen runs before execution regardless.
func escape(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}
