package intent

import "github.com/oreline/oreline-engine/pkg/models"

// Intent names. Adding an intent means adding a rule below, never new
// control flow.
const (
	IntentEquipmentCombination  = "equipment_combination"
	IntentEquipmentOptimization = "equipment_optimization"
	IntentStatisticalAnalysis   = "statistical_analysis"
	IntentProductionForecast    = "production_forecast"
	IntentDocumentSearch        = "document_search"
	IntentShiftComparison       = "shift_comparison"
	IntentTimeSeries            = "time_series"
	IntentEquipmentUtilization  = "equipment_utilization"
	IntentTripAnalysis          = "trip_analysis"
	IntentEquipmentRanking      = "equipment_ranking"
	IntentProductionSummary     = "production_summary"
	IntentAggregation           = "aggregation"
	IntentUnknown               = "unknown"
)

// Rule binds an intent to its priority tier and keyword list. Tier 1 is
// most specific; a Tier-1 hit suppresses all Tier-3 candidates.
type Rule struct {
	Name    string
	Tier    int
	Task    models.TaskType
	Phrases []string
}

// defaultRules is the static intent vocabulary for the mining-operations
// schema. Multi-word phrases score with phraseMultiplier over single words.
var defaultRules = []Rule{
	// Tier 1 — most specific.
	{
		Name: IntentEquipmentCombination, Tier: 1, Task: models.TaskSQL,
		Phrases: []string{
			"equipment combination", "combination of equipment", "truck and excavator",
			"which trucks with", "excavator with", "fleet pairing", "pairing",
			"best combination", "pairs of equipment", "truck excavator pair",
		},
	},
	{
		Name: IntentEquipmentOptimization, Tier: 1, Task: models.TaskOptimize,
		Phrases: []string{
			"optimal combination", "optimize fleet", "optimise fleet", "optimal fleet",
			"most efficient fleet", "minimum equipment", "fewest trucks",
			"optimize", "optimise", "optimal",
		},
	},
	{
		Name: IntentStatisticalAnalysis, Tier: 1, Task: models.TaskSQL,
		Phrases: []string{
			"standard deviation", "variance", "correlation", "median", "percentile",
			"trend analysis", "regression", "statistical analysis", "statistical",
			"distribution of",
		},
	},
	{
		Name: IntentProductionForecast, Tier: 1, Task: models.TaskSQL,
		Phrases: []string{
			"forecast", "predict", "projection", "expected production",
			"production estimate", "estimate next",
		},
	},
	{
		Name: IntentDocumentSearch, Tier: 1, Task: models.TaskRAG,
		Phrases: []string{
			"safety guideline", "maintenance manual", "operating procedure",
			"standard operating procedure", "manual", "procedure", "document",
			"policy", "sop", "regulation",
		},
	},

	// Tier 2 — moderately specific.
	{
		Name: IntentShiftComparison, Tier: 2, Task: models.TaskSQL,
		Phrases: []string{
			"by shift", "per shift", "shift comparison", "compare shifts",
			"across shifts", "between shifts", "each shift", "shift performance",
		},
	},
	{
		Name: IntentTimeSeries, Tier: 2, Task: models.TaskSQL,
		Phrases: []string{
			"daily trend", "over time", "per day", "day by day", "daily breakdown",
			"monthly breakdown", "weekly trend", "daily production", "trend",
		},
	},
	{
		Name: IntentEquipmentUtilization, Tier: 2, Task: models.TaskSQL,
		Phrases: []string{
			"utilization", "utilisation", "availability", "idle time", "downtime",
			"breakdown hours", "operating hours", "hours operated",
		},
	},
	{
		Name: IntentTripAnalysis, Tier: 2, Task: models.TaskSQL,
		Phrases: []string{
			"trip count", "number of trips", "trips per", "cycle time",
			"haul distance", "hauling", "trips", "haulage",
		},
	},
	{
		Name: IntentEquipmentRanking, Tier: 2, Task: models.TaskSQL,
		Phrases: []string{
			"best performing", "worst performing", "highest producing",
			"lowest producing", "ranking", "rank", "top", "bottom",
		},
	},

	// Tier 3 — generic.
	{
		Name: IntentProductionSummary, Tier: 3, Task: models.TaskSQL,
		Phrases: []string{
			"total production", "production", "tonnage", "output", "produced",
			"tons moved", "how much",
		},
	},
	{
		Name: IntentAggregation, Tier: 3, Task: models.TaskSQL,
		Phrases: []string{
			"sum", "average", "total", "count", "calculate", "how many", "mean",
		},
	},
}

// exclusionPairs lists intents that must never survive together: when
// Winner matched at all, Loser is removed from the candidate set before
// tier filtering, even if Loser outscored it on shared vocabulary like
// "calculate". Hand-maintained; see DESIGN.md for the scaling caveat.
var exclusionPairs = [][2]string{
	{IntentStatisticalAnalysis, IntentAggregation},
	{IntentProductionForecast, IntentAggregation},
	{IntentEquipmentOptimization, IntentEquipmentRanking},
}
