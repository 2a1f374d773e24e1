package intent

import (
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/oreline/oreline-engine/pkg/models"
)

func newTestClassifier() *Classifier {
	return New(zap.NewNop())
}

func TestClassify(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"shift comparison", "tonnage by shift for January 2024", IntentShiftComparison},
		{"time series", "daily trend of tonnage last month", IntentTimeSeries},
		{"utilization", "what was the utilization of EX7 last week", IntentEquipmentUtilization},
		{"trip analysis", "number of trips per truck yesterday", IntentTripAnalysis},
		{"ranking", "best performing excavator in Q1", IntentEquipmentRanking},
		{"production summary", "how much tonnage was produced", IntentProductionSummary},
		{"aggregation", "calculate the average loads per bench", IntentAggregation},
		{"statistics", "standard deviation of daily output", IntentStatisticalAnalysis},
		{"forecast", "forecast production for next month", IntentProductionForecast},
		{"document search", "where is the maintenance manual for the drill", IntentDocumentSearch},
		{"optimization", "optimal fleet for moving 50,000 tons", IntentEquipmentOptimization},
		{"combination", "best combination of truck and excavator", IntentEquipmentCombination},
		{"unknown", "hello there", IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			if got.Intent != tt.want {
				t.Errorf("Classify(%q) = %s (matched %v), want %s",
					tt.text, got.Intent, got.MatchedKeywords, tt.want)
			}
		})
	}
}

func TestClassify_TierSuppression(t *testing.T) {
	c := newTestClassifier()

	// "statistical" (tier 1) plus generic tier-3 words: the tier-3
	// candidates must not survive even if they collect more raw points.
	got := c.Classify("statistical analysis of total production tonnage output")
	if got.Intent != IntentStatisticalAnalysis {
		t.Errorf("intent = %s, want %s", got.Intent, IntentStatisticalAnalysis)
	}
}

func TestClassify_ExclusionPairs(t *testing.T) {
	c := newTestClassifier()

	// "calculate", "average", "sum" feed aggregation, but the presence of
	// a statistical term removes aggregation outright.
	got := c.Classify("calculate the sum and average and the variance of loads")
	if got.Intent == IntentAggregation {
		t.Errorf("aggregation survived against statistical_analysis: %+v", got)
	}

	got = c.Classify("optimize the fleet and rank the top trucks")
	if got.Intent == IntentEquipmentRanking {
		t.Errorf("equipment_ranking survived against equipment_optimization: %+v", got)
	}
}

func TestClassify_PhraseOutweighsKeyword(t *testing.T) {
	c := newTestClassifier()

	// "by shift" is a phrase (weight 3); "production" alone is a tier-3
	// single keyword (weight 1).
	got := c.Classify("production by shift")
	if got.Intent != IntentShiftComparison {
		t.Errorf("intent = %s, want %s", got.Intent, IntentShiftComparison)
	}
}

func TestClassify_ConfidenceMonotonic(t *testing.T) {
	c := newTestClassifier()

	weak := c.Classify("trips")
	strong := c.Classify("number of trips and trip count and trips per truck")
	if !(strong.Confidence > weak.Confidence) {
		t.Errorf("confidence %f (strong) not above %f (weak)", strong.Confidence, weak.Confidence)
	}
	if weak.Confidence <= 0 || strong.Confidence >= 1 {
		t.Errorf("confidence out of (0,1): weak=%f strong=%f", weak.Confidence, strong.Confidence)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier()

	const text = "compare total and average production by shift for January 2025"
	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		got := c.Classify(text)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("iteration %d: %+v != %+v", i, got, first)
		}
	}
}

func TestTaskFor(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		intent string
		want   models.TaskType
	}{
		{IntentDocumentSearch, models.TaskRAG},
		{IntentEquipmentOptimization, models.TaskOptimize},
		{IntentShiftComparison, models.TaskSQL},
		{IntentUnknown, models.TaskSQL},
		{"never-heard-of-it", models.TaskSQL},
	}
	for _, tt := range tests {
		if got := c.TaskFor(tt.intent); got != tt.want {
			t.Errorf("TaskFor(%s) = %s, want %s", tt.intent, got, tt.want)
		}
	}
}
