package reasoning

import (
	"strings"
	"testing"
)

func TestFeaturePhraseLadders(t *testing.T) {
	tests := []struct {
		name     string
		feature  string
		value    float64
		contains string
	}{
		{"high rainfall", "rainfall", 250, "High rainfall (250mm) provides excellent moisture"},
		{"moderate rainfall", "rainfall", 150, "Moderate rainfall (150mm) is suitable"},
		{"low rainfall", "rainfall", 50, "Low rainfall (50mm) matches"},
		{"high humidity", "humidity", 85, "High humidity (85%) creates ideal conditions"},
		{"moderate humidity", "humidity", 70, "Moderate humidity (70%) supports"},
		{"low humidity", "humidity", 40, "Low humidity (40%) suits"},
		{"warm temperature", "temperature", 35, "Warm temperature (35.0°C) is optimal"},
		{"moderate temperature", "temperature", 25, "Moderate temperature (25.0°C) favors"},
		{"cool temperature", "temperature", 15, "Cool temperature (15.0°C) is suitable"},
		{"high nitrogen", "N", 90, "High nitrogen content (90) supports vigorous"},
		{"moderate nitrogen", "N", 60, "Moderate nitrogen (60) is adequate"},
		{"low nitrogen", "N", 20, "Low nitrogen (20) matches"},
		{"high phosphorus", "P", 70, "High phosphorus (70) promotes strong"},
		{"normal phosphorus", "P", 40, "Phosphorus level (40) is suitable"},
		{"high potassium", "K", 50, "High potassium (50) enhances"},
		{"normal potassium", "K", 30, "Potassium level (30) meets"},
		{"neutral pH", "pH", 6.8, "Neutral pH (6.8) is ideal"},
		{"acidic pH", "pH", 5.2, "Acidic soil (pH 5.2) suits"},
		{"alkaline pH", "pH", 8.1, "Alkaline soil (pH 8.1) is appropriate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phrase := featurePhrase(tt.feature, tt.value, "rice")
			if !strings.Contains(phrase, tt.contains) {
				t.Errorf("expected phrase containing %q, got %q", tt.contains, phrase)
			}
			if !strings.Contains(phrase, "rice") {
				t.Errorf("phrase must mention the crop: %q", phrase)
			}
		})
	}
}

func TestFeaturePhraseUnknownFeature(t *testing.T) {
	if phrase := featurePhrase("magnesium", 42, "rice"); phrase != "" {
		t.Errorf("expected empty phrase for unknown feature, got %q", phrase)
	}
}

func TestBuildNarrativeTopThree(t *testing.T) {
	features := FeatureVector{N: 90, P: 42, K: 43, PH: 6.5, Temperature: 20.8, Humidity: 82, Rainfall: 202}
	importance := ImportanceScore{
		"rainfall": 0.4, "humidity": 0.3, "N": 0.2,
		"temperature": 0.05, "P": 0.03, "K": 0.01, "pH": 0.01,
	}

	narrative := BuildNarrative(features, "rice", importance)

	// Sentences appear in importance order
	rainfallIdx := strings.Index(narrative, "High rainfall (202mm)")
	humidityIdx := strings.Index(narrative, "High humidity (82%)")
	nitrogenIdx := strings.Index(narrative, "High nitrogen content (90)")

	if rainfallIdx < 0 || humidityIdx < 0 || nitrogenIdx < 0 {
		t.Fatalf("missing expected sentences in narrative: %q", narrative)
	}
	if !(rainfallIdx < humidityIdx && humidityIdx < nitrogenIdx) {
		t.Errorf("sentences out of importance order: %q", narrative)
	}

	// Only the top three features contribute
	if strings.Contains(narrative, "temperature") || strings.Contains(narrative, "Phosphorus") {
		t.Errorf("narrative must only cover the top three features: %q", narrative)
	}
}

func TestBuildNarrativeDeterministic(t *testing.T) {
	features := FeatureVector{N: 90, P: 42, K: 43, PH: 6.5, Temperature: 20.8, Humidity: 82, Rainfall: 202}
	importance := ImportanceScore{
		"rainfall": 0.4, "humidity": 0.3, "N": 0.2,
		"temperature": 0.05, "P": 0.03, "K": 0.01, "pH": 0.01,
	}

	first := BuildNarrative(features, "rice", importance)
	for i := 0; i < 20; i++ {
		if got := BuildNarrative(features, "rice", importance); got != first {
			t.Fatalf("narrative is not deterministic: %q vs %q", first, got)
		}
	}
}

func TestBuildNarrativeFallback(t *testing.T) {
	features := FeatureVector{N: 90, P: 42, K: 43, PH: 6.5, Temperature: 20.8, Humidity: 82, Rainfall: 202}

	narrative := BuildNarrative(features, "rice", ImportanceScore{})
	expected := "rice is suitable for the given soil and climate conditions."
	if narrative != expected {
		t.Errorf("expected fallback narrative %q, got %q", expected, narrative)
	}
}

func TestImportanceChartOrdering(t *testing.T) {
	importance := ImportanceScore{
		"rainfall": 0.4, "humidity": 0.2, "N": 0.2, "pH": 0.1, "K": 0.1,
	}

	chart := ImportanceChart(importance)
	if len(chart) != len(importance) {
		t.Fatalf("expected %d entries, got %d", len(importance), len(chart))
	}

	for i := 1; i < len(chart); i++ {
		if chart[i].Importance > chart[i-1].Importance {
			t.Error("chart must be ordered by importance descending")
		}
		if chart[i].Importance == chart[i-1].Importance && chart[i].Feature < chart[i-1].Feature {
			t.Error("equal weights must order by feature name")
		}
	}

	if chart[0].Feature != "rainfall" {
		t.Errorf("expected rainfall first, got %s", chart[0].Feature)
	}
	if chart[0].ImportancePercent != "40.0%" {
		t.Errorf("expected 40.0%%, got %s", chart[0].ImportancePercent)
	}

	// humidity and N are tied, humidity sorts first
	if chart[1].Feature != "N" || chart[2].Feature != "humidity" {
		// name-ascending on ties: "N" < "humidity" in byte order
		t.Errorf("tie ordering wrong: got %s then %s", chart[1].Feature, chart[2].Feature)
	}
}
