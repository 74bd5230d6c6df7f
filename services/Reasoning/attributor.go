package reasoning

import (
	"fmt"
	"math"
	"sort"
)

// AttributionSource computes a per-instance attribution for one sample and
// crop: signed per-feature contributions plus a baseline value. The sample
// is given in canonical feature order.
type AttributionSource interface {
	Attribution(x []float64, crop string) (map[string]float64, float64, error)
}

// Attributor explains why a crop was recommended for a feature vector.
// It combines the model-global importance ranking with an optional
// per-instance attribution source; the narrative path works identically
// whether or not the source is available.
type Attributor struct {
	source AttributionSource
}

// NewAttributor creates an attributor. source may be nil, in which case
// explanations carry no per-instance attribution.
func NewAttributor(source AttributionSource) *Attributor {
	return &Attributor{source: source}
}

// Explain builds the full explanation for one (features, crop) pair.
// The output is deterministic: identical inputs always produce identical
// explanation text.
func (a *Attributor) Explain(features FeatureVector, crop string, importance ImportanceScore) Explanation {
	explanation := Explanation{
		Crop:              crop,
		Explanation:       BuildNarrative(features, crop, importance),
		FeatureImportance: importance,
		ImportanceChart:   ImportanceChart(importance),
		Features:          features,
	}

	// Attribution failures are captured, never propagated: the explanation
	// simply omits the per-instance values.
	if a.source != nil {
		values, base, err := a.source.Attribution(features.Values(), crop)
		if err == nil {
			explanation.Attribution = &Attribution{
				Values:    values,
				BaseValue: base,
			}
		}
	}

	return explanation
}

// ImportanceChart orders the global importance weights descending and
// renders the percentage column. Equal weights order by feature name so
// the chart is stable across calls.
func ImportanceChart(importance ImportanceScore) []ChartEntry {
	entries := rankedFeatures(importance)

	chart := make([]ChartEntry, len(entries))
	for i, name := range entries {
		weight := importance[name]
		percent := math.Floor(weight*1000+0.5) / 10
		chart[i] = ChartEntry{
			Feature:           name,
			Importance:        weight,
			ImportancePercent: fmt.Sprintf("%.1f%%", percent),
		}
	}

	return chart
}

// rankedFeatures returns feature names sorted by importance descending,
// name ascending on ties
func rankedFeatures(importance ImportanceScore) []string {
	names := make([]string, 0, len(importance))
	for name := range importance {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		if importance[names[i]] != importance[names[j]] {
			return importance[names[i]] > importance[names[j]]
		}
		return names[i] < names[j]
	})

	return names
}
