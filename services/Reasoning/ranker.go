package reasoning

import (
	"fmt"
	"math"
	"sort"
)

// Rank converts a class probability distribution into an ordered list of
// crop candidates.
//
// probabilities and labels must be aligned 1:1. The result has exactly n
// entries sorted by confidence descending; n is silently clamped to
// [1, len(labels)]. Equal probabilities keep the original label order,
// lowest index first. Confidence values are passed through unmodified.
func Rank(probabilities []float64, labels []string, n int) ([]Prediction, error) {
	if len(probabilities) != len(labels) {
		return nil, fmt.Errorf("probabilities and labels must have same length, got %d and %d",
			len(probabilities), len(labels))
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("empty label set")
	}

	if n < 1 {
		n = 1
	}
	if n > len(labels) {
		n = len(labels)
	}

	indices := make([]int, len(labels))
	for i := range indices {
		indices[i] = i
	}

	// Stable sort on an index slice that starts in label order, so ties
	// resolve to the lowest original index.
	sort.SliceStable(indices, func(a, b int) bool {
		return probabilities[indices[a]] > probabilities[indices[b]]
	})

	predictions := make([]Prediction, n)
	for i := 0; i < n; i++ {
		idx := indices[i]
		predictions[i] = Prediction{
			Crop:              labels[idx],
			Confidence:        probabilities[idx],
			ConfidencePercent: FormatConfidence(probabilities[idx]),
		}
	}

	return predictions, nil
}

// FormatConfidence formats a probability as a percentage string with one
// decimal place, e.g. "85.3%". Rounding is half-up.
func FormatConfidence(probability float64) string {
	percent := math.Floor(probability*1000+0.5) / 10
	return fmt.Sprintf("%.1f%%", percent)
}
