package reasoning

import (
	"testing"
)

func TestRankOrdering(t *testing.T) {
	probabilities := []float64{0.1, 0.5, 0.15, 0.25}
	labels := []string{"rice", "maize", "cotton", "jute"}

	predictions, err := Rank(probabilities, labels, 3)
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}

	expected := []string{"maize", "jute", "cotton"}
	if len(predictions) != len(expected) {
		t.Fatalf("expected %d predictions, got %d", len(expected), len(predictions))
	}
	for i, crop := range expected {
		if predictions[i].Crop != crop {
			t.Errorf("position %d: expected %s, got %s", i, crop, predictions[i].Crop)
		}
	}

	for i := 1; i < len(predictions); i++ {
		if predictions[i].Confidence > predictions[i-1].Confidence {
			t.Error("predictions must be ordered by confidence descending")
		}
	}
}

func TestRankTieBreak(t *testing.T) {
	// Equal probabilities keep original label order, lowest index first
	probabilities := []float64{0.25, 0.25, 0.25, 0.25}
	labels := []string{"rice", "maize", "cotton", "jute"}

	predictions, err := Rank(probabilities, labels, 4)
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}

	for i, label := range labels {
		if predictions[i].Crop != label {
			t.Errorf("position %d: expected %s, got %s", i, label, predictions[i].Crop)
		}
	}
}

func TestRankClampsN(t *testing.T) {
	probabilities := []float64{0.6, 0.4}
	labels := []string{"rice", "maize"}

	tests := []struct {
		name     string
		n        int
		expected int
	}{
		{"zero", 0, 1},
		{"negative", -5, 1},
		{"too large", 10, 2},
		{"exact", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			predictions, err := Rank(probabilities, labels, tt.n)
			if err != nil {
				t.Fatalf("rank failed: %v", err)
			}
			if len(predictions) != tt.expected {
				t.Errorf("expected %d predictions, got %d", tt.expected, len(predictions))
			}
		})
	}
}

func TestRankErrors(t *testing.T) {
	if _, err := Rank([]float64{0.5}, []string{"a", "b"}, 1); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := Rank(nil, nil, 1); err == nil {
		t.Error("expected error for empty label set")
	}
}

func TestFormatConfidence(t *testing.T) {
	tests := []struct {
		probability float64
		expected    string
	}{
		{0.853, "85.3%"},
		{0.85349, "85.3%"},
		{0.0625, "6.3%"}, // exact half rounds up
		{1.0, "100.0%"},
		{0.0, "0.0%"},
		{0.001, "0.1%"},
		{0.0004, "0.0%"},
	}

	for _, tt := range tests {
		if got := FormatConfidence(tt.probability); got != tt.expected {
			t.Errorf("FormatConfidence(%g) = %s, expected %s", tt.probability, got, tt.expected)
		}
	}
}
