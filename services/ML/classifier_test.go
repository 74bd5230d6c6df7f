package ml

import (
	"math"
	"testing"
)

func trainingData() ([][]float64, []string, []string) {
	X := [][]float64{
		{10, 10, 10, 5.0, 15, 30, 50},
		{12, 11, 10, 5.2, 16, 32, 55},
		{11, 12, 12, 5.1, 14, 31, 52},
		{13, 10, 11, 5.3, 15, 33, 51},
		{120, 120, 150, 8.5, 40, 90, 250},
		{118, 122, 148, 8.4, 39, 91, 248},
		{121, 119, 152, 8.6, 41, 89, 251},
		{119, 121, 149, 8.5, 40, 90, 249},
	}
	y := []string{"rice", "rice", "rice", "rice", "maize", "maize", "maize", "maize"}
	names := []string{"N", "P", "K", "pH", "temperature", "humidity", "rainfall"}
	return X, y, names
}

func TestCropTreeTrainAndPredict(t *testing.T) {
	X, y, names := trainingData()

	tree := NewCropTree(5, 2, 1)
	if err := tree.Train(X, y, names); err != nil {
		t.Fatalf("training failed: %v", err)
	}

	tests := []struct {
		name     string
		sample   []float64
		expected string
	}{
		{"low sample", []float64{11, 11, 11, 5.1, 15, 31, 52}, "rice"},
		{"high sample", []float64{119, 120, 150, 8.5, 40, 90, 250}, "maize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			predicted, confidence, err := tree.Predict(tt.sample)
			if err != nil {
				t.Fatalf("prediction failed: %v", err)
			}
			if predicted != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, predicted)
			}
			if confidence != 1.0 {
				t.Errorf("expected confidence 1.0 on separable data, got %g", confidence)
			}
		})
	}
}

func TestCropTreePredictProba(t *testing.T) {
	X, y, names := trainingData()

	tree := NewCropTree(5, 2, 1)
	if err := tree.Train(X, y, names); err != nil {
		t.Fatalf("training failed: %v", err)
	}

	proba, err := tree.PredictProba([]float64{11, 11, 11, 5.1, 15, 31, 52})
	if err != nil {
		t.Fatalf("predict proba failed: %v", err)
	}

	if len(proba) != 2 {
		t.Fatalf("expected entries for both classes, got %d", len(proba))
	}

	sum := 0.0
	for _, p := range proba {
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("probabilities must sum to 1, got %g", sum)
	}

	if proba["rice"] != 1.0 {
		t.Errorf("expected rice probability 1.0, got %g", proba["rice"])
	}
	if proba["maize"] != 0.0 {
		t.Errorf("expected maize probability 0.0, got %g", proba["maize"])
	}
}

func TestCropTreeDecisionPath(t *testing.T) {
	X, y, names := trainingData()

	tree := NewCropTree(5, 2, 1)
	if err := tree.Train(X, y, names); err != nil {
		t.Fatalf("training failed: %v", err)
	}

	path, err := tree.DecisionPath([]float64{11, 11, 11, 5.1, 15, 31, 52})
	if err != nil {
		t.Fatalf("decision path failed: %v", err)
	}

	if len(path) < 2 {
		t.Fatalf("expected a path with at least root and leaf, got %d nodes", len(path))
	}
	if path[0] != tree.Root {
		t.Error("path must start at the root")
	}
	if !path[len(path)-1].IsLeaf {
		t.Error("path must end at a leaf")
	}

	// Every node keeps the class counts of the samples that reached it
	for i, node := range path {
		if node.SamplesCount == 0 {
			t.Errorf("node %d has no samples", i)
		}
		if len(node.ClassCounts) == 0 {
			t.Errorf("node %d has no class counts", i)
		}
	}
}

func TestCropTreeErrors(t *testing.T) {
	tree := NewCropTree(5, 2, 1)

	if _, _, err := tree.Predict([]float64{1, 2, 3}); err == nil {
		t.Error("expected error predicting with untrained tree")
	}

	if err := tree.Train(nil, nil, nil); err == nil {
		t.Error("expected error training with empty data")
	}

	X, y, names := trainingData()
	if err := tree.Train(X, y[:2], names); err == nil {
		t.Error("expected error for mismatched X and y lengths")
	}
	if err := tree.Train(X, y, names[:3]); err == nil {
		t.Error("expected error for mismatched feature names")
	}
}

func TestCropTreeFeatureImportance(t *testing.T) {
	X, y, names := trainingData()

	tree := NewCropTree(5, 2, 1)
	if err := tree.Train(X, y, names); err != nil {
		t.Fatalf("training failed: %v", err)
	}

	importance := tree.FeatureImportance()
	if len(importance) != len(names) {
		t.Fatalf("expected importance for all %d features, got %d", len(names), len(importance))
	}

	total := 0.0
	for name, val := range importance {
		if val < 0 {
			t.Errorf("importance for %s is negative: %g", name, val)
		}
		total += val
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("importance weights must sum to 1, got %g", total)
	}
}

func TestGetMajorityClassDeterministic(t *testing.T) {
	// Tied counts resolve to the class that sorts first
	counts := map[string]int{"maize": 3, "rice": 3, "cotton": 3}

	for i := 0; i < 10; i++ {
		class, count := getMajorityClass(counts)
		if class != "cotton" || count != 3 {
			t.Fatalf("expected cotton/3, got %s/%d", class, count)
		}
	}
}

func TestGetThresholds(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected []float64
	}{
		{"distinct values", []float64{1, 3, 5}, []float64{2, 4}},
		{"single value", []float64{2, 2, 2}, nil},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getThresholds(tt.values)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d thresholds, got %d", len(tt.expected), len(got))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("threshold %d: expected %g, got %g", i, tt.expected[i], got[i])
				}
			}
		})
	}
}
