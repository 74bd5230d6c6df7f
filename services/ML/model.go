package ml

import (
	"fmt"
)

// CropModel wraps a trained forest as a process-wide, read-only prediction
// service. It is constructed once at startup and is safe for concurrent use:
// the global importance is computed at load time and never mutated afterwards.
type CropModel struct {
	forest     *CropForest
	classes    []string
	importance map[string]float64
}

// LoadCropModel loads a trained model from a JSON file
func LoadCropModel(path string) (*CropModel, error) {
	forest := &CropForest{}
	if err := forest.Load(path); err != nil {
		return nil, fmt.Errorf("failed to load crop model: %w", err)
	}

	if err := forest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid crop model: %w", err)
	}

	return NewCropModel(forest), nil
}

// NewCropModel wraps an already trained forest
func NewCropModel(forest *CropForest) *CropModel {
	return &CropModel{
		forest:     forest,
		classes:    append([]string(nil), forest.Classes...),
		importance: forest.FeatureImportance(),
	}
}

// Classes returns the ordered crop label set
func (m *CropModel) Classes() []string {
	return append([]string(nil), m.classes...)
}

// FeatureNames returns the feature names in model order
func (m *CropModel) FeatureNames() []string {
	return append([]string(nil), m.forest.FeatureNames...)
}

// PredictProba returns class probabilities aligned 1:1 with Classes()
func (m *CropModel) PredictProba(x []float64) ([]float64, error) {
	proba, err := m.forest.PredictProba(x)
	if err != nil {
		return nil, err
	}

	aligned := make([]float64, len(m.classes))
	for i, class := range m.classes {
		aligned[i] = proba[class]
	}
	return aligned, nil
}

// Importance returns a copy of the global feature importance weights
func (m *CropModel) Importance() map[string]float64 {
	out := make(map[string]float64, len(m.importance))
	for name, val := range m.importance {
		out[name] = val
	}
	return out
}

// Attribution returns per-feature contributions and the baseline value for
// the given sample and crop
func (m *CropModel) Attribution(x []float64, crop string) (map[string]float64, float64, error) {
	return m.forest.Attribution(x, crop)
}

// Info returns summary information about the underlying forest
func (m *CropModel) Info() map[string]any {
	return m.forest.ModelInfo()
}
