package reasoning

// FeatureNames is the canonical ordering of the soil/climate input features.
// Feature matrices, importance charts and narrative selection all use this order.
var FeatureNames = []string{"N", "P", "K", "pH", "temperature", "humidity", "rainfall"}

// FeatureVector is one validated set of soil and climate measurements.
// Valid ranges are enforced at the API boundary; instances reaching the
// reasoning components are immutable and in range:
// N [0,140], P [5,145], K [5,205], pH [3.5,9.5], temperature [8,45] °C,
// humidity [14,100] %, rainfall [20,300] mm (monthly average).
type FeatureVector struct {
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	PH          float64 `json:"pH"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
}

// Values returns the feature values in canonical order
func (fv FeatureVector) Values() []float64 {
	return []float64{fv.N, fv.P, fv.K, fv.PH, fv.Temperature, fv.Humidity, fv.Rainfall}
}

// Value returns a single feature by canonical name
func (fv FeatureVector) Value(name string) float64 {
	switch name {
	case "N":
		return fv.N
	case "P":
		return fv.P
	case "K":
		return fv.K
	case "pH":
		return fv.PH
	case "temperature":
		return fv.Temperature
	case "humidity":
		return fv.Humidity
	case "rainfall":
		return fv.Rainfall
	default:
		return 0
	}
}

// AsMap returns the features keyed by canonical name
func (fv FeatureVector) AsMap() map[string]float64 {
	m := make(map[string]float64, len(FeatureNames))
	for _, name := range FeatureNames {
		m[name] = fv.Value(name)
	}
	return m
}

// Prediction is one ranked crop candidate
type Prediction struct {
	Crop              string  `json:"crop"`
	Confidence        float64 `json:"confidence"`
	ConfidencePercent string  `json:"confidence_percent"`
}

// ImportanceScore maps feature name to its model-global importance weight.
// Weights are non-negative; only the relative ordering is meaningful.
type ImportanceScore map[string]float64

// ChartEntry is one row of the global importance chart, ordered by weight
type ChartEntry struct {
	Feature           string  `json:"feature"`
	Importance        float64 `json:"importance"`
	ImportancePercent string  `json:"importance_percent"`
}

// Attribution is the per-instance decomposition of one crop's predicted
// probability: a signed contribution per feature plus the model baseline.
type Attribution struct {
	Values    map[string]float64 `json:"values"`
	BaseValue float64            `json:"base_value"`
}

// Explanation is the full output of the feature attributor for one
// (features, crop) pair. Attribution is nil when no per-instance
// attribution source is available; the narrative never depends on it.
type Explanation struct {
	Crop              string             `json:"crop"`
	Explanation       string             `json:"explanation"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	ImportanceChart   []ChartEntry       `json:"importance_chart"`
	Attribution       *Attribution       `json:"shap_values,omitempty"`
	Features          FeatureVector      `json:"features"`
}
