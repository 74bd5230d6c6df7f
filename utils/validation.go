package utils

import (
	"fmt"
	"strings"
)

// FeatureRange defines the valid closed interval for one soil/climate input
type FeatureRange struct {
	Min float64
	Max float64
}

// FeatureRanges holds the documented valid ranges for each input feature.
// Values outside these ranges were never seen in training and are rejected
// at the API boundary.
var FeatureRanges = map[string]FeatureRange{
	"N":           {Min: 0, Max: 140},
	"P":           {Min: 5, Max: 145},
	"K":           {Min: 5, Max: 205},
	"pH":          {Min: 3.5, Max: 9.5},
	"temperature": {Min: 8, Max: 45},
	"humidity":    {Min: 14, Max: 100},
	"rainfall":    {Min: 20, Max: 300},
}

// RequiredFeatures lists the feature fields every soil/climate request must carry,
// in canonical order.
var RequiredFeatures = []string{"N", "P", "K", "pH", "temperature", "humidity", "rainfall"}

// ValidateSoilClimateInput checks that all required features are present and within
// their documented ranges. Returns nil when the input is valid.
func ValidateSoilClimateInput(values map[string]float64) error {
	var missing []string
	for _, name := range RequiredFeatures {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	for _, name := range RequiredFeatures {
		value := values[name]
		r, ok := FeatureRanges[name]
		if !ok {
			continue
		}
		if value < r.Min || value > r.Max {
			return fmt.Errorf("field '%s' must be between %g and %g, got: %g", name, r.Min, r.Max, value)
		}
	}

	return nil
}

// ValidateCropName checks a crop name against the known label set.
func ValidateCropName(crop string, validCrops []string) error {
	if crop == "" {
		return fmt.Errorf("crop name is required")
	}

	for _, c := range validCrops {
		if c == crop {
			return nil
		}
	}

	shown := validCrops
	if len(shown) > 10 {
		shown = shown[:10]
	}
	return fmt.Errorf("unknown crop: %s. Valid crops: %s...", crop, strings.Join(shown, ", "))
}
