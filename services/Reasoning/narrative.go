package reasoning

import (
	"fmt"
	"strings"
)

// narrativeFeatures is how many top-ranked features contribute a sentence
const narrativeFeatures = 3

// BuildNarrative renders a human-readable explanation for a recommendation.
// The three most important features (by global importance, ties broken by
// feature name) each contribute one sentence; sentences appear in importance
// order joined by single spaces. With no usable importance data it falls
// back to a generic statement.
func BuildNarrative(features FeatureVector, crop string, importance ImportanceScore) string {
	ranked := rankedFeatures(importance)

	phrases := make([]string, 0, narrativeFeatures)
	for _, name := range ranked {
		if len(phrases) == narrativeFeatures {
			break
		}
		phrase := featurePhrase(name, features.Value(name), crop)
		if phrase != "" {
			phrases = append(phrases, phrase)
		}
	}

	if len(phrases) == 0 {
		return fmt.Sprintf("%s is suitable for the given soil and climate conditions.", crop)
	}

	return strings.Join(phrases, " ")
}

// featurePhrase maps one feature value onto a qualitative sentence. Each
// feature has a fixed threshold ladder; unknown features yield no phrase.
func featurePhrase(feature string, value float64, crop string) string {
	switch feature {
	case "rainfall":
		switch {
		case value > 200:
			return fmt.Sprintf("High rainfall (%.0fmm) provides excellent moisture for %s.", value, crop)
		case value > 100:
			return fmt.Sprintf("Moderate rainfall (%.0fmm) is suitable for %s.", value, crop)
		default:
			return fmt.Sprintf("Low rainfall (%.0fmm) matches %s's water requirements.", value, crop)
		}
	case "humidity":
		switch {
		case value > 80:
			return fmt.Sprintf("High humidity (%.0f%%) creates ideal conditions for %s.", value, crop)
		case value > 60:
			return fmt.Sprintf("Moderate humidity (%.0f%%) supports %s growth.", value, crop)
		default:
			return fmt.Sprintf("Low humidity (%.0f%%) suits %s's climate needs.", value, crop)
		}
	case "temperature":
		switch {
		case value > 30:
			return fmt.Sprintf("Warm temperature (%.1f°C) is optimal for %s.", value, crop)
		case value > 20:
			return fmt.Sprintf("Moderate temperature (%.1f°C) favors %s cultivation.", value, crop)
		default:
			return fmt.Sprintf("Cool temperature (%.1f°C) is suitable for %s.", value, crop)
		}
	case "N":
		switch {
		case value > 80:
			return fmt.Sprintf("High nitrogen content (%.0f) supports vigorous %s growth.", value, crop)
		case value > 40:
			return fmt.Sprintf("Moderate nitrogen (%.0f) is adequate for %s.", value, crop)
		default:
			return fmt.Sprintf("Low nitrogen (%.0f) matches %s's nutrient needs.", value, crop)
		}
	case "P":
		if value > 60 {
			return fmt.Sprintf("High phosphorus (%.0f) promotes strong %s root development.", value, crop)
		}
		return fmt.Sprintf("Phosphorus level (%.0f) is suitable for %s.", value, crop)
	case "K":
		if value > 40 {
			return fmt.Sprintf("High potassium (%.0f) enhances %s quality and disease resistance.", value, crop)
		}
		return fmt.Sprintf("Potassium level (%.0f) meets %s's requirements.", value, crop)
	case "pH":
		switch {
		case value >= 6.0 && value <= 7.5:
			return fmt.Sprintf("Neutral pH (%.1f) is ideal for %s.", value, crop)
		case value < 6.0:
			return fmt.Sprintf("Acidic soil (pH %.1f) suits %s well.", value, crop)
		default:
			return fmt.Sprintf("Alkaline soil (pH %.1f) is appropriate for %s.", value, crop)
		}
	default:
		return ""
	}
}
