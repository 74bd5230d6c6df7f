package sustainability

import (
	"fmt"
	"math"
	"strings"
)

// SoilParams is the soil and climate state the analyzer works from.
// Rainfall is the monthly average in mm.
type SoilParams struct {
	N        float64 `json:"N"`
	P        float64 `json:"P"`
	K        float64 `json:"K"`
	PH       float64 `json:"pH"`
	Rainfall float64 `json:"rainfall"`
}

// DepletionReport describes how one growing season draws down soil nutrients
type DepletionReport struct {
	Consumption      NutrientNeed       `json:"consumption"`
	Remaining        map[string]float64 `json:"remaining"`
	DepletionPercent map[string]float64 `json:"depletion_percent"`
	Severity         string             `json:"severity"`
}

// WaterRiskReport compares seasonal water need against expected rainfall
type WaterRiskReport struct {
	WaterNeed      float64 `json:"water_need"`
	AvailableWater float64 `json:"available_water"`
	Deficit        float64 `json:"deficit"`
	Surplus        float64 `json:"surplus"`
	RiskLevel      string  `json:"risk_level"`
	Message        string  `json:"message"`
}

// RotationSuggestion is one follow-on planting suggestion with its rationale
type RotationSuggestion struct {
	Reason  string   `json:"reason"`
	Crops   []string `json:"crops"`
	Benefit string   `json:"benefit"`
}

// RotationAdvice groups the rotation suggestions for a crop. Suggestions is
// never empty: healthy soil gets a "keep going" entry.
type RotationAdvice struct {
	CurrentCrop string               `json:"current_crop"`
	Suggestions []RotationSuggestion `json:"suggestions"`
}

// SustainabilityReport is the full soil-impact analysis for one crop
type SustainabilityReport struct {
	Crop                string          `json:"crop"`
	SustainabilityScore int             `json:"sustainability_score"`
	NutrientDepletion   DepletionReport `json:"nutrient_depletion"`
	WaterRisk           WaterRiskReport `json:"water_risk"`
	CropRotation        RotationAdvice  `json:"crop_rotation"`
	Recommendations     []string        `json:"recommendations"`
}

// seasonalRainfallMonths converts monthly average rainfall into a seasonal
// total. The factor is fixed at a four-month season regardless of the
// requested growing duration; duration currently only labels the request.
const seasonalRainfallMonths = 4

// Analyzer scores the soil and water impact of growing a crop
type Analyzer struct {
	registry *ProfileRegistry
}

// NewAnalyzer creates an analyzer over the given profile registry
func NewAnalyzer(registry *ProfileRegistry) *Analyzer {
	return &Analyzer{registry: registry}
}

// Analyze produces the sustainability report for growing crop under the
// given soil conditions. Crop lookup is case-insensitive; unknown crops use
// a conservative default profile. durationMonths is accepted for API
// compatibility but does not affect the seasonal rainfall estimate.
func (a *Analyzer) Analyze(crop string, soil SoilParams, durationMonths int) SustainabilityReport {
	profile, _ := a.registry.Profile(strings.ToLower(crop))

	depletion := a.nutrientDepletion(profile, soil)
	waterRisk := a.waterRisk(profile, soil.Rainfall)
	rotation := a.suggestRotation(strings.ToLower(crop), depletion)
	score := a.sustainabilityScore(depletion, waterRisk, soil)

	return SustainabilityReport{
		Crop:                crop,
		SustainabilityScore: score,
		NutrientDepletion:   depletion,
		WaterRisk:           waterRisk,
		CropRotation:        rotation,
		Recommendations:     a.recommendations(depletion, waterRisk, score),
	}
}

// nutrientDepletion estimates post-harvest nutrient state. Depletion
// percentages are capped at 100; severity is graded from the uncapped
// ratios so extreme draw-down on poor soil still registers as severe.
func (a *Analyzer) nutrientDepletion(profile CropProfile, soil SoilParams) DepletionReport {
	consumption := profile.Nutrients

	nDepletion := consumption.N / math.Max(soil.N, 1) * 100
	pDepletion := consumption.P / math.Max(soil.P, 1) * 100
	kDepletion := consumption.K / math.Max(soil.K, 1) * 100

	return DepletionReport{
		Consumption: consumption,
		Remaining: map[string]float64{
			"N": math.Max(0, soil.N-consumption.N),
			"P": math.Max(0, soil.P-consumption.P),
			"K": math.Max(0, soil.K-consumption.K),
		},
		DepletionPercent: map[string]float64{
			"N": math.Min(100, nDepletion),
			"P": math.Min(100, pDepletion),
			"K": math.Min(100, kDepletion),
		},
		Severity: depletionSeverity(nDepletion, pDepletion, kDepletion),
	}
}

func depletionSeverity(nDep, pDep, kDep float64) string {
	avg := (nDep + pDep + kDep) / 3

	switch {
	case avg > 70:
		return "severe"
	case avg > 50:
		return "high"
	case avg > 30:
		return "moderate"
	default:
		return "low"
	}
}

func (a *Analyzer) waterRisk(profile CropProfile, rainfall float64) WaterRiskReport {
	seasonal := rainfall * seasonalRainfallMonths

	deficit := math.Max(0, profile.WaterNeed-seasonal)
	surplus := math.Max(0, seasonal-profile.WaterNeed)

	report := WaterRiskReport{
		WaterNeed:      profile.WaterNeed,
		AvailableWater: seasonal,
		Deficit:        deficit,
		Surplus:        surplus,
	}

	switch {
	case deficit > 400:
		report.RiskLevel = "high"
		report.Message = fmt.Sprintf("Significant irrigation needed (%.0fmm deficit)", deficit)
	case deficit > 200:
		report.RiskLevel = "medium"
		report.Message = fmt.Sprintf("Moderate irrigation required (%.0fmm deficit)", deficit)
	case surplus > 400:
		report.RiskLevel = "medium"
		report.Message = fmt.Sprintf("Excess water may cause issues (%.0fmm surplus)", surplus)
	default:
		report.RiskLevel = "low"
		report.Message = "Water availability is adequate"
	}

	return report
}

func (a *Analyzer) suggestRotation(crop string, depletion DepletionReport) RotationAdvice {
	var suggestions []RotationSuggestion

	if depletion.DepletionPercent["N"] > 60 {
		suggestions = append(suggestions, RotationSuggestion{
			Reason:  "High nitrogen depletion",
			Crops:   append([]string(nil), nitrogenFixers...),
			Benefit: "These crops will restore nitrogen to the soil",
		})
	}

	avg := averageDepletion(depletion.DepletionPercent)
	if avg > 50 {
		suggestions = append(suggestions, RotationSuggestion{
			Reason:  "Overall nutrient depletion",
			Crops:   append([]string(nil), lightFeeders...),
			Benefit: "These crops have lower nutrient requirements",
		})
	}

	if depletion.Severity == "severe" {
		suggestions = append(suggestions, RotationSuggestion{
			Reason:  "Severe soil depletion",
			Crops:   []string{"fallow period with cover crops"},
			Benefit: "Allow soil to recover naturally",
		})
	}

	if len(suggestions) == 0 {
		suggestions = []RotationSuggestion{{
			Reason:  "Soil health is good",
			Crops:   []string{"Continue with similar crops or diversify"},
			Benefit: "Maintain soil balance",
		}}
	}

	return RotationAdvice{CurrentCrop: crop, Suggestions: suggestions}
}

// sustainabilityScore grades the overall impact on a 0-100 scale. The
// fractional part is truncated before clamping.
func (a *Analyzer) sustainabilityScore(depletion DepletionReport, waterRisk WaterRiskReport, soil SoilParams) int {
	score := 100.0

	score -= averageDepletion(depletion.DepletionPercent) * 0.3

	switch waterRisk.RiskLevel {
	case "high":
		score -= 20
	case "medium":
		score -= 10
	}

	if soil.PH >= 6.0 && soil.PH <= 7.5 {
		score += 5
	}

	clamped := int(score)
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}
	return clamped
}

func (a *Analyzer) recommendations(depletion DepletionReport, waterRisk WaterRiskReport, score int) []string {
	var recommendations []string

	if depletion.DepletionPercent["N"] > 50 {
		recommendations = append(recommendations, "Apply nitrogen-rich fertilizers or compost before next planting")
	}
	if depletion.DepletionPercent["P"] > 50 {
		recommendations = append(recommendations, "Add phosphate fertilizers to restore phosphorus levels")
	}
	if depletion.DepletionPercent["K"] > 50 {
		recommendations = append(recommendations, "Use potash or wood ash to replenish potassium")
	}

	if waterRisk.RiskLevel == "high" {
		recommendations = append(recommendations,
			"Install drip irrigation system to conserve water",
			"Use mulching to reduce water evaporation")
	} else if waterRisk.Surplus > 300 {
		recommendations = append(recommendations, "Ensure proper drainage to prevent waterlogging")
	}

	if score < 60 {
		recommendations = append(recommendations,
			"Consider crop rotation to improve soil health",
			"Add organic matter to enhance soil structure")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Maintain current sustainable practices")
	}

	return recommendations
}

func averageDepletion(percent map[string]float64) float64 {
	return (percent["N"] + percent["P"] + percent["K"]) / 3
}
