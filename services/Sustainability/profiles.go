package sustainability

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NutrientNeed is the per-season NPK consumption of one crop in kg/ha
type NutrientNeed struct {
	N float64 `yaml:"N" json:"N"`
	P float64 `yaml:"P" json:"P"`
	K float64 `yaml:"K" json:"K"`
}

// CropProfile bundles everything the analyzer knows about one crop
type CropProfile struct {
	Nutrients NutrientNeed `yaml:"nutrients" json:"nutrients"`
	WaterNeed float64      `yaml:"water_need" json:"water_need"`
}

// defaultProfile is applied to crops without a registered profile
var defaultProfile = CropProfile{
	Nutrients: NutrientNeed{N: 100, P: 50, K: 50},
	WaterNeed: 600,
}

// builtinProfiles covers the crop label set of the recommendation model.
// Nutrient figures are seasonal consumption estimates; water needs are
// seasonal totals in mm.
var builtinProfiles = map[string]CropProfile{
	"rice":        {NutrientNeed{120, 60, 60}, 1200},
	"maize":       {NutrientNeed{150, 75, 50}, 600},
	"chickpea":    {NutrientNeed{20, 60, 40}, 400},
	"kidneybeans": {NutrientNeed{30, 50, 50}, 500},
	"pigeonpeas":  {NutrientNeed{25, 50, 40}, 450},
	"mothbeans":   {NutrientNeed{30, 45, 45}, 400},
	"mungbean":    {NutrientNeed{25, 50, 50}, 350},
	"blackgram":   {NutrientNeed{30, 50, 45}, 400},
	"lentil":      {NutrientNeed{20, 55, 40}, 450},
	"pomegranate": {NutrientNeed{100, 50, 100}, 800},
	"banana":      {NutrientNeed{200, 80, 200}, 1500},
	"mango":       {NutrientNeed{150, 100, 120}, 1000},
	"grapes":      {NutrientNeed{120, 80, 150}, 900},
	"watermelon":  {NutrientNeed{100, 60, 80}, 500},
	"muskmelon":   {NutrientNeed{90, 55, 75}, 450},
	"apple":       {NutrientNeed{130, 90, 110}, 800},
	"orange":      {NutrientNeed{140, 70, 100}, 900},
	"papaya":      {NutrientNeed{110, 80, 90}, 800},
	"coconut":     {NutrientNeed{100, 50, 120}, 1200},
	"cotton":      {NutrientNeed{120, 60, 60}, 700},
	"jute":        {NutrientNeed{80, 40, 40}, 600},
	"coffee":      {NutrientNeed{100, 50, 80}, 1000},
}

// nitrogenFixers restore soil nitrogen and are suggested after heavy
// nitrogen depletion
var nitrogenFixers = []string{"chickpea", "pigeonpeas", "lentil", "mungbean", "blackgram"}

// lightFeeders have low overall nutrient demand
var lightFeeders = []string{"mothbeans", "jute", "watermelon", "muskmelon"}

// ProfileRegistry resolves crop names to profiles. Unknown crops resolve
// to a conservative default instead of failing.
type ProfileRegistry struct {
	profiles map[string]CropProfile
}

// NewProfileRegistry returns a registry seeded with the built-in profiles
func NewProfileRegistry() *ProfileRegistry {
	profiles := make(map[string]CropProfile, len(builtinProfiles))
	for crop, profile := range builtinProfiles {
		profiles[crop] = profile
	}
	return &ProfileRegistry{profiles: profiles}
}

// LoadProfiles merges profile overrides from a YAML file on top of the
// built-in tables. Crops present in the file replace their built-in entry;
// new crops are added.
func (r *ProfileRegistry) LoadProfiles(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read crop profiles: %w", err)
	}

	var overrides map[string]CropProfile
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse crop profiles: %w", err)
	}

	for crop, profile := range overrides {
		if profile.WaterNeed <= 0 {
			return fmt.Errorf("crop %q has non-positive water need %g", crop, profile.WaterNeed)
		}
		r.profiles[crop] = profile
	}

	return nil
}

// Profile returns the profile for a crop, falling back to the default for
// unknown crops. The second result reports whether the crop was registered.
func (r *ProfileRegistry) Profile(crop string) (CropProfile, bool) {
	if profile, ok := r.profiles[crop]; ok {
		return profile, true
	}
	return defaultProfile, false
}

// Known reports whether the crop has a registered profile
func (r *ProfileRegistry) Known(crop string) bool {
	_, ok := r.profiles[crop]
	return ok
}
