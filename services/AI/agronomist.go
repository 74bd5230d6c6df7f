package ai

import (
	"context"
	"fmt"
	"strings"
)

// Completer is the LLM surface the agronomist needs
type Completer interface {
	Complete(ctx context.Context, systemMsg, prompt string) (string, error)
	Model() string
}

// SoilConditions are the soil measurements included in the advisory prompt
type SoilConditions struct {
	N  float64 `json:"N"`
	P  float64 `json:"P"`
	K  float64 `json:"K"`
	PH float64 `json:"pH"`
}

// ClimateConditions are the climate measurements included in the prompt
type ClimateConditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
}

// FarmingAdvice is the advisory result for one crop. Advice is the raw
// model text; it is presented as-is rather than parsed into sections.
type FarmingAdvice struct {
	Crop   string `json:"crop"`
	Advice string `json:"advice"`
	Model  string `json:"model"`
}

// Agronomist produces LLM-backed farming guidance for a recommended crop
type Agronomist struct {
	client Completer
}

// NewAgronomist wraps a chat client as an agronomist. client may be nil
// when no advisory backend is configured; Available reports that state.
func NewAgronomist(client Completer) *Agronomist {
	return &Agronomist{client: client}
}

// Available reports whether an advisory backend is configured
func (a *Agronomist) Available() bool {
	return a != nil && a.client != nil
}

// Advise requests farming advice for growing crop under the given
// conditions. location is optional and scopes the advice regionally.
func (a *Agronomist) Advise(ctx context.Context, crop string, soil SoilConditions, climate ClimateConditions, location string) (*FarmingAdvice, error) {
	if !a.Available() {
		return nil, fmt.Errorf("advisor is not configured")
	}

	prompt := buildAdvicePrompt(crop, soil, climate, location)

	content, err := a.client.Complete(ctx, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("advice request failed: %w", err)
	}

	return &FarmingAdvice{
		Crop:   crop,
		Advice: strings.TrimSpace(content),
		Model:  a.client.Model(),
	}, nil
}

func buildAdvicePrompt(crop string, soil SoilConditions, climate ClimateConditions, location string) string {
	locationText := ""
	if location != "" {
		locationText = fmt.Sprintf(" in %s", location)
	}

	return fmt.Sprintf(`You are an expert agricultural advisor helping farmers grow %s%s.

**Soil Conditions:**
- Nitrogen (N): %g kg/ha
- Phosphorus (P): %g kg/ha
- Potassium (K): %g kg/ha
- pH Level: %g

**Climate Conditions:**
- Temperature: %g°C
- Humidity: %g%%
- Rainfall: %gmm

Please provide practical, farmer-friendly advice covering:

1. **Suitability Assessment**: Is this crop suitable for these conditions? (2-3 sentences)

2. **Best Sowing Season**: When to plant for optimal yield (1-2 sentences)

3. **Fertilizer Recommendations**: Specific NPK adjustments needed (2-3 sentences)

4. **Disease & Pest Risks**: Common issues to watch for (2-3 sentences)

5. **Yield Optimization Tips**: 3-4 actionable tips to maximize harvest

Keep language simple and practical. Avoid overly technical jargon. Focus on actionable advice.`,
		crop, locationText,
		soil.N, soil.P, soil.K, soil.PH,
		climate.Temperature, climate.Humidity, climate.Rainfall)
}
