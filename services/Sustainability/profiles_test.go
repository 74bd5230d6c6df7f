package sustainability

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProfileRegistryBuiltins(t *testing.T) {
	registry := NewProfileRegistry()

	profile, known := registry.Profile("rice")
	if !known {
		t.Fatal("rice must have a built-in profile")
	}
	if profile.Nutrients.N != 120 || profile.Nutrients.P != 60 || profile.Nutrients.K != 60 {
		t.Errorf("unexpected rice nutrients: %+v", profile.Nutrients)
	}
	if profile.WaterNeed != 1200 {
		t.Errorf("expected rice water need 1200, got %g", profile.WaterNeed)
	}
}

func TestProfileRegistryUnknownCrop(t *testing.T) {
	registry := NewProfileRegistry()

	profile, known := registry.Profile("dragonfruit")
	if known {
		t.Error("dragonfruit must not be a known crop")
	}
	if profile.Nutrients.N != 100 || profile.Nutrients.P != 50 || profile.Nutrients.K != 50 {
		t.Errorf("unexpected default nutrients: %+v", profile.Nutrients)
	}
	if profile.WaterNeed != 600 {
		t.Errorf("expected default water need 600, got %g", profile.WaterNeed)
	}
}

func TestLoadProfilesOverrides(t *testing.T) {
	registry := NewProfileRegistry()

	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := `rice:
  nutrients:
    N: 130
    P: 65
    K: 65
  water_need: 1250
quinoa:
  nutrients:
    N: 60
    P: 40
    K: 40
  water_need: 500
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write profiles file: %v", err)
	}

	if err := registry.LoadProfiles(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	rice, _ := registry.Profile("rice")
	if rice.Nutrients.N != 130 || rice.WaterNeed != 1250 {
		t.Errorf("rice override not applied: %+v", rice)
	}

	quinoa, known := registry.Profile("quinoa")
	if !known {
		t.Fatal("quinoa must be registered after loading overrides")
	}
	if quinoa.WaterNeed != 500 {
		t.Errorf("expected quinoa water need 500, got %g", quinoa.WaterNeed)
	}

	// Crops not in the file keep their built-in profile
	maize, _ := registry.Profile("maize")
	if maize.WaterNeed != 600 {
		t.Errorf("maize must keep its built-in profile, got %+v", maize)
	}
}

func TestLoadProfilesRejectsInvalid(t *testing.T) {
	registry := NewProfileRegistry()
	path := filepath.Join(t.TempDir(), "profiles.yaml")

	if err := registry.LoadProfiles(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	if err := os.WriteFile(path, []byte("rice:\n  water_need: -5\n"), 0644); err != nil {
		t.Fatalf("failed to write profiles file: %v", err)
	}
	if err := registry.LoadProfiles(path); err == nil {
		t.Error("expected error for non-positive water need")
	}
}
