// Package model defines the serialized price-model artifact and the
// deterministic predictor built from it. Training happens outside this
// repository; we only consume published artifacts.
package model

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Canonical feature names in their fixed assembly order. Artifacts may list
// them in any order but must cover exactly this set; the predictor reorders
// coefficients at load time.
const (
	FeatureRAM        = "ram_gb"
	FeatureDisk       = "disco_gb"
	FeatureSSD        = "es_ssd"
	FeatureGeneration = "generacion"
	FeatureGraphics   = "grafica"
	FeatureCondition  = "condicion"
	FeatureAge        = "antiguedad"
)

// CanonicalFeatures returns the feature order the engine assembles vectors
// in. Callers must not mutate the returned slice.
func CanonicalFeatures() []string {
	return canonicalFeatures
}

var canonicalFeatures = []string{
	FeatureRAM,
	FeatureDisk,
	FeatureSSD,
	FeatureGeneration,
	FeatureGraphics,
	FeatureCondition,
	FeatureAge,
}

// Artifact is the published form of a trained regression model.
type Artifact struct {
	// Version uniquely identifies the artifact, e.g. "lineal-2025-07".
	Version string `json:"version"`

	// Algorithm names the training algorithm. Informational only.
	Algorithm string `json:"algoritmo"`

	// FeatureNames fixes which coefficient belongs to which feature.
	FeatureNames []string `json:"caracteristicas"`

	// Coefficients pair positionally with FeatureNames.
	Coefficients []float64 `json:"coeficientes"`

	// Intercept is the regression intercept.
	Intercept float64 `json:"intercepto"`

	// R2 is the validation fit reported at training time, when known.
	R2 float64 `json:"r2,omitempty"`

	// TrainedAt is the training timestamp, when known.
	TrainedAt time.Time `json:"entrenado_en"`
}

// Validate checks structural consistency: a version, a non-empty feature
// list matching the coefficient count, and no feature outside the
// canonical set.
func (a *Artifact) Validate() error {
	if a.Version == "" {
		return fmt.Errorf("artifact has no version")
	}
	if len(a.FeatureNames) == 0 {
		return fmt.Errorf("artifact %s declares no features", a.Version)
	}
	if len(a.FeatureNames) != len(a.Coefficients) {
		return fmt.Errorf("artifact %s: %d features but %d coefficients",
			a.Version, len(a.FeatureNames), len(a.Coefficients))
	}

	known := make(map[string]bool, len(canonicalFeatures))
	for _, name := range canonicalFeatures {
		known[name] = true
	}
	seen := make(map[string]bool, len(a.FeatureNames))
	for _, name := range a.FeatureNames {
		if !known[name] {
			return fmt.Errorf("artifact %s: unknown feature %q", a.Version, name)
		}
		if seen[name] {
			return fmt.Errorf("artifact %s: duplicate feature %q", a.Version, name)
		}
		seen[name] = true
	}
	if len(seen) != len(canonicalFeatures) {
		return fmt.Errorf("artifact %s covers %d of %d canonical features",
			a.Version, len(seen), len(canonicalFeatures))
	}
	return nil
}

// ParseArtifact decodes and validates a JSON artifact document.
func ParseArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadArtifact reads and parses an artifact file.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	a, err := ParseArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	return a, nil
}
