package model

import "fmt"

// Linear is a deterministic linear predictor built from an Artifact. Its
// coefficients are reordered to the canonical feature order at construction
// so prediction is a plain dot product. Instances are immutable and safe
// for concurrent use.
type Linear struct {
	version   string
	intercept float64
	coeffs    []float64
}

// NewLinear validates the artifact and aligns its coefficients with the
// canonical feature order.
func NewLinear(a *Artifact) (*Linear, error) {
	if a == nil {
		return nil, fmt.Errorf("nil artifact")
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	position := make(map[string]int, len(canonicalFeatures))
	for i, name := range canonicalFeatures {
		position[name] = i
	}
	coeffs := make([]float64, len(canonicalFeatures))
	for i, name := range a.FeatureNames {
		coeffs[position[name]] = a.Coefficients[i]
	}

	return &Linear{
		version:   a.Version,
		intercept: a.Intercept,
		coeffs:    coeffs,
	}, nil
}

// Predict maps a canonical feature vector to a raw price estimate. The
// output may be negative; clamping is the adapter's responsibility.
func (l *Linear) Predict(features []float64) (float64, error) {
	if len(features) != len(l.coeffs) {
		return 0, fmt.Errorf("feature vector has %d values, model %s expects %d",
			len(features), l.version, len(l.coeffs))
	}
	price := l.intercept
	for i, f := range features {
		price += l.coeffs[i] * f
	}
	return price, nil
}

// Version identifies the artifact backing this predictor.
func (l *Linear) Version() string { return l.version }
