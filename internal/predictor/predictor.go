// Package predictor turns normalized device specifications into price
// estimates. The usual path wraps a trained artifact behind Adapter; when no
// artifact is available the rule-based Traditional estimator takes its place.
// Either way the caller sees the same PricePredictor contract.
package predictor

import (
	"context"
	"errors"
	"fmt"

	"github.com/prestafacil/avaluador/internal/device"
	"github.com/prestafacil/avaluador/internal/interfaces"
)

// ErrPredictionUnavailable reports that no price model is loaded. Callers may
// fall back to Traditional at startup; mid-request there is nothing to retry.
var ErrPredictionUnavailable = errors.New("prediction unavailable: no price model loaded")

// Prediction is a single price estimate plus its provenance.
type Prediction struct {
	// Raw is the unmodified model output and may be negative.
	Raw float64 `json:"crudo"`
	// Price is Raw clamped to zero. This is the value the market rules
	// consume.
	Price float64 `json:"precio"`
	// ModelVersion identifies which model produced the estimate.
	ModelVersion string `json:"version_modelo"`
}

// PricePredictor produces a price estimate for a normalized specification.
type PricePredictor interface {
	Predict(ctx context.Context, spec device.Specification) (Prediction, error)
}

// Model is the narrow contract an artifact-backed regression satisfies.
type Model interface {
	Predict(features []float64) (float64, error)
	Version() string
}

// Adapter exposes a Model as a PricePredictor. It assembles the feature
// vector, calls the model exactly once and clamps negative output to zero.
// It never retries and never reorders or reweighs what the model returns.
type Adapter struct {
	model  Model
	logger interfaces.Logger
}

// NewAdapter wraps model. A nil logger is replaced with a no-op one.
func NewAdapter(model Model, logger interfaces.Logger) *Adapter {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Adapter{model: model, logger: logger}
}

// Predict implements PricePredictor.
func (a *Adapter) Predict(ctx context.Context, spec device.Specification) (Prediction, error) {
	if a.model == nil {
		return Prediction{}, ErrPredictionUnavailable
	}
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	raw, err := a.model.Predict(Features(spec))
	if err != nil {
		return Prediction{}, fmt.Errorf("model %s: %w", a.model.Version(), err)
	}

	price := raw
	if price < 0 {
		a.logger.Warn("model produced a negative price, clamping to zero",
			interfaces.Field{Key: "model_version", Value: a.model.Version()},
			interfaces.Field{Key: "raw", Value: raw},
		)
		price = 0
	}

	return Prediction{Raw: raw, Price: price, ModelVersion: a.model.Version()}, nil
}
