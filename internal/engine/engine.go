// Package engine composes one valuation end to end: normalize the inbound
// specification, evaluate eligibility policy and predict a price side by
// side, apply the market rules, then fold everything into a single Result.
// Policy blocks and floor blocks are values inside the Result; only
// validation failures and prediction failures surface as errors.
package engine

import (
	"context"
	"fmt"

	"github.com/prestafacil/avaluador/internal/device"
	"github.com/prestafacil/avaluador/internal/interfaces"
	"github.com/prestafacil/avaluador/internal/market"
	"github.com/prestafacil/avaluador/internal/policy"
	"github.com/prestafacil/avaluador/internal/predictor"
	"github.com/prestafacil/avaluador/internal/vision"
)

// minAdvisoryConfidence filters vision findings into warnings; anything the
// provider is less sure about than this is treated as noise.
const minAdvisoryConfidence = 0.5

// Engine wires the valuation collaborators together. All shared state is
// read-only after construction, so one Engine serves concurrent requests.
type Engine struct {
	policy    *policy.Evaluator
	predictor predictor.PricePredictor
	rules     market.Rules
	logger    interfaces.Logger
}

// New validates the collaborators and returns a ready Engine. A nil logger
// is replaced with a no-op one.
func New(policyEval *policy.Evaluator, pricePredictor predictor.PricePredictor, rules market.Rules, logger interfaces.Logger) (*Engine, error) {
	if policyEval == nil {
		return nil, fmt.Errorf("policy evaluator is nil")
	}
	if pricePredictor == nil {
		return nil, fmt.Errorf("price predictor is nil")
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("market rules: %w", err)
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Engine{
		policy:    policyEval,
		predictor: pricePredictor,
		rules:     rules,
		logger:    logger,
	}, nil
}

type predictionResult struct {
	prediction predictor.Prediction
	err        error
}

// Evaluate runs one valuation. signals carries advisory image-analysis
// findings; a zero Signals means no photos were analyzed and degrades to no
// notes. The call is all-or-nothing: a validation or prediction failure
// yields no partial Result.
func (e *Engine) Evaluate(ctx context.Context, raw device.RawSpecification, signals vision.Signals) (*Result, error) {
	spec, err := device.Normalize(raw)
	if err != nil {
		return nil, err
	}

	// Policy and prediction are independent reads of the same spec; run
	// them side by side and join before composing.
	policyCh := make(chan policy.Verdict, 1)
	predCh := make(chan predictionResult, 1)
	go func() { policyCh <- e.policy.Evaluate(spec) }()
	go func() {
		p, err := e.predictor.Predict(ctx, spec)
		predCh <- predictionResult{prediction: p, err: err}
	}()

	verdict := <-policyCh
	pred := <-predCh
	if pred.err != nil {
		e.logger.Error("price prediction failed",
			interfaces.Field{Key: "error", Value: pred.err.Error()})
		return nil, fmt.Errorf("price prediction: %w", pred.err)
	}

	adjustment := e.rules.Apply(pred.prediction.Price)
	result := e.compose(verdict, pred.prediction, adjustment, signals)

	e.logger.Info("valuation completed",
		interfaces.Field{Key: "precio", Value: result.PrecioPredicho},
		interfaces.Field{Key: "bloqueado", Value: result.Bloqueado},
		interfaces.Field{Key: "version_modelo", Value: pred.prediction.ModelVersion},
	)
	return result, nil
}

// compose folds verdict, prediction and market adjustment into the Result.
// Warning order is fixed: policy violations in rule order, then the floor
// shortfall, then advisory vision notes. Vision notes never block.
func (e *Engine) compose(verdict policy.Verdict, pred predictor.Prediction, adj market.Adjustment, signals vision.Signals) *Result {
	blockedByPolicy := !verdict.Eligible
	blockedByFloor := adj.FloorViolated
	minimum := e.rules.MinPrestamo.IntPart()

	warnings := make([]string, 0, len(verdict.Violations)+1+len(signals.Damages))
	var reasons []string
	for _, v := range verdict.Violations {
		warnings = append(warnings, v.Message)
		reasons = append(reasons, v.Message)
	}
	if blockedByFloor {
		msg := floorMessage(adj.Final, minimum)
		warnings = append(warnings, msg)
		reasons = append(reasons, msg)
	}
	for _, d := range signals.Damages {
		if d.Confidence >= minAdvisoryConfidence {
			warnings = append(warnings, advisoryMessage(d))
		}
	}
	warnings = dedupe(warnings)

	blocked := blockedByPolicy || blockedByFloor
	mensaje := approvedMessage(adj.Final)
	if blocked {
		mensaje = blockedMessage(reasons)
	}

	return &Result{
		PrecioPredicho: adj.Final,
		Bloqueado:      blocked,
		MensajeCliente: mensaje,
		Advertencias:   warnings,
		Detalle: Detail{
			PrecioBaseModelo:     pred.Price,
			PrecioMercado:        adj.Final,
			MinPrestamo:          minimum,
			VersionModelo:        pred.ModelVersion,
			BloqueadoPorPolitica: blockedByPolicy,
			BloqueadoPorMinimo:   blockedByFloor,
		},
	}
}
