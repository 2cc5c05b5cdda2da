package predictor

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/prestafacil/avaluador/internal/device"
)

// stubModel records the last feature vector it was asked to price.
type stubModel struct {
	raw     float64
	err     error
	version string

	gotFeatures []float64
}

func (m *stubModel) Predict(features []float64) (float64, error) {
	m.gotFeatures = features
	return m.raw, m.err
}

func (m *stubModel) Version() string { return m.version }

func adapterSpec() device.Specification {
	return device.Specification{
		FormFactor:     device.FormFactorLaptop,
		Brand:          "Lenovo",
		ProcessorModel: "Intel Core i5 1135G7",
		RAMGB:          8,
		DiskCapacityGB: 256,
		DiskType:       device.DiskSSD,
		Condition:      device.ConditionGood,
		AgeYears:       1,
	}
}

func TestAdapterPredictPassesCanonicalFeatures(t *testing.T) {
	t.Parallel()

	model := &stubModel{raw: 850000, version: "v3"}
	got, err := NewAdapter(model, nil).Predict(context.Background(), adapterSpec())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	if want := Features(adapterSpec()); !reflect.DeepEqual(model.gotFeatures, want) {
		t.Errorf("model saw features %v, want %v", model.gotFeatures, want)
	}
	if got.Raw != 850000 || got.Price != 850000 {
		t.Errorf("prediction = %+v, want raw and price 850000", got)
	}
	if got.ModelVersion != "v3" {
		t.Errorf("ModelVersion = %q, want %q", got.ModelVersion, "v3")
	}
}

func TestAdapterClampsNegativeOutput(t *testing.T) {
	t.Parallel()

	model := &stubModel{raw: -52000, version: "v3"}
	got, err := NewAdapter(model, nil).Predict(context.Background(), adapterSpec())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if got.Raw != -52000 {
		t.Errorf("Raw = %v, want the unclamped -52000", got.Raw)
	}
	if got.Price != 0 {
		t.Errorf("Price = %v, want 0 after clamping", got.Price)
	}
}

func TestAdapterWithoutModel(t *testing.T) {
	t.Parallel()

	_, err := NewAdapter(nil, nil).Predict(context.Background(), adapterSpec())
	if !errors.Is(err, ErrPredictionUnavailable) {
		t.Fatalf("Predict() error = %v, want ErrPredictionUnavailable", err)
	}
}

func TestAdapterWrapsModelError(t *testing.T) {
	t.Parallel()

	modelErr := errors.New("vector mismatch")
	model := &stubModel{err: modelErr, version: "v9"}

	_, err := NewAdapter(model, nil).Predict(context.Background(), adapterSpec())
	if !errors.Is(err, modelErr) {
		t.Fatalf("Predict() error = %v, want wrapped %v", err, modelErr)
	}
	if !strings.Contains(err.Error(), "v9") {
		t.Errorf("error %q does not name the model version", err)
	}
}

func TestAdapterHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	model := &stubModel{raw: 100000, version: "v3"}
	if _, err := NewAdapter(model, nil).Predict(ctx, adapterSpec()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Predict() error = %v, want context.Canceled", err)
	}
	if model.gotFeatures != nil {
		t.Error("model was called despite a cancelled context")
	}
}
