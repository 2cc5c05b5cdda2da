// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/prestafacil/avaluador/internal/interfaces"
	"github.com/prestafacil/avaluador/internal/vision"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements interfaces.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...interfaces.Field) interfaces.Logger { return l }

// WarnCount returns how many warnings were recorded so far.
func (l *DummyLogger) WarnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Warns)
}

// ─── Price model ───────────────────────────────────────────────────────

// DummyModel implements predictor.Model with a fixed price.
// Set Err to force a prediction failure instead.
type DummyModel struct {
	Price        float64
	Err          error
	ModelVersion string

	mu       sync.Mutex
	Features [][]float64
}

func (m *DummyModel) Predict(features []float64) (float64, error) {
	m.mu.Lock()
	m.Features = append(m.Features, append([]float64(nil), features...))
	m.mu.Unlock()

	if m.Err != nil {
		return 0, m.Err
	}
	return m.Price, nil
}

func (m *DummyModel) Version() string {
	if m.ModelVersion != "" {
		return m.ModelVersion
	}
	return "v-dummy"
}

// ─── Vision provider ───────────────────────────────────────────────────

// DummyVisionProvider implements vision.Provider with a canned result.
// By default it returns empty signals. Set ResponseDelay to simulate a slow
// upstream; the delay honors context cancellation.
type DummyVisionProvider struct {
	Signals       vision.Signals
	Err           error
	ResponseDelay time.Duration

	mu    sync.Mutex
	Calls []VisionCall
}

// VisionCall records one Analyze invocation.
type VisionCall struct {
	ImageCount int
	Notes      string
}

func (d *DummyVisionProvider) Analyze(ctx context.Context, images []vision.Image, notes string) (vision.Signals, error) {
	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return vision.Signals{}, ctx.Err()
		}
	}

	d.mu.Lock()
	d.Calls = append(d.Calls, VisionCall{ImageCount: len(images), Notes: notes})
	d.mu.Unlock()

	if d.Err != nil {
		return vision.Signals{}, d.Err
	}
	return d.Signals, nil
}

// CallCount returns how many times Analyze ran.
func (d *DummyVisionProvider) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Calls)
}
