package vision

import (
	"strings"
	"testing"
	"time"

	"github.com/prestafacil/avaluador/internal/interfaces"
)

func TestNewGeminiRequiresKey(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if _, err := NewGemini(cfg, nil); err == nil || !strings.Contains(err.Error(), "api key") {
		t.Fatalf("NewGemini() error = %v, want api key complaint", err)
	}

	cfg.APIKey = "test-key"
	if _, err := NewGemini(cfg, nil); err != nil {
		t.Fatalf("NewGemini() with key error = %v", err)
	}
}

func TestGeminiReportToSignals(t *testing.T) {
	t.Parallel()

	g := &Gemini{logger: interfaces.NopLogger{}}

	ram := 8
	report := geminiReport{RAMGB: &ram}
	report.Danios = []struct {
		Codigo    string  `json:"codigo"`
		Confianza float64 `json:"confianza"`
	}{
		{Codigo: DamageStains, Confianza: 0.7},
		{Codigo: "puerto_usb_suelto", Confianza: 0.9},
		{Codigo: DamageScreenCracked, Confianza: 1.7},
	}

	got := g.signals(report)
	if got.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want %q", got.Provider, ProviderGemini)
	}

	// The unknown code is dropped and the rest come back in catalog order
	// with confidence clamped into [0, 1].
	if len(got.Damages) != 2 {
		t.Fatalf("damages = %v, want 2 entries", damageCodes(got))
	}
	if got.Damages[0].Code != DamageScreenCracked || got.Damages[1].Code != DamageStains {
		t.Errorf("damage order = %v, want screen first", damageCodes(got))
	}
	if got.Damages[0].Confidence != 1 {
		t.Errorf("Confidence = %v, want clamped to 1", got.Damages[0].Confidence)
	}
	if got.Hints.RAMGB == nil || *got.Hints.RAMGB != 8 {
		t.Errorf("Hints.RAMGB = %v, want 8", got.Hints.RAMGB)
	}
}

func TestVisionConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() on defaults error = %v", err)
	}

	cfg.MaxImages = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted zero max images")
	}

	cfg = DefaultConfig()
	cfg.Model = "  "
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted a blank model name")
	}

	cfg = DefaultConfig()
	cfg.Timeout = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted a negative timeout")
	}
}
