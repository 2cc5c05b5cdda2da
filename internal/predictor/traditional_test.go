package predictor

import (
	"context"
	"strings"
	"testing"

	"github.com/prestafacil/avaluador/internal/device"
)

func newTestTraditional(t *testing.T) *Traditional {
	t.Helper()
	trad, err := NewTraditional(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewTraditional() error = %v", err)
	}
	return trad
}

func predictTraditional(t *testing.T, trad *Traditional, spec device.Specification) Prediction {
	t.Helper()
	got, err := trad.Predict(context.Background(), spec)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	return got
}

// ─── Price composition ─────────────────────────────────────────────────

func TestTraditionalHighEndLaptop(t *testing.T) {
	t.Parallel()

	// brand dell 5*50000 + core i7 8*75000 + 16*25000 + 512*100*1.5 + gpu
	// 100000 = 1426800, no depreciation at age 1 in excellent condition.
	spec := device.Specification{
		FormFactor:           device.FormFactorLaptop,
		Brand:                "Dell",
		ProcessorModel:       "Intel Core i7-8550U",
		RAMGB:                16,
		DiskCapacityGB:       512,
		DiskType:             device.DiskSSD,
		HasDedicatedGraphics: true,
		Condition:            device.ConditionExcellent,
		AgeYears:             1,
	}

	got := predictTraditional(t, newTestTraditional(t), spec)
	if got.Price != 1426800 {
		t.Errorf("Price = %v, want 1426800", got.Price)
	}
	if got.Raw != got.Price {
		t.Errorf("Raw = %v, want equal to Price", got.Raw)
	}
	if got.ModelVersion != TraditionalVersion {
		t.Errorf("ModelVersion = %q, want %q", got.ModelVersion, TraditionalVersion)
	}
}

func TestTraditionalDepreciatesByConditionAndAge(t *testing.T) {
	t.Parallel()

	// base acer 2*50000 + celeron 2*75000 + 4*25000 + 500*100 = 400000,
	// then mala 0.50 and age 6 band 0.30 leave exactly 60000.
	spec := device.Specification{
		FormFactor:     device.FormFactorDesktop,
		Brand:          "Acer",
		ProcessorModel: "Intel Celeron N4000",
		RAMGB:          4,
		DiskCapacityGB: 500,
		DiskType:       device.DiskHDD,
		Condition:      device.ConditionPoor,
		AgeYears:       6,
	}

	if got := predictTraditional(t, newTestTraditional(t), spec); got.Price != 60000 {
		t.Errorf("Price = %v, want 60000", got.Price)
	}
}

func TestTraditionalBaseFloor(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.BrandWeight = 1
	cfg.CPUWeight = 1
	cfg.RAMWeight = 1
	cfg.DiskWeightPerGB = 1

	trad, err := NewTraditional(cfg, nil)
	if err != nil {
		t.Fatalf("NewTraditional() error = %v", err)
	}

	// Weighted sum is 116, far below the 100000 floor; the floor applies
	// before depreciation, so an excellent one-year-old stays at 100000.
	spec := device.Specification{
		Brand:          "generic",
		ProcessorModel: "Intel Core i5",
		RAMGB:          8,
		DiskCapacityGB: 100,
		DiskType:       device.DiskHDD,
		Condition:      device.ConditionExcellent,
		AgeYears:       1,
	}

	if got := predictTraditional(t, trad, spec); got.Price != 100000 {
		t.Errorf("Price = %v, want floor 100000", got.Price)
	}
}

// ─── Table lookups ─────────────────────────────────────────────────────

func TestTraditionalUnknownBrandUsesDefaultScore(t *testing.T) {
	t.Parallel()

	trad := newTestTraditional(t)
	base := device.Specification{
		ProcessorModel: "Intel Core i5 10th gen",
		RAMGB:          8,
		DiskCapacityGB: 256,
		DiskType:       device.DiskSSD,
		Condition:      device.ConditionGood,
		AgeYears:       2,
	}

	known := base
	known.Brand = "Acer"
	unknown := base
	unknown.Brand = "Clevo"

	knownGot := predictTraditional(t, trad, known)
	unknownGot := predictTraditional(t, trad, unknown)
	if knownGot.Price != unknownGot.Price {
		t.Errorf("unknown brand price %v differs from default-score brand price %v", unknownGot.Price, knownGot.Price)
	}
}

func TestTraditionalUnknownFamilyUsesDefaultScore(t *testing.T) {
	t.Parallel()

	// Unrecognized family scores 4: 2*50000 + 4*75000 + 8*25000 +
	// 256*100*1.5 = 638400, good 0.85 and age 2 band 0.85 leave 461244.
	spec := device.Specification{
		Brand:          "Toshiba",
		ProcessorModel: "Snapdragon 8cx",
		RAMGB:          8,
		DiskCapacityGB: 256,
		DiskType:       device.DiskSSD,
		Condition:      device.ConditionGood,
		AgeYears:       2,
	}

	if got := predictTraditional(t, newTestTraditional(t), spec); got.Price != 461244 {
		t.Errorf("Price = %v, want 461244", got.Price)
	}
}

func TestTraditionalBrandOrderBreaksTies(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.BrandScores = []BrandScore{
		{Brand: "hp victus", Score: 5},
		{Brand: "hp", Score: 3},
	}

	trad, err := NewTraditional(cfg, nil)
	if err != nil {
		t.Fatalf("NewTraditional() error = %v", err)
	}

	if got := trad.brandScore("HP Victus 16"); got != 5 {
		t.Errorf("brandScore(HP Victus 16) = %d, want the more specific entry 5", got)
	}
	if got := trad.brandScore("HP Pavilion"); got != 3 {
		t.Errorf("brandScore(HP Pavilion) = %d, want 3", got)
	}
}

func TestTraditionalRejectsUnknownCondition(t *testing.T) {
	t.Parallel()

	spec := device.Specification{
		Brand:          "Dell",
		ProcessorModel: "i5",
		RAMGB:          8,
		DiskCapacityGB: 256,
		DiskType:       device.DiskSSD,
		Condition:      device.Condition("rota"),
		AgeYears:       1,
	}

	if _, err := newTestTraditional(t).Predict(context.Background(), spec); err == nil {
		t.Fatal("Predict() accepted a condition outside the depreciation table")
	}
}

// ─── Configuration ─────────────────────────────────────────────────────

func TestTraditionalConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "empty brand table",
			mutate:  func(c *Config) { c.BrandScores = nil },
			wantErr: "brand score table",
		},
		{
			name:    "ssd multiplier below one",
			mutate:  func(c *Config) { c.SSDMultiplier = 0.5 },
			wantErr: "ssd multiplier",
		},
		{
			name:    "missing condition factor",
			mutate:  func(c *Config) { delete(c.ConditionFactors, device.ConditionFair) },
			wantErr: "no depreciation factor",
		},
		{
			name:    "condition factor above one",
			mutate:  func(c *Config) { c.ConditionFactors[device.ConditionGood] = 1.2 },
			wantErr: "outside (0, 1]",
		},
		{
			name:    "age bands out of order",
			mutate:  func(c *Config) { c.AgeDepreciation[1].MaxYears = 1 },
			wantErr: "strictly ascending",
		},
		{
			name:    "empty age table",
			mutate:  func(c *Config) { c.AgeDepreciation = nil },
			wantErr: "age depreciation table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
