package predictor

import (
	"fmt"

	"github.com/prestafacil/avaluador/internal/device"
)

// TraditionalVersion is the synthetic model version reported by the
// rule-based estimator so results always carry provenance.
const TraditionalVersion = "tradicional-v1"

// BrandScore maps a folded brand substring to its resale score. Entries are
// matched in declared order so multi-word brands can shadow their vendor
// ("hp victus" before "hp").
type BrandScore struct {
	Brand string
	Score int
}

// AgeBand assigns a depreciation factor to devices up to MaxYears old.
// Bands are evaluated in declared order; the last band should be open-ended
// via a large MaxYears.
type AgeBand struct {
	MaxYears int
	Factor   float64
}

// Config carries the rule tables for the Traditional estimator. All money
// figures are Colombian pesos.
type Config struct {
	// BrandScores rank brands by resale strength on a 1..5 scale.
	BrandScores []BrandScore
	// DefaultBrandScore applies when no brand entry matches.
	DefaultBrandScore int

	// CPUScores rank canonical processor families on a 1..9 scale.
	CPUScores map[string]int
	// DefaultCPUScore applies to families outside the table, including
	// processors whose family could not be recognized at all.
	DefaultCPUScore int

	// BrandWeight, CPUWeight and RAMWeight are pesos per score point or
	// gigabyte in the base estimate.
	BrandWeight float64
	CPUWeight   float64
	RAMWeight   float64
	// DiskWeightPerGB is pesos per gigabyte of storage; SSDMultiplier
	// scales that term when the disk is solid state.
	DiskWeightPerGB float64
	SSDMultiplier   float64
	// GraphicsBonus is added once when the device has a dedicated GPU.
	GraphicsBonus float64
	// BaseFloor is the minimum base estimate before condition and age
	// depreciation apply.
	BaseFloor float64

	// ConditionFactors scale the base estimate by declared condition.
	ConditionFactors map[device.Condition]float64
	// AgeDepreciation scales the base estimate by device age.
	AgeDepreciation []AgeBand
}

// DefaultConfig returns the resale tables used in production.
func DefaultConfig() Config {
	return Config{
		BrandScores: []BrandScore{
			{Brand: "hp victus", Score: 4},
			{Brand: "apple", Score: 5},
			{Brand: "dell", Score: 5},
			{Brand: "lenovo", Score: 4},
			{Brand: "hp", Score: 4},
			{Brand: "msi", Score: 4},
			{Brand: "asus", Score: 3},
			{Brand: "samsung", Score: 3},
			{Brand: "sony", Score: 3},
			{Brand: "lg", Score: 3},
			{Brand: "acer", Score: 2},
			{Brand: "toshiba", Score: 2},
			{Brand: "koorui", Score: 1},
		},
		DefaultBrandScore: 2,
		CPUScores: map[string]int{
			device.FamilyAtom:    2,
			device.FamilyCeleron: 2,
			device.FamilyPentium: 3,
			device.FamilyAthlon:  3,
			device.FamilyCoreI3:  4,
			device.FamilyRyzen3:  4,
			device.FamilyCoreI5:  6,
			device.FamilyRyzen5:  6,
			device.FamilyXeon:    7,
			device.FamilyAppleM1: 7,
			device.FamilyCoreI7:  8,
			device.FamilyRyzen7:  8,
			device.FamilyAppleM2: 8,
			device.FamilyCoreI9:  9,
			device.FamilyRyzen9:  9,
			device.FamilyAppleM3: 9,
		},
		DefaultCPUScore: 4,
		BrandWeight:     50000,
		CPUWeight:       75000,
		RAMWeight:       25000,
		DiskWeightPerGB: 100,
		SSDMultiplier:   1.5,
		GraphicsBonus:   100000,
		BaseFloor:       100000,
		ConditionFactors: map[device.Condition]float64{
			device.ConditionExcellent: 1.0,
			device.ConditionGood:      0.85,
			device.ConditionFair:      0.70,
			device.ConditionPoor:      0.50,
		},
		AgeDepreciation: []AgeBand{
			{MaxYears: 1, Factor: 1.0},
			{MaxYears: 2, Factor: 0.85},
			{MaxYears: 3, Factor: 0.70},
			{MaxYears: 5, Factor: 0.50},
			{MaxYears: 1 << 30, Factor: 0.30},
		},
	}
}

// Validate reports the first problem with the configuration.
func (c Config) Validate() error {
	if len(c.BrandScores) == 0 {
		return fmt.Errorf("brand score table is empty")
	}
	if c.DefaultBrandScore <= 0 || c.DefaultCPUScore <= 0 {
		return fmt.Errorf("default scores must be positive")
	}
	if c.BrandWeight <= 0 || c.CPUWeight <= 0 || c.RAMWeight <= 0 || c.DiskWeightPerGB <= 0 {
		return fmt.Errorf("weights must be positive")
	}
	if c.SSDMultiplier < 1 {
		return fmt.Errorf("ssd multiplier %v must be at least 1", c.SSDMultiplier)
	}
	if c.BaseFloor < 0 {
		return fmt.Errorf("base floor must not be negative")
	}
	for _, cond := range []device.Condition{device.ConditionExcellent, device.ConditionGood, device.ConditionFair, device.ConditionPoor} {
		factor, ok := c.ConditionFactors[cond]
		if !ok {
			return fmt.Errorf("condition %q has no depreciation factor", cond)
		}
		if factor <= 0 || factor > 1 {
			return fmt.Errorf("condition %q factor %v outside (0, 1]", cond, factor)
		}
	}
	if len(c.AgeDepreciation) == 0 {
		return fmt.Errorf("age depreciation table is empty")
	}
	prev := 0
	for _, band := range c.AgeDepreciation {
		if band.MaxYears <= prev {
			return fmt.Errorf("age bands must be strictly ascending")
		}
		if band.Factor <= 0 || band.Factor > 1 {
			return fmt.Errorf("age band factor %v outside (0, 1]", band.Factor)
		}
		prev = band.MaxYears
	}
	return nil
}
