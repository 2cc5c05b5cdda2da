// Package market turns a raw model estimate into the amount the business is
// actually willing to lend. Two levers apply: the buy-sale factor that
// discounts resale prices to loan offers, and the minimum loan amount below
// which no contract is written.
package market

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rules are the commercial adjustment parameters. All money figures are
// Colombian pesos.
type Rules struct {
	// FactorCompraventa scales the model estimate down to a loan offer.
	// Must lie in (0, 1].
	FactorCompraventa decimal.Decimal
	// MinPrestamo is the smallest loan on offer. An adjusted price below
	// it blocks the valuation; the price is never raised to meet it.
	MinPrestamo decimal.Decimal
}

// DefaultRules returns the production buy-sale factor and loan minimum.
func DefaultRules() Rules {
	return Rules{
		FactorCompraventa: decimal.NewFromFloat(0.44),
		MinPrestamo:       decimal.NewFromInt(100000),
	}
}

// Validate reports the first problem with the rules.
func (r Rules) Validate() error {
	if r.FactorCompraventa.LessThanOrEqual(decimal.Zero) || r.FactorCompraventa.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("factor compraventa %s outside (0, 1]", r.FactorCompraventa)
	}
	if r.MinPrestamo.IsNegative() {
		return fmt.Errorf("minimum loan %s must not be negative", r.MinPrestamo)
	}
	return nil
}

// Adjustment is the outcome of applying the rules to one estimate.
type Adjustment struct {
	// Adjusted is the factored price before rounding.
	Adjusted decimal.Decimal
	// Final is the offer in whole pesos, never negative.
	Final int64
	// FloorViolated reports that the adjusted price fell below
	// MinPrestamo. Callers block the valuation; they do not round up.
	FloorViolated bool
}

// Apply scales the clamped model estimate by the buy-sale factor and checks
// it against the loan minimum.
func (r Rules) Apply(price float64) Adjustment {
	adjusted := decimal.NewFromFloat(price).Mul(r.FactorCompraventa)

	final := adjusted.Round(0).IntPart()
	if final < 0 {
		final = 0
	}

	return Adjustment{
		Adjusted:      adjusted,
		Final:         final,
		FloorViolated: adjusted.LessThan(r.MinPrestamo),
	}
}
