package predictor

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/prestafacil/avaluador/internal/device"
	"github.com/prestafacil/avaluador/internal/interfaces"
	"github.com/prestafacil/avaluador/internal/utils"
)

// Traditional estimates prices from resale tables instead of a trained
// regression. It exists so valuation keeps working when no model artifact has
// been registered yet; the application selects it once at boot, never in the
// middle of a request. Results carry the synthetic version TraditionalVersion
// so every valuation still names the model that produced it.
type Traditional struct {
	cfg    Config
	logger interfaces.Logger
}

// NewTraditional validates the rule tables and returns the estimator. A nil
// logger is replaced with a no-op one.
func NewTraditional(cfg Config, logger interfaces.Logger) (*Traditional, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("traditional estimator config: %w", err)
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Traditional{cfg: cfg, logger: logger}, nil
}

// Predict implements PricePredictor. The base estimate is a weighted sum of
// brand score, processor score, memory and storage, floored at BaseFloor,
// then depreciated by condition and age. Factor arithmetic runs in decimals
// so repeated multiplications cannot drift.
func (t *Traditional) Predict(ctx context.Context, spec device.Specification) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	conditionFactor, ok := t.cfg.ConditionFactors[spec.Condition]
	if !ok {
		return Prediction{}, fmt.Errorf("no depreciation factor for condition %q", spec.Condition)
	}

	base := t.baseEstimate(spec)
	if floor := decimal.NewFromFloat(t.cfg.BaseFloor); base.LessThan(floor) {
		base = floor
	}

	value := base.
		Mul(decimal.NewFromFloat(conditionFactor)).
		Mul(decimal.NewFromFloat(t.ageFactor(spec.AgeYears)))

	price := value.InexactFloat64()
	return Prediction{Raw: price, Price: price, ModelVersion: TraditionalVersion}, nil
}

func (t *Traditional) baseEstimate(spec device.Specification) decimal.Decimal {
	disk := decimal.NewFromFloat(t.cfg.DiskWeightPerGB).Mul(decimal.NewFromInt(int64(spec.DiskCapacityGB)))
	if spec.DiskType == device.DiskSSD {
		disk = disk.Mul(decimal.NewFromFloat(t.cfg.SSDMultiplier))
	}

	base := decimal.NewFromFloat(t.cfg.BrandWeight).Mul(decimal.NewFromInt(int64(t.brandScore(spec.Brand)))).
		Add(decimal.NewFromFloat(t.cfg.CPUWeight).Mul(decimal.NewFromInt(int64(t.cpuScore(spec.ProcessorModel))))).
		Add(decimal.NewFromFloat(t.cfg.RAMWeight).Mul(decimal.NewFromInt(int64(spec.RAMGB)))).
		Add(disk)
	if spec.HasDedicatedGraphics {
		base = base.Add(decimal.NewFromFloat(t.cfg.GraphicsBonus))
	}
	return base
}

func (t *Traditional) brandScore(brand string) int {
	folded := utils.Fold(brand)
	for _, entry := range t.cfg.BrandScores {
		if strings.Contains(folded, entry.Brand) {
			return entry.Score
		}
	}
	t.logger.Debug("brand not in resale table, using default score",
		interfaces.Field{Key: "marca", Value: brand})
	return t.cfg.DefaultBrandScore
}

func (t *Traditional) cpuScore(processorModel string) int {
	family := device.ParseProcessor(processorModel).Family
	if score, ok := t.cfg.CPUScores[family]; ok {
		return score
	}
	return t.cfg.DefaultCPUScore
}

func (t *Traditional) ageFactor(years int) float64 {
	for _, band := range t.cfg.AgeDepreciation {
		if years <= band.MaxYears {
			return band.Factor
		}
	}
	return t.cfg.AgeDepreciation[len(t.cfg.AgeDepreciation)-1].Factor
}
