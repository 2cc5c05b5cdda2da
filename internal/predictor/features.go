package predictor

import "github.com/prestafacil/avaluador/internal/device"

// generationSentinel stands in for an unknown processor generation in the
// feature vector. It is negative so the model can tell it apart from any
// real generation; zero is never used because zero must not mean unknown.
const generationSentinel = -1

// Features assembles the canonical feature vector for spec, in the order
// model.CanonicalFeatures declares: ram, disk capacity, SSD indicator,
// generation or sentinel, dedicated graphics indicator, condition ordinal,
// age in years.
func Features(spec device.Specification) []float64 {
	generation := float64(generationSentinel)
	if gen, known := spec.Generation(); known {
		generation = float64(gen)
	}
	return []float64{
		float64(spec.RAMGB),
		float64(spec.DiskCapacityGB),
		indicator(spec.DiskType == device.DiskSSD),
		generation,
		indicator(spec.HasDedicatedGraphics),
		float64(spec.Condition.Ordinal()),
		float64(spec.AgeYears),
	}
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
