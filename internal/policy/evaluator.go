// Package policy applies the hard eligibility rules to a normalized
// specification: excluded processor families, minimum processor generation
// and mandatory SSD storage. Price never enters here; the verdict is
// independent of what the equipment is worth.
package policy

import (
	"strings"

	"github.com/prestafacil/avaluador/internal/device"
	"github.com/prestafacil/avaluador/internal/utils"
)

// Code identifies one eligibility rule violation.
type Code string

const (
	CodeCPUExcluded          Code = "cpu_excluded"
	CodeCPUGenerationUnknown Code = "cpu_generation_unknown"
	CodeCPUGenerationTooLow  Code = "cpu_generation_too_low"
	CodeDiskNotSSD           Code = "disk_not_ssd"
)

// Violation pairs a rule code with its client-facing explanation.
type Violation struct {
	Code    Code   `json:"codigo"`
	Message string `json:"mensaje"`
}

// Verdict is the outcome of every eligibility rule evaluated against one
// specification. Violations keep rule order; Eligible is true iff the set
// is empty.
type Verdict struct {
	Violations []Violation `json:"violaciones,omitempty"`
	Eligible   bool        `json:"elegible"`
}

// Has reports whether the verdict contains a violation with the given code.
func (v Verdict) Has(code Code) bool {
	for _, viol := range v.Violations {
		if viol.Code == code {
			return true
		}
	}
	return false
}

// Evaluator holds the folded exclusion list and the generation floors.
// Evaluate is a pure function of the specification and this configuration.
type Evaluator struct {
	cfg      Config
	excluded []string // folded once at construction
}

// New validates cfg and prepares an Evaluator.
func New(cfg Config) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	folded := make([]string, 0, len(cfg.ExcludedFamilies))
	for _, fam := range cfg.ExcludedFamilies {
		folded = append(folded, utils.NormalizeToken(fam))
	}
	return &Evaluator{cfg: cfg, excluded: folded}, nil
}

// Evaluate collects every applicable violation. Rules never short-circuit,
// so a Celeron on a mechanical disk reports both problems at once.
func (e *Evaluator) Evaluate(spec device.Specification) Verdict {
	var violations []Violation

	if family, hit := e.matchExcluded(spec.ProcessorModel); hit {
		violations = append(violations, Violation{
			Code:    CodeCPUExcluded,
			Message: e.excludedMessage(family),
		})
	}

	info := device.ParseProcessor(spec.ProcessorModel)
	floor := e.cfg.floorFor(info.Family)
	if gen, known := spec.Generation(); !known {
		violations = append(violations, Violation{
			Code:    CodeCPUGenerationUnknown,
			Message: e.generationUnknownMessage(floor),
		})
	} else if gen < floor {
		violations = append(violations, Violation{
			Code:    CodeCPUGenerationTooLow,
			Message: e.generationTooLowMessage(gen, floor),
		})
	}

	if spec.DiskType != device.DiskSSD {
		violations = append(violations, Violation{
			Code:    CodeDiskNotSSD,
			Message: diskMessage,
		})
	}

	return Verdict{Violations: violations, Eligible: len(violations) == 0}
}

// matchExcluded returns the first configured family found in the processor
// text, preserving configuration order so messages are deterministic.
func (e *Evaluator) matchExcluded(processorModel string) (string, bool) {
	text := utils.NormalizeToken(processorModel)
	for _, fam := range e.excluded {
		if fam != "" && strings.Contains(text, fam) {
			return fam, true
		}
	}
	return "", false
}
