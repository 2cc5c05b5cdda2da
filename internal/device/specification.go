// Package device defines the typed computer specification and the
// normalization that turns loosely-typed inbound fields into it. Nothing
// downstream (policy, pricing) ever sees unvalidated input.
package device

// FormFactor distinguishes portables from desktop towers. Canonical values
// follow the Spanish wire contract.
type FormFactor string

const (
	FormFactorLaptop  FormFactor = "portatil"
	FormFactorDesktop FormFactor = "escritorio"
)

// DiskType is the declared primary storage technology.
type DiskType string

const (
	DiskSSD DiskType = "ssd"
	DiskHDD DiskType = "hdd"
)

// Condition is the declared cosmetic/functional state of the equipment.
type Condition string

const (
	ConditionExcellent Condition = "excelente"
	ConditionGood      Condition = "buena"
	ConditionFair      Condition = "regular"
	ConditionPoor      Condition = "mala"
)

// Ordinal maps the condition to a numeric scale used as a model feature:
// mala 0, regular 1, buena 2, excelente 3. Unknown conditions never reach
// here; Normalize rejects them.
func (c Condition) Ordinal() int {
	switch c {
	case ConditionExcellent:
		return 3
	case ConditionGood:
		return 2
	case ConditionFair:
		return 1
	default:
		return 0
	}
}

// Wire field names, used in validation errors and transport layers. They
// match the public API contract, which is Spanish.
const (
	FieldFormFactor = "form_factor"
	FieldBrand      = "marca"
	FieldProcessor  = "procesador"
	FieldGeneration = "generacion"
	FieldRAM        = "ram_gb"
	FieldDisk       = "disco_gb"
	FieldDiskType   = "tipo_disco"
	FieldGraphics   = "grafica"
	FieldCondition  = "condicion"
	FieldAge        = "antiguedad"
)

// Specification is the validated, canonical description of one computer.
// Construct it through Normalize; treat instances as read-only afterwards.
//
// ProcessorGeneration is nil when the generation could not be established,
// which is a different situation from generation zero: zero never occurs,
// and unknown is itself policy-relevant.
type Specification struct {
	FormFactor           FormFactor `json:"form_factor"`
	Brand                string     `json:"marca"`
	ProcessorModel       string     `json:"procesador"`
	ProcessorGeneration  *int       `json:"generacion,omitempty"`
	RAMGB                int        `json:"ram_gb"`
	DiskCapacityGB       int        `json:"disco_gb"`
	DiskType             DiskType   `json:"tipo_disco"`
	HasDedicatedGraphics bool       `json:"grafica"`
	Condition            Condition  `json:"condicion"`
	AgeYears             int        `json:"antiguedad"`
}

// GenerationKnown reports whether a processor generation was declared or
// could be extracted from the model text.
func (s Specification) GenerationKnown() bool {
	return s.ProcessorGeneration != nil
}

// Generation returns the known generation, or 0 with ok=false when unknown.
func (s Specification) Generation() (gen int, ok bool) {
	if s.ProcessorGeneration == nil {
		return 0, false
	}
	return *s.ProcessorGeneration, true
}
