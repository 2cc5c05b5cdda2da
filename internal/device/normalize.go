package device

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/prestafacil/avaluador/internal/utils"
)

// ValidationError reports a single inbound field that failed validation.
// Reasons are client-facing and written in Spanish like the rest of the
// wire contract.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("campo %s: %s", e.Field, e.Reason)
}

// RawSpecification carries the untyped inbound fields exactly as the
// transport received them. Values may be strings, JSON numbers, booleans or
// nil; Normalize is the only path from here to a Specification.
type RawSpecification struct {
	FormFactor           any
	Brand                any
	ProcessorModel       any
	ProcessorGeneration  any
	RAMGB                any
	DiskCapacityGB       any
	DiskType             any
	HasDedicatedGraphics any
	Condition            any
	AgeYears             any
}

var formFactorAliases = map[string]FormFactor{
	"portatil":   FormFactorLaptop,
	"laptop":     FormFactorLaptop,
	"notebook":   FormFactorLaptop,
	"escritorio": FormFactorDesktop,
	"desktop":    FormFactorDesktop,
	"torre":      FormFactorDesktop,
	"sobremesa":  FormFactorDesktop,
}

var diskTypeAliases = map[string]DiskType{
	"ssd":           DiskSSD,
	"nvme":          DiskSSD,
	"m.2":           DiskSSD,
	"estado solido": DiskSSD,
	"hdd":           DiskHDD,
	"mecanico":      DiskHDD,
	"disco duro":    DiskHDD,
}

var conditionAliases = map[string]Condition{
	"excelente": ConditionExcellent,
	"excellent": ConditionExcellent,
	"muy buena": ConditionGood,
	"buena":     ConditionGood,
	"good":      ConditionGood,
	"bueno":     ConditionGood,
	"regular":   ConditionFair,
	"fair":      ConditionFair,
	"mala":      ConditionPoor,
	"malo":      ConditionPoor,
	"poor":      ConditionPoor,
}

// Normalize validates and canonicalizes raw into a Specification. It fails
// with a *ValidationError naming the first offending field; required fields
// are never silently defaulted. A declared processor generation wins over
// extraction from the model text.
func Normalize(raw RawSpecification) (Specification, error) {
	var spec Specification

	ff, err := parseText(FieldFormFactor, raw.FormFactor)
	if err != nil {
		return Specification{}, err
	}
	form, ok := formFactorAliases[utils.NormalizeToken(ff)]
	if !ok {
		return Specification{}, &ValidationError{FieldFormFactor, fmt.Sprintf("valor no reconocido %q; se acepta portatil o escritorio", ff)}
	}
	spec.FormFactor = form

	if spec.Brand, err = parseText(FieldBrand, raw.Brand); err != nil {
		return Specification{}, err
	}
	if spec.ProcessorModel, err = parseText(FieldProcessor, raw.ProcessorModel); err != nil {
		return Specification{}, err
	}

	gen, err := parseOptionalGeneration(raw.ProcessorGeneration)
	if err != nil {
		return Specification{}, err
	}

	if spec.RAMGB, err = parsePositiveAmount(FieldRAM, raw.RAMGB); err != nil {
		return Specification{}, err
	}
	if spec.DiskCapacityGB, err = parsePositiveAmount(FieldDisk, raw.DiskCapacityGB); err != nil {
		return Specification{}, err
	}

	dt, err := parseText(FieldDiskType, raw.DiskType)
	if err != nil {
		return Specification{}, err
	}
	diskType, ok := diskTypeAliases[utils.NormalizeToken(dt)]
	if !ok {
		return Specification{}, &ValidationError{FieldDiskType, fmt.Sprintf("valor no reconocido %q; se acepta ssd o hdd", dt)}
	}
	spec.DiskType = diskType

	if spec.HasDedicatedGraphics, err = parseBool(FieldGraphics, raw.HasDedicatedGraphics); err != nil {
		return Specification{}, err
	}

	cond, err := parseText(FieldCondition, raw.Condition)
	if err != nil {
		return Specification{}, err
	}
	condition, ok := conditionAliases[utils.NormalizeToken(cond)]
	if !ok {
		return Specification{}, &ValidationError{FieldCondition, fmt.Sprintf("valor no reconocido %q; se acepta excelente, buena, regular o mala", cond)}
	}
	spec.Condition = condition

	if spec.AgeYears, err = parseNonNegativeInt(FieldAge, raw.AgeYears); err != nil {
		return Specification{}, err
	}

	if gen == nil {
		if parsed := ParseProcessor(spec.ProcessorModel); parsed.Generation != nil {
			g := *parsed.Generation
			gen = &g
		}
	}
	spec.ProcessorGeneration = gen

	return spec, nil
}

func parseText(field string, v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", &ValidationError{field, "campo requerido"}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return "", &ValidationError{field, "campo requerido"}
		}
		return s, nil
	default:
		return "", &ValidationError{field, "debe ser texto"}
	}
}

// parsePositiveAmount accepts numeric values or numeric strings with an
// optional gb/tb suffix ("512", "512 GB", "1tb" → 1024) and requires the
// result to be a positive whole number.
func parsePositiveAmount(field string, v any) (int, error) {
	n, err := coerceInt(field, v, true)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, &ValidationError{field, "debe ser mayor que cero"}
	}
	return n, nil
}

func parseNonNegativeInt(field string, v any) (int, error) {
	n, err := coerceInt(field, v, false)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &ValidationError{field, "no puede ser negativo"}
	}
	return n, nil
}

func coerceInt(field string, v any, unitAware bool) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, &ValidationError{field, "campo requerido"}
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != math.Trunc(t) {
			return 0, &ValidationError{field, "debe ser un número entero"}
		}
		return int(t), nil
	case json.Number:
		return coerceIntString(field, t.String(), unitAware)
	case string:
		return coerceIntString(field, t, unitAware)
	default:
		return 0, &ValidationError{field, "tipo de dato no soportado"}
	}
}

func coerceIntString(field, s string, unitAware bool) (int, error) {
	token := utils.NormalizeToken(s)
	if token == "" {
		return 0, &ValidationError{field, "campo requerido"}
	}

	mult := 1
	if unitAware {
		switch {
		case strings.HasSuffix(token, "tb"):
			mult = 1024
			token = strings.TrimSpace(strings.TrimSuffix(token, "tb"))
		case strings.HasSuffix(token, "gb"):
			token = strings.TrimSpace(strings.TrimSuffix(token, "gb"))
		}
	}

	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, &ValidationError{field, fmt.Sprintf("valor numérico inválido %q", s)}
	}
	if f != math.Trunc(f) {
		return 0, &ValidationError{field, "debe ser un número entero"}
	}
	return int(f) * mult, nil
}

func parseBool(field string, v any) (bool, error) {
	switch t := v.(type) {
	case nil:
		return false, &ValidationError{field, "campo requerido"}
	case bool:
		return t, nil
	case string:
		switch utils.NormalizeToken(t) {
		case "si", "yes", "true", "1":
			return true, nil
		case "no", "false", "0":
			return false, nil
		case "":
			return false, &ValidationError{field, "campo requerido"}
		default:
			return false, &ValidationError{field, fmt.Sprintf("valor booleano inválido %q; se acepta si o no", t)}
		}
	case float64:
		switch t {
		case 1:
			return true, nil
		case 0:
			return false, nil
		default:
			return false, &ValidationError{field, "valor booleano inválido"}
		}
	default:
		return false, &ValidationError{field, "valor booleano inválido"}
	}
}

// parseOptionalGeneration admits a missing generation (nil or empty string)
// but rejects zero and negatives outright: zero would silently stand in for
// "unknown", and the two must never be conflated.
func parseOptionalGeneration(v any) (*int, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	n, err := coerceInt(FieldGeneration, v, false)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, &ValidationError{FieldGeneration, "debe ser un entero positivo; cero no representa generación desconocida"}
	}
	return &n, nil
}
