package server

import (
	"github.com/prestafacil/avaluador/internal/device"
)

// SolicitudAvaluo is the appraisal request payload. Pointer fields separate
// "not sent" from a declared zero; a null or missing field stays missing all
// the way into validation.
type SolicitudAvaluo struct {
	FormFactor *string `json:"form_factor,omitempty" example:"portatil"`
	Marca      *string `json:"marca" example:"dell"`
	Procesador *string `json:"procesador" example:"Intel Core i5 1135G7"`
	Generacion *int    `json:"generacion,omitempty" example:"11"`
	RAMGB      *int    `json:"ram_gb" example:"16"`
	DiscoGB    *int    `json:"disco_gb" example:"512"`
	TipoDisco  *string `json:"tipo_disco" example:"ssd"`
	Grafica    *bool   `json:"grafica" example:"false"`
	Condicion  *string `json:"condicion" example:"buena"`
	Antiguedad *int    `json:"antiguedad" example:"2"`
	Notas      string  `json:"notas,omitempty" example:"pantalla con rayones leves"`
}

// raw converts the payload into the untyped specification the engine
// normalizes. Absent fields map to nil, never to a zero value.
func (s SolicitudAvaluo) raw() device.RawSpecification {
	return device.RawSpecification{
		FormFactor:           optional(s.FormFactor),
		Brand:                optional(s.Marca),
		ProcessorModel:       optional(s.Procesador),
		ProcessorGeneration:  optional(s.Generacion),
		RAMGB:                optional(s.RAMGB),
		DiskCapacityGB:       optional(s.DiscoGB),
		DiskType:             optional(s.TipoDisco),
		HasDedicatedGraphics: optional(s.Grafica),
		Condition:            optional(s.Condicion),
		AgeYears:             optional(s.Antiguedad),
	}
}

func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// ErrorRespuesta is the uniform error payload returned by the API.
type ErrorRespuesta struct {
	Error string `json:"error" example:"campo marca: obligatorio"`
	Campo string `json:"campo,omitempty" example:"marca"`
}

// ModeloRespuesta describes the price model answering appraisals.
type ModeloRespuesta struct {
	Version     string  `json:"version" example:"lineal-2025-11"`
	Algoritmo   string  `json:"algoritmo" example:"regresion_lineal"`
	R2          float64 `json:"r2,omitempty" example:"0.91"`
	EntrenadoEn int64   `json:"entrenado_en,omitempty" example:"1762128000"`
	// Origen is "registro" for a trained artifact, "tradicional" for the
	// built-in estimator.
	Origen string `json:"origen" example:"registro"`
}

// SaludRespuesta is the health probe payload.
type SaludRespuesta struct {
	Estado        string `json:"estado" example:"ok"`
	VersionModelo string `json:"version_modelo" example:"tradicional-v1"`
}
