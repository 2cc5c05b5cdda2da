// Package vision extracts advisory signals from equipment photos and seller
// notes: visible damage, plus spec readings recovered from stickers or BIOS
// screens. Signals never change a predicted price and never block a
// valuation; they surface as warnings so a branch agent re-checks the
// equipment in person before signing anything.
package vision

import "context"

// Provider names reported in Signals.Provider.
const (
	ProviderGemini    = "gemini"
	ProviderHeuristic = "heuristica"
)

// Image is one photo of the equipment, already decoded from transport.
type Image struct {
	// MIMEType is the content type, e.g. "image/jpeg".
	MIMEType string
	Data     []byte
}

// Damage is one detected cosmetic or functional defect.
type Damage struct {
	// Code identifies the defect kind, e.g. "pantalla_quebrada". Codes
	// come from the shared catalog regardless of provider.
	Code string `json:"codigo"`
	// Description is the client-facing Spanish description.
	Description string `json:"descripcion"`
	// EstimatedImpactPct is the estimated resale impact as a percentage
	// of the price. Informational only.
	EstimatedImpactPct int `json:"impacto_estimado_pct"`
	// Confidence is the provider's certainty in [0, 1].
	Confidence float64 `json:"confianza"`
}

// SpecHints are machine-readable readings recovered from photos or free
// text. Callers may use them to prefill fields the seller left out; a hint
// never overrides a declared value. Nil means the provider saw nothing.
type SpecHints struct {
	RAMGB                *int
	DiskCapacityGB       *int
	ProcessorGeneration  *int
	HasDedicatedGraphics *bool
}

// Empty reports whether no hint was recovered at all.
func (h SpecHints) Empty() bool {
	return h.RAMGB == nil && h.DiskCapacityGB == nil &&
		h.ProcessorGeneration == nil && h.HasDedicatedGraphics == nil
}

// Signals is the advisory outcome of one analysis. Damages are in catalog
// order so identical findings always render identically.
type Signals struct {
	Damages  []Damage
	Hints    SpecHints
	Provider string
}

// Provider analyzes equipment photos together with the seller's free-text
// notes. Implementations must treat both as untrusted input.
type Provider interface {
	Analyze(ctx context.Context, images []Image, notes string) (Signals, error)
}
