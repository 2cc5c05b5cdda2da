package engine

// Result is the wire-level outcome of one valuation. Field names follow the
// Spanish client contract.
type Result struct {
	// PrecioPredicho is the loan offer in whole pesos, never negative. It
	// keeps its computed value even when the valuation is blocked, so an
	// agent can see how far below the minimum an offer fell.
	PrecioPredicho int64 `json:"precio_predicho"`
	// Bloqueado reports that no contract can be written: a policy rule
	// failed, the offer fell below the loan minimum, or both.
	Bloqueado bool `json:"bloqueado"`
	// MensajeCliente is the text shown to the client: a confirmation
	// prompt when approved, otherwise every reason behind the block.
	MensajeCliente string `json:"mensaje_cliente"`
	// Advertencias lists policy violations, the floor shortfall and
	// advisory vision notes, in that order, without duplicates.
	Advertencias []string `json:"advertencias"`
	Detalle      Detail   `json:"detalle"`
}

// Detail is the diagnostic breakdown behind a Result.
type Detail struct {
	// PrecioBaseModelo is the model estimate before the buy-sale factor.
	PrecioBaseModelo float64 `json:"precio_base_modelo"`
	// PrecioMercado is the factored offer in whole pesos. It equals
	// PrecioPredicho; it exists here so the breakdown reads complete.
	PrecioMercado int64 `json:"precio_mercado"`
	// MinPrestamo is the loan minimum the offer was checked against.
	MinPrestamo int64 `json:"min_prestamo"`
	// VersionModelo names the model that produced the estimate.
	VersionModelo string `json:"version_modelo"`
	// BloqueadoPorPolitica and BloqueadoPorMinimo split Bloqueado by
	// cause; both can hold at once.
	BloqueadoPorPolitica bool `json:"bloqueado_por_politica"`
	BloqueadoPorMinimo   bool `json:"bloqueado_por_minimo"`
}
