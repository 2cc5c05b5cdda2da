package vision

import "sort"

// Damage codes shared by every provider. The Gemini prompt enumerates these
// same codes; anything outside the catalog is discarded.
const (
	DamageScreenCracked   = "pantalla_quebrada"
	DamageChassisDamaged  = "carcasa_danada"
	DamageScratches       = "rayones"
	DamageHingeBroken     = "bisagra_rota"
	DamageKeyboardMissing = "teclado_incompleto"
	DamageStains          = "manchas"
)

type damageInfo struct {
	rank        int
	description string
	impactPct   int
}

// damageCatalog carries the client description and the estimated resale
// impact per defect. The percentages come from the appraisal discounts the
// business applies in-store: a cracked screen takes roughly 40% off, stains
// closer to 8%.
var damageCatalog = map[string]damageInfo{
	DamageScreenCracked:   {0, "Pantalla quebrada o trizada", 40},
	DamageChassisDamaged:  {1, "Carcasa golpeada o dañada", 15},
	DamageScratches:       {2, "Rayones visibles en la superficie", 10},
	DamageHingeBroken:     {3, "Bisagra rota o floja", 20},
	DamageKeyboardMissing: {4, "Teclado incompleto o con teclas dañadas", 15},
	DamageStains:          {5, "Manchas en pantalla o carcasa", 8},
}

// newDamage builds a catalog-backed Damage. Returns ok=false for codes
// outside the catalog. Confidence is clamped to [0, 1].
func newDamage(code string, confidence float64) (Damage, bool) {
	info, ok := damageCatalog[code]
	if !ok {
		return Damage{}, false
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return Damage{
		Code:               code,
		Description:        info.description,
		EstimatedImpactPct: info.impactPct,
		Confidence:         confidence,
	}, true
}

// sortDamages orders damages by catalog rank so identical findings render
// identically no matter which provider reported them first.
func sortDamages(damages []Damage) {
	sort.SliceStable(damages, func(i, j int) bool {
		return damageCatalog[damages[i].Code].rank < damageCatalog[damages[j].Code].rank
	})
}
