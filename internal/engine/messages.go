package engine

import (
	"fmt"
	"strings"

	"github.com/prestafacil/avaluador/internal/utils"
	"github.com/prestafacil/avaluador/internal/vision"
)

// approvedMessage is the contract-confirmation prompt shown when nothing
// blocks the valuation.
func approvedMessage(pesos int64) string {
	return fmt.Sprintf("Tu avalúo del pc enviado es de $%s. ¿Deseas continuar con el contrato?", utils.FormatPesos(pesos))
}

// blockedMessage names every reason that stopped the contract. A client who
// fixes one listed problem must not discover a second rejection afterwards.
func blockedMessage(reasons []string) string {
	return "No es posible realizar el contrato. Motivos: " + strings.Join(reasons, " ")
}

// floorMessage explains an offer that came out under the loan minimum.
func floorMessage(offered, minimum int64) string {
	return fmt.Sprintf("El avalúo ajustado de $%s no alcanza el préstamo mínimo de $%s.",
		utils.FormatPesos(offered), utils.FormatPesos(minimum))
}

// advisoryMessage renders a vision finding as a warning for the agent.
func advisoryMessage(d vision.Damage) string {
	return fmt.Sprintf("Posible daño detectado: %s (impacto estimado %d%% del valor).",
		d.Description, d.EstimatedImpactPct)
}

// dedupe removes repeated warnings, keeping the first occurrence in place.
func dedupe(warnings []string) []string {
	seen := make(map[string]struct{}, len(warnings))
	out := warnings[:0]
	for _, w := range warnings {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
