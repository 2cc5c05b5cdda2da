package policy

import (
	"fmt"
	"strings"

	"github.com/prestafacil/avaluador/internal/device"
)

// Canonical client-facing messages, one template per violation code. The
// composer relies on these being stable: identical input always renders
// identical warning text.

const diskMessage = "Disco HDD no permitido por política. Se requiere almacenamiento SSD."

func (e *Evaluator) excludedMessage(family string) string {
	return fmt.Sprintf(
		"Procesador excluido por política (%s): la familia %s no es aceptada. Mínimo aceptado: Core i3 de %dª generación en adelante.",
		e.excludedDisplay(), titleCase(family), e.cfg.floorFor(device.FamilyCoreI3),
	)
}

func (e *Evaluator) generationUnknownMessage(floor int) string {
	return fmt.Sprintf(
		"Procesador sin generación acreditada. Requisito mínimo: %dª generación en adelante.",
		floor,
	)
}

func (e *Evaluator) generationTooLowMessage(gen, floor int) string {
	return fmt.Sprintf(
		"Procesador de %dª generación, anterior a la %dª generación mínima aceptada.",
		gen, floor,
	)
}

// excludedDisplay renders the configured exclusion list the way the policy
// sheet states it: "Pentium/Celeron/Atom".
func (e *Evaluator) excludedDisplay() string {
	names := make([]string, 0, len(e.excluded))
	for _, fam := range e.excluded {
		names = append(names, titleCase(fam))
	}
	return strings.Join(names, "/")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
