package vision

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/prestafacil/avaluador/internal/device"
	"github.com/prestafacil/avaluador/internal/interfaces"
	"github.com/prestafacil/avaluador/internal/utils"
)

// Heuristic detects damage and spec hints from the seller's notes alone,
// with keyword rules. It is the provider of last resort when no Gemini key
// is configured; photos passed to it are ignored.
type Heuristic struct {
	logger interfaces.Logger
}

// NewHeuristic returns the keyword-based provider. A nil logger is replaced
// with a no-op one.
func NewHeuristic(logger interfaces.Logger) *Heuristic {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Heuristic{logger: logger}
}

// heuristicConfidence is reported for every keyword hit. Keyword matches are
// either present or not; there is no graded certainty to report.
const heuristicConfidence = 0.9

type damageRule struct {
	code     string
	keywords []string
}

// damageRules are scanned in order against folded notes. Keywords are
// pre-folded: no accents, lowercase.
var damageRules = []damageRule{
	{DamageScreenCracked, []string{"pantalla quebrada", "pantalla rota", "pantalla trizada", "pantalla partida"}},
	{DamageChassisDamaged, []string{"carcasa danada", "carcasa rota", "carcasa golpeada", "chasis danado", "golpes"}},
	{DamageScratches, []string{"rayon", "rayada", "rayado"}},
	{DamageHingeBroken, []string{"bisagra rota", "bisagra danada", "bisagra floja", "bisagra suelta"}},
	{DamageKeyboardMissing, []string{"teclado incompleto", "faltan teclas", "tecla faltante", "teclas danadas"}},
	{DamageStains, []string{"mancha"}},
}

// Analyze implements Provider.
func (h *Heuristic) Analyze(ctx context.Context, _ []Image, notes string) (Signals, error) {
	if err := ctx.Err(); err != nil {
		return Signals{}, err
	}

	signals := Signals{
		Damages:  detectDamages(utils.Fold(notes)),
		Hints:    ExtractHints(notes),
		Provider: ProviderHeuristic,
	}

	if len(signals.Damages) > 0 {
		h.logger.Debug("keyword analysis found damage mentions",
			interfaces.Field{Key: "danios", Value: len(signals.Damages)})
	}
	return signals, nil
}

func detectDamages(folded string) []Damage {
	var damages []Damage
	for _, rule := range damageRules {
		idx := -1
		for _, kw := range rule.keywords {
			if i := strings.Index(folded, kw); i >= 0 {
				idx = i
				break
			}
		}
		if idx < 0 || negatedAt(folded, idx) {
			continue
		}
		if dmg, ok := newDamage(rule.code, heuristicConfidence); ok {
			damages = append(damages, dmg)
		}
	}
	sortDamages(damages)
	return damages
}

// negatedAt reports whether one of the three words preceding the match reads
// as a negation ("sin rayones", "no tiene manchas"). Best effort: sellers
// often describe what the equipment does NOT have.
func negatedAt(text string, idx int) bool {
	words := strings.Fields(text[:idx])
	from := len(words) - 3
	if from < 0 {
		from = 0
	}
	for _, w := range words[from:] {
		switch strings.Trim(w, ".,;:") {
		case "sin", "no", "ningun", "ninguna", "tampoco":
			return true
		}
	}
	return false
}

var (
	// "16gb de ram", "ram: 8 gb"
	reHintRAM = regexp.MustCompile(`\b(\d{1,3})\s*gb\s*(?:de\s+)?ram\b|\bram\s*(?:de\s+)?:?\s*(\d{1,3})\s*gb\b`)
	// storage: terabytes anywhere, or a 3-4 digit gigabyte figure, which
	// is too large to be memory
	reHintDiskTB = regexp.MustCompile(`\b(\d{1,2})\s*tb\b`)
	reHintDiskGB = regexp.MustCompile(`\b(\d{3,4})\s*gb\b`)
	// discrete GPU markers
	reHintGPU = regexp.MustCompile(`\b(?:rtx|gtx)\s*\d|\bradeon\s+rx\b|\brx\s*\d{3,4}\b`)
	// integrated-only markers
	reHintIntegrated = regexp.MustCompile(`\bintel\s+(?:hd|uhd|iris)\b|\bgrafic\w*\s+integrad`)
)

// ExtractHints recovers spec readings from free text: memory and storage
// sizes, a processor generation, and whether a discrete GPU is mentioned.
// Transport layers use it to prefill fields the seller left out; a hint
// never overrides a declared value.
func ExtractHints(text string) SpecHints {
	folded := utils.NormalizeToken(text)
	var hints SpecHints

	if m := reHintRAM.FindStringSubmatch(folded); m != nil {
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		if gb, err := strconv.Atoi(digits); err == nil && gb > 0 {
			hints.RAMGB = &gb
		}
	}

	if m := reHintDiskTB.FindStringSubmatch(folded); m != nil {
		if tb, err := strconv.Atoi(m[1]); err == nil && tb > 0 {
			gb := tb * 1024
			hints.DiskCapacityGB = &gb
		}
	} else if m := reHintDiskGB.FindStringSubmatch(folded); m != nil {
		if gb, err := strconv.Atoi(m[1]); err == nil && gb > 0 {
			hints.DiskCapacityGB = &gb
		}
	}

	if gen := device.ParseProcessor(folded).Generation; gen != nil {
		hints.ProcessorGeneration = gen
	}

	if reHintGPU.MatchString(folded) {
		yes := true
		hints.HasDedicatedGraphics = &yes
	} else if reHintIntegrated.MatchString(folded) {
		no := false
		hints.HasDedicatedGraphics = &no
	}

	return hints
}
