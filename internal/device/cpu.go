package device

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/prestafacil/avaluador/internal/utils"
)

// Canonical processor family names produced by ParseProcessor. Policy floors
// and the rule-based estimator key on these.
const (
	FamilyCoreI3  = "core i3"
	FamilyCoreI5  = "core i5"
	FamilyCoreI7  = "core i7"
	FamilyCoreI9  = "core i9"
	FamilyRyzen3  = "ryzen 3"
	FamilyRyzen5  = "ryzen 5"
	FamilyRyzen7  = "ryzen 7"
	FamilyRyzen9  = "ryzen 9"
	FamilyPentium = "pentium"
	FamilyCeleron = "celeron"
	FamilyAtom    = "atom"
	FamilyAthlon  = "athlon"
	FamilyXeon    = "xeon"
	FamilyAppleM1 = "m1"
	FamilyAppleM2 = "m2"
	FamilyAppleM3 = "m3"
)

// ProcessorInfo is the parsed summary of a free-text processor description.
// Generation is nil when no generation could be established from the text.
type ProcessorInfo struct {
	Family     string
	Generation *int
}

var (
	reIntelCore = regexp.MustCompile(`\bi([3579])\b`)
	reRyzen     = regexp.MustCompile(`\bryzen\s*([3579])\b`)
	reAppleM    = regexp.MustCompile(`\bm([123])\b`)

	// "11th gen", "10ª generacion", "4ta gen", "8 gen"
	reOrdinalGen = regexp.MustCompile(`\b(\d{1,2})\s*(?:era|th|ta|ra|da|va|na|ma|ª|a|°)?\s*gen(?:eracion)?\b`)
	// "gen 11", "generacion: 10"
	reGenPrefix = regexp.MustCompile(`\bgen(?:eracion)?\s*:?\s*(\d{1,2})\b`)
	// bare "13th" / "10ª" markers without the word gen
	reBareOrdinal = regexp.MustCompile(`\b(\d{1,2})(?:th|ª)\b`)
	// Intel model numbers: i5-1135G7, i7 8550U, i3-10110
	reIntelModel = regexp.MustCompile(`\bi[3579]\s*-?\s*(\d{3,5})`)
)

// maxPlausibleGeneration bounds ordinal extraction; digits above it are
// model numbers or noise, not generations.
const maxPlausibleGeneration = 20

// ParseProcessor extracts the processor family and a best-effort generation
// from free text such as "Intel Core i5 11th gen" or "i7-8550U". Absence of
// usable digits yields a nil generation, never zero.
func ParseProcessor(model string) ProcessorInfo {
	text := utils.NormalizeToken(model)
	info := ProcessorInfo{Family: detectFamily(text)}
	if gen, ok := extractGeneration(text); ok {
		info.Generation = &gen
	}
	return info
}

// detectFamily expects text already folded by NormalizeToken.
func detectFamily(text string) string {
	// Low-end families first so "pentium gold g7400" is not read as anything else.
	for _, fam := range []string{FamilyCeleron, FamilyPentium, FamilyAtom, FamilyAthlon, FamilyXeon} {
		if strings.Contains(text, fam) {
			return fam
		}
	}
	if m := reRyzen.FindStringSubmatch(text); m != nil {
		return "ryzen " + m[1]
	}
	if m := reIntelCore.FindStringSubmatch(text); m != nil {
		return "core i" + m[1]
	}
	if strings.Contains(text, "apple") || strings.Contains(text, "macbook") {
		if m := reAppleM.FindStringSubmatch(text); m != nil {
			return "m" + m[1]
		}
	}
	return ""
}

// extractGeneration tries explicit generation markers before falling back to
// Intel model-number digits.
func extractGeneration(text string) (int, bool) {
	for _, re := range []*regexp.Regexp{reOrdinalGen, reGenPrefix, reBareOrdinal} {
		if m := re.FindStringSubmatch(text); m != nil {
			if gen, err := strconv.Atoi(m[1]); err == nil && gen >= 1 && gen <= maxPlausibleGeneration {
				return gen, true
			}
		}
	}
	if m := reIntelModel.FindStringSubmatch(text); m != nil {
		if gen, ok := generationFromModelNumber(m[1]); ok {
			return gen, true
		}
	}
	return 0, false
}

// generationFromModelNumber maps Intel SKU digits to a generation:
// 5-digit SKUs carry a two-digit generation (10700 → 10), 4-digit SKUs a
// two-digit one only when it is plausible (1135 → 11) and a single digit
// otherwise (8550 → 8), 3-digit SKUs are first generation (650 → 1).
func generationFromModelNumber(digits string) (int, bool) {
	switch len(digits) {
	case 5:
		gen, err := strconv.Atoi(digits[:2])
		if err != nil || gen > maxPlausibleGeneration {
			return 0, false
		}
		return gen, true
	case 4:
		if two, err := strconv.Atoi(digits[:2]); err == nil && two >= 10 && two <= maxPlausibleGeneration {
			return two, true
		}
		one, err := strconv.Atoi(digits[:1])
		if err != nil || one < 1 {
			return 0, false
		}
		return one, true
	case 3:
		return 1, true
	default:
		return 0, false
	}
}
