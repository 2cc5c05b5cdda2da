// Package utils holds small text and formatting helpers shared by the
// normalization, policy and vision packages. Input arrives in Spanish with
// inconsistent casing and accents ("Portátil", "EXCELENTE", "sí"), so all
// matching happens on folded tokens.
package utils

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s, trims surrounding space and strips diacritics.
//
// Examples:
//
//	Fold("Portátil")  → "portatil"
//	Fold(" SÍ ")      → "si"
//	Fold("dañada")    → "danada"
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeToken folds s and collapses internal whitespace runs to a single
// space, so "Core   i5 " and "core i5" compare equal.
func NormalizeToken(s string) string {
	return strings.Join(strings.Fields(Fold(s)), " ")
}

// ContainsToken reports whether the folded haystack contains the folded
// needle as a substring. Used for processor family matching.
func ContainsToken(haystack, needle string) bool {
	return strings.Contains(NormalizeToken(haystack), NormalizeToken(needle))
}

// StripCodeFences removes a surrounding markdown code fence from s. Language
// models sometimes wrap JSON answers in ```json blocks even when asked not to.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// FormatPesos renders an amount in whole pesos with thousands separators,
// matching the client-facing message format ("22,000", "1,250,000").
func FormatPesos(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}
