package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MonthTokens are the canonical month names written to the device, indexed 0..11.
var MonthTokens = [12]string{
	"OCAK", "SUBAT", "MART", "NISAN", "MAYIS", "HAZIRAN",
	"TEMMUZ", "AGUSTOS", "EYLUL", "EKIM", "KASIM", "ARALIK",
}

// monthIndex maps a folded spelling to its position in MonthTokens.
var monthIndex = func() map[string]int {
	m := make(map[string]int, len(MonthTokens))
	for i, tok := range MonthTokens {
		m[strings.ToLower(tok)] = i
	}
	return m
}()

// foldTurkish lowercases with Turkish rules (İ→i, I→ı) and then strips every
// diacritic so "AĞUSTOS", "ağustos" and "Agustos" collapse to "agustos".
// Dotless ı has no decomposition and is mapped by hand. Casers and chains
// are stateful, so both are built per call.
func foldTurkish(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if r == 'ı' {
				return 'i'
			}
			return r
		}),
		norm.NFC,
	)
	out, _, err := transform.String(t, cases.Lower(language.Turkish).String(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// LookupMonth returns the 0-based month index for any accepted Turkish
// spelling, regardless of case or diacritics.
func LookupMonth(raw string) (int, bool) {
	idx, ok := monthIndex[foldTurkish(strings.TrimSpace(raw))]
	return idx, ok
}

// CanonicalMonth maps a raw month token to its device token. Unknown tokens
// are passed through uppercased rather than rejected.
func CanonicalMonth(raw string) string {
	if idx, ok := LookupMonth(raw); ok {
		return MonthTokens[idx]
	}
	return strings.ToUpper(raw)
}

// IsCanonicalMonth reports whether tok is one of MonthTokens.
func IsCanonicalMonth(tok string) bool {
	for _, m := range MonthTokens {
		if m == tok {
			return true
		}
	}
	return false
}
