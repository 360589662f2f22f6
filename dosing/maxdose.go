package dosing

import (
	"regexp"
	"strings"

	"github.com/giygas/pedcalc-api/numfmt"
)

type maxDosePattern struct {
	re         *regexp.Regexp
	multiplier float64
}

// Evaluated in order; the first match wins. "4g/day" in
// "75 mg/kg/day (max 4g/day)" therefore beats the mg pattern.
var maxDosePatterns = []maxDosePattern{
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*g/day`), 1000},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*g(?:[^/r]|$)`), 1000},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mg`), 1},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mcg`), 1},
}

const seeProtocol = "See protocol"

// ParseMaxDose extracts a ceiling in mg from free-text maximum dose strings
// such as "800 mg PO, 20 mg/kg IV" or "1.5 g/day". It reports false when no
// ceiling can be read, which callers treat as unbounded.
func ParseMaxDose(text string) (float64, bool) {
	if text == "" || text == seeProtocol {
		return 0, false
	}
	for _, p := range maxDosePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, ok := numfmt.ParseLeading(m[1])
		if !ok {
			continue
		}
		return v * p.multiplier, true
	}
	return 0, false
}

// ResolveMaxDose picks the ceiling for one dose of a drug. A structured
// per-dose value wins over the drug's free-text maximum.
func ResolveMaxDose(structuredMg float64, drugMax string) (float64, bool) {
	if structuredMg > 0 {
		return structuredMg, true
	}
	return ParseMaxDose(strings.TrimSpace(drugMax))
}
