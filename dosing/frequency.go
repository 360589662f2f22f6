package dosing

import (
	"strings"

	"github.com/giygas/pedcalc-api/numfmt"
)

// Basis says whether a dose label describes a single dose or a daily total.
type Basis int

const (
	BasisUnspecified Basis = iota
	BasisPerDose
	BasisPerDay
)

func (b Basis) String() string {
	switch b {
	case BasisPerDose:
		return "per_dose"
	case BasisPerDay:
		return "per_day"
	default:
		return ""
	}
}

func (b Basis) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Label is the suffix shown after the dose ("/dose", "/day" or nothing).
func (b Basis) Label() string {
	switch b {
	case BasisPerDose:
		return "/dose"
	case BasisPerDay:
		return "/day"
	default:
		return ""
	}
}

type frequencyRule struct {
	match   string
	exclude string
	name    string
	divisor int
}

// Order matters: the more specific intervals are listed first.
var frequencyRules = []frequencyRule{
	{match: "q4h", exclude: "q4-", name: "q4h", divisor: 6},
	{match: "q4-6h", name: "q4-6h", divisor: 5},
	{match: "q6h", exclude: "q6-", name: "q6h", divisor: 4},
	{match: "q6-8h", name: "q6-8h", divisor: 3},
	{match: "q6-12h", name: "q6-12h", divisor: 3},
	{match: "q8h", exclude: "q8-", name: "q8h", divisor: 3},
	{match: "q12h", exclude: "q12-", name: "q12h", divisor: 2},
	{match: "q12-24h", name: "q12-24h", divisor: 2},
	{match: "q24h", name: "q24h", divisor: 1},
	{match: "once daily", name: "q24h", divisor: 1},
}

// Frequency extracts the dosing interval from a unit label and the number of
// doses it implies per day. Labels without a known interval give ("", 1).
func Frequency(unitLabel string) (string, int) {
	lower := strings.ToLower(unitLabel)
	for _, rule := range frequencyRules {
		if !strings.Contains(lower, rule.match) {
			continue
		}
		if rule.exclude != "" && strings.Contains(lower, rule.exclude) {
			continue
		}
		return rule.name, rule.divisor
	}
	return "", 1
}

func isPerDay(unitLabel string) bool {
	return containsAny(unitLabel, "/day", "divided")
}

// DoseBasis classifies a unit label. "/dose" and bare intervals such as
// "mg/kg q8h" are per dose; "/day" and "divided" are per day.
func DoseBasis(unitLabel string) Basis {
	perDose := strings.Contains(unitLabel, "/dose") ||
		(strings.Contains(unitLabel, "q") && !containsAny(unitLabel, "day", "divided"))
	switch {
	case perDose:
		return BasisPerDose
	case isPerDay(unitLabel):
		return BasisPerDay
	default:
		return BasisUnspecified
	}
}

// applySchedule fills the frequency fields and, for daily totals given with
// an interval, the amount of each individual dose.
func applySchedule(dose *ComputedDose, unitLabel string) {
	dose.Basis = DoseBasis(unitLabel)
	dose.DoseLabel = dose.Basis.Label()
	dose.Frequency, dose.Divisor = Frequency(unitLabel)

	if isPerDay(unitLabel) && dose.Divisor > 1 {
		div := float64(dose.Divisor)
		dose.PerDoseMin = numfmt.Fixed(dose.Min/div, 1)
		dose.PerDoseMax = numfmt.Fixed(dose.Max/div, 1)
	}
}
