// Package dosing computes weight-based drug doses from formulary entries.
//
// Every function is pure: the same request always yields the same
// ComputedDose, and nothing is cached between calls.
package dosing

import (
	"math"
	"strings"

	"github.com/giygas/pedcalc-api/numfmt"
)

// Kind tells the caller how Display was produced.
type Kind int

const (
	KindComputed Kind = iota
	KindRate
	KindFixed
	KindPassthrough
)

func (k Kind) String() string {
	switch k {
	case KindRate:
		return "rate"
	case KindFixed:
		return "fixed"
	case KindPassthrough:
		return "passthrough"
	default:
		return "computed"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Request holds the inputs of a single dose computation.
type Request struct {
	Expression    string
	WeightKg      float64
	MaxDoseMg     float64 // zero means no ceiling
	MaxUnitLabel  string
	DoseUnitLabel string
	Fixed         bool
}

// ComputedDose is the displayable result of a dose computation.
type ComputedDose struct {
	Display        string   `json:"display"`
	IsExceedingMax bool     `json:"isExceedingMax"`
	CappedDisplay  *string  `json:"cappedDisplay"`
	Kind           Kind     `json:"kind"`
	Unit           DoseUnit `json:"unit"`
	Min            float64  `json:"min,omitempty"`
	Max            float64  `json:"max,omitempty"`
	Basis          Basis    `json:"basis,omitempty"`
	DoseLabel      string   `json:"doseLabel,omitempty"`
	Frequency      string   `json:"frequency,omitempty"`
	Divisor        int      `json:"divisor,omitempty"`
	PerDoseMin     string   `json:"perDoseMin,omitempty"`
	PerDoseMax     string   `json:"perDoseMax,omitempty"`
}

// ComputeDose is the positional form of Compute for non-fixed doses.
func ComputeDose(expression string, weightKg, maxDoseMg float64, maxUnitLabel, doseUnitLabel string) *ComputedDose {
	return Compute(Request{
		Expression:    expression,
		WeightKg:      weightKg,
		MaxDoseMg:     maxDoseMg,
		MaxUnitLabel:  maxUnitLabel,
		DoseUnitLabel: doseUnitLabel,
	})
}

// Compute scales the dose expression by weight, applies the ceiling for
// capped units and formats the result. It returns nil when the expression is
// empty, the weight is not positive, or the expression does not start with a
// number.
func Compute(req Request) *ComputedDose {
	expr := req.Expression
	if expr == "" {
		return nil
	}
	if !req.Fixed && !(req.WeightKg > 0) {
		return nil
	}
	if strings.Contains(expr, "See age") {
		return &ComputedDose{Display: expr, Kind: KindPassthrough}
	}
	unit := ClassifyUnit(req.DoseUnitLabel, expr)
	if req.Fixed {
		return &ComputedDose{Display: expr, Kind: KindFixed, Unit: unit}
	}

	min, max, ok := parseRange(expr)
	if !ok {
		return nil
	}

	if unit == Rate {
		display := numfmt.Shortest(min)
		if max != min {
			display += " - " + numfmt.Shortest(max)
		}
		return &ComputedDose{Display: display, Kind: KindRate, Unit: Rate, Min: min, Max: max}
	}

	calcMin, calcMax := min*req.WeightKg, max*req.WeightKg
	if unit == KiloUnits && (strings.Contains(expr, "50000") || strings.Contains(expr, "75000")) {
		calcMin /= 1000
		calcMax /= 1000
	}

	dose := &ComputedDose{Kind: KindComputed, Unit: unit}
	if unit.Capped() && req.MaxDoseMg > 0 && calcMax > req.MaxDoseMg {
		label := unit.String()
		if unit == Milligram && req.MaxUnitLabel != "" {
			label = req.MaxUnitLabel
		}
		capped := numfmt.Shortest(req.MaxDoseMg) + " " + label
		dose.IsExceedingMax = true
		dose.CappedDisplay = &capped
		calcMax = req.MaxDoseMg
		calcMin = math.Min(calcMin, req.MaxDoseMg)
	}

	dose.Min, dose.Max = calcMin, calcMax
	dose.Display = formatRange(calcMin, calcMax, unit.Precision()) + " " + unit.String()
	if unit == Milligram {
		applySchedule(dose, req.DoseUnitLabel)
	}
	return dose
}

// parseRange reads "min" or "min-max". A missing, unparseable or zero max
// falls back to min.
func parseRange(expr string) (min, max float64, ok bool) {
	tokens := strings.Split(expr, "-")
	min, ok = numfmt.ParseLeading(tokens[0])
	if !ok || math.IsInf(min, 0) {
		return 0, 0, false
	}
	max = min
	if len(tokens) > 1 {
		if v, ok := numfmt.ParseLeading(tokens[1]); ok && v != 0 {
			max = v
		}
	}
	return min, max, true
}

func formatRange(min, max float64, digits int) string {
	s := numfmt.Fixed(min, digits)
	if max != min {
		s += " - " + numfmt.Fixed(max, digits)
	}
	return s
}
