package classifier

import (
	"math"
	"strconv"

	"github.com/giygas/pedcalc-api/numfmt"
	"github.com/giygas/pedcalc-api/reference/entities"
)

// CurvePoint is a reference value at the tabulated age.
type CurvePoint struct {
	Percentile float64 `json:"percentile"`
	Value      float64 `json:"value"`
}

type GrowthClassification struct {
	Classification
	Standard   string       `json:"standard"`
	Index      int          `json:"index"`
	TableAge   int          `json:"tableAge"`
	AgeUnit    string       `json:"ageUnit"`
	ZScore     string       `json:"zScore,omitempty"`
	Percentile int          `json:"percentile,omitempty"`
	Reference  []CurvePoint `json:"reference"`
}

// GrowthIndex rounds an age to the nearest tabulated step and clamps it to
// the table. Ages are in the standard's unit (months for WHO, years for CDC).
func GrowthIndex(std *entities.GrowthStandard, measure, sex string, age float64) (int, bool) {
	n := std.Len(measure, sex)
	if n == 0 || math.IsNaN(age) {
		return 0, false
	}
	idx := numfmt.Round(age) - float64(std.AgeOffset)
	switch {
	case idx < 0:
		return 0, true
	case idx > float64(n-1):
		return n - 1, true
	default:
		return int(idx), true
	}
}

// Ordinal formats a percentile as "3rd", "15th", "97th".
func Ordinal(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if p != math.Trunc(p) {
		return s + "th"
	}
	n := int(p)
	if n%100 >= 11 && n%100 <= 13 {
		return s + "th"
	}
	switch n % 10 {
	case 1:
		return s + "st"
	case 2:
		return s + "nd"
	case 3:
		return s + "rd"
	default:
		return s + "th"
	}
}

// growthBand returns the band label and the percentile bounds around value.
// lower is -1 below the lowest curve and upper is -1 above the highest.
func growthBand(points []CurvePoint, value float64) (label string, lower, upper float64) {
	if value < points[0].Value {
		return "<" + Ordinal(points[0].Percentile), -1, points[0].Percentile
	}
	for i := 0; i < len(points)-1; i++ {
		if value < points[i+1].Value {
			return Ordinal(points[i].Percentile) + "-" + Ordinal(points[i+1].Percentile),
				points[i].Percentile, points[i+1].Percentile
		}
	}
	last := points[len(points)-1].Percentile
	return ">" + Ordinal(last), last, -1
}

func bandSeverity(lower, upper float64) Severity {
	switch {
	case (upper >= 0 && upper <= 3) || lower >= 97:
		return SeverityAbnormal
	case (upper >= 0 && upper <= 15) || lower >= 85:
		return SeverityMonitor
	default:
		return SeverityNormal
	}
}

// GrowthInterpretation is the wording used for an approximate percentile.
func GrowthInterpretation(percentile float64) string {
	switch {
	case percentile < 3:
		return "Severely below normal"
	case percentile < 15:
		return "Below normal - monitor"
	case percentile <= 85:
		return "Normal range"
	case percentile <= 97:
		return "Above normal - monitor"
	default:
		return "Significantly above normal"
	}
}

func valueAt(points []CurvePoint, p float64) (float64, bool) {
	for _, cp := range points {
		if cp.Percentile == p {
			return cp.Value, true
		}
	}
	return 0, false
}

// ClassifyGrowth bands a measurement against the curves at the nearest
// tabulated age. When the standard has 3rd, 50th and 97th curves it also
// estimates a z-score and percentile.
func ClassifyGrowth(std *entities.GrowthStandard, measure, sex string, age, value float64) *GrowthClassification {
	if std == nil || !(value > 0) || math.IsInf(value, 0) {
		return nil
	}
	idx, ok := GrowthIndex(std, measure, sex, age)
	if !ok {
		return nil
	}

	curves := std.Curves(measure, sex)
	points := make([]CurvePoint, 0, len(curves))
	for _, c := range curves {
		if idx >= len(c.Values) {
			return nil
		}
		points = append(points, CurvePoint{Percentile: c.Percentile, Value: c.Values[idx]})
	}

	label, lower, upper := growthBand(points, value)
	res := &GrowthClassification{
		Classification: Classification{
			Band:     label,
			Severity: bandSeverity(lower, upper),
		},
		Standard:  std.Name,
		Index:     idx,
		TableAge:  idx + std.AgeOffset,
		AgeUnit:   std.AgeUnit,
		Reference: points,
	}

	p3, ok3 := valueAt(points, 3)
	p50, ok50 := valueAt(points, 50)
	p97, ok97 := valueAt(points, 97)
	if ok3 && ok50 && ok97 && p97 > p3 {
		sd := (p97 - p3) / 3.76
		z := (value - p50) / sd
		pct := numfmt.Round(100 * (0.5 * (1 + math.Tanh(0.8*z))))
		res.ZScore = numfmt.Fixed(z, 2)
		res.Percentile = int(math.Max(1, math.Min(99, pct)))
		res.Interpretation = GrowthInterpretation(pct)
	} else {
		res.Interpretation = "Between the " + label + " percentiles"
	}
	return res
}
