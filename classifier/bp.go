package classifier

import (
	"math"

	"github.com/giygas/pedcalc-api/formulas"
	"github.com/giygas/pedcalc-api/reference/entities"
)

type BPCategory string

const (
	BPHypotension BPCategory = "Hypotension"
	BPNormal      BPCategory = "Normal"
	BPElevated    BPCategory = "Elevated BP"
	BPStage1      BPCategory = "HTN Stage 1"
	BPStage2      BPCategory = "HTN Stage 2"
)

// stage2Margin is added to the 95th percentile for stage 2 hypertension.
const stage2Margin = 12

// BPRequest is one observed blood pressure. AgeYears must be a whole year.
type BPRequest struct {
	Systolic   float64
	Diastolic  float64
	AgeYears   float64
	Sex        string
	HeightBand string
}

type BPReference struct {
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

type BPClassification struct {
	Classification
	Category             BPCategory  `json:"category"`
	MAP                  int         `json:"map"`
	HypotensionThreshold float64     `json:"hypotensionThreshold"`
	Systolic             BPReference `json:"systolic"`
	Diastolic            BPReference `json:"diastolic"`
}

var bpInterpretations = map[BPCategory]string{
	BPHypotension: "Systolic pressure below 70 + 2 x age",
	BPNormal:      "Below the 90th percentile",
	BPElevated:    "90th to below the 95th percentile",
	BPStage1:      "95th percentile to below 95th + 12 mmHg",
	BPStage2:      "95th percentile + 12 mmHg or higher",
}

func referenceAt(p entities.BPPercentiles, i int) (BPReference, bool) {
	if i >= len(p.P50) || i >= len(p.P90) || i >= len(p.P95) {
		return BPReference{}, false
	}
	return BPReference{P50: p.P50[i], P90: p.P90[i], P95: p.P95[i]}, true
}

// BPReferenceRow returns the percentiles for a sex, height band and whole
// year of age between 1 and 17. Ages are never interpolated or clamped.
func BPReferenceRow(table *entities.BPTable, sex, heightBand string, ageYears float64) (sys, dia BPReference, ok bool) {
	if ageYears != math.Trunc(ageYears) || ageYears < entities.BPMinAge || ageYears > entities.BPMaxAge {
		return BPReference{}, BPReference{}, false
	}
	band, ok := table.Band(sex, heightBand)
	if !ok {
		return BPReference{}, BPReference{}, false
	}
	i := int(ageYears) - entities.BPMinAge
	sys, okS := referenceAt(band.Systolic, i)
	dia, okD := referenceAt(band.Diastolic, i)
	return sys, dia, okS && okD
}

// ClassifyBP evaluates the categories in order and returns the first match.
func ClassifyBP(table *entities.BPTable, req BPRequest) *BPClassification {
	if !(req.Systolic > 0) || !(req.Diastolic > 0) {
		return nil
	}
	sys, dia, ok := BPReferenceRow(table, req.Sex, req.HeightBand, req.AgeYears)
	if !ok {
		return nil
	}

	floor := formulas.PALSHypotension(req.AgeYears)
	var cat BPCategory
	switch {
	case req.Systolic < floor:
		cat = BPHypotension
	case req.Systolic < sys.P90 && req.Diastolic < dia.P90:
		cat = BPNormal
	case req.Systolic < sys.P95 && req.Diastolic < dia.P95:
		cat = BPElevated
	case req.Systolic >= sys.P95+stage2Margin || req.Diastolic >= dia.P95+stage2Margin:
		cat = BPStage2
	default:
		cat = BPStage1
	}

	mapValue, _ := formulas.MAP(req.Systolic, req.Diastolic)
	return &BPClassification{
		Classification: Classification{
			Band:           string(cat),
			Interpretation: bpInterpretations[cat],
			Severity:       bpSeverity(cat),
		},
		Category:             cat,
		MAP:                  mapValue,
		HypotensionThreshold: floor,
		Systolic:             sys,
		Diastolic:            dia,
	}
}

func bpSeverity(cat BPCategory) Severity {
	switch cat {
	case BPNormal:
		return SeverityNormal
	case BPElevated:
		return SeverityMonitor
	default:
		return SeverityAbnormal
	}
}
