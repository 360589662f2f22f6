package formulas

import "github.com/giygas/pedcalc-api/numfmt"

// AgeGroup selects the k constant of the original Schwartz equation.
type AgeGroup string

const (
	AgePreterm          AgeGroup = "preterm"
	AgeTerm             AgeGroup = "term"
	AgeChild            AgeGroup = "child"
	AgeAdolescentMale   AgeGroup = "adolescentM"
	AgeAdolescentFemale AgeGroup = "adolescentF"
)

// Equation is the GFR estimation method.
type Equation string

const (
	EquationRevised  Equation = "revised"
	EquationOriginal Equation = "original"
)

// GFRCategory groups an estimated GFR for renal dose adjustment.
type GFRCategory string

const (
	GFRNormal   GFRCategory = "normal"
	GFRMild     GFRCategory = "mild"
	GFRModerate GFRCategory = "moderate"
	GFRSevere   GFRCategory = "severe"
)

// GFRResult is an estimated GFR in mL/min/1.73m².
type GFRResult struct {
	Value         string      `json:"value"`
	Equation      Equation    `json:"equation"`
	K             float64     `json:"k,omitempty"`
	AgeGroupLabel string      `json:"ageGroup,omitempty"`
	Category      GFRCategory `json:"category"`
}

// SchwartzK returns the k constant for an age group. Unknown groups use the
// child value.
func SchwartzK(group AgeGroup) float64 {
	switch group {
	case AgePreterm:
		return 0.33
	case AgeTerm:
		return 0.45
	case AgeAdolescentMale:
		return 0.70
	default:
		return 0.55
	}
}

func AgeGroupLabel(group AgeGroup) string {
	switch group {
	case AgePreterm:
		return "Preterm infant"
	case AgeTerm:
		return "Term infant (<1 year)"
	case AgeChild:
		return "Child (1-13 years)"
	case AgeAdolescentMale:
		return "Adolescent male (>13 years)"
	case AgeAdolescentFemale:
		return "Adolescent female (>13 years)"
	default:
		return "Child"
	}
}

// RevisedSchwartz is the bedside equation with creatinine in µmol/L.
func RevisedSchwartz(heightCm, creatinineUmol float64) (string, bool) {
	if !(heightCm > 0) || !(creatinineUmol > 0) {
		return "", false
	}
	return numfmt.Fixed(36.5*heightCm/creatinineUmol, 1), true
}

// OriginalSchwartz uses the age-specific k converted for µmol/L.
func OriginalSchwartz(heightCm, creatinineUmol float64, group AgeGroup) (string, bool) {
	if !(heightCm > 0) || !(creatinineUmol > 0) {
		return "", false
	}
	k := SchwartzK(group) * 88.4
	return numfmt.Fixed(k*heightCm/creatinineUmol, 1), true
}

// CategorizeGFR buckets a GFR value. Callers pass the displayed 1-decimal
// value so the category always agrees with what is shown.
func CategorizeGFR(gfr float64) GFRCategory {
	switch {
	case gfr >= 50:
		return GFRNormal
	case gfr >= 30:
		return GFRMild
	case gfr >= 10:
		return GFRModerate
	default:
		return GFRSevere
	}
}

// EstimateGFR runs the selected equation and categorizes the result.
func EstimateGFR(eq Equation, heightCm, creatinineUmol float64, group AgeGroup) (GFRResult, bool) {
	res := GFRResult{Equation: eq}
	var ok bool
	switch eq {
	case EquationOriginal:
		res.Value, ok = OriginalSchwartz(heightCm, creatinineUmol, group)
		res.K = SchwartzK(group)
		res.AgeGroupLabel = AgeGroupLabel(group)
	default:
		res.Equation = EquationRevised
		res.Value, ok = RevisedSchwartz(heightCm, creatinineUmol)
	}
	if !ok {
		return GFRResult{}, false
	}
	v, _ := numfmt.ParseLeading(res.Value)
	res.Category = CategorizeGFR(v)
	return res, true
}
