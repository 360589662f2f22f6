package classifier

import (
	"strings"

	"github.com/giygas/pedcalc-api/numfmt"
	"github.com/giygas/pedcalc-api/reference/entities"
)

// Bilirubin units accepted by ClassifyJaundice.
const (
	UnitMicromolar  = "umol/L"
	UnitMilligramDL = "mg/dL"

	bilirubinFactor = 17.1
)

// Neonatal risk factors for infants of 35 weeks or more.
const (
	RiskNone   = "none"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// JaundiceRequest holds the inputs of a threshold lookup. AgeHours is the
// postnatal age in hours.
type JaundiceRequest struct {
	WeightKg  float64
	GAWeeks   float64
	AgeHours  float64
	Bilirubin float64
	Unit      string
	Risk      string
}

type JaundiceResult struct {
	Classification
	Category       string   `json:"category"`
	CategoryKey    string   `json:"categoryKey"`
	AgeHours       float64  `json:"ageHours"`
	AgeIndex       int      `json:"ageIndex"`
	BilirubinUmol  string   `json:"bilirubinUmol"`
	BilirubinMg    string   `json:"bilirubinMg"`
	Phototherapy   *float64 `json:"phototherapyThreshold"`
	Exchange       *float64 `json:"exchangeThreshold"`
	Recommendation string   `json:"recommendation"`
	Level          string   `json:"level"`
}

// JaundiceCategoryKey selects the threshold table. The preterm categories
// match on weight or gestational age; exactly 34 weeks is its own category.
func JaundiceCategoryKey(weightKg, gaWeeks float64, risk string) string {
	w, ga := weightKg, gaWeeks
	switch {
	case w < 1 || ga < 28:
		return "<1kg_<28wk"
	case (w >= 1 && w < 1.25) || (ga >= 28 && ga < 30):
		return "1-1.249kg_28-29wk"
	case (w >= 1.25 && w < 1.5) || (ga >= 30 && ga < 32):
		return "1.25-1.49kg_30-31wk"
	case (w >= 1.5 && w < 2) || (ga >= 32 && ga < 34):
		return "1.5-1.99kg_32-33wk"
	case (w >= 2 && w < 2.5) || ga == 34:
		return "2-2.4kg_34wk"
	case ga >= 35 && ga < 38:
		if risk == RiskHigh {
			return "35-37wk_high_risk"
		}
		return "35-37wk_medium_risk"
	case risk == RiskHigh:
		return "35-37wk_high_risk"
	case risk == RiskMedium:
		return "35-37wk_medium_risk"
	default:
		return ">=38wk_low_risk"
	}
}

var (
	pretermAgeCutoffs = []float64{12, 24, 36, 48, 60, 72, 84, 108}
	termAgeCutoffs    = []float64{12, 24, 36, 48, 60, 72, 84, 96, 120}
)

// JaundiceAgeIndex maps postnatal hours to a threshold column.
func JaundiceAgeIndex(ageHours float64, term bool) int {
	cutoffs := pretermAgeCutoffs
	if term {
		cutoffs = termAgeCutoffs
	}
	for i, c := range cutoffs {
		if ageHours < c {
			return i
		}
	}
	return len(cutoffs)
}

func thresholdAt(values []float64, i int) *float64 {
	if i < 0 || i >= len(values) {
		return nil
	}
	v := values[i]
	return &v
}

// ClassifyJaundice compares a bilirubin level with the phototherapy and
// exchange thresholds. A threshold missing for the age column is treated as
// not reached.
func ClassifyJaundice(table *entities.JaundiceTable, req JaundiceRequest) *JaundiceResult {
	if !(req.WeightKg > 0) || !(req.GAWeeks > 0) || !(req.AgeHours > 0) || !(req.Bilirubin > 0) {
		return nil
	}
	key := JaundiceCategoryKey(req.WeightKg, req.GAWeeks, req.Risk)
	cat, ok := table.Category(key)
	if !ok {
		return nil
	}

	umol, mg := req.Bilirubin, req.Bilirubin/bilirubinFactor
	if req.Unit == UnitMilligramDL {
		umol, mg = req.Bilirubin*bilirubinFactor, req.Bilirubin
	}

	term := req.GAWeeks >= 35
	idx := JaundiceAgeIndex(req.AgeHours, term)
	pt := thresholdAt(cat.Phototherapy, idx)
	ex := thresholdAt(cat.Exchange, idx)

	res := &JaundiceResult{
		Category:      strings.ReplaceAll(key, "_", " "),
		CategoryKey:   key,
		AgeHours:      req.AgeHours,
		AgeIndex:      idx,
		BilirubinUmol: numfmt.Fixed(umol, 1),
		BilirubinMg:   numfmt.Fixed(mg, 1),
		Phototherapy:  pt,
		Exchange:      ex,
	}

	switch {
	case ex != nil && umol >= *ex:
		res.Recommendation, res.Level, res.Severity = "Exchange Transfusion Required", "critical", SeverityAbnormal
	case pt != nil && umol >= *pt:
		res.Recommendation, res.Level, res.Severity = "Phototherapy Required", "warning", SeverityAbnormal
	case pt != nil && umol >= *pt*0.8:
		res.Recommendation, res.Level, res.Severity = "Approaching Phototherapy Threshold - Monitor Closely", "caution", SeverityMonitor
	default:
		res.Recommendation, res.Level, res.Severity = "Monitor", "normal", SeverityNormal
	}
	res.Band = res.Level
	res.Interpretation = res.Recommendation
	return res
}
