package formulas

import (
	"math"

	"github.com/giygas/pedcalc-api/numfmt"
)

// ETTResult is an endotracheal tube recommendation.
type ETTResult struct {
	TubeSize        string `json:"tubeSize"`
	ReferenceDepth  string `json:"referenceDepth"`
	CalculatedDepth string `json:"calculatedDepth,omitempty"`
	Band            string `json:"band"`
	Basis           string `json:"basis"`
}

type ettBand struct {
	tubeSize string
	depth    string
}

var ettBands = [4]ettBand{
	{"2.5", "6-7"},
	{"3.0", "7-8"},
	{"3.5", "8-9"},
	{"3.5-4.0", "9-10"},
}

// ETT selects the tube by weight and falls back to gestational age when the
// weight is unknown. The lip depth 6 + weight is only given with a weight.
func ETT(weightKg float64, gaWeeks int) (ETTResult, bool) {
	var idx int
	res := ETTResult{}
	switch {
	case weightKg > 0:
		res.Basis = "weight"
		res.CalculatedDepth = numfmt.Fixed(6+weightKg, 1)
		switch {
		case weightKg < 1.0:
			idx, res.Band = 0, "<1.0 kg"
		case weightKg <= 2.0:
			idx, res.Band = 1, "1.0-2.0 kg"
		case weightKg <= 3.0:
			idx, res.Band = 2, "2.0-3.0 kg"
		default:
			idx, res.Band = 3, ">3.0 kg"
		}
	case gaWeeks > 0:
		res.Basis = "gestational_age"
		switch {
		case gaWeeks < 28:
			idx, res.Band = 0, "<28 weeks"
		case gaWeeks <= 34:
			idx, res.Band = 1, "28-34 weeks"
		case gaWeeks <= 38:
			idx, res.Band = 2, "34-38 weeks"
		default:
			idx, res.Band = 3, ">38 weeks"
		}
	default:
		return ETTResult{}, false
	}
	res.TubeSize = ettBands[idx].tubeSize
	res.ReferenceDepth = ettBands[idx].depth
	return res, true
}

// UmbilicalLines holds umbilical catheter insertion lengths in cm.
type UmbilicalLines struct {
	UAC string `json:"uac"`
	UVC string `json:"uvc"`
}

// Umbilical computes UAC = 3.5w + 9 and UVC = UAC/2 + 1. UVC is derived from
// the unrounded UAC.
func Umbilical(weightKg float64) (UmbilicalLines, bool) {
	if !(weightKg > 0) || math.IsInf(weightKg, 0) {
		return UmbilicalLines{}, false
	}
	uac := 3.5*weightKg + 9
	return UmbilicalLines{
		UAC: numfmt.Fixed(uac, 1),
		UVC: numfmt.Fixed(uac/2+1, 1),
	}, true
}
