package formulas

import (
	"math"

	"github.com/giygas/pedcalc-api/numfmt"
)

// Feed types change the caloric density of enteral feeds.
const (
	FeedEBM     = "ebm"
	FeedFormula = "formula"
)

const defaultDextrosePercent = 10

// FluidInput describes a 24 hour neonatal fluid order.
// A non-empty Dextrose list switches the order to combined mode, where the
// dextrose volumes are given instead of derived from what is left.
type FluidInput struct {
	WeightKg        float64        `json:"weight"`
	TFI             float64        `json:"tfi"`
	NaClPerKg       float64        `json:"naclPerKg"`
	FeedVolumeMl    float64        `json:"feedVolume"`
	FeedEveryHours  int            `json:"feedFrequency"`
	FeedType        string         `json:"feedType"`
	AminoGPerKg     float64        `json:"aminoGPerKg"`
	LipidGPerKg     float64        `json:"lipidGPerKg"`
	DextrosePercent float64        `json:"dextrosePercent"`
	Dextrose        []DextroseItem `json:"dextrose"`
	DayOfLife       int            `json:"dayOfLife"`
}

// FluidOrder is the breakdown of a fluid order. Volumes are mL per 24 h and
// calories are kcal.
type FluidOrder struct {
	TotalFluid24h         string         `json:"totalFluid24h"`
	HourlyRate            string         `json:"hourlyRate"`
	NaCl24h               string         `json:"nacl24h"`
	Feed24h               string         `json:"feed24h"`
	FeedPerKg             string         `json:"feedPerKg"`
	FeedCalories24h       string         `json:"feedCalories24h"`
	FeedCaloriesPerKg     string         `json:"feedCaloriesPerKg"`
	Amino24h              string         `json:"amino24h"`
	Lipid24h              string         `json:"lipid24h"`
	TPN24h                string         `json:"tpn24h"`
	TPNCalories24h        string         `json:"tpnCalories24h"`
	TPNCaloriesPerKg      string         `json:"tpnCaloriesPerKg"`
	Dextrose24h           string         `json:"dextrose24h"`
	DextroseConcentration string         `json:"dextroseConcentration"`
	DextroseBreakdown     []DextroseItem `json:"dextroseBreakdown"`
	DextroseCalories24h   string         `json:"dextroseCalories24h"`
	DextroseCaloriesPerKg string         `json:"dextroseCaloriesPerKg"`
	TotalCalories24h      string         `json:"totalCalories24h"`
	TotalCaloriesPerKg    string         `json:"totalCaloriesPerKg"`
	Remaining             string         `json:"remaining"`
	IsOverLimit           bool           `json:"isOverLimit"`
	CombinedDextrose      bool           `json:"combinedDextrose"`
	HasFeed               bool           `json:"hasFeed"`
	GIRWithoutFeed        string         `json:"girWithoutFeed"`
	GIRWithFeed           string         `json:"girWithFeed"`
	SuggestedTFI          string         `json:"suggestedTfi,omitempty"`
}

// SuggestedTFI is the usual total fluid intake range in mL/kg/day for a day
// of life.
func SuggestedTFI(dayOfLife int) string {
	switch {
	case dayOfLife <= 1:
		return "60-80"
	case dayOfLife <= 2:
		return "80-100"
	case dayOfLife <= 3:
		return "100-120"
	case dayOfLife <= 7:
		return "120-150"
	default:
		return "150-180"
	}
}

func negative(values ...float64) bool {
	for _, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// CalculateFluids builds the order. Amino acids are assumed to be a 10%
// solution and lipids 20%; feeds contribute 7% carbohydrate to the GIR.
func CalculateFluids(in FluidInput) (FluidOrder, bool) {
	if !(in.WeightKg > 0) || !(in.TFI > 0) {
		return FluidOrder{}, false
	}
	if negative(in.NaClPerKg, in.FeedVolumeMl, in.AminoGPerKg, in.LipidGPerKg, in.DextrosePercent) {
		return FluidOrder{}, false
	}
	w := in.WeightKg
	every := in.FeedEveryHours
	if every <= 0 {
		every = 2
	}

	total := in.TFI * w
	nacl := in.NaClPerKg * w
	feed := in.FeedVolumeMl * (24 / float64(every))
	feedKcalPerMl := 0.8
	if in.FeedType == "" || in.FeedType == FeedEBM {
		feedKcalPerMl = 0.67
	}
	feedKcal := feed * feedKcalPerMl

	amino := in.AminoGPerKg * w * 10
	lipid := in.LipidGPerKg * w * 5
	tpn := amino + lipid

	var dextrose, concentration float64
	var breakdown []DextroseItem
	combined := len(in.Dextrose) > 0
	if combined {
		for _, it := range in.Dextrose {
			if negative(it.VolumeMl, it.Percentage) {
				return FluidOrder{}, false
			}
			dextrose += it.VolumeMl
			if it.VolumeMl > 0 {
				breakdown = append(breakdown, it)
			}
		}
		concentration = CombinedDextrose(breakdown)
	} else {
		pct := in.DextrosePercent
		if pct == 0 {
			pct = defaultDextrosePercent
		}
		dextrose = math.Max(0, total-(nacl+feed+tpn))
		concentration = pct
		breakdown = []DextroseItem{{Type: "D" + numfmt.Shortest(pct), Percentage: pct, VolumeMl: dextrose}}
	}

	remaining := total - (nacl + feed + tpn + dextrose)

	var dextroseGrams, dextroseKcal float64
	for _, it := range breakdown {
		g := it.Percentage / 100 * it.VolumeMl
		dextroseGrams += g
		dextroseKcal += g * 3.4
	}
	tpnKcal := amino*0.1*4 + lipid*2
	totalKcal := dextroseKcal + feedKcal + tpnKcal

	return FluidOrder{
		TotalFluid24h:         numfmt.Fixed(total, 1),
		HourlyRate:            numfmt.Fixed(total/24, 2),
		NaCl24h:               numfmt.Fixed(nacl, 1),
		Feed24h:               numfmt.Fixed(feed, 1),
		FeedPerKg:             numfmt.Fixed(feed/w, 1),
		FeedCalories24h:       numfmt.Fixed(feedKcal, 1),
		FeedCaloriesPerKg:     numfmt.Fixed(feedKcal/w, 1),
		Amino24h:              numfmt.Fixed(amino, 1),
		Lipid24h:              numfmt.Fixed(lipid, 1),
		TPN24h:                numfmt.Fixed(tpn, 1),
		TPNCalories24h:        numfmt.Fixed(tpnKcal, 1),
		TPNCaloriesPerKg:      numfmt.Fixed(tpnKcal/w, 1),
		Dextrose24h:           numfmt.Fixed(dextrose, 1),
		DextroseConcentration: numfmt.Fixed(concentration, 1),
		DextroseBreakdown:     breakdown,
		DextroseCalories24h:   numfmt.Fixed(dextroseKcal, 1),
		DextroseCaloriesPerKg: numfmt.Fixed(dextroseKcal/w, 1),
		TotalCalories24h:      numfmt.Fixed(totalKcal, 1),
		TotalCaloriesPerKg:    numfmt.Fixed(totalKcal/w, 1),
		Remaining:             numfmt.Fixed(remaining, 1),
		IsOverLimit:           remaining < -0.1,
		CombinedDextrose:      combined,
		HasFeed:               feed > 0,
		GIRWithoutFeed:        numfmt.Fixed(girValue(dextroseGrams, w), 2),
		GIRWithFeed:           numfmt.Fixed(girValue(dextroseGrams+feed*0.07, w), 2),
		SuggestedTFI:          SuggestedTFI(in.DayOfLife),
	}, true
}
