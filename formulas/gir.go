package formulas

import "github.com/giygas/pedcalc-api/numfmt"

// DextroseItem is one dextrose-containing fluid in an order.
type DextroseItem struct {
	Type       string  `json:"type"`
	Percentage float64 `json:"percentage"`
	VolumeMl   float64 `json:"volume"`
}

// GIR returns the glucose infusion rate in mg/kg/min for a daily dextrose
// volume.
func GIR(volumeMl, percent, weightKg float64) (string, bool) {
	if !(volumeMl > 0) || !(percent > 0) || !(weightKg > 0) {
		return "", false
	}
	return numfmt.Fixed(girValue(volumeMl*percent/100, weightKg), 2), true
}

func girValue(glucoseGrams, weightKg float64) float64 {
	return glucoseGrams * 1000 / (weightKg * 1440)
}

// GIRFromTFI works from a total fluid intake in mL/kg/day.
type GIRFromTFIResult struct {
	TotalFluid   string `json:"totalFluid"`
	GlucoseGrams string `json:"glucoseGrams"`
	GlucoseMg    string `json:"glucoseMg"`
	GIR          string `json:"gir"`
	HourlyRate   string `json:"hourlyRate"`
}

func GIRFromTFI(tfi, weightKg, percent float64) (GIRFromTFIResult, bool) {
	if !(tfi > 0) || !(weightKg > 0) || !(percent > 0) {
		return GIRFromTFIResult{}, false
	}
	total := tfi * weightKg
	grams := total * (percent / 100)
	mg := grams * 1000
	return GIRFromTFIResult{
		TotalFluid:   numfmt.Fixed(total, 1),
		GlucoseGrams: numfmt.Fixed(grams, 2),
		GlucoseMg:    numfmt.Fixed(mg, 0),
		GIR:          numfmt.Fixed(mg/weightKg/24/60, 2),
		HourlyRate:   numfmt.Fixed(total/24, 1),
	}, true
}

// InfusionRateResult is the pump rate needed to deliver a target GIR.
type InfusionRateResult struct {
	Rate        string `json:"rate"`
	DailyVolume string `json:"dailyVolume"`
	TFI         string `json:"tfi"`
}

// InfusionRate returns mL/h = GIR × 6 × weight ÷ dextrose %.
func InfusionRate(targetGIR, weightKg, percent float64) (InfusionRateResult, bool) {
	if !(targetGIR > 0) || !(weightKg > 0) || !(percent > 0) {
		return InfusionRateResult{}, false
	}
	rate := targetGIR * 6 * weightKg / percent
	daily := rate * 24
	return InfusionRateResult{
		Rate:        numfmt.Fixed(rate, 2),
		DailyVolume: numfmt.Fixed(daily, 1),
		TFI:         numfmt.Fixed(daily/weightKg, 1),
	}, true
}

// CombinedDextrose returns the volume-weighted concentration of several
// dextrose fluids, or 10 when there is no volume.
func CombinedDextrose(items []DextroseItem) float64 {
	var volume, weighted float64
	for _, it := range items {
		volume += it.VolumeMl
		weighted += it.VolumeMl * it.Percentage
	}
	if volume == 0 {
		return 10
	}
	return weighted / volume
}
