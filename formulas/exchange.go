package formulas

import (
	"math"

	"github.com/giygas/pedcalc-api/numfmt"
)

const (
	bloodVolumePerKg      = 80
	wholeBloodVolumePerKg = 85
	defaultDesiredHct     = 55
	polycythemiaHct       = 65
)

// PartialExchange is the saline volume for a partial exchange transfusion.
type PartialExchange struct {
	Volume      string  `json:"volume"`
	ObservedHct float64 `json:"observedHct"`
	DesiredHct  float64 `json:"desiredHct"`
	Indicated   bool    `json:"indicated"`
}

// CalculatePartialExchange uses 80 mL/kg blood volume. A missing desired
// hematocrit defaults to 55; the exchange is indicated above 65.
func CalculatePartialExchange(weightKg, observedHct, desiredHct float64) (PartialExchange, bool) {
	if !(weightKg > 0) || !(observedHct > 0) {
		return PartialExchange{}, false
	}
	if !(desiredHct > 0) {
		desiredHct = defaultDesiredHct
	}
	v := bloodVolumePerKg * weightKg * (observedHct - desiredHct) / observedHct
	return PartialExchange{
		Volume:      numfmt.Fixed(math.Max(0, v), 1),
		ObservedHct: observedHct,
		DesiredHct:  desiredHct,
		Indicated:   observedHct > polycythemiaHct,
	}, true
}

// WholeBloodExchange is a double-volume exchange at 85 mL/kg.
type WholeBloodExchange struct {
	TotalVolume  string `json:"totalVolume"`
	SingleVolume string `json:"singleVolume"`
}

func CalculateWholeBloodExchange(weightKg float64) (WholeBloodExchange, bool) {
	if !(weightKg > 0) {
		return WholeBloodExchange{}, false
	}
	return WholeBloodExchange{
		TotalVolume:  numfmt.Fixed(2*wholeBloodVolumePerKg*weightKg, 1),
		SingleVolume: numfmt.Fixed(wholeBloodVolumePerKg*weightKg, 1),
	}, true
}
