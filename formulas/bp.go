// Package formulas holds the bedside formulas used across the calculators:
// blood pressure, renal function, line and tube sizing, glucose delivery,
// fluid orders, exchange transfusion and the Ballard maturity score.
//
// Inputs that are missing, zero or negative yield ok=false instead of a value.
package formulas

import "github.com/giygas/pedcalc-api/numfmt"

// MAP returns the mean arterial pressure, rounded half up.
func MAP(sbp, dbp float64) (int, bool) {
	if !(sbp > 0) || !(dbp > 0) {
		return 0, false
	}
	return int(numfmt.Round(dbp + (sbp-dbp)/3)), true
}

// PALSHypotension is the systolic floor below which a child of the given age
// is hypotensive.
func PALSHypotension(ageYears float64) float64 {
	return 70 + 2*ageYears
}
