package classifier

import (
	"math"

	"github.com/giygas/pedcalc-api/reference/entities"
)

// NeonatalBPTableKind selects the day-one or post-conceptional table.
type NeonatalBPTableKind string

const (
	NeonatalDayOne           NeonatalBPTableKind = "day_one"
	NeonatalPostConceptional NeonatalBPTableKind = "post_conceptional"
)

// LookupNeonatalBP returns the row for a whole number of weeks, or nil.
func LookupNeonatalBP(table *entities.NeonatalBPTable, kind NeonatalBPTableKind, weeks float64) *entities.NeonatalBPRow {
	if table == nil || weeks != math.Trunc(weeks) {
		return nil
	}
	var rows []entities.NeonatalBPRow
	switch kind {
	case NeonatalDayOne:
		rows = table.DayOne
	case NeonatalPostConceptional:
		rows = table.PostConceptional
	default:
		return nil
	}
	for i := range rows {
		if rows[i].Weeks == int(weeks) {
			row := rows[i]
			return &row
		}
	}
	return nil
}

// NeonatalBPClassification places an observed mean pressure against a row.
type NeonatalBPClassification struct {
	Classification
	Row entities.NeonatalBPRow `json:"row"`
}

// ClassifyNeonatalMAP compares a mean arterial pressure with the low and
// high bounds of the row.
func ClassifyNeonatalMAP(row *entities.NeonatalBPRow, mean float64) *NeonatalBPClassification {
	if row == nil || !(mean > 0) {
		return nil
	}
	res := &NeonatalBPClassification{Row: *row}
	switch {
	case mean < row.Mean.Low:
		res.Classification = Classification{Band: "low", Interpretation: "Below the expected range", Severity: SeverityAbnormal}
	case mean > row.Mean.High:
		res.Classification = Classification{Band: "high", Interpretation: "Above the expected range", Severity: SeverityAbnormal}
	default:
		res.Classification = Classification{Band: "normal", Interpretation: "Within the expected range", Severity: SeverityNormal}
	}
	return res
}
