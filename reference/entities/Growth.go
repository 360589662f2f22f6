package entities

// Measures and sexes used as keys in growth standards.
const (
	MeasureWeight = "weight"
	MeasureLength = "length"
	MeasureHC     = "hc"

	SexMale   = "male"
	SexFemale = "female"
)

// Curve is one percentile line of a growth chart, indexed by age.
type Curve struct {
	Percentile float64   `json:"percentile"`
	Values     []float64 `json:"values"`
}

// GrowthStandard is a set of percentile curves such as WHO 0-24 months or
// CDC 2-20 years. Ages are whole AgeUnit steps starting at AgeOffset.
type GrowthStandard struct {
	Name      string                        `json:"name"`
	Title     string                        `json:"title"`
	AgeUnit   string                        `json:"ageUnit"`
	AgeOffset int                           `json:"ageOffset"`
	Measures  map[string]map[string][]Curve `json:"measures"`
}

// Curves returns the curves for a measure and sex, ordered from the lowest
// percentile, or nil.
func (g *GrowthStandard) Curves(measure, sex string) []Curve {
	if g == nil {
		return nil
	}
	bySex, ok := g.Measures[measure]
	if !ok {
		return nil
	}
	return bySex[sex]
}

// Len is the number of tabulated ages for a measure and sex.
func (g *GrowthStandard) Len(measure, sex string) int {
	curves := g.Curves(measure, sex)
	if len(curves) == 0 {
		return 0
	}
	return len(curves[0].Values)
}
