package entities

// BPPercentiles holds 17 values each, one per year of age from 1 to 17.
type BPPercentiles struct {
	P50 []float64 `json:"p50"`
	P90 []float64 `json:"p90"`
	P95 []float64 `json:"p95"`
}

type BPBand struct {
	Systolic  BPPercentiles `json:"systolic"`
	Diastolic BPPercentiles `json:"diastolic"`
}

// BPTable is the pediatric blood pressure reference, keyed by sex and then
// by height percentile ("5", "50", "95", ...).
type BPTable struct {
	Source string                       `json:"source"`
	Sexes  map[string]map[string]BPBand `json:"sexes"`
}

const (
	BPMinAge = 1
	BPMaxAge = 17
)

// Band returns the percentiles for a sex and height band.
func (t *BPTable) Band(sex, heightBand string) (BPBand, bool) {
	if t == nil {
		return BPBand{}, false
	}
	bands, ok := t.Sexes[sex]
	if !ok {
		return BPBand{}, false
	}
	b, ok := bands[heightBand]
	return b, ok
}

type PressureRange struct {
	High   float64 `json:"high"`
	Normal float64 `json:"normal"`
	Low    float64 `json:"low"`
}

type NeonatalBPRow struct {
	Weeks     int           `json:"weeks"`
	Systolic  PressureRange `json:"systolic"`
	Diastolic PressureRange `json:"diastolic"`
	Mean      PressureRange `json:"mean"`
}

// NeonatalBPTable has rows by gestational age on the first day of life and
// by post-conceptional age afterwards.
type NeonatalBPTable struct {
	DayOne           []NeonatalBPRow `json:"dayOne"`
	PostConceptional []NeonatalBPRow `json:"postConceptional"`
}
