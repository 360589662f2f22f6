package entities

// DoseSpec is one dosing line of a formulary drug. Value is a number, a
// "min-max" range, or a "See age ..." sentinel.
type DoseSpec struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Value     string  `json:"value"`
	Unit      string  `json:"unit"`
	MaxDoseMg float64 `json:"maxDoseMg,omitempty"`
	Fixed     bool    `json:"fixed,omitempty"`
}

type AgeDose struct {
	Age  string `json:"age"`
	Dose string `json:"dose"`
}

// RenalAdjustment holds free-text dosing notes for each GFR band.
type RenalAdjustment struct {
	GFR50 string `json:"gfr50"`
	GFR30 string `json:"gfr30"`
	GFR10 string `json:"gfr10"`
	HD    string `json:"hd"`
}

type Drug struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	Route           string           `json:"route"`
	FixedDose       bool             `json:"fixedDose,omitempty"`
	Doses           []DoseSpec       `json:"doses"`
	AgeDosing       []AgeDose        `json:"ageDosing,omitempty"`
	Max             string           `json:"max"`
	Indication      string           `json:"indication"`
	Notes           string           `json:"notes"`
	RenalAdjustment *RenalAdjustment `json:"renalAdjustment,omitempty"`
}

// Formulary is the drug list together with where it came from.
type Formulary struct {
	Source string `json:"source"`
	Drugs  []Drug `json:"drugs"`
}
