package entities

import "time"

// Source records where a table of the dataset was read from.
type Source struct {
	Table  string `json:"table"`
	Origin string `json:"origin"`
	Rows   int    `json:"rows"`
}

// Dataset is an immutable snapshot of every reference table. It is built by
// the loader and never modified once published.
type Dataset struct {
	Formulary  Formulary                  `json:"formulary"`
	Growth     map[string]*GrowthStandard `json:"growth"`
	BP         *BPTable                   `json:"bp,omitempty"`
	NeonatalBP *NeonatalBPTable           `json:"neonatalBp"`
	Jaundice   *JaundiceTable             `json:"jaundice"`
	LoadedAt   time.Time                  `json:"loadedAt"`
	Sources    []Source                   `json:"sources"`

	drugIndex map[string]int
}

// BuildIndex prepares the drug lookup. It must be called before the dataset
// is shared.
func (d *Dataset) BuildIndex() {
	d.drugIndex = make(map[string]int, len(d.Formulary.Drugs))
	for i, drug := range d.Formulary.Drugs {
		d.drugIndex[drug.ID] = i
	}
}

// Drug returns a drug by id.
func (d *Dataset) Drug(id string) (*Drug, bool) {
	if d == nil {
		return nil, false
	}
	i, ok := d.drugIndex[id]
	if !ok {
		return nil, false
	}
	return &d.Formulary.Drugs[i], true
}

// GrowthStandard returns a standard by name ("who" or "cdc").
func (d *Dataset) GrowthStandard(name string) (*GrowthStandard, bool) {
	if d == nil {
		return nil, false
	}
	g, ok := d.Growth[name]
	return g, ok && g != nil
}
