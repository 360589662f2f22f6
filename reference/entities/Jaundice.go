package entities

// JaundiceCategory holds bilirubin thresholds in µmol/L by postnatal age
// step. Preterm categories have 9 steps and term categories 10.
type JaundiceCategory struct {
	Key          string    `json:"key"`
	Phototherapy []float64 `json:"phototherapy"`
	Exchange     []float64 `json:"exchange"`
}

type JaundiceTable struct {
	Unit       string             `json:"unit"`
	Categories []JaundiceCategory `json:"categories"`
}

// Category looks a category up by key.
func (t *JaundiceTable) Category(key string) (JaundiceCategory, bool) {
	if t == nil {
		return JaundiceCategory{}, false
	}
	for _, c := range t.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return JaundiceCategory{}, false
}
