package dosing

// RenalAdjustment holds the formulary's dosing notes per kidney function band.
type RenalAdjustment struct {
	GFR50 string `json:"gfr50"`
	GFR30 string `json:"gfr30"`
	GFR10 string `json:"gfr10"`
	HD    string `json:"hd"`
}

// RenalSelection is the adjustment that applies to a patient's GFR category.
type RenalSelection struct {
	Category     string `json:"category"`
	Band         string `json:"band"`
	Adjustment   string `json:"adjustment"`
	Hemodialysis string `json:"hemodialysis,omitempty"`
}

// SelectRenalAdjustment maps a GFR category (normal, mild, moderate, severe)
// to the matching note. Both normal and mild read the GFR >50 column.
func SelectRenalAdjustment(adj RenalAdjustment, category string) (RenalSelection, bool) {
	sel := RenalSelection{Category: category, Hemodialysis: adj.HD}
	switch category {
	case "normal", "mild":
		sel.Band, sel.Adjustment = "gfr50", adj.GFR50
	case "moderate":
		sel.Band, sel.Adjustment = "gfr30", adj.GFR30
	case "severe":
		sel.Band, sel.Adjustment = "gfr10", adj.GFR10
	default:
		return RenalSelection{}, false
	}
	return sel, true
}
