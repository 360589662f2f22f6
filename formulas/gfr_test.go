package formulas

import "testing"

func TestEstimateGFR(t *testing.T) {
	tests := []struct {
		name       string
		eq         Equation
		height     float64
		creatinine float64
		group      AgeGroup
		value      string
		category   GFRCategory
	}{
		{"revised bedside", EquationRevised, 100, 50, "", "73.0", GFRNormal},
		{"revised mild", EquationRevised, 100, 100, "", "36.5", GFRMild},
		{"revised moderate", EquationRevised, 50, 100, "", "18.3", GFRModerate},
		{"revised severe", EquationRevised, 20, 100, "", "7.3", GFRSevere},
		{"original child", EquationOriginal, 100, 50, AgeChild, "97.2", GFRNormal},
		{"original preterm", EquationOriginal, 45, 40, AgePreterm, "32.8", GFRMild},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EstimateGFR(tt.eq, tt.height, tt.creatinine, tt.group)
			if !ok {
				t.Fatal("Expected a GFR")
			}
			if got.Value != tt.value {
				t.Errorf("Expected %s, got %s", tt.value, got.Value)
			}
			if got.Category != tt.category {
				t.Errorf("Expected category %s, got %s", tt.category, got.Category)
			}
		})
	}
}

func TestEstimateGFRInvalid(t *testing.T) {
	if _, ok := EstimateGFR(EquationRevised, 0, 50, ""); ok {
		t.Error("Expected zero height to be rejected")
	}
	if _, ok := EstimateGFR(EquationOriginal, 100, 0, AgeChild); ok {
		t.Error("Expected zero creatinine to be rejected")
	}
}

func TestSchwartzK(t *testing.T) {
	tests := map[AgeGroup]float64{
		AgePreterm:          0.33,
		AgeTerm:             0.45,
		AgeChild:            0.55,
		AgeAdolescentMale:   0.70,
		AgeAdolescentFemale: 0.55,
		"unknown":           0.55,
	}
	for group, expected := range tests {
		if got := SchwartzK(group); got != expected {
			t.Errorf("SchwartzK(%s): expected %v, got %v", group, expected, got)
		}
	}
}

func TestCategorizeGFRBoundaries(t *testing.T) {
	tests := []struct {
		gfr      float64
		expected GFRCategory
	}{
		{50, GFRNormal},
		{49.9, GFRMild},
		{30, GFRMild},
		{29.9, GFRModerate},
		{10, GFRModerate},
		{9.9, GFRSevere},
	}
	for _, tt := range tests {
		if got := CategorizeGFR(tt.gfr); got != tt.expected {
			t.Errorf("CategorizeGFR(%v): expected %s, got %s", tt.gfr, tt.expected, got)
		}
	}
}
