package formulas

import "testing"

func TestETT(t *testing.T) {
	tests := []struct {
		name     string
		weight   float64
		ga       int
		tube     string
		refDepth string
		depth    string
		basis    string
	}{
		{"extremely low birth weight", 0.8, 0, "2.5", "6-7", "6.8", "weight"},
		{"one kilogram", 1.0, 0, "3.0", "7-8", "7.0", "weight"},
		{"two kilograms", 2.0, 0, "3.0", "7-8", "8.0", "weight"},
		{"between two and three", 2.5, 0, "3.5", "8-9", "8.5", "weight"},
		{"term weight", 3.5, 0, "3.5-4.0", "9-10", "9.5", "weight"},
		{"weight wins over age", 0.8, 40, "2.5", "6-7", "6.8", "weight"},
		{"ga below 28", 0, 27, "2.5", "6-7", "", "gestational_age"},
		{"ga 34", 0, 34, "3.0", "7-8", "", "gestational_age"},
		{"ga 36", 0, 36, "3.5", "8-9", "", "gestational_age"},
		{"ga 40", 0, 40, "3.5-4.0", "9-10", "", "gestational_age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ETT(tt.weight, tt.ga)
			if !ok {
				t.Fatal("Expected a recommendation")
			}
			if got.TubeSize != tt.tube || got.ReferenceDepth != tt.refDepth {
				t.Errorf("Expected %s/%s, got %s/%s", tt.tube, tt.refDepth, got.TubeSize, got.ReferenceDepth)
			}
			if got.CalculatedDepth != tt.depth {
				t.Errorf("Expected depth %q, got %q", tt.depth, got.CalculatedDepth)
			}
			if got.Basis != tt.basis {
				t.Errorf("Expected basis %s, got %s", tt.basis, got.Basis)
			}
		})
	}

	if _, ok := ETT(0, 0); ok {
		t.Error("Expected no recommendation without weight or age")
	}
}

func TestUmbilical(t *testing.T) {
	tests := []struct {
		weight float64
		uac    string
		uvc    string
	}{
		{1.5, "14.3", "8.1"},
		{1.0, "12.5", "7.3"},
		{3, "19.5", "10.8"},
	}

	for _, tt := range tests {
		got, ok := Umbilical(tt.weight)
		if !ok {
			t.Fatalf("Expected lengths for %v kg", tt.weight)
		}
		if got.UAC != tt.uac || got.UVC != tt.uvc {
			t.Errorf("Umbilical(%v): expected %s/%s, got %s/%s", tt.weight, tt.uac, tt.uvc, got.UAC, got.UVC)
		}
	}

	if _, ok := Umbilical(0); ok {
		t.Error("Expected zero weight to be rejected")
	}
}
