package formulas

import "testing"

func TestMAP(t *testing.T) {
	tests := []struct {
		name     string
		sbp, dbp float64
		expected int
	}{
		{"standard adult values", 120, 80, 93},
		{"rounds down below half", 100, 60, 73},
		{"exact value", 90, 60, 70},
		{"half rounds up", 81.5, 80, 81},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MAP(tt.sbp, tt.dbp)
			if !ok {
				t.Fatal("Expected a value")
			}
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}

	if _, ok := MAP(0, 80); ok {
		t.Error("Expected missing systolic to be rejected")
	}
	if _, ok := MAP(120, -1); ok {
		t.Error("Expected negative diastolic to be rejected")
	}
}

func TestPALSHypotension(t *testing.T) {
	if got := PALSHypotension(5); got != 80 {
		t.Errorf("Expected 80, got %v", got)
	}
	if got := PALSHypotension(1); got != 72 {
		t.Errorf("Expected 72, got %v", got)
	}
}
