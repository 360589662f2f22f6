package dosing

import "testing"

func TestParseMaxDose(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"3 g/day", 3000, true},
		{"800 mg PO, 20 mg/kg IV", 800, true},
		{"75 mg/kg/day (max 4g/day)", 4000, true},
		{"1.2g IV/dose", 1200, true},
		{"1.5 g", 1500, true},
		{"10 G/DAY", 10000, true},
		{"50 mcg", 50, true},
		{"6 mg first dose", 6, true},
		{"2 gr", 0, false},
		{"See protocol", 0, false},
		{"", 0, false},
		{"weight based", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseMaxDose(tt.input)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestResolveMaxDose(t *testing.T) {
	if got, ok := ResolveMaxDose(250, "4 g/day"); !ok || got != 250 {
		t.Errorf("Expected structured ceiling 250, got %v (ok=%v)", got, ok)
	}
	if got, ok := ResolveMaxDose(0, " 4 g/day "); !ok || got != 4000 {
		t.Errorf("Expected parsed ceiling 4000, got %v (ok=%v)", got, ok)
	}
	if _, ok := ResolveMaxDose(0, "See protocol"); ok {
		t.Error("Expected no ceiling for See protocol")
	}
}
