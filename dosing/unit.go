package dosing

import (
	"fmt"
	"strings"
)

// DoseUnit is the display unit a dose resolves to.
type DoseUnit int

const (
	Milligram DoseUnit = iota
	Microgram
	Milliliter
	Gram
	KiloUnits
	Rate
)

// String returns the unit label appended to computed doses.
func (u DoseUnit) String() string {
	switch u {
	case Milligram:
		return "mg"
	case Microgram:
		return "mcg"
	case Milliliter:
		return "mL"
	case Gram:
		return "g"
	case KiloUnits:
		return "K units"
	case Rate:
		return "rate"
	default:
		return fmt.Sprintf("DoseUnit(%d)", int(u))
	}
}

// MarshalText lets the unit appear by name in JSON.
func (u DoseUnit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// Precision is the number of decimals shown for the unit.
func (u DoseUnit) Precision() int {
	switch u {
	case Milliliter, Gram:
		return 2
	case KiloUnits:
		return 0
	default:
		return 1
	}
}

// Capped reports whether the maximum dose ceiling applies to the unit.
func (u DoseUnit) Capped() bool {
	return u == Milligram || u == Microgram
}

// ClassifyUnit resolves the free-text unit label of a formulary dose.
// The expression is consulted only for unit doses written as "50000 units".
//
// "mg/kg" contains "g/kg", so a label such as "mg/kg (0.5-1 ml/kg of 10%)"
// is neither mL nor g and falls through to mg.
func ClassifyUnit(label, expression string) DoseUnit {
	switch {
	case containsAny(label, "/min", "/hr", "/hour"):
		return Rate
	case containsAny(label, "mL", "ml") && !strings.Contains(label, "g/kg"):
		return Milliliter
	case strings.Contains(label, "g/kg") && !containsAny(label, "mg", "mcg"):
		return Gram
	case strings.Contains(label, "mcg"):
		return Microgram
	case strings.Contains(label, "units") || strings.Contains(expression, "units"):
		return KiloUnits
	default:
		return Milligram
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
