// Package classifier places patient measurements against reference tables:
// pediatric blood pressure, neonatal blood pressure, growth percentiles and
// neonatal jaundice thresholds.
//
// Classifiers return nil when an input is missing or the table has no row
// for it. They never fall back to a default band.
package classifier

// Severity is ordinal: higher values need more attention.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityMonitor
	SeverityAbnormal
)

func (s Severity) String() string {
	switch s {
	case SeverityNormal:
		return "normal"
	case SeverityMonitor:
		return "monitor"
	default:
		return "abnormal"
	}
}

// Classification is the common part of every classifier result.
type Classification struct {
	Band           string   `json:"band"`
	Interpretation string   `json:"interpretation"`
	Severity       Severity `json:"severity"`
}
