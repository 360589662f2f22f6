// Package validation checks reference datasets before they are published
// and validates user input for the calculation API.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/giygas/pedcalc-api/dosing"
	"github.com/giygas/pedcalc-api/interfaces"
	"github.com/giygas/pedcalc-api/logging"
	"github.com/giygas/pedcalc-api/numfmt"
	"github.com/giygas/pedcalc-api/reference/entities"
)

// Pre-compiled regex patterns for performance optimization
// Compiled once at package initialization and reused for all validations
var (
	// Input validation: alphanumeric + accents + safe punctuation
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+'()/àâäéèêëïîôöùûüÿç]+$`)

	drugIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

	// Dangerous patterns as strings (faster than regex for simple substring matching)
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
		"eval(", "expression(", "url(", "import ", "@import", "binding(", "behavior(",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"update set", "--", "/*", "*/", "xp_", "sp_", "exec(", "execute(",
		// Command injection patterns
		"; ", "| ", "& ", "`", "$(", "${",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
	}

	// Standards the growth endpoints expect to find.
	requiredStandards = []string{"who", "cdc"}
)

const (
	maxDrugIDLength   = 64
	maxDrugNameLength = 200
	maxReportEntries  = 10
	bpAges            = entities.BPMaxAge - entities.BPMinAge + 1
)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateDrug checks if a formulary entry is valid
func (v *DataValidatorImpl) ValidateDrug(d *entities.Drug) error {
	if d == nil {
		return fmt.Errorf("drug is nil")
	}

	if _, err := v.ValidateDrugID(d.ID); err != nil {
		return fmt.Errorf("invalid drug id %q: %w", d.ID, err)
	}

	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("empty name for drug %s", d.ID)
	}

	if len(d.Name) > maxDrugNameLength {
		return fmt.Errorf("name too long for drug %s: %d characters", d.ID, len(d.Name))
	}

	keys := make(map[string]bool, len(d.Doses))
	for _, dose := range d.Doses {
		if strings.TrimSpace(dose.Value) == "" {
			return fmt.Errorf("empty dose value for drug %s dose %q", d.ID, dose.Key)
		}
		if keys[dose.Key] {
			return fmt.Errorf("duplicate dose key %q for drug %s", dose.Key, d.ID)
		}
		keys[dose.Key] = true
		if dose.MaxDoseMg < 0 {
			return fmt.Errorf("negative max dose for drug %s dose %q", d.ID, dose.Key)
		}
	}

	return nil
}

// ValidateDataset performs comprehensive dataset validation. Any error means
// the dataset must not be published.
func (v *DataValidatorImpl) ValidateDataset(ds *entities.Dataset) error {
	if ds == nil {
		return fmt.Errorf("dataset is nil")
	}

	if len(ds.Formulary.Drugs) == 0 {
		return fmt.Errorf("no drugs found")
	}

	// Check for duplicate drug ids
	seen := make(map[string]bool, len(ds.Formulary.Drugs))
	for i := range ds.Formulary.Drugs {
		drug := &ds.Formulary.Drugs[i]
		if seen[drug.ID] {
			return fmt.Errorf("duplicate drug id found: %s", drug.ID)
		}
		seen[drug.ID] = true

		if err := v.ValidateDrug(drug); err != nil {
			return fmt.Errorf("invalid formulary: %w", err)
		}
	}

	for _, name := range requiredStandards {
		std, ok := ds.GrowthStandard(name)
		if !ok {
			return fmt.Errorf("growth standard %s is missing", name)
		}
		if err := validateGrowthStandard(std); err != nil {
			return fmt.Errorf("growth standard %s: %w", name, err)
		}
	}

	if err := validateBPTable(ds.BP); err != nil {
		return fmt.Errorf("pediatric BP table: %w", err)
	}

	if err := validateNeonatalBP(ds.NeonatalBP); err != nil {
		return fmt.Errorf("neonatal BP table: %w", err)
	}

	if err := validateJaundice(ds.Jaundice); err != nil {
		return fmt.Errorf("jaundice table: %w", err)
	}

	return nil
}

// validateGrowthStandard checks that every curve of a subgroup has the same
// number of ages and that percentiles are listed from low to high.
func validateGrowthStandard(std *entities.GrowthStandard) error {
	if len(std.Measures) == 0 {
		return errors.New("no measures")
	}
	if std.AgeOffset < 0 {
		return fmt.Errorf("negative age offset %d", std.AgeOffset)
	}
	for measure, bySex := range std.Measures {
		for sex, curves := range bySex {
			if len(curves) == 0 {
				return fmt.Errorf("%s/%s has no curves", measure, sex)
			}
			n := len(curves[0].Values)
			if n == 0 {
				return fmt.Errorf("%s/%s has no values", measure, sex)
			}
			for i, c := range curves {
				if len(c.Values) != n {
					return fmt.Errorf("%s/%s P%v has %d values, expected %d", measure, sex, c.Percentile, len(c.Values), n)
				}
				if i > 0 && c.Percentile <= curves[i-1].Percentile {
					return fmt.Errorf("%s/%s percentiles are not increasing", measure, sex)
				}
			}
		}
	}
	return nil
}

func validateBPTable(t *entities.BPTable) error {
	if t == nil {
		return errors.New("missing")
	}
	if len(t.Sexes) == 0 {
		return errors.New("no sexes")
	}
	for sex, bands := range t.Sexes {
		if len(bands) == 0 {
			return fmt.Errorf("%s has no height bands", sex)
		}
		for band, b := range bands {
			for name, p := range map[string]entities.BPPercentiles{"systolic": b.Systolic, "diastolic": b.Diastolic} {
				if len(p.P50) != bpAges || len(p.P90) != bpAges || len(p.P95) != bpAges {
					return fmt.Errorf("%s/%s %s must have %d ages", sex, band, name, bpAges)
				}
			}
		}
	}
	return nil
}

func validateNeonatalBP(t *entities.NeonatalBPTable) error {
	if t == nil {
		return errors.New("missing")
	}
	if len(t.DayOne) == 0 || len(t.PostConceptional) == 0 {
		return errors.New("empty table")
	}
	for _, rows := range [][]entities.NeonatalBPRow{t.DayOne, t.PostConceptional} {
		for _, r := range rows {
			for _, pr := range []entities.PressureRange{r.Systolic, r.Diastolic, r.Mean} {
				if pr.Low > pr.Normal || pr.Normal > pr.High {
					return fmt.Errorf("week %d has unordered low/normal/high", r.Weeks)
				}
			}
		}
	}
	return nil
}

func validateJaundice(t *entities.JaundiceTable) error {
	if t == nil {
		return errors.New("missing")
	}
	if len(t.Categories) == 0 {
		return errors.New("no categories")
	}
	for _, c := range t.Categories {
		if len(c.Phototherapy) == 0 || len(c.Phototherapy) != len(c.Exchange) {
			return fmt.Errorf("category %s has %d phototherapy and %d exchange thresholds",
				c.Key, len(c.Phototherapy), len(c.Exchange))
		}
	}
	return nil
}

// ReportDataQuality lists issues that do not block publication but that
// make some calculations unavailable.
func (v *DataValidatorImpl) ReportDataQuality(ds *entities.Dataset) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		DuplicateDrugIDs:       []string{},
		DrugsWithoutDosesIDs:   []string{},
		UnparseableDosesIDs:    []string{},
		DrugsWithoutMaxDoseIDs: []string{},
	}
	if ds == nil {
		return report
	}

	counts := make(map[string]int)
	for _, drug := range ds.Formulary.Drugs {
		counts[drug.ID]++

		if drug.RenalAdjustment != nil {
			report.DrugsWithRenalAdjustment++
		} else {
			report.DrugsWithoutRenalAdjustment++
		}

		if len(drug.Doses) == 0 {
			report.DrugsWithoutDoses++
			report.DrugsWithoutDosesIDs = appendLimited(report.DrugsWithoutDosesIDs, drug.ID)
			continue
		}

		structuredMax := false
		for _, dose := range drug.Doses {
			if dose.MaxDoseMg > 0 {
				structuredMax = true
			}
			if drug.FixedDose || dose.Fixed || strings.Contains(dose.Value, "See age") {
				continue
			}
			if _, ok := numfmt.ParseLeading(dose.Value); !ok {
				report.UnparseableDoses++
				report.UnparseableDosesIDs = appendLimited(report.UnparseableDosesIDs, drug.ID+"/"+dose.Key)
			}
		}

		if _, ok := dosing.ParseMaxDose(strings.TrimSpace(drug.Max)); !ok && !structuredMax {
			report.DrugsWithoutMaxDose++
			report.DrugsWithoutMaxDoseIDs = appendLimited(report.DrugsWithoutMaxDoseIDs, drug.ID)
		}
	}

	for id, n := range counts {
		if n > 1 {
			report.DuplicateDrugIDs = append(report.DuplicateDrugIDs, id)
		}
	}
	sort.Strings(report.DuplicateDrugIDs)

	return report
}

func appendLimited(list []string, id string) []string {
	if len(list) < maxReportEntries {
		return append(list, id)
	}
	return list
}

// LogReport writes the non-empty sections of a report at warn level.
func LogReport(report *interfaces.DataQualityReport) {
	if report == nil {
		return
	}
	if len(report.DuplicateDrugIDs) > 0 {
		logging.Warn("Duplicate drug IDs detected",
			"total", len(report.DuplicateDrugIDs),
			"id_list", report.DuplicateDrugIDs,
		)
	}
	if report.DrugsWithoutDoses > 0 {
		logging.Warn("Drugs without doses",
			"count", report.DrugsWithoutDoses,
			"id_list", report.DrugsWithoutDosesIDs,
		)
	}
	if report.UnparseableDoses > 0 {
		logging.Warn("Doses that cannot be computed",
			"count", report.UnparseableDoses,
			"dose_list", report.UnparseableDosesIDs,
		)
	}
	if report.DrugsWithoutMaxDose > 0 {
		logging.Info("Drugs without a parseable max dose",
			"count", report.DrugsWithoutMaxDose,
			"id_list", report.DrugsWithoutMaxDoseIDs,
		)
	}
}

// ValidateInput validates user search strings with enhanced security
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(input) < 2 {
		return fmt.Errorf("input too short: minimum 2 characters")
	}

	if len(input) > 50 {
		return fmt.Errorf("input too long: maximum 50 characters")
	}

	// Word count validation to prevent DoS attacks with many short words
	words := strings.Fields(input)
	if len(words) > 6 {
		return fmt.Errorf("search query too complex: maximum 6 words allowed")
	}

	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("input contains potentially dangerous content")
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters. Only letters, numbers, spaces, hyphens, apostrophes, periods, slashes, parentheses and plus sign are allowed")
	}

	if v.hasExcessiveRepetition(input) {
		return fmt.Errorf("input contains excessive character repetition")
	}

	return nil
}

// ValidateDrugID validates formulary ids such as "amoxicillin" or "tmp-smx"
func (v *DataValidatorImpl) ValidateDrugID(input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("input cannot be empty")
	}

	if len(input) > maxDrugIDLength {
		return "", fmt.Errorf("drug id too long: maximum %d characters", maxDrugIDLength)
	}

	if !drugIDRegex.MatchString(input) {
		return "", fmt.Errorf("input contains invalid characters. Only letters, numbers, hyphens and underscores are allowed")
	}

	return input, nil
}

// hasExcessiveRepetition checks for potential DoS patterns with excessive character repetition
func (v *DataValidatorImpl) hasExcessiveRepetition(input string) bool {
	// Check for the same character repeated more than 10 times consecutively
	for i := 0; i < len(input)-10; i++ {
		allSame := true
		for j := 1; j <= 10; j++ {
			if input[i] != input[i+j] {
				allSame = false
				break
			}
		}
		if allSame {
			return true
		}
	}
	return false
}
