package reference

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/giygas/pedcalc-api/logging"
	"github.com/giygas/pedcalc-api/reference/entities"
)

// Column layout of a formulary TSV. The max_dose_mg column is optional.
const (
	colID = iota
	colName
	colCategory
	colRoute
	colDoseKey
	colDoseLabel
	colDoseValue
	colDoseUnit
	colMax
	colMaxDoseMg

	requiredColumns = colMax + 1
)

// TSVStats counts the lines of a formulary TSV that were not imported.
type TSVStats struct {
	TotalLines     int
	EmptyLines     int
	MissingColumns int
	FormatErrors   int
	Doses          int
}

// Skipped reports whether any non-empty line was dropped.
func (s TSVStats) Skipped() bool {
	return s.MissingColumns > 0 || s.FormatErrors > 0
}

// ParseFormularyTSV reads one dose per line and groups the doses by drug id,
// keeping the order in which ids first appear. Drug level columns are taken
// from the first line of each id. A header line starting with "id" is
// ignored.
func ParseFormularyTSV(r io.Reader, origin string) ([]entities.Drug, TSVStats, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0), 1*1024*1024)

	var stats TSVStats
	var drugs []entities.Drug
	index := make(map[string]int)

	for scanner.Scan() {
		stats.TotalLines++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			stats.EmptyLines++
			continue
		}

		fields := strings.Split(line, "\t")
		if stats.TotalLines == 1 && strings.EqualFold(strings.TrimSpace(fields[colID]), "id") {
			continue
		}

		if len(fields) < requiredColumns {
			stats.MissingColumns++
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		if fields[colID] == "" || fields[colName] == "" || fields[colDoseValue] == "" {
			stats.FormatErrors++
			continue
		}

		dose := entities.DoseSpec{
			Key:   fields[colDoseKey],
			Label: fields[colDoseLabel],
			Value: fields[colDoseValue],
			Unit:  fields[colDoseUnit],
		}
		if dose.Key == "" {
			dose.Key = dose.Label
		}

		if len(fields) > colMaxDoseMg && fields[colMaxDoseMg] != "" {
			mg, err := strconv.ParseFloat(fields[colMaxDoseMg], 64)
			if err != nil || mg < 0 {
				stats.FormatErrors++
				continue
			}
			dose.MaxDoseMg = mg
		}

		i, ok := index[fields[colID]]
		if !ok {
			drugs = append(drugs, entities.Drug{
				ID:       fields[colID],
				Name:     fields[colName],
				Category: fields[colCategory],
				Route:    fields[colRoute],
				Max:      fields[colMax],
			})
			i = len(drugs) - 1
			index[fields[colID]] = i
		}
		drugs[i].Doses = append(drugs[i].Doses, dose)
		stats.Doses++
	}

	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("scanner error in %s: %w", origin, err)
	}

	if stats.Skipped() {
		logging.Info("Formulary TSV skip statistics",
			"origin", origin,
			"empty_lines", stats.EmptyLines,
			"missing_columns", stats.MissingColumns,
			"format_errors", stats.FormatErrors,
			"total_lines", stats.TotalLines,
			"records_parsed", len(drugs))
	}

	return drugs, stats, nil
}

// mergeDrugs replaces drugs of base that share an id with extra and appends
// the rest. base is not modified.
func mergeDrugs(base, extra []entities.Drug) []entities.Drug {
	merged := make([]entities.Drug, len(base), len(base)+len(extra))
	copy(merged, base)

	index := make(map[string]int, len(merged))
	for i, d := range merged {
		index[d.ID] = i
	}
	for _, d := range extra {
		if i, ok := index[d.ID]; ok {
			merged[i] = d
			continue
		}
		index[d.ID] = len(merged)
		merged = append(merged, d)
	}
	return merged
}
