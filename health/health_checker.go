// Package health reports whether the calculators can be served from the
// active reference dataset.
package health

import (
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/giygas/pedcalc-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore   interfaces.DataStore
	reloadTimes []clock
	now         func() time.Time
}

type clock struct{ hour, minute int }

// NewHealthChecker creates a health checker. reloadTimes uses the scheduler
// format ("06:00;18:00"); entries that do not parse are ignored.
func NewHealthChecker(dataStore interfaces.DataStore, reloadTimes string) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		dataStore:   dataStore,
		reloadTimes: parseClocks(reloadTimes),
		now:         time.Now,
	}
}

func parseClocks(s string) []clock {
	var out []clock
	for _, part := range strings.Split(s, ";") {
		hh, mm, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		h, errH := strconv.Atoi(hh)
		m, errM := strconv.Atoi(mm)
		if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
			continue
		}
		out = append(out, clock{h, m})
	}
	if len(out) == 0 {
		out = []clock{{6, 0}, {18, 0}}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].hour*60+out[i].minute < out[j].hour*60+out[j].minute
	})
	return out
}

// HealthCheck returns the status, its details and the HTTP code for /health.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	ds := h.dataStore.GetDataset()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()
	dataAge := h.now().Sub(lastUpdate)

	drugs, standards, tables := 0, 0, 0
	if ds != nil {
		drugs = len(ds.Formulary.Drugs)
		standards = len(ds.Growth)
		for _, present := range []bool{ds.BP != nil, ds.NeonatalBP != nil, ds.Jaundice != nil} {
			if present {
				tables++
			}
		}
	}

	switch {
	case ds == nil || drugs == 0 || standards == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 48*time.Hour:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 24*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case isUpdating && dataAge > 6*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":      lastUpdate.Format(time.RFC3339),
		"data_age_hours":   math.Round(dataAge.Hours()*10) / 10,
		"drugs":            drugs,
		"growth_standards": standards,
		"tables":           tables,
		"is_updating":      isUpdating,
		"next_update":      h.CalculateNextUpdate().Format(time.RFC3339),
	}

	if report := h.dataStore.GetDataQualityReport(); report != nil {
		data["data_quality"] = map[string]any{
			"drugs_without_doses":    report.DrugsWithoutDoses,
			"unparseable_doses":      report.UnparseableDoses,
			"drugs_without_max_dose": report.DrugsWithoutMaxDose,
		}
	}

	if start := h.dataStore.GetServerStartTime(); !start.IsZero() {
		data["uptime_seconds"] = int64(h.now().Sub(start).Seconds())
	}

	return status, data, httpStatus
}

// CalculateNextUpdate returns the next scheduled reload time.
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	now := h.now()
	for _, c := range h.reloadTimes {
		at := time.Date(now.Year(), now.Month(), now.Day(), c.hour, c.minute, 0, 0, now.Location())
		if now.Before(at) {
			return at
		}
	}
	first := h.reloadTimes[0]
	return time.Date(now.Year(), now.Month(), now.Day()+1, first.hour, first.minute, 0, 0, now.Location())
}
