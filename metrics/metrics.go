// Package metrics exports Prometheus metrics for the HTTP server and the
// calculation engine:
//   - http_request_total, http_request_duration_seconds, http_request_in_flight
//   - dose_calculations_total{unit}, dose_capped_total
//   - classifications_total{classifier,band}
//   - reference_reloads_total{status}, reference_dataset_* gauges
//   - rate_limiter_buckets_total
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import (
	"github.com/giygas/pedcalc-api/reference/entities"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (clients seen in the last ~5 minutes)",
		},
	)

	DoseCalculationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dose_calculations_total",
			Help: "Computed doses by display unit",
		},
		[]string{"unit"},
	)

	DoseCappedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dose_capped_total",
			Help: "Computed doses clamped to the maximum dose",
		},
	)

	ClassificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifications_total",
			Help: "Classifier results by band",
		},
		[]string{"classifier", "band"},
	)

	ReferenceReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reference_reloads_total",
			Help: "Reference data reloads by outcome",
		},
		[]string{"status"},
	)

	ReferenceDrugs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reference_dataset_drugs",
			Help: "Drugs in the active formulary",
		},
	)

	ReferenceTables = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reference_dataset_tables",
			Help: "Entries per reference table in the active dataset",
		},
		[]string{"table"},
	)

	ReferenceLastReload = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reference_dataset_loaded_timestamp_seconds",
			Help: "Unix time the active dataset was loaded",
		},
	)
)

// Reload outcomes.
const (
	ReloadSuccess = "success"
	ReloadFailure = "failure"
	ReloadInvalid = "invalid"
)

func init() {
	prometheus.MustRegister(
		HTTPRequestTotals,
		HTTPRequestDuration,
		HTTPRequestInFlight,
		RateLimiterBucketsTotal,
		DoseCalculationsTotal,
		DoseCappedTotal,
		ClassificationsTotal,
		ReferenceReloadsTotal,
		ReferenceDrugs,
		ReferenceTables,
		ReferenceLastReload,
	)
}

// ObserveDose counts one computed dose.
func ObserveDose(unit string, capped bool) {
	DoseCalculationsTotal.WithLabelValues(unit).Inc()
	if capped {
		DoseCappedTotal.Inc()
	}
}

// ObserveClassification counts one classifier result.
func ObserveClassification(classifier, band string) {
	if band == "" {
		band = "none"
	}
	ClassificationsTotal.WithLabelValues(classifier, band).Inc()
}

// ObserveReload records a reload outcome and, on success, the new dataset.
func ObserveReload(status string, ds *entities.Dataset) {
	ReferenceReloadsTotal.WithLabelValues(status).Inc()
	if status != ReloadSuccess || ds == nil {
		return
	}

	ReferenceDrugs.Set(float64(len(ds.Formulary.Drugs)))
	ReferenceTables.WithLabelValues("growth_standards").Set(float64(len(ds.Growth)))
	neonatal, jaundice, bp := 0, 0, 0
	if ds.NeonatalBP != nil {
		neonatal = len(ds.NeonatalBP.DayOne) + len(ds.NeonatalBP.PostConceptional)
	}
	if ds.Jaundice != nil {
		jaundice = len(ds.Jaundice.Categories)
	}
	if ds.BP != nil {
		bp = len(ds.BP.Sexes)
	}
	ReferenceTables.WithLabelValues("neonatal_bp").Set(float64(neonatal))
	ReferenceTables.WithLabelValues("jaundice_categories").Set(float64(jaundice))
	ReferenceTables.WithLabelValues("bp_sexes").Set(float64(bp))
	ReferenceLastReload.Set(float64(ds.LoadedAt.Unix()))
}
