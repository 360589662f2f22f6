package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/giygas/pedcalc-api/charts"
	"github.com/giygas/pedcalc-api/classifier"
	"github.com/giygas/pedcalc-api/logging"
	"github.com/giygas/pedcalc-api/metrics"
	"github.com/giygas/pedcalc-api/reference/entities"
)

var (
	sexes    = []string{entities.SexMale, entities.SexFemale}
	measures = []string{entities.MeasureWeight, entities.MeasureLength, entities.MeasureHC}
)

// NeonatalBPResult is the reference row for a gestational age and, when a
// mean pressure was given, its classification.
type NeonatalBPResult struct {
	Table          classifier.NeonatalBPTableKind       `json:"table"`
	Row            *entities.NeonatalBPRow              `json:"row"`
	Classification *classifier.NeonatalBPClassification `json:"classification,omitempty"`
}

func (h *HTTPHandlerImpl) ClassifyBP(w http.ResponseWriter, r *http.Request) {
	sex, err := enumParam(r, "sex", "", sexes...)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	ds, ok := h.dataset(w)
	if !ok {
		return
	}
	if ds.BP == nil {
		h.tableMissing(w, "bp_pediatric")
		return
	}

	res := classifier.ClassifyBP(ds.BP, classifier.BPRequest{
		Systolic:   positiveParam(r, "sbp"),
		Diastolic:  positiveParam(r, "dbp"),
		AgeYears:   ageParam(r, "age"),
		Sex:        sex,
		HeightBand: r.URL.Query().Get("height_percentile"),
	})
	if res != nil {
		metrics.ObserveClassification("bp", res.Band)
	}
	h.respondCalculation(w, res, res != nil)
}

// ClassifyNeonatalBP returns the day-one or post-conceptional reference row
// for a whole number of weeks. An optional map parameter is classified
// against the row.
func (h *HTTPHandlerImpl) ClassifyNeonatalBP(w http.ResponseWriter, r *http.Request) {
	table, err := enumParam(r, "table", string(classifier.NeonatalDayOne),
		string(classifier.NeonatalDayOne), string(classifier.NeonatalPostConceptional))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	ds, ok := h.dataset(w)
	if !ok {
		return
	}
	if ds.NeonatalBP == nil {
		h.tableMissing(w, "neonatal_bp")
		return
	}

	kind := classifier.NeonatalBPTableKind(table)
	row := classifier.LookupNeonatalBP(ds.NeonatalBP, kind, numberParam(r, "ga"))
	if row == nil {
		h.respondCalculation(w, nil, false)
		return
	}

	res := NeonatalBPResult{Table: kind, Row: row}
	if mean := positiveParam(r, "map"); mean > 0 {
		res.Classification = classifier.ClassifyNeonatalMAP(row, mean)
		metrics.ObserveClassification("neonatal_bp", res.Classification.Band)
	}
	h.respondCalculation(w, res, true)
}

// growthStandard reads the standard, measure and sex shared by the growth
// classifier and the growth chart.
func (h *HTTPHandlerImpl) growthStandard(w http.ResponseWriter, r *http.Request) (*entities.GrowthStandard, string, string, bool) {
	name, err := enumParam(r, "standard", "who", "who", "cdc")
	if err == nil {
		_, err = enumParam(r, "measure", "", measures...)
	}
	if err == nil {
		_, err = enumParam(r, "sex", "", sexes...)
	}
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return nil, "", "", false
	}

	ds, ok := h.dataset(w)
	if !ok {
		return nil, "", "", false
	}
	std, ok := ds.GrowthStandard(name)
	if !ok {
		h.tableMissing(w, "growth_"+name)
		return nil, "", "", false
	}

	q := r.URL.Query()
	return std, q.Get("measure"), q.Get("sex"), true
}

func (h *HTTPHandlerImpl) ClassifyGrowth(w http.ResponseWriter, r *http.Request) {
	std, measure, sex, ok := h.growthStandard(w, r)
	if !ok {
		return
	}

	res := classifier.ClassifyGrowth(std, measure, sex, ageParam(r, "age"), positiveParam(r, "value"))
	if res != nil {
		metrics.ObserveClassification("growth", res.Band)
	}
	h.respondCalculation(w, res, res != nil)
}

// ClassifyJaundice reads bilirubin in mg/dL unless unit says otherwise. The
// postnatal age is age_hours, or age_days when hours are not given.
func (h *HTTPHandlerImpl) ClassifyJaundice(w http.ResponseWriter, r *http.Request) {
	unit, err := enumParam(r, "unit", classifier.UnitMilligramDL, classifier.UnitMicromolar, classifier.UnitMilligramDL)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	risk, err := enumParam(r, "risk", classifier.RiskNone, classifier.RiskNone, classifier.RiskMedium, classifier.RiskHigh)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	ds, ok := h.dataset(w)
	if !ok {
		return
	}
	if ds.Jaundice == nil {
		h.tableMissing(w, "jaundice")
		return
	}

	ageHours := positiveParam(r, "age_hours")
	if ageHours == 0 {
		ageHours = positiveParam(r, "age_days") * 24
	}

	res := classifier.ClassifyJaundice(ds.Jaundice, classifier.JaundiceRequest{
		WeightKg:  positiveParam(r, "weight"),
		GAWeeks:   positiveParam(r, "ga"),
		AgeHours:  ageHours,
		Bilirubin: positiveParam(r, "bilirubin"),
		Unit:      unit,
		Risk:      risk,
	})
	if res != nil {
		metrics.ObserveClassification("jaundice", res.Band)
	}
	h.respondCalculation(w, res, res != nil)
}

// GrowthChart renders the growth curves as an HTML page, with the patient
// measurement overlaid when value is given.
func (h *HTTPHandlerImpl) GrowthChart(w http.ResponseWriter, r *http.Request) {
	std, measure, sex, ok := h.growthStandard(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	res, err := charts.RenderGrowth(&buf, charts.GrowthRequest{
		Standard: std,
		Measure:  measure,
		Sex:      sex,
		Age:      ageParam(r, "age"),
		Value:    positiveParam(r, "value"),
	})
	if errors.Is(err, charts.ErrNoCurves) {
		h.RespondWithError(w, http.StatusBadRequest, "measure and sex are required")
		return
	}
	if err != nil {
		logging.Error("Failed to render growth chart", "standard", std.Name, "error", err)
		h.RespondWithError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}
	if res != nil {
		metrics.ObserveClassification("growth", res.Band)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
