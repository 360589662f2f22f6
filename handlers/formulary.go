package handlers

import (
	"net/http"
	"strings"

	"github.com/giygas/pedcalc-api/dosing"
	"github.com/giygas/pedcalc-api/formulas"
	"github.com/giygas/pedcalc-api/logging"
	"github.com/giygas/pedcalc-api/metrics"
	"github.com/giygas/pedcalc-api/reference/entities"
	"github.com/go-chi/chi/v5"
)

// DoseLine is one dosing line of a drug computed for a patient weight.
type DoseLine struct {
	Key       string               `json:"key"`
	Label     string               `json:"label"`
	Value     string               `json:"value"`
	Unit      string               `json:"unit"`
	MaxDoseMg float64              `json:"maxDoseMg,omitempty"`
	Dose      *dosing.ComputedDose `json:"dose"`
}

// DrugDosesResponse holds every dose of a drug and, when the kidney
// function is known, the renal adjustment that applies.
type DrugDosesResponse struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	WeightKg  float64                `json:"weight"`
	Max       string                 `json:"max"`
	Doses     []DoseLine             `json:"doses"`
	AgeDosing []entities.AgeDose     `json:"ageDosing,omitempty"`
	GFR       *formulas.GFRResult    `json:"gfr,omitempty"`
	Renal     *dosing.RenalSelection `json:"renal,omitempty"`
}

// ListDrugs returns the formulary, optionally filtered by a case-insensitive
// substring of the name, category or indication.
func (h *HTTPHandlerImpl) ListDrugs(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w)
	if !ok {
		return
	}

	search := r.URL.Query().Get("search")
	if search == "" {
		h.RespondWithJSON(w, http.StatusOK, ds.Formulary.Drugs)
		return
	}

	if err := h.validator.ValidateInput(search); err != nil {
		logging.Warn("Unusual user input", "search_length", len(search), "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	term := strings.ToLower(strings.TrimSpace(search))
	results := []entities.Drug{}
	for _, d := range ds.Formulary.Drugs {
		if strings.Contains(strings.ToLower(d.Name), term) ||
			strings.Contains(strings.ToLower(d.Category), term) ||
			strings.Contains(strings.ToLower(d.Indication), term) {
			results = append(results, d)
		}
	}

	// Always return 200 with results array (empty if no matches)
	h.RespondWithJSON(w, http.StatusOK, results)
}

// drug resolves the {id} URL parameter, answering 400 or 404 itself.
func (h *HTTPHandlerImpl) drug(w http.ResponseWriter, r *http.Request) (*entities.Drug, bool) {
	ds, ok := h.dataset(w)
	if !ok {
		return nil, false
	}

	id, err := h.validator.ValidateDrugID(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	d, found := ds.Drug(id)
	if !found {
		h.RespondWithError(w, http.StatusNotFound, "Drug not found")
		return nil, false
	}
	return d, true
}

// GetDrug returns one formulary entry
func (h *HTTPHandlerImpl) GetDrug(w http.ResponseWriter, r *http.Request) {
	d, ok := h.drug(w, r)
	if !ok {
		return
	}
	h.RespondWithJSON(w, http.StatusOK, d)
}

// DrugDoses computes every dose of a drug for the weight given in the query.
// Lines that cannot be computed carry a null dose.
func (h *HTTPHandlerImpl) DrugDoses(w http.ResponseWriter, r *http.Request) {
	d, ok := h.drug(w, r)
	if !ok {
		return
	}

	eq, ageGroup, err := gfrParams(r)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	weight := positiveParam(r, "weight")
	resp := DrugDosesResponse{
		ID:        d.ID,
		Name:      d.Name,
		WeightKg:  weight,
		Max:       d.Max,
		Doses:     make([]DoseLine, 0, len(d.Doses)),
		AgeDosing: d.AgeDosing,
	}

	for _, spec := range d.Doses {
		maxMg, _ := dosing.ResolveMaxDose(spec.MaxDoseMg, d.Max)
		dose := dosing.Compute(dosing.Request{
			Expression:    spec.Value,
			WeightKg:      weight,
			MaxDoseMg:     maxMg,
			MaxUnitLabel:  "mg",
			DoseUnitLabel: spec.Unit,
			Fixed:         spec.Fixed || d.FixedDose,
		})
		if dose != nil {
			metrics.ObserveDose(dose.Unit.String(), dose.IsExceedingMax)
		}
		resp.Doses = append(resp.Doses, DoseLine{
			Key:       spec.Key,
			Label:     spec.Label,
			Value:     spec.Value,
			Unit:      spec.Unit,
			MaxDoseMg: maxMg,
			Dose:      dose,
		})
	}

	height, creatinine := positiveParam(r, "height"), positiveParam(r, "creatinine")
	if gfr, ok := formulas.EstimateGFR(eq, height, creatinine, ageGroup); ok {
		resp.GFR = &gfr
		if d.RenalAdjustment != nil {
			if sel, ok := dosing.SelectRenalAdjustment(dosing.RenalAdjustment(*d.RenalAdjustment), string(gfr.Category)); ok {
				resp.Renal = &sel
			}
		}
	}

	h.RespondWithJSON(w, http.StatusOK, resp)
}
