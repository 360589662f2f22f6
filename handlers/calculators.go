package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/giygas/pedcalc-api/dosing"
	"github.com/giygas/pedcalc-api/formulas"
	"github.com/giygas/pedcalc-api/logging"
	"github.com/giygas/pedcalc-api/metrics"
)

const (
	maxExpressionLength = 100
	defaultDextrose     = 10
)

// MaxDoseResult is a ceiling read from free text, in mg.
type MaxDoseResult struct {
	Text      string  `json:"text"`
	MaxDoseMg float64 `json:"maxDoseMg"`
}

type MAPResult struct {
	MAP                  int      `json:"map"`
	HypotensionThreshold *float64 `json:"hypotensionThreshold,omitempty"`
}

type GIRResult struct {
	GIR string `json:"gir"`
}

// ExchangeResult holds whichever of the two exchange volumes could be
// computed.
type ExchangeResult struct {
	Partial    *formulas.PartialExchange    `json:"partial"`
	WholeBlood *formulas.WholeBloodExchange `json:"wholeBlood"`
}

// gfrParams reads the equation and Schwartz age group. Both are optional.
func gfrParams(r *http.Request) (formulas.Equation, formulas.AgeGroup, error) {
	eq, err := enumParam(r, "method", string(formulas.EquationRevised),
		string(formulas.EquationRevised), string(formulas.EquationOriginal))
	if err != nil {
		return "", "", err
	}
	group, err := enumParam(r, "age_group", "",
		string(formulas.AgePreterm), string(formulas.AgeTerm), string(formulas.AgeChild),
		string(formulas.AgeAdolescentMale), string(formulas.AgeAdolescentFemale))
	if err != nil {
		return "", "", err
	}
	return formulas.Equation(eq), formulas.AgeGroup(group), nil
}

// decodeBody reads a JSON request body into v. Unknown fields are rejected.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// CalcDose runs an ad hoc dose computation
func (h *HTTPHandlerImpl) CalcDose(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	expr := strings.TrimSpace(q.Get("expression"))
	if len(expr) > maxExpressionLength {
		h.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("expression too long: maximum %d characters", maxExpressionLength))
		return
	}
	fixed, err := boolParam(r, "fixed")
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	maxUnit := q.Get("max_unit")
	if maxUnit == "" {
		maxUnit = "mg"
	}

	dose := dosing.Compute(dosing.Request{
		Expression:    expr,
		WeightKg:      positiveParam(r, "weight"),
		MaxDoseMg:     positiveParam(r, "max"),
		MaxUnitLabel:  maxUnit,
		DoseUnitLabel: q.Get("unit"),
		Fixed:         fixed,
	})
	if dose != nil {
		metrics.ObserveDose(dose.Unit.String(), dose.IsExceedingMax)
	}
	h.respondCalculation(w, dose, dose != nil)
}

// CalcMaxDose parses a free-text maximum dose
func (h *HTTPHandlerImpl) CalcMaxDose(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	v, ok := dosing.ParseMaxDose(text)
	h.respondCalculation(w, MaxDoseResult{Text: text, MaxDoseMg: v}, ok)
}

// CalcMAP returns the mean arterial pressure and, with an age, the PALS
// hypotension floor.
func (h *HTTPHandlerImpl) CalcMAP(w http.ResponseWriter, r *http.Request) {
	v, ok := formulas.MAP(positiveParam(r, "sbp"), positiveParam(r, "dbp"))
	res := MAPResult{MAP: v}
	if age := numberParam(r, "age"); age >= 0 {
		floor := formulas.PALSHypotension(age)
		res.HypotensionThreshold = &floor
	}
	h.respondCalculation(w, res, ok)
}

func (h *HTTPHandlerImpl) CalcGFR(w http.ResponseWriter, r *http.Request) {
	eq, group, err := gfrParams(r)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, ok := formulas.EstimateGFR(eq, positiveParam(r, "height"), positiveParam(r, "creatinine"), group)
	h.respondCalculation(w, res, ok)
}

func (h *HTTPHandlerImpl) CalcETT(w http.ResponseWriter, r *http.Request) {
	res, ok := formulas.ETT(positiveParam(r, "weight"), int(positiveParam(r, "ga")))
	h.respondCalculation(w, res, ok)
}

func (h *HTTPHandlerImpl) CalcUmbilical(w http.ResponseWriter, r *http.Request) {
	res, ok := formulas.Umbilical(positiveParam(r, "weight"))
	h.respondCalculation(w, res, ok)
}

// CalcGIR has three modes: target_gir gives the infusion rate, tfi gives the
// GIR of a total fluid intake, and volume gives the GIR of a daily volume.
// The dextrose concentration defaults to 10%.
func (h *HTTPHandlerImpl) CalcGIR(w http.ResponseWriter, r *http.Request) {
	weight := positiveParam(r, "weight")
	percent := positiveParam(r, "dextrose")
	if percent == 0 {
		percent = defaultDextrose
	}

	switch {
	case positiveParam(r, "target_gir") > 0:
		res, ok := formulas.InfusionRate(positiveParam(r, "target_gir"), weight, percent)
		h.respondCalculation(w, res, ok)
	case positiveParam(r, "tfi") > 0:
		res, ok := formulas.GIRFromTFI(positiveParam(r, "tfi"), weight, percent)
		h.respondCalculation(w, res, ok)
	default:
		v, ok := formulas.GIR(positiveParam(r, "volume"), percent, weight)
		h.respondCalculation(w, GIRResult{GIR: v}, ok)
	}
}

// CalcFluids builds a daily fluid order from a JSON body
func (h *HTTPHandlerImpl) CalcFluids(w http.ResponseWriter, r *http.Request) {
	var in formulas.FluidInput
	if err := decodeBody(r, &in); err != nil {
		logging.Warn("Unusual user input", "endpoint", "fluids", "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(in.Dextrose) > 10 {
		h.RespondWithError(w, http.StatusBadRequest, "too many dextrose items: maximum 10")
		return
	}
	res, ok := formulas.CalculateFluids(in)
	h.respondCalculation(w, res, ok)
}

func (h *HTTPHandlerImpl) CalcExchange(w http.ResponseWriter, r *http.Request) {
	weight := positiveParam(r, "weight")
	var res ExchangeResult
	if p, ok := formulas.CalculatePartialExchange(weight, positiveParam(r, "observed_hct"), positiveParam(r, "desired_hct")); ok {
		res.Partial = &p
	}
	if wb, ok := formulas.CalculateWholeBloodExchange(weight); ok {
		res.WholeBlood = &wb
	}
	h.respondCalculation(w, res, res.Partial != nil || res.WholeBlood != nil)
}

// CalcBallard scores a newborn from a JSON body of the twelve criteria.
// Criteria left out of the body count as unscored.
func (h *HTTPHandlerImpl) CalcBallard(w http.ResponseWriter, r *http.Request) {
	scores := formulas.NewBallardScores()
	if err := decodeBody(r, &scores); err != nil {
		logging.Warn("Unusual user input", "endpoint", "ballard", "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondCalculation(w, formulas.Ballard(scores), true)
}
