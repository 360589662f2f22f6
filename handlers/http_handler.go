// Package handlers provides HTTP request handlers for the calculation API.
// This file implements the HTTPHandler interface with dependency injection.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/giygas/pedcalc-api/interfaces"
	"github.com/giygas/pedcalc-api/logging"
	"github.com/giygas/pedcalc-api/reference/entities"
)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore interfaces.DataStore
	validator interfaces.DataValidator
	health    interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator, health interfaces.HealthChecker) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		dataStore: dataStore,
		validator: validator,
		health:    health,
	}
}

// CalculationResponse wraps every calculator and classifier result. Inputs
// the calculation cannot answer give Available false and a null Result.
type CalculationResponse struct {
	Available bool `json:"available"`
	Result    any  `json:"result"`
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// respondCalculation writes the envelope with status 200. A result that is
// not ok is dropped so clients never see a partial answer.
func (h *HTTPHandlerImpl) respondCalculation(w http.ResponseWriter, result any, ok bool) {
	if !ok {
		result = nil
	}
	h.RespondWithJSON(w, http.StatusOK, CalculationResponse{Available: ok, Result: result})
}

// dataset returns the current snapshot or answers 503.
func (h *HTTPHandlerImpl) dataset(w http.ResponseWriter) (*entities.Dataset, bool) {
	ds := h.dataStore.GetDataset()
	if ds == nil {
		h.RespondWithError(w, http.StatusServiceUnavailable, "Reference data not loaded")
		return nil, false
	}
	return ds, true
}

// tableMissing answers 503 for a reference table absent from the dataset.
func (h *HTTPHandlerImpl) tableMissing(w http.ResponseWriter, table string) {
	logging.Warn("Reference table not loaded", "table", table)
	h.RespondWithError(w, http.StatusServiceUnavailable, "Reference table not loaded: "+table)
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.health.HealthCheck()

	response := make(map[string]any, len(details)+1)
	for k, v := range details {
		response[k] = v
	}
	response["status"] = status

	h.RespondWithJSON(w, httpStatus, response)
}
