package handlers

import (
	"fmt"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/giygas/pedcalc-api/numfmt"
)

// positiveParam reads a query number with leading-number semantics ("15 kg"
// is 15). Missing, non numeric or non positive values give 0, which every
// calculator treats as unknown.
func positiveParam(r *http.Request, name string) float64 {
	v, ok := numfmt.Positive(r.URL.Query().Get(name))
	if !ok {
		return 0
	}
	return v
}

// numberParam is positiveParam for values where zero is meaningful, such as
// an age of 0 months. Missing values give NaN.
func numberParam(r *http.Request, name string) float64 {
	v, ok := numfmt.ParseLeading(r.URL.Query().Get(name))
	if !ok || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// ageParam is numberParam restricted to ages, where a negative is unknown.
func ageParam(r *http.Request, name string) float64 {
	v := numberParam(r, name)
	if v < 0 {
		return math.NaN()
	}
	return v
}

// boolParam accepts the strconv.ParseBool spellings. Missing means false.
func boolParam(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: must be true or false", name)
	}
	return b, nil
}

// enumParam returns the parameter when it is one of allowed, or def when it
// is missing. Any other value is a malformed request.
func enumParam(r *http.Request, name, def string, allowed ...string) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	if !slices.Contains(allowed, raw) {
		return "", fmt.Errorf("invalid %s: must be one of %s", name, strings.Join(allowed, ", "))
	}
	return raw, nil
}
