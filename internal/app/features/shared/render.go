// internal/app/features/shared/render.go

// Package shared holds the JSON rendering and auth plumbing common to the
// API feature packages.
package shared

import (
	"encoding/json"
	"net/http"

	"github.com/coralhq/atrium/internal/app/system/fault"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps a service error onto status code and envelope. Internal
// detail never reaches the response body.
func Error(w http.ResponseWriter, err error) {
	var body errorBody
	kind := fault.KindOf(err)
	body.Error.Kind = kind.String()
	body.Error.Message = fault.MessageOf(err)
	JSON(w, statusFor(kind), body)
}

func statusFor(kind fault.Kind) int {
	switch kind {
	case fault.Validation:
		return http.StatusBadRequest
	case fault.Unauthorized:
		return http.StatusUnauthorized
	case fault.Forbidden:
		return http.StatusForbidden
	case fault.NotFound:
		return http.StatusNotFound
	case fault.Conflict:
		return http.StatusConflict
	case fault.Business:
		return http.StatusUnprocessableEntity
	case fault.Cancelled:
		// Client went away; 499 is the conventional nginx code.
		return 499
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fault.New(fault.Validation, "invalid JSON body")
	}
	return nil
}
