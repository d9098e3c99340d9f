package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackzampolin/fraglab/internal/analysis"
	"github.com/jackzampolin/fraglab/internal/composer"
	"github.com/jackzampolin/fraglab/internal/reorder"
	"github.com/jackzampolin/fraglab/internal/runs"
	"github.com/jackzampolin/fraglab/internal/segment"
	"github.com/jackzampolin/fraglab/internal/svcctx"
)

// maxJSONBody caps request bodies that are decoded as JSON.
const maxJSONBody = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeErr writes err with the status its sentinel maps to.
func writeErr(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, segment.ErrInvalidInput), errors.Is(err, segment.ErrIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, segment.ErrNotFound), errors.Is(err, runs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, segment.ErrInvalidOperation),
		errors.Is(err, composer.ErrSubmissionPending),
		errors.Is(err, reorder.ErrGestureActive):
		return http.StatusConflict
	case errors.Is(err, analysis.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, analysis.ErrServiceError):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON request body into v. An empty body leaves v
// untouched.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", segment.ErrInvalidInput, err)
	}
	return nil
}

// sessionFrom returns the composer session or writes a 503.
func sessionFrom(w http.ResponseWriter, r *http.Request) (*composer.Session, bool) {
	s := svcctx.SessionFrom(r.Context())
	if s == nil {
		writeError(w, http.StatusServiceUnavailable, "composer session not initialized")
		return nil, false
	}
	return s, true
}
