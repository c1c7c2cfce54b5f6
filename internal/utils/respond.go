package utils

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/logging"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string      `json:"error"`
	Kind  apperr.Kind `json:"kind"`
	Field string      `json:"field,omitempty"`
}

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to its kind and status. Internal errors are logged with
// their context and reported to the client with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	kind := apperr.KindOf(err)
	body := ErrorBody{Error: err.Error(), Kind: kind, Field: apperr.Field(err)}
	if kind == apperr.KindInternal {
		if logger != nil {
			logging.LogError(r.Context(), logger, "request failed", err,
				"method", r.Method, "path", r.URL.Path)
		}
		body.Error = "internal server error"
	}
	WriteJSON(w, apperr.Status(kind), body)
}

// DecodeJSON reads a JSON body into dst. Malformed input becomes a
// validation error on field "body".
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("body", "is too large")
		}
		return apperr.Validation("body", "must be valid JSON")
	}
	return nil
}
