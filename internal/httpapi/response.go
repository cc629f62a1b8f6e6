package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Envelope is the JSON body of every /api response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResponse struct {
	Envelope
	Errors []FieldError `json:"errors"`
}

var (
	errBodyTooLarge = errors.New("request body too large")
	errInvalidJSON  = errors.New("invalid JSON body")
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail writes a failure envelope. The error detail is included only when
// the API exposes errors; otherwise generic is sent in its place.
func (a *API) fail(w http.ResponseWriter, status int, message string, err error, generic string) {
	env := Envelope{Message: message}
	if err != nil {
		env.Error = generic
		if a.exposeErrors {
			env.Error = err.Error()
		}
	}
	writeJSON(w, status, env)
}

// decodeJSON reads a single JSON document from the request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return errBodyTooLarge
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errInvalidJSON)
		}
		return fmt.Errorf("%w: %w", errInvalidJSON, err)
	}
	return nil
}

// bindJSON decodes and validates a request body. Validation failures are
// returned as field errors with a nil error; malformed input is an error.
func (a *API) bindJSON(r *http.Request, v any) ([]FieldError, error) {
	if err := decodeJSON(r, v); err != nil {
		return nil, err
	}
	return a.validate(v), nil
}

func (a *API) writeBindError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, Envelope{Message: "Request body too large"})
		return
	}
	a.fail(w, http.StatusBadRequest, "Invalid JSON body", err, "Malformed request")
}

func writeValidation(w http.ResponseWriter, errs []FieldError) {
	writeJSON(w, http.StatusBadRequest, validationResponse{
		Envelope: Envelope{Message: "Validation error"},
		Errors:   errs,
	})
}
