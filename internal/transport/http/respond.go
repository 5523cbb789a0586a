package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"quiz-maker-service/internal/domain"
)

type errorBody struct {
	Error string `json:"error"`
}

type violationsBody struct {
	Errors []string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeError maps domain and validation errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, violationsBody{Errors: vErr.Violations})
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusBadRequest, violationsBody{Errors: fieldViolations(fieldErrs)})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrShareCodeTaken):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		log.Printf("request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func fieldViolations(errs validator.ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		if fe.Param() != "" {
			out = append(out, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		out = append(out, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return out
}

// decode reads a JSON body into dst and runs struct validation on it.
func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %v: %w", err, domain.ErrInvalidInput)
	}
	return h.validate.Struct(dst)
}
