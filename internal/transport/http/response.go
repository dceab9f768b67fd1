package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"code-review-service/internal/entity"
)

// apiError is the envelope for every non-2xx response.
type apiError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, apiError{Success: false, Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errMessage(err error) string {
	if errors.Is(err, entity.ErrNotFound) {
		return "job not found"
	}
	return err.Error()
}
