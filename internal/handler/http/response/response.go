package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorBody is the body of every non-validation error.
type ErrorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Success responses
func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error responses
func Detail(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorBody{Detail: message})
}

func BadRequest(w http.ResponseWriter, message string) {
	Detail(w, http.StatusBadRequest, message)
}

// ValidationError writes field errors as {"field": ["message", ...]}.
func ValidationError(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusBadRequest, fields)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Detail(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Detail(w, http.StatusForbidden, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Detail(w, http.StatusNotFound, message)
}

func Conflict(w http.ResponseWriter, message string) {
	Detail(w, http.StatusConflict, message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Detail(w, http.StatusInternalServerError, message)
}
