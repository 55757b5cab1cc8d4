package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/marketplace/internal/service"
)

var validate = validator.New()

// ErrorResponse is the JSON body for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeError maps the service error taxonomy to HTTP status codes:
// not found -> 404, validation/conflict/configuration -> 400, rest -> 500.
// Internal errors are never echoed to the client.
func writeError(log *slog.Logger, w http.ResponseWriter, err error) {
	var (
		validationErr *service.ValidationError
		notFoundErr   *service.NotFoundError
		conflictErr   *service.ConflictError
		configErr     *service.ConfigurationError
	)

	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
		message = notFoundErr.Error()
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		message = validationErr.Error()
	case errors.As(err, &conflictErr):
		status = http.StatusBadRequest
		message = conflictErr.Error()
	case errors.As(err, &configErr):
		status = http.StatusBadRequest
		message = configErr.Error()
	default:
		log.Error("unhandled error", slog.Any("error", err))
	}

	writeJSON(log, w, status, ErrorResponse{Error: message})
}
