// Package rest exposes the engine as method-per-operation JSON endpoints.
// Every operation is a POST with a JSON body; the method name is the path.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/opencivil/registry-backend/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// notAssignedMessage is the client-facing assignment-lock message. It is
// part of the API contract and surfaced verbatim.
const notAssignedMessage = "You are not assigned to this event"

// handleError maps domain errors onto HTTP status codes. Transition errors
// keep their enumerating message so clients can show what is allowed.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var validationErr *domain.ValidationError
	var transitionErr *domain.TransitionError

	switch {
	case errors.As(err, &validationErr):
		fields := make(map[string]string, len(validationErr.Errors))
		for _, fe := range validationErr.Errors {
			fields[fe.Field] = fe.Message
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": fields,
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotAssigned):
		writeError(w, http.StatusForbidden, notAssignedMessage)
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &transitionErr):
		writeError(w, http.StatusConflict, transitionErr.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
