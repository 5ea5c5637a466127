package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"vocadrill/internal/drill"
	"vocadrill/internal/service"
	"vocadrill/internal/validation"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": userMsg,
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return false
	}
	return true
}

// respondServiceError translates service sentinel errors to HTTP
// statuses; anything unrecognized becomes a logged 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr validation.ValidationError
	var poolErr *drill.InsufficientPoolError

	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Error(), "", nil)
	case errors.As(err, &poolErr):
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"error":     "Not enough flashcards for the requested test",
			"required":  poolErr.Required,
			"available": poolErr.Available,
			"shortfall": poolErr.Shortfall(),
		})
	case errors.Is(err, service.ErrEmailTaken):
		respondWithError(w, http.StatusConflict, "Email already registered", "", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
	case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrCardNotFound):
		respondWithError(w, http.StatusNotFound, "Not found", "", nil)
	case errors.Is(err, service.ErrNotPlanOwner):
		respondWithError(w, http.StatusForbidden, "Forbidden", "", nil)
	case errors.Is(err, service.ErrNoContent):
		respondWithError(w, http.StatusConflict, "Plan has no content for this mode", "", nil)
	case errors.Is(err, service.ErrActiveSessionGone), errors.Is(err, service.ErrTestNotFound):
		respondWithError(w, http.StatusNotFound, "No active session with that id", "", nil)
	case errors.Is(err, service.ErrWrongSessionKind):
		respondWithError(w, http.StatusBadRequest, "Operation does not apply to this session's mode", "", nil)
	case errors.Is(err, service.ErrCorrectnessRequired):
		respondWithError(w, http.StatusBadRequest, "Correctness flag required for this mode", "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Unhandled service error", err)
	}
}
