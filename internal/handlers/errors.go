package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"lingodeck/internal/quiz"
	"lingodeck/internal/service"
	"lingodeck/internal/validation"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondWithJSON(w, status, map[string]string{"error": userMsg})
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondWithServiceError maps known service errors to HTTP statuses.
// Unknown errors become a logged 500.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var vErr validation.ValidationError
	if errors.As(err, &vErr) {
		respondWithJSON(w, http.StatusBadRequest, map[string]string{
			"error": vErr.Message,
			"field": vErr.Field,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrEmailTaken):
		respondWithError(w, http.StatusConflict, "Email already taken", "", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionExpired):
		respondWithError(w, http.StatusUnauthorized, "Not authenticated", "", nil)
	case errors.Is(err, service.ErrDeckNotFound):
		respondWithError(w, http.StatusNotFound, "Deck not found", "", nil)
	case errors.Is(err, service.ErrCardNotFound):
		respondWithError(w, http.StatusNotFound, "Card not found", "", nil)
	case errors.Is(err, service.ErrNotDeckOwner):
		respondWithError(w, http.StatusForbidden, "Deck belongs to another user", "", nil)
	case errors.Is(err, service.ErrNoActiveSession):
		respondWithError(w, http.StatusNotFound, "No active quiz session", "", nil)
	case errors.Is(err, service.ErrNoSavedProgress):
		respondWithError(w, http.StatusNotFound, "No saved progress to resume", "", nil)
	case errors.Is(err, service.ErrNoCardsToStudy):
		respondWithError(w, http.StatusBadRequest, "No cards match the quiz settings", "", nil)
	case errors.Is(err, service.ErrNotDueForReview):
		respondWithError(w, http.StatusBadRequest, "Deck is not due for review yet", "", nil)
	case errors.Is(err, service.ErrTranslationDisabled):
		respondWithError(w, http.StatusServiceUnavailable, "Translation is not configured", "", nil)
	case errors.Is(err, quiz.ErrSessionComplete):
		respondWithError(w, http.StatusConflict, "Quiz session already complete", "", nil)
	case errors.Is(err, quiz.ErrInvalidOption):
		respondWithError(w, http.StatusBadRequest, "Selected option is out of range", "", nil)
	case errors.Is(err, quiz.ErrNoQuizItems):
		respondWithError(w, http.StatusBadRequest, "Quiz session has no items", "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Unhandled service error", err)
	}
}
