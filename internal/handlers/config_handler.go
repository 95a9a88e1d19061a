package handlers

import (
	"net/http"
	"time"
)

// ConfigHandler serves the client-facing configuration
type ConfigHandler struct {
	autosaveInterval time.Duration
	googleLogin      bool
	debug            bool
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(autosaveInterval time.Duration, googleLogin, debug bool) *ConfigHandler {
	return &ConfigHandler{
		autosaveInterval: autosaveInterval,
		googleLogin:      googleLogin,
		debug:            debug,
	}
}

// ClientConfig reports the settings the SPA needs before it has a session:
// the advisory autosave cadence for in-progress quizzes, whether Google
// sign-in is available, and whether debug mode is on.
func (h *ConfigHandler) ClientConfig(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"autosaveIntervalMs": h.autosaveInterval.Milliseconds(),
		"googleLoginEnabled": h.googleLogin,
		"debug":              h.debug,
	})
}
