package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"lingodeck/internal/audio"
	"lingodeck/internal/models"
	"lingodeck/internal/service"
)

// QuizHandler handles quiz session HTTP requests
type QuizHandler struct {
	quizService *service.QuizService
	ttsService  *audio.TTSService
	audioDir    string
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizService *service.QuizService, ttsService *audio.TTSService, audioDir string) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		ttsService:  ttsService,
		audioDir:    audioDir,
	}
}

// StartQuiz begins a new learn or review session over a deck
func (h *QuizHandler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deckID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deck ID", "", err)
		return
	}

	var req struct {
		QuizType string              `json:"quizType"`
		Settings models.QuizSettings `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	quizType := models.QuizType(req.QuizType)
	if quizType != models.QuizTypeLearn && quizType != models.QuizTypeReview {
		respondWithError(w, http.StatusBadRequest, "Quiz type must be learn or review", "", nil)
		return
	}
	if req.Settings.CardTypeToLearn == "" {
		req.Settings.CardTypeToLearn = models.CardFilterAll
	}

	question, err := h.quizService.StartSession(r.Context(), user.ID, deckID, quizType, req.Settings)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, question)
}

// CheckProgress reports whether saved progress exists for the deck
func (h *QuizHandler) CheckProgress(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deckID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deck ID", "", err)
		return
	}

	saved, err := h.quizService.HasSavedProgress(r.Context(), user.ID, deckID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"hasSavedProgress": saved})
}

// ResumeQuiz continues a previously saved session
func (h *QuizHandler) ResumeQuiz(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deckID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deck ID", "", err)
		return
	}

	question, err := h.quizService.ResumeSession(r.Context(), user.ID, deckID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, question)
}

// CurrentQuestion returns the question awaiting an answer
func (h *QuizHandler) CurrentQuestion(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deckID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deck ID", "", err)
		return
	}

	question, err := h.quizService.CurrentQuestion(user.ID, deckID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, question)
}

// SubmitAnswer scores one answer against the active session
func (h *QuizHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deckID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deck ID", "", err)
		return
	}

	var req struct {
		Answer         string `json:"answer"`
		SelectedOption *int   `json:"selectedOption"`
		TimeTakenMs    int    `json:"timeTakenMs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	selected := -1
	if req.SelectedOption != nil {
		selected = *req.SelectedOption
	}

	result, err := h.quizService.SubmitAnswer(r.Context(), user.ID, deckID, req.Answer, selected, req.TimeTakenMs)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// SaveProgress snapshots the active session for a later resume
func (h *QuizHandler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deckID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deck ID", "", err)
		return
	}

	if err := h.quizService.SaveProgress(r.Context(), user.ID, deckID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// DiscardProgress abandons the active session and deletes any snapshot
func (h *QuizHandler) DiscardProgress(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deckID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deck ID", "", err)
		return
	}

	if err := h.quizService.DiscardProgress(r.Context(), user.ID, deckID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}

// History lists completed sessions for a deck, newest first
func (h *QuizHandler) History(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deckID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deck ID", "", err)
		return
	}

	history, err := h.quizService.GetHistory(user.ID, deckID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, history)
}

// Stats returns the user's study totals across all decks
func (h *QuizHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	stats, err := h.quizService.GetUserStats(user.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// DueStatus reports whether the deck's scheduled review has arrived
func (h *QuizHandler) DueStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deckID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deck ID", "", err)
		return
	}

	due, err := h.quizService.IsDueForReview(user.ID, deckID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"dueForReview": due})
}

// Audio fetches (or serves from cache) the spoken MP3 for a listening
// question. The locale comes from the quiz item's audioLocale field.
func (h *QuizHandler) Audio(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.URL.Query().Get("text"))
	locale := strings.TrimSpace(r.URL.Query().Get("locale"))
	if text == "" {
		respondWithError(w, http.StatusBadRequest, "Text is required", "", nil)
		return
	}

	filename, err := h.ttsService.GenerateAudioFile(text, locale)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to generate audio", "TTS fetch failed", err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, filepath.Join(h.audioDir, filename))
}
