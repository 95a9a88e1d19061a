package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"lingodeck/internal/models"
	"lingodeck/internal/service"
)

// DeckHandler handles deck and card HTTP requests
type DeckHandler struct {
	deckService        *service.DeckService
	translationService *service.TranslationService
}

// NewDeckHandler creates a new deck handler
func NewDeckHandler(deckService *service.DeckService, translationService *service.TranslationService) *DeckHandler {
	return &DeckHandler{
		deckService:        deckService,
		translationService: translationService,
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// ListDecks returns the user's decks with card counts
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	decks, err := h.deckService.GetDecks(user.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	type deckView struct {
		ID             int64  `json:"id"`
		Name           string `json:"name"`
		Description    string `json:"description"`
		Language       string `json:"language"`
		TotalCards     int    `json:"totalCards"`
		LearningCards  int    `json:"learningCards"`
		CompletedCards int    `json:"completedCards"`
	}
	views := make([]deckView, 0, len(decks))
	for _, d := range decks {
		views = append(views, deckView{
			ID:             d.ID,
			Name:           d.Name,
			Description:    d.Description,
			Language:       d.Language,
			TotalCards:     d.TotalCards,
			LearningCards:  d.LearningCards,
			CompletedCards: d.CompletedCards,
		})
	}
	respondWithJSON(w, http.StatusOK, views)
}

type deckRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

// CreateDeck creates a new deck
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req deckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	deck, err := h.deckService.CreateDeck(user.ID, req.Name, req.Description, req.Language)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, deck)
}

// GetDeck returns a deck and its cards
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deckID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deck ID", "", err)
		return
	}

	deck, err := h.deckService.GetDeckWithCards(user.ID, deckID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, deck)
}

// UpdateDeck updates a deck's fields
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deckID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deck ID", "", err)
		return
	}

	var req deckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	if err := h.deckService.UpdateDeck(user.ID, deckID, req.Name, req.Description, req.Language); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteDeck removes a deck and everything attached to it
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deckID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deck ID", "", err)
		return
	}

	if err := h.deckService.DeleteDeck(user.ID, deckID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type cardRequest struct {
	SourceText string `json:"sourceText"`
	TargetText string `json:"targetText"`
	IsFavorite bool   `json:"isFavorite"`
}

// AddCard adds a card to a deck
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deckID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deck ID", "", err)
		return
	}

	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	card, err := h.deckService.AddCard(user.ID, deckID, req.SourceText, req.TargetText)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, card)
}

// UpdateCard updates a card's texts and favorite flag
func (h *DeckHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	cardID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid card ID", "", err)
		return
	}

	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	card := &models.Card{
		ID:         cardID,
		SourceText: req.SourceText,
		TargetText: req.TargetText,
		IsFavorite: req.IsFavorite,
	}
	if err := h.deckService.UpdateCard(user.ID, card); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteCard removes a card
func (h *DeckHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	cardID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid card ID", "", err)
		return
	}

	if err := h.deckService.DeleteCard(user.ID, cardID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Translate translates a sentence in the deck's language and, when asked,
// adds the extracted vocabulary to the deck as new cards.
func (h *DeckHandler) Translate(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	deckID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deck ID", "", err)
		return
	}

	var req struct {
		Sentence string `json:"sentence"`
		AddCards bool   `json:"addCards"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	deck, err := h.deckService.GetDeckWithCards(user.ID, deckID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	result, err := h.translationService.Translate(r.Context(), req.Sentence, deck.Deck.Language)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	added := 0
	if req.AddCards {
		cards := result.VocabularyCards()
		if len(cards) > 0 {
			if err := h.deckService.AddCards(user.ID, deckID, cards); err != nil {
				respondWithServiceError(w, err)
				return
			}
			added = len(cards)
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"translation": result.Translation,
		"vocabulary":  result.Vocabulary,
		"cardsAdded":  added,
	})
}
