package service

import (
	"errors"
	"fmt"
	"strings"

	"lingodeck/internal/models"
	"lingodeck/internal/repository"
	"lingodeck/internal/validation"
)

var (
	ErrDeckNotFound = errors.New("deck not found")
	ErrNotDeckOwner = errors.New("deck belongs to another user")
	ErrCardNotFound = errors.New("card not found")
)

// DeckService handles deck and card business logic
type DeckService struct {
	deckRepo *repository.DeckRepository
	cardRepo *repository.CardRepository
}

// NewDeckService creates a new deck service
func NewDeckService(deckRepo *repository.DeckRepository, cardRepo *repository.CardRepository) *DeckService {
	return &DeckService{
		deckRepo: deckRepo,
		cardRepo: cardRepo,
	}
}

// CreateDeck creates a new deck for a user
func (s *DeckService) CreateDeck(userID int64, name, description, language string) (*models.Deck, error) {
	if err := validation.ValidateDeckName(name); err != nil {
		return nil, err
	}
	return s.deckRepo.CreateDeck(userID, strings.TrimSpace(name), strings.TrimSpace(description), strings.TrimSpace(language))
}

// GetDecks lists a user's decks with card counts
func (s *DeckService) GetDecks(userID int64) ([]models.DeckSummary, error) {
	return s.deckRepo.GetDecksByUserID(userID)
}

// GetDeckWithCards loads a deck and all its cards, enforcing ownership
func (s *DeckService) GetDeckWithCards(userID, deckID int64) (*models.DeckWithCards, error) {
	deck, err := s.getOwnedDeck(userID, deckID)
	if err != nil {
		return nil, err
	}

	cards, err := s.cardRepo.GetCardsByDeckID(deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}

	return &models.DeckWithCards{Deck: *deck, Cards: cards}, nil
}

// UpdateDeck updates a deck's fields, enforcing ownership
func (s *DeckService) UpdateDeck(userID, deckID int64, name, description, language string) error {
	if err := validation.ValidateDeckName(name); err != nil {
		return err
	}
	if _, err := s.getOwnedDeck(userID, deckID); err != nil {
		return err
	}
	return s.deckRepo.UpdateDeck(deckID, strings.TrimSpace(name), strings.TrimSpace(description), strings.TrimSpace(language))
}

// DeleteDeck removes a deck and everything attached to it
func (s *DeckService) DeleteDeck(userID, deckID int64) error {
	if _, err := s.getOwnedDeck(userID, deckID); err != nil {
		return err
	}
	return s.deckRepo.DeleteDeck(deckID)
}

// AddCard adds a single card to a deck
func (s *DeckService) AddCard(userID, deckID int64, sourceText, targetText string) (*models.Card, error) {
	if err := validation.ValidateCardText("sourceText", sourceText); err != nil {
		return nil, err
	}
	if err := validation.ValidateCardText("targetText", targetText); err != nil {
		return nil, err
	}
	if _, err := s.getOwnedDeck(userID, deckID); err != nil {
		return nil, err
	}
	return s.cardRepo.CreateCard(deckID, strings.TrimSpace(sourceText), strings.TrimSpace(targetText))
}

// AddCards bulk-inserts cards into a deck. Used by import and the
// translation pipeline.
func (s *DeckService) AddCards(userID, deckID int64, cards []models.Card) error {
	for _, c := range cards {
		if err := validation.ValidateCardText("sourceText", c.SourceText); err != nil {
			return err
		}
		if err := validation.ValidateCardText("targetText", c.TargetText); err != nil {
			return err
		}
	}
	if _, err := s.getOwnedDeck(userID, deckID); err != nil {
		return err
	}
	return s.cardRepo.CreateCards(deckID, cards)
}

// UpdateCard updates a card's texts and favorite flag
func (s *DeckService) UpdateCard(userID int64, card *models.Card) error {
	if err := validation.ValidateCardText("sourceText", card.SourceText); err != nil {
		return err
	}
	if err := validation.ValidateCardText("targetText", card.TargetText); err != nil {
		return err
	}

	existing, err := s.cardRepo.GetCardByID(card.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCardNotFound
	}
	if _, err := s.getOwnedDeck(userID, existing.DeckID); err != nil {
		return err
	}
	card.DeckID = existing.DeckID
	return s.cardRepo.UpdateCard(card)
}

// DeleteCard removes a card, enforcing deck ownership
func (s *DeckService) DeleteCard(userID, cardID int64) error {
	existing, err := s.cardRepo.GetCardByID(cardID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCardNotFound
	}
	if _, err := s.getOwnedDeck(userID, existing.DeckID); err != nil {
		return err
	}
	return s.cardRepo.DeleteCard(cardID)
}

func (s *DeckService) getOwnedDeck(userID, deckID int64) (*models.Deck, error) {
	deck, err := s.deckRepo.GetDeckByID(deckID)
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, ErrDeckNotFound
	}
	if deck.UserID != userID {
		return nil, ErrNotDeckOwner
	}
	return deck, nil
}
