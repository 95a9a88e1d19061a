package repository

import (
	"database/sql"
	"fmt"
	"time"

	"lingodeck/internal/database"
	"lingodeck/internal/models"
)

// CardRepository handles database operations for cards
type CardRepository struct {
	db *database.DB
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *database.DB) *CardRepository {
	return &CardRepository{db: db}
}

// CreateCard inserts a single card into a deck
func (r *CardRepository) CreateCard(deckID int64, sourceText, targetText string) (*models.Card, error) {
	query := `
		INSERT INTO cards (deck_id, source_text, target_text)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, deckID, sourceText, targetText)
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	return &models.Card{
		ID:         id,
		DeckID:     deckID,
		SourceText: sourceText,
		TargetText: targetText,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}, nil
}

// CreateCards inserts multiple cards into a deck in a single transaction.
// Used by deck import and the translation pipeline.
func (r *CardRepository) CreateCards(deckID int64, cards []models.Card) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := r.db.Dialect.RewriteQuery(`
		INSERT INTO cards (deck_id, source_text, target_text, mastery_score, is_favorite, is_learning)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range cards {
		if _, err := stmt.Exec(deckID, c.SourceText, c.TargetText, c.MasteryScore, c.IsFavorite, c.IsLearning); err != nil {
			return fmt.Errorf("failed to insert card %q: %w", c.SourceText, err)
		}
	}

	return tx.Commit()
}

const cardColumns = "id, deck_id, source_text, target_text, mastery_score, is_favorite, is_learning, created_at, updated_at"

func scanCard(row *sql.Row) (*models.Card, error) {
	card := &models.Card{}
	err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.SourceText,
		&card.TargetText,
		&card.MasteryScore,
		&card.IsFavorite,
		&card.IsLearning,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

// GetCardByID retrieves a card by ID. Returns nil when no card exists.
func (r *CardRepository) GetCardByID(id int64) (*models.Card, error) {
	query := "SELECT " + cardColumns + " FROM cards WHERE id = ?"
	return scanCard(r.db.QueryRow(query, id))
}

// GetCardsByDeckID retrieves all cards in a deck in insertion order
func (r *CardRepository) GetCardsByDeckID(deckID int64) ([]models.Card, error) {
	query := "SELECT " + cardColumns + " FROM cards WHERE deck_id = ? ORDER BY id"
	rows, err := r.db.Query(query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		err := rows.Scan(
			&c.ID,
			&c.DeckID,
			&c.SourceText,
			&c.TargetText,
			&c.MasteryScore,
			&c.IsFavorite,
			&c.IsLearning,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// UpdateCard updates a card's texts and flags
func (r *CardRepository) UpdateCard(card *models.Card) error {
	query := `
		UPDATE cards
		SET source_text = ?, target_text = ?, is_favorite = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query, card.SourceText, card.TargetText, card.IsFavorite, time.Now(), card.ID)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("card %d not found", card.ID)
	}
	return nil
}

// UpdateMasteryScores applies post-session mastery changes in one
// transaction. Cards gaining a score are also marked as learning.
func (r *CardRepository) UpdateMasteryScores(scores map[int64]float64) error {
	if len(scores) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := r.db.Dialect.RewriteQuery(`
		UPDATE cards
		SET mastery_score = ?, is_learning = ?, updated_at = ?
		WHERE id = ?
	`)
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare update: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for cardID, score := range scores {
		if _, err := stmt.Exec(score, true, now, cardID); err != nil {
			return fmt.Errorf("failed to update mastery for card %d: %w", cardID, err)
		}
	}

	return tx.Commit()
}

// DeleteCard removes a card
func (r *CardRepository) DeleteCard(id int64) error {
	_, err := r.db.Exec("DELETE FROM cards WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return nil
}
