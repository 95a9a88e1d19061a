package repository

import (
	"database/sql"
	"fmt"
	"time"

	"lingodeck/internal/database"
	"lingodeck/internal/models"
)

// DeckRepository handles database operations for decks
type DeckRepository struct {
	db *database.DB
}

// NewDeckRepository creates a new deck repository
func NewDeckRepository(db *database.DB) *DeckRepository {
	return &DeckRepository{db: db}
}

// CreateDeck inserts a new deck for a user
func (r *DeckRepository) CreateDeck(userID int64, name, description, language string) (*models.Deck, error) {
	query := `
		INSERT INTO decks (user_id, name, description, language)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, userID, name, description, language)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	return &models.Deck{
		ID:          id,
		UserID:      userID,
		Name:        name,
		Description: description,
		Language:    language,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

// GetDeckByID retrieves a deck by ID. Returns nil when no deck exists.
func (r *DeckRepository) GetDeckByID(id int64) (*models.Deck, error) {
	query := `
		SELECT id, user_id, name, description, language, created_at, updated_at
		FROM decks
		WHERE id = ?
	`
	deck := &models.Deck{}
	err := r.db.QueryRow(query, id).Scan(
		&deck.ID,
		&deck.UserID,
		&deck.Name,
		&deck.Description,
		&deck.Language,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}
	return deck, nil
}

// GetDecksByUserID retrieves all decks owned by a user with card counts
func (r *DeckRepository) GetDecksByUserID(userID int64) ([]models.DeckSummary, error) {
	query := `
		SELECT d.id, d.user_id, d.name, d.description, d.language, d.created_at, d.updated_at,
			COUNT(c.id),
			COALESCE(SUM(CASE WHEN c.is_learning AND c.mastery_score < ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN c.mastery_score >= ? THEN 1 ELSE 0 END), 0)
		FROM decks d
		LEFT JOIN cards c ON c.deck_id = d.id
		WHERE d.user_id = ?
		GROUP BY d.id, d.user_id, d.name, d.description, d.language, d.created_at, d.updated_at
		ORDER BY d.created_at DESC
	`
	rows, err := r.db.Query(query, models.MaxMasteryScore, models.MaxMasteryScore, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var decks []models.DeckSummary
	for rows.Next() {
		var d models.DeckSummary
		err := rows.Scan(
			&d.ID,
			&d.UserID,
			&d.Name,
			&d.Description,
			&d.Language,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.TotalCards,
			&d.LearningCards,
			&d.CompletedCards,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

// UpdateDeck updates a deck's name, description and language
func (r *DeckRepository) UpdateDeck(id int64, name, description, language string) error {
	query := `
		UPDATE decks
		SET name = ?, description = ?, language = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query, name, description, language, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update deck: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("deck %d not found", id)
	}
	return nil
}

// DeleteDeck removes a deck and, via cascade, its cards, history and
// saved progress
func (r *DeckRepository) DeleteDeck(id int64) error {
	_, err := r.db.Exec("DELETE FROM decks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	return nil
}
