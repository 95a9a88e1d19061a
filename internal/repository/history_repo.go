package repository

import (
	"database/sql"
	"fmt"
	"time"

	"lingodeck/internal/database"
	"lingodeck/internal/models"
)

// HistoryRepository handles database operations for completed sessions
type HistoryRepository struct {
	db *database.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *database.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// SaveHistory records a completed session and its per-answer detail rows
// in a single transaction. Returns the new history ID.
func (r *HistoryRepository) SaveHistory(h *models.LearningHistory) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := r.db.Dialect.RewriteQuery(`
		INSERT INTO learning_history (user_id, deck_id, cards_studied, correct_answers, quiz_type, next_review_date, parent_session_id, review_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	var historyID int64
	if r.db.Dialect.SupportsLastInsertId() {
		result, err := tx.Exec(insertQuery, h.UserID, h.DeckID, h.CardsStudied, h.CorrectAnswers, h.QuizType, h.NextReviewDate, h.ParentSessionID, h.ReviewNumber)
		if err != nil {
			return 0, fmt.Errorf("failed to insert history: %w", err)
		}
		historyID, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read history id: %w", err)
		}
	} else {
		err := tx.QueryRow(insertQuery+" RETURNING id", h.UserID, h.DeckID, h.CardsStudied, h.CorrectAnswers, h.QuizType, h.NextReviewDate, h.ParentSessionID, h.ReviewNumber).Scan(&historyID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert history: %w", err)
		}
	}

	answerQuery := r.db.Dialect.RewriteQuery(`
		INSERT INTO history_answers (history_id, question_number, user_answer, correct_answer, is_correct, match_result, card_id, card_mastery, time_taken_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	stmt, err := tx.Prepare(answerQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare answer insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range h.Answers {
		_, err := stmt.Exec(historyID, a.QuestionNumber, a.UserAnswer, a.CorrectAnswer, a.IsCorrect, a.Match, a.CardID, a.CardMastery, a.TimeTakenMs)
		if err != nil {
			return 0, fmt.Errorf("failed to insert answer %d: %w", a.QuestionNumber, err)
		}
	}

	// A review session is linked back to the learn session it reviews.
	if h.ParentSessionID != nil {
		linkQuery := r.db.Dialect.RewriteQuery(`
			INSERT INTO history_reviews (learn_history_id, review_history_id)
			VALUES (?, ?)
		`)
		if _, err := tx.Exec(linkQuery, *h.ParentSessionID, historyID); err != nil {
			return 0, fmt.Errorf("failed to link review session: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit history: %w", err)
	}
	return historyID, nil
}

const historyColumns = "id, user_id, deck_id, cards_studied, correct_answers, quiz_type, next_review_date, parent_session_id, review_number, created_at"

func scanHistory(scan func(dest ...interface{}) error) (*models.LearningHistory, error) {
	h := &models.LearningHistory{}
	var parent sql.NullInt64
	err := scan(
		&h.ID,
		&h.UserID,
		&h.DeckID,
		&h.CardsStudied,
		&h.CorrectAnswers,
		&h.QuizType,
		&h.NextReviewDate,
		&parent,
		&h.ReviewNumber,
		&h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		h.ParentSessionID = &parent.Int64
	}
	return h, nil
}

// GetHistoryByID retrieves one history record with its answers and review
// links. Returns nil when no record exists.
func (r *HistoryRepository) GetHistoryByID(id int64) (*models.LearningHistory, error) {
	query := "SELECT " + historyColumns + " FROM learning_history WHERE id = ?"
	h, err := scanHistory(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	if h.Answers, err = r.getAnswers(id); err != nil {
		return nil, err
	}
	if h.ReviewSessionIDs, err = r.getReviewSessionIDs(id); err != nil {
		return nil, err
	}
	return h, nil
}

// GetHistoryByUserAndDeck lists session records for a deck, newest first.
// Answer rows are not loaded; use GetHistoryByID for detail.
func (r *HistoryRepository) GetHistoryByUserAndDeck(userID, deckID int64) ([]models.LearningHistory, error) {
	query := "SELECT " + historyColumns + " FROM learning_history WHERE user_id = ? AND deck_id = ? ORDER BY created_at DESC"
	rows, err := r.db.Query(query, userID, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var records []models.LearningHistory
	for rows.Next() {
		h, err := scanHistory(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		records = append(records, *h)
	}
	return records, rows.Err()
}

// FindLatestLearnSession returns the most recent learn session for a deck,
// or nil when the deck has never been studied. Review sessions are linked
// to this record and its next_review_date drives due-ness.
func (r *HistoryRepository) FindLatestLearnSession(userID, deckID int64) (*models.LearningHistory, error) {
	query := "SELECT " + historyColumns + ` FROM learning_history
		WHERE user_id = ? AND deck_id = ? AND quiz_type = ?
		ORDER BY created_at DESC
		LIMIT 1`
	h, err := scanHistory(r.db.QueryRow(query, userID, deckID, models.QuizTypeLearn).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find learn session: %w", err)
	}

	if h.ReviewSessionIDs, err = r.getReviewSessionIDs(h.ID); err != nil {
		return nil, err
	}
	return h, nil
}

// UpdateNextReviewDate moves a learn session's scheduled review. Called
// after each review session completes; the new date is computed from the
// session's original interval, never from a previously adjusted one.
func (r *HistoryRepository) UpdateNextReviewDate(historyID int64, next time.Time) error {
	_, err := r.db.Exec("UPDATE learning_history SET next_review_date = ? WHERE id = ?", next, historyID)
	if err != nil {
		return fmt.Errorf("failed to update review date: %w", err)
	}
	return nil
}

// CountReviews returns how many review sessions are linked to a learn
// session.
func (r *HistoryRepository) CountReviews(learnHistoryID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM history_reviews WHERE learn_history_id = ?", learnHistoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

// UserStats aggregates a user's study totals across all decks.
type UserStats struct {
	TotalSessions  int `json:"totalSessions"`
	CardsStudied   int `json:"cardsStudied"`
	CorrectAnswers int `json:"correctAnswers"`
}

// GetUserStats totals sessions, cards studied and correct answers for a
// user across all their decks.
func (r *HistoryRepository) GetUserStats(userID int64) (*UserStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(cards_studied), 0), COALESCE(SUM(correct_answers), 0)
		FROM learning_history
		WHERE user_id = ?
	`
	stats := &UserStats{}
	err := r.db.QueryRow(query, userID).Scan(&stats.TotalSessions, &stats.CardsStudied, &stats.CorrectAnswers)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return stats, nil
}

// DueDeck pairs a deck that has come due with its owner's contact details.
// Used by the daily reminder job.
type DueDeck struct {
	DeckID    int64
	DeckName  string
	UserEmail string
	UserName  string
}

// FindDueDecks returns the decks whose most recent learn session is due on
// or before now. Each deck appears once.
func (r *HistoryRepository) FindDueDecks(now time.Time) ([]DueDeck, error) {
	query := `
		SELECT d.id, d.name, u.email, u.name
		FROM learning_history lh
		JOIN decks d ON d.id = lh.deck_id
		JOIN users u ON u.id = lh.user_id
		WHERE lh.quiz_type = ?
		AND lh.next_review_date <= ?
		AND lh.created_at = (
			SELECT MAX(lh2.created_at)
			FROM learning_history lh2
			WHERE lh2.deck_id = lh.deck_id AND lh2.user_id = lh.user_id AND lh2.quiz_type = ?
		)
	`
	rows, err := r.db.Query(query, models.QuizTypeLearn, now, models.QuizTypeLearn)
	if err != nil {
		return nil, fmt.Errorf("failed to find due decks: %w", err)
	}
	defer rows.Close()

	var due []DueDeck
	for rows.Next() {
		var d DueDeck
		if err := rows.Scan(&d.DeckID, &d.DeckName, &d.UserEmail, &d.UserName); err != nil {
			return nil, fmt.Errorf("failed to scan due deck: %w", err)
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

func (r *HistoryRepository) getAnswers(historyID int64) ([]models.QuizAnswer, error) {
	query := `
		SELECT question_number, user_answer, correct_answer, is_correct, match_result, card_id, card_mastery, time_taken_ms
		FROM history_answers
		WHERE history_id = ?
		ORDER BY question_number
	`
	rows, err := r.db.Query(query, historyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	var answers []models.QuizAnswer
	for rows.Next() {
		var a models.QuizAnswer
		err := rows.Scan(
			&a.QuestionNumber,
			&a.UserAnswer,
			&a.CorrectAnswer,
			&a.IsCorrect,
			&a.Match,
			&a.CardID,
			&a.CardMastery,
			&a.TimeTakenMs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (r *HistoryRepository) getReviewSessionIDs(learnHistoryID int64) ([]int64, error) {
	query := `
		SELECT review_history_id
		FROM history_reviews
		WHERE learn_history_id = ?
		ORDER BY id
	`
	rows, err := r.db.Query(query, learnHistoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list review links: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan review link: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
