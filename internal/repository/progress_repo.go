package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"lingodeck/internal/database"
	"lingodeck/internal/models"
)

// ProgressRepository persists saved quiz snapshots. It implements
// quiz.ProgressStore. One row exists per (user, deck); item, answer and
// settings payloads are stored as JSON text so snapshots survive schema
// drift in the quiz engine.
type ProgressRepository struct {
	db  *database.DB
	ttl time.Duration
}

// NewProgressRepository creates a new progress repository. Snapshots older
// than ttl load as absent and are removed by the scheduled purge.
func NewProgressRepository(db *database.DB, ttl time.Duration) *ProgressRepository {
	return &ProgressRepository{db: db, ttl: ttl}
}

// Save upserts the snapshot for its (user, deck) pair. Delete-then-insert
// keeps the upsert portable across all three dialects.
func (r *ProgressRepository) Save(ctx context.Context, snapshot *models.SavedQuizProgress) error {
	answersJSON, err := json.Marshal(snapshot.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	itemsJSON, err := json.Marshal(snapshot.QuizItems)
	if err != nil {
		return fmt.Errorf("failed to encode quiz items: %w", err)
	}
	settingsJSON, err := json.Marshal(snapshot.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleteQuery := r.db.Dialect.RewriteQuery("DELETE FROM quiz_progress WHERE user_id = ? AND deck_id = ?")
	if _, err := tx.ExecContext(ctx, deleteQuery, snapshot.UserID, snapshot.DeckID); err != nil {
		return fmt.Errorf("failed to clear previous snapshot: %w", err)
	}

	insertQuery := r.db.Dialect.RewriteQuery(`
		INSERT INTO quiz_progress (user_id, deck_id, quiz_type, current_index, score, answers_json, items_json, settings_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	updatedAt := snapshot.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err = tx.ExecContext(ctx, insertQuery,
		snapshot.UserID,
		snapshot.DeckID,
		snapshot.QuizType,
		snapshot.CurrentIndex,
		snapshot.Score,
		string(answersJSON),
		string(itemsJSON),
		string(settingsJSON),
		updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return tx.Commit()
}

// Load returns the live snapshot for a (user, deck) pair, or nil when none
// exists or the stored one has aged past the TTL.
func (r *ProgressRepository) Load(ctx context.Context, userID, deckID int64) (*models.SavedQuizProgress, error) {
	query := `
		SELECT quiz_type, current_index, score, answers_json, items_json, settings_json, updated_at
		FROM quiz_progress
		WHERE user_id = ? AND deck_id = ?
	`
	var snapshot models.SavedQuizProgress
	var answersJSON, itemsJSON, settingsJSON string
	err := r.db.QueryRowContext(ctx, query, userID, deckID).Scan(
		&snapshot.QuizType,
		&snapshot.CurrentIndex,
		&snapshot.Score,
		&answersJSON,
		&itemsJSON,
		&settingsJSON,
		&snapshot.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	// Stale rows stay on disk until the purge job runs, but never resume.
	if time.Since(snapshot.UpdatedAt) > r.ttl {
		return nil, nil
	}

	snapshot.UserID = userID
	snapshot.DeckID = deckID
	if err := json.Unmarshal([]byte(answersJSON), &snapshot.Answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	if err := json.Unmarshal([]byte(itemsJSON), &snapshot.QuizItems); err != nil {
		return nil, fmt.Errorf("failed to decode quiz items: %w", err)
	}
	if err := json.Unmarshal([]byte(settingsJSON), &snapshot.Settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	return &snapshot, nil
}

// Delete removes the snapshot for a (user, deck) pair. Deleting a missing
// snapshot is not an error.
func (r *ProgressRepository) Delete(ctx context.Context, userID, deckID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM quiz_progress WHERE user_id = ? AND deck_id = ?", userID, deckID)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// DeleteExpired removes all snapshots older than the TTL. Run hourly by
// the background scheduler.
func (r *ProgressRepository) DeleteExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-r.ttl)
	result, err := r.db.ExecContext(ctx, "DELETE FROM quiz_progress WHERE updated_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge snapshots: %w", err)
	}
	return result.RowsAffected()
}
