package quiz

import (
	"context"

	"lingodeck/internal/models"
)

// ProgressStore persists partially-completed session snapshots. One
// snapshot exists per (user, deck); saves are last-write-wins upserts.
// Implementations apply a time-to-live: expired snapshots load as absent.
type ProgressStore interface {
	Save(ctx context.Context, snapshot *models.SavedQuizProgress) error
	// Load returns nil without error when no live snapshot exists.
	Load(ctx context.Context, userID, deckID int64) (*models.SavedQuizProgress, error)
	Delete(ctx context.Context, userID, deckID int64) error
}
