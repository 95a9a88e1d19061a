package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"lingodeck/internal/config"
	"lingodeck/internal/database"
	"lingodeck/internal/models"
	"lingodeck/migrations"
)

func newProgressTestEnv(t *testing.T, dbPath string, ttl time.Duration) (*ProgressRepository, *models.User, *models.Deck) {
	t.Helper()

	db, err := database.Initialize(&config.Config{
		DatabaseType: "sqlite",
		DatabasePath: dbPath,
	})
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	if err := db.RunMigrations(migrations.Files); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	user, err := NewUserRepository(db).CreateUser("learner@example.com", "hashedpass", "Learner")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	deck, err := NewDeckRepository(db).CreateDeck(user.ID, "Finnish basics", "", "Finnish")
	if err != nil {
		t.Fatalf("Failed to create deck: %v", err)
	}

	return NewProgressRepository(db, ttl), user, deck
}

func testSnapshot(userID, deckID int64) *models.SavedQuizProgress {
	return &models.SavedQuizProgress{
		UserID:       userID,
		DeckID:       deckID,
		QuizType:     models.QuizTypeLearn,
		CurrentIndex: 3,
		Score:        2,
		Answers: []models.QuizAnswer{
			{QuestionNumber: 1, UserAnswer: "dog", CorrectAnswer: "dog", IsCorrect: true, Match: models.MatchExact, CardID: 1},
			{QuestionNumber: 2, UserAnswer: "cat", CorrectAnswer: "house", IsCorrect: false, Match: models.MatchWrong, CardID: 2},
		},
		QuizItems: []models.QuizItem{
			{CardID: 1, QuestionType: models.QuestionMultipleChoice, Prompt: "koira", CorrectAnswer: "dog", Options: []string{"dog", "house", "", ""}, CorrectOptionIndex: 0},
			{CardID: 2, QuestionType: models.QuestionMultipleChoice, Prompt: "talo", CorrectAnswer: "house", Options: []string{"house", "dog", "", ""}, CorrectOptionIndex: 0},
			{CardID: 3, QuestionType: models.QuestionTypeAnswer, Prompt: "kissa", CorrectAnswer: "cat", CorrectOptionIndex: -1},
		},
		Settings: models.QuizSettings{
			CardsToLearn:    3,
			CardTypeToLearn: models.CardFilterAll,
			ShuffleCards:    true,
		},
	}
}

// TestProgressSnapshotRoundTrip verifies a saved snapshot reloads with its
// quiz items, answers and settings intact.
func TestProgressSnapshotRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo, user, deck := newProgressTestEnv(t, "test_progress_roundtrip.db", 7*24*time.Hour)
	ctx := context.Background()

	if err := repo.Save(ctx, testSnapshot(user.ID, deck.ID)); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}

	loaded, err := repo.Load(ctx, user.ID, deck.ID)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected a snapshot, got nil")
	}

	if loaded.QuizType != models.QuizTypeLearn {
		t.Errorf("Expected quiz type %q, got %q", models.QuizTypeLearn, loaded.QuizType)
	}
	if loaded.CurrentIndex != 3 {
		t.Errorf("Expected current index 3, got %d", loaded.CurrentIndex)
	}
	if loaded.Score != 2 {
		t.Errorf("Expected score 2, got %d", loaded.Score)
	}
	if len(loaded.Answers) != 2 {
		t.Fatalf("Expected 2 answers, got %d", len(loaded.Answers))
	}
	if loaded.Answers[1].Match != models.MatchWrong {
		t.Errorf("Expected second answer match %q, got %q", models.MatchWrong, loaded.Answers[1].Match)
	}
	if len(loaded.QuizItems) != 3 {
		t.Fatalf("Expected 3 quiz items, got %d", len(loaded.QuizItems))
	}
	if loaded.QuizItems[0].Prompt != "koira" || loaded.QuizItems[0].CorrectOptionIndex != 0 {
		t.Errorf("First quiz item did not survive the round trip: %+v", loaded.QuizItems[0])
	}
	if len(loaded.QuizItems[0].Options) != models.OptionCount {
		t.Errorf("Expected %d options, got %d", models.OptionCount, len(loaded.QuizItems[0].Options))
	}
	if loaded.Settings.CardsToLearn != 3 || !loaded.Settings.ShuffleCards {
		t.Errorf("Settings did not survive the round trip: %+v", loaded.Settings)
	}
}

// TestProgressSaveOverwrites verifies the one-snapshot-per-user-and-deck
// rule: a second save replaces the first.
func TestProgressSaveOverwrites(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo, user, deck := newProgressTestEnv(t, "test_progress_overwrite.db", 7*24*time.Hour)
	ctx := context.Background()

	first := testSnapshot(user.ID, deck.ID)
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Failed to save first snapshot: %v", err)
	}

	second := testSnapshot(user.ID, deck.ID)
	second.CurrentIndex = 4
	second.Score = 3
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Failed to save second snapshot: %v", err)
	}

	loaded, err := repo.Load(ctx, user.ID, deck.ID)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected a snapshot, got nil")
	}
	if loaded.CurrentIndex != 4 || loaded.Score != 3 {
		t.Errorf("Expected the later snapshot (index 4, score 3), got index %d score %d", loaded.CurrentIndex, loaded.Score)
	}

	var count int
	err = repo.db.QueryRow("SELECT COUNT(*) FROM quiz_progress WHERE user_id = ? AND deck_id = ?", user.ID, deck.ID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count snapshots: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 snapshot row, got %d", count)
	}
}

// TestProgressExpiredSnapshotLoadsAsAbsent verifies a snapshot older than
// the TTL is treated as absent on read and removed by the purge.
func TestProgressExpiredSnapshotLoadsAsAbsent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo, user, deck := newProgressTestEnv(t, "test_progress_expiry.db", 7*24*time.Hour)
	ctx := context.Background()

	stale := testSnapshot(user.ID, deck.ID)
	stale.UpdatedAt = time.Now().Add(-8 * 24 * time.Hour)
	if err := repo.Save(ctx, stale); err != nil {
		t.Fatalf("Failed to save stale snapshot: %v", err)
	}

	loaded, err := repo.Load(ctx, user.ID, deck.ID)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if loaded != nil {
		t.Errorf("Expected an expired snapshot to load as nil, got %+v", loaded)
	}

	purged, err := repo.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("Failed to purge expired snapshots: %v", err)
	}
	if purged != 1 {
		t.Errorf("Expected 1 purged snapshot, got %d", purged)
	}
}

// TestProgressDelete verifies deleting a snapshot makes it absent.
func TestProgressDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo, user, deck := newProgressTestEnv(t, "test_progress_delete.db", 7*24*time.Hour)
	ctx := context.Background()

	if err := repo.Save(ctx, testSnapshot(user.ID, deck.ID)); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}
	if err := repo.Delete(ctx, user.ID, deck.ID); err != nil {
		t.Fatalf("Failed to delete snapshot: %v", err)
	}

	loaded, err := repo.Load(ctx, user.ID, deck.ID)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if loaded != nil {
		t.Errorf("Expected no snapshot after delete, got %+v", loaded)
	}
}
