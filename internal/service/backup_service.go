package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"lingodeck/internal/database"
)

// BackupData represents the complete database backup structure. Sessions
// and saved quiz progress are ephemeral and deliberately excluded.
type BackupData struct {
	Version      string          `json:"version"`
	ExportedAt   time.Time       `json:"exported_at"`
	DatabaseType string          `json:"database_type"`
	Users        []UserBackup    `json:"users"`
	Decks        []DeckBackup    `json:"decks"`
	Cards        []CardBackup    `json:"cards"`
	History      []HistoryBackup `json:"history"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Name          string    `json:"name"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DeckBackup represents a deck record for backup
type DeckBackup struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CardBackup represents a card record for backup
type CardBackup struct {
	ID           int64     `json:"id"`
	DeckID       int64     `json:"deck_id"`
	SourceText   string    `json:"source_text"`
	TargetText   string    `json:"target_text"`
	MasteryScore float64   `json:"mastery_score"`
	IsFavorite   bool      `json:"is_favorite"`
	IsLearning   bool      `json:"is_learning"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HistoryBackup represents a completed session for backup
type HistoryBackup struct {
	ID              int64                 `json:"id"`
	UserID          int64                 `json:"user_id"`
	DeckID          int64                 `json:"deck_id"`
	CardsStudied    int                   `json:"cards_studied"`
	CorrectAnswers  int                   `json:"correct_answers"`
	QuizType        string                `json:"quiz_type"`
	NextReviewDate  time.Time             `json:"next_review_date"`
	ParentSessionID *int64                `json:"parent_session_id"`
	ReviewNumber    int                   `json:"review_number"`
	CreatedAt       time.Time             `json:"created_at"`
	Answers         []HistoryAnswerBackup `json:"answers"`
}

// HistoryAnswerBackup represents one answer row for backup
type HistoryAnswerBackup struct {
	QuestionNumber int     `json:"question_number"`
	UserAnswer     string  `json:"user_answer"`
	CorrectAnswer  string  `json:"correct_answer"`
	IsCorrect      bool    `json:"is_correct"`
	MatchResult    string  `json:"match_result"`
	CardID         int64   `json:"card_id"`
	CardMastery    float64 `json:"card_mastery"`
	TimeTakenMs    int     `json:"time_taken_ms"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a full backup to a file
func (s *BackupService) Export(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter writes a full backup as indented JSON
func (s *BackupService) ExportToWriter(w io.Writer) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportDecks(backup); err != nil {
		return fmt.Errorf("failed to export decks: %w", err)
	}
	if err := s.exportCards(backup); err != nil {
		return fmt.Errorf("failed to export cards: %w", err)
	}
	if err := s.exportHistory(backup); err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d users, %d decks, %d cards, %d history records",
		len(backup.Users), len(backup.Decks), len(backup.Cards), len(backup.History))
	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup stream. Records are
// imported in dependency order with their original IDs.
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	log.Println("Starting database import...")

	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	if err := s.importUsers(backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importDecks(backup.Decks); err != nil {
		return fmt.Errorf("failed to import decks: %w", err)
	}
	if err := s.importCards(backup.Cards); err != nil {
		return fmt.Errorf("failed to import cards: %w", err)
	}
	if err := s.importHistory(backup.History); err != nil {
		return fmt.Errorf("failed to import history: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := "SELECT id, email, password_hash, name, oauth_provider, oauth_subject, is_admin, created_at, updated_at FROM users ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.OAuthProvider, &u.OAuthSubject, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportDecks(backup *BackupData) error {
	query := "SELECT id, user_id, name, description, language, created_at, updated_at FROM decks ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var d DeckBackup
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.Language, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return err
		}
		backup.Decks = append(backup.Decks, d)
	}
	return rows.Err()
}

func (s *BackupService) exportCards(backup *BackupData) error {
	query := "SELECT id, deck_id, source_text, target_text, mastery_score, is_favorite, is_learning, created_at, updated_at FROM cards ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c CardBackup
		if err := rows.Scan(&c.ID, &c.DeckID, &c.SourceText, &c.TargetText, &c.MasteryScore, &c.IsFavorite, &c.IsLearning, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return err
		}
		backup.Cards = append(backup.Cards, c)
	}
	return rows.Err()
}

func (s *BackupService) exportHistory(backup *BackupData) error {
	query := "SELECT id, user_id, deck_id, cards_studied, correct_answers, quiz_type, next_review_date, parent_session_id, review_number, created_at FROM learning_history ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var h HistoryBackup
		if err := rows.Scan(&h.ID, &h.UserID, &h.DeckID, &h.CardsStudied, &h.CorrectAnswers, &h.QuizType, &h.NextReviewDate, &h.ParentSessionID, &h.ReviewNumber, &h.CreatedAt); err != nil {
			return err
		}
		backup.History = append(backup.History, h)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range backup.History {
		answers, err := s.exportAnswers(backup.History[i].ID)
		if err != nil {
			return err
		}
		backup.History[i].Answers = answers
	}
	return nil
}

func (s *BackupService) exportAnswers(historyID int64) ([]HistoryAnswerBackup, error) {
	query := "SELECT question_number, user_answer, correct_answer, is_correct, match_result, card_id, card_mastery, time_taken_ms FROM history_answers WHERE history_id = ? ORDER BY question_number"
	rows, err := s.db.Query(query, historyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []HistoryAnswerBackup
	for rows.Next() {
		var a HistoryAnswerBackup
		if err := rows.Scan(&a.QuestionNumber, &a.UserAnswer, &a.CorrectAnswer, &a.IsCorrect, &a.MatchResult, &a.CardID, &a.CardMastery, &a.TimeTakenMs); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (s *BackupService) importUsers(users []UserBackup) error {
	query := "INSERT INTO users (id, email, password_hash, name, oauth_provider, oauth_subject, is_admin, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
	for _, u := range users {
		if _, err := s.db.Exec(query, u.ID, u.Email, u.PasswordHash, u.Name, u.OAuthProvider, u.OAuthSubject, u.IsAdmin, u.CreatedAt, u.UpdatedAt); err != nil {
			return fmt.Errorf("user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importDecks(decks []DeckBackup) error {
	query := "INSERT INTO decks (id, user_id, name, description, language, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	for _, d := range decks {
		if _, err := s.db.Exec(query, d.ID, d.UserID, d.Name, d.Description, d.Language, d.CreatedAt, d.UpdatedAt); err != nil {
			return fmt.Errorf("deck %d: %w", d.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importCards(cards []CardBackup) error {
	query := "INSERT INTO cards (id, deck_id, source_text, target_text, mastery_score, is_favorite, is_learning, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
	for _, c := range cards {
		if _, err := s.db.Exec(query, c.ID, c.DeckID, c.SourceText, c.TargetText, c.MasteryScore, c.IsFavorite, c.IsLearning, c.CreatedAt, c.UpdatedAt); err != nil {
			return fmt.Errorf("card %d: %w", c.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importHistory(history []HistoryBackup) error {
	historyQuery := "INSERT INTO learning_history (id, user_id, deck_id, cards_studied, correct_answers, quiz_type, next_review_date, parent_session_id, review_number, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	answerQuery := "INSERT INTO history_answers (history_id, question_number, user_answer, correct_answer, is_correct, match_result, card_id, card_mastery, time_taken_ms) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
	linkQuery := "INSERT INTO history_reviews (learn_history_id, review_history_id) VALUES (?, ?)"

	for _, h := range history {
		if _, err := s.db.Exec(historyQuery, h.ID, h.UserID, h.DeckID, h.CardsStudied, h.CorrectAnswers, h.QuizType, h.NextReviewDate, h.ParentSessionID, h.ReviewNumber, h.CreatedAt); err != nil {
			return fmt.Errorf("history %d: %w", h.ID, err)
		}
		for _, a := range h.Answers {
			if _, err := s.db.Exec(answerQuery, h.ID, a.QuestionNumber, a.UserAnswer, a.CorrectAnswer, a.IsCorrect, a.MatchResult, a.CardID, a.CardMastery, a.TimeTakenMs); err != nil {
				return fmt.Errorf("history %d answer %d: %w", h.ID, a.QuestionNumber, err)
			}
		}
		if h.ParentSessionID != nil {
			if _, err := s.db.Exec(linkQuery, *h.ParentSessionID, h.ID); err != nil {
				return fmt.Errorf("history %d review link: %w", h.ID, err)
			}
		}
	}
	return nil
}
