package models

import "time"

// Deck represents a vocabulary deck owned by a user
type Deck struct {
	ID          int64
	UserID      int64
	Name        string
	Description string
	// Language is the name of the language being learned (e.g. "Finnish").
	// It drives the audio locale used for listening questions.
	Language  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Card represents a single vocabulary unit in a deck
type Card struct {
	ID     int64
	DeckID int64
	// SourceText is the term in the language being learned.
	SourceText string
	// TargetText is the translation, typically English.
	TargetText string
	// MasteryScore is kept within [0, 5]; it drives which question type
	// the card gets on its next appearance.
	MasteryScore float64
	IsFavorite   bool
	IsLearning   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MaxMasteryScore is the upper bound of a card's mastery score.
const MaxMasteryScore = 5.0

// IsCompleted reports whether the card has reached full mastery.
func (c *Card) IsCompleted() bool {
	return c.MasteryScore >= MaxMasteryScore
}

// DeckWithCards combines a deck with its cards
type DeckWithCards struct {
	Deck  Deck
	Cards []Card
}

// DeckSummary extends Deck with aggregate card counts
type DeckSummary struct {
	Deck
	TotalCards     int
	LearningCards  int
	CompletedCards int
}

// CardFilter selects which cards from a deck enter a quiz session
type CardFilter string

const (
	CardFilterAll        CardFilter = "All"
	CardFilterNotStudied CardFilter = "Not studied"
	CardFilterLearning   CardFilter = "Learning"
	CardFilterCompleted  CardFilter = "Completed"
	CardFilterDue        CardFilter = "Due for Review"
)

// Matches reports whether a card qualifies under the filter. The
// "Due for Review" filter is resolved against the deck's schedule before
// this point and behaves like "Learning" at the card level.
func (f CardFilter) Matches(c *Card) bool {
	switch f {
	case CardFilterNotStudied:
		return !c.IsLearning && c.MasteryScore == 0
	case CardFilterLearning, CardFilterDue:
		return c.IsLearning && !c.IsCompleted()
	case CardFilterCompleted:
		return c.IsCompleted()
	default:
		return true
	}
}
