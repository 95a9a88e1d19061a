package models

import "time"

// QuestionType identifies how a card is asked during a quiz
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionReverseChoice  QuestionType = "reverse-multiple-choice"
	QuestionWordScramble   QuestionType = "word-scramble"
	QuestionTypeAnswer     QuestionType = "type-answer"
	QuestionReverseType    QuestionType = "reverse-type"
	QuestionListening      QuestionType = "listening"
)

// IsChoice reports whether the question is answered by picking an option
// rather than typing free text.
func (q QuestionType) IsChoice() bool {
	return q == QuestionMultipleChoice || q == QuestionReverseChoice
}

// MatchResult classifies a free-text answer against the expected answer
type MatchResult string

const (
	MatchExact   MatchResult = "exact"
	MatchPartial MatchResult = "partial"
	MatchWrong   MatchResult = "wrong"
)

// IsCorrect reports whether the match counts as a correct answer for
// session scoring. Partial matches score as correct but earn reduced
// mastery credit.
func (m MatchResult) IsCorrect() bool {
	return m == MatchExact || m == MatchPartial
}

// OptionCount is the fixed number of options on a choice question.
// Option lists are padded with empty strings when a deck is too small to
// supply three distractors.
const OptionCount = 4

// QuizItem is one generated question. Items are valid only for the session
// that generated them; they are never stored on their own, only embedded in
// progress snapshots and history records.
type QuizItem struct {
	CardID       int64        `json:"cardId"`
	QuestionType QuestionType `json:"questionType"`
	Prompt       string       `json:"prompt"`
	// Options is empty for free-text, scramble and listening questions.
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
	// CorrectOptionIndex is -1 when the question has no options.
	CorrectOptionIndex int `json:"correctOptionIndex"`
	// CardMasterySnapshot is the card's mastery at generation time; mastery
	// deltas at session completion are computed against it.
	CardMasterySnapshot float64 `json:"cardMasterySnapshot"`
	// AudioLocale is set only for listening questions, e.g. "fi-FI".
	// Empty means the consuming UI falls back to its default voice.
	AudioLocale string `json:"audioLocale,omitempty"`
}

// QuizAnswer records one user response within a session
type QuizAnswer struct {
	QuestionNumber int         `json:"questionNumber"`
	UserAnswer     string      `json:"userAnswer"`
	CorrectAnswer  string      `json:"correctAnswer"`
	IsCorrect      bool        `json:"isCorrect"`
	Match          MatchResult `json:"match"`
	CardID         int64       `json:"cardId"`
	CardMastery    float64     `json:"cardMastery"`
	TimeTakenMs    int         `json:"timeTakenMs,omitempty"`
}

// QuizSettings is the configuration a session was generated with
type QuizSettings struct {
	IncludeCompletedCards bool       `json:"includeCompletedCards"`
	CardsToLearn          int        `json:"cardsToLearn"`
	CardTypeToLearn       CardFilter `json:"cardTypeToLearn"`
	ShuffleCards          bool       `json:"shuffleCards"`
}

// SavedQuizProgress is a durable snapshot of a partially-completed session.
// At most one exists per (user, deck); writes are last-write-wins upserts.
type SavedQuizProgress struct {
	UserID       int64        `json:"userId"`
	DeckID       int64        `json:"deckId"`
	QuizType     QuizType     `json:"quizType"`
	CurrentIndex int          `json:"currentIndex"`
	Answers      []QuizAnswer `json:"answers"`
	Score        int          `json:"score"`
	QuizItems    []QuizItem   `json:"quizItems"`
	Settings     QuizSettings `json:"settings"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
