package models

import "time"

// QuizType distinguishes a first-exposure session from a scheduled review.
// A resumed session keeps the type it was started with; "resume" is never
// recorded.
type QuizType string

const (
	QuizTypeLearn  QuizType = "learn"
	QuizTypeReview QuizType = "review"
)

// LearningHistory is an immutable record of one completed session
type LearningHistory struct {
	ID             int64
	UserID         int64
	DeckID         int64
	CardsStudied   int
	CorrectAnswers int
	QuizType       QuizType
	NextReviewDate time.Time
	// Answers holds the per-card detail rows of the session.
	Answers []QuizAnswer
	// ParentSessionID links a review session back to the learn session it
	// reviews; nil for learn sessions.
	ParentSessionID *int64
	// ReviewNumber is 1 for the first review of a learn session, 2 for the
	// second, and so on; 0 for learn sessions.
	ReviewNumber int
	// ReviewSessionIDs lists the review sessions recorded against this
	// learn session, in completion order.
	ReviewSessionIDs []int64
	CreatedAt        time.Time
}
