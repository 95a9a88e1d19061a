package quiz

import (
	"errors"
	"time"

	"lingodeck/internal/models"
)

var (
	// ErrSessionComplete is returned when an answer is submitted to a
	// finished session.
	ErrSessionComplete = errors.New("quiz session already complete")
	// ErrNoQuizItems is returned when a session is created with nothing to
	// study.
	ErrNoQuizItems = errors.New("quiz session has no items")
	// ErrInvalidOption is returned when a choice answer's option index is
	// out of range.
	ErrInvalidOption = errors.New("selected option index out of range")
)

// Session is one learning or review session stepping through generated quiz
// items. It holds pure in-memory state; persistence of snapshots, mastery
// write-back and history records is the caller's concern.
type Session struct {
	UserID   int64
	DeckID   int64
	QuizType models.QuizType
	Settings models.QuizSettings

	items     []models.QuizItem
	remaining []models.QuizItem
	answers   []models.QuizAnswer
	score     int
	complete  bool

	nextReview time.Time
}

// SubmitResult reports the outcome of a single answer
type SubmitResult struct {
	Correct       bool
	Match         models.MatchResult
	CorrectAnswer string
	// Done is true when this answer completed the session.
	Done bool
}

// CardMasteryUpdate is a card's recomputed mastery after a completed
// session, ready for write-back.
type CardMasteryUpdate struct {
	CardID       int64
	MasteryScore float64
}

// NewSession starts a fresh session over the generated items.
func NewSession(userID, deckID int64, quizType models.QuizType, items []models.QuizItem, settings models.QuizSettings) (*Session, error) {
	if len(items) == 0 {
		return nil, ErrNoQuizItems
	}
	remaining := make([]models.QuizItem, len(items))
	copy(remaining, items)
	return &Session{
		UserID:    userID,
		DeckID:    deckID,
		QuizType:  quizType,
		Settings:  settings,
		items:     items,
		remaining: remaining,
	}, nil
}

// Resume rebuilds a session from a saved snapshot. Cards already answered
// are filtered out of the remaining items; the recorded quiz type, answers
// and score carry over unchanged.
func Resume(snapshot *models.SavedQuizProgress) (*Session, error) {
	answered := make(map[int64]bool, len(snapshot.Answers))
	for _, answer := range snapshot.Answers {
		answered[answer.CardID] = true
	}

	var remaining []models.QuizItem
	for _, item := range snapshot.QuizItems {
		if !answered[item.CardID] {
			remaining = append(remaining, item)
		}
	}
	if len(remaining) == 0 {
		return nil, ErrNoQuizItems
	}

	answers := make([]models.QuizAnswer, len(snapshot.Answers))
	copy(answers, snapshot.Answers)

	return &Session{
		UserID:    snapshot.UserID,
		DeckID:    snapshot.DeckID,
		QuizType:  snapshot.QuizType,
		Settings:  snapshot.Settings,
		items:     snapshot.QuizItems,
		remaining: remaining,
		answers:   answers,
		score:     snapshot.Score,
	}, nil
}

// CurrentItem returns the item awaiting an answer, or false when the
// session is complete.
func (s *Session) CurrentItem() (models.QuizItem, bool) {
	if s.complete || len(s.remaining) == 0 {
		return models.QuizItem{}, false
	}
	return s.remaining[0], true
}

// CurrentQuestionNumber is the 1-based number of the question awaiting an
// answer, counted across the whole session including resumed answers.
func (s *Session) CurrentQuestionNumber() int {
	return len(s.answers) + 1
}

// TotalQuestions is the size of the full item set the session was generated
// with.
func (s *Session) TotalQuestions() int {
	return len(s.items)
}

// Score is the count of correctly answered questions so far. Partial
// matches count as correct.
func (s *Session) Score() int {
	return s.score
}

// Answers returns the answers recorded so far.
func (s *Session) Answers() []models.QuizAnswer {
	return s.answers
}

// IsComplete reports whether every item has been answered.
func (s *Session) IsComplete() bool {
	return s.complete
}

// NextReview returns the scheduled review date; zero until the session
// completes.
func (s *Session) NextReview() time.Time {
	return s.nextReview
}

// SubmitAnswer scores the current item and advances the session. Choice
// questions are judged by option index; free-text, scramble and listening
// questions go through answer matching, where partial matches score as
// correct. Completing the last item computes the next review date.
func (s *Session) SubmitAnswer(userAnswer string, selectedOption int, timeTakenMs int, now time.Time) (*SubmitResult, error) {
	item, ok := s.CurrentItem()
	if !ok {
		return nil, ErrSessionComplete
	}

	var match models.MatchResult
	answerText := userAnswer

	if item.QuestionType.IsChoice() {
		if selectedOption < 0 || selectedOption >= len(item.Options) {
			return nil, ErrInvalidOption
		}
		answerText = item.Options[selectedOption]
		if selectedOption == item.CorrectOptionIndex {
			match = models.MatchExact
		} else {
			match = models.MatchWrong
		}
	} else {
		match = Match(userAnswer, item.CorrectAnswer)
	}

	correct := match.IsCorrect()
	s.answers = append(s.answers, models.QuizAnswer{
		QuestionNumber: s.CurrentQuestionNumber(),
		UserAnswer:     answerText,
		CorrectAnswer:  item.CorrectAnswer,
		IsCorrect:      correct,
		Match:          match,
		CardID:         item.CardID,
		CardMastery:    item.CardMasterySnapshot,
		TimeTakenMs:    timeTakenMs,
	})
	if correct {
		s.score++
	}

	s.remaining = s.remaining[1:]
	if len(s.remaining) == 0 {
		s.complete = true
		s.nextReview = NextReviewDate(s.QuizType, len(s.answers), s.score, now)
	}

	return &SubmitResult{
		Correct:       correct,
		Match:         match,
		CorrectAnswer: item.CorrectAnswer,
		Done:          s.complete,
	}, nil
}

// Snapshot captures the session for persistence, keyed by (user, deck).
// The full item set is kept so a later resume can filter answered cards
// against it.
func (s *Session) Snapshot(now time.Time) *models.SavedQuizProgress {
	answers := make([]models.QuizAnswer, len(s.answers))
	copy(answers, s.answers)
	items := make([]models.QuizItem, len(s.items))
	copy(items, s.items)

	return &models.SavedQuizProgress{
		UserID:       s.UserID,
		DeckID:       s.DeckID,
		QuizType:     s.QuizType,
		CurrentIndex: s.CurrentQuestionNumber(),
		Answers:      answers,
		Score:        s.score,
		QuizItems:    items,
		Settings:     s.Settings,
		UpdatedAt:    now,
	}
}

// MasteryUpdates recomputes mastery for every card touched in a completed
// session by applying each answer's recorded outcome to the mastery the
// card had when its item was generated.
func (s *Session) MasteryUpdates() []CardMasteryUpdate {
	seen := make(map[int64]bool, len(s.answers))
	updates := make([]CardMasteryUpdate, 0, len(s.answers))
	for _, answer := range s.answers {
		if seen[answer.CardID] {
			continue
		}
		seen[answer.CardID] = true
		updates = append(updates, CardMasteryUpdate{
			CardID:       answer.CardID,
			MasteryScore: ApplyOutcome(answer.CardMastery, answer.Match),
		})
	}
	return updates
}

// History emits the learning-history record for a completed session. The
// quiz type is whatever the session was started as; resuming never changes
// it. Review linkage (parent session, review number) is filled in by the
// caller, which knows the persisted history.
func (s *Session) History(now time.Time) *models.LearningHistory {
	answers := make([]models.QuizAnswer, len(s.answers))
	copy(answers, s.answers)

	return &models.LearningHistory{
		UserID:         s.UserID,
		DeckID:         s.DeckID,
		CardsStudied:   len(s.answers),
		CorrectAnswers: s.score,
		QuizType:       s.QuizType,
		NextReviewDate: s.nextReview,
		Answers:        answers,
		CreatedAt:      now,
	}
}
