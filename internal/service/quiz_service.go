package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"lingodeck/internal/models"
	"lingodeck/internal/quiz"
	"lingodeck/internal/repository"
)

var (
	ErrNoActiveSession = errors.New("no active quiz session")
	ErrNoSavedProgress = errors.New("no saved progress to resume")
	ErrNoCardsToStudy  = errors.New("no cards match the quiz settings")
	ErrNotDueForReview = errors.New("deck is not due for review yet")
)

type sessionKey struct {
	userID int64
	deckID int64
}

// QuizService runs quiz sessions end to end: card selection, question
// generation, answer scoring, snapshot persistence and finish-time
// write-back of mastery, history and scheduling.
//
// Active sessions live in memory keyed by (user, deck); durable snapshots
// in the progress store let a session survive a restart or a closed tab.
type QuizService struct {
	deckRepo    *repository.DeckRepository
	cardRepo    *repository.CardRepository
	historyRepo *repository.HistoryRepository
	progress    quiz.ProgressStore

	mu      sync.Mutex
	active  map[sessionKey]*quiz.Session
	newRand func() *rand.Rand
}

// NewQuizService creates a new quiz service
func NewQuizService(deckRepo *repository.DeckRepository, cardRepo *repository.CardRepository, historyRepo *repository.HistoryRepository, progress quiz.ProgressStore) *QuizService {
	return &QuizService{
		deckRepo:    deckRepo,
		cardRepo:    cardRepo,
		historyRepo: historyRepo,
		progress:    progress,
		active:      make(map[sessionKey]*quiz.Session),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// QuestionView is what the client sees for the question awaiting an
// answer. The correct answer and option index are withheld.
type QuestionView struct {
	QuestionNumber int                 `json:"questionNumber"`
	TotalQuestions int                 `json:"totalQuestions"`
	Score          int                 `json:"score"`
	QuestionType   models.QuestionType `json:"questionType"`
	Prompt         string              `json:"prompt"`
	Options        []string            `json:"options,omitempty"`
	AudioLocale    string              `json:"audioLocale,omitempty"`
	QuizType       models.QuizType     `json:"quizType"`
}

// SessionResults summarizes a completed session
type SessionResults struct {
	Score          int                 `json:"score"`
	TotalQuestions int                 `json:"totalQuestions"`
	QuizType       models.QuizType     `json:"quizType"`
	NextReviewDate time.Time           `json:"nextReviewDate"`
	Answers        []models.QuizAnswer `json:"answers"`
}

// StartSession begins a new session over a deck, replacing any active
// in-memory session for the same (user, deck). A review session requires
// the deck's scheduled review date to have arrived.
func (s *QuizService) StartSession(ctx context.Context, userID, deckID int64, quizType models.QuizType, settings models.QuizSettings) (*QuestionView, error) {
	deck, err := s.ownedDeck(userID, deckID)
	if err != nil {
		return nil, err
	}

	cards, err := s.cardRepo.GetCardsByDeckID(deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}

	if quizType == models.QuizTypeReview || settings.CardTypeToLearn == models.CardFilterDue {
		due, err := s.isDue(userID, deckID, time.Now())
		if err != nil {
			return nil, err
		}
		if !due {
			return nil, ErrNotDueForReview
		}
	}

	selected := s.selectCards(cards, settings)
	if len(selected) == 0 {
		return nil, ErrNoCardsToStudy
	}

	generator := quiz.NewGenerator(s.newRand())
	items := generator.Generate(selected, deck.Language)

	session, err := quiz.NewSession(userID, deckID, quizType, items, settings)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.active[sessionKey{userID, deckID}] = session
	s.mu.Unlock()

	// A stale snapshot from an abandoned earlier run would otherwise shadow
	// this session on the next resume prompt.
	if err := s.progress.Delete(ctx, userID, deckID); err != nil {
		log.Printf("Warning: failed to clear stale progress for user %d deck %d: %v", userID, deckID, err)
	}

	return s.questionView(session), nil
}

// ResumeSession rebuilds a session from saved progress. Cards already
// answered are skipped; the score, answers and quiz type carry over.
func (s *QuizService) ResumeSession(ctx context.Context, userID, deckID int64) (*QuestionView, error) {
	if _, err := s.ownedDeck(userID, deckID); err != nil {
		return nil, err
	}

	snapshot, err := s.progress.Load(ctx, userID, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if snapshot == nil {
		return nil, ErrNoSavedProgress
	}

	session, err := quiz.Resume(snapshot)
	if err != nil {
		if errors.Is(err, quiz.ErrNoQuizItems) {
			// Every card was answered before the save; nothing to resume.
			_ = s.progress.Delete(ctx, userID, deckID)
			return nil, ErrNoSavedProgress
		}
		return nil, err
	}

	s.mu.Lock()
	s.active[sessionKey{userID, deckID}] = session
	s.mu.Unlock()

	return s.questionView(session), nil
}

// HasSavedProgress reports whether a live snapshot exists for the deck.
func (s *QuizService) HasSavedProgress(ctx context.Context, userID, deckID int64) (bool, error) {
	snapshot, err := s.progress.Load(ctx, userID, deckID)
	if err != nil {
		return false, err
	}
	return snapshot != nil, nil
}

// CurrentQuestion returns the question awaiting an answer in the active
// session.
func (s *QuizService) CurrentQuestion(userID, deckID int64) (*QuestionView, error) {
	session, err := s.activeSession(userID, deckID)
	if err != nil {
		return nil, err
	}
	return s.questionView(session), nil
}

// AnswerResult is returned for each submitted answer. Results are included
// only when the answer completed the session.
type AnswerResult struct {
	Correct       bool               `json:"correct"`
	Match         models.MatchResult `json:"match"`
	CorrectAnswer string             `json:"correctAnswer"`
	Done          bool               `json:"done"`
	Next          *QuestionView      `json:"next,omitempty"`
	Results       *SessionResults    `json:"results,omitempty"`
}

// SubmitAnswer scores one answer against the active session. When the
// answer completes the session, mastery scores, the history record and the
// review schedule are persisted before returning; persistence failures are
// logged but never cost the user their finished session.
func (s *QuizService) SubmitAnswer(ctx context.Context, userID, deckID int64, userAnswer string, selectedOption, timeTakenMs int) (*AnswerResult, error) {
	session, err := s.activeSession(userID, deckID)
	if err != nil {
		return nil, err
	}

	result, err := session.SubmitAnswer(userAnswer, selectedOption, timeTakenMs, time.Now())
	if err != nil {
		return nil, err
	}

	answer := &AnswerResult{
		Correct:       result.Correct,
		Match:         result.Match,
		CorrectAnswer: result.CorrectAnswer,
		Done:          result.Done,
	}

	if !result.Done {
		answer.Next = s.questionView(session)
		return answer, nil
	}

	s.finishSession(ctx, session)

	s.mu.Lock()
	delete(s.active, sessionKey{userID, deckID})
	s.mu.Unlock()

	answer.Results = &SessionResults{
		Score:          session.Score(),
		TotalQuestions: len(session.Answers()),
		QuizType:       session.QuizType,
		NextReviewDate: session.NextReview(),
		Answers:        session.Answers(),
	}
	return answer, nil
}

// SaveProgress snapshots the active session so it can be resumed later,
// even after a restart.
func (s *QuizService) SaveProgress(ctx context.Context, userID, deckID int64) error {
	session, err := s.activeSession(userID, deckID)
	if err != nil {
		return err
	}
	if session.IsComplete() {
		return quiz.ErrSessionComplete
	}
	return s.progress.Save(ctx, session.Snapshot(time.Now()))
}

// DiscardProgress abandons the active session and deletes any snapshot.
func (s *QuizService) DiscardProgress(ctx context.Context, userID, deckID int64) error {
	s.mu.Lock()
	delete(s.active, sessionKey{userID, deckID})
	s.mu.Unlock()
	return s.progress.Delete(ctx, userID, deckID)
}

// GetHistory lists the completed sessions for a deck, newest first.
func (s *QuizService) GetHistory(userID, deckID int64) ([]models.LearningHistory, error) {
	if _, err := s.ownedDeck(userID, deckID); err != nil {
		return nil, err
	}
	return s.historyRepo.GetHistoryByUserAndDeck(userID, deckID)
}

// GetUserStats returns the user's study totals across all decks.
func (s *QuizService) GetUserStats(userID int64) (*repository.UserStats, error) {
	return s.historyRepo.GetUserStats(userID)
}

// IsDueForReview reports whether the deck's scheduled review date has
// arrived.
func (s *QuizService) IsDueForReview(userID, deckID int64) (bool, error) {
	if _, err := s.ownedDeck(userID, deckID); err != nil {
		return false, err
	}
	return s.isDue(userID, deckID, time.Now())
}

// finishSession persists everything a completed session produced. Each
// step is independent; a failure is logged and the rest still run.
func (s *QuizService) finishSession(ctx context.Context, session *quiz.Session) {
	updates := session.MasteryUpdates()
	scores := make(map[int64]float64, len(updates))
	for _, u := range updates {
		scores[u.CardID] = u.MasteryScore
	}
	if err := s.cardRepo.UpdateMasteryScores(scores); err != nil {
		log.Printf("Warning: failed to write mastery scores for deck %d: %v", session.DeckID, err)
	}

	history := session.History(time.Now())

	if session.QuizType == models.QuizTypeReview {
		learn, err := s.historyRepo.FindLatestLearnSession(session.UserID, session.DeckID)
		if err != nil {
			log.Printf("Warning: failed to find learn session for deck %d: %v", session.DeckID, err)
		} else if learn != nil {
			history.ParentSessionID = &learn.ID
			history.ReviewNumber = len(learn.ReviewSessionIDs) + 1
		}
	}

	historyID, err := s.historyRepo.SaveHistory(history)
	if err != nil {
		log.Printf("Warning: failed to save history for deck %d: %v", session.DeckID, err)
	} else if history.ParentSessionID != nil {
		// The review moves the linked learn session's schedule forward.
		if err := s.historyRepo.UpdateNextReviewDate(*history.ParentSessionID, session.NextReview()); err != nil {
			log.Printf("Warning: failed to reschedule review for history %d: %v", historyID, err)
		}
	}

	if err := s.progress.Delete(ctx, session.UserID, session.DeckID); err != nil {
		log.Printf("Warning: failed to delete progress for deck %d: %v", session.DeckID, err)
	}
}

// selectCards filters the deck's cards per the settings, optionally
// shuffles the study order, and caps the count.
func (s *QuizService) selectCards(cards []models.Card, settings models.QuizSettings) []models.Card {
	var selected []models.Card
	for _, c := range cards {
		if c.IsCompleted() && !settings.IncludeCompletedCards && settings.CardTypeToLearn != models.CardFilterCompleted {
			continue
		}
		if !settings.CardTypeToLearn.Matches(&c) {
			continue
		}
		selected = append(selected, c)
	}

	if settings.ShuffleCards {
		rng := s.newRand()
		rng.Shuffle(len(selected), func(i, j int) {
			selected[i], selected[j] = selected[j], selected[i]
		})
	}

	if settings.CardsToLearn > 0 && len(selected) > settings.CardsToLearn {
		selected = selected[:settings.CardsToLearn]
	}
	return selected
}

func (s *QuizService) isDue(userID, deckID int64, now time.Time) (bool, error) {
	learn, err := s.historyRepo.FindLatestLearnSession(userID, deckID)
	if err != nil {
		return false, fmt.Errorf("failed to check review schedule: %w", err)
	}
	if learn == nil {
		return false, nil
	}
	return !learn.NextReviewDate.After(now), nil
}

func (s *QuizService) activeSession(userID, deckID int64) (*quiz.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.active[sessionKey{userID, deckID}]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return session, nil
}

func (s *QuizService) questionView(session *quiz.Session) *QuestionView {
	item, ok := session.CurrentItem()
	if !ok {
		return nil
	}
	return &QuestionView{
		QuestionNumber: session.CurrentQuestionNumber(),
		TotalQuestions: session.TotalQuestions(),
		Score:          session.Score(),
		QuestionType:   item.QuestionType,
		Prompt:         item.Prompt,
		Options:        item.Options,
		AudioLocale:    item.AudioLocale,
		QuizType:       session.QuizType,
	}
}

func (s *QuizService) ownedDeck(userID, deckID int64) (*models.Deck, error) {
	deck, err := s.deckRepo.GetDeckByID(deckID)
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, ErrDeckNotFound
	}
	if deck.UserID != userID {
		return nil, ErrNotDeckOwner
	}
	return deck, nil
}
