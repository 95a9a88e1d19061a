package quiz

import (
	"math/rand"
	"testing"
	"time"

	"lingodeck/internal/models"
)

var sessionNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newLearnSession(t *testing.T, cards []models.Card) *Session {
	t.Helper()
	gen := NewGenerator(rand.New(rand.NewSource(7)))
	items := gen.Generate(cards, "Finnish")
	session, err := NewSession(1, 10, models.QuizTypeLearn, items, models.QuizSettings{
		CardsToLearn:    len(cards),
		CardTypeToLearn: models.CardFilterAll,
		ShuffleCards:    true,
	})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return session
}

func TestNewSessionRequiresItems(t *testing.T) {
	if _, err := NewSession(1, 10, models.QuizTypeLearn, nil, models.QuizSettings{}); err != ErrNoQuizItems {
		t.Errorf("NewSession(no items) error = %v, want %v", err, ErrNoQuizItems)
	}
}

func TestFullSessionAllCorrect(t *testing.T) {
	cards := testCards(0,
		[2]string{"kissa", "cat"},
		[2]string{"koira", "dog"},
		[2]string{"lintu", "bird"},
		[2]string{"kala", "fish"},
	)
	session := newLearnSession(t, cards)

	for i := 0; i < len(cards); i++ {
		item, ok := session.CurrentItem()
		if !ok {
			t.Fatalf("no current item at question %d", i+1)
		}
		if item.QuestionType != models.QuestionMultipleChoice {
			t.Fatalf("mastery-0 card got type %v", item.QuestionType)
		}

		result, err := session.SubmitAnswer("", item.CorrectOptionIndex, 1200, sessionNow)
		if err != nil {
			t.Fatalf("SubmitAnswer() error = %v", err)
		}
		if !result.Correct {
			t.Errorf("correct option index judged wrong at question %d", i+1)
		}
	}

	if !session.IsComplete() {
		t.Error("session not complete after answering every item")
	}
	if session.Score() != len(cards) {
		t.Errorf("score = %d, want %d", session.Score(), len(cards))
	}
	if want := sessionNow.AddDate(0, 0, 1); !session.NextReview().Equal(want) {
		t.Errorf("next review = %v, want %v", session.NextReview(), want)
	}

	updates := session.MasteryUpdates()
	if len(updates) != len(cards) {
		t.Fatalf("mastery updates = %d, want %d", len(updates), len(cards))
	}
	for _, update := range updates {
		if update.MasteryScore != 1 {
			t.Errorf("card %d mastery = %v, want 1", update.CardID, update.MasteryScore)
		}
	}
}

func TestSubmitAnswerFreeTextPartialCredit(t *testing.T) {
	items := []models.QuizItem{
		{
			CardID:              1,
			QuestionType:        models.QuestionTypeAnswer,
			Prompt:              "juosta",
			CorrectAnswer:       "to run, to jog",
			CorrectOptionIndex:  -1,
			CardMasterySnapshot: 2,
		},
	}
	session, err := NewSession(1, 10, models.QuizTypeLearn, items, models.QuizSettings{})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	result, err := session.SubmitAnswer("to jog", -1, 0, sessionNow)
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if !result.Correct {
		t.Error("partial match not counted as correct")
	}
	if result.Match != models.MatchPartial {
		t.Errorf("match = %v, want partial", result.Match)
	}
	if session.Score() != 1 {
		t.Errorf("score = %d, want 1 (partial counts fully toward score)", session.Score())
	}

	updates := session.MasteryUpdates()
	if len(updates) != 1 || updates[0].MasteryScore != 2.5 {
		t.Errorf("mastery after partial = %+v, want card 1 at 2.5", updates)
	}
}

func TestSubmitAnswerWrongChoice(t *testing.T) {
	items := []models.QuizItem{
		{
			CardID:             1,
			QuestionType:       models.QuestionMultipleChoice,
			Prompt:             "kissa",
			Options:            []string{"dog", "cat", "bird", "fish"},
			CorrectAnswer:      "cat",
			CorrectOptionIndex: 1,
		},
		{
			CardID:             2,
			QuestionType:       models.QuestionMultipleChoice,
			Prompt:             "koira",
			Options:            []string{"dog", "cat", "bird", "fish"},
			CorrectAnswer:      "dog",
			CorrectOptionIndex: 0,
		},
	}
	session, err := NewSession(1, 10, models.QuizTypeLearn, items, models.QuizSettings{})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	result, err := session.SubmitAnswer("", 3, 0, sessionNow)
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if result.Correct {
		t.Error("wrong option judged correct")
	}
	if session.Score() != 0 {
		t.Errorf("score = %d, want 0", session.Score())
	}

	// Recorded answer carries the text of the picked option.
	answers := session.Answers()
	if len(answers) != 1 || answers[0].UserAnswer != "fish" {
		t.Errorf("recorded answer = %+v, want user answer %q", answers, "fish")
	}

	if _, err := session.SubmitAnswer("", 9, 0, sessionNow); err != ErrInvalidOption {
		t.Errorf("out-of-range option error = %v, want %v", err, ErrInvalidOption)
	}
}

func TestSubmitAnswerAfterComplete(t *testing.T) {
	items := []models.QuizItem{
		{CardID: 1, QuestionType: models.QuestionTypeAnswer, Prompt: "kissa", CorrectAnswer: "cat", CorrectOptionIndex: -1},
	}
	session, err := NewSession(1, 10, models.QuizTypeLearn, items, models.QuizSettings{})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if _, err := session.SubmitAnswer("cat", -1, 0, sessionNow); err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if _, err := session.SubmitAnswer("cat", -1, 0, sessionNow); err != ErrSessionComplete {
		t.Errorf("submit after completion error = %v, want %v", err, ErrSessionComplete)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	cards := testCards(3,
		[2]string{"yksi", "one"},
		[2]string{"kaksi", "two"},
		[2]string{"kolme", "three"},
	)
	session := newLearnSession(t, cards)

	// Answer the first question, then suspend.
	item, _ := session.CurrentItem()
	if _, err := session.SubmitAnswer(item.CorrectAnswer, -1, 800, sessionNow); err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	snapshot := session.Snapshot(sessionNow)

	if snapshot.CurrentIndex != 2 || snapshot.Score != 1 || len(snapshot.Answers) != 1 {
		t.Fatalf("snapshot = index %d score %d answers %d, want 2/1/1", snapshot.CurrentIndex, snapshot.Score, len(snapshot.Answers))
	}
	if len(snapshot.QuizItems) != 3 {
		t.Fatalf("snapshot kept %d items, want the full set of 3", len(snapshot.QuizItems))
	}

	resumed, err := Resume(snapshot)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if resumed.QuizType != models.QuizTypeLearn {
		t.Errorf("resumed quiz type = %v, want learn", resumed.QuizType)
	}
	if resumed.Score() != 1 || resumed.CurrentQuestionNumber() != 2 {
		t.Errorf("resumed score/question = %d/%d, want 1/2", resumed.Score(), resumed.CurrentQuestionNumber())
	}

	// The answered card must not come up again.
	answeredID := snapshot.Answers[0].CardID
	for {
		current, ok := resumed.CurrentItem()
		if !ok {
			break
		}
		if current.CardID == answeredID {
			t.Fatalf("resumed session re-asked already-answered card %d", answeredID)
		}
		if _, err := resumed.SubmitAnswer(current.CorrectAnswer, -1, 0, sessionNow); err != nil {
			t.Fatalf("SubmitAnswer() error = %v", err)
		}
	}

	if !resumed.IsComplete() {
		t.Fatal("resumed session did not complete")
	}
	if resumed.Score() != 3 {
		t.Errorf("final score = %d, want 3", resumed.Score())
	}

	// Resuming never changes the recorded quiz type.
	history := resumed.History(sessionNow)
	if history.QuizType != models.QuizTypeLearn {
		t.Errorf("history quiz type = %v, want learn", history.QuizType)
	}
	if history.CardsStudied != 3 || history.CorrectAnswers != 3 {
		t.Errorf("history totals = %d/%d, want 3/3", history.CardsStudied, history.CorrectAnswers)
	}
}

func TestResumeFullyAnsweredSnapshot(t *testing.T) {
	snapshot := &models.SavedQuizProgress{
		UserID:   1,
		DeckID:   10,
		QuizType: models.QuizTypeLearn,
		QuizItems: []models.QuizItem{
			{CardID: 1, QuestionType: models.QuestionTypeAnswer, CorrectAnswer: "cat", CorrectOptionIndex: -1},
		},
		Answers: []models.QuizAnswer{
			{QuestionNumber: 1, CardID: 1, IsCorrect: true, Match: models.MatchExact},
		},
		Score: 1,
	}

	if _, err := Resume(snapshot); err != ErrNoQuizItems {
		t.Errorf("Resume(fully answered) error = %v, want %v", err, ErrNoQuizItems)
	}
}

func TestReviewSessionSchedulesFromPerformance(t *testing.T) {
	items := []models.QuizItem{
		{CardID: 1, QuestionType: models.QuestionTypeAnswer, Prompt: "yksi", CorrectAnswer: "one", CorrectOptionIndex: -1, CardMasterySnapshot: 3},
		{CardID: 2, QuestionType: models.QuestionTypeAnswer, Prompt: "kaksi", CorrectAnswer: "two", CorrectOptionIndex: -1, CardMasterySnapshot: 3},
		{CardID: 3, QuestionType: models.QuestionTypeAnswer, Prompt: "kolme", CorrectAnswer: "three", CorrectOptionIndex: -1, CardMasterySnapshot: 3},
		{CardID: 4, QuestionType: models.QuestionTypeAnswer, Prompt: "neljä", CorrectAnswer: "four", CorrectOptionIndex: -1, CardMasterySnapshot: 3},
		{CardID: 5, QuestionType: models.QuestionTypeAnswer, Prompt: "viisi", CorrectAnswer: "five", CorrectOptionIndex: -1, CardMasterySnapshot: 3},
	}
	session, err := NewSession(1, 10, models.QuizTypeReview, items, models.QuizSettings{})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	answers := []string{"one", "two", "three", "four", "wrong"}
	for _, answer := range answers {
		if _, err := session.SubmitAnswer(answer, -1, 0, sessionNow); err != nil {
			t.Fatalf("SubmitAnswer(%q) error = %v", answer, err)
		}
	}

	// 4/5 = 80%, review interval doubles to two days.
	if want := sessionNow.AddDate(0, 0, 2); !session.NextReview().Equal(want) {
		t.Errorf("next review = %v, want %v", session.NextReview(), want)
	}

	// The wrong answer drops that card a level; the rest advance.
	for _, update := range session.MasteryUpdates() {
		want := 4.0
		if update.CardID == 5 {
			want = 2.0
		}
		if update.MasteryScore != want {
			t.Errorf("card %d mastery = %v, want %v", update.CardID, update.MasteryScore, want)
		}
	}
}
