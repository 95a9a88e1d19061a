package service

import (
	"math/rand"
	"testing"

	"lingodeck/internal/models"
	"lingodeck/internal/quiz"
)

func selectionTestCards() []models.Card {
	return []models.Card{
		{ID: 1, SourceText: "kissa", TargetText: "cat", MasteryScore: 0},
		{ID: 2, SourceText: "koira", TargetText: "dog", MasteryScore: 2, IsLearning: true},
		{ID: 3, SourceText: "lintu", TargetText: "bird", MasteryScore: 5, IsLearning: true},
		{ID: 4, SourceText: "kala", TargetText: "fish", MasteryScore: 0.5, IsLearning: true},
	}
}

func newTestQuizService() *QuizService {
	return &QuizService{
		active: make(map[sessionKey]*quiz.Session),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(1))
		},
	}
}

func TestSelectCards(t *testing.T) {
	tests := []struct {
		name     string
		settings models.QuizSettings
		wantIDs  []int64
	}{
		{
			name:     "all cards excludes completed by default",
			settings: models.QuizSettings{CardTypeToLearn: models.CardFilterAll},
			wantIDs:  []int64{1, 2, 4},
		},
		{
			name:     "all cards with completed included",
			settings: models.QuizSettings{CardTypeToLearn: models.CardFilterAll, IncludeCompletedCards: true},
			wantIDs:  []int64{1, 2, 3, 4},
		},
		{
			name:     "not studied only",
			settings: models.QuizSettings{CardTypeToLearn: models.CardFilterNotStudied},
			wantIDs:  []int64{1},
		},
		{
			name:     "learning only",
			settings: models.QuizSettings{CardTypeToLearn: models.CardFilterLearning},
			wantIDs:  []int64{2, 4},
		},
		{
			name:     "completed filter overrides exclusion",
			settings: models.QuizSettings{CardTypeToLearn: models.CardFilterCompleted},
			wantIDs:  []int64{3},
		},
		{
			name:     "cards to learn caps the selection",
			settings: models.QuizSettings{CardTypeToLearn: models.CardFilterAll, CardsToLearn: 2},
			wantIDs:  []int64{1, 2},
		},
	}

	svc := newTestQuizService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected := svc.selectCards(selectionTestCards(), tt.settings)
			if len(selected) != len(tt.wantIDs) {
				t.Fatalf("selectCards() returned %d cards, want %d", len(selected), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if selected[i].ID != want {
					t.Errorf("selectCards()[%d].ID = %d, want %d", i, selected[i].ID, want)
				}
			}
		})
	}
}

func TestSelectCardsShuffleKeepsSet(t *testing.T) {
	svc := newTestQuizService()
	settings := models.QuizSettings{CardTypeToLearn: models.CardFilterAll, IncludeCompletedCards: true, ShuffleCards: true}

	selected := svc.selectCards(selectionTestCards(), settings)
	if len(selected) != 4 {
		t.Fatalf("selectCards() returned %d cards, want 4", len(selected))
	}

	seen := make(map[int64]bool)
	for _, c := range selected {
		seen[c.ID] = true
	}
	for _, id := range []int64{1, 2, 3, 4} {
		if !seen[id] {
			t.Errorf("shuffled selection missing card %d", id)
		}
	}
}
