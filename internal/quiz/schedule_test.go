package quiz

import (
	"testing"
	"time"

	"lingodeck/internal/models"
)

func TestNextReviewDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		quizType models.QuizType
		studied  int
		correct  int
		wantDays int
	}{
		{name: "learn always one day", quizType: models.QuizTypeLearn, studied: 5, correct: 5, wantDays: 1},
		{name: "learn with poor score still one day", quizType: models.QuizTypeLearn, studied: 10, correct: 1, wantDays: 1},
		{name: "review at 90 percent doubles", quizType: models.QuizTypeReview, studied: 10, correct: 9, wantDays: 2},
		{name: "review at exactly 80 percent doubles", quizType: models.QuizTypeReview, studied: 10, correct: 8, wantDays: 2},
		{name: "review at 70 percent unchanged", quizType: models.QuizTypeReview, studied: 10, correct: 7, wantDays: 1},
		{name: "review at 50 percent halves and floors", quizType: models.QuizTypeReview, studied: 10, correct: 5, wantDays: 1},
		{name: "review with zero correct floors at one day", quizType: models.QuizTypeReview, studied: 4, correct: 0, wantDays: 1},
		{name: "review with no cards studied", quizType: models.QuizTypeReview, studied: 0, correct: 0, wantDays: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextReviewDate(tt.quizType, tt.studied, tt.correct, now)
			want := now.AddDate(0, 0, tt.wantDays)
			if !got.Equal(want) {
				t.Errorf("NextReviewDate() = %v, want %v", got, want)
			}
		})
	}
}

func TestNextReviewDateNeverExceedsCap(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	cap := now.AddDate(0, 0, maxIntervalDays)

	for studied := 1; studied <= 20; studied++ {
		for correct := 0; correct <= studied; correct++ {
			got := NextReviewDate(models.QuizTypeReview, studied, correct, now)
			if got.After(cap) {
				t.Fatalf("NextReviewDate(review, %d, %d) = %v, beyond the %d-day cap", studied, correct, got, maxIntervalDays)
			}
		}
	}
}
