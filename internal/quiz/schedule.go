package quiz

import (
	"time"

	"lingodeck/internal/models"
)

// Review interval policy. Intentionally non-compounding: every session
// starts from the one-day base and applies at most one doubling or halving
// step from the session's performance.
const (
	baseIntervalDays = 1
	maxIntervalDays  = 30

	goodPerformance = 0.8
	poorPerformance = 0.6
)

// NextReviewDate computes when the studied cards are due again. Learn
// sessions are always reviewed the next day; review sessions double the
// interval at >=80% accuracy and halve it (floored at one day) below 60%.
func NextReviewDate(quizType models.QuizType, cardsStudied, correctAnswers int, now time.Time) time.Time {
	intervalDays := baseIntervalDays

	if quizType == models.QuizTypeReview && cardsStudied > 0 {
		performance := float64(correctAnswers) / float64(cardsStudied)
		switch {
		case performance >= goodPerformance:
			intervalDays *= 2
		case performance < poorPerformance:
			intervalDays /= 2
			if intervalDays < 1 {
				intervalDays = 1
			}
		}
	}

	if intervalDays > maxIntervalDays {
		intervalDays = maxIntervalDays
	}

	return now.AddDate(0, 0, intervalDays)
}
