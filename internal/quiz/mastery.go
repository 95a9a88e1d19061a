package quiz

import "lingodeck/internal/models"

// Mastery deltas per answer outcome. A partial match earns half credit; a
// wrong answer pushes the card a full level back.
const (
	masteryGainExact   = 1.0
	masteryGainPartial = 0.5
	masteryLossWrong   = -1.0
)

// ApplyOutcome returns the card's new mastery score after an answer,
// clamped to [0, 5]. The new score takes effect the next time the card is
// studied; items already generated for the running session keep their
// snapshot.
func ApplyOutcome(currentScore float64, outcome models.MatchResult) float64 {
	score := currentScore
	switch outcome {
	case models.MatchExact:
		score += masteryGainExact
	case models.MatchPartial:
		score += masteryGainPartial
	default:
		score += masteryLossWrong
	}

	if score < 0 {
		return 0
	}
	if score > models.MaxMasteryScore {
		return models.MaxMasteryScore
	}
	return score
}
