package quiz

import (
	"math"
	"math/rand"

	"lingodeck/internal/models"
)

// Classify maps a card's mastery score to the question type it gets next.
// Mastery is floored to an integer level; everything at or above level 4
// collapses into the top tier, where cards with audio-suitable text have a
// 50% chance of a listening question instead of reverse typing.
//
// rng is the session's random source; it is only consulted at the top tier.
func Classify(masteryScore float64, cardText string, rng *rand.Rand) models.QuestionType {
	level := int(math.Floor(masteryScore))
	if level < 0 {
		level = 0
	}

	switch level {
	case 0:
		return models.QuestionMultipleChoice
	case 1:
		return models.QuestionReverseChoice
	case 2:
		return models.QuestionWordScramble
	case 3:
		return models.QuestionTypeAnswer
	default:
		if SuitableForAudio(cardText) && rng.Intn(2) == 0 {
			return models.QuestionListening
		}
		return models.QuestionReverseType
	}
}
