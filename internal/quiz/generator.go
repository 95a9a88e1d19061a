package quiz

import (
	"log"
	"math/rand"

	"lingodeck/internal/models"
)

const (
	// maxScrambleAttempts bounds the shuffles tried before falling back to
	// reversing the word.
	maxScrambleAttempts = 50
	// maxSequenceShuffleAttempts bounds the attempts to find an ordering
	// with no adjacent duplicate prompts or answers.
	maxSequenceShuffleAttempts = 100
	// maxDistractors is how many wrong options a choice question carries.
	maxDistractors = models.OptionCount - 1
)

// Generator builds quiz item sequences from a card set. The random source
// is injected so generation is reproducible under test.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator using the given random source.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate produces one quiz item per card, in a shuffled order that
// best-effort avoids placing items with the same prompt or answer next to
// each other. deckLanguage resolves the audio locale for listening items.
func (g *Generator) Generate(cards []models.Card, deckLanguage string) []models.QuizItem {
	items := make([]models.QuizItem, 0, len(cards))
	for _, card := range cards {
		items = append(items, g.buildItem(card, cards, deckLanguage))
	}
	return g.shuffleAvoidingAdjacent(items)
}

func (g *Generator) buildItem(card models.Card, pool []models.Card, deckLanguage string) models.QuizItem {
	item := models.QuizItem{
		CardID:              card.ID,
		QuestionType:        Classify(card.MasteryScore, card.SourceText, g.rng),
		CardMasterySnapshot: card.MasteryScore,
		CorrectOptionIndex:  -1,
	}

	switch item.QuestionType {
	case models.QuestionMultipleChoice:
		item.Prompt = card.SourceText
		item.CorrectAnswer = card.TargetText
		item.Options, item.CorrectOptionIndex = g.buildOptions(card, pool, func(c models.Card) string {
			return c.TargetText
		})
	case models.QuestionReverseChoice:
		item.Prompt = card.TargetText
		item.CorrectAnswer = card.SourceText
		item.Options, item.CorrectOptionIndex = g.buildOptions(card, pool, func(c models.Card) string {
			return c.SourceText
		})
	case models.QuestionWordScramble:
		item.Prompt = g.scramble(card.SourceText)
		item.CorrectAnswer = card.SourceText
	case models.QuestionTypeAnswer:
		item.Prompt = card.SourceText
		item.CorrectAnswer = card.TargetText
	case models.QuestionReverseType:
		item.Prompt = card.TargetText
		item.CorrectAnswer = card.SourceText
	case models.QuestionListening:
		item.Prompt = card.SourceText
		item.CorrectAnswer = card.SourceText
		item.AudioLocale = AudioLocaleFor(deckLanguage)
	}

	return item
}

// buildOptions assembles the 4-option list for a choice question: up to 3
// distractors drawn from other cards whose source and target both differ
// from the current card, padded with empty strings when the deck is small,
// then shuffled with the correct answer.
func (g *Generator) buildOptions(card models.Card, pool []models.Card, field func(models.Card) string) ([]string, int) {
	var eligible []models.Card
	for _, other := range pool {
		if other.ID == card.ID {
			continue
		}
		if other.SourceText == card.SourceText || other.TargetText == card.TargetText {
			continue
		}
		eligible = append(eligible, other)
	}

	g.rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	if len(eligible) > maxDistractors {
		eligible = eligible[:maxDistractors]
	}

	correct := field(card)
	options := make([]string, 0, models.OptionCount)
	options = append(options, correct)
	for _, distractor := range eligible {
		options = append(options, field(distractor))
	}
	for len(options) < models.OptionCount {
		options = append(options, "")
	}

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := 0
	for i, option := range options {
		if option == correct {
			correctIndex = i
			break
		}
	}
	return options, correctIndex
}

// scramble returns the word with its characters shuffled, retrying until
// the result differs from the original. Words whose shuffles keep colliding
// (e.g. repeated characters) fall back to simple reversal.
func (g *Generator) scramble(word string) string {
	runes := []rune(word)
	if len(runes) < 2 {
		return word
	}

	for attempt := 0; attempt < maxScrambleAttempts; attempt++ {
		shuffled := make([]rune, len(runes))
		copy(shuffled, runes)
		g.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if string(shuffled) != word {
			return string(shuffled)
		}
	}

	reversed := make([]rune, len(runes))
	for i, r := range runes {
		reversed[len(runes)-1-i] = r
	}
	return string(reversed)
}

// shuffleAvoidingAdjacent permutes the items and retries until no two
// neighbours share a prompt or a correct answer. Once the retries are
// exhausted the last unconstrained shuffle is accepted.
func (g *Generator) shuffleAvoidingAdjacent(items []models.QuizItem) []models.QuizItem {
	if len(items) < 2 {
		return items
	}

	shuffled := make([]models.QuizItem, len(items))
	copy(shuffled, items)

	for attempt := 0; attempt < maxSequenceShuffleAttempts; attempt++ {
		g.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if !hasAdjacentDuplicates(shuffled) {
			return shuffled
		}
	}

	log.Printf("Warning: could not avoid adjacent duplicate quiz items after %d shuffles, using unconstrained order", maxSequenceShuffleAttempts)
	return shuffled
}

func hasAdjacentDuplicates(items []models.QuizItem) bool {
	for i := 1; i < len(items); i++ {
		if items[i].Prompt == items[i-1].Prompt || items[i].CorrectAnswer == items[i-1].CorrectAnswer {
			return true
		}
	}
	return false
}
