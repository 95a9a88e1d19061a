package quiz

import (
	"math/rand"
	"testing"

	"lingodeck/internal/models"
)

func testCards(mastery float64, pairs ...[2]string) []models.Card {
	cards := make([]models.Card, len(pairs))
	for i, pair := range pairs {
		cards[i] = models.Card{
			ID:           int64(i + 1),
			SourceText:   pair[0],
			TargetText:   pair[1],
			MasteryScore: mastery,
		}
	}
	return cards
}

func TestGenerateMultipleChoiceInvariants(t *testing.T) {
	cards := testCards(0,
		[2]string{"kissa", "cat"},
		[2]string{"koira", "dog"},
		[2]string{"lintu", "bird"},
		[2]string{"kala", "fish"},
		[2]string{"hevonen", "horse"},
	)
	gen := NewGenerator(rand.New(rand.NewSource(7)))

	items := gen.Generate(cards, "Finnish")
	if len(items) != len(cards) {
		t.Fatalf("Generate() produced %d items, want %d", len(items), len(cards))
	}

	for _, item := range items {
		if item.QuestionType != models.QuestionMultipleChoice {
			t.Errorf("card at mastery 0 got type %v, want %v", item.QuestionType, models.QuestionMultipleChoice)
		}
		if len(item.Options) != models.OptionCount {
			t.Errorf("options length = %d, want %d", len(item.Options), models.OptionCount)
		}
		if item.CorrectOptionIndex < 0 || item.CorrectOptionIndex >= len(item.Options) {
			t.Fatalf("correct option index %d out of range", item.CorrectOptionIndex)
		}
		if item.Options[item.CorrectOptionIndex] != item.CorrectAnswer {
			t.Errorf("options[%d] = %q, want correct answer %q", item.CorrectOptionIndex, item.Options[item.CorrectOptionIndex], item.CorrectAnswer)
		}
		for i, option := range item.Options {
			if i != item.CorrectOptionIndex && option == item.CorrectAnswer {
				t.Errorf("duplicate correct answer %q among distractors", option)
			}
		}
	}
}

func TestGeneratePadsOptionsInSmallDeck(t *testing.T) {
	cards := testCards(0,
		[2]string{"kissa", "cat"},
		[2]string{"koira", "dog"},
	)
	gen := NewGenerator(rand.New(rand.NewSource(3)))

	items := gen.Generate(cards, "Finnish")
	for _, item := range items {
		if len(item.Options) != models.OptionCount {
			t.Fatalf("options length = %d, want %d", len(item.Options), models.OptionCount)
		}
		empty := 0
		for _, option := range item.Options {
			if option == "" {
				empty++
			}
		}
		// One correct answer plus one distractor leaves two padding slots.
		if empty != 2 {
			t.Errorf("empty padding options = %d, want 2", empty)
		}
	}
}

func TestGenerateExcludesDuplicateTextDistractors(t *testing.T) {
	// Two cards share a target text; neither may serve as the other's
	// distractor.
	cards := []models.Card{
		{ID: 1, SourceText: "kissa", TargetText: "cat"},
		{ID: 2, SourceText: "katti", TargetText: "cat"},
		{ID: 3, SourceText: "koira", TargetText: "dog"},
	}
	gen := NewGenerator(rand.New(rand.NewSource(11)))

	items := gen.Generate(cards, "Finnish")
	for _, item := range items {
		if item.CardID != 1 && item.CardID != 2 {
			continue
		}
		count := 0
		for _, option := range item.Options {
			if option == "cat" {
				count++
			}
		}
		if count != 1 {
			t.Errorf("card %d has %d options equal to its correct answer, want exactly 1", item.CardID, count)
		}
	}
}

func TestGenerateReverseChoiceOrientation(t *testing.T) {
	cards := testCards(1,
		[2]string{"kissa", "cat"},
		[2]string{"koira", "dog"},
		[2]string{"lintu", "bird"},
		[2]string{"kala", "fish"},
	)
	gen := NewGenerator(rand.New(rand.NewSource(5)))

	for _, item := range gen.Generate(cards, "Finnish") {
		if item.QuestionType != models.QuestionReverseChoice {
			t.Fatalf("card at mastery 1 got type %v", item.QuestionType)
		}
		// Reverse choice shows the translation and asks for the source term.
		if item.Prompt == item.CorrectAnswer {
			t.Errorf("prompt %q equals correct answer", item.Prompt)
		}
	}
}

func TestGenerateScramble(t *testing.T) {
	cards := testCards(2, [2]string{"hevonen", "horse"})
	gen := NewGenerator(rand.New(rand.NewSource(9)))

	for i := 0; i < 50; i++ {
		items := gen.Generate(cards, "Finnish")
		item := items[0]
		if item.QuestionType != models.QuestionWordScramble {
			t.Fatalf("card at mastery 2 got type %v", item.QuestionType)
		}
		if item.Prompt == "hevonen" {
			t.Errorf("scrambled prompt equals the original word")
		}
		if item.CorrectAnswer != "hevonen" {
			t.Errorf("scramble correct answer = %q, want original word", item.CorrectAnswer)
		}
		if len(item.Prompt) != len("hevonen") {
			t.Errorf("scramble changed word length: %q", item.Prompt)
		}
	}
}

func TestScrambleRepeatedCharactersFallsBack(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)))

	// Every shuffle of "aa" equals the original, so the reversal fallback
	// also returns "aa"; the call must still terminate and keep the runes.
	if got := gen.scramble("aa"); got != "aa" {
		t.Errorf("scramble(%q) = %q", "aa", got)
	}
	if got := gen.scramble("x"); got != "x" {
		t.Errorf("scramble(%q) = %q, single characters pass through", "x", got)
	}
}

func TestGenerateListeningLocale(t *testing.T) {
	tests := []struct {
		name     string
		language string
		want     string
	}{
		{name: "supported language", language: "Korean", want: "ko-KR"},
		{name: "unknown language leaves locale unset", language: "Esperanto", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := testCards(4, [2]string{"kamsahamnida", "thank you"})
			// Walk seeds until the classifier picks listening for this card.
			for seed := int64(0); seed < 100; seed++ {
				gen := NewGenerator(rand.New(rand.NewSource(seed)))
				items := gen.Generate(cards, tt.language)
				if items[0].QuestionType != models.QuestionListening {
					continue
				}
				if items[0].AudioLocale != tt.want {
					t.Errorf("audio locale = %q, want %q", items[0].AudioLocale, tt.want)
				}
				return
			}
			t.Fatal("no seed produced a listening question")
		})
	}
}

func TestGenerateAvoidsAdjacentDuplicates(t *testing.T) {
	// Distinct prompts and answers, large enough set that naive shuffles
	// would regularly collide if duplicates existed.
	cards := testCards(3,
		[2]string{"yksi", "one"},
		[2]string{"kaksi", "two"},
		[2]string{"kolme", "three"},
		[2]string{"neljä", "four"},
		[2]string{"viisi", "five"},
		[2]string{"kuusi", "six"},
	)

	for seed := int64(0); seed < 20; seed++ {
		gen := NewGenerator(rand.New(rand.NewSource(seed)))
		items := gen.Generate(cards, "Finnish")
		if hasAdjacentDuplicates(items) {
			t.Errorf("seed %d: adjacent duplicate prompts or answers in generated sequence", seed)
		}
	}
}

func TestGenerateEmptyAndSingleCard(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(2)))

	if items := gen.Generate(nil, "Finnish"); len(items) != 0 {
		t.Errorf("Generate(nil) produced %d items", len(items))
	}

	items := gen.Generate(testCards(3, [2]string{"yksi", "one"}), "Finnish")
	if len(items) != 1 {
		t.Fatalf("Generate() produced %d items, want 1", len(items))
	}
}
