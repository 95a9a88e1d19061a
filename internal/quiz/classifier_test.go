package quiz

import (
	"math/rand"
	"testing"

	"lingodeck/internal/models"
)

func TestClassifyLowerTiers(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name    string
		mastery float64
		want    models.QuestionType
	}{
		{name: "level 0", mastery: 0, want: models.QuestionMultipleChoice},
		{name: "level 0 fractional", mastery: 0.5, want: models.QuestionMultipleChoice},
		{name: "level 1", mastery: 1, want: models.QuestionReverseChoice},
		{name: "level 2", mastery: 2.9, want: models.QuestionWordScramble},
		{name: "level 3", mastery: 3, want: models.QuestionTypeAnswer},
		{name: "negative clamps to level 0", mastery: -1, want: models.QuestionMultipleChoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.mastery, "kiitos", rng); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.mastery, got, tt.want)
			}
		})
	}
}

func TestClassifyTopTierUnsuitableAudio(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// Text rejected by the audio filter must always classify as
	// reverse-type, never listening.
	for i := 0; i < 100; i++ {
		got := Classify(4.9, "42 (number)", rng)
		if got != models.QuestionReverseType {
			t.Fatalf("Classify(4.9, unsuitable text) = %v, want %v", got, models.QuestionReverseType)
		}
	}
}

func TestClassifyTopTierListeningSplit(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	listening := 0
	reverse := 0
	for i := 0; i < 1000; i++ {
		switch Classify(4, "kiitos", rng) {
		case models.QuestionListening:
			listening++
		case models.QuestionReverseType:
			reverse++
		default:
			t.Fatal("top tier produced a question type outside reverse-type/listening")
		}
	}

	// 50/50 split; allow a generous margin for the seeded source.
	if listening < 400 || listening > 600 {
		t.Errorf("listening chosen %d times out of 1000, expected roughly half (reverse=%d)", listening, reverse)
	}
}

func TestClassifyMasteryAboveTopTier(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	got := Classify(5, "1 2", rng)
	if got != models.QuestionReverseType && got != models.QuestionListening {
		t.Errorf("Classify(5) = %v, want a top-tier question type", got)
	}
}
