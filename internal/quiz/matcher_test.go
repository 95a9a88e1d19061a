package quiz

import (
	"testing"

	"lingodeck/internal/models"
)

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips parenthetical",
			input:    "word (noun)",
			expected: "word",
		},
		{
			name:     "collapses whitespace and lowercases",
			input:    "  Hyvää   Huomenta ",
			expected: "hyvää huomenta",
		},
		{
			name:     "plain word unchanged",
			input:    "hello",
			expected: "hello",
		},
		{
			name:     "multiple parentheticals",
			input:    "run (verb) (informal)",
			expected: "run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAnswer(tt.input); got != tt.expected {
				t.Errorf("NormalizeAnswer(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name          string
		userInput     string
		correctAnswer string
		expected      models.MatchResult
	}{
		{
			name:          "exact after stripping annotation",
			userInput:     "hello",
			correctAnswer: "Hello (greeting)",
			expected:      models.MatchExact,
		},
		{
			name:          "primary part of multi-part answer is exact",
			userInput:     "abcdef",
			correctAnswer: "abcdef, xyz",
			expected:      models.MatchExact,
		},
		{
			name:          "alternative part is partial",
			userInput:     "xyz",
			correctAnswer: "abcdef, xyz",
			expected:      models.MatchPartial,
		},
		{
			name:          "no part matches",
			userInput:     "qqq",
			correctAnswer: "abcdef, xyz",
			expected:      models.MatchWrong,
		},
		{
			name:          "slash-separated alternative",
			userInput:     "talo",
			correctAnswer: "house/talo",
			expected:      models.MatchPartial,
		},
		{
			name:          "case and whitespace insensitive",
			userInput:     "  HELLO ",
			correctAnswer: "hello",
			expected:      models.MatchExact,
		},
		{
			name:          "single part after normalization is exact",
			userInput:     "word",
			correctAnswer: "word (noun),",
			expected:      models.MatchExact,
		},
		{
			name:          "empty input is wrong",
			userInput:     "",
			correctAnswer: "hello",
			expected:      models.MatchWrong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.userInput, tt.correctAnswer); got != tt.expected {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.userInput, tt.correctAnswer, got, tt.expected)
			}
		})
	}
}
