package quiz

import (
	"regexp"
	"strings"

	"lingodeck/internal/models"
)

var (
	parentheticalRegex = regexp.MustCompile(`\([^)]*\)`)
	whitespaceRegex    = regexp.MustCompile(`\s+`)
	answerPartRegex    = regexp.MustCompile(`[,/]`)
)

// NormalizeAnswer prepares a string for comparison: parenthetical segments
// are stripped ("word (noun)" becomes "word"), whitespace is collapsed and
// the result is lowercased and trimmed.
func NormalizeAnswer(s string) string {
	s = parentheticalRegex.ReplaceAllString(s, "")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// Match compares a free-text answer against the expected answer.
//
// An input equal to the full normalized answer is exact. Otherwise the
// correct answer is split on commas and slashes into acceptable parts; the
// first part is the primary answer and matching it is exact, while matching
// one of the alternatives earns partial credit.
func Match(userInput, correctAnswer string) models.MatchResult {
	input := NormalizeAnswer(userInput)
	expected := NormalizeAnswer(correctAnswer)

	if input == expected {
		return models.MatchExact
	}

	var parts []string
	for _, p := range answerPartRegex.Split(correctAnswer, -1) {
		if normalized := NormalizeAnswer(p); normalized != "" {
			parts = append(parts, normalized)
		}
	}

	for i, part := range parts {
		if input != part {
			continue
		}
		if i == 0 || len(parts) == 1 {
			return models.MatchExact
		}
		return models.MatchPartial
	}

	return models.MatchWrong
}
