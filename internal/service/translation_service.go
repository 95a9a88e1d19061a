package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"lingodeck/internal/models"
)

// ErrTranslationDisabled is returned when no OpenAI key is configured.
var ErrTranslationDisabled = errors.New("translation service not configured")

// TranslationService turns a sentence in the studied language into an
// English translation plus vocabulary cards ready to add to a deck.
type TranslationService struct {
	client *openai.Client
	model  string
}

// NewTranslationService creates a new translation service. An empty API
// key yields a disabled service.
func NewTranslationService(apiKey, model string) *TranslationService {
	if apiKey == "" {
		return &TranslationService{}
	}
	return &TranslationService{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// IsEnabled returns whether translation is configured
func (s *TranslationService) IsEnabled() bool {
	return s.client != nil
}

// TranslationResult is the model's structured answer
type TranslationResult struct {
	Translation string           `json:"translation"`
	Vocabulary  []VocabularyItem `json:"vocabulary"`
}

// VocabularyItem is one extracted word pair
type VocabularyItem struct {
	SourceText string `json:"sourceText"`
	TargetText string `json:"targetText"`
}

const translationPrompt = `You are a vocabulary assistant for a language learner.
Translate the sentence below from %s into English, then list the individual
vocabulary words it contains. For each word give its dictionary form in %s
and its English meaning. Respond with JSON only, in this shape:
{"translation": "...", "vocabulary": [{"sourceText": "...", "targetText": "..."}]}

Sentence: %s`

// Translate translates a sentence and extracts its vocabulary
func (s *TranslationService) Translate(ctx context.Context, sentence, language string) (*TranslationResult, error) {
	if !s.IsEnabled() {
		return nil, ErrTranslationDisabled
	}
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return nil, fmt.Errorf("sentence is required")
	}
	if language == "" {
		language = "the source language"
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(translationPrompt, language, language, sentence),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("translation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("translation returned no choices")
	}

	var result TranslationResult
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		return nil, fmt.Errorf("failed to decode translation response: %w", err)
	}
	return &result, nil
}

// VocabularyCards converts extracted vocabulary into cards for bulk insert
func (r *TranslationResult) VocabularyCards() []models.Card {
	cards := make([]models.Card, 0, len(r.Vocabulary))
	for _, v := range r.Vocabulary {
		source := strings.TrimSpace(v.SourceText)
		target := strings.TrimSpace(v.TargetText)
		if source == "" || target == "" {
			continue
		}
		cards = append(cards, models.Card{SourceText: source, TargetText: target})
	}
	return cards
}
