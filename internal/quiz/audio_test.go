package quiz

import "testing"

func TestSuitableForAudio(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "plain word", text: "kiitos", want: true},
		{name: "phrase", text: "hyvää huomenta", want: true},
		{name: "parenthetical annotation", text: "run (verb)", want: false},
		{name: "pure number", text: "1234", want: false},
		{name: "decimal number", text: "3.14", want: false},
		{name: "contains hash symbol", text: "word #1", want: false},
		{name: "contains brackets", text: "word [noun]", want: false},
		{name: "single character", text: "a", want: false},
		{name: "whitespace only", text: "   ", want: false},
		{name: "empty string", text: "", want: false},
		{name: "word with digits mixed in", text: "catch-22 situation", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuitableForAudio(tt.text); got != tt.want {
				t.Errorf("SuitableForAudio(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAudioLocaleFor(t *testing.T) {
	tests := []struct {
		name     string
		language string
		want     string
	}{
		{name: "finnish", language: "Finnish", want: "fi-FI"},
		{name: "korean", language: "korean", want: "ko-KR"},
		{name: "greek", language: "Greek", want: "el-GR"},
		{name: "vietnamese", language: "Vietnamese", want: "vi-VN"},
		{name: "chinese", language: "Chinese", want: "zh-CN"},
		{name: "case and whitespace insensitive", language: "  FRENCH ", want: "fr-FR"},
		{name: "unknown language", language: "Klingon", want: ""},
		{name: "empty", language: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AudioLocaleFor(tt.language); got != tt.want {
				t.Errorf("AudioLocaleFor(%q) = %q, want %q", tt.language, got, tt.want)
			}
		})
	}
}
