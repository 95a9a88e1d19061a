package quiz

import (
	"strings"
	"unicode"
)

// disallowedAudioSymbols are characters that make text-to-speech output
// useless or misleading for a listening question.
const disallowedAudioSymbols = "#@$%^&*+={}[]|\\<>"

// SuitableForAudio reports whether a card's text can be used for a
// listening question. Parenthetical annotations, pure numbers, symbol-laden
// text and single characters are rejected.
func SuitableForAudio(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) <= 1 {
		return false
	}
	if strings.ContainsAny(trimmed, "()") {
		return false
	}
	if strings.ContainsAny(trimmed, disallowedAudioSymbols) {
		return false
	}

	allNumeric := true
	for _, r := range trimmed {
		if !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '.' && r != ',' && r != '-' {
			allNumeric = false
			break
		}
	}
	return !allNumeric
}

// audioLocales maps a deck's language name to a speech-synthesis locale.
// Covers the supported learning languages plus the common set; unknown
// languages resolve to "" and the UI falls back to its default voice.
var audioLocales = map[string]string{
	"finnish":    "fi-FI",
	"korean":     "ko-KR",
	"greek":      "el-GR",
	"vietnamese": "vi-VN",
	"chinese":    "zh-CN",
	"english":    "en-US",
	"spanish":    "es-ES",
	"french":     "fr-FR",
	"german":     "de-DE",
	"italian":    "it-IT",
	"portuguese": "pt-PT",
	"dutch":      "nl-NL",
	"swedish":    "sv-SE",
	"norwegian":  "nb-NO",
	"danish":     "da-DK",
	"polish":     "pl-PL",
	"czech":      "cs-CZ",
	"hungarian":  "hu-HU",
	"romanian":   "ro-RO",
	"russian":    "ru-RU",
	"ukrainian":  "uk-UA",
	"turkish":    "tr-TR",
	"arabic":     "ar-SA",
	"hebrew":     "he-IL",
	"hindi":      "hi-IN",
	"japanese":   "ja-JP",
	"thai":       "th-TH",
	"indonesian": "id-ID",
}

// AudioLocaleFor resolves a language name (case-insensitive) to a locale
// code, or "" when the language is not in the table.
func AudioLocaleFor(language string) string {
	return audioLocales[strings.ToLower(strings.TrimSpace(language))]
}
