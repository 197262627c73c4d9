// Package lang validates transcription language hints.
package lang

import (
	"fmt"
	"strings"
)

// validLanguages contains ISO 639-1 language codes supported by OpenAI's transcription API.
// This is not exhaustive but covers the most common languages.
// OpenAI supports additional languages; users can request additions.
var validLanguages = map[string]bool{
	"af": true, // Afrikaans
	"ar": true, // Arabic
	"bg": true, // Bulgarian
	"bn": true, // Bengali
	"ca": true, // Catalan
	"cs": true, // Czech
	"da": true, // Danish
	"de": true, // German
	"el": true, // Greek
	"en": true, // English
	"es": true, // Spanish
	"et": true, // Estonian
	"fa": true, // Persian
	"fi": true, // Finnish
	"fr": true, // French
	"gu": true, // Gujarati
	"he": true, // Hebrew
	"hi": true, // Hindi
	"hr": true, // Croatian
	"hu": true, // Hungarian
	"id": true, // Indonesian
	"it": true, // Italian
	"ja": true, // Japanese
	"kn": true, // Kannada
	"ko": true, // Korean
	"lt": true, // Lithuanian
	"lv": true, // Latvian
	"mk": true, // Macedonian
	"ml": true, // Malayalam
	"mr": true, // Marathi
	"ms": true, // Malay
	"nl": true, // Dutch
	"no": true, // Norwegian
	"pa": true, // Punjabi
	"pl": true, // Polish
	"pt": true, // Portuguese
	"ro": true, // Romanian
	"ru": true, // Russian
	"sk": true, // Slovak
	"sl": true, // Slovenian
	"sr": true, // Serbian
	"sv": true, // Swedish
	"sw": true, // Swahili
	"ta": true, // Tamil
	"te": true, // Telugu
	"th": true, // Thai
	"tl": true, // Tagalog
	"tr": true, // Turkish
	"uk": true, // Ukrainian
	"ur": true, // Urdu
	"vi": true, // Vietnamese
	"zh": true, // Chinese
}

// Language is a validated transcription language hint, stored normalized
// (lowercase, hyphen separated). The zero value means auto-detect.
type Language struct {
	code string
}

// Parse validates s and returns the Language it names.
// Accepts ISO 639-1 codes ("en", "fr") and locales ("pt-BR", "zh_CN").
// An empty string yields the zero Language. Unknown base codes wrap ErrInvalid.
func Parse(s string) (Language, error) {
	if s == "" {
		return Language{}, nil
	}

	code := strings.ToLower(strings.ReplaceAll(s, "_", "-"))
	if !validLanguages[base(code)] {
		return Language{}, fmt.Errorf("invalid language code %q (use ISO 639-1 codes like 'en', 'fr', 'pt-BR'): %w",
			s, ErrInvalid)
	}
	return Language{code: code}, nil
}

// IsZero reports whether the language is unset (auto-detect).
func (l Language) IsZero() bool {
	return l.code == ""
}

// String returns the normalized code, e.g. "pt-br". Empty for auto-detect.
func (l Language) String() string {
	return l.code
}

// BaseCode returns the ISO 639-1 part of the code.
// OpenAI's transcription API only accepts base codes, not regional variants.
// Examples: "pt-br" -> "pt", "zh-cn" -> "zh", "en" -> "en"
func (l Language) BaseCode() string {
	return base(l.code)
}

// base strips any region suffix from a normalized code.
func base(code string) string {
	if idx := strings.Index(code, "-"); idx != -1 {
		return code[:idx]
	}
	return code
}
