package translator

import (
	"regexp"
	"strings"
)

// Language is one entry of the fixed target-language catalog.
type Language struct {
	Code       string
	Name       string
	NativeName string
}

// SupportedLanguages is the catalog shown to users. Codes are the only
// accepted target-language input.
var SupportedLanguages = []Language{
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "es", Name: "Spanish", NativeName: "Español"},
	{Code: "fr", Name: "French", NativeName: "Français"},
	{Code: "de", Name: "German", NativeName: "Deutsch"},
	{Code: "it", Name: "Italian", NativeName: "Italiano"},
	{Code: "pt", Name: "Portuguese", NativeName: "Português"},
	{Code: "ru", Name: "Russian", NativeName: "Русский"},
	{Code: "ja", Name: "Japanese", NativeName: "日本語"},
	{Code: "ko", Name: "Korean", NativeName: "한국어"},
	{Code: "zh", Name: "Chinese", NativeName: "中文"},
	{Code: "ar", Name: "Arabic", NativeName: "العربية"},
	{Code: "hi", Name: "Hindi", NativeName: "हिन्दी"},
	{Code: "tr", Name: "Turkish", NativeName: "Türkçe"},
	{Code: "nl", Name: "Dutch", NativeName: "Nederlands"},
	{Code: "pl", Name: "Polish", NativeName: "Polski"},
	{Code: "vi", Name: "Vietnamese", NativeName: "Tiếng Việt"},
	{Code: "th", Name: "Thai", NativeName: "ภาษาไทย"},
	{Code: "id", Name: "Indonesian", NativeName: "Bahasa Indonesia"},
	{Code: "ms", Name: "Malay", NativeName: "Bahasa Melayu"},
	{Code: "sv", Name: "Swedish", NativeName: "Svenska"},
}

// LanguageByCode looks a catalog entry up by its code.
func LanguageByCode(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// LanguageName returns the display name for a code, or the code itself when
// it is not in the catalog.
func LanguageName(code string) string {
	if l, ok := LanguageByCode(code); ok {
		return l.Name
	}
	return code
}

type detectionRule struct {
	code    string
	pattern *regexp.Regexp
}

// Character-class heuristics, checked in order. Japanese comes before
// Chinese because its pattern also covers the shared CJK range.
var detectionRules = []detectionRule{
	{"es", regexp.MustCompile(`(?i)[áéíóúñ¿¡]`)},
	{"fr", regexp.MustCompile(`(?i)[àâäéèêëïîôùûüÿç]`)},
	{"de", regexp.MustCompile(`(?i)[äöüß]`)},
	{"ru", regexp.MustCompile(`(?i)[а-яё]`)},
	{"ja", regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]`)},
	{"ko", regexp.MustCompile(`[\x{AC00}-\x{D7AF}\x{1100}-\x{11FF}]`)},
	{"zh", regexp.MustCompile(`[\x{4E00}-\x{9FFF}]`)},
	{"ar", regexp.MustCompile(`[\x{0600}-\x{06FF}]`)},
	{"hi", regexp.MustCompile(`[\x{0900}-\x{097F}]`)},
	{"th", regexp.MustCompile(`[\x{0E00}-\x{0E7F}]`)},
}

// DetectLanguage guesses the source language from character classes.
// Defaults to English when nothing matches.
func DetectLanguage(text string) string {
	for _, rule := range detectionRules {
		if rule.pattern.MatchString(text) {
			return rule.code
		}
	}
	return "en"
}
