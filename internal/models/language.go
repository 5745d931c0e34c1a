package models

import "strings"

type Language string

const (
	LangEnglish  Language = "en"
	LangHindi    Language = "hi"
	LangBengali  Language = "bn"
	LangAssamese Language = "as"
	LangTamil    Language = "ta"

	DefaultLanguage = LangEnglish
)

// SupportedLanguages is ordered the way the language menu renders it.
var SupportedLanguages = []Language{LangEnglish, LangHindi, LangBengali, LangAssamese, LangTamil}

var languageNames = map[Language]struct{ native, english string }{
	LangEnglish:  {"English", "English"},
	LangHindi:    {"हिन्दी", "Hindi"},
	LangBengali:  {"বাংলা", "Bengali"},
	LangAssamese: {"অসমীয়া", "Assamese"},
	LangTamil:    {"தமிழ்", "Tamil"},
}

func ParseLanguage(code string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(code)))
	_, ok := languageNames[l]
	return l, ok
}

// NormalizeLanguage maps anything unsupported to the default.
func NormalizeLanguage(code string) Language {
	if l, ok := ParseLanguage(code); ok {
		return l
	}
	return DefaultLanguage
}

// NativeName is the label shown on the language menu.
func (l Language) NativeName() string {
	if n, ok := languageNames[l]; ok {
		return n.native
	}
	return languageNames[DefaultLanguage].native
}

// EnglishName is used when instructing the model which language to write in.
func (l Language) EnglishName() string {
	if n, ok := languageNames[l]; ok {
		return n.english
	}
	return languageNames[DefaultLanguage].english
}
