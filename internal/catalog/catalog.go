// Package catalog holds the static table of NabuCasa voice datasets and the
// lookups derived from it.
//
// The table is declared as an ordered slice rather than a map so that every
// derived view (languages, voices per language) follows declaration order.
package catalog

import "strings"

const (
	// Source is the upstream project that publishes the archives.
	Source = "https://github.com/NabuCasa/voice-datasets"
	// License applies to every archive in the catalog.
	License = "CC0 (public domain)"

	releaseBase = "https://github.com/NabuCasa/voice-datasets/releases/download/v1.0.0/"
)

// Voice is a single dataset entry.
type Voice struct {
	Name string
	URL  string
}

// Locale groups the voices published for one locale code such as "en_US".
type Locale struct {
	Code   string
	Voices []Voice
}

// Language returns the language prefix of the locale ("en" for "en_US").
func (l Locale) Language() string {
	return LanguageOf(l.Code)
}

func voice(locale, name, file string) Voice {
	return Voice{Name: name, URL: releaseBase + locale + "-" + file + ".zip"}
}

var locales = []Locale{
	{Code: "bg_BG", Voices: []Voice{voice("bg_BG", "dimitar", "dimitar")}},
	{Code: "de_DE", Voices: []Voice{voice("de_DE", "kerstin", "kerstin")}},
	{Code: "en_US", Voices: []Voice{
		voice("en_US", "joe", "joe"),
		voice("en_US", "kathleen", "kathleen"),
	}},
	{Code: "es_ES", Voices: []Voice{voice("es_ES", "dave", "dave")}},
	{Code: "hu_HU", Voices: []Voice{
		voice("hu_HU", "anna", "anna"),
		voice("hu_HU", "berta", "berta"),
		voice("hu_HU", "imre", "imre"),
	}},
	{Code: "it_IT", Voices: []Voice{voice("it_IT", "paola", "paola")}},
	{Code: "nl_BE", Voices: []Voice{
		voice("nl_BE", "flemishguy", "flemishguy"),
		voice("nl_BE", "nathalie", "nathalie"),
	}},
	{Code: "pl_PL", Voices: []Voice{
		voice("pl_PL", "darkman", "darkman"),
		voice("pl_PL", "gosia", "gosia"),
	}},
	{Code: "pt_BR", Voices: []Voice{voice("pt_BR", "faber", "faber")}},
	{Code: "pt_PT", Voices: []Voice{voice("pt_PT", "tugão", "tugao")}},
	{Code: "ro_RO", Voices: []Voice{voice("ro_RO", "mihai", "mihai")}},
	{Code: "ru_RU", Voices: []Voice{
		voice("ru_RU", "denis", "denis"),
		voice("ru_RU", "dmitri", "dmitri"),
	}},
	{Code: "sk_SK", Voices: []Voice{voice("sk_SK", "lili", "lili")}},
}

// asciiAliases maps ASCII spellings to the catalog voice they stand for.
var asciiAliases = map[string]string{
	"tugao": "tugão",
}

// Locales returns a copy of the catalog in declaration order.
func Locales() []Locale {
	out := make([]Locale, len(locales))
	for i, l := range locales {
		out[i] = Locale{Code: l.Code, Voices: append([]Voice(nil), l.Voices...)}
	}

	return out
}

// LanguageOf returns the text before the first underscore of code.
func LanguageOf(code string) string {
	lang, _, _ := strings.Cut(code, "_")
	return lang
}

// Languages groups locale codes by language prefix.
func Languages() map[string][]string {
	out := make(map[string][]string)
	for _, l := range locales {
		lang := l.Language()
		out[lang] = append(out[lang], l.Code)
	}

	return out
}

// LanguageOrder returns the language prefixes in declaration order without
// duplicates.
func LanguageOrder() []string {
	seen := make(map[string]bool)

	var out []string
	for _, l := range locales {
		lang := l.Language()
		if seen[lang] {
			continue
		}
		seen[lang] = true
		out = append(out, lang)
	}

	return out
}

// PerVoice flattens the catalog to voice name -> URL, including ASCII
// aliases.
func PerVoice() map[string]string {
	out := make(map[string]string)
	for _, l := range locales {
		for _, v := range l.Voices {
			out[v.Name] = v.URL
		}
	}
	for alias, name := range asciiAliases {
		out[alias] = out[name]
	}

	return out
}

// URL returns the archive URL for a voice name or alias.
func URL(voice string) (string, bool) {
	u, ok := PerVoice()[voice]
	return u, ok
}

func findLocale(code string) (Locale, bool) {
	for _, l := range locales {
		if l.Code == code {
			return l, true
		}
	}

	return Locale{}, false
}
