package catalog

import "strings"

// SelectorKind tells whether a selector names a full locale or a bare
// language prefix.
type SelectorKind int

const (
	KindLanguage SelectorKind = iota
	KindLocale
)

func (k SelectorKind) String() string {
	if k == KindLocale {
		return "locale"
	}

	return "language"
}

// Selector is a user supplied language selection, classified once.
type Selector struct {
	Kind  SelectorKind
	Value string
}

// ParseSelector classifies raw: anything containing an underscore is a
// locale code, everything else a language prefix.
func ParseSelector(raw string) Selector {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "_") {
		return Selector{Kind: KindLocale, Value: raw}
	}

	return Selector{Kind: KindLanguage, Value: raw}
}

func (s Selector) String() string { return s.Value }

// Locales returns the locale codes covered by s, or nil when s is unknown.
func (s Selector) Locales() []string {
	switch s.Kind {
	case KindLocale:
		if _, ok := findLocale(s.Value); ok {
			return []string{s.Value}
		}

		return nil
	default:
		return Languages()[s.Value]
	}
}

// VoiceNames returns the voices available for s in catalog order. An empty
// result means the selector is unknown; every known locale has at least one
// voice.
func VoiceNames(s Selector) []string {
	var out []string
	for _, code := range s.Locales() {
		l, _ := findLocale(code)
		for _, v := range l.Voices {
			out = append(out, v.Name)
		}
	}

	return out
}

// Known reports whether s resolves to at least one locale.
func (s Selector) Known() bool {
	return len(s.Locales()) > 0
}
