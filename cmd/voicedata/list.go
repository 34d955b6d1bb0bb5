package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/example/go-voicedata/internal/catalog"
)

// printLanguages lists the language prefixes and, for prefixes spanning more
// than one locale, the locales behind them.
func printLanguages(w io.Writer) {
	order := catalog.LanguageOrder()
	langs := catalog.Languages()

	_, _ = fmt.Fprintln(w, "The following languages are available:")
	_, _ = fmt.Fprintln(w, strings.Join(order, ", "))

	for _, lang := range order {
		if locales := langs[lang]; len(locales) > 1 {
			_, _ = fmt.Fprintf(w, "%s has the sublanguages %s\n", lang, strings.Join(locales, ", "))
		}
	}
}

// listVoices prints the voices for selector. An unknown selector prints the
// language listing and returns an exit status of 1.
func listVoices(w io.Writer, selector string) error {
	names := catalog.VoiceNames(catalog.ParseSelector(selector))
	if len(names) == 0 {
		_, _ = fmt.Fprintf(w, "Language %s not available\n", selector)
		printLanguages(w)

		return exitCode(1)
	}

	_, _ = fmt.Fprintln(w, strings.Join(names, ", "))

	return nil
}
