package internal

import (
	"strings"

	"golang.org/x/text/language"
)

const defaultLanguage = "es"

// consumerLanguage reduces a store locale ("es_ES", "en-GB") to its two-letter language.
func consumerLanguage(locale string) string {
	if locale == "" {
		return defaultLanguage
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return defaultLanguage
	}
	base, _ := tag.Base()
	return base.String()
}
