package sources

import (
	"github.com/ffwagency/vacancy-importer/internal/htmltext"
)

// FallbackLocale is tried when the requested locale has no entry.
const FallbackLocale = "en-GB"

// Localized is one locale/value pair of a translated vendor field.
type Localized struct {
	Locale string `json:"locale"`
	Value  string `json:"value"`
}

// ResolveLocalized picks the value for locale: an exact locale match, then
// FallbackLocale, then the first entry, then "". The result is formatted
// as plain text.
func ResolveLocalized(entries []Localized, locale string) string {
	if locale != "" {
		for _, e := range entries {
			if e.Locale == locale {
				return htmltext.FormatPlainText(e.Value)
			}
		}
	}
	for _, e := range entries {
		if e.Locale == FallbackLocale {
			return htmltext.FormatPlainText(e.Value)
		}
	}
	if len(entries) > 0 {
		return htmltext.FormatPlainText(entries[0].Value)
	}
	return ""
}

// FirstLocalized returns the first entry's value, or "".
func FirstLocalized(entries []Localized) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Value
}
