package sources

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/ffwagency/vacancy-importer/internal/types"
)

// LanguageFromAttribute reduces an explicit language attribute such as
// "da-DK" or "DA" to its lowercased two-letter prefix.
func LanguageFromAttribute(attr string) string {
	attr = strings.TrimSpace(attr)
	if len(attr) < 2 {
		return ""
	}
	return strings.ToLower(attr[:2])
}

// LanguageFromLocale returns the base language of a locale tag, or "".
func LanguageFromLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return LanguageFromAttribute(locale)
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	return base.String()
}

// DetectLanguage returns the record language: the explicit attribute when
// present, else the locale of the first localized title entry, else
// types.LanguageUndefined.
func DetectLanguage(attr string, titles []Localized) string {
	if lang := LanguageFromAttribute(attr); lang != "" {
		return lang
	}
	if len(titles) > 0 {
		if lang := LanguageFromLocale(titles[0].Locale); lang != "" {
			return lang
		}
	}
	return types.LanguageUndefined
}
