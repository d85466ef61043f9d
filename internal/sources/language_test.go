package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ffwagency/vacancy-importer/internal/types"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name   string
		attr   string
		titles []Localized
		want   string
	}{
		{"explicit attribute", "da-DK", nil, "da"},
		{"attribute is lowercased", "EN", nil, "en"},
		{"attribute wins over title", "sv", []Localized{{Locale: "da-DK"}}, "sv"},
		{"title locale", "", []Localized{{Locale: "da-DK", Value: "x"}, {Locale: "en-GB"}}, "da"},
		{"title locale without region", "", []Localized{{Locale: "sv"}}, "sv"},
		{"one letter attribute ignored", "d", []Localized{{Locale: "en-GB"}}, "en"},
		{"undefined", "", nil, types.LanguageUndefined},
		{"empty title locale", "", []Localized{{Value: "x"}}, types.LanguageUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.attr, tt.titles))
		})
	}
}
