package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLocalized_FallbackOrder(t *testing.T) {
	daAndEN := []Localized{{Locale: "da", Value: "A"}, {Locale: "en-GB", Value: "B"}}

	tests := []struct {
		name    string
		entries []Localized
		locale  string
		want    string
	}{
		{"exact match", daAndEN, "da", "A"},
		{"falls back to en-GB", daAndEN, "de", "B"},
		{"falls back to first entry", []Localized{{Locale: "fr", Value: "C"}}, "de", "C"},
		{"first entry when en-GB missing", []Localized{{Locale: "fr", Value: "C"}, {Locale: "sv", Value: "D"}}, "da", "C"},
		{"en-GB wins over first", []Localized{{Locale: "fr", Value: "C"}, {Locale: "en-GB", Value: "B"}}, "de", "B"},
		{"empty requested locale", daAndEN, "", "B"},
		{"empty array", nil, "de", ""},
		{"value is formatted", []Localized{{Locale: "da", Value: `  "Quoted" it's `}}, "da", "Quoted its"},
		{"locale match is exact", []Localized{{Locale: "da-DK", Value: "X"}, {Locale: "en-GB", Value: "Y"}}, "da", "Y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLocalized(tt.entries, tt.locale))
		})
	}
}

func TestFirstLocalized(t *testing.T) {
	assert.Equal(t, "", FirstLocalized(nil))
	assert.Equal(t, " raw ", FirstLocalized([]Localized{{Locale: "fr", Value: " raw "}, {Locale: "da", Value: "x"}}))
}
