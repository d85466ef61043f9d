package sources

import (
	"strings"
	"time"

	"github.com/ffwagency/vacancy-importer/internal/types"
)

// zonedLayouts carry their own offset; the parsed instant is converted to
// the site time zone.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	time.RFC1123Z,
	time.RFC1123,
}

// localLayouts have no offset and are read as site local time.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	types.DateLayout,
	"2006-01-02 15:04",
	"2006-01-02",
	"02-01-2006 15:04:05",
	"02-01-2006",
}

// ParseVendorDate parses a vendor date string in any supported layout.
func ParseVendorDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(loc), true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate re-emits a vendor date as types.DateLayout in loc. Dates
// that cannot be parsed yield "".
func NormalizeDate(raw string, loc *time.Location) string {
	t, ok := ParseVendorDate(raw, loc)
	if !ok {
		return ""
	}
	return t.Format(types.DateLayout)
}
