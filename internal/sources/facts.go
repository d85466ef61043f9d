package sources

import (
	"strings"

	"github.com/ffwagency/vacancy-importer/internal/htmltext"
)

// JobIDLabel is the title of the synthesized job id fact.
const JobIDLabel = "Job ID"

// Fact is a structured metadata entry of a vendor posting. A fact holds
// either a single localized value or a list of sub-items, each with a
// localized title.
type Fact struct {
	ID    string
	Title []Localized
	Value []Localized
	Items [][]Localized
}

// IsList reports whether the fact value is a list of sub-items.
func (f Fact) IsList() bool {
	return len(f.Items) > 0
}

// MatchFact compares a configured fact id with a vendor fact id, ignoring
// surrounding whitespace and case. An empty configured id matches nothing.
func MatchFact(configuredID, factID string) bool {
	configuredID = strings.TrimSpace(configuredID)
	if configuredID == "" {
		return false
	}
	return strings.EqualFold(configuredID, strings.TrimSpace(factID))
}

// ResolveFactValue resolves a fact value for locale. List values resolve to
// the comma-joined non-empty sub-item titles.
func ResolveFactValue(f Fact, locale string) string {
	if !f.IsList() {
		return ResolveLocalized(f.Value, locale)
	}
	values := make([]string, 0, len(f.Items))
	for _, item := range f.Items {
		if v := ResolveLocalized(item, locale); v != "" {
			values = append(values, v)
		}
	}
	return strings.Join(values, ", ")
}

// ExtractCategory returns the resolved value of the first fact whose id
// matches configuredID, or "".
func ExtractCategory(facts []Fact, configuredID, locale string) string {
	for _, f := range facts {
		if MatchFact(configuredID, f.ID) {
			return ResolveFactValue(f, locale)
		}
	}
	return ""
}

// RenderFacts renders every fact with a title and a value as an
// <h3>title</h3><p>value</p> pair. When jobID is non-empty a Job ID fact is
// appended.
func RenderFacts(facts []Fact, locale, jobID string) string {
	var sb strings.Builder
	for _, f := range facts {
		title := ResolveLocalized(f.Title, locale)
		value := ResolveFactValue(f, locale)
		if title == "" || value == "" {
			continue
		}
		writeFact(&sb, title, value)
	}
	if jobID != "" {
		writeFact(&sb, JobIDLabel, jobID)
	}
	return sb.String()
}

func writeFact(sb *strings.Builder, title, value string) {
	sb.WriteString("<h3>")
	sb.WriteString(htmltext.EscapeHTML(title))
	sb.WriteString("</h3><p>")
	sb.WriteString(htmltext.EscapeHTML(value))
	sb.WriteString("</p>")
}
