package emply

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ffwagency/vacancy-importer/internal/sources"
)

// flexString decodes a JSON string, number, boolean or null into a string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case 't', 'f':
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return err
		}
		*f = flexString(strconv.FormatBool(b))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*f = flexString(n.String())
	}
	return nil
}

type localization struct {
	Locale string     `json:"locale"`
	Value  flexString `json:"value"`
}

type localizedField struct {
	Localization []localization `json:"localization"`
}

func (l *localizedField) entries() []sources.Localized {
	if l == nil {
		return nil
	}
	out := make([]sources.Localized, 0, len(l.Localization))
	for _, e := range l.Localization {
		out = append(out, sources.Localized{Locale: e.Locale, Value: string(e.Value)})
	}
	return out
}

type titled struct {
	Title localizedField `json:"title"`
}

type advertisement struct {
	Title   localizedField `json:"title"`
	Content localizedField `json:"content"`
}

type adAttributes struct {
	Attributes struct {
		Language string `json:"language"`
	} `json:"attributes"`
}

// datum is one entry of a posting's data list. The vendor's valueType is
// not decoded; the shape of value decides how it is read.
type datum struct {
	JobDetailsID flexString      `json:"jobDetailsId"`
	Title        localizedField  `json:"title"`
	Value        json.RawMessage `json:"value"`
}

// fact converts the datum into a sources.Fact. Value is either a localized
// field or a list of items with localized titles.
func (d datum) fact() sources.Fact {
	f := sources.Fact{
		ID:    string(d.JobDetailsID),
		Title: d.Title.entries(),
	}

	raw := bytes.TrimSpace(d.Value)
	if len(raw) == 0 {
		return f
	}
	switch raw[0] {
	case '{':
		var v localizedField
		if err := json.Unmarshal(raw, &v); err == nil {
			f.Value = v.entries()
		}
	case '[':
		var items []titled
		if err := json.Unmarshal(raw, &items); err == nil {
			for _, item := range items {
				f.Items = append(f.Items, item.Title.entries())
			}
		}
	}
	return f
}

// posting is one record of the Emply postings listing.
type posting struct {
	JobID          flexString      `json:"jobId"`
	Ad             *adAttributes   `json:"ad"`
	Created        flexString      `json:"created"`
	Advertisements []advertisement `json:"advertisements"`
	Title          localizedField  `json:"title"`
	Department     *titled         `json:"department"`
	Data           []datum         `json:"data"`
	ApplyURL       localizedField  `json:"applyUrl"`
	AdURL          localizedField  `json:"adUrl"`
	Deadline       flexString      `json:"deadline"`
	DeadlineText   localizedField  `json:"deadlineText"`
}

func (p posting) languageAttribute() string {
	if p.Ad == nil {
		return ""
	}
	return p.Ad.Attributes.Language
}

func (p posting) facts() []sources.Fact {
	out := make([]sources.Fact, 0, len(p.Data))
	for _, d := range p.Data {
		out = append(out, d.fact())
	}
	return out
}
