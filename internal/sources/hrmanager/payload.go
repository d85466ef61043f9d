package hrmanager

import (
	"encoding/xml"
	"strings"
)

// positionList is the root document of the positionlist/xml endpoint. The
// root element name varies between API versions, so only children are
// matched.
type positionList struct {
	XMLName           xml.Name
	TransactionStatus *transactionStatus `xml:"TransactionStatus"`
	Items             struct {
		Positions []position `xml:"JobPortalPosition"`
	} `xml:"Items"`
}

type transactionStatus struct {
	StatusCode string `xml:"StatusCode"`
	Message    string `xml:"Message"`
}

func (t *transactionStatus) failed() bool {
	return t != nil && strings.EqualFold(strings.TrimSpace(t.StatusCode), "Error")
}

type named struct {
	Name string `xml:"Name"`
}

// position is one JobPortalPosition record.
type position struct {
	ID               string `xml:"Id"`
	Name             string `xml:"Name"`
	LastUpdated      string `xml:"LastUpdated"`
	PositionCategory named  `xml:"PositionCategory"`
	WorkHours        string `xml:"WorkHours"`
	PositionType     string `xml:"PositionType"`
	Department       named  `xml:"Department"`
	Advertisements   struct {
		Advertisement []struct {
			Content string `xml:"Content"`
		} `xml:"JobPortalAdvertisement"`
	} `xml:"Advertisements"`
	WorkPlace                string `xml:"WorkPlace"`
	AdvertisementURLSecure   string `xml:"AdvertisementUrlSecure"`
	ApplicationFormURLSecure string `xml:"ApplicationFormUrlSecure"`
	ApplicationDue           string `xml:"ApplicationDue"`
	Languages                struct {
		Language []struct {
			Code string `xml:"Code"`
		} `xml:"JobPortalLanguage"`
	} `xml:"Languages"`
}

func (p position) content() string {
	if len(p.Advertisements.Advertisement) == 0 {
		return ""
	}
	return p.Advertisements.Advertisement[0].Content
}

func (p position) languageCode() string {
	if len(p.Languages.Language) == 0 {
		return ""
	}
	return p.Languages.Language[0].Code
}
