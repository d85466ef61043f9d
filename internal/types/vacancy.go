// Package types defines the canonical vacancy data model shared by source
// adapters, the import engine and the content stores.
package types

import (
	"errors"
	"strings"
	"time"
)

// LanguageUndefined is the language code used when a record carries no
// detectable language.
const LanguageUndefined = "und"

// DateLayout is the layout every adapter normalizes vendor dates into.
const DateLayout = "2006-01-02 15:04:05"

// VacancyItem is the vendor-independent record produced by a source adapter.
// Empty strings mean "not provided".
type VacancyItem struct {
	GUID                   string `json:"guid"`
	LanguageCode           string `json:"language_code"`
	CreateTime             string `json:"create_time,omitempty"`
	AdvertisementTitle     string `json:"advertisement_title,omitempty"`
	JobTitle               string `json:"job_title,omitempty"`
	Body                   string `json:"body,omitempty"`
	Summary                string `json:"summary,omitempty"`
	Facts                  string `json:"facts,omitempty"`
	CategoryWorkArea       string `json:"category_work_area,omitempty"`
	CategoryWorkTime       string `json:"category_work_time,omitempty"`
	CategoryEmploymentType string `json:"category_employment_type,omitempty"`
	CategoryDepartment     string `json:"category_department,omitempty"`
	WorkPlace              string `json:"work_place,omitempty"`
	AdvertisementURL       string `json:"advertisement_url,omitempty"`
	ApplicationURL         string `json:"application_url,omitempty"`
	DueDate                string `json:"due_date,omitempty"`
	DueDateText            string `json:"due_date_text,omitempty"`
}

// Title returns the advertisement title, falling back to the job title.
func (v VacancyItem) Title() string {
	if strings.TrimSpace(v.AdvertisementTitle) != "" {
		return v.AdvertisementTitle
	}
	return v.JobTitle
}

// Validate checks the fields every item must carry.
func (v VacancyItem) Validate() error {
	if strings.TrimSpace(v.GUID) == "" {
		return errors.New("vacancy item has no guid")
	}
	if strings.TrimSpace(v.LanguageCode) == "" {
		return errors.New("vacancy item has no language code")
	}
	return nil
}

// Vacancy is the persisted content entity.
type Vacancy struct {
	ID               int64      `json:"id"`
	Language         string     `json:"language"`
	Title            string     `json:"title"`
	JobTitle         string     `json:"job_title,omitempty"`
	Body             string     `json:"body,omitempty"`
	Summary          string     `json:"summary,omitempty"`
	Facts            string     `json:"facts,omitempty"`
	WorkAreaID       *int64     `json:"work_area_id,omitempty"`
	WorkTimeID       *int64     `json:"work_time_id,omitempty"`
	EmploymentTypeID *int64     `json:"employment_type_id,omitempty"`
	DepartmentID     *int64     `json:"department_id,omitempty"`
	AdvertisementURL string     `json:"advertisement_url,omitempty"`
	ApplicationURL   string     `json:"application_url,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	DueDateText      string     `json:"due_date_text,omitempty"`
	WorkPlace        string     `json:"work_place,omitempty"`
	Published        bool       `json:"published"`
	CreatedAt        time.Time  `json:"created_at"`
	ChangedAt        time.Time  `json:"changed_at"`
}

// Vocabularies for the four category references of a vacancy.
const (
	VocabularyDepartment     = "vacancy_importer_department"
	VocabularyEmploymentType = "vacancy_importer_employment_type"
	VocabularyWorkArea       = "vacancy_importer_work_area"
	VocabularyWorkTime       = "vacancy_importer_work_time"
)

// Term is a named taxonomy entry in one vocabulary.
type Term struct {
	ID         int64  `json:"id"`
	Vocabulary string `json:"vocabulary"`
	Name       string `json:"name"`
	Language   string `json:"language"`
}

// SourceItem links a vendor GUID to the entity it was imported into.
type SourceItem struct {
	EntityID   int64     `json:"entity_id"`
	PluginID   string    `json:"plugin_id"`
	GUID       string    `json:"guid"`
	ImportedAt time.Time `json:"imported_at"`
}

// VacancyFilter selects vacancies for lifecycle sweeps.
type VacancyFilter struct {
	Published     *bool
	DueDateBefore *time.Time
}
