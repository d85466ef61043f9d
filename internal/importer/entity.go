package importer

import (
	"context"
	"strings"
	"time"

	"github.com/ffwagency/vacancy-importer/internal/htmltext"
	"github.com/ffwagency/vacancy-importer/internal/sources"
	"github.com/ffwagency/vacancy-importer/internal/types"
)

// newVacancy returns the defaults of an entity created for item.
func (e *Engine) newVacancy(item types.VacancyItem, now time.Time) *types.Vacancy {
	created := now
	if t, ok := sources.ParseVendorDate(item.CreateTime, e.location); ok {
		created = t.UTC()
	}
	return &types.Vacancy{
		Language:  e.entityLanguage(item),
		Published: true,
		CreatedAt: created,
	}
}

// entityLanguage is the item language, or the site language when the item
// has none.
func (e *Engine) entityLanguage(item types.VacancyItem) string {
	lang := strings.TrimSpace(item.LanguageCode)
	if lang == "" || lang == types.LanguageUndefined {
		return e.language
	}
	return lang
}

// applyItem copies item fields onto v. Title and body are always written on
// a new entity; every other field only overwrites when the item carries a
// non-empty value.
func (e *Engine) applyItem(ctx context.Context, v *types.Vacancy, item types.VacancyItem, creating bool, now time.Time) error {
	v.ChangedAt = now

	if title := strings.TrimSpace(htmltext.StripTags(item.Title())); title != "" || creating {
		v.Title = title
	}
	if body := htmltext.CleanBody(item.Body); body != "" || creating {
		v.Body = body
	}
	if item.Summary != "" {
		v.Summary = strings.TrimSpace(htmltext.StripTags(item.Summary))
	}
	if item.Facts != "" {
		v.Facts = htmltext.CleanBody(item.Facts)
	}
	if item.JobTitle != "" {
		v.JobTitle = strings.TrimSpace(htmltext.StripTags(item.JobTitle))
	}

	categories := []struct {
		vocabulary string
		value      string
		target     **int64
	}{
		{types.VocabularyWorkArea, item.CategoryWorkArea, &v.WorkAreaID},
		{types.VocabularyWorkTime, item.CategoryWorkTime, &v.WorkTimeID},
		{types.VocabularyDepartment, item.CategoryDepartment, &v.DepartmentID},
		{types.VocabularyEmploymentType, item.CategoryEmploymentType, &v.EmploymentTypeID},
	}
	for _, c := range categories {
		if c.value == "" {
			continue
		}
		id, err := e.termID(ctx, c.vocabulary, c.value, v.Language)
		if err != nil {
			return err
		}
		if id != nil {
			*c.target = id
		}
	}

	if item.AdvertisementURL != "" {
		v.AdvertisementURL = item.AdvertisementURL
	}
	if item.ApplicationURL != "" {
		v.ApplicationURL = item.ApplicationURL
	}
	if item.DueDate != "" {
		if due, ok := sources.ParseVendorDate(item.DueDate, e.location); ok {
			utc := due.UTC()
			v.DueDate = &utc
		} else {
			e.logger.Warnw("Ignoring unparseable due date", "guid", item.GUID, "due_date", item.DueDate)
		}
	}
	if item.DueDateText != "" {
		v.DueDateText = strings.TrimSpace(htmltext.StripTags(item.DueDateText))
	}
	if item.WorkPlace != "" {
		v.WorkPlace = strings.TrimSpace(htmltext.StripTags(item.WorkPlace))
	}
	return nil
}

// termID looks up the term named raw in vocabulary and creates it when
// absent. Names are compared exactly, so "Sales" and "sales" are two terms.
func (e *Engine) termID(ctx context.Context, vocabulary, raw, language string) (*int64, error) {
	name := strings.TrimSpace(htmltext.StripTags(raw))
	if name == "" {
		return nil, nil
	}

	term, err := e.store.FindTerm(ctx, vocabulary, name, language)
	if err != nil {
		return nil, &TermCreationError{Vocabulary: vocabulary, Name: name, Cause: err}
	}
	if term != nil {
		id := term.ID
		return &id, nil
	}

	id, err := e.store.CreateTerm(ctx, &types.Term{Vocabulary: vocabulary, Name: name, Language: language})
	if err != nil {
		return nil, &TermCreationError{Vocabulary: vocabulary, Name: name, Cause: err}
	}
	e.logger.Debugw("Created term", "vocabulary", vocabulary, "name", name, "term_id", id)
	return &id, nil
}
