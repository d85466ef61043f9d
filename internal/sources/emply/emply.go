// Package emply implements the vacancy source for the Emply postings API.
package emply

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ffwagency/vacancy-importer/internal/config"
	"github.com/ffwagency/vacancy-importer/internal/fetch"
	"github.com/ffwagency/vacancy-importer/internal/htmltext"
	"github.com/ffwagency/vacancy-importer/internal/logger"
	"github.com/ffwagency/vacancy-importer/internal/sources"
	"github.com/ffwagency/vacancy-importer/internal/types"
)

// ID is the registry id of the Emply source.
const ID = "emply"

// Definition returns the registry entry for the Emply source.
func Definition() sources.Definition {
	return sources.Definition{
		ID:          ID,
		Label:       "Emply",
		Description: "Imports vacancies from the Emply postings API (JSON).",
		Factory: func(cfg *config.Config, opts sources.Options) (sources.Source, error) {
			return New(cfg, opts), nil
		},
	}
}

// Source fetches and maps Emply postings.
type Source struct {
	settings config.EmplyConfig
	fetch    *fetch.Options
	loc      *time.Location
	log      *zap.SugaredLogger
}

// New creates an Emply source from the settings document.
func New(cfg *config.Config, opts sources.Options) *Source {
	if cfg == nil {
		cfg = config.Default()
	}
	settings := cfg.Sources.Emply
	if settings.APIPath == "" {
		settings.APIPath = config.DefaultEmplyAPIPath
	}
	return &Source{
		settings: settings,
		fetch:    sources.FetchOptions(cfg, opts, map[string]string{"Accept": "application/json"}),
		loc:      sources.Location(cfg),
		log:      opts.LoggerFor(ID),
	}
}

// ID implements sources.Source.
func (s *Source) ID() string { return ID }

// Validate implements sources.Source.
func (s *Source) Validate() error {
	return s.settings.Validate()
}

// endpoint returns the postings URL without the API key.
func (s *Source) endpoint() string {
	return strings.TrimRight(strings.TrimSpace(s.settings.APIDomain), "/") +
		"/" + strings.Trim(s.settings.APIPath, "/") +
		"/" + url.PathEscape(strings.TrimSpace(s.settings.MediaID))
}

// request fetches the listing and returns its raw records.
func (s *Source) request(ctx context.Context) ([]json.RawMessage, error) {
	if err := s.Validate(); err != nil {
		return nil, &sources.ConfigurationError{Source: ID, Message: "invalid settings", Cause: err}
	}

	opts := *s.fetch
	opts.Query = url.Values{"apiKey": {s.settings.APIKey}}
	opts.SecretParams = []string{"apiKey"}

	res, err := fetch.Get(ctx, s.endpoint(), &opts)
	if err != nil {
		te := sources.AsTransportError(ID, res, err)
		s.log.Errorw("Emply API request failed",
			logger.FieldURL, s.endpoint(),
			logger.FieldStatus, te.StatusCode,
			logger.FieldBody, te.Body,
			logger.FieldError, err)
		return nil, te
	}

	if err := validateListing(res.Body); err != nil {
		s.log.Errorw("Emply API response rejected",
			logger.FieldBody, res.Excerpt(),
			logger.FieldError, err)
		return nil, &sources.ParseError{Source: ID, Message: "invalid postings listing", Cause: err}
	}

	var records []json.RawMessage
	if err := json.Unmarshal(res.Body, &records); err != nil {
		return nil, &sources.ParseError{Source: ID, Message: "failed to decode postings listing", Cause: err}
	}
	return records, nil
}

// GetData implements sources.Source.
func (s *Source) GetData(ctx context.Context) ([]types.VacancyItem, error) {
	records, err := s.request(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]types.VacancyItem, 0, len(records))
	skipped := 0
	for i, raw := range records {
		var p posting
		if err := json.Unmarshal(raw, &p); err != nil {
			s.log.Warnw("Skipping malformed posting", "index", i, logger.FieldError, err)
			skipped++
			continue
		}
		item, ok := s.mapPosting(p)
		if !ok {
			s.log.Warnw("Skipping posting without job id", "index", i)
			skipped++
			continue
		}
		items = append(items, item)
	}

	s.log.Infow("Fetched Emply postings",
		logger.FieldCount, len(items),
		logger.FieldSkipped, skipped)
	return items, nil
}

// CheckAPI implements sources.Source.
func (s *Source) CheckAPI(ctx context.Context) bool {
	if _, err := s.request(ctx); err != nil {
		s.log.Warnw("Emply API check failed", logger.FieldError, err)
		return false
	}
	return true
}

// mapPosting converts one posting. It reports false when the posting has
// no job id. adUrl is the public advertisement and applyUrl the application
// form; older integrations stored them the other way round.
func (s *Source) mapPosting(p posting) (types.VacancyItem, bool) {
	guid := strings.TrimSpace(string(p.JobID))
	if guid == "" {
		return types.VacancyItem{}, false
	}

	titles := p.Title.entries()
	lang := sources.DetectLanguage(p.languageAttribute(), titles)

	item := types.VacancyItem{
		GUID:             guid,
		LanguageCode:     lang,
		CreateTime:       sources.NormalizeDate(string(p.Created), s.loc),
		JobTitle:         htmltext.FormatPlainText(sources.FirstLocalized(titles)),
		AdvertisementURL: strings.TrimSpace(sources.FirstLocalized(p.AdURL.entries())),
		ApplicationURL:   strings.TrimSpace(sources.FirstLocalized(p.ApplyURL.entries())),
		DueDate:          sources.NormalizeDate(string(p.Deadline), s.loc),
		DueDateText:      strings.TrimSpace(sources.FirstLocalized(p.DeadlineText.entries())),
	}

	if len(p.Advertisements) > 0 {
		ad := p.Advertisements[0]
		item.AdvertisementTitle = htmltext.FormatPlainText(sources.FirstLocalized(ad.Title.entries()))
		item.Body = strings.TrimSpace(sources.FirstLocalized(ad.Content.entries()))
	}

	if p.Department != nil {
		item.CategoryDepartment = htmltext.FormatPlainText(sources.FirstLocalized(p.Department.Title.entries()))
	}

	facts := p.facts()
	ids := s.settings.FactIDs
	item.CategoryWorkArea = sources.ExtractCategory(facts, ids.WorkArea, lang)
	item.CategoryWorkTime = sources.ExtractCategory(facts, ids.WorkTime, lang)
	item.CategoryEmploymentType = sources.ExtractCategory(facts, ids.EmploymentType, lang)
	item.WorkPlace = sources.ExtractCategory(facts, ids.WorkPlace, lang)

	jobID := ""
	if s.settings.InsertJobIDInFacts {
		jobID = guid
	}
	item.Facts = sources.RenderFacts(facts, lang, jobID)

	return item, true
}
