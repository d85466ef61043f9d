// Package hrmanager implements the vacancy source for the HR-Manager job
// portal API.
package hrmanager

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ffwagency/vacancy-importer/internal/config"
	"github.com/ffwagency/vacancy-importer/internal/fetch"
	"github.com/ffwagency/vacancy-importer/internal/logger"
	"github.com/ffwagency/vacancy-importer/internal/sources"
	"github.com/ffwagency/vacancy-importer/internal/types"
)

// ID is the registry id of the HR-Manager source.
const ID = "hrmanager"

// Definition returns the registry entry for the HR-Manager source.
func Definition() sources.Definition {
	return sources.Definition{
		ID:          ID,
		Label:       "HR-Manager",
		Description: "Imports vacancies from the HR-Manager job portal API (XML).",
		Factory: func(cfg *config.Config, opts sources.Options) (sources.Source, error) {
			return New(cfg, opts), nil
		},
	}
}

// defaultQuery is sent with every request; configured query parameters
// override it.
func defaultQuery() url.Values {
	return url.Values{
		"incads": {"1"},
		"take":   {"999"},
	}
}

// Source fetches and maps HR-Manager positions.
type Source struct {
	settings config.HRManagerConfig
	fetch    *fetch.Options
	loc      *time.Location
	log      *zap.SugaredLogger
}

// New creates an HR-Manager source from the settings document.
func New(cfg *config.Config, opts sources.Options) *Source {
	if cfg == nil {
		cfg = config.Default()
	}
	settings := cfg.Sources.HRManager
	if settings.APIDomain == "" {
		settings.APIDomain = config.DefaultHRManagerDomain
	}
	return &Source{
		settings: settings,
		fetch:    sources.FetchOptions(cfg, opts, map[string]string{"Accept": "application/xml"}),
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

func (s *Source) endpoint() string {
	return strings.TrimRight(strings.TrimSpace(s.settings.APIDomain), "/") +
		config.DefaultHRManagerAPIPath + "/" +
		url.PathEscape(strings.TrimSpace(s.settings.APIName)) +
		"/positionlist/xml/"
}

func (s *Source) query() url.Values {
	q := defaultQuery()
	for key, value := range s.settings.QueryParameters {
		q.Set(key, value)
	}
	return q
}

// request fetches and decodes the position list.
func (s *Source) request(ctx context.Context) ([]position, error) {
	if err := s.Validate(); err != nil {
		return nil, &sources.ConfigurationError{Source: ID, Message: "invalid settings", Cause: err}
	}

	opts := *s.fetch
	opts.Query = s.query()

	res, err := fetch.Get(ctx, s.endpoint(), &opts)
	if err != nil {
		te := sources.AsTransportError(ID, res, err)
		s.log.Errorw("HR-Manager API request failed",
			logger.FieldURL, s.endpoint(),
			logger.FieldStatus, te.StatusCode,
			logger.FieldBody, te.Body,
			logger.FieldError, err)
		return nil, te
	}

	var doc positionList
	if err := xml.NewDecoder(bytes.NewReader(res.Body)).Decode(&doc); err != nil {
		s.log.Errorw("HR-Manager API response is not valid XML",
			logger.FieldBody, res.Excerpt(),
			logger.FieldError, err)
		return nil, &sources.ParseError{Source: ID, Message: "invalid position list", Cause: err}
	}

	if doc.TransactionStatus.failed() {
		msg := strings.TrimSpace(doc.TransactionStatus.Message)
		if msg == "" {
			msg = "status code Error"
		}
		s.log.Errorw("HR-Manager API reported an error", logger.FieldError, msg)
		return nil, &sources.TransportError{
			Source:     ID,
			URL:        res.URL,
			StatusCode: res.StatusCode,
			Body:       res.Excerpt(),
			Cause:      errors.New("vendor reported: " + msg),
		}
	}

	return doc.Items.Positions, nil
}

// GetData implements sources.Source.
func (s *Source) GetData(ctx context.Context) ([]types.VacancyItem, error) {
	positions, err := s.request(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]types.VacancyItem, 0, len(positions))
	skipped := 0
	for i, p := range positions {
		item, ok := s.mapPosition(p)
		if !ok {
			s.log.Warnw("Skipping position without id", "index", i)
			skipped++
			continue
		}
		items = append(items, item)
	}

	s.log.Infow("Fetched HR-Manager positions",
		logger.FieldCount, len(items),
		logger.FieldSkipped, skipped)
	return items, nil
}

// CheckAPI implements sources.Source.
func (s *Source) CheckAPI(ctx context.Context) bool {
	if _, err := s.request(ctx); err != nil {
		s.log.Warnw("HR-Manager API check failed", logger.FieldError, err)
		return false
	}
	return true
}

// mapPosition converts one position. It reports false when the position
// has no id.
func (s *Source) mapPosition(p position) (types.VacancyItem, bool) {
	guid := strings.TrimSpace(p.ID)
	if guid == "" {
		return types.VacancyItem{}, false
	}

	lang := sources.LanguageFromAttribute(p.languageCode())
	if lang == "" {
		lang = types.LanguageUndefined
	}

	name := strings.TrimSpace(p.Name)
	item := types.VacancyItem{
		GUID:                   guid,
		LanguageCode:           lang,
		CreateTime:             sources.NormalizeDate(p.LastUpdated, s.loc),
		AdvertisementTitle:     name,
		JobTitle:               name,
		Body:                   strings.TrimSpace(p.content()),
		CategoryWorkArea:       strings.TrimSpace(p.PositionCategory.Name),
		CategoryWorkTime:       strings.TrimSpace(p.WorkHours),
		CategoryEmploymentType: strings.TrimSpace(p.PositionType),
		CategoryDepartment:     strings.TrimSpace(p.Department.Name),
		WorkPlace:              strings.TrimSpace(p.WorkPlace),
		AdvertisementURL:       strings.TrimSpace(p.AdvertisementURLSecure),
		ApplicationURL:         strings.TrimSpace(p.ApplicationFormURLSecure),
		DueDate:                sources.NormalizeDate(p.ApplicationDue, s.loc),
	}

	if s.settings.InsertJobIDInFacts {
		item.Facts = sources.RenderFacts(nil, lang, guid)
	}

	return item, true
}
