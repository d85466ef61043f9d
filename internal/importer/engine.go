// Package importer runs an import: it fetches canonical items from the active
// vacancy source and creates or updates one vacancy entity per source GUID.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ffwagency/vacancy-importer/internal/logger"
	"github.com/ffwagency/vacancy-importer/internal/store"
	"github.com/ffwagency/vacancy-importer/internal/types"
)

// ItemProvider yields the active source id and its fetched items.
// *sources.Registry implements it.
type ItemProvider interface {
	GetSourceData(ctx context.Context) (string, []types.VacancyItem, error)
}

// Options configures an Engine.
type Options struct {
	// Language is used for entities and terms of items without a language.
	Language string
	// Location is the site time zone vendor dates are read in.
	Location *time.Location
	Logger   *zap.SugaredLogger
	Now      func() time.Time
}

// Result summarizes one import run.
type Result struct {
	RunID    string        `json:"run_id"`
	PluginID string        `json:"plugin_id"`
	Count    int           `json:"count"`
	Created  int           `json:"created"`
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

// Engine imports vacancies into a store.
type Engine struct {
	provider ItemProvider
	store    store.Store
	language string
	location *time.Location
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// New creates an Engine reading from provider and writing to st.
func New(provider ItemProvider, st store.Store, opts Options) *Engine {
	e := &Engine{
		provider: provider,
		store:    st,
		language: opts.Language,
		location: opts.Location,
		logger:   logger.OrComponent(opts.Logger, "importer"),
		now:      opts.Now,
	}
	if e.language == "" {
		e.language = types.LanguageUndefined
	}
	if e.location == nil {
		e.location = time.UTC
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Execute fetches the active source's items and imports them. Fetch errors
// are returned as is; nothing is written when the fetch fails.
func (e *Engine) Execute(ctx context.Context) (*Result, error) {
	pluginID, items, err := e.provider.GetSourceData(ctx)
	if err != nil {
		return &Result{PluginID: pluginID}, fmt.Errorf("failed to fetch vacancies: %w", err)
	}
	return e.Import(ctx, pluginID, items)
}

// Import writes items for pluginID in input order. It stops at the first
// store or term failure; the returned result counts what was saved until
// then.
func (e *Engine) Import(ctx context.Context, pluginID string, items []types.VacancyItem) (*Result, error) {
	start := e.now()
	res := &Result{RunID: uuid.NewString(), PluginID: pluginID}
	log := e.logger.With(logger.FieldRunID, res.RunID, logger.FieldPlugin, pluginID)
	log.Infow("Import started", logger.FieldCount, len(items))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := item.Validate(); err != nil {
			log.Warnw("Skipping invalid vacancy item", logger.FieldGUID, item.GUID, logger.FieldError, err)
			res.Skipped++
			continue
		}

		id, created, err := e.importItem(ctx, pluginID, item)
		if err != nil {
			log.Errorw("Import aborted", logger.FieldGUID, item.GUID, logger.FieldError, err)
			res.Duration = e.now().Sub(start)
			return res, err
		}
		if id == 0 {
			log.Warnw("Vacancy was not saved", logger.FieldGUID, item.GUID)
			res.Skipped++
			continue
		}

		res.Count++
		if created {
			res.Created++
		} else {
			res.Updated++
		}
		log.Debugw("Vacancy imported", logger.FieldGUID, item.GUID, logger.FieldEntityID, id, "created", created)
	}

	res.Duration = e.now().Sub(start)
	log.Infow("Import finished",
		logger.FieldCount, res.Count,
		logger.FieldCreated, res.Created,
		logger.FieldUpdated, res.Updated,
		logger.FieldSkipped, res.Skipped,
		logger.FieldDurationMS, res.Duration.Milliseconds(),
	)
	return res, nil
}

// importItem creates or updates the entity for item and refreshes its
// mapping row. It returns the entity id, 0 when the store saved nothing.
func (e *Engine) importItem(ctx context.Context, pluginID string, item types.VacancyItem) (int64, bool, error) {
	now := e.now().UTC()

	entityID, found, err := e.store.FindEntityID(ctx, pluginID, item.GUID)
	if err != nil {
		return 0, false, &PersistError{Op: "look up source item", GUID: item.GUID, Cause: err}
	}

	var v *types.Vacancy
	if found {
		v, err = e.store.GetVacancy(ctx, entityID)
		if err != nil {
			return 0, false, &PersistError{Op: "load vacancy", GUID: item.GUID, EntityID: entityID, Cause: err}
		}
		if v == nil {
			e.logger.Warnw("Dropping mapping to missing vacancy",
				logger.FieldPlugin, pluginID, logger.FieldGUID, item.GUID, logger.FieldEntityID, entityID)
			if err := e.store.DeleteSourceItem(ctx, entityID); err != nil {
				return 0, false, &PersistError{Op: "delete stale source item", GUID: item.GUID, EntityID: entityID, Cause: err}
			}
		}
	}

	creating := v == nil
	if creating {
		v = e.newVacancy(item, now)
	}
	if err := e.applyItem(ctx, v, item, creating, now); err != nil {
		return 0, false, err
	}

	id, err := e.store.SaveVacancy(ctx, v)
	if err != nil {
		return 0, false, &PersistError{Op: "save vacancy", GUID: item.GUID, EntityID: v.ID, Cause: err}
	}
	if id == 0 {
		return 0, false, nil
	}

	mapping := types.SourceItem{EntityID: id, PluginID: pluginID, GUID: item.GUID, ImportedAt: now}
	if err := e.store.UpsertSourceItem(ctx, mapping); err != nil {
		return 0, false, &PersistError{Op: "save source item", GUID: item.GUID, EntityID: id, Cause: err}
	}
	return id, creating, nil
}
