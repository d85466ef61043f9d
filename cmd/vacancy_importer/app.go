package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ffwagency/vacancy-importer/internal/config"
	"github.com/ffwagency/vacancy-importer/internal/db"
	"github.com/ffwagency/vacancy-importer/internal/importer"
	"github.com/ffwagency/vacancy-importer/internal/lifecycle"
	"github.com/ffwagency/vacancy-importer/internal/logger"
	"github.com/ffwagency/vacancy-importer/internal/sources"
	"github.com/ffwagency/vacancy-importer/internal/sources/builtin"
	"github.com/ffwagency/vacancy-importer/internal/store"
)

// sourceHTTPClient is the client vendor requests go through; nil uses the
// fetch package default.
var sourceHTTPClient *http.Client

// newRegistry returns a registry holding the built-in sources.
func newRegistry(c *config.Config) (*sources.Registry, error) {
	r := sources.NewRegistry(c, sources.Options{
		HTTPClient: sourceHTTPClient,
		Logger:     logger.ComponentLogger("sources"),
	})
	if err := builtin.Register(r); err != nil {
		return nil, fmt.Errorf("failed to register sources: %w", err)
	}
	return r, nil
}

// openDB connects to the configured database.
func openDB(ctx context.Context, c *config.Config) (*db.DB, error) {
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("database_url is not configured (set it in the settings file or DATABASE_URL)")
	}
	return db.Connect(ctx, c.DatabaseURL)
}

// newEngine builds the import engine for the settings.
func newEngine(c *config.Config, provider importer.ItemProvider, st store.Store) (*importer.Engine, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	return importer.New(provider, st, importer.Options{
		Language: c.Language,
		Location: loc,
		Logger:   logger.ComponentLogger("importer"),
	}), nil
}

// newMaintainer builds the lifecycle sweeps for the settings.
func newMaintainer(c *config.Config, st store.VacancyStore) *lifecycle.Maintainer {
	return lifecycle.New(st, lifecycle.Options{
		ArchiveMinutes: c.Archive.Minutes,
		Logger:         logger.ComponentLogger("lifecycle"),
	})
}

// importMessage is the one-line summary printed after an import.
func importMessage(res *importer.Result) string {
	return fmt.Sprintf("%d vacancies imported/updated from %q.", res.Count, res.PluginID)
}
