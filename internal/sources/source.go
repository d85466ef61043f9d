// Package sources defines the vacancy source adapter contract, the
// registry of available adapters and the mapping helpers shared by them.
package sources

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ffwagency/vacancy-importer/internal/config"
	"github.com/ffwagency/vacancy-importer/internal/fetch"
	"github.com/ffwagency/vacancy-importer/internal/logger"
	"github.com/ffwagency/vacancy-importer/internal/types"
)

// Source is a vendor adapter.
type Source interface {
	// ID returns the registry id of the adapter.
	ID() string
	// GetData fetches the vendor listing once and maps every usable record.
	// Single malformed records are skipped. The call fails on transport
	// errors, unparseable responses and invalid settings.
	GetData(ctx context.Context) ([]types.VacancyItem, error)
	// CheckAPI reports whether the vendor endpoint answers with a usable
	// response for the adapter's settings.
	CheckAPI(ctx context.Context) bool
	// Validate checks the adapter's settings without any network I/O.
	Validate() error
}

// Options carries the collaborators shared by every adapter instance.
type Options struct {
	HTTPClient *http.Client
	Logger     *zap.SugaredLogger
}

// Factory builds an adapter from a settings document.
type Factory func(cfg *config.Config, opts Options) (Source, error)

// Definition is the static metadata of a registered adapter.
type Definition struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Factory     Factory `json:"-"`
}

// FetchOptions returns the HTTP options adapters use for vendor requests.
func FetchOptions(cfg *config.Config, opts Options, headers map[string]string) *fetch.Options {
	fo := fetch.DefaultOptions()
	if cfg != nil && cfg.HTTP.Timeout > 0 {
		fo.Timeout = cfg.HTTP.Timeout
	}
	fo.Client = opts.HTTPClient
	fo.Headers = headers
	return fo
}

// Location returns the site time zone of cfg, or UTC.
func Location(cfg *config.Config) *time.Location {
	if cfg == nil {
		return time.UTC
	}
	loc, err := cfg.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoggerFor returns the configured logger, or a component logger named after
// the source, tagged with the source id.
func (o Options) LoggerFor(id string) *zap.SugaredLogger {
	return logger.OrComponent(o.Logger, "source."+id).With(logger.FieldPlugin, id)
}

// AsTransportError converts a fetch failure into a TransportError.
func AsTransportError(id string, res *fetch.Result, err error) *TransportError {
	te := &TransportError{Source: id, Cause: err}
	var fe *fetch.Error
	if errors.As(err, &fe) {
		te.URL = fe.URL
		te.StatusCode = fe.StatusCode
	}
	if res != nil {
		te.URL = res.URL
		te.StatusCode = res.StatusCode
		te.Body = res.Excerpt()
	}
	return te
}
