package sources

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ffwagency/vacancy-importer/internal/config"
	"github.com/ffwagency/vacancy-importer/internal/types"
)

// Registry maps source ids to adapter factories. It is populated at
// startup and read-only afterwards.
type Registry struct {
	cfg  *config.Config
	opts Options
	defs map[string]Definition
}

// NewRegistry creates an empty registry bound to the persisted settings.
func NewRegistry(cfg *config.Config, opts Options) *Registry {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Registry{
		cfg:  cfg,
		opts: opts,
		defs: make(map[string]Definition),
	}
}

// Register adds an adapter definition.
func (r *Registry) Register(def Definition) error {
	if def.ID == "" {
		return fmt.Errorf("source definition has no id")
	}
	if def.Factory == nil {
		return fmt.Errorf("source %q has no factory", def.ID)
	}
	if _, exists := r.defs[def.ID]; exists {
		return fmt.Errorf("source %q is already registered", def.ID)
	}
	r.defs[def.ID] = def
	return nil
}

// ListAvailable returns the metadata of every registered adapter keyed by id.
func (r *Registry) ListAvailable() map[string]Definition {
	out := make(map[string]Definition, len(r.defs))
	for id, def := range r.defs {
		out[id] = def
	}
	return out
}

// Definitions returns the registered adapters ordered by id.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetActive returns the configured source id. An empty or unregistered id
// is a ConfigurationError wrapping a NotFoundError.
func (r *Registry) GetActive() (string, error) {
	id := strings.TrimSpace(r.cfg.Source)
	if id == "" {
		return "", &ConfigurationError{Message: "no active source configured"}
	}
	if _, ok := r.defs[id]; !ok {
		return "", &ConfigurationError{
			Source:  id,
			Message: "configured source is not registered",
			Cause:   &NotFoundError{ID: id},
		}
	}
	return id, nil
}

// Instantiate builds the adapter for id with the persisted settings.
func (r *Registry) Instantiate(id string) (Source, error) {
	return r.InstantiateWith(id, r.cfg)
}

// InstantiateWith builds the adapter for id with a candidate settings
// document and validates its settings.
func (r *Registry) InstantiateWith(id string, cfg *config.Config) (Source, error) {
	def, ok := r.defs[id]
	if !ok {
		return nil, &ConfigurationError{
			Source:  id,
			Message: "source is not registered",
			Cause:   &NotFoundError{ID: id},
		}
	}

	src, err := def.Factory(cfg, r.opts)
	if err != nil {
		return nil, &ConfigurationError{Source: id, Message: "failed to create source", Cause: err}
	}
	if err := src.Validate(); err != nil {
		return nil, &ConfigurationError{Source: id, Message: "invalid settings", Cause: err}
	}
	return src, nil
}

// GetSourceData resolves the active adapter and fetches its items.
func (r *Registry) GetSourceData(ctx context.Context) (string, []types.VacancyItem, error) {
	id, err := r.GetActive()
	if err != nil {
		return "", nil, err
	}
	src, err := r.Instantiate(id)
	if err != nil {
		return id, nil, err
	}
	items, err := src.GetData(ctx)
	if err != nil {
		return id, nil, err
	}
	return id, items, nil
}

// ValidateSettings checks candidate settings for source id: the settings
// rules first, then a live API check.
func (r *Registry) ValidateSettings(ctx context.Context, id string, candidate *config.Config) error {
	src, err := r.InstantiateWith(id, candidate)
	if err != nil {
		return err
	}
	if !src.CheckAPI(ctx) {
		return &ConfigurationError{
			Source:  id,
			Message: "the API did not answer with a valid response for these settings",
		}
	}
	return nil
}
