// Package store defines the persistence contracts of the importer: the
// vacancy content store, the taxonomy term store and the GUID mapping
// store. internal/db implements them on PostgreSQL and internal/store/memory
// in process memory.
package store

import (
	"context"
	"time"

	"github.com/ffwagency/vacancy-importer/internal/types"
)

// VacancyStore persists vacancy entities.
type VacancyStore interface {
	// GetVacancy returns the vacancy, or nil when it does not exist.
	GetVacancy(ctx context.Context, id int64) (*types.Vacancy, error)
	// SaveVacancy inserts a vacancy with ID 0 or updates an existing one and
	// returns its id. An id of 0 with a nil error means nothing was saved.
	SaveVacancy(ctx context.Context, v *types.Vacancy) (int64, error)
	// FindVacancyIDs returns the ids of vacancies matching filter.
	FindVacancyIDs(ctx context.Context, filter types.VacancyFilter) ([]int64, error)
	// SetPublished changes the published flag of a vacancy.
	SetPublished(ctx context.Context, id int64, published bool, changedAt time.Time) error
	// DeleteVacancy removes a vacancy together with its mapping row.
	DeleteVacancy(ctx context.Context, id int64) error
}

// TermStore persists taxonomy terms.
type TermStore interface {
	// FindTerm returns the term with exactly this name, or nil.
	FindTerm(ctx context.Context, vocabulary, name, language string) (*types.Term, error)
	// CreateTerm stores a new term and returns its id.
	CreateTerm(ctx context.Context, term *types.Term) (int64, error)
}

// MappingStore persists the (plugin id, guid) to entity id mapping.
type MappingStore interface {
	// FindEntityID looks up the entity imported for guid by pluginID.
	FindEntityID(ctx context.Context, pluginID, guid string) (int64, bool, error)
	// UpsertSourceItem creates or refreshes the row keyed by item.EntityID.
	UpsertSourceItem(ctx context.Context, item types.SourceItem) error
	// DeleteSourceItem removes the row of an entity.
	DeleteSourceItem(ctx context.Context, entityID int64) error
}

// Store is the full persistence surface.
type Store interface {
	VacancyStore
	TermStore
	MappingStore
}
