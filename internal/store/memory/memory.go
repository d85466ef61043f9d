// Package memory implements store.Store in process memory. It backs dry runs
// and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ffwagency/vacancy-importer/internal/store"
	"github.com/ffwagency/vacancy-importer/internal/types"
)

var _ store.Store = (*Store)(nil)

type mappingKey struct {
	pluginID string
	guid     string
}

// Store holds vacancies, terms and mapping rows in maps guarded by a mutex.
type Store struct {
	mu        sync.RWMutex
	nextID    int64
	nextTerm  int64
	vacancies map[int64]types.Vacancy
	terms     map[int64]types.Term
	items     map[int64]types.SourceItem
	byGUID    map[mappingKey]int64
	now       func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		vacancies: make(map[int64]types.Vacancy),
		terms:     make(map[int64]types.Term),
		items:     make(map[int64]types.SourceItem),
		byGUID:    make(map[mappingKey]int64),
		now:       time.Now,
	}
}

// GetVacancy returns a copy of the vacancy, or nil.
func (s *Store) GetVacancy(_ context.Context, id int64) (*types.Vacancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vacancies[id]
	if !ok {
		return nil, nil
	}
	return copyVacancy(v), nil
}

// SaveVacancy inserts or updates v.
func (s *Store) SaveVacancy(_ context.Context, v *types.Vacancy) (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("failed to save vacancy: nil vacancy")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	stored := *copyVacancy(*v)
	if stored.ID == 0 {
		s.nextID++
		stored.ID = s.nextID
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = now
		}
	} else {
		existing, ok := s.vacancies[stored.ID]
		if !ok {
			return 0, nil
		}
		stored.CreatedAt = existing.CreatedAt
	}
	if stored.ChangedAt.IsZero() {
		stored.ChangedAt = now
	}
	s.vacancies[stored.ID] = stored
	return stored.ID, nil
}

// FindVacancyIDs returns matching ids in ascending order.
func (s *Store) FindVacancyIDs(_ context.Context, filter types.VacancyFilter) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []int64
	for id, v := range s.vacancies {
		if filter.Published != nil && v.Published != *filter.Published {
			continue
		}
		if filter.DueDateBefore != nil {
			if v.DueDate == nil || !v.DueDate.Before(*filter.DueDateBefore) {
				continue
			}
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// SetPublished changes the published flag of an existing vacancy.
func (s *Store) SetPublished(_ context.Context, id int64, published bool, changedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vacancies[id]
	if !ok {
		return nil
	}
	v.Published = published
	v.ChangedAt = changedAt.UTC()
	s.vacancies[id] = v
	return nil
}

// DeleteVacancy removes a vacancy and its mapping row.
func (s *Store) DeleteVacancy(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.vacancies, id)
	s.deleteItemLocked(id)
	return nil
}

// FindTerm returns the term with exactly this name, or nil.
func (s *Store) FindTerm(_ context.Context, vocabulary, name, language string) (*types.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *types.Term
	for _, t := range s.terms {
		if t.Vocabulary == vocabulary && t.Name == name && t.Language == language {
			if found == nil || t.ID < found.ID {
				term := t
				found = &term
			}
		}
	}
	return found, nil
}

// CreateTerm stores term and returns its id. An identical existing term is
// returned instead of a duplicate.
func (s *Store) CreateTerm(_ context.Context, term *types.Term) (int64, error) {
	if term == nil || term.Name == "" {
		return 0, fmt.Errorf("failed to create term: name is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.terms {
		if t.Vocabulary == term.Vocabulary && t.Name == term.Name && t.Language == term.Language {
			term.ID = t.ID
			return t.ID, nil
		}
	}
	s.nextTerm++
	stored := *term
	stored.ID = s.nextTerm
	s.terms[stored.ID] = stored
	term.ID = stored.ID
	return stored.ID, nil
}

// FindEntityID looks up the entity imported for guid by pluginID.
func (s *Store) FindEntityID(_ context.Context, pluginID, guid string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byGUID[mappingKey{pluginID: pluginID, guid: guid}]
	return id, ok, nil
}

// UpsertSourceItem creates or replaces the mapping row for item.EntityID.
func (s *Store) UpsertSourceItem(_ context.Context, item types.SourceItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := mappingKey{pluginID: item.PluginID, guid: item.GUID}
	if other, ok := s.byGUID[key]; ok && other != item.EntityID {
		return fmt.Errorf("failed to upsert source item: %s/%s already maps to %d", item.PluginID, item.GUID, other)
	}
	s.deleteItemLocked(item.EntityID)
	s.items[item.EntityID] = item
	s.byGUID[key] = item.EntityID
	return nil
}

// DeleteSourceItem removes the mapping row of an entity.
func (s *Store) DeleteSourceItem(_ context.Context, entityID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteItemLocked(entityID)
	return nil
}

// Vacancies returns copies of every stored vacancy ordered by id.
func (s *Store) Vacancies() []types.Vacancy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Vacancy, 0, len(s.vacancies))
	for _, v := range s.vacancies {
		out = append(out, *copyVacancy(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Terms returns every stored term ordered by id.
func (s *Store) Terms() []types.Term {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Term, 0, len(s.terms))
	for _, t := range s.terms {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SourceItems returns every mapping row ordered by entity id.
func (s *Store) SourceItems() []types.SourceItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.SourceItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out
}

func (s *Store) deleteItemLocked(entityID int64) {
	item, ok := s.items[entityID]
	if !ok {
		return
	}
	delete(s.items, entityID)
	key := mappingKey{pluginID: item.PluginID, guid: item.GUID}
	if s.byGUID[key] == entityID {
		delete(s.byGUID, key)
	}
}

func copyVacancy(v types.Vacancy) *types.Vacancy {
	out := v
	out.WorkAreaID = copyID(v.WorkAreaID)
	out.WorkTimeID = copyID(v.WorkTimeID)
	out.EmploymentTypeID = copyID(v.EmploymentTypeID)
	out.DepartmentID = copyID(v.DepartmentID)
	if v.DueDate != nil {
		d := *v.DueDate
		out.DueDate = &d
	}
	return &out
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
