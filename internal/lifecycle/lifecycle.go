// Package lifecycle implements the maintenance sweeps over imported
// vacancies: archiving published vacancies past their due date and deleting
// long expired unpublished ones.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ffwagency/vacancy-importer/internal/logger"
	"github.com/ffwagency/vacancy-importer/internal/store"
	"github.com/ffwagency/vacancy-importer/internal/types"
)

// CleanupRetention is how long an unpublished vacancy is kept after its due
// date.
const CleanupRetention = 60 * 24 * time.Hour

// Maintainer runs the archive and cleanup sweeps.
type Maintainer struct {
	store        store.VacancyStore
	graceMinutes int
	logger       *zap.SugaredLogger
	now          func() time.Time
}

// Options configures a Maintainer.
type Options struct {
	// ArchiveMinutes is the grace period after the due date before a
	// vacancy is unpublished.
	ArchiveMinutes int
	Logger         *zap.SugaredLogger
	Now            func() time.Time
}

// New creates a Maintainer over st.
func New(st store.VacancyStore, opts Options) *Maintainer {
	m := &Maintainer{
		store:        st,
		graceMinutes: opts.ArchiveMinutes,
		logger:       logger.OrComponent(opts.Logger, "lifecycle"),
		now:          opts.Now,
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// ArchiveCutoff returns the instant a due date must be strictly before for
// a vacancy to be archived at now.
func ArchiveCutoff(now time.Time, graceMinutes int) time.Time {
	return now.UTC().Add(-time.Duration(graceMinutes) * time.Minute)
}

// CleanupCutoff returns the instant a due date must be strictly before for
// an unpublished vacancy to be deleted at now.
func CleanupCutoff(now time.Time) time.Time {
	return now.UTC().Add(-CleanupRetention)
}

// Archive unpublishes every published vacancy whose due date lies strictly
// before now minus the grace period. It returns the number unpublished.
func (m *Maintainer) Archive(ctx context.Context) (int, error) {
	now := m.now()
	cutoff := ArchiveCutoff(now, m.graceMinutes)
	published := true

	ids, err := m.store.FindVacancyIDs(ctx, types.VacancyFilter{Published: &published, DueDateBefore: &cutoff})
	if err != nil {
		return 0, fmt.Errorf("failed to find vacancies to archive: %w", err)
	}

	n := 0
	for _, id := range ids {
		if err := m.store.SetPublished(ctx, id, false, now.UTC()); err != nil {
			return n, fmt.Errorf("failed to archive vacancy %d: %w", id, err)
		}
		n++
	}

	m.logger.Infow("Archive sweep finished", logger.FieldCount, n, logger.FieldCutoff, cutoff.Format(time.RFC3339))
	return n, nil
}

// Cleanup deletes every unpublished vacancy whose due date lies strictly
// before now minus CleanupRetention. Mapping rows are removed with the
// vacancies. It returns the number deleted.
func (m *Maintainer) Cleanup(ctx context.Context) (int, error) {
	cutoff := CleanupCutoff(m.now())
	published := false

	ids, err := m.store.FindVacancyIDs(ctx, types.VacancyFilter{Published: &published, DueDateBefore: &cutoff})
	if err != nil {
		return 0, fmt.Errorf("failed to find vacancies to clean up: %w", err)
	}

	n := 0
	for _, id := range ids {
		if err := m.store.DeleteVacancy(ctx, id); err != nil {
			return n, fmt.Errorf("failed to delete vacancy %d: %w", id, err)
		}
		n++
	}

	m.logger.Infow("Cleanup sweep finished", logger.FieldCount, n, logger.FieldCutoff, cutoff.Format(time.RFC3339))
	return n, nil
}
