package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffwagency/vacancy-importer/internal/store/memory"
	"github.com/ffwagency/vacancy-importer/internal/types"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, st *memory.Store, due *time.Time, published bool) int64 {
	t.Helper()
	id, err := st.SaveVacancy(context.Background(), &types.Vacancy{Title: "v", DueDate: due, Published: published})
	require.NoError(t, err)
	require.NoError(t, st.UpsertSourceItem(context.Background(), types.SourceItem{
		EntityID: id, PluginID: "emply", GUID: fmt.Sprintf("guid-%d", id),
	}))
	return id
}

func at(t time.Time) *time.Time { return &t }

func TestCutoffs(t *testing.T) {
	local := now.In(time.FixedZone("CEST", 2*3600))
	assert.Equal(t, now.Add(-15*time.Minute), ArchiveCutoff(local, 15))
	assert.Equal(t, time.UTC, ArchiveCutoff(local, 15).Location())
	assert.Equal(t, now, ArchiveCutoff(now, 0))
	assert.Equal(t, now.AddDate(0, 0, -60), CleanupCutoff(now))
}

func TestArchive_Boundary(t *testing.T) {
	st := memory.New()
	cutoff := ArchiveCutoff(now, 15)

	exact := seed(t, st, at(cutoff), true)
	earlier := seed(t, st, at(cutoff.Add(-time.Microsecond)), true)
	minuteEarlier := seed(t, st, at(cutoff.Add(-time.Minute)), true)
	future := seed(t, st, at(now.Add(time.Hour)), true)
	noDue := seed(t, st, nil, true)

	m := New(st, Options{ArchiveMinutes: 15, Now: func() time.Time { return now }})
	n, err := m.Archive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	published := func(id int64) bool {
		v, err := st.GetVacancy(context.Background(), id)
		require.NoError(t, err)
		return v.Published
	}
	assert.True(t, published(exact), "due date equal to cutoff is kept")
	assert.False(t, published(earlier))
	assert.False(t, published(minuteEarlier))
	assert.True(t, published(future))
	assert.True(t, published(noDue))

	n, err = m.Archive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n, "second sweep is a no-op")
}

func TestCleanup_Boundary(t *testing.T) {
	st := memory.New()
	cutoff := CleanupCutoff(now)

	exact := seed(t, st, at(cutoff), false)
	dayOlder := seed(t, st, at(cutoff.AddDate(0, 0, -1)), false)
	stillPublished := seed(t, st, at(cutoff.AddDate(0, 0, -1)), true)

	m := New(st, Options{Now: func() time.Time { return now }})
	n, err := m.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ctx := context.Background()
	v, _ := st.GetVacancy(ctx, exact)
	assert.NotNil(t, v, "exactly 60 days old is kept")
	v, _ = st.GetVacancy(ctx, dayOlder)
	assert.Nil(t, v)
	v, _ = st.GetVacancy(ctx, stillPublished)
	assert.NotNil(t, v, "published vacancies are never deleted")

	for _, item := range st.SourceItems() {
		assert.NotEqual(t, dayOlder, item.EntityID, "mapping row removed with the vacancy")
	}
	assert.Len(t, st.SourceItems(), 2)
}

type brokenStore struct {
	*memory.Store
}

func (brokenStore) FindVacancyIDs(context.Context, types.VacancyFilter) ([]int64, error) {
	return nil, errors.New("connection refused")
}

func TestSweeps_StoreError(t *testing.T) {
	m := New(brokenStore{memory.New()}, Options{Now: func() time.Time { return now }})

	_, err := m.Archive(context.Background())
	assert.ErrorContains(t, err, "connection refused")

	_, err = m.Cleanup(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}
