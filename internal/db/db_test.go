package db

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffwagency/vacancy-importer/internal/types"
)

func TestMigrations(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, "001_vacancies", migrations[0].Version)
	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Version, migrations[i].Version, "migrations are ordered")
	}

	schema := migrations[0].SQL
	for _, table := range []string{"vacancy_terms", "vacancies", "vacancy_importer_item"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, schema, "ON DELETE CASCADE")
	assert.Contains(t, schema, "(plugin_id, guid)")
}

func TestVacancyFilterClause(t *testing.T) {
	published := true
	cutoff := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	tests := []struct {
		name      string
		filter    types.VacancyFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no conditions",
			filter:    types.VacancyFilter{},
			wantWhere: "",
		},
		{
			name:      "published only",
			filter:    types.VacancyFilter{Published: &published},
			wantWhere: " WHERE published = $1",
			wantArgs:  []any{true},
		},
		{
			name:      "published and due date",
			filter:    types.VacancyFilter{Published: &published, DueDateBefore: &cutoff},
			wantWhere: " WHERE published = $1 AND due_date IS NOT NULL AND due_date < $2",
			wantArgs:  []any{true, cutoff.UTC()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := vacancyFilterClause(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestVacancyFilterClause_StrictComparison(t *testing.T) {
	cutoff := time.Now()
	where, _ := vacancyFilterClause(types.VacancyFilter{DueDateBefore: &cutoff})
	assert.True(t, strings.Contains(where, "due_date < "))
	assert.False(t, strings.Contains(where, "<="))
}
