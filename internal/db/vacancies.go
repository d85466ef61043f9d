package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ffwagency/vacancy-importer/internal/types"
)

// -----------------------------------------------------------------------------
// Vacancy Methods
// -----------------------------------------------------------------------------

const vacancyColumns = `id, language, title, job_title, body, summary, facts,
	work_area_id, work_time_id, employment_type_id, department_id,
	advertisement_url, application_url, due_date, due_date_text, work_place,
	published, created_at, changed_at`

// GetVacancy retrieves a vacancy by ID. Returns nil when it does not exist.
func (db *DB) GetVacancy(ctx context.Context, id int64) (*types.Vacancy, error) {
	var v types.Vacancy
	err := db.pool.QueryRow(ctx,
		`SELECT `+vacancyColumns+` FROM vacancies WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Language, &v.Title, &v.JobTitle, &v.Body, &v.Summary, &v.Facts,
		&v.WorkAreaID, &v.WorkTimeID, &v.EmploymentTypeID, &v.DepartmentID,
		&v.AdvertisementURL, &v.ApplicationURL, &v.DueDate, &v.DueDateText, &v.WorkPlace,
		&v.Published, &v.CreatedAt, &v.ChangedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vacancy: %w", err)
	}
	return &v, nil
}

// SaveVacancy inserts v when v.ID is 0 and updates the existing row
// otherwise. Updating a row that no longer exists returns 0 and no error.
func (db *DB) SaveVacancy(ctx context.Context, v *types.Vacancy) (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("failed to save vacancy: nil vacancy")
	}
	if v.ID == 0 {
		return db.insertVacancy(ctx, v)
	}
	return db.updateVacancy(ctx, v)
}

func (db *DB) insertVacancy(ctx context.Context, v *types.Vacancy) (int64, error) {
	created := v.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	changed := v.ChangedAt
	if changed.IsZero() {
		changed = created
	}

	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO vacancies (language, title, job_title, body, summary, facts,
		                        work_area_id, work_time_id, employment_type_id, department_id,
		                        advertisement_url, application_url, due_date, due_date_text,
		                        work_place, published, created_at, changed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 RETURNING id`,
		v.Language, v.Title, v.JobTitle, v.Body, v.Summary, v.Facts,
		v.WorkAreaID, v.WorkTimeID, v.EmploymentTypeID, v.DepartmentID,
		v.AdvertisementURL, v.ApplicationURL, v.DueDate, v.DueDateText,
		v.WorkPlace, v.Published, created, changed,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert vacancy: %w", err)
	}
	return id, nil
}

func (db *DB) updateVacancy(ctx context.Context, v *types.Vacancy) (int64, error) {
	changed := v.ChangedAt
	if changed.IsZero() {
		changed = time.Now().UTC()
	}

	var id int64
	err := db.pool.QueryRow(ctx,
		`UPDATE vacancies SET
		    language = $2, title = $3, job_title = $4, body = $5, summary = $6, facts = $7,
		    work_area_id = $8, work_time_id = $9, employment_type_id = $10, department_id = $11,
		    advertisement_url = $12, application_url = $13, due_date = $14, due_date_text = $15,
		    work_place = $16, published = $17, changed_at = $18
		 WHERE id = $1
		 RETURNING id`,
		v.ID, v.Language, v.Title, v.JobTitle, v.Body, v.Summary, v.Facts,
		v.WorkAreaID, v.WorkTimeID, v.EmploymentTypeID, v.DepartmentID,
		v.AdvertisementURL, v.ApplicationURL, v.DueDate, v.DueDateText,
		v.WorkPlace, v.Published, changed,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to update vacancy: %w", err)
	}
	return id, nil
}

// FindVacancyIDs returns the ids of vacancies matching filter, oldest first.
func (db *DB) FindVacancyIDs(ctx context.Context, filter types.VacancyFilter) ([]int64, error) {
	where, args := vacancyFilterClause(filter)
	query := `SELECT id FROM vacancies` + where + ` ORDER BY id`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vacancies: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan vacancy id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vacancies: %w", err)
	}
	return ids, nil
}

// vacancyFilterClause builds the WHERE clause for filter. Vacancies without a
// due date never match a DueDateBefore condition.
func vacancyFilterClause(filter types.VacancyFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Published != nil {
		args = append(args, *filter.Published)
		conds = append(conds, fmt.Sprintf("published = $%d", len(args)))
	}
	if filter.DueDateBefore != nil {
		args = append(args, filter.DueDateBefore.UTC())
		conds = append(conds, fmt.Sprintf("due_date IS NOT NULL AND due_date < $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// SetPublished changes the published flag of a vacancy
func (db *DB) SetPublished(ctx context.Context, id int64, published bool, changedAt time.Time) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE vacancies SET published = $2, changed_at = $3 WHERE id = $1`,
		id, published, changedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to set published: %w", err)
	}
	return nil
}

// DeleteVacancy removes a vacancy. The mapping row goes with it through the
// foreign key cascade.
func (db *DB) DeleteVacancy(ctx context.Context, id int64) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM vacancies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vacancy: %w", err)
	}
	return nil
}
