package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ffwagency/vacancy-importer/internal/types"
)

// FindTerm returns the term with exactly this name in the vocabulary and
// language, or nil when none exists. The comparison is case-sensitive.
func (db *DB) FindTerm(ctx context.Context, vocabulary, name, language string) (*types.Term, error) {
	var t types.Term
	err := db.pool.QueryRow(ctx,
		`SELECT id, vocabulary, name, language
		 FROM vacancy_terms
		 WHERE vocabulary = $1 AND name = $2 AND language = $3
		 ORDER BY id
		 LIMIT 1`,
		vocabulary, name, language,
	).Scan(&t.ID, &t.Vocabulary, &t.Name, &t.Language)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find term: %w", err)
	}
	return &t, nil
}

// CreateTerm stores a term and returns its id. A concurrent insert of the same
// term resolves to the existing row.
func (db *DB) CreateTerm(ctx context.Context, term *types.Term) (int64, error) {
	if term == nil || term.Name == "" {
		return 0, fmt.Errorf("failed to create term: name is empty")
	}

	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO vacancy_terms (vocabulary, name, language)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (vocabulary, name, language) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		term.Vocabulary, term.Name, term.Language,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create term: %w", err)
	}
	term.ID = id
	return id, nil
}
