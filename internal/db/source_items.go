package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ffwagency/vacancy-importer/internal/types"
)

// -----------------------------------------------------------------------------
// Source Item Mapping Methods
// -----------------------------------------------------------------------------

// FindEntityID returns the vacancy id imported for guid by pluginID.
func (db *DB) FindEntityID(ctx context.Context, pluginID, guid string) (int64, bool, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`SELECT entity_id FROM vacancy_importer_item WHERE plugin_id = $1 AND guid = $2`,
		pluginID, guid,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to find source item: %w", err)
	}
	return id, true, nil
}

// UpsertSourceItem records that item.EntityID was imported from
// (item.PluginID, item.GUID). An existing row for the entity is overwritten.
func (db *DB) UpsertSourceItem(ctx context.Context, item types.SourceItem) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO vacancy_importer_item (entity_id, plugin_id, guid, imported)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (entity_id) DO UPDATE SET plugin_id = $2, guid = $3, imported = $4`,
		item.EntityID, item.PluginID, item.GUID, item.ImportedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert source item: %w", err)
	}
	return nil
}

// DeleteSourceItem removes the mapping row of an entity.
func (db *DB) DeleteSourceItem(ctx context.Context, entityID int64) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM vacancy_importer_item WHERE entity_id = $1`,
		entityID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete source item: %w", err)
	}
	return nil
}
