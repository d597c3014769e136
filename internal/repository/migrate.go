package repository

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/inspection-extractor/internal/common"
)

const (
	tableRecords = "inspection_records"
	tablePhotos  = "extracted_photos"
)

// The DDL is portable between SQLite and Postgres.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS inspection_records (
		id TEXT PRIMARY KEY,
		batch_id TEXT NOT NULL,
		filename TEXT NOT NULL,
		rf TEXT NOT NULL DEFAULT '',
		data_relatorio TEXT NOT NULL DEFAULT '',
		regularizacao TEXT NOT NULL,
		acoes INTEGER NOT NULL DEFAULT 0,
		autuacoes_count INTEGER NOT NULL DEFAULT 0,
		fotos_extraidas INTEGER NOT NULL DEFAULT 0,
		payload TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS inspection_records_batch_idx ON inspection_records (batch_id, filename)`,
	`CREATE TABLE IF NOT EXISTS extracted_photos (
		id TEXT PRIMARY KEY,
		record_id TEXT NOT NULL REFERENCES inspection_records (id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		page INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		bytes BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS extracted_photos_record_idx ON extracted_photos (record_id)`,
}

// Migrate creates the tables if they do not exist.
func (d *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schemaDDL {
		if err := d.Driver.Exec(ctx, stmt, []any{}, nil); err != nil {
			return common.NewAppError(common.CodeStore, fmt.Sprintf("migrate step %d", i+1), fmt.Errorf("%w: %w", common.ErrDatabase, err))
		}
	}
	d.logger.Debug("store.migrate.ok", "dialect", d.Dialect)
	return nil
}
