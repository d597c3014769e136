package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/inspection-extractor/internal/common"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

// RecordRepository persists the records of a batch and their extracted photos.
type RecordRepository interface {
	SaveBatch(ctx context.Context, batchID uuid.UUID, recs []*entity.InspectionRecord) error
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*entity.InspectionRecord, error)
	CountByBatch(ctx context.Context, batchID uuid.UUID) (int, error)
}

type recordRepository struct {
	drv     *entsql.Driver
	dialect string
	logger  *slog.Logger
	now     func() time.Time
}

// NewRecordRepository creates a new record repository.
func NewRecordRepository(db *DB, logger *slog.Logger) RecordRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &recordRepository{drv: db.Driver, dialect: db.Dialect, logger: logger, now: time.Now}
}

func (r *recordRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.dialect)
}

// SaveBatch writes all records and their photos in one transaction.
func (r *recordRepository) SaveBatch(ctx context.Context, batchID uuid.UUID, recs []*entity.InspectionRecord) error {
	v := common.NewValidator().Field("batch_id", batchID.String(), common.Required, common.UUID)
	if err := v.Error(); err != nil {
		return common.NewAppError(common.CodeStore, "invalid batch id", fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}
	if len(recs) == 0 {
		return nil
	}

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return r.storeErr("begin transaction", err)
	}
	createdAt := r.now().UTC().Format(time.RFC3339)

	photos := 0
	for _, rec := range recs {
		if rec == nil {
			continue
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			_ = tx.Rollback()
			return common.NewAppError(common.CodeStore, "encode record "+rec.Filename, err)
		}
		recordID := uuid.NewString()
		q, args := r.builder().Insert(tableRecords).
			Columns("id", "batch_id", "filename", "rf", "data_relatorio", "regularizacao",
				"acoes", "autuacoes_count", "fotos_extraidas", "payload", "created_at").
			Values(recordID, batchID.String(), rec.Filename, rec.RF, rec.ReportDate.String(), string(rec.Regularization),
				rec.Actions, rec.AutuacaoCount, rec.PhotosExtracted, string(payload), createdAt).
			Query()
		if err := tx.Exec(ctx, q, args, nil); err != nil {
			_ = tx.Rollback()
			return r.storeErr("insert record "+rec.Filename, err)
		}

		// seq keeps the extraction order; names do not sort numerically.
		for i, img := range rec.Images {
			q, args := r.builder().Insert(tablePhotos).
				Columns("id", "record_id", "seq", "name", "path", "page", "width", "height", "bytes").
				Values(uuid.NewString(), recordID, i+1, img.Name, img.Path, img.Page, img.Width, img.Height, img.Bytes).
				Query()
			if err := tx.Exec(ctx, q, args, nil); err != nil {
				_ = tx.Rollback()
				return r.storeErr("insert photo "+img.Name, err)
			}
			photos++
		}
	}

	if err := tx.Commit(); err != nil {
		return r.storeErr("commit", err)
	}
	r.logger.Info("store.save.ok", append(common.LogAttrs(ctx),
		"batch_id", batchID.String(), "records", len(recs), "photos", photos)...)
	return nil
}

// ListByBatch returns the batch records ordered by filename, photos attached.
func (r *recordRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*entity.InspectionRecord, error) {
	t := r.builder().Table(tableRecords)
	q, args := r.builder().Select(t.C("id"), t.C("autuacoes_count"), t.C("payload")).
		From(t).
		Where(entsql.EQ(t.C("batch_id"), batchID.String())).
		OrderBy(t.C("filename")).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, r.storeErr("list records", err)
	}

	var (
		out []*entity.InspectionRecord
		ids []string
	)
	for rows.Next() {
		var (
			id      string
			count   int
			payload string
		)
		if err := rows.Scan(&id, &count, &payload); err != nil {
			_ = rows.Close()
			return nil, r.storeErr("scan record", err)
		}
		rec := &entity.InspectionRecord{}
		if err := json.Unmarshal([]byte(payload), rec); err != nil {
			_ = rows.Close()
			return nil, common.NewAppError(common.CodeStore, "decode record "+id, err)
		}
		rec.AutuacaoCount = count
		out = append(out, rec)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, r.storeErr("iterate records", err)
	}
	_ = rows.Close()

	for i, id := range ids {
		imgs, err := r.photos(ctx, id)
		if err != nil {
			return nil, err
		}
		out[i].Images = imgs
	}
	return out, nil
}

func (r *recordRepository) photos(ctx context.Context, recordID string) ([]entity.ExtractedImage, error) {
	t := r.builder().Table(tablePhotos)
	q, args := r.builder().Select(t.C("name"), t.C("path"), t.C("page"), t.C("width"), t.C("height"), t.C("bytes")).
		From(t).
		Where(entsql.EQ(t.C("record_id"), recordID)).
		OrderBy(t.C("seq")).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, r.storeErr("list photos", err)
	}
	defer rows.Close()

	var out []entity.ExtractedImage
	for rows.Next() {
		var img entity.ExtractedImage
		if err := rows.Scan(&img.Name, &img.Path, &img.Page, &img.Width, &img.Height, &img.Bytes); err != nil {
			return nil, r.storeErr("scan photo", err)
		}
		out = append(out, img)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storeErr("iterate photos", err)
	}
	return out, nil
}

// CountByBatch returns how many records were stored for the batch.
func (r *recordRepository) CountByBatch(ctx context.Context, batchID uuid.UUID) (int, error) {
	t := r.builder().Table(tableRecords)
	q, args := r.builder().Select(entsql.Count("*")).
		From(t).
		Where(entsql.EQ(t.C("batch_id"), batchID.String())).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return 0, r.storeErr("count records", err)
	}
	defer rows.Close()
	n := 0
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, r.storeErr("scan count", err)
		}
	}
	return n, rows.Err()
}

func (r *recordRepository) storeErr(op string, err error) error {
	r.logger.Error("store.query.failed", "op", op, "dialect", r.dialect, "error", err)
	return common.NewAppError(common.CodeStore, op, fmt.Errorf("%w: %w", common.ErrDatabase, err))
}
