package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/inspection-extractor/constants"
	"github.com/joseph-ayodele/inspection-extractor/internal/common"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

var dateCmp = cmp.Comparer(func(a, b entity.Date) bool { return a.String() == b.String() })

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{DSN: ":memory:"}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(db.Close)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sampleRecord(t *testing.T, name string) *entity.InspectionRecord {
	t.Helper()
	d, ok := entity.ParseDate("15/03/2024")
	if !ok {
		t.Fatal("bad date")
	}
	rec := entity.NewInspectionRecord(name)
	rec.RF = "1234567"
	rec.ReportDate = d
	rec.Actions = 2
	rec.AutuacaoCount = 3
	rec.OfficeLetter = true
	rec.Regularization = constants.RegularizationYes
	rec.Photos = "2 fotos extraídas"
	rec.PhotosExtracted = 2
	rec.Images = []entity.ExtractedImage{
		{Name: "foto_1_pag3.png", Path: "/tmp/x/foto_1_pag3.png", Page: 3, Width: 640, Height: 480, Bytes: 1200},
		{Name: "foto_2_pag4.png", Path: "/tmp/x/foto_2_pag4.png", Page: 4, Width: 800, Height: 600, Bytes: 2400},
	}
	return rec
}

func TestSaveAndListByBatch(t *testing.T) {
	db := openMemory(t)
	repo := NewRecordRepository(db, nil)
	ctx := context.Background()
	batch := uuid.New()

	b := sampleRecord(t, "b.pdf")
	a := sampleRecord(t, "a.pdf")
	a.Images = nil
	a.PhotosExtracted = 0

	if err := repo.SaveBatch(ctx, batch, []*entity.InspectionRecord{b, a}); err != nil {
		t.Fatalf("save: %v", err)
	}
	// another batch must not leak into the listing
	if err := repo.SaveBatch(ctx, uuid.New(), []*entity.InspectionRecord{sampleRecord(t, "c.pdf")}); err != nil {
		t.Fatalf("save other: %v", err)
	}

	got, err := repo.ListByBatch(ctx, batch)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []*entity.InspectionRecord{a, b}
	if diff := cmp.Diff(want, got, dateCmp); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	n, err := repo.CountByBatch(ctx, batch)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestListByBatchKeepsPhotoExtractionOrder(t *testing.T) {
	db := openMemory(t)
	repo := NewRecordRepository(db, nil)
	ctx := context.Background()
	batch := uuid.New()

	rec := sampleRecord(t, "a.pdf")
	rec.Images = []entity.ExtractedImage{
		{Name: "foto_2_pag3.png", Path: "/tmp/x/foto_2_pag3.png", Page: 3, Width: 640, Height: 480, Bytes: 1200},
		{Name: "foto_10_pag3.png", Path: "/tmp/x/foto_10_pag3.png", Page: 3, Width: 640, Height: 480, Bytes: 1300},
		{Name: "foto_11_pag4.png", Path: "/tmp/x/foto_11_pag4.png", Page: 4, Width: 640, Height: 480, Bytes: 1400},
	}
	rec.PhotosExtracted = len(rec.Images)
	if err := repo.SaveBatch(ctx, batch, []*entity.InspectionRecord{rec}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.ListByBatch(ctx, batch)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("records = %d, want 1", len(got))
	}
	var names []string
	for _, img := range got[0].Images {
		names = append(names, img.Name)
	}
	want := []string{"foto_2_pag3.png", "foto_10_pag3.png", "foto_11_pag4.png"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("photo order mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveBatchEmptyIsNoop(t *testing.T) {
	db := openMemory(t)
	repo := NewRecordRepository(db, nil)
	batch := uuid.New()
	if err := repo.SaveBatch(context.Background(), batch, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	n, err := repo.CountByBatch(context.Background(), batch)
	if err != nil || n != 0 {
		t.Fatalf("count = %d, %v", n, err)
	}
}

func TestSaveBatchRejectsNilBatch(t *testing.T) {
	db := openMemory(t)
	repo := NewRecordRepository(db, nil)
	err := repo.SaveBatch(context.Background(), uuid.Nil, []*entity.InspectionRecord{sampleRecord(t, "a.pdf")})
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openMemory(t)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if err := db.HealthCheck(context.Background(), time.Second); err != nil {
		t.Fatalf("health: %v", err)
	}
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{}, nil)
	if common.CodeOf(err) != common.CodeStore {
		t.Fatalf("code = %q, want %q", common.CodeOf(err), common.CodeStore)
	}
}

func TestOpenPlainFilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	db, err := Open(context.Background(), Config{DSN: path}, nil)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer db.Close()
	if db.Dialect != dialect.SQLite {
		t.Errorf("dialect = %q, want %q", db.Dialect, dialect.SQLite)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestOpenRejectsForeignScheme(t *testing.T) {
	_, err := Open(context.Background(), Config{DSN: "mysql://u@localhost/rf"}, nil)
	if common.CodeOf(err) != common.CodeStore {
		t.Fatalf("code = %q, want %q", common.CodeOf(err), common.CodeStore)
	}
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("error should wrap ErrInvalidInput, got %v", err)
	}
}

func TestIsPostgres(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"postgres://u:p@localhost/db", true},
		{"postgresql://localhost/db", true},
		{":memory:", false},
		{"file:session.db", false},
		{"POSTGRES://localhost/db", true},
		{"/var/lib/rf/session.db", false},
	}
	for _, tt := range tests {
		if got := IsPostgres(tt.dsn); got != tt.want {
			t.Errorf("IsPostgres(%q) = %v, want %v", tt.dsn, got, tt.want)
		}
	}
}
