package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/inspection-extractor/constants"
	"github.com/joseph-ayodele/inspection-extractor/internal/common"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

// ProcessingContext carries the state of one batch. Workers share it; all
// mutable state is guarded by mu.
type ProcessingContext struct {
	BatchID   uuid.UUID
	RootDir   string
	StartedAt time.Time

	mu       sync.Mutex
	dirs     map[string]struct{}
	records  []*entity.InspectionRecord
	outcomes []entity.DocumentOutcome
}

// NewProcessingContext creates the batch root directory.
func NewProcessingContext(rootDir string) (*ProcessingContext, error) {
	if rootDir == "" {
		return nil, common.NewAppError(common.CodeConfig, "root dir is required", common.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Join(rootDir, constants.PhotosDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create batch dir: %w", err)
	}
	return &ProcessingContext{
		BatchID:   uuid.New(),
		RootDir:   rootDir,
		StartedAt: time.Now().UTC(),
		dirs:      make(map[string]struct{}),
	}, nil
}

// PhotoDir claims the per-document photo directory <root>/fotos/<basename>.
// A name already claimed in this batch gets a numeric suffix.
func (p *ProcessingContext) PhotoDir(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." {
		base = "documento"
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	name := base
	for i := 2; ; i++ {
		if _, taken := p.dirs[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s_%d", base, i)
	}
	p.dirs[name] = struct{}{}
	return filepath.Join(p.RootDir, constants.PhotosDirName, name)
}

// AddRecord appends a finished record.
func (p *ProcessingContext) AddRecord(rec *entity.InspectionRecord) {
	if rec == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, rec)
	p.outcomes = append(p.outcomes, entity.DocumentOutcome{
		Filename:   rec.Filename,
		Status:     constants.DocumentStatusExtracted,
		FinishedAt: time.Now().UTC(),
	})
}

// AddFailure records a document that could not be opened.
func (p *ProcessingContext) AddFailure(filename string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	status := constants.DocumentStatusUnreadable
	if err != nil && !errors.Is(err, common.ErrDocumentUnreadable) {
		status = constants.DocumentStatusFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outcomes = append(p.outcomes, entity.DocumentOutcome{
		Filename:   filename,
		Status:     status,
		Error:      msg,
		FinishedAt: time.Now().UTC(),
	})
}

// Records returns the accumulated records ordered by filename.
func (p *ProcessingContext) Records() []*entity.InspectionRecord {
	p.mu.Lock()
	out := make([]*entity.InspectionRecord, len(p.records))
	copy(out, p.records)
	p.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out
}

// Outcomes returns one entry per processed document, ordered by filename.
func (p *ProcessingContext) Outcomes() []entity.DocumentOutcome {
	p.mu.Lock()
	out := make([]entity.DocumentOutcome, len(p.outcomes))
	copy(out, p.outcomes)
	p.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out
}

// Failures returns the outcomes of documents that produced no record.
func (p *ProcessingContext) Failures() []entity.DocumentOutcome {
	var out []entity.DocumentOutcome
	for _, o := range p.Outcomes() {
		if o.Status != constants.DocumentStatusExtracted {
			out = append(out, o)
		}
	}
	return out
}
