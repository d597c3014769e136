package core

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/inspection-extractor/internal/common"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

// DocumentSource opens an input file as a Document.
type DocumentSource interface {
	Open(ctx context.Context, path string) (*entity.Document, error)
}

// Processor coordinates opening a document and assembling its record.
type Processor struct {
	logger    *slog.Logger
	source    DocumentSource
	assembler *Assembler
}

func NewProcessor(logger *slog.Logger, source DocumentSource, assembler *Assembler) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if assembler == nil {
		assembler = NewAssembler(logger, nil, "")
	}
	return &Processor{logger: logger, source: source, assembler: assembler}
}

// ProcessFile opens path and assembles its record into pctx. A document that
// cannot be opened is recorded in pctx as a failure and its error returned;
// the caller keeps going with the rest of the batch.
func (p *Processor) ProcessFile(ctx context.Context, pctx *ProcessingContext, path string) (*entity.InspectionRecord, error) {
	filename := filepath.Base(path)
	ctx = common.WithDocument(common.WithBatchID(ctx, pctx.BatchID.String()), filename)
	start := time.Now()

	doc, err := p.source.Open(ctx, path)
	if err != nil {
		if !errors.Is(err, common.ErrDocumentUnreadable) && ctx.Err() == nil {
			err = common.DocumentUnreadable(filename, err)
		}
		pctx.AddFailure(filename, err)
		p.logger.Error("processor.open.failed", append(common.LogAttrs(ctx), "path", path, "err", err)...)
		return nil, err
	}
	if doc.Filename == "" {
		named := *doc
		named.Filename = filename
		doc = &named
	}

	rec := p.ProcessDocument(ctx, pctx, doc)
	p.logger.Debug("processor.file.done", append(common.LogAttrs(ctx),
		"pages", len(doc.PageList()), "took_ms", time.Since(start).Milliseconds())...)
	return rec, nil
}

// ProcessDocument assembles an already opened document into pctx.
func (p *Processor) ProcessDocument(ctx context.Context, pctx *ProcessingContext, doc *entity.Document) *entity.InspectionRecord {
	rec := p.assembler.Assemble(ctx, doc, pctx.PhotoDir(doc.Filename))
	pctx.AddRecord(rec)
	return rec
}
