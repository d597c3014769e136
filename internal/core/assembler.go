package core

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/inspection-extractor/constants"
	"github.com/joseph-ayodele/inspection-extractor/internal/common"
	"github.com/joseph-ayodele/inspection-extractor/internal/core/derive"
	"github.com/joseph-ayodele/inspection-extractor/internal/core/fields"
	"github.com/joseph-ayodele/inspection-extractor/internal/core/photos"
	"github.com/joseph-ayodele/inspection-extractor/internal/core/schema"
	"github.com/joseph-ayodele/inspection-extractor/internal/core/sections"
	"github.com/joseph-ayodele/inspection-extractor/internal/core/text"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

// Assembler turns one Document into one InspectionRecord. It holds no
// per-document state and is safe for concurrent use.
type Assembler struct {
	logger         *slog.Logger
	classifier     *photos.Classifier
	supervisionTag string
}

func NewAssembler(logger *slog.Logger, classifier *photos.Classifier, supervisionTag string) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	if classifier == nil {
		classifier = photos.NewClassifier(photos.DefaultConfig(), logger)
	}
	if supervisionTag == "" {
		supervisionTag = constants.DefaultSupervisionTag
	}
	return &Assembler{logger: logger, classifier: classifier, supervisionTag: supervisionTag}
}

// Assemble extracts every field of doc and writes its photos into photoDir.
// It never fails: missing data leaves the field at its default.
func (a *Assembler) Assemble(ctx context.Context, doc *entity.Document, photoDir string) *entity.InspectionRecord {
	full := doc.FullText()
	secs := sections.Split(full)
	rec := entity.NewInspectionRecord(doc.Filename)
	rec.SupervisionTag = a.supervisionTag

	a.applyHeader(rec, full)
	a.applySections(rec, full, secs)
	rec.Regularization = derive.Regularization(rec.ARTDate, rec.PriorReportDate)

	res := a.classifier.Classify(ctx, doc, photoDir)
	rec.Images = res.Images
	rec.PhotosExtracted = len(res.Images)
	rec.Photos = derive.PhotoSummary(res.SectionFound, rec.PhotosExtracted)

	if err := schema.Validate(rec); err != nil {
		a.logger.Warn("assemble.schema.invalid", append(common.LogAttrs(ctx), "err", err)...)
	}
	a.logger.Info("assemble.ok", append(common.LogAttrs(ctx),
		"rf", rec.RF,
		"sections", secs.PresentCount(),
		"acoes", rec.Actions,
		"autuacoes", rec.AutuacaoCount,
		"regularizacao", string(rec.Regularization),
		"fotos", rec.PhotosExtracted,
	)...)
	return rec
}

func (a *Assembler) applyHeader(rec *entity.InspectionRecord, full string) {
	meta := fields.Labeled(full)
	rec.RF = meta.Number
	rec.Status = meta.Status
	rec.Inspector = fields.InspectorShort(meta.Agent)
	rec.InspectorName = fields.InspectorFullName(meta.Agent)
	rec.Supervisor = fields.Supervisor(meta.Responsible)
	rec.ReportDate = fields.ReportDate(meta.ReportDate)
	rec.TriggeringEvent = meta.TriggeringEvent
	// the protocol always comes from the triggering event; the labeled value is free text
	rec.Protocol = fields.ProtocolNumber(meta.TriggeringEvent)
	rec.VisitType = meta.VisitType
	rec.PrincipalRF = fields.PrincipalRF(full)
}

func (a *Assembler) applySections(rec *entity.InspectionRecord, full string, secs sections.Sections) {
	addr := fields.ParseAddress(secs.Content(constants.SectionAddress))
	rec.Address = addr.Street
	rec.Latitude = addr.Latitude
	rec.Longitude = addr.Longitude
	rec.Description = addr.Description

	rec.Contractor = text.Collapse(secs.Content(constants.SectionContractor))
	rec.Activity = text.Collapse(secs.Content(constants.SectionActivity))

	sec04 := secs.Content(constants.SectionContractedParties)
	rec.ContractedParties = text.Collapse(sec04)
	rec.Citation = fields.CitationNumber(sec04)
	rec.Actions = derive.Actions(fields.CountActivityBranches(full))
	rec.AutuacaoCount = fields.CountCitations(full)

	requested := fields.RequestedDocuments(secs.Content(constants.SectionRequestedDocuments))
	rec.RequestedDocuments = text.Collapse(requested)
	rec.OfficeLetter = fields.OfficeLetter(requested)

	sec06 := secs.Content(constants.SectionReceivedDocuments)
	rec.ReceivedDocuments = text.Collapse(sec06)
	rec.ARTDate = fields.ARTDate(sec06)
	rec.OfficeReply = fields.OfficeReply(sec06)

	sec07 := secs.Content(constants.SectionOtherInformation)
	rec.PriorReportDate = fields.PriorReportDate(sec07)
	rec.ComplementaryInfo = fields.ComplementaryInfo(sec07)
}
