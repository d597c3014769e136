package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/inspection-extractor/constants"
	"github.com/joseph-ayodele/inspection-extractor/internal/common"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

const (
	SheetFull    = "Dados Completos"
	SheetSummary = "Resumo"
	SheetReport  = "Relatório"

	totalLabel = "TOTAL"
)

// summaryHeaders is the "Resumo" subset of the public columns.
var summaryHeaders = []string{
	"RF", "RF Principal", "Fiscal", "Supervisão", "Data", "Data ART", "Regularização",
	"Fato Gerador", "Protocolo", "Identificação dos Contratados/Responsáveis", "Autuação",
	"Ações", "Ofício", "Resposta Ofício", "Fotos",
}

// Columns summed by the TOTAL row of the data sheets.
var summedHeaders = map[string]bool{"Ações": true, "Ofício": true, "Resposta Ofício": true}

var reportHeaders = []string{
	"RFs", "RF Principal", "Data ART", "Regularização", "Data", "Ações", "Ofícios",
	"Resposta Ofícios", "Protocolos", "Autuações", "Fotos",
}

// Service renders batch results into a workbook.
type Service struct {
	supervisionTag string
	logger         *slog.Logger
	now            func() time.Time
}

func NewService(supervisionTag string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if supervisionTag == "" {
		supervisionTag = constants.DefaultSupervisionTag
	}
	return &Service{supervisionTag: supervisionTag, logger: logger, now: time.Now}
}

// WorkbookXLSX returns the three-sheet workbook (as bytes) for the given records.
func (s *Service) WorkbookXLSX(ctx context.Context, recs []*entity.InspectionRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, s.exportErr("style", err)
	}

	if err := f.SetSheetName("Sheet1", SheetFull); err != nil {
		return nil, s.exportErr("rename sheet", err)
	}
	cols := entity.PublicColumns()
	if err := writeTable(f, SheetFull, cols, recs, bold); err != nil {
		return nil, s.exportErr(SheetFull, err)
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, s.exportErr(SheetSummary, err)
	}
	if err := writeTable(f, SheetSummary, pick(cols, summaryHeaders), recs, bold); err != nil {
		return nil, s.exportErr(SheetSummary, err)
	}

	if _, err := f.NewSheet(SheetReport); err != nil {
		return nil, s.exportErr(SheetReport, err)
	}
	if err := s.writeReport(f, Summarize(recs), bold); err != nil {
		return nil, s.exportErr(SheetReport, err)
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, s.exportErr("xlsx write", err)
	}

	s.logger.Info("export.xlsx.ok", append(common.LogAttrs(ctx),
		"rows", len(recs),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)...)
	return buf.Bytes(), nil
}

func pick(cols []entity.Column, headers []string) []entity.Column {
	byHeader := make(map[string]entity.Column, len(cols))
	for _, c := range cols {
		byHeader[c.Header] = c
	}
	out := make([]entity.Column, 0, len(headers))
	for _, h := range headers {
		if c, ok := byHeader[h]; ok {
			out = append(out, c)
		}
	}
	return out
}

// writeTable writes a header row, one row per record and the TOTAL row.
func writeTable(f *excelize.File, sheet string, cols []entity.Column, recs []*entity.InspectionRecord, headerStyle int) error {
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	sums := make([]int, len(cols))
	row := 2
	for _, r := range recs {
		if r == nil {
			continue
		}
		values := make([]any, len(cols))
		for i, c := range cols {
			values[i] = c.Value(r)
			if summedHeaders[c.Header] {
				if n, ok := values[i].(int); ok {
					sums[i] += n
				}
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		row++
	}

	total := make([]any, len(cols))
	for i, c := range cols {
		switch {
		case i == 0:
			total[i] = totalLabel
		case summedHeaders[c.Header]:
			total[i] = sums[i]
		default:
			total[i] = nil
		}
	}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheet, cell, &total); err != nil {
		return err
	}

	last, _ := excelize.ColumnNumberToName(len(cols))
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 18)
}

func (s *Service) writeReport(f *excelize.File, sum Summary, bold int) error {
	const sheet = SheetReport
	row := 1
	line := func(v any) error {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		row++
		return f.SetCellValue(sheet, cell, v)
	}

	if err := line("Relatório Completo de Fiscalização"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", bold); err != nil {
		return err
	}
	if err := line("Agente de Fiscalização: " + sum.Inspector); err != nil {
		return err
	}
	if err := line("Supervisão: " + s.supervisionTag); err != nil {
		return err
	}
	if p := sum.Period(); p != "" {
		if err := line("Período: " + p); err != nil {
			return err
		}
	}
	if err := line("Gerado em: " + s.now().Format("02/01/2006 15:04:05")); err != nil {
		return err
	}
	row++

	header := make([]any, len(reportHeaders))
	for i, h := range reportHeaders {
		header[i] = h
	}
	headerCell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheet, headerCell, &header); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(reportHeaders))
	if err := f.SetCellStyle(sheet, headerCell, fmt.Sprintf("%s%d", lastCol, row), bold); err != nil {
		return err
	}
	row++

	for _, r := range sum.Rows {
		values := []any{r.RF, r.PrincipalRF, r.ARTDate, r.Regularization, r.Date, r.Actions,
			r.Letters, r.Replies, r.Protocols, r.Citations, r.Photos}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		row++
	}

	t := sum.Totals
	totals := []any{fmt.Sprintf("%s (%d)", totalLabel, t.Records), nil, nil, t.Regularized, nil,
		t.Actions, t.Letters, t.Replies, t.Protocols, t.Citations, t.WithPhotos}
	totalCell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheet, totalCell, &totals); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, totalCell, fmt.Sprintf("%s%d", lastCol, row), bold); err != nil {
		return err
	}
	row += 2

	notesCell, _ := excelize.CoordinatesToCellName(1, row)
	if err := line("Informações Complementares"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, notesCell, notesCell, bold); err != nil {
		return err
	}
	if len(sum.Notes) == 0 {
		if err := line("Nenhuma informação complementar disponível."); err != nil {
			return err
		}
	}
	for _, n := range sum.Notes {
		if err := line("RF: " + n.RF); err != nil {
			return err
		}
		if err := line(n.Text); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 22)
	_ = f.SetColWidth(sheet, "B", lastCol, 16)
	return nil
}

func (s *Service) exportErr(op string, err error) error {
	s.logger.Error("export.xlsx.failed", "op", op, "error", err)
	return common.NewAppError(common.CodeExport, op, err)
}
