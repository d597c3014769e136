package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

var consoleHeaders = []string{"Arquivo", "RF", "Data", "Regularização", "Ações", "Autuações", "Fotos"}

// maxCell bounds a console cell; longer values are cut with an ellipsis.
const maxCell = 32

// WriteTable prints a column-aligned summary of recs followed by failures.
// Widths are measured in terminal cells so accented text lines up.
func WriteTable(w io.Writer, recs []*entity.InspectionRecord, failures []entity.DocumentOutcome) error {
	rows := [][]string{append([]string(nil), consoleHeaders...)}
	for _, r := range recs {
		if r == nil {
			continue
		}
		rows = append(rows, []string{
			r.Filename,
			r.RF,
			r.ReportDate.String(),
			string(r.Regularization),
			strconv.Itoa(r.Actions),
			strconv.Itoa(r.AutuacaoCount),
			strconv.Itoa(r.PhotosExtracted),
		})
	}

	widths := make([]int, len(consoleHeaders))
	for _, row := range rows {
		for i, cell := range row {
			row[i] = runewidth.Truncate(cell, maxCell, "…")
			if cw := runewidth.StringWidth(row[i]); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for n, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
		if n == 0 {
			seps := make([]string, len(widths))
			for i, cw := range widths {
				seps[i] = strings.Repeat("-", cw)
			}
			if _, err := fmt.Fprintln(w, strings.Join(seps, "  ")); err != nil {
				return err
			}
		}
	}

	if len(failures) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\n%d documento(s) com falha:\n", len(failures)); err != nil {
		return err
	}
	for _, f := range failures {
		if _, err := fmt.Fprintf(w, "  %s  [%s] %s\n", f.Filename, f.Status, f.Error); err != nil {
			return err
		}
	}
	return nil
}
