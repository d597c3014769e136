package export

import (
	"strings"

	"github.com/joseph-ayodele/inspection-extractor/constants"
	"github.com/joseph-ayodele/inspection-extractor/internal/core/derive"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

// SummaryRow is one line of the printable report.
type SummaryRow struct {
	RF             string
	PrincipalRF    string
	ARTDate        string
	Regularization string
	Date           string
	Actions        int
	Letters        int
	Replies        int
	Protocols      int
	Citations      int
	Photos         string
}

// Totals aggregates the summary rows.
type Totals struct {
	Records     int
	Regularized int
	Actions     int
	Letters     int
	Replies     int
	Protocols   int
	Citations   int
	WithPhotos  int
}

// Note is a complementary-information entry keyed by RF.
type Note struct {
	RF   string
	Text string
}

// Summary is the data behind the "Relatório" sheet.
type Summary struct {
	Inspector string
	From, To  entity.Date
	Rows      []SummaryRow
	Totals    Totals
	Notes     []Note
}

const (
	photosYes = "SIM"
	photosNo  = "NÃO"
)

// Summarize builds the report rows and totals. Records are taken in the given order.
func Summarize(recs []*entity.InspectionRecord) Summary {
	var s Summary
	for _, r := range recs {
		if r == nil {
			continue
		}
		if s.Inspector == "" && len(s.Rows) == 0 {
			s.Inspector = r.InspectorName
		}
		if !r.ReportDate.IsZero() {
			if s.From.IsZero() || r.ReportDate.Before(s.From) {
				s.From = r.ReportDate
			}
			if s.To.IsZero() || s.To.Before(r.ReportDate) {
				s.To = r.ReportDate
			}
		}

		row := SummaryRow{
			RF:             r.RF,
			PrincipalRF:    r.PrincipalRF,
			ARTDate:        r.ARTDate.String(),
			Regularization: string(r.Regularization),
			Date:           r.ReportDate.String(),
			Actions:        r.Actions,
			Letters:        entity.FlagValue(r.OfficeLetter),
			Replies:        entity.FlagValue(r.OfficeReply),
			Protocols:      derive.ProtocolPresent(r.Protocol),
			Citations:      r.AutuacaoCount,
			Photos:         photosNo,
		}
		if row.Regularization == "" {
			row.Regularization = string(constants.RegularizationNo)
		}
		if r.PhotosExtracted > 0 {
			row.Photos = photosYes
		}
		s.Rows = append(s.Rows, row)

		t := &s.Totals
		t.Records++
		t.Actions += row.Actions
		t.Letters += row.Letters
		t.Replies += row.Replies
		t.Protocols += row.Protocols
		t.Citations += row.Citations
		if row.Photos == photosYes {
			t.WithPhotos++
		}
		if row.Regularization == string(constants.RegularizationYes) {
			t.Regularized++
		}

		if strings.TrimSpace(r.RF) != "" && strings.TrimSpace(r.ComplementaryInfo) != "" {
			s.Notes = append(s.Notes, Note{RF: r.RF, Text: r.ComplementaryInfo})
		}
	}
	return s
}

// Period renders "DD/MM/YYYY a DD/MM/YYYY", or "" when no record carries a date.
func (s Summary) Period() string {
	if s.From.IsZero() {
		return ""
	}
	return s.From.String() + " a " + s.To.String()
}
