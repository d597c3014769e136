package fields

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/inspection-extractor/internal/core/text"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

var (
	// four-digit year first, so "05/06/2023" is not read as "05/06/20"
	rePriorReportDate = regexp.MustCompile(`(?i)Data\s+do\s+Relat[óo]rio\s+Anterior\s*:\s*(\d{2}/\d{2}/(?:\d{4}|\d{2}))`)
	reComplementary   = regexp.MustCompile(`(?is)Informações\s+Complementares\s*:\s*[^(]*\(([^)]+)\)`)
)

// PriorReportDate returns the previous report date from section 07.
// Two-digit years are read as 20YY.
func PriorReportDate(section07 string) entity.Date {
	if text.IsAbsent(section07) {
		return entity.Date{}
	}
	m := rePriorReportDate.FindStringSubmatch(section07)
	if m == nil {
		return entity.Date{}
	}
	raw := m[1]
	if len(raw) == len("DD/MM/YY") {
		raw = raw[:6] + "20" + raw[6:]
	}
	d, _ := ParseDate(raw)
	return d
}

// ComplementaryInfo returns the text inside the first parenthesis group after
// "Informações Complementares :", collapsed.
func ComplementaryInfo(section07 string) string {
	if text.IsAbsent(section07) {
		return ""
	}
	m := reComplementary.FindStringSubmatch(section07)
	if m == nil {
		return ""
	}
	return text.Collapse(strings.TrimSpace(m[1]))
}
