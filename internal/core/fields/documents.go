package fields

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/inspection-extractor/internal/core/text"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

var officeLetterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`of[ií]cio`),
	regexp.MustCompile(`of\.`),
	regexp.MustCompile(`ofc`),
	regexp.MustCompile(`oficio`),
	regexp.MustCompile(`of[\s\-]?[0-9]`),
}

var reOfficeReply = regexp.MustCompile(`(?i)c[óo]pia\s+art`)

// ARTDateStrategies locate the ART date in the received-documents section.
// The first strategy that matches decides the result.
var ARTDateStrategies = []Strategy{
	{Name: "outros_dash", Pattern: regexp.MustCompile(`(?i)OUTROS\s*[-\s]*(\d{2}/\d{2}/\d{4})`)},
	{Name: "outros_loose", Pattern: regexp.MustCompile(`(?i)OUTROS[^\d]*(\d{2}/\d{2}/\d{4})`)},
}

// RequestedDocuments returns section-05 content up to any "Fonte Informação" marker.
func RequestedDocuments(section05 string) string {
	before, _, _ := strings.Cut(section05, "Fonte Informação")
	return strings.TrimSpace(before)
}

// OfficeLetter reports whether the requested documents mention an office letter.
func OfficeLetter(requested string) bool {
	if text.IsAbsent(requested) {
		return false
	}
	lower := strings.ToLower(requested)
	for _, re := range officeLetterPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// OfficeReply reports whether section 06 holds a copy of the ART.
func OfficeReply(section06 string) bool {
	if text.IsAbsent(section06) {
		return false
	}
	return reOfficeReply.MatchString(section06)
}

// ARTDate returns the date after "OUTROS" in section 06. A match that is not
// a real calendar date yields the zero Date.
func ARTDate(section06 string) entity.Date {
	if text.IsAbsent(section06) {
		return entity.Date{}
	}
	raw, _, ok := FirstMatch(ARTDateStrategies, section06)
	if !ok {
		return entity.Date{}
	}
	d, _ := ParseDate(raw)
	return d
}
