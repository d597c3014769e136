package fields

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/inspection-extractor/internal/core/text"
)

// Address holds the sub-fields of section 01.
type Address struct {
	Street      string
	Latitude    string
	Longitude   string
	Description string
}

var (
	reLatitude  = regexp.MustCompile(`Latitude\s*:\s*([-\d,.]+)`)
	reLongitude = regexp.MustCompile(`Longitude\s*:\s*([-\d,.]+)`)
	reAddrMark  = regexp.MustCompile(`Latitude|Longitude|Descriptivo:|Descritivo:`)
)

// descriptive markers; the misspelled form is the one printed on the reports
var descriptionMarkers = []string{"Descriptivo:", "Descritivo:"}

// ParseAddress splits section-01 content into its sub-fields.
func ParseAddress(section01 string) Address {
	var a Address
	if text.IsAbsent(section01) {
		return a
	}
	if m := reLatitude.FindStringSubmatch(section01); m != nil {
		a.Latitude = text.Collapse(m[1])
	}
	if m := reLongitude.FindStringSubmatch(section01); m != nil {
		a.Longitude = text.Collapse(m[1])
	}
	for _, marker := range descriptionMarkers {
		if i := strings.LastIndex(section01, marker); i >= 0 {
			a.Description = text.Present(section01[i+len(marker):])
			break
		}
	}
	street := section01
	if loc := reAddrMark.FindStringIndex(section01); loc != nil {
		street = section01[:loc[0]]
	}
	a.Street = text.Present(street)
	return a
}
