// Package fields holds the field extractors. Every extractor is total: a
// missing or malformed value yields the zero value of its type, never an error.
package fields

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

// Strategy is one named pattern; group 1 carries the value.
type Strategy struct {
	Name    string
	Pattern *regexp.Regexp
}

// FirstMatch runs strategies in order and returns the first captured group
// together with the name of the strategy that produced it.
func FirstMatch(strategies []Strategy, s string) (value, name string, ok bool) {
	for _, st := range strategies {
		m := st.Pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if len(m) > 1 {
			return m[1], st.Name, true
		}
		return m[0], st.Name, true
	}
	return "", "", false
}

// ParseDate parses a DD/MM/YYYY value. It never panics; ok is false when the
// text is not a real calendar date.
func ParseDate(s string) (entity.Date, bool) {
	return entity.ParseDate(strings.TrimSpace(s))
}
