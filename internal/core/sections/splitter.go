// Package sections splits the full text of a report into its numbered sections.
package sections

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/inspection-extractor/constants"
	"github.com/joseph-ayodele/inspection-extractor/internal/core/text"
)

// generic header of any numbered section, e.g. "05 - Documentos"
var reHeader = regexp.MustCompile(`(?i)\d{2}\s*-\s*[A-Z]`)

var (
	reSection04Start = regexp.MustCompile(`(?i)04\s*-\s*Identificação dos Contratados, Responsáveis Técnicos e/ou Fiscalizados`)
	reSection04End   = regexp.MustCompile(`(?i)05\s*-\s*Documentos Solicitados`)
)

// Section is the content found under one catalog label.
type Section struct {
	Label    constants.SectionLabel
	Content  string
	Present  bool
	Strategy string
}

// Strategy locates the heading of one catalog section.
type Strategy struct {
	Name     string
	Patterns map[constants.SectionLabel]*regexp.Regexp
}

// Strategies are tried in order; the first that finds the heading wins.
var Strategies = []Strategy{
	{Name: "exact_label", Patterns: compileAll(exactLabel)},
	{Name: "title_only", Patterns: compileAll(titleOnly)},
}

func exactLabel(label constants.SectionLabel) string {
	return `(?i)` + regexp.QuoteMeta(string(label))
}

// titleOnly matches the title as a heading line of its own: at the start of a
// line, optionally behind the section's own number, and ending the line or
// followed by a colon. Any whitespace between words is tolerated. A title
// mentioned inside a sentence is not a heading.
func titleOnly(label constants.SectionLabel) string {
	words := strings.Fields(label.Title())
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return `(?im)^[ \t]*(?:` + regexp.QuoteMeta(label.Number()) + `\s*-\s*)?` +
		strings.Join(words, `\s+`) + `[ \t]*:?[ \t]*$`
}

func compileAll(pattern func(constants.SectionLabel) string) map[constants.SectionLabel]*regexp.Regexp {
	out := make(map[constants.SectionLabel]*regexp.Regexp)
	for _, label := range constants.Sections() {
		out[label] = regexp.MustCompile(pattern(label))
	}
	return out
}

// Locate returns the offset right after the heading for label, or -1.
func (st Strategy) Locate(label constants.SectionLabel, full string) int {
	re, ok := st.Patterns[label]
	if !ok {
		return -1
	}
	loc := re.FindStringIndex(full)
	if loc == nil {
		return -1
	}
	return loc[1]
}

// Sections is the result of one split, keyed by catalog label.
type Sections struct {
	byLabel map[constants.SectionLabel]Section
}

// Split finds every catalog section in full. It never fails: a section that
// cannot be located, or whose content is an absence marker, is not present.
func Split(full string) Sections {
	out := Sections{byLabel: make(map[constants.SectionLabel]Section, len(constants.Sections()))}
	for _, label := range constants.Sections() {
		out.byLabel[label] = extract(label, full)
	}
	return out
}

func extract(label constants.SectionLabel, full string) Section {
	sec := Section{Label: label}
	for _, st := range Strategies {
		start := st.Locate(label, full)
		if start < 0 {
			continue
		}
		rest := full[start:]
		if loc := reHeader.FindStringIndex(rest); loc != nil {
			rest = rest[:loc[0]]
		}
		content := strings.TrimSpace(rest)
		sec.Strategy = st.Name
		if !text.IsAbsent(content) {
			sec.Content = content
			sec.Present = true
		}
		return sec
	}
	return sec
}

// Get returns the section for label; the zero Section when unknown.
func (s Sections) Get(label constants.SectionLabel) Section {
	if sec, ok := s.byLabel[label]; ok {
		return sec
	}
	return Section{Label: label}
}

// Content returns the section text, or "" when absent.
func (s Sections) Content(label constants.SectionLabel) string {
	return s.Get(label).Content
}

// PresentCount is the number of sections with content.
func (s Sections) PresentCount() int {
	n := 0
	for _, sec := range s.byLabel {
		if sec.Present {
			n++
		}
	}
	return n
}

// Section04Span returns the raw text between the contracted-parties heading
// and the requested-documents heading (or end of text). ok is false when the
// heading is missing.
func Section04Span(full string) (span string, ok bool) {
	loc := reSection04Start.FindStringIndex(full)
	if loc == nil {
		return "", false
	}
	rest := full[loc[1]:]
	if end := reSection04End.FindStringIndex(rest); end != nil {
		rest = rest[:end[0]]
	}
	return rest, true
}
