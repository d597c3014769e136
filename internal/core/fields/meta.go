package fields

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/inspection-extractor/internal/core/text"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

// Meta holds the labeled header fields of a report, collapsed and
// absence-filtered but otherwise raw.
type Meta struct {
	Number          string
	Status          string
	Agent           string
	Responsible     string
	ReportDate      string
	TriggeringEvent string
	Protocol        string
	VisitType       string
}

// Labels are matched case-sensitively; the value runs to the end of the line.
var metaLabels = []struct {
	pattern *regexp.Regexp
	set     func(m *Meta, v string)
}{
	{regexp.MustCompile(`Número\s*:\s*([^\n]+)`), func(m *Meta, v string) { m.Number = v }},
	{regexp.MustCompile(`Situação\s*:\s*([^\n]+)`), func(m *Meta, v string) { m.Status = v }},
	{regexp.MustCompile(`Agente\s+de\s+Fiscalização\s*:\s*([^\n]+)`), func(m *Meta, v string) { m.Agent = v }},
	{regexp.MustCompile(`Responsável\s*:\s*([^\n]+)`), func(m *Meta, v string) { m.Responsible = v }},
	{regexp.MustCompile(`Data\s+Relatório\s*:\s*([^\n]+)`), func(m *Meta, v string) { m.ReportDate = v }},
	{regexp.MustCompile(`Fato\s+Gerador\s*:\s*([^\n]+)`), func(m *Meta, v string) { m.TriggeringEvent = v }},
	{regexp.MustCompile(`Protocolo\s*:\s*([^\n]+)`), func(m *Meta, v string) { m.Protocol = v }},
	{regexp.MustCompile(`Tipo\s+Visita\s*:\s*([^\n]+)`), func(m *Meta, v string) { m.VisitType = v }},
}

// Labeled captures every labeled header field from the full text.
func Labeled(full string) Meta {
	var m Meta
	for _, l := range metaLabels {
		if match := l.pattern.FindStringSubmatch(full); match != nil {
			l.set(&m, text.Present(match[1]))
		}
	}
	return m
}

var (
	reProtocol    = regexp.MustCompile(`(?i)(?:PROCESSO|PROTOCOLO)[/\s]*(\d+)`)
	rePrincipalRF = regexp.MustCompile(`(?i)RF Principal\s*:\s*(\d+)`)
	reInspector   = regexp.MustCompile(`^(\d+)\s*-\s*([\p{L}\s]+)`)
	reFirstDate   = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
)

// ProtocolNumber returns the digits after PROCESSO or PROTOCOLO in the
// triggering-event value.
func ProtocolNumber(triggeringEvent string) string {
	if m := reProtocol.FindStringSubmatch(triggeringEvent); m != nil {
		return m[1]
	}
	return ""
}

// PrincipalRF returns the digits after "RF Principal :".
func PrincipalRF(full string) string {
	if m := rePrincipalRF.FindStringSubmatch(full); m != nil {
		return m[1]
	}
	return ""
}

// InspectorShort turns "123 - JOAO DA SILVA" into "123 Joao".
// Input that does not look like "<digits> - <name>" is returned unchanged.
func InspectorShort(agent string) string {
	m := reInspector.FindStringSubmatch(agent)
	if m == nil {
		return agent
	}
	first := strings.Fields(m[2])
	if len(first) == 0 {
		return agent
	}
	return m[1] + " " + capitalize(first[0])
}

// InspectorFullName returns the name part of "<digits> - <name>", or the
// input unchanged.
func InspectorFullName(agent string) string {
	m := reInspector.FindStringSubmatch(agent)
	if m == nil {
		return agent
	}
	if name := strings.TrimSpace(m[2]); name != "" {
		return name
	}
	return agent
}

// Supervisor returns the first non-empty "-"-separated segment.
func Supervisor(responsible string) string {
	for _, part := range strings.Split(responsible, "-") {
		if p := strings.TrimSpace(part); p != "" {
			return p
		}
	}
	return responsible
}

// ReportDate returns the first valid DD/MM/YYYY date in s.
func ReportDate(s string) entity.Date {
	raw := reFirstDate.FindString(s)
	if raw == "" {
		return entity.Date{}
	}
	d, _ := ParseDate(raw)
	return d
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}
