package fields

import (
	"regexp"

	"github.com/joseph-ayodele/inspection-extractor/internal/core/sections"
)

var (
	reCitationNumber = regexp.MustCompile(`(?i)AUTUA[ÇC][ÃA]O\s*[-:]?\s*(\d+)`)
	reCitationWord   = regexp.MustCompile(`(?i)AUTUA[ÇC][ÃA]O`)
	reActivityBranch = regexp.MustCompile(`(?i)Ramo\s+Atividade\s*:`)
	reMotivoAcao     = regexp.MustCompile(`(?i)Motivo\s+A[çc][aã]o\s*:`)
	// a Motivo Ação block ends at the next of these, or at end of text
	reMotivoEnd = regexp.MustCompile(`(?i)Ramo\s+Atividade|Documento|Responsável|\n\n`)
)

// CitationNumber returns the digits after the first AUTUAÇÃO token.
func CitationNumber(section04 string) string {
	if m := reCitationNumber.FindStringSubmatch(section04); m != nil {
		return m[1]
	}
	return ""
}

// CountActivityBranches counts "Ramo Atividade :" inside the section-04 span
// of the full text.
func CountActivityBranches(full string) int {
	span, ok := sections.Section04Span(full)
	if !ok {
		return 0
	}
	return len(reActivityBranch.FindAllStringIndex(span, -1))
}

// MotivoBlocks returns the text of every "Motivo Ação :" block in s.
func MotivoBlocks(s string) []string {
	var blocks []string
	for {
		loc := reMotivoAcao.FindStringIndex(s)
		if loc == nil {
			return blocks
		}
		rest := s[loc[1]:]
		end := len(rest)
		if e := reMotivoEnd.FindStringIndex(rest); e != nil {
			end = e[0]
		}
		blocks = append(blocks, rest[:end])
		s = rest[end:]
	}
}

// CountCitations sums AUTUAÇÃO occurrences over the Motivo Ação blocks of
// the section-04 span.
func CountCitations(full string) int {
	span, ok := sections.Section04Span(full)
	if !ok {
		return 0
	}
	n := 0
	for _, block := range MotivoBlocks(span) {
		n += len(reCitationWord.FindAllStringIndex(block, -1))
	}
	return n
}
