// Package text holds the whitespace and absence rules shared by every extractor.
package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(`[ \x{00A0}]{2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reAnySpace   = regexp.MustCompile(`\s+`)
)

// absence markers, matched after accent folding and upper-casing
var reAbsent = regexp.MustCompile(`^(SEM|NAO)(\s+[A-Z]+)*$`)

// Normalize cleans raw page text from the document collaborator.
// It keeps line breaks but collapses more than one blank line.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Collapse turns newlines into spaces, squeezes whitespace runs and trims.
func Collapse(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(reAnySpace.ReplaceAllString(s, " "))
}

// FoldAccents strips combining marks: "INFORMAÇÃO" becomes "INFORMACAO".
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// IsAbsent reports whether s carries no information: empty, or an explicit
// marker such as "SEM", "NÃO", "NAO INFORMADO" or "SEM INFORMAÇÃO".
func IsAbsent(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	return reAbsent.MatchString(strings.ToUpper(FoldAccents(Collapse(s))))
}

// Present returns the collapsed text, or "" when it is absent.
func Present(s string) string {
	s = Collapse(s)
	if IsAbsent(s) {
		return ""
	}
	return s
}
