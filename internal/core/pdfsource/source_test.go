package pdfsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/joseph-ayodele/inspection-extractor/internal/common"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

type fakeProber struct {
	err error
}

func (f fakeProber) Probe(string) (ProbeResult, error) {
	return ProbeResult{Pages: 2, ImageObjects: 1}, f.err
}

// fakeRunner answers pdftotext from memory and emulates pdftohtml by writing
// its XML and image files next to the requested prefix.
type fakeRunner struct {
	text     string
	textErr  error
	xml      string
	images   map[string][]byte
	htmlErr  error
	commands []string
}

func (f *fakeRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	f.commands = append(f.commands, name+" "+strings.Join(args, " "))
	switch name {
	case "pdftotext":
		if f.textErr != nil {
			return nil, []byte("Syntax Error: Couldn't read xref table"), f.textErr
		}
		return []byte(f.text), nil, nil
	case "pdftohtml":
		if f.htmlErr != nil {
			return nil, nil, f.htmlErr
		}
		prefix := args[len(args)-1]
		dir := filepath.Dir(prefix)
		xmlDoc := strings.ReplaceAll(f.xml, "{prefix}", prefix)
		if err := os.WriteFile(prefix+".xml", []byte(xmlDoc), 0o644); err != nil {
			return nil, nil, err
		}
		for name, data := range f.images {
			if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	}
	return nil, nil, fmt.Errorf("unexpected command %s", name)
}

const layoutXML = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE pdf2xml SYSTEM "pdf2xml.dtd">
<pdf2xml producer="poppler" version="23.08.0">
<page number="1" position="absolute" top="0" left="0" height="842" width="595">
<text top="40" left="50" width="200" height="12" font="0">Relatório &amp; Fiscalização</text>
</page>
<page number="2" position="absolute" top="0" left="0" height="842" width="595">
<image top="300" left="150" width="300" height="225" src="{prefix}-2_1.png"/>
<image top="20" left="20" width="60" height="60" src="doc-2_2.png"/>
</page>
</pdf2xml>
`

func TestOpenBuildsPagesWithImages(t *testing.T) {
	runner := &fakeRunner{
		text: "Número : 1\r\n01 - Endereço\f08 - Fotos\n\f",
		xml:  layoutXML,
		images: map[string][]byte{
			"doc-2_1.png": []byte("photo-bytes"),
			"doc-2_2.png": []byte("logo-bytes"),
		},
	}
	src := New(Config{WorkDir: t.TempDir(), MaxPages: 50}, nil, WithRunner(runner), WithProber(fakeProber{}))

	doc, err := src.Open(context.Background(), "/reports/RF_1.PDF")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	want := &entity.Document{
		Filename: "RF_1.PDF",
		Text:     "Número : 1\n01 - Endereço\n08 - Fotos",
		Pages: []entity.Page{
			{Number: 1, Width: 595, Height: 842, Text: "Número : 1\n01 - Endereço"},
			{Number: 2, Width: 595, Height: 842, Text: "08 - Fotos", Images: []entity.ImageBlob{
				{X0: 150, Top: 300, Width: 300, Height: 225, Data: []byte("photo-bytes")},
				{X0: 20, Top: 20, Width: 60, Height: 60, Data: []byte("logo-bytes")},
			}},
		},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
	if len(runner.commands) != 2 || !strings.Contains(runner.commands[0], "-l 50") {
		t.Errorf("commands = %q", runner.commands)
	}
}

func TestOpenLayoutFailureKeepsText(t *testing.T) {
	runner := &fakeRunner{text: "Número : 7\f", htmlErr: errors.New("exit status 3")}
	src := New(Config{WorkDir: t.TempDir()}, nil, WithRunner(runner), WithProber(fakeProber{}))

	doc, err := src.Open(context.Background(), "rf.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if doc.FullText() != "Número : 7" || len(doc.PageList()) != 1 || len(doc.Pages[0].Images) != 0 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestOpenUnreadable(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		runner *fakeRunner
		prober fakeProber
	}{
		{"extension", "rf.docx", &fakeRunner{}, fakeProber{}},
		{"probe", "rf.pdf", &fakeRunner{}, fakeProber{err: errors.New("pdfcpu read: not a PDF")}},
		{"pdftotext", "rf.pdf", &fakeRunner{textErr: errors.New("exit status 1")}, fakeProber{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := New(Config{WorkDir: t.TempDir()}, nil, WithRunner(tt.runner), WithProber(tt.prober))
			_, err := src.Open(context.Background(), tt.path)
			if !errors.Is(err, common.ErrDocumentUnreadable) {
				t.Fatalf("err = %v, want DocumentUnreadable", err)
			}
		})
	}
}

func TestSplitPages(t *testing.T) {
	got := splitPages("a\tb\fc\n\n\n\nd\f")
	if diff := cmp.Diff([]string{"a b", "c\n\nd"}, got); diff != "" {
		t.Errorf("splitPages (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{""}, splitPages(""), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("empty output (-want +got):\n%s", diff)
	}
}

func TestParseLayoutTolerant(t *testing.T) {
	l, err := parseLayout(strings.NewReader(`<pdf2xml><page number="1" width="10" height="20"><text>R&eacute;sum&eacute; AT&T</text></page></pdf2xml>`))
	if err != nil {
		t.Fatalf("parseLayout: %v", err)
	}
	if len(l.Pages) != 1 || l.Pages[0].Width != 10 {
		t.Errorf("layout = %+v", l)
	}
}

func TestToolErrorMessage(t *testing.T) {
	tests := []struct {
		err  *ToolError
		want string
	}{
		{&ToolError{Tool: "pdftotext", ExitCode: 1, Stderr: "Syntax Error"}, "pdftotext exited with 1 (cannot open document): Syntax Error"},
		{&ToolError{Tool: "pdftohtml", ExitCode: 3}, "pdftohtml exited with 3 (permission denied)"},
		{&ToolError{Tool: "pdftotext", ExitCode: 42}, "pdftotext exited with 42 (unknown)"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
	if got := truncate("abcdef", 3); got != "abc...(truncated)" {
		t.Errorf("truncate = %q", got)
	}
}
