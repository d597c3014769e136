// Package pdfsource opens inspection report PDFs through poppler's command
// line tools and turns them into entity.Document values.
package pdfsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/inspection-extractor/constants"
	"github.com/joseph-ayodele/inspection-extractor/internal/common"
	"github.com/joseph-ayodele/inspection-extractor/internal/core/text"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

type Config struct {
	PdfToText string
	PdfToHTML string
	MaxPages  int
	WorkDir   string // scratch space for pdftohtml output; "" means os.TempDir
}

// FromCommon maps the application config section onto a source Config.
func FromCommon(c common.SourceConfig) Config {
	return Config{PdfToText: c.PdfToText, PdfToHTML: c.PdfToHTML, MaxPages: c.MaxPages, WorkDir: c.WorkDir}
}

// Source implements core.DocumentSource.
type Source struct {
	cfg    Config
	runner Runner
	prober Prober
	logger *slog.Logger
}

type Option func(*Source)

func WithRunner(r Runner) Option { return func(s *Source) { s.runner = r } }
func WithProber(p Prober) Option { return func(s *Source) { s.prober = p } }

func New(cfg Config, logger *slog.Logger, opts ...Option) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PdfToText == "" {
		cfg.PdfToText = "pdftotext"
	}
	if cfg.PdfToHTML == "" {
		cfg.PdfToHTML = "pdftohtml"
	}
	s := &Source{cfg: cfg, runner: execRunner{}, prober: pdfcpuProber{}, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open reads the text and embedded images of the PDF at path. Any failure to
// read the file or its text is a DocumentUnreadable error; missing images are not.
func (s *Source) Open(ctx context.Context, path string) (*entity.Document, error) {
	filename := filepath.Base(path)
	if !constants.IsAllowedExt(filepath.Ext(path)) {
		return nil, common.DocumentUnreadable(filename, fmt.Errorf("unsupported extension %q", filepath.Ext(path)))
	}

	probe, err := s.prober.Probe(path)
	if err != nil {
		return nil, common.DocumentUnreadable(filename, err)
	}

	texts, err := s.pageTexts(ctx, path)
	if err != nil {
		return nil, common.DocumentUnreadable(filename, err)
	}

	pl, dir, err := s.pageLayout(ctx, path)
	if dir != "" {
		defer func() {
			if rmErr := os.RemoveAll(dir); rmErr != nil {
				s.logger.Warn("pdfsource.cleanup.failed", "dir", dir, "err", rmErr)
			}
		}()
	}
	if err != nil {
		// text is enough to build a record; photos are best effort
		s.logger.Warn("pdfsource.layout.failed", append(common.LogAttrs(ctx), "err", err)...)
	}

	pages := s.buildPages(ctx, texts, pl, dir)
	s.logger.Debug("pdfsource.open.ok", append(common.LogAttrs(ctx),
		"pages", len(pages), "probe_pages", probe.Pages, "image_objects", probe.ImageObjects)...)
	return entity.NewDocument(filename, pages), nil
}

// pageTexts runs pdftotext; pages are separated by form feeds.
func (s *Source) pageTexts(ctx context.Context, path string) ([]string, error) {
	// pdftotext -enc UTF-8 -eol unix [-l N] <path> -
	args := []string{"-enc", "UTF-8", "-eol", "unix"}
	if s.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(s.cfg.MaxPages))
	}
	args = append(args, path, "-")
	out, errb, err := s.runner.Run(ctx, s.cfg.PdfToText, s.logger, args...)
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
	}
	return splitPages(string(out)), nil
}

func splitPages(out string) []string {
	parts := strings.Split(out, "\f")
	// pdftotext ends every page, including the last, with a form feed
	if n := len(parts); n > 1 && strings.TrimSpace(parts[n-1]) == "" {
		parts = parts[:n-1]
	}
	for i := range parts {
		parts[i] = text.Normalize(parts[i])
	}
	return parts
}

// pageLayout runs pdftohtml -xml into a scratch directory and parses the
// result. The caller removes dir.
func (s *Source) pageLayout(ctx context.Context, path string) (layout, string, error) {
	dir, err := os.MkdirTemp(s.cfg.WorkDir, "rf-layout-*")
	if err != nil {
		return layout{}, "", err
	}
	prefix := filepath.Join(dir, "doc")
	args := []string{"-xml", "-q", "-nodrm", "-zoom", "1", "-fmt", "png", "-enc", "UTF-8"}
	if s.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(s.cfg.MaxPages))
	}
	args = append(args, path, prefix)
	if _, errb, err := s.runner.Run(ctx, s.cfg.PdfToHTML, s.logger, args...); err != nil {
		return layout{}, dir, fmt.Errorf("pdftohtml: %w: %s", err, truncate(string(errb), 512))
	}
	raw, err := os.ReadFile(prefix + ".xml")
	if err != nil {
		return layout{}, dir, err
	}
	l, err := parseLayout(bytes.NewReader(raw))
	return l, dir, err
}

func (s *Source) buildPages(ctx context.Context, texts []string, l layout, dir string) []entity.Page {
	n := len(texts)
	if len(l.Pages) > n {
		n = len(l.Pages)
	}
	if s.cfg.MaxPages > 0 && n > s.cfg.MaxPages {
		n = s.cfg.MaxPages
	}
	pages := make([]entity.Page, n)
	for i := range pages {
		pages[i].Number = i + 1
		if i < len(texts) {
			pages[i].Text = texts[i]
		}
	}
	for _, lp := range l.Pages {
		idx := lp.Number - 1
		if idx < 0 || idx >= n {
			continue
		}
		pages[idx].Width = lp.Width
		pages[idx].Height = lp.Height
		for _, im := range lp.Images {
			data, err := readImage(dir, im.Src)
			if err != nil {
				s.logger.Warn("pdfsource.image.unreadable", append(common.LogAttrs(ctx), "page", lp.Number, "src", im.Src, "err", err)...)
				continue
			}
			pages[idx].Images = append(pages[idx].Images, entity.ImageBlob{
				X0:     im.Left,
				Top:    im.Top,
				Width:  im.Width,
				Height: im.Height,
				Data:   data,
			})
		}
	}
	return pages
}

// readImage resolves src, which pdftohtml writes either with the full output
// prefix or relative to it.
func readImage(dir, src string) ([]byte, error) {
	if src == "" {
		return nil, errors.New("empty src")
	}
	if !filepath.IsAbs(src) {
		src = filepath.Join(dir, filepath.Base(src))
	}
	return os.ReadFile(src)
}
