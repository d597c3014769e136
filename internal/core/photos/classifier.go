// Package photos selects the content photographs of a report and writes them out.
package photos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/disintegration/imaging"

	"github.com/joseph-ayodele/inspection-extractor/internal/common"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

// Config holds the rejection thresholds.
type Config struct {
	MinDimension    int     // both sides must be at least this, in page units
	MinPayloadBytes int     // payloads of this size or less are rejected
	EdgeMargin      float64 // fraction of the page treated as the outer margin
}

// DefaultConfig returns the thresholds tuned on real reports.
func DefaultConfig() Config {
	return Config{MinDimension: 50, MinPayloadBytes: 500, EdgeMargin: 0.10}
}

// FromCommon maps the application config section onto a classifier Config.
func FromCommon(c common.PhotosConfig) Config {
	return Config{MinDimension: c.MinDimension, MinPayloadBytes: c.MinPayloadBytes, EdgeMargin: c.EdgeMargin}
}

// SectionPatterns find the photo section heading, most specific first.
var SectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)08\s*-?\s*Fotos`),
	regexp.MustCompile(`(?i)Seção\s*08.*Fotos`),
	regexp.MustCompile(`(?i)Fotos`),
	regexp.MustCompile(`(?i)Imagens`),
	regexp.MustCompile(`(?i)Documentação\s*Fotográfica`),
}

// LocatePhotoPage returns the index into pages of the first page carrying a
// photo heading. Patterns are tried one at a time over all pages in order.
func LocatePhotoPage(pages []entity.Page) (index int, found bool) {
	for _, re := range SectionPatterns {
		for i, p := range pages {
			if re.MatchString(p.Text) {
				return i, true
			}
		}
	}
	return 0, false
}

// HasPhotoSection reports whether any photo heading appears in the full text.
func HasPhotoSection(full string) bool {
	for _, re := range SectionPatterns {
		if re.MatchString(full) {
			return true
		}
	}
	return false
}

// Rejection reasons
const (
	RejectTooSmall      = "too_small"
	RejectSmallPayload  = "small_payload"
	RejectCornerLogo    = "corner_logo"
	RejectNoPayloadData = "no_payload"
)

// Candidate is an image blob that passed every rejection rule.
type Candidate struct {
	Page int // 1-based
	Blob entity.ImageBlob
}

// Classifier applies the rejection rules and writes accepted images.
type Classifier struct {
	cfg    Config
	logger *slog.Logger
}

func NewClassifier(cfg Config, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{cfg: cfg, logger: logger}
}

// Reject returns the reason blob is rejected on page, or "".
func (c *Classifier) Reject(page entity.Page, blob entity.ImageBlob) string {
	minDim := float64(c.cfg.MinDimension)
	if blob.Width < minDim || blob.Height < minDim {
		return RejectTooSmall
	}
	if len(blob.Data) == 0 {
		return RejectNoPayloadData
	}
	if len(blob.Data) <= c.cfg.MinPayloadBytes {
		return RejectSmallPayload
	}
	if page.Width > 0 && page.Height > 0 {
		m := c.cfg.EdgeMargin
		vertical := blob.Top < page.Height*m || blob.Top > page.Height*(1-m)
		horizontal := blob.X0 < page.Width*m || blob.X0 > page.Width*(1-m)
		if vertical && horizontal {
			return RejectCornerLogo
		}
	}
	return ""
}

// Select returns the accepted blobs, in page order, from the photo section
// onward, or from every page when no heading is found. It does no I/O.
func (c *Classifier) Select(pages []entity.Page) (cands []Candidate, startPage int, found bool) {
	start, found := LocatePhotoPage(pages)
	for i := start; i < len(pages); i++ {
		p := pages[i]
		num := pageNumber(p, i)
		for j, blob := range p.Images {
			if reason := c.Reject(p, blob); reason != "" {
				c.logger.Debug("photos.reject", "page", num, "image", j+1, "reason", reason,
					"width", blob.Width, "height", blob.Height, "bytes", len(blob.Data))
				continue
			}
			cands = append(cands, Candidate{Page: num, Blob: blob})
		}
	}
	if len(pages) > 0 {
		startPage = pageNumber(pages[start], start)
	}
	return cands, startPage, found
}

func pageNumber(p entity.Page, index int) int {
	if p.Number > 0 {
		return p.Number
	}
	return index + 1
}

// Result is the outcome of classifying one document.
type Result struct {
	Images       []entity.ExtractedImage
	SectionFound bool
	StartPage    int
	Corrupt      int
}

// Classify selects the photos of doc and writes each as PNG into dir. Images
// that fail to decode or write are logged and skipped; Classify never fails.
func (c *Classifier) Classify(ctx context.Context, doc *entity.Document, dir string) Result {
	res := Result{SectionFound: HasPhotoSection(doc.FullText())}
	cands, start, _ := c.Select(doc.PageList())
	res.StartPage = start
	if len(cands) == 0 {
		return res
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.logger.Warn("photos.dir.error", append(common.LogAttrs(ctx), "dir", dir, "err", err)...)
		return res
	}

	for _, cand := range cands {
		if ctx.Err() != nil {
			c.logger.Warn("photos.canceled", append(common.LogAttrs(ctx), "written", len(res.Images))...)
			break
		}
		name := fmt.Sprintf("foto_%d_pag%d.png", len(res.Images)+1, cand.Page)
		img, err := c.write(filepath.Join(dir, name), cand)
		if err != nil {
			res.Corrupt++
			c.logger.Warn("photos.image.skip", append(common.LogAttrs(ctx), "page", cand.Page, "err", err)...)
			continue
		}
		res.Images = append(res.Images, img)
	}
	c.logger.Info("photos.ok", append(common.LogAttrs(ctx),
		"extracted", len(res.Images), "corrupt", res.Corrupt, "section_found", res.SectionFound)...)
	return res
}

func (c *Classifier) write(path string, cand Candidate) (entity.ExtractedImage, error) {
	name := filepath.Base(path)
	decoded, err := imaging.Decode(bytes.NewReader(cand.Blob.Data))
	if err != nil {
		return entity.ExtractedImage{}, common.CorruptImage(name, err)
	}
	if err := imaging.Save(decoded, path); err != nil {
		_ = os.Remove(path)
		return entity.ExtractedImage{}, common.CorruptImage(name, err)
	}
	// re-open what was written so a truncated file never counts as a photo
	check, err := imaging.Open(path)
	if err != nil {
		_ = os.Remove(path)
		return entity.ExtractedImage{}, common.CorruptImage(name, err)
	}
	info, err := os.Stat(path)
	if err == nil && info.Size() == 0 {
		err = errors.New("empty file")
	}
	if err != nil {
		_ = os.Remove(path)
		return entity.ExtractedImage{}, common.CorruptImage(name, err)
	}
	b := check.Bounds()
	return entity.ExtractedImage{
		Name:   name,
		Path:   path,
		Page:   cand.Page,
		Width:  b.Dx(),
		Height: b.Dy(),
		Bytes:  info.Size(),
	}, nil
}
