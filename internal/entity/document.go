package entity

import "strings"

// ImageBlob is one embedded raster image with its placement on the page.
// Coordinates are in page units with the origin at the top-left corner.
type ImageBlob struct {
	X0     float64 `json:"x0"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Data   []byte  `json:"-"`
}

// Page is one page of a Document.
type Page struct {
	Number int         `json:"number"` // 1-based
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Text   string      `json:"text"`
	Images []ImageBlob `json:"images,omitempty"`
}

// Document is one input unit as produced by the document source.
// It is treated as immutable once constructed.
type Document struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
	Pages    []Page `json:"pages"`
}

// NewDocument builds a Document whose full text is the page texts joined by newlines.
func NewDocument(filename string, pages []Page) *Document {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return &Document{
		Filename: filename,
		Text:     strings.Join(texts, "\n"),
		Pages:    pages,
	}
}

// FullText returns the whole extracted text.
func (d *Document) FullText() string {
	if d == nil {
		return ""
	}
	return d.Text
}

// PageList returns the ordered pages.
func (d *Document) PageList() []Page {
	if d == nil {
		return nil
	}
	return d.Pages
}
