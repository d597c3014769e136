package pdfsource

import (
	"encoding/xml"
	"fmt"
	"io"
)

// layout is the subset of pdftohtml -xml output we read.
type layout struct {
	Pages []layoutPage `xml:"page"`
}

type layoutPage struct {
	Number int           `xml:"number,attr"`
	Width  float64       `xml:"width,attr"`
	Height float64       `xml:"height,attr"`
	Images []layoutImage `xml:"image"`
}

type layoutImage struct {
	Top    float64 `xml:"top,attr"`
	Left   float64 `xml:"left,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
	Src    string  `xml:"src,attr"`
}

// parseLayout decodes pdftohtml XML. The output is not always well formed
// (stray entities in text runs), so the decoder runs in non-strict mode.
func parseLayout(r io.Reader) (layout, error) {
	var l layout
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	if err := dec.Decode(&l); err != nil {
		return layout{}, fmt.Errorf("decode pdftohtml xml: %w", err)
	}
	return l, nil
}
