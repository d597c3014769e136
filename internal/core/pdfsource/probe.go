package pdfsource

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ProbeResult summarises a PDF's structure before any text is pulled out.
type ProbeResult struct {
	Pages        int
	ImageObjects int
}

// Prober checks that a file is a readable PDF.
type Prober interface {
	Probe(path string) (ProbeResult, error)
}

type pdfcpuProber struct{}

func (pdfcpuProber) Probe(path string) (ProbeResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ProbeResult{}, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("pdfcpu read: %w", err)
	}
	res := ProbeResult{Pages: ctx.PageCount}
	if ctx.Optimize != nil {
		for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
			res.ImageObjects += len(pdfcpu.ImageObjNrs(ctx, pageNr))
		}
	}
	return res, nil
}
