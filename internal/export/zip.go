package export

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/joseph-ayodele/inspection-extractor/internal/common"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

// PhotosZipName is the archive written next to the workbook.
const PhotosZipName = "fotos_extraidas.zip"

// ZipPhotos writes every extracted photo of recs into w. Entry names are
// relative to photosRoot, so each document keeps its own directory.
// It returns the number of files written; zero means w holds an empty archive.
func (s *Service) ZipPhotos(ctx context.Context, w io.Writer, photosRoot string, recs []*entity.InspectionRecord) (int, error) {
	var paths []string
	for _, r := range recs {
		if r == nil {
			continue
		}
		for _, img := range r.Images {
			paths = append(paths, img.Path)
		}
	}
	sort.Strings(paths)

	zw := zip.NewWriter(w)
	n := 0
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			return n, err
		}
		name, err := filepath.Rel(photosRoot, p)
		if err != nil {
			name = filepath.Base(p)
		}
		if err := addFile(zw, p, filepath.ToSlash(name)); err != nil {
			_ = zw.Close()
			s.logger.Error("export.zip.failed", "path", p, "error", err)
			return n, common.NewAppError(common.CodeExport, "zip "+name, err)
		}
		n++
	}
	if err := zw.Close(); err != nil {
		return n, common.NewAppError(common.CodeExport, "zip close", err)
	}
	s.logger.Info("export.zip.ok", append(common.LogAttrs(ctx), "files", n)...)
	return n, nil
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	dst, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, f)
	return err
}
