package constants

import (
	"sort"
	"strings"
)

// AllowedExtensions holds the file extensions picked up by directory discovery.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// DefaultSupervisionTag is stamped on every record ("Supervisão Sigla").
const DefaultSupervisionTag = "SBXD"

// PhotosDirName is the per-batch directory holding one sub-directory per document.
const PhotosDirName = "fotos"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether ext (with or without dot) is accepted for ingestion.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// Extensions lists AllowedExtensions in sorted order.
func Extensions() []string {
	out := make([]string, 0, len(AllowedExtensions))
	for ext := range AllowedExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
