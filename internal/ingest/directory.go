// Package ingest discovers the report files of a batch.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileResult is the outcome of looking at one candidate file.
type FileResult struct {
	Path         string
	HashHex      string
	Size         int64
	Deduplicated bool // same content as an earlier file; not queued
	Err          string
}

// DirStats summarizes a discovery run.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Discoverer walks input paths and returns the report files to process.
type Discoverer struct {
	logger     *slog.Logger
	exts       map[string]struct{}
	skipHidden bool
}

func NewDiscoverer(logger *slog.Logger, includeExts []string, skipHidden bool) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{logger: logger, exts: extSet(includeExts), skipHidden: skipHidden}
}

// Discover walks root (a directory or a single file), filters by extension,
// skips hidden entries if requested and drops files whose content was already
// seen. Results are sorted by path.
func (d *Discoverer) Discover(ctx context.Context, root string) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []FileResult
	var stats DirStats
	seen := map[string]string{}

	err := filepath.WalkDir(root, func(path string, de fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if d.skipHidden && path != root && IsHidden(path) {
			if de.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if de.IsDir() {
			return nil
		}
		if !d.allowed(path) {
			return nil
		}
		stats.Matched++

		hashHex, size, err := hashFile(path)
		if err != nil {
			results = append(results, FileResult{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		res := FileResult{Path: path, HashHex: hashHex, Size: size}
		if first, dup := seen[hashHex]; dup {
			res.Deduplicated = true
			stats.Deduplicated++
			d.logger.Info("ingest.duplicate", "path", path, "same_as", first)
		} else {
			seen[hashHex] = path
			stats.Succeeded++
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	d.logger.Info("ingest.discover.ok", "root", root,
		"scanned", stats.Scanned, "matched", stats.Matched,
		"succeeded", stats.Succeeded, "deduplicated", stats.Deduplicated, "failed", stats.Failed)
	return results, stats, nil
}

// Paths returns the files of results that should be processed.
func Paths(results []FileResult) []string {
	var out []string
	for _, r := range results {
		if r.Err == "" && !r.Deduplicated {
			out = append(out, r.Path)
		}
	}
	return out
}

func (d *Discoverer) allowed(path string) bool {
	_, ok := d.exts[normalizeExt(filepath.Ext(path))]
	return ok
}

// Exists reports whether path is present on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
