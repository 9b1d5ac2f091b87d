// Package files locates dataset files in a drop directory, so operators can
// point the CLI at a folder instead of naming each file.
package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"retailpulse/pkg/contracts/domain"
)

// DatasetFile describes one discovered dataset file
type DatasetFile struct {
	Kind    domain.DatasetKind
	Path    string
	Size    int64
	ModTime time.Time
}

// Discovery finds dataset files in a base directory by name prefix. A file
// matches a kind when its name starts with the kind (sales, inventory,
// reviews) and carries a CSV or Excel extension; the newest match wins.
type Discovery struct {
	basePath string
	logger   *slog.Logger
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{basePath: basePath, logger: logger}
}

// FindDataset returns the newest file matching the given kind
func (d *Discovery) FindDataset(kind domain.DatasetKind) (DatasetFile, error) {
	matches, err := d.matchesFor(kind)
	if err != nil {
		return DatasetFile{}, err
	}
	if len(matches) == 0 {
		return DatasetFile{}, fmt.Errorf("no %s file found in %s", kind, d.basePath)
	}
	return matches[0], nil
}

// FindAll locates one file per dataset kind. Every kind must resolve; a
// missing kind fails the whole call so a partial bundle never slips through.
func (d *Discovery) FindAll() (map[domain.DatasetKind]DatasetFile, error) {
	found := make(map[domain.DatasetKind]DatasetFile, 3)
	for _, kind := range []domain.DatasetKind{domain.DatasetSales, domain.DatasetInventory, domain.DatasetReviews} {
		file, err := d.FindDataset(kind)
		if err != nil {
			return nil, err
		}
		found[kind] = file
	}

	d.logger.Info("dataset files discovered",
		slog.String("directory", d.basePath),
		slog.String("sales", filepath.Base(found[domain.DatasetSales].Path)),
		slog.String("inventory", filepath.Base(found[domain.DatasetInventory].Path)),
		slog.String("reviews", filepath.Base(found[domain.DatasetReviews].Path)))
	return found, nil
}

// matchesFor lists candidate files for a kind, newest first
func (d *Discovery) matchesFor(kind domain.DatasetKind) ([]DatasetFile, error) {
	entries, err := os.ReadDir(d.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.basePath, err)
	}

	var matches []DatasetFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !matchesKind(name, kind) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		matches = append(matches, DatasetFile{
			Kind:    kind,
			Path:    filepath.Join(d.basePath, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ModTime.After(matches[j].ModTime)
	})
	return matches, nil
}

// matchesKind reports whether a file name is a candidate for the given kind
func matchesKind(name string, kind domain.DatasetKind) bool {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "~$") {
		return false
	}
	ext := filepath.Ext(lower)
	if ext != ".csv" && ext != ".xlsx" && ext != ".xls" {
		return false
	}
	return strings.HasPrefix(lower, string(kind))
}
