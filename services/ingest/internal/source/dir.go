package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hplc-lab/trace-viewer/services/ingest/internal/models"
)

// ScanDirectory reads every regular file in dir whose name matches pattern
// (also tried against the lower-cased name, so *.csv matches RUN.CSV).
// Subdirectories are not descended. Files are returned sorted by name.
func ScanDirectory(ctx context.Context, dir, pattern string) ([]models.ExportFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	files := make([]models.ExportFile, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		ok, err := matches(pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", entry.Name(), err)
		}
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		files = append(files, models.ExportFile{
			Path:    path,
			Name:    entry.Name(),
			ModTime: info.ModTime().UTC(),
			Content: content,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func matches(pattern, name string) (bool, error) {
	ok, err := filepath.Match(pattern, name)
	if err != nil || ok {
		return ok, err
	}
	return filepath.Match(pattern, strings.ToLower(name))
}
