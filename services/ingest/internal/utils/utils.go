package utils

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hplc-lab/trace-viewer/chromatogram"
	"github.com/hplc-lab/trace-viewer/services/ingest/internal/models"
)

// BuildTraceRows parses export files into trace rows using at most workers
// goroutines. Rows keep the order of files.
func BuildTraceRows(ctx context.Context, files []models.ExportFile, workers int) ([]models.TraceRow, error) {
	rows := make([]models.TraceRow, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range files {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, err := BuildTraceRow(files[i])
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// BuildTraceRow parses a single export file. Out-of-order samples are
// sorted by time and the row is flagged as resorted.
func BuildTraceRow(f models.ExportFile) (models.TraceRow, error) {
	points, err := chromatogram.ParseReader(bytes.NewReader(f.Content))
	if err != nil {
		return models.TraceRow{}, fmt.Errorf("parse %s: %w", f.Name, err)
	}

	row := models.TraceRow{
		FileName: f.Name,
		Name:     chromatogram.TraceName(f.Name),
		Checksum: Checksum(f.Content),
	}
	if _, n, ok := chromatogram.InjectionName(f.Name); ok {
		v := int32(n)
		row.Injection = &v
	}
	if !chromatogram.IsSorted(points) {
		points = chromatogram.SortedCopy(points)
		row.Resorted = true
	}
	row.Points = points
	row.Summary = chromatogram.Summarize(points)
	return row, nil
}

// Checksum returns the hex SHA-256 of content.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// OmitEmpty drops rows without points and reports the dropped file names.
func OmitEmpty(rows []models.TraceRow) ([]models.TraceRow, []string) {
	kept := make([]models.TraceRow, 0, len(rows))
	var skipped []string
	for _, row := range rows {
		if len(row.Points) == 0 {
			skipped = append(skipped, row.FileName)
			continue
		}
		kept = append(kept, row)
	}
	return kept, skipped
}

// FileNames extracts file names from trace rows.
func FileNames(rows []models.TraceRow) []string {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.FileName)
	}
	return names
}

// FilterChanged selects rows that are not stored yet or whose checksum differs.
func FilterChanged(rows []models.TraceRow, stored map[string]models.StoredTrace) []models.TraceRow {
	out := make([]models.TraceRow, 0, len(rows))
	for _, row := range rows {
		prev, ok := stored[row.FileName]
		if ok && prev.Checksum == row.Checksum {
			continue
		}
		out = append(out, row)
	}
	return out
}

// ReplacedIDs returns the stored ids of pending rows that overwrite an
// existing trace, keyed by file name.
func ReplacedIDs(pending []models.TraceRow, stored map[string]models.StoredTrace) map[string]int64 {
	out := make(map[string]int64)
	for _, row := range pending {
		if prev, ok := stored[row.FileName]; ok {
			out[row.FileName] = prev.ID
		}
	}
	return out
}
