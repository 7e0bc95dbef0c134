// Package tracedb holds the trace write statements shared by the API and the
// ingest job.
package tracedb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hplc-lab/trace-viewer/chromatogram"
)

const upsertSQL = `
INSERT INTO chromaview.traces (id, name, file_name, injection, checksum, point_count, t_min, t_max, v_min, v_max, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
ON CONFLICT (file_name) DO UPDATE
SET name = EXCLUDED.name,
    injection = EXCLUDED.injection,
    checksum = EXCLUDED.checksum,
    point_count = EXCLUDED.point_count,
    t_min = EXCLUDED.t_min,
    t_max = EXCLUDED.t_max,
    v_min = EXCLUDED.v_min,
    v_max = EXCLUDED.v_max,
    updated_at = NOW()
RETURNING `

// Record is a trace to be written. A re-used file name replaces the stored trace.
type Record struct {
	Name      string
	FileName  string
	Injection *int32
	Checksum  string
	Points    []chromatogram.Point
}

// UpsertSQL returns the trace upsert statement with the given RETURNING list.
func UpsertSQL(returning string) string {
	return upsertSQL + returning
}

// UpsertArgs returns the parameters of UpsertSQL. id is only used when the
// file name is new; an existing row keeps its id.
func (r Record) UpsertArgs(id int64) []any {
	s := chromatogram.Summarize(r.Points)
	return []any{id, r.Name, r.FileName, r.Injection, r.Checksum, s.Count, s.TMin, s.TMax, s.VMin, s.VMax}
}

// ReplacePoints deletes the stored points of a trace and bulk-copies points in their place.
func ReplacePoints(ctx context.Context, tx pgx.Tx, traceID int64, points []chromatogram.Point) error {
	if _, err := tx.Exec(ctx, `DELETE FROM chromaview.trace_points WHERE trace_id = $1`, traceID); err != nil {
		return fmt.Errorf("clear points: %w", err)
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"chromaview", "trace_points"},
		[]string{"trace_id", "idx", "t", "v"},
		pgx.CopyFromSlice(len(points), func(i int) ([]any, error) {
			return []any{traceID, int32(i), points[i].T, points[i].V}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy points: %w", err)
	}
	return nil
}
