package db

import (
	"context"
	"fmt"

	"github.com/godruoyi/go-snowflake"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hplc-lab/trace-viewer/internal/tracedb"
	"github.com/hplc-lab/trace-viewer/services/ingest/internal/models"
)

// FetchChecksums loads the stored id and checksum for each known file name.
func FetchChecksums(ctx context.Context, pool *pgxpool.Pool, fileNames []string) (map[string]models.StoredTrace, error) {
	result := make(map[string]models.StoredTrace, len(fileNames))
	if len(fileNames) == 0 {
		return result, nil
	}

	rows, err := pool.Query(ctx, `
SELECT file_name, id, checksum
FROM chromaview.traces
WHERE file_name = ANY($1)`, fileNames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var fileName string
		var stored models.StoredTrace
		if err := rows.Scan(&fileName, &stored.ID, &stored.Checksum); err != nil {
			return nil, err
		}
		result[fileName] = stored
	}

	return result, rows.Err()
}

// UpsertTraces writes trace metadata in one batch and replaces the points of
// every written trace, all inside a single transaction. It returns the trace
// ids in row order.
func UpsertTraces(ctx context.Context, pool *pgxpool.Pool, traces []models.TraceRow) ([]int64, error) {
	if len(traces) == 0 {
		return nil, nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	query := tracedb.UpsertSQL("id")
	for _, tr := range traces {
		batch.Queue(query, tr.Record().UpsertArgs(int64(snowflake.ID()))...)
	}

	ids := make([]int64, len(traces))
	res := tx.SendBatch(ctx, batch)
	for i := range traces {
		if err := res.QueryRow().Scan(&ids[i]); err != nil {
			_ = res.Close()
			return nil, fmt.Errorf("upsert %s: %w", traces[i].FileName, err)
		}
	}
	if err := res.Close(); err != nil {
		return nil, err
	}

	for i, tr := range traces {
		if err := tracedb.ReplacePoints(ctx, tx, ids[i], tr.Points); err != nil {
			return nil, fmt.Errorf("points %s: %w", tr.FileName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}
