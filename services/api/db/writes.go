package db

import (
	"context"
	"fmt"

	"github.com/godruoyi/go-snowflake"

	"github.com/hplc-lab/trace-viewer/internal/tracedb"
)

// NewTrace is an uploaded trace ready to be stored.
type NewTrace = tracedb.Record

// SaveTrace stores a trace, replacing any earlier upload of the same file
// name, and returns its metadata. Metadata and points are written in one
// transaction.
func (s *Store) SaveTrace(ctx context.Context, in NewTrace) (*TraceInfo, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, tracedb.UpsertSQL(traceColumns), in.UpsertArgs(int64(snowflake.ID()))...)
	info, err := scanTrace(row)
	if err != nil {
		return nil, fmt.Errorf("upsert trace: %w", err)
	}

	if err := tracedb.ReplacePoints(ctx, tx, info.ID, in.Points); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return info, nil
}
