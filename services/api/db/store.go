package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hplc-lab/trace-viewer/chromatogram"
	"github.com/hplc-lab/trace-viewer/internal/schema"
)

// ErrNotFound is returned when a trace id does not exist.
var ErrNotFound = errors.New("trace not found")

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a tuned pgx pool and verifies connectivity.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 30 * time.Second
	cfg.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Store{pool: pool}, nil
}

// NewWithPool wraps an existing pool.
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema applies the shared DDL so the API can start on an empty database.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := schema.Ensure(ctx, s.pool); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// TraceInfo is the metadata record of a stored trace.
type TraceInfo struct {
	ID         int64     `json:"id,string"`
	Name       string    `json:"name"`
	FileName   string    `json:"file_name"`
	Injection  *int32    `json:"injection,omitempty"`
	Checksum   string    `json:"checksum"`
	PointCount int       `json:"point_count"`
	TMin       float64   `json:"t_min"`
	TMax       float64   `json:"t_max"`
	VMin       float64   `json:"v_min"`
	VMax       float64   `json:"v_max"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TracePage is one page of trace metadata.
type TracePage struct {
	Traces     []TraceInfo `json:"traces"`
	TotalCount int         `json:"total_count"`
}

const traceColumns = `id, name, file_name, injection, checksum, point_count, t_min, t_max, v_min, v_max, created_at, updated_at`

const listTracesSQL = `
    SELECT ` + traceColumns + `
    FROM chromaview.traces
    ORDER BY created_at DESC, id DESC
    LIMIT $1 OFFSET $2
`

// ListTraces returns trace metadata, newest first.
func (s *Store) ListTraces(ctx context.Context, limit, offset int) (*TracePage, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chromaview.traces`).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, listTracesSQL, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	traces := make([]TraceInfo, 0, limit)
	for rows.Next() {
		info, err := scanTrace(rows)
		if err != nil {
			return nil, err
		}
		traces = append(traces, *info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &TracePage{Traces: traces, TotalCount: total}, nil
}

// GetTrace returns metadata for one trace or ErrNotFound.
func (s *Store) GetTrace(ctx context.Context, id int64) (*TraceInfo, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+traceColumns+` FROM chromaview.traces WHERE id = $1`, id)
	info, err := scanTrace(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return info, err
}

const pointsSQL = `
    SELECT t, v
    FROM chromaview.trace_points
    WHERE trace_id = $1
    ORDER BY idx
`

// LoadPoints returns the full-resolution points of a trace in stored order.
func (s *Store) LoadPoints(ctx context.Context, id int64) ([]chromatogram.Point, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT point_count FROM chromaview.traces WHERE id = $1`, id).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, pointsSQL, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]chromatogram.Point, 0, count)
	for rows.Next() {
		var p chromatogram.Point
		if err := rows.Scan(&p.T, &p.V); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// DeleteTrace removes a trace and its points.
func (s *Store) DeleteTrace(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM chromaview.traces WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTrace(row scannable) (*TraceInfo, error) {
	var t TraceInfo
	if err := row.Scan(
		&t.ID,
		&t.Name,
		&t.FileName,
		&t.Injection,
		&t.Checksum,
		&t.PointCount,
		&t.TMin,
		&t.TMax,
		&t.VMin,
		&t.VMax,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
