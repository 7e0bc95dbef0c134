// Package schema holds the Postgres DDL shared by the API and the ingest job.
package schema

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// DDL creates the chromaview schema. Every statement is idempotent.
const DDL = `
CREATE SCHEMA IF NOT EXISTS chromaview;

CREATE TABLE IF NOT EXISTS chromaview.traces (
    id          BIGINT PRIMARY KEY,
    name        TEXT NOT NULL,
    file_name   TEXT NOT NULL UNIQUE,
    injection   INTEGER,
    checksum    TEXT NOT NULL,
    point_count INTEGER NOT NULL,
    t_min       DOUBLE PRECISION NOT NULL,
    t_max       DOUBLE PRECISION NOT NULL,
    v_min       DOUBLE PRECISION NOT NULL,
    v_max       DOUBLE PRECISION NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS chromaview.trace_points (
    trace_id BIGINT NOT NULL REFERENCES chromaview.traces (id) ON DELETE CASCADE,
    idx      INTEGER NOT NULL,
    t        DOUBLE PRECISION NOT NULL,
    v        DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (trace_id, idx)
);
`

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Ensure applies DDL.
func Ensure(ctx context.Context, db Execer) error {
	_, err := db.Exec(ctx, DDL)
	return err
}
