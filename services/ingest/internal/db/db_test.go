package db_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hplc-lab/trace-viewer/internal/testutil"
	"github.com/hplc-lab/trace-viewer/services/ingest/internal/db"
	"github.com/hplc-lab/trace-viewer/services/ingest/internal/models"
	"github.com/hplc-lab/trace-viewer/services/ingest/internal/utils"
)

func TestUpsertTracesAndChecksums(t *testing.T) {
	pool := testutil.SetupPool(t)
	ctx := context.Background()

	suffix := time.Now().UnixNano()
	files := []models.ExportFile{
		{Name: fmt.Sprintf("ingest_Inj_1_%d.csv", suffix), Content: []byte("0,1\n1,5\n2,2\n")},
		{Name: fmt.Sprintf("ingest_Inj_2_%d.csv", suffix), Content: []byte("0,3\n1,1\n")},
	}
	rows, err := utils.BuildTraceRows(ctx, files, 2)
	require.NoError(t, err)
	names := utils.FileNames(rows)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM chromaview.traces WHERE file_name = ANY($1)`, names)
	})

	ids, err := db.UpsertTraces(ctx, pool, rows)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	stored, err := db.FetchChecksums(ctx, pool, names)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, rows[0].Checksum, stored[names[0]].Checksum)
	assert.Equal(t, ids[1], stored[names[1]].ID)
	assert.Empty(t, utils.FilterChanged(rows, stored))

	// Re-ingesting a changed file keeps its id and replaces the points.
	changed, err := utils.BuildTraceRow(models.ExportFile{Name: names[0], Content: []byte("0,1\n")})
	require.NoError(t, err)
	again, err := db.UpsertTraces(ctx, pool, []models.TraceRow{changed})
	require.NoError(t, err)
	assert.Equal(t, ids[0], again[0])

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM chromaview.trace_points WHERE trace_id = $1`, ids[0]).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestEmptyInputs(t *testing.T) {
	ids, err := db.UpsertTraces(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, ids)

	stored, err := db.FetchChecksums(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Empty(t, stored)
}
