package db_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hplc-lab/trace-viewer/chromatogram"
	"github.com/hplc-lab/trace-viewer/internal/testutil"
	"github.com/hplc-lab/trace-viewer/services/api/db"
)

func TestStoreTraceLifecycle(t *testing.T) {
	pool := testutil.SetupPool(t)
	store := db.NewWithPool(pool)
	ctx := context.Background()
	require.NoError(t, store.EnsureSchema(ctx))

	fileName := fmt.Sprintf("store_test_Inj_1_%d.csv", time.Now().UnixNano())
	inj := int32(1)
	points := chromatogram.Parse("0,1\n0.5,3\n1,2\n")

	info, err := store.SaveTrace(ctx, db.NewTrace{
		Name:      "Inj 1",
		FileName:  fileName,
		Injection: &inj,
		Checksum:  "abc",
		Points:    points,
	})
	require.NoError(t, err)
	assert.NotZero(t, info.ID)
	assert.Equal(t, 3, info.PointCount)
	assert.Equal(t, 3.0, info.VMax)
	t.Cleanup(func() { _ = store.DeleteTrace(context.Background(), info.ID) })

	got, err := store.GetTrace(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, fileName, got.FileName)

	loaded, err := store.LoadPoints(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, points, loaded)

	// Re-upload under the same file name replaces points but keeps the id.
	again, err := store.SaveTrace(ctx, db.NewTrace{
		Name:     "Inj 1",
		FileName: fileName,
		Checksum: "def",
		Points:   points[:2],
	})
	require.NoError(t, err)
	assert.Equal(t, info.ID, again.ID)
	assert.Nil(t, again.Injection)

	loaded, err = store.LoadPoints(ctx, info.ID)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)

	page, err := store.ListTraces(ctx, 10, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, page.TotalCount, 1)

	require.NoError(t, store.DeleteTrace(ctx, info.ID))
	_, err = store.GetTrace(ctx, info.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.ErrorIs(t, store.DeleteTrace(ctx, info.ID), db.ErrNotFound)
	_, err = store.LoadPoints(ctx, info.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}
