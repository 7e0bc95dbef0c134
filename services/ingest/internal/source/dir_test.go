package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_Inj_2.csv", "0,1\n")
	writeFile(t, dir, "a_Inj_1.CSV", "0,2\n")
	writeFile(t, dir, "notes.txt", "ignore me")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	files, err := ScanDirectory(context.Background(), dir, "*.csv")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a_Inj_1.CSV", files[0].Name)
	assert.Equal(t, "0,2\n", string(files[0].Content))
	assert.Equal(t, filepath.Join(dir, "b_Inj_2.csv"), files[1].Path)
	assert.False(t, files[1].ModTime.IsZero())
}

func TestScanDirectoryErrors(t *testing.T) {
	_, err := ScanDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"), "*.csv")
	assert.Error(t, err)

	dir := t.TempDir()
	writeFile(t, dir, "x.csv", "0,1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ScanDirectory(ctx, dir, "*.csv")
	assert.ErrorIs(t, err, context.Canceled)
}
