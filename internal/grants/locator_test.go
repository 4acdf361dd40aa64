package grants

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLocator_Locate(t *testing.T) {
	src := Source{Tag: "CSE", XLSXName: "CSEDATA.xlsx", CSVName: "CSEDATA.xlsx - Sheet1.csv"}

	t.Run("prefers spreadsheet over csv", func(t *testing.T) {
		dir := t.TempDir()
		xlsxPath := writeFile(t, dir, src.XLSXName, []byte("stub"))
		writeFile(t, dir, src.CSVName, []byte("stub"))

		loc := NewLocator(dir, slog.Default()).Locate(src)

		require.True(t, loc.Found)
		assert.Equal(t, FormatXLSX, loc.Format)
		assert.Equal(t, xlsxPath, loc.Path)
	})

	t.Run("falls back to csv", func(t *testing.T) {
		dir := t.TempDir()
		csvPath := writeFile(t, dir, src.CSVName, []byte("stub"))

		loc := NewLocator(dir, slog.Default()).Locate(src)

		require.True(t, loc.Found)
		assert.Equal(t, FormatCSV, loc.Format)
		assert.Equal(t, csvPath, loc.Path)
	})

	t.Run("missing files report not found", func(t *testing.T) {
		loc := NewLocator(t.TempDir(), slog.Default()).Locate(src)

		assert.False(t, loc.Found)
		assert.Empty(t, loc.Path)
		assert.Equal(t, src, loc.Source)
	})

	t.Run("a directory does not count as a file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, src.XLSXName), 0o755))

		loc := NewLocator(dir, slog.Default()).Locate(src)
		assert.False(t, loc.Found)
	})
}

func TestLocator_LocateAll(t *testing.T) {
	dir := t.TempDir()
	sources := DefaultSources()

	// Only the CSE csv exists; ECE has nothing.
	writeFile(t, dir, sources[0].CSVName, []byte("stub"))

	located := NewLocator(dir, slog.Default()).LocateAll(sources)

	require.Len(t, located, 2)
	assert.True(t, located[0].Found)
	assert.Equal(t, "CSE", located[0].Source.Tag)
	assert.False(t, located[1].Found)
	assert.Equal(t, "ECE", located[1].Source.Tag)
}
