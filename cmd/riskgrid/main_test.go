package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_WritesViewportToStdout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run([]string{"-cell-size", "0.01", "-log-level", "error"}, &buf))

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	assert.NotEmpty(t, fc.Features)
}

func TestRun_AllCellsToFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "sources.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,lat,lon,pollution_level,danger_level,object_type\nA,59.9,30.3,5,Высокий,Порт\n"), 0o644))
	outPath := filepath.Join(dir, "grid.geojson")

	require.NoError(t, run([]string{"-sources", csvPath, "-cell-size", "0.05", "-all", "-out", outPath, "-log-level", "error"}, &bytes.Buffer{}))

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	require.NoError(t, err)
	// 5 rows × 12 columns
	assert.Len(t, fc.Features, 60)
}

func TestRun_RejectsBadInput(t *testing.T) {
	assert.Error(t, run([]string{"-cell-size", "0", "-log-level", "error"}, &bytes.Buffer{}))
	assert.Error(t, run([]string{"-sources", "/does/not/exist.csv"}, &bytes.Buffer{}))
}
