package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const diary = `id,timestamp,latitude,longitude,accuracy,speed,bearing,altitude,provider,category
0,0,37.8716,-122.2727,10,0,0,0,gps,Activity
1,100000,37.8716,-122.2727,10,0,0,0,gps,Activity
2,200000,37.8716,-122.2727,10,0,0,0,gps,Trip
3,300000,37.8816,-122.2727,10,0,0,0,gps,Trip
`

func writeDiary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "day1.csv"), []byte(diary), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	return dir
}

func TestRunText(t *testing.T) {
	dir := writeDiary(t)

	var out bytes.Buffer
	require.NoError(t, run(options{dir: dir}, &out))

	assert.Contains(t, out.String(), "day1.csv")
	assert.Contains(t, out.String(), "files=1 succeeded=1 failed=0")
	assert.Contains(t, out.String(), "100.00%")
}

func TestRunJSONRecordsRuns(t *testing.T) {
	dir := writeDiary(t)
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	var out bytes.Buffer
	require.NoError(t, run(options{file: filepath.Join(dir, "day1.csv"), dbPath: dbPath, jsonOut: true}, &out))

	var report struct {
		Files []struct {
			RunID      string `json:"runId"`
			Activities int    `json:"activities"`
		} `json:"files"`
		Summary struct {
			Succeeded int `json:"succeeded"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Files, 1)
	assert.NotEmpty(t, report.Files[0].RunID)
	assert.Equal(t, 1, report.Files[0].Activities)
	assert.Equal(t, 1, report.Summary.Succeeded)
	assert.FileExists(t, dbPath)
}

func TestRunRequiresOneInput(t *testing.T) {
	assert.Error(t, run(options{}, &bytes.Buffer{}))
	assert.Error(t, run(options{dir: "a", file: "b"}, &bytes.Buffer{}))
}

func TestRunEmptyDirectory(t *testing.T) {
	assert.Error(t, run(options{dir: t.TempDir()}, &bytes.Buffer{}))
}
