package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/trip-activity-go/internal/analysis/accuracy"
	"github.com/jengzang/trip-activity-go/internal/analysis/segmentation"
	"github.com/jengzang/trip-activity-go/internal/ingest"
	"github.com/jengzang/trip-activity-go/internal/logging"
	"github.com/jengzang/trip-activity-go/internal/service"
)

const meterLat = 1.0 / 111195.0

type row struct {
	ts       int64
	north    float64
	category string
}

func writeTrace(t *testing.T, dir, name string, rows []row) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("id,timestamp,latitude,longitude,accuracy,speed,bearing,altitude,provider,category\n")
	for i, r := range rows {
		fmt.Fprintf(&b, "%d,%d,%.9f,-122.2727,10,0,0,0,gps,%s\n", i, r.ts, 37.8716+r.north*meterLat, r.category)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func newTestRunner(workers int) *Runner {
	params := segmentation.Params{MinDuration: 60000, MaxRadius: 50, MinInterval: 120000}
	svc := service.NewSegmentationService(nil, nil, params, logging.Discard())
	return NewRunner(svc, Config{
		Params:  params,
		CSV:     ingest.DefaultOptions(),
		Unit:    accuracy.Meters,
		Workers: workers,
	}, logging.Discard())
}

func TestRunAndSummarize(t *testing.T) {
	dir := t.TempDir()

	// Fully correct: dwell then travel
	good := writeTrace(t, dir, "a.csv", []row{
		{0, 0, "Activity"}, {30000, 0, "Activity"}, {70000, 0, "Trip"}, {200000, 200, "Trip"}, {260000, 210, "Trip"},
	})
	// Labelled entirely as activity while the segmenter sees one trip
	wrong := writeTrace(t, dir, "b.csv", []row{
		{0, 0, "Activity"}, {10000, 100, "Activity"}, {20000, 200, "Activity"},
	})
	tooShort := writeTrace(t, dir, "c.csv", []row{{0, 0, "Trip"}})
	missing := filepath.Join(dir, "missing.csv")

	files := []string{good, wrong, tooShort, missing}
	results, err := newTestRunner(2).Run(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, results, len(files))

	for i, res := range results {
		assert.Equal(t, files[i], res.Path, "results keep input order")
	}

	require.NoError(t, results[0].Err)
	assert.Equal(t, 1, results[0].Activities)
	assert.Equal(t, 1, results[0].Trips)
	assert.Equal(t, 5, results[0].Report.Fixes)
	assert.Equal(t, 1, results[0].Report.Skipped, "header row")

	require.NoError(t, results[1].Err)
	assert.Zero(t, results[1].Score.TimeCorrect)

	assert.ErrorIs(t, results[2].Err, segmentation.ErrTraceTooShort)
	assert.Error(t, results[3].Err)

	summary := Summarize(results)
	assert.Equal(t, 4, summary.Files)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)
	assert.InDelta(t, 260+20, summary.Score.TimeTotal, 1e-9)
	assert.InDelta(t, 260, summary.Score.TimeCorrect, 1e-9)

	assert.Equal(t, 2, summary.Time.Count)
	assert.InDelta(t, 0, summary.Time.Min, 1e-9)
	assert.InDelta(t, 100, summary.Time.Max, 1e-9)
	assert.InDelta(t, 50, summary.Time.Median, 1e-9)
}

func TestRunLogsSkippedRows(t *testing.T) {
	dir := t.TempDir()
	path := writeTrace(t, dir, "a.csv", []row{{0, 0, "Activity"}, {70000, 0, "Activity"}})

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	params := segmentation.Params{MinDuration: 60000, MaxRadius: 50, MinInterval: 120000}
	svc := service.NewSegmentationService(nil, nil, params, logging.Discard())
	runner := NewRunner(svc, Config{Params: params, CSV: ingest.DefaultOptions(), Unit: accuracy.Meters}, logger)

	results, err := runner.Run(context.Background(), []string{path})
	require.NoError(t, err)
	require.NoError(t, results[0].Err)

	var found *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "Skipped malformed rows" {
			found = e
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, logrus.DebugLevel, found.Level)
	assert.Equal(t, 1, found.Data["skipped"], "header row")
	assert.Equal(t, 3, found.Data["rows"])
	assert.Equal(t, "a.csv", found.Data["file"])
}

func TestRunSequentialMatchesParallel(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 6; i++ {
		files = append(files, writeTrace(t, dir, fmt.Sprintf("%02d.csv", i), []row{
			{0, 0, "Activity"}, {int64(30000 * (i + 1)), 0, "Activity"}, {int64(70000 * (i + 1)), 0, "Trip"},
			{int64(70000*(i+1) + 130000), 200, "Trip"},
		}))
	}

	sequential, err := newTestRunner(1).Run(context.Background(), files)
	require.NoError(t, err)
	parallel, err := newTestRunner(4).Run(context.Background(), files)
	require.NoError(t, err)

	require.Len(t, parallel, len(sequential))
	for i := range sequential {
		assert.Equal(t, sequential[i].Score, parallel[i].Score)
		assert.Equal(t, sequential[i].Activities, parallel[i].Activities)
	}
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeTrace(t, dir, "a.csv", []row{{0, 0, ""}, {1000, 0, ""}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestRunner(1).Run(ctx, []string{path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.Files)
	_, err := summary.Score.TimePercent()
	assert.Error(t, err)
}
