// Package batch evaluates a directory of labelled diary traces in parallel.
package batch

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/trip-activity-go/internal/analysis/accuracy"
	"github.com/jengzang/trip-activity-go/internal/analysis/segmentation"
	"github.com/jengzang/trip-activity-go/internal/ingest"
	"github.com/jengzang/trip-activity-go/internal/models"
	"github.com/jengzang/trip-activity-go/internal/service"
)

// FileResult is the outcome of evaluating one trace file
type FileResult struct {
	Path       string        `json:"path"`
	Report     ingest.Report `json:"report"`
	RunID      string        `json:"runId,omitempty"`
	Activities int           `json:"activities"`
	Trips      int           `json:"trips"`
	Score      models.Score  `json:"score"`
	Err        error         `json:"-"`
}

// Config holds the runner settings
type Config struct {
	Params  segmentation.Params
	CSV     ingest.Options
	Unit    accuracy.Unit
	Workers int
}

// Runner evaluates trace files concurrently; each file is independent
type Runner struct {
	service *service.SegmentationService
	cfg     Config
	logger  logrus.FieldLogger
}

// NewRunner creates a new batch runner. Workers below 1 run files one at a time.
func NewRunner(svc *service.SegmentationService, cfg Config, logger logrus.FieldLogger) *Runner {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Runner{service: svc, cfg: cfg, logger: logger}
}

// Run evaluates files and returns one result per file in input order.
// A failing file is reported in its FileResult; only cancellation of ctx aborts the batch.
func (r *Runner) Run(ctx context.Context, files []string) ([]FileResult, error) {
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.evaluateFile(gctx, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) evaluateFile(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path}
	log := r.logger.WithField("file", filepath.Base(path))

	fixes, report, err := ingest.ReadCSVFile(path, r.cfg.CSV)
	result.Report = report
	if err != nil {
		result.Err = err
		log.WithError(err).Warn("Failed to read trace")
		return result
	}
	if report.Skipped > 0 {
		log.WithFields(logrus.Fields{
			"rows":    report.Rows,
			"skipped": report.Skipped,
		}).Debug("Skipped malformed rows")
	}
	if report.OutOfOrder > 0 {
		log.WithField("out_of_order", report.OutOfOrder).Warn("Trace timestamps are not monotonic")
	}

	run, err := r.service.Evaluate(ctx, filepath.Base(path), fixes, r.cfg.Params, r.cfg.Unit)
	if err != nil {
		result.Err = err
		log.WithError(err).Warn("Failed to evaluate trace")
		return result
	}

	result.RunID = run.ID
	result.Activities = run.ActivityCount
	result.Trips = run.TripCount
	result.Score = run.Score
	return result
}
