// Command evaluate scores the segmenter against a directory of labelled diary traces.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/jengzang/trip-activity-go/internal/analysis/accuracy"
	"github.com/jengzang/trip-activity-go/internal/batch"
	"github.com/jengzang/trip-activity-go/internal/config"
	"github.com/jengzang/trip-activity-go/internal/database"
	"github.com/jengzang/trip-activity-go/internal/ingest"
	"github.com/jengzang/trip-activity-go/internal/logging"
	"github.com/jengzang/trip-activity-go/internal/models"
	"github.com/jengzang/trip-activity-go/internal/repository"
	"github.com/jengzang/trip-activity-go/internal/service"
)

type options struct {
	configPath string
	dir        string
	file       string
	unit       string
	workers    int
	dbPath     string
	jsonOut    bool

	minDuration       int64
	maxRadius         float64
	minInterval       int64
	accuracyThreshold float64
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", config.GetConfigPath(), "path to a YAML config file")
	flag.StringVar(&opts.dir, "dir", "", "directory of trace files to evaluate")
	flag.StringVar(&opts.file, "file", "", "single trace file to evaluate")
	flag.StringVar(&opts.unit, "unit", "", "distance unit for reported distances (m, km, mi, ft)")
	flag.IntVar(&opts.workers, "workers", 0, "number of files evaluated concurrently")
	flag.StringVar(&opts.dbPath, "db", "", "record evaluation runs in this SQLite database")
	flag.BoolVar(&opts.jsonOut, "json", false, "print results as JSON")
	flag.Int64Var(&opts.minDuration, "min-duration", 0, "minimum activity duration in milliseconds")
	flag.Float64Var(&opts.maxRadius, "max-radius", 0, "maximum activity radius in meters")
	flag.Int64Var(&opts.minInterval, "min-interval", 0, "gap in milliseconds below which activities merge")
	flag.Float64Var(&opts.accuracyThreshold, "accuracy-threshold", 0, "accuracy radius at or above which a fix is noisy (0 disables)")
	flag.Parse()

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "evaluate:", err)
		os.Exit(1)
	}
}

func run(opts options, out io.Writer) error {
	if (opts.dir == "") == (opts.file == "") {
		return errors.New("exactly one of -dir or -file is required")
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	unit, err := accuracy.ParseUnit(cfg.Batch.DistanceUnit)
	if err != nil {
		return err
	}

	// Progress goes to stderr; stdout carries the report
	logger := logging.NewWithOutput(cfg.Logging, os.Stderr)

	files := []string{opts.file}
	if opts.dir != "" {
		files, err = ingest.ListTraceFiles(opts.dir, cfg.Ingest.Extension)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no %s files in %s", cfg.Ingest.Extension, opts.dir)
		}
	}

	var evaluations *repository.EvaluationRepository
	if opts.dbPath != "" {
		conn, err := database.Open(database.Config{Path: opts.dbPath})
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := database.NewMigrationManager(conn, logger).RunMigrations(); err != nil {
			return err
		}
		evaluations = repository.NewEvaluationRepository(conn)
	}

	svc := service.NewSegmentationService(nil, evaluations, cfg.Segmentation, logger)
	runner := batch.NewRunner(svc, batch.Config{
		Params:  cfg.Segmentation,
		CSV:     cfg.IngestOptions(),
		Unit:    unit,
		Workers: cfg.Batch.Workers,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(logrus.Fields{
		"files":   len(files),
		"workers": cfg.Batch.Workers,
	}).Info("Evaluating traces")

	results, err := runner.Run(ctx, files)
	if err != nil {
		return err
	}
	summary := batch.Summarize(results)

	if opts.jsonOut {
		return writeJSON(out, results, summary)
	}
	writeText(out, results, summary, unit)
	return nil
}

// applyOverrides copies explicitly set flags over the loaded config
func applyOverrides(cfg *config.Config, opts options) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-duration":
			cfg.Segmentation.MinDuration = opts.minDuration
		case "max-radius":
			cfg.Segmentation.MaxRadius = opts.maxRadius
		case "min-interval":
			cfg.Segmentation.MinInterval = opts.minInterval
		case "accuracy-threshold":
			cfg.Segmentation.AccuracyThreshold = opts.accuracyThreshold
		case "unit":
			cfg.Batch.DistanceUnit = opts.unit
		case "workers":
			cfg.Batch.Workers = opts.workers
		}
	})
}

func writeText(out io.Writer, results []batch.FileResult, summary batch.Summary, unit accuracy.Unit) {
	for _, res := range results {
		name := filepath.Base(res.Path)
		if res.Err != nil {
			fmt.Fprintf(out, "%-32s error: %v\n", name, res.Err)
			continue
		}
		fmt.Fprintf(out, "%-32s activities=%d trips=%d time=%s distance=%s\n",
			name, res.Activities, res.Trips,
			formatPercent(res.Score.TimePercent()),
			formatPercent(res.Score.DistPercent()))
	}

	fmt.Fprintf(out, "\nfiles=%d succeeded=%d failed=%d\n", summary.Files, summary.Succeeded, summary.Failed)
	fmt.Fprintf(out, "time:     %.1fs of %.1fs correct (%s)\n",
		summary.Score.TimeCorrect, summary.Score.TimeTotal, formatPercent(summary.Score.TimePercent()))
	fmt.Fprintf(out, "distance: %.3f%s of %.3f%s correct (%s)\n",
		summary.Score.DistCorrect, unit.Name, summary.Score.DistTotal, unit.Name,
		formatPercent(summary.Score.DistPercent()))

	if summary.Time.Count > 1 {
		fmt.Fprintf(out, "per-file time %%:     p10=%.1f median=%.1f p90=%.1f\n",
			summary.Time.P10, summary.Time.Median, summary.Time.P90)
	}
	if summary.Distance.Count > 1 {
		fmt.Fprintf(out, "per-file distance %%: p10=%.1f median=%.1f p90=%.1f\n",
			summary.Distance.P10, summary.Distance.Median, summary.Distance.P90)
	}
}

func formatPercent(pct float64, err error) string {
	if errors.Is(err, models.ErrZeroTotal) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", pct)
}

type jsonFile struct {
	batch.FileResult
	Error string `json:"error,omitempty"`
}

func writeJSON(out io.Writer, results []batch.FileResult, summary batch.Summary) error {
	files := make([]jsonFile, len(results))
	for i, res := range results {
		files[i] = jsonFile{FileResult: res}
		if res.Err != nil {
			files[i].Error = res.Err.Error()
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Files   []jsonFile    `json:"files"`
		Summary batch.Summary `json:"summary"`
	}{files, summary})
}
