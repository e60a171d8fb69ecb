package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jengzang/trip-activity-go/internal/analysis/accuracy"
	"github.com/jengzang/trip-activity-go/internal/analysis/segmentation"
	"github.com/jengzang/trip-activity-go/internal/models"
	"github.com/jengzang/trip-activity-go/internal/repository"
)

var (
	// ErrStorageDisabled is returned by operations that need a database when none is configured
	ErrStorageDisabled = errors.New("storage not configured")
	// ErrInvalidTraceID is returned for empty or oversized trace identifiers
	ErrInvalidTraceID = errors.New("invalid trace id")
)

const maxTraceIDLength = 128

// SegmentationService runs the segmenter and scorer and records evaluation runs
type SegmentationService struct {
	traces      *repository.TraceRepository
	evaluations *repository.EvaluationRepository
	defaults    segmentation.Params
	logger      logrus.FieldLogger
	now         func() time.Time
}

// NewSegmentationService creates a new segmentation service.
// Either repository may be nil; the storage-backed operations then return ErrStorageDisabled
// and evaluations are not recorded.
func NewSegmentationService(
	traces *repository.TraceRepository,
	evaluations *repository.EvaluationRepository,
	defaults segmentation.Params,
	logger logrus.FieldLogger,
) *SegmentationService {
	return &SegmentationService{
		traces:      traces,
		evaluations: evaluations,
		defaults:    defaults,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// DefaultParams returns the configured segmentation thresholds
func (s *SegmentationService) DefaultParams() segmentation.Params {
	return s.defaults
}

// Segment partitions a trace into activities and trips
func (s *SegmentationService) Segment(fixes []models.GPSFix, p segmentation.Params) (models.SegmentationResult, error) {
	if err := p.Validate(); err != nil {
		return models.SegmentationResult{}, err
	}

	result, err := segmentation.Segment(fixes, p)
	if err != nil {
		return models.SegmentationResult{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"fixes":      len(fixes),
		"activities": len(result.Activities),
		"trips":      len(result.Trips),
	}).Debug("Segmented trace")

	return result, nil
}

// Evaluate segments a labelled trace and scores the result against its labels.
// The run is recorded when an evaluation repository is configured.
func (s *SegmentationService) Evaluate(ctx context.Context, source string, fixes []models.GPSFix, p segmentation.Params, unit accuracy.Unit) (*models.EvaluationRun, error) {
	return s.evaluate(ctx, source, "", fixes, p, unit)
}

// EvaluateStoredTrace evaluates a previously imported trace
func (s *SegmentationService) EvaluateStoredTrace(ctx context.Context, traceID string, p segmentation.Params, unit accuracy.Unit) (*models.EvaluationRun, error) {
	if s.traces == nil {
		return nil, ErrStorageDisabled
	}

	fixes, err := s.traces.Load(ctx, traceID)
	if err != nil {
		return nil, err
	}

	return s.evaluate(ctx, traceID, traceID, fixes, p, unit)
}

func (s *SegmentationService) evaluate(ctx context.Context, source, traceID string, fixes []models.GPSFix, p segmentation.Params, unit accuracy.Unit) (*models.EvaluationRun, error) {
	result, err := s.Segment(fixes, p)
	if err != nil {
		return nil, err
	}

	score := accuracy.ScoreInUnit(fixes, result.Activities, result.Trips, unit)

	if source == "" {
		source = models.EvaluationSourceAPI
	}

	run := &models.EvaluationRun{
		ID:                uuid.NewString(),
		Source:            source,
		TraceID:           traceID,
		MinDurationMs:     p.MinDuration,
		MaxRadiusM:        p.MaxRadius,
		MinIntervalMs:     p.MinInterval,
		AccuracyThreshold: p.AccuracyThreshold,
		DistanceUnit:      unit.Name,
		FixCount:          len(fixes),
		ActivityCount:     len(result.Activities),
		TripCount:         len(result.Trips),
		Score:             score,
		Result:            &result,
		CreatedAt:         s.now(),
	}

	if s.evaluations != nil {
		if err := s.evaluations.Create(ctx, run); err != nil {
			return nil, err
		}
	}

	fields := logrus.Fields{
		"run_id":     run.ID,
		"source":     run.Source,
		"fixes":      run.FixCount,
		"activities": run.ActivityCount,
		"trips":      run.TripCount,
	}
	if pct, err := score.TimePercent(); err == nil {
		fields["time_pct"] = pct
	}
	if pct, err := score.DistPercent(); err == nil {
		fields["dist_pct"] = pct
	}
	s.logger.WithFields(fields).Info("Evaluated trace")

	return run, nil
}

// ImportTrace stores fixes under traceID, replacing any previous trace with that id
func (s *SegmentationService) ImportTrace(ctx context.Context, traceID string, fixes []models.GPSFix) (models.TraceSummary, error) {
	if s.traces == nil {
		return models.TraceSummary{}, ErrStorageDisabled
	}
	if err := validateTraceID(traceID); err != nil {
		return models.TraceSummary{}, err
	}

	if err := s.traces.Save(ctx, traceID, fixes); err != nil {
		return models.TraceSummary{}, err
	}

	summary := summarize(traceID, fixes)
	s.logger.WithFields(logrus.Fields{
		"trace_id": traceID,
		"fixes":    summary.FixCount,
		"labelled": summary.Labelled,
	}).Info("Imported trace")

	return summary, nil
}

// ListTraces returns summaries of all stored traces
func (s *SegmentationService) ListTraces(ctx context.Context) ([]models.TraceSummary, error) {
	if s.traces == nil {
		return nil, ErrStorageDisabled
	}
	return s.traces.List(ctx)
}

// DeleteTrace removes a stored trace; evaluation runs referencing it are kept
func (s *SegmentationService) DeleteTrace(ctx context.Context, traceID string) error {
	if s.traces == nil {
		return ErrStorageDisabled
	}
	if err := s.traces.Delete(ctx, traceID); err != nil {
		return err
	}
	s.logger.WithField("trace_id", traceID).Info("Deleted trace")
	return nil
}

// ListEvaluations returns recorded evaluation runs, newest first
func (s *SegmentationService) ListEvaluations(ctx context.Context, filter models.EvaluationFilter) ([]*models.EvaluationRun, error) {
	if s.evaluations == nil {
		return nil, ErrStorageDisabled
	}
	return s.evaluations.List(ctx, filter)
}

// GetEvaluation returns a recorded evaluation run by id
func (s *SegmentationService) GetEvaluation(ctx context.Context, id string) (*models.EvaluationRun, error) {
	if s.evaluations == nil {
		return nil, ErrStorageDisabled
	}
	return s.evaluations.GetByID(ctx, id)
}

func validateTraceID(id string) error {
	if strings.TrimSpace(id) == "" || len(id) > maxTraceIDLength {
		return fmt.Errorf("%w: %q", ErrInvalidTraceID, id)
	}
	return nil
}

func summarize(traceID string, fixes []models.GPSFix) models.TraceSummary {
	summary := models.TraceSummary{TraceID: traceID, FixCount: len(fixes)}
	for i, f := range fixes {
		if i == 0 || f.TimestampMs < summary.FirstTime {
			summary.FirstTime = f.TimestampMs
		}
		if i == 0 || f.TimestampMs > summary.LastTime {
			summary.LastTime = f.TimestampMs
		}
		if f.Category != models.CategoryUnknown {
			summary.Labelled++
		}
	}
	return summary
}
