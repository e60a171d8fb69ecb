package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/trip-activity-go/internal/analysis/accuracy"
	"github.com/jengzang/trip-activity-go/internal/analysis/segmentation"
	"github.com/jengzang/trip-activity-go/internal/models"
	"github.com/jengzang/trip-activity-go/internal/service"
	"github.com/jengzang/trip-activity-go/pkg/response"
)

// EvaluationHandler handles HTTP requests for evaluation runs
type EvaluationHandler struct {
	service     *service.SegmentationService
	defaultUnit accuracy.Unit
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(service *service.SegmentationService, defaultUnit accuracy.Unit) *EvaluationHandler {
	return &EvaluationHandler{service: service, defaultUnit: defaultUnit}
}

type evaluationRequest struct {
	Source string              `json:"source"`
	Fixes  []models.GPSFix     `json:"fixes" binding:"required"`
	Params segmentation.Params `json:"params"`
	Unit   string              `json:"unit"`
}

// Create handles POST /api/v1/evaluations
func (h *EvaluationHandler) Create(c *gin.Context) {
	req := evaluationRequest{Params: h.service.DefaultParams()}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	unit, err := resolveUnit(req.Unit, h.defaultUnit)
	if err != nil {
		response.BadRequest(c, "Invalid distance unit", err)
		return
	}

	run, err := h.service.Evaluate(c.Request.Context(), req.Source, req.Fixes, req.Params, unit)
	if err != nil {
		respondError(c, "Failed to evaluate trace", err)
		return
	}

	response.Created(c, run)
}

// List handles GET /api/v1/evaluations
func (h *EvaluationHandler) List(c *gin.Context) {
	var filter models.EvaluationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}
	filter.Normalize()

	runs, err := h.service.ListEvaluations(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to list evaluations", err)
		return
	}

	response.Success(c, gin.H{
		"data":   runs,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// GetByID handles GET /api/v1/evaluations/:id
func (h *EvaluationHandler) GetByID(c *gin.Context) {
	run, err := h.service.GetEvaluation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to get evaluation", err)
		return
	}

	response.Success(c, run)
}

func resolveUnit(name string, fallback accuracy.Unit) (accuracy.Unit, error) {
	if name == "" {
		return fallback, nil
	}
	return accuracy.ParseUnit(name)
}
