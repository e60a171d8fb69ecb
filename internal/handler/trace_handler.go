package handler

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/trip-activity-go/internal/analysis/accuracy"
	"github.com/jengzang/trip-activity-go/internal/analysis/segmentation"
	"github.com/jengzang/trip-activity-go/internal/ingest"
	"github.com/jengzang/trip-activity-go/internal/models"
	"github.com/jengzang/trip-activity-go/internal/service"
	"github.com/jengzang/trip-activity-go/pkg/response"
)

// TraceHandler handles HTTP requests for stored traces
type TraceHandler struct {
	service     *service.SegmentationService
	csvOptions  ingest.Options
	defaultUnit accuracy.Unit
}

// NewTraceHandler creates a new trace handler
func NewTraceHandler(service *service.SegmentationService, csvOptions ingest.Options, defaultUnit accuracy.Unit) *TraceHandler {
	return &TraceHandler{service: service, csvOptions: csvOptions, defaultUnit: defaultUnit}
}

type importRequest struct {
	Fixes []models.GPSFix `json:"fixes" binding:"required"`
}

// Import handles POST /api/v1/traces/:id.
// The body is either JSON {"fixes": [...]} or a diary CSV sent as text/csv.
func (h *TraceHandler) Import(c *gin.Context) {
	var fixes []models.GPSFix
	var report *ingest.Report

	if strings.HasPrefix(c.ContentType(), "text/csv") {
		parsed, r, err := ingest.ReadCSV(c.Request.Body, h.csvOptions)
		if err != nil {
			response.BadRequest(c, "Invalid CSV body", err)
			return
		}
		fixes, report = parsed, &r
	} else {
		var req importRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body", err)
			return
		}
		fixes = req.Fixes
	}

	summary, err := h.service.ImportTrace(c.Request.Context(), c.Param("id"), fixes)
	if err != nil {
		respondError(c, "Failed to import trace", err)
		return
	}

	data := gin.H{"trace": summary}
	if report != nil {
		data["report"] = report
	}
	response.Created(c, data)
}

// List handles GET /api/v1/traces
func (h *TraceHandler) List(c *gin.Context) {
	traces, err := h.service.ListTraces(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list traces", err)
		return
	}

	response.Success(c, traces)
}

type evaluateStoredRequest struct {
	Params segmentation.Params `json:"params"`
	Unit   string              `json:"unit"`
}

// Evaluate handles POST /api/v1/traces/:id/evaluate; the body is optional
func (h *TraceHandler) Evaluate(c *gin.Context) {
	req := evaluateStoredRequest{Params: h.service.DefaultParams()}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	unit, err := resolveUnit(req.Unit, h.defaultUnit)
	if err != nil {
		response.BadRequest(c, "Invalid distance unit", err)
		return
	}

	run, err := h.service.EvaluateStoredTrace(c.Request.Context(), c.Param("id"), req.Params, unit)
	if err != nil {
		respondError(c, "Failed to evaluate trace", err)
		return
	}

	response.Created(c, run)
}

// Delete handles DELETE /api/v1/traces/:id
func (h *TraceHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteTrace(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Failed to delete trace", err)
		return
	}

	response.Success(c, gin.H{"traceId": c.Param("id")})
}
