package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/trip-activity-go/internal/analysis/segmentation"
	"github.com/jengzang/trip-activity-go/internal/models"
	"github.com/jengzang/trip-activity-go/internal/service"
	"github.com/jengzang/trip-activity-go/pkg/response"
)

// SegmentationHandler handles HTTP requests for one-off segmentation
type SegmentationHandler struct {
	service *service.SegmentationService
}

// NewSegmentationHandler creates a new segmentation handler
func NewSegmentationHandler(service *service.SegmentationService) *SegmentationHandler {
	return &SegmentationHandler{service: service}
}

// segmentationRequest is the body of POST /api/v1/segmentation.
// Params fields left out of the body keep their configured defaults.
type segmentationRequest struct {
	Fixes  []models.GPSFix     `json:"fixes" binding:"required"`
	Params segmentation.Params `json:"params"`
}

// Segment handles POST /api/v1/segmentation
func (h *SegmentationHandler) Segment(c *gin.Context) {
	req := segmentationRequest{Params: h.service.DefaultParams()}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	result, err := h.service.Segment(req.Fixes, req.Params)
	if err != nil {
		respondError(c, "Failed to segment trace", err)
		return
	}

	response.Success(c, result)
}

// GetDefaults handles GET /api/v1/segmentation/params
func (h *SegmentationHandler) GetDefaults(c *gin.Context) {
	response.Success(c, h.service.DefaultParams())
}
