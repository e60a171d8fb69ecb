package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/trip-activity-go/internal/analysis/segmentation"
	"github.com/jengzang/trip-activity-go/internal/repository"
	"github.com/jengzang/trip-activity-go/internal/service"
	"github.com/jengzang/trip-activity-go/pkg/response"
)

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, segmentation.ErrInvalidParams),
		errors.Is(err, segmentation.ErrTraceTooShort),
		errors.Is(err, service.ErrInvalidTraceID):
		response.BadRequest(c, message, err)
	case errors.Is(err, repository.ErrNotFound):
		response.NotFound(c, message, err)
	case errors.Is(err, service.ErrStorageDisabled):
		response.Error(c, http.StatusServiceUnavailable, message, err)
	default:
		_ = c.Error(err)
		response.InternalError(c, message)
	}
}
