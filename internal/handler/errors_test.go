package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/trip-activity-go/internal/analysis/accuracy"
	"github.com/jengzang/trip-activity-go/internal/analysis/segmentation"
	"github.com/jengzang/trip-activity-go/internal/repository"
	"github.com/jengzang/trip-activity-go/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid params", fmt.Errorf("%w: radius", segmentation.ErrInvalidParams), http.StatusBadRequest},
		{"too short", segmentation.ErrTraceTooShort, http.StatusBadRequest},
		{"bad trace id", service.ErrInvalidTraceID, http.StatusBadRequest},
		{"not found", fmt.Errorf("trace %q: %w", "x", repository.ErrNotFound), http.StatusNotFound},
		{"no storage", service.ErrStorageDisabled, http.StatusServiceUnavailable},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, "failed", tt.err)
			assert.Equal(t, tt.want, w.Code)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, "failed", errors.New("disk on fire"))

	assert.NotContains(t, w.Body.String(), "disk on fire")
	require.Len(t, c.Errors, 1)
}

func TestResolveUnit(t *testing.T) {
	unit, err := resolveUnit("", accuracy.Miles)
	require.NoError(t, err)
	assert.Equal(t, accuracy.Miles, unit)

	unit, err = resolveUnit("km", accuracy.Miles)
	require.NoError(t, err)
	assert.Equal(t, accuracy.Kilometers, unit)

	_, err = resolveUnit("parsec", accuracy.Miles)
	assert.Error(t, err)
}
