package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
	"github.com/mamadbah2/fleetcheck/internal/service/archive"
	"github.com/mamadbah2/fleetcheck/internal/service/climate"
	"github.com/mamadbah2/fleetcheck/internal/service/reporting"
	"github.com/mamadbah2/fleetcheck/internal/service/synccode"
	"github.com/mamadbah2/fleetcheck/internal/service/warehouse"
)

var disabledErrors = []error{
	reporting.ErrPublishDisabled,
	reporting.ErrTemplateDisabled,
	warehouse.ErrAnalysisDisabled,
	climate.ErrPushDisabled,
	archive.ErrDisabled,
}

// respondError maps service errors onto HTTP responses. Anything unrecognized
// is answered with fallback (500 for local failures, 502 for boundary calls).
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback int) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		msg := "validation failed"
		if errors.Is(err, synccode.ErrInvalidCode) {
			msg = synccode.ErrInvalidCode.Error()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "fields": vErr.Errors})
		return
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	case errors.Is(err, warehouse.ErrNoPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	for _, disabled := range disabledErrors {
		if errors.Is(err, disabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": disabled.Error()})
			return
		}
	}

	logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	msg := "internal error"
	if fallback == http.StatusBadGateway {
		msg = "central server unavailable"
	}
	c.JSON(fallback, gin.H{"error": msg})
}

// dayParam reads ?day=, defaulting to today. The result is always within 1..31.
func dayParam(c *gin.Context, now func() time.Time) (int, error) {
	raw := c.Query("day")
	if raw == "" {
		return now().Day(), nil
	}
	day, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError("day", "must be a number")
	}
	return models.ClampDay(day), nil
}

func attachment(c *gin.Context, name string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
