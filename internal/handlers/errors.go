package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"affiliate-engine/internal/economics"
	"affiliate-engine/internal/services"
	"affiliate-engine/internal/settings"
)

// respondError maps service and engine errors to an HTTP status
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := http.StatusInternalServerError
	body := gin.H{"error": err.Error()}

	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrAlreadyReferred),
		errors.Is(err, services.ErrCouponExists):
		status = http.StatusConflict
	case errors.Is(err, services.ErrSelfReferral),
		errors.Is(err, services.ErrUnknownPlan),
		errors.Is(err, settings.ErrInvalidSettings),
		errors.Is(err, economics.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrCouponInactive):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, economics.ErrConfiguration):
		body["code"] = "configuration"
		log.Error("affiliate settings need attention", zap.String("path", c.FullPath()), zap.Error(err))
	default:
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		body["error"] = "Internal server error"
	}

	c.JSON(status, body)
}
