package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/recommender/internal/httputil"
	"github.com/persistorai/recommender/internal/metrics"
	"github.com/persistorai/recommender/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeUnavailable    = "unavailable"
	ErrCodeInternalError  = "internal_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondServiceError maps a service error onto an HTTP response. notFound is
// the message used for lookup misses.
func respondServiceError(c *gin.Context, log *logrus.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, models.ErrProductNotFound), errors.Is(err, models.ErrNoMatch):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, notFound)
	case errors.Is(err, models.ErrMissingID), errors.Is(err, models.ErrMissingQuery),
		errors.Is(err, models.ErrInvalidTopN):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).Warn("request ended before artifacts were ready")
		respondError(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "artifacts are still loading")
	default:
		log.WithError(err).Error("request failed")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
