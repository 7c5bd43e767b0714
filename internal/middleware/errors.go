package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/persistorai/recommender/internal/httputil"
	"github.com/persistorai/recommender/internal/metrics"
)

// respondError counts the rejection and writes the shared error envelope.
func respondError(c *gin.Context, code int, errCode, message string) {
	metrics.ErrorsTotal.WithLabelValues(errCode).Inc()
	httputil.RespondError(c, code, errCode, message)
}
