package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/recommender/internal/middleware"
	"github.com/persistorai/recommender/internal/models"
)

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"route":    c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, exists := c.Get(middleware.RequestIDKey); exists {
			fields["request_id"] = rid
		}
		log.WithFields(fields).Info("request")
	}
}

// Input length limits.
const (
	maxIDLength    = 255
	maxQueryLength = 256
)

// validatePathID checks that a path parameter ID is non-empty and within length limits.
func validatePathID(id string) error {
	if id == "" {
		return models.ErrMissingID
	}
	if len(id) > maxIDLength {
		return models.ErrFieldTooLong("product_id", maxIDLength)
	}
	return nil
}

// parseTopN reads the top_n query parameter. A missing value yields fallback,
// values above maxN are clamped and non-positive values pass through (they
// produce an empty list).
func parseTopN(c *gin.Context, fallback, maxN int) (int, error) {
	raw, ok := c.GetQuery("top_n")
	if !ok || raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.ErrInvalidTopN
	}

	return min(v, maxN), nil
}
