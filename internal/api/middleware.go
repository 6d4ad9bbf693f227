package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geopin/geopin-bot/pkg/logger"
	"github.com/geopin/geopin-bot/pkg/metrics"
)

// requestLogging injects a correlation ID and logs request telemetry.
func requestLogging(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		start := time.Now()

		ctx := logger.WithCorrelationID(c.Request.Context(), "")
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		log.Info("handled http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("correlation_id", logger.CorrelationIDFromContext(ctx)),
		)
	}
}

// requestMetrics reports request counts and latencies to Prometheus.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RecordAPIRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

// recovery converts panics into enveloped 500 responses.
func recovery(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered in api handler",
					slog.String("path", c.Request.URL.Path),
					slog.Any("panic", r),
				)
				respondError(c, http.StatusInternalServerError, "Внутренняя ошибка сервера", "")
			}
		}()

		c.Next()
	}
}
