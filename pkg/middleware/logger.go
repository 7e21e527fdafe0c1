package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"service-order/pkg/metrics"
	"service-order/pkg/utils"
)

// RequestLogger пишет в лог каждый запрос и считает его в метриках.
func RequestLogger(logger *zap.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			c.SetRequest(c.Request().WithContext(utils.WithRequestID(c.Request().Context(), requestID)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			duration := time.Since(start)
			if m != nil {
				m.RecordHTTPRequest(c.Request().Method, c.Path(), status, duration)
			}
			logger.Info("HTTP запрос",
				zap.String("request_id", requestID),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Duration("duration", duration),
			)
			return nil
		}
	}
}
