package routes

import (
	"github.com/labstack/echo/v4"

	"service-order/internal/controllers"
	"service-order/pkg/metrics"
)

func runReportRouter(secureGroup *echo.Group, controller *controllers.ReportController) {
	secureGroup.GET("/orders/:id/history/export", controller.ExportHistory)
}

// /metrics без авторизации: его опрашивает Prometheus.
func runMetricsRouter(e *echo.Echo, m *metrics.Metrics) {
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
}
