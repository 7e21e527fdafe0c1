package routes

import (
	"github.com/labstack/echo/v4"

	"service-order/internal/controllers"
)

func runTransitionRouter(secureGroup *echo.Group, controller *controllers.TransitionController) {
	secureGroup.GET("/flows/:attendanceType", controller.DescribeFlow)

	orders := secureGroup.Group("/orders/:id")
	orders.GET("/progress", controller.GetProgress)
	orders.POST("/transitions/advance", controller.Advance)
	orders.POST("/transitions/complete-actions", controller.CompleteActions)
	orders.POST("/transitions/revert", controller.Revert)
}
