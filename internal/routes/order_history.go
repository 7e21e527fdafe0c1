package routes

import (
	"github.com/labstack/echo/v4"

	"service-order/internal/controllers"
)

func runOrderHistoryRouter(secureGroup *echo.Group, controller *controllers.OrderHistoryController) {
	secureGroup.GET("/orders/:id/history", controller.GetHistoryForOrder)
}
