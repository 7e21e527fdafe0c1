package routes

import (
	"github.com/labstack/echo/v4"

	"service-order/internal/controllers"
)

// Лента проверяет токен сама: при апгрейде заголовок Authorization недоступен.
func runLiveFeedRouter(api *echo.Group, controller *controllers.LiveFeedController) {
	api.GET("/ws/orders", controller.ServeWs)
}
