package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"service-order/internal/services"
	"service-order/pkg/utils"
)

// OrderHistoryController управляет запросами к истории заявок
type OrderHistoryController struct {
	historyService    services.OrderHistoryServiceInterface
	transitionService services.TransitionServiceInterface
	logger            *zap.Logger
}

func NewOrderHistoryController(
	historyService services.OrderHistoryServiceInterface,
	transitionService services.TransitionServiceInterface,
	logger *zap.Logger,
) *OrderHistoryController {
	return &OrderHistoryController{
		historyService:    historyService,
		transitionService: transitionService,
		logger:            logger,
	}
}

// GetHistoryForOrder возвращает историю событий для указанной заявки
func (c *OrderHistoryController) GetHistoryForOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orderID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	limitStr := ctx.QueryParam("limit")
	offsetStr := ctx.QueryParam("offset")
	c.logger.Debug("Параметры пагинации", zap.String("limit", limitStr), zap.String("offset", offsetStr))

	// заявка должна существовать, иначе пустая история выглядит как 200
	if _, err := c.transitionService.GetProgress(reqCtx, orderID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	timeline, err := c.historyService.GetTimelineByOrderID(reqCtx, orderID, limitStr, offsetStr)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	c.logger.Info("История заявки успешно получена", zap.Uint64("orderID", orderID), zap.Int("events", len(timeline)))
	return utils.SuccessResponse(ctx, timeline, "История заявки успешно получена", http.StatusOK)
}
