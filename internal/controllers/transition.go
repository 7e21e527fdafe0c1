package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"service-order/internal/dto"
	"service-order/internal/services"
	"service-order/internal/workflow"
	apperrors "service-order/pkg/errors"
	"service-order/pkg/utils"
)

type TransitionController struct {
	transitionService services.TransitionServiceInterface
	logger            *zap.Logger
}

func NewTransitionController(transitionService services.TransitionServiceInterface, logger *zap.Logger) *TransitionController {
	return &TransitionController{transitionService: transitionService, logger: logger}
}

func (c *TransitionController) Advance(ctx echo.Context) error {
	orderID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var d dto.AdvanceTransitionDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат запроса", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	d.OrderID = orderID

	res, err := c.transitionService.Advance(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return respondWithTransition(ctx, res)
}

func (c *TransitionController) CompleteActions(ctx echo.Context) error {
	orderID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var d dto.CompleteActionsDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат запроса", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	d.OrderID = orderID

	res, err := c.transitionService.CompleteRequiredActions(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return respondWithTransition(ctx, res)
}

func (c *TransitionController) Revert(ctx echo.Context) error {
	orderID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var d dto.RevertTransitionDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат запроса", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	d.OrderID = orderID

	res, err := c.transitionService.Revert(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return respondWithTransition(ctx, res)
}

func (c *TransitionController) GetProgress(ctx echo.Context) error {
	orderID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	progress, err := c.transitionService.GetProgress(ctx.Request().Context(), orderID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, progress, "Прогресс заявки получен", http.StatusOK)
}

// DescribeFlow отдаёт шаги потока. Неизвестный тип не ошибка: возвращается поток on_site с fallback=true.
func (c *TransitionController) DescribeFlow(ctx echo.Context) error {
	attendance := workflow.AttendanceType(ctx.Param("attendanceType"))
	flow := c.transitionService.DescribeFlow(attendance)
	if flow.Fallback {
		c.logger.Warn("Запрошен поток для неизвестного способа обслуживания", zap.String("attendanceType", attendance.String()))
	}
	return utils.SuccessResponse(ctx, flow, "Поток статусов получен", http.StatusOK)
}

func respondWithTransition(ctx echo.Context, res *dto.TransitionResultDTO) error {
	switch {
	case res.ActionRequired:
		return utils.SuccessResponse(ctx, res, "Требуется выполнить обязательные действия", http.StatusOK)
	case len(res.SideEffectErrors) > 0:
		return utils.SuccessResponse(ctx, res, "Статус изменён, часть связанных действий не выполнена", http.StatusOK)
	default:
		return utils.SuccessResponse(ctx, res, "Статус заявки изменён", http.StatusOK)
	}
}
