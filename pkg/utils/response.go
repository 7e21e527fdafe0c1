package utils

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"service-order/internal/workflow"
	apperrors "service-order/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	return ctx.JSON(code, response)
}

// ErrorResponse переводит ошибку в HTTP-ответ. Отказы валидации перехода не логируются как сбои.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	httpErr := MapError(err)

	if logger != nil {
		fields := []zap.Field{
			zap.Int("code", httpErr.Code),
			zap.String("path", ctx.Path()),
			zap.Error(err),
		}
		for k, v := range httpErr.Context {
			fields = append(fields, zap.Any(k, v))
		}
		switch {
		case httpErr.Code >= http.StatusInternalServerError:
			logger.Error("Ошибка обработки запроса", fields...)
		case workflow.IsRejection(err):
			logger.Debug("Переход отклонён", fields...)
		default:
			logger.Warn("Запрос отклонён", fields...)
		}
	}

	response := &HttpResponse{
		Status:  false,
		Body:    httpErr.Details,
		Message: httpErr.Message,
	}
	if response.Body == nil {
		response.Body = struct{}{}
	}
	return ctx.JSON(httpErr.Code, response)
}

// MapError сопоставляет доменные ошибки с HTTP-кодами.
func MapError(err error) *apperrors.HttpError {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var rejection *workflow.RejectionError
	if errors.As(err, &rejection) {
		return &apperrors.HttpError{
			Code:    http.StatusUnprocessableEntity,
			Message: rejection.Message(),
			Err:     err,
			Details: map[string]string{
				"kind": string(rejection.Kind()),
				"from": rejection.From.String(),
				"to":   rejection.To.String(),
			},
		}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			fields[fe.Field()] = fe.Tag()
		}
		return &apperrors.HttpError{Code: http.StatusBadRequest, Message: "ошибка валидации запроса", Err: err, Details: fields}
	}

	var inputErr *apperrors.InvalidInputError
	if errors.As(err, &inputErr) {
		return apperrors.NewHttpError(http.StatusBadRequest, inputErr.Message, err, nil)
	}

	for sentinel, code := range ErrorList {
		if errors.Is(err, sentinel) {
			return apperrors.NewHttpError(code, sentinel.Error(), err, nil)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewHttpError(http.StatusServiceUnavailable, "хранилище не ответило вовремя, статус не изменён", err, nil)
	}

	return apperrors.NewHttpError(http.StatusInternalServerError, "внутренняя ошибка сервера", err, nil)
}
