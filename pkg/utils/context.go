package utils

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"

	"service-order/pkg/contextkeys"
	apperrors "service-order/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func WithUserID(ctx context.Context, userID uint64) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// RequestIDFromCtx возвращает пустую строку вне HTTP-запроса.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(contextkeys.RequestIDKey).(string)
	return id
}

// ParseIDParam читает положительный числовой параметр пути.
func ParseIDParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewInvalidInputError("неверный параметр %s: %q", name, c.Param(name))
	}
	return id, nil
}
