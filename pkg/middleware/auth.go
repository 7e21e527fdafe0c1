package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "service-order/pkg/errors"
	"service-order/pkg/service"
	"service-order/pkg/utils"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth проверяет access-токен и кладёт id пользователя в контекст запроса.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}

		if claims.IsRefreshToken {
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		ctx := utils.WithUserID(c.Request().Context(), claims.UserID)
		c.SetRequest(c.Request().WithContext(ctx))

		m.logger.Debug("AuthMiddleware: пользователь аутентифицирован", zap.Uint64("userID", claims.UserID))
		return next(c)
	}
}
