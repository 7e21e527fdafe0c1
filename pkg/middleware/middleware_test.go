package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"service-order/pkg/metrics"
	"service-order/pkg/service"
	"service-order/pkg/utils"
)

func TestRequestLogger_PropagatesRequestID(t *testing.T) {
	m := metrics.New("test")
	e := echo.New()
	e.Use(RequestLogger(zap.NewNop(), m))

	var seen string
	e.GET("/ping", func(c echo.Context) error {
		seen = utils.RequestIDFromCtx(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "204")))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID), "без заголовка id генерируется")
}

func TestAuthMiddleware(t *testing.T) {
	jwtSvc := service.NewJWTService("secret")
	mw := NewAuthMiddleware(jwtSvc, zap.NewNop())

	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		userID, err := utils.GetUserIDFromCtx(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]uint64{"user_id": userID})
	}, mw.Auth)

	token, err := jwtSvc.GenerateAccessToken(9, time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
