package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"service-order/pkg/service"
	appwebsocket "service-order/pkg/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveFeedController открывает WebSocket-ленту смен статусов.
// Браузер не умеет передавать заголовок Authorization при апгрейде, поэтому токен приходит в ?token=.
type LiveFeedController struct {
	hub        *appwebsocket.Hub
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewLiveFeedController(hub *appwebsocket.Hub, jwtService service.JWTService, logger *zap.Logger) *LiveFeedController {
	return &LiveFeedController{
		hub:        hub,
		jwtService: jwtService,
		logger:     logger,
	}
}

// ServeWs: ?order_id=N подписывает на одну заявку, без параметра на все.
func (c *LiveFeedController) ServeWs(ctx echo.Context) error {
	tokenString := ctx.QueryParam("token")
	if tokenString == "" {
		return ctx.String(http.StatusUnauthorized, "Missing token")
	}
	claims, err := c.jwtService.ValidateToken(tokenString)
	if err != nil || claims.IsRefreshToken {
		return ctx.String(http.StatusUnauthorized, "Invalid token")
	}

	orderID := appwebsocket.AllOrders
	if raw := ctx.QueryParam("order_id"); raw != "" {
		orderID, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return ctx.String(http.StatusBadRequest, "Invalid order_id")
		}
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("WebSocket: не удалось улучшить соединение", zap.Error(err))
		return err
	}

	client := appwebsocket.NewClient(c.hub, conn, claims.UserID, orderID)
	if err := c.hub.Register(client); err != nil {
		conn.Close()
		return nil
	}

	go client.WritePump()
	go client.ReadPump()

	c.logger.Info("WebSocket: клиент подключен", zap.Uint64("userID", claims.UserID), zap.Uint64("orderID", orderID))
	return nil
}
