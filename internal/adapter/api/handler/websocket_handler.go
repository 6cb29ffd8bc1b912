package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/middleware"
	ws "roomlink/internal/infrastructure/websocket"
	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
	"roomlink/pkg/response"
)

type WebSocketHandler struct {
	wsManager      *ws.Manager
	authMiddleware *middleware.AuthMiddleware
	upgrader       gorillaws.Upgrader
}

func NewWebSocketHandler(wsManager *ws.Manager, authMiddleware *middleware.AuthMiddleware) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:      wsManager,
		authMiddleware: authMiddleware,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Mobile clients send no Origin; auth is the ID token.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleWebSocket authenticates with ?token= (browsers cannot set headers on
// upgrade) or the Bearer header, then hands the connection to the hub.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	idToken := c.QueryParam("token")
	if idToken == "" {
		idToken = middleware.BearerToken(c.Request())
	}
	if idToken == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	user, err := h.authMiddleware.Resolve(c.Request().Context(), idToken)
	if err != nil {
		return response.Error(c, err)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		logger.Warn("WebSocket upgrade failed for %s: %v", user.ID, err)
		return nil
	}

	client := ws.NewClient(user.ID, conn)
	if !h.wsManager.Connect(client) {
		logger.Warn("WebSocket hub stopped, dropping connection for %s", user.ID)
		conn.Close()
		return nil
	}

	go client.WritePump()
	go client.ReadPump(h.wsManager)

	return nil
}
