package router

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/handler"
	"roomlink/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	v1 := e.Group("/v1")
	v1.Use(authMiddleware.Authenticate)

	v1.POST("/messages", chatHandler.SendMessage)
	v1.PUT("/messages/:id/read", chatHandler.MarkMessageRead)

	v1.GET("/conversations", chatHandler.ListConversations)
	v1.GET("/conversations/:userId/messages", chatHandler.GetConversation)
	v1.PUT("/conversations/:userId/read", chatHandler.MarkConversationRead)
}
