package router

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/handler"
	"roomlink/internal/adapter/api/middleware"
	"roomlink/internal/infrastructure/ratelimit"
)

// SetupLegacyRouter mounts the Mongo-backed /api surface.
func SetupLegacyRouter(e *echo.Echo, legacyHandler *handler.LegacyHandler, tokens middleware.TokenValidator, limiter middleware.Limiter) {
	auth := e.Group("/api/auth")
	auth.Use(middleware.IPRateLimit(limiter, ratelimit.ActionAuth))

	auth.POST("/signup", legacyHandler.Signup)
	auth.POST("/login", legacyHandler.Login)

	messages := e.Group("/api/messages")
	messages.Use(middleware.LegacyAuth(tokens))

	messages.POST("", legacyHandler.SendMessage)
	messages.GET("/:userId", legacyHandler.Conversation)
	messages.PUT("/:id/read", legacyHandler.MarkRead)
	messages.DELETE("/:id", legacyHandler.DeleteMessage)
}
