package router

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/handler"
	"roomlink/internal/adapter/api/middleware"
	"roomlink/internal/infrastructure/ratelimit"
)

func SetupAuthRouter(e *echo.Echo, limiter middleware.Limiter) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/v1/auth")
	auth.Use(middleware.IPRateLimit(limiter, ratelimit.ActionAuth))

	auth.POST("/register", authHandler.Register)
	auth.POST("/otp/send", authHandler.SendOTP)
	auth.POST("/otp/verify", authHandler.VerifyOTP)
}
