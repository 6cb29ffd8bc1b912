package router

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/handler"
	"roomlink/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.GetProfile)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.POST("/me/avatar", userHandler.UploadAvatar)
	users.GET("/me/blocked", userHandler.ListBlocked)
	users.POST("/me/fcm-tokens", userHandler.RegisterFCMToken)
	users.DELETE("/me/fcm-tokens", userHandler.UnregisterFCMToken)
	users.POST("/:id/block", userHandler.BlockUser)
	users.DELETE("/:id/block", userHandler.UnblockUser)

	e.GET("/v1/users/:id", userHandler.GetPublicProfile, authMiddleware.OptionalAuth)
}
