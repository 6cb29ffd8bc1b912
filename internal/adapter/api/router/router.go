package router

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/middleware"
)

// Setup mounts the /v1 API. Handlers must be initialised with handler.Setup first.
func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter middleware.Limiter) {
	SetupAuthRouter(e, limiter)
	SetupUserRouter(e, authMiddleware)
	SetupListingRouter(e, authMiddleware)
	SetupReviewRouter(e, authMiddleware)
	SetupReportRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupPaymentRouter(e, authMiddleware, limiter)
}
