package router

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/handler"
	"roomlink/internal/adapter/api/middleware"
	"roomlink/internal/infrastructure/ratelimit"
)

func SetupPaymentRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter middleware.Limiter) {
	paymentHandler := handler.GetPaymentHandler()

	// Paystack authenticates with the body signature, not a user token.
	e.POST("/v1/payments/webhook", paymentHandler.Webhook, middleware.IPRateLimit(limiter, ratelimit.ActionWebhook))

	payments := e.Group("/v1/payments")
	payments.Use(authMiddleware.Authenticate)

	payments.POST("/ad-unlock", paymentHandler.InitializeAdUnlock)
	payments.POST("/topup", paymentHandler.InitializeTopup)
	payments.GET("/verify/:reference", paymentHandler.VerifyPayment)
}
