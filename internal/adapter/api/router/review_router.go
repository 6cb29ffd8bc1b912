package router

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/handler"
	"roomlink/internal/adapter/api/middleware"
)

func SetupReviewRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	reviewHandler := handler.GetReviewHandler()

	e.GET("/v1/users/:id/reviews", reviewHandler.ListUserReviews)
	e.GET("/v1/listings/:id/reviews", reviewHandler.ListListingReviews)

	e.POST("/v1/users/:id/reviews", reviewHandler.ReviewUser, authMiddleware.Authenticate)
	e.POST("/v1/listings/:id/reviews", reviewHandler.ReviewListing, authMiddleware.Authenticate)
}
