package router

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/handler"
	"roomlink/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	listingHandler := handler.GetListingHandler()
	commentHandler := handler.GetCommentHandler()

	public := e.Group("/v1/listings")
	public.Use(authMiddleware.OptionalAuth)

	public.GET("", listingHandler.ListListings)
	public.GET("/:id", listingHandler.GetListing)
	public.GET("/:id/comments", commentHandler.ListComments)

	protected := e.Group("/v1/listings")
	protected.Use(authMiddleware.Authenticate)

	protected.POST("", listingHandler.CreateListing)
	protected.PATCH("/:id", listingHandler.UpdateListing)
	protected.PUT("/:id/visibility", listingHandler.SetVisibility)
	protected.POST("/:id/images", listingHandler.UploadImage)

	protected.POST("/:id/comments", commentHandler.AddComment)
	protected.DELETE("/:id/comments/:commentId", commentHandler.HideComment)
}
