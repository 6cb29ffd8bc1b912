package router

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/handler"
	"roomlink/internal/adapter/api/middleware"
)

func SetupReportRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	reportHandler := handler.GetReportHandler()

	e.POST("/v1/reports", reportHandler.CreateReport, authMiddleware.Authenticate)

	admin := e.Group("/v1/admin/reports")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(middleware.AdminOnly)

	admin.GET("", reportHandler.ListReports)
	admin.PUT("/:id/resolve", reportHandler.ResolveReport)
}
