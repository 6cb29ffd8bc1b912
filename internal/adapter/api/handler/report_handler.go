package handler

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/middleware"
	"roomlink/internal/usecase"
	"roomlink/pkg/response"
	"roomlink/pkg/utils"
)

type ReportHandler struct {
	reportUseCase *usecase.ReportUseCase
}

func NewReportHandler(reportUseCase *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{
		reportUseCase: reportUseCase,
	}
}

type createReportRequest struct {
	ListingID      string `json:"listing_id"`
	ReportedUserID string `json:"reported_user_id"`
	Reason         string `json:"reason" validate:"required,oneof=spam scam inappropriate harassment other"`
	Details        string `json:"details" validate:"max=2000"`
}

func (h *ReportHandler) CreateReport(c echo.Context) error {
	var req createReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	report, err := h.reportUseCase.CreateReport(c.Request().Context(), middleware.UserID(c), usecase.CreateReportInput{
		ListingID:      req.ListingID,
		ReportedUserID: req.ReportedUserID,
		Reason:         req.Reason,
		Details:        req.Details,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, report)
}

// Admin handlers

func (h *ReportHandler) ListReports(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	reports, total, err := h.reportUseCase.ListReports(c.Request().Context(), c.QueryParam("status"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, reports, total, pagination.Page, pagination.PageSize)
}

type resolveReportRequest struct {
	Dismiss     bool `json:"dismiss"`
	HideListing bool `json:"hide_listing"`
}

func (h *ReportHandler) ResolveReport(c echo.Context) error {
	var req resolveReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	report, err := h.reportUseCase.ResolveReport(c.Request().Context(), middleware.CurrentUser(c), c.Param("id"), usecase.ResolveReportInput{
		Dismiss:     req.Dismiss,
		HideListing: req.HideListing,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, report)
}
