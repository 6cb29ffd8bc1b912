package handler

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/middleware"
	"roomlink/internal/domain/entity"
	"roomlink/internal/usecase"
	"roomlink/pkg/response"
	"roomlink/pkg/utils"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

type createReviewRequest struct {
	Rating  float64 `json:"rating" validate:"required,min=1,max=5"`
	Comment string  `json:"comment" validate:"max=2000"`
}

func (h *ReviewHandler) ReviewUser(c echo.Context) error {
	var req createReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.reviewUseCase.SubmitUserReview(c.Request().Context(), middleware.UserID(c), c.Param("id"), usecase.SubmitReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
}

func (h *ReviewHandler) ReviewListing(c echo.Context) error {
	var req createReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.reviewUseCase.SubmitListingReview(c.Request().Context(), middleware.UserID(c), c.Param("id"), usecase.SubmitReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
}

func (h *ReviewHandler) ListUserReviews(c echo.Context) error {
	return h.list(c, entity.ReviewTargetUser)
}

func (h *ReviewHandler) ListListingReviews(c echo.Context) error {
	return h.list(c, entity.ReviewTargetListing)
}

func (h *ReviewHandler) list(c echo.Context, targetType string) error {
	pagination := utils.GetPaginationParams(c)
	reviews, total, err := h.reviewUseCase.ListReviews(c.Request().Context(), targetType, c.Param("id"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, reviews, total, pagination.Page, pagination.PageSize)
}
