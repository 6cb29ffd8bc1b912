package handler

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/middleware"
	"roomlink/internal/usecase"
	"roomlink/pkg/response"
	"roomlink/pkg/utils"
)

// LegacyHandler serves the /api surface used by older app builds.
type LegacyHandler struct {
	legacyUseCase *usecase.LegacyUseCase
}

func NewLegacyHandler(legacyUseCase *usecase.LegacyUseCase) *LegacyHandler {
	return &LegacyHandler{
		legacyUseCase: legacyUseCase,
	}
}

type legacySignupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type legacyLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type legacyMessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	ListingID  string `json:"listingId"`
	Content    string `json:"content" validate:"required,max=4000"`
}

func (h *LegacyHandler) Signup(c echo.Context) error {
	var req legacySignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.legacyUseCase.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
}

func (h *LegacyHandler) Login(c echo.Context) error {
	var req legacyLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.legacyUseCase.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}

func (h *LegacyHandler) SendMessage(c echo.Context) error {
	var req legacyMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.legacyUseCase.SendMessage(c.Request().Context(), middleware.UserID(c), req.ReceiverID, req.ListingID, req.Content)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func (h *LegacyHandler) Conversation(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	messages, err := h.legacyUseCase.Conversation(c.Request().Context(), middleware.UserID(c), c.Param("userId"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}

func (h *LegacyHandler) MarkRead(c echo.Context) error {
	if err := h.legacyUseCase.MarkRead(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Message marked as read"})
}

func (h *LegacyHandler) DeleteMessage(c echo.Context) error {
	if err := h.legacyUseCase.DeleteMessage(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Message deleted"})
}
