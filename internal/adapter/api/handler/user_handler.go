package handler

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/middleware"
	"roomlink/internal/usecase"
	"roomlink/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userUseCase.GetProfile(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) GetPublicProfile(c echo.Context) error {
	profile, err := h.userUseCase.GetPublicProfile(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

type updateProfileRequest struct {
	Username string `json:"username" validate:"omitempty,min=3,max=30"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	Bio      string `json:"bio" validate:"omitempty,max=500"`
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), middleware.UserID(c), usecase.UpdateProfileInput{
		Username: req.Username,
		FullName: req.FullName,
		Phone:    req.Phone,
		Bio:      req.Bio,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) UploadAvatar(c echo.Context) error {
	src, contentType, err := openImage(c, "file")
	if err != nil {
		return response.Error(c, err)
	}
	defer closeQuietly(src)

	user, err := h.userUseCase.UploadAvatar(c.Request().Context(), middleware.UserID(c), src, contentType)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) BlockUser(c echo.Context) error {
	if err := h.userUseCase.BlockUser(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{"blocked": true})
}

func (h *UserHandler) UnblockUser(c echo.Context) error {
	if err := h.userUseCase.UnblockUser(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{"blocked": false})
}

func (h *UserHandler) ListBlocked(c echo.Context) error {
	profiles, err := h.userUseCase.ListBlocked(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profiles)
}

type fcmTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

func (h *UserHandler) RegisterFCMToken(c echo.Context) error {
	var req fcmTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}
	if err := h.userUseCase.RegisterFCMToken(c.Request().Context(), middleware.UserID(c), req.Token); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Token registered"})
}

func (h *UserHandler) UnregisterFCMToken(c echo.Context) error {
	var req fcmTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}
	if err := h.userUseCase.UnregisterFCMToken(c.Request().Context(), middleware.UserID(c), req.Token); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Token removed"})
}
