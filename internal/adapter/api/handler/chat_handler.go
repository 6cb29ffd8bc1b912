package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/middleware"
	"roomlink/internal/usecase"
	"roomlink/pkg/response"
	"roomlink/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id" form:"receiver_id" validate:"required"`
	ListingID  string `json:"listing_id" form:"listing_id"`
	Content    string `json:"content" form:"content" validate:"max=4000"`
}

// SendMessage accepts JSON, or multipart form data with an optional "image" file.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	input := usecase.SendMessageInput{
		ReceiverID: req.ReceiverID,
		ListingID:  req.ListingID,
		Content:    req.Content,
	}

	if isMultipart(c) {
		if _, err := c.FormFile("image"); err == nil {
			src, contentType, err := openImage(c, "image")
			if err != nil {
				return response.Error(c, err)
			}
			defer closeQuietly(src)
			input.Image = src
			input.ImageContentType = contentType
		}
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), middleware.UserID(c), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	conversations, err := h.chatUseCase.ListConversations(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversations)
}

func (h *ChatHandler) GetConversation(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	messages, total, err := h.chatUseCase.GetConversation(
		c.Request().Context(),
		middleware.UserID(c),
		c.Param("userId"),
		c.QueryParam("listingId"),
		pagination.PageSize,
		pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, messages, total, pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) MarkConversationRead(c echo.Context) error {
	updated, err := h.chatUseCase.MarkConversationRead(c.Request().Context(), middleware.UserID(c), c.Param("userId"), c.QueryParam("listingId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int{"updated": updated})
}

func (h *ChatHandler) MarkMessageRead(c echo.Context) error {
	if err := h.chatUseCase.MarkMessageRead(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Message marked as read"})
}
