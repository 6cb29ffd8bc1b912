package handler

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/middleware"
	"roomlink/internal/usecase"
	"roomlink/pkg/response"
)

type CommentHandler struct {
	commentUseCase *usecase.CommentUseCase
}

func NewCommentHandler(commentUseCase *usecase.CommentUseCase) *CommentHandler {
	return &CommentHandler{
		commentUseCase: commentUseCase,
	}
}

type addCommentRequest struct {
	Text             string `json:"text" validate:"required,max=2000"`
	ReplyToCommentID string `json:"reply_to_comment_id"`
}

func (h *CommentHandler) AddComment(c echo.Context) error {
	var req addCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	comment, err := h.commentUseCase.AddComment(c.Request().Context(), middleware.CurrentUser(c), c.Param("id"), usecase.AddCommentInput{
		Text:             req.Text,
		ReplyToCommentID: req.ReplyToCommentID,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, comment)
}

// ListComments returns the flat list, or the threaded view with ?view=threads.
func (h *CommentHandler) ListComments(c echo.Context) error {
	ctx := c.Request().Context()
	listingID := c.Param("id")

	if c.QueryParam("view") == "threads" {
		threads, err := h.commentUseCase.ListThreads(ctx, listingID)
		if err != nil {
			return response.Error(c, err)
		}
		return response.Success(c, threads)
	}

	comments, err := h.commentUseCase.ListComments(ctx, listingID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, comments)
}

func (h *CommentHandler) HideComment(c echo.Context) error {
	err := h.commentUseCase.HideComment(c.Request().Context(), middleware.CurrentUser(c), c.Param("id"), c.Param("commentId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Comment hidden"})
}
