package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/middleware"
	"roomlink/internal/domain/service"
	"roomlink/internal/usecase"
	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
	"roomlink/pkg/response"
)

const (
	paystackSignatureHeader = "X-Paystack-Signature"
	maxWebhookBody          = 1 << 20
)

type PaymentHandler struct {
	paymentUseCase *usecase.PaymentUseCase
	secretKey      string
}

func NewPaymentHandler(paymentUseCase *usecase.PaymentUseCase, secretKey string) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
		secretKey:      secretKey,
	}
}

func (h *PaymentHandler) InitializeAdUnlock(c echo.Context) error {
	checkout, err := h.paymentUseCase.InitializeAdUnlock(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, checkout)
}

type topupRequest struct {
	// Amount in kobo.
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

func (h *PaymentHandler) InitializeTopup(c echo.Context) error {
	var req topupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	checkout, err := h.paymentUseCase.InitializeTopup(c.Request().Context(), middleware.UserID(c), req.Amount)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, checkout)
}

func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	payment, err := h.paymentUseCase.VerifyPayment(c.Request().Context(), middleware.UserID(c), c.Param("reference"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, payment)
}

// Webhook receives Paystack events. Once the signature checks out the answer
// is always 200 so Paystack stops retrying; processing failures are logged.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return response.Error(c, errors.BadRequest("Unable to read body", err))
	}

	if !service.VerifyPaystackSignature(body, c.Request().Header.Get(paystackSignatureHeader), h.secretKey) {
		logger.Warn("Rejected Paystack webhook with invalid signature from %s", c.RealIP())
		return response.Error(c, errors.Unauthorized("Invalid signature", nil))
	}

	event, txn, err := service.ParsePaystackEvent(body)
	if err != nil {
		logger.Error("Failed to parse Paystack webhook: %v", err)
		return c.NoContent(http.StatusOK)
	}

	if err := h.paymentUseCase.HandleWebhook(c.Request().Context(), event.Event, txn); err != nil {
		logger.Error("Failed to process Paystack event %s: %v", event.Event, err)
	}
	return c.NoContent(http.StatusOK)
}
