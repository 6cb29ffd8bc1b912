package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/internal/domain/service"
	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
)

const (
	EventChargeSuccess = "charge.success"

	MinTopupAmount = 10000     // NGN 100, in kobo
	MaxTopupAmount = 100000000 // NGN 1,000,000, in kobo
)

type PaymentUseCase struct {
	paymentRepo    repository.PaymentRepository
	userRepo       repository.UserRepository
	gateway        service.PaymentGateway
	callbackURL    string
	adUnlockAmount int64
}

func NewPaymentUseCase(
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	gateway service.PaymentGateway,
	callbackURL string,
	adUnlockAmount int64,
) *PaymentUseCase {
	return &PaymentUseCase{
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		gateway:        gateway,
		callbackURL:    callbackURL,
		adUnlockAmount: adUnlockAmount,
	}
}

type CheckoutResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code,omitempty"`
	Amount           int64  `json:"amount"`
}

func (uc *PaymentUseCase) InitializeAdUnlock(ctx context.Context, userID string) (*CheckoutResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.AdsPaid {
		return nil, errors.Conflict("Ads are already unlocked", nil)
	}
	return uc.initialize(ctx, user, uc.adUnlockAmount, entity.PaymentPurposeAdUnlock)
}

func (uc *PaymentUseCase) InitializeTopup(ctx context.Context, userID string, amount int64) (*CheckoutResponse, error) {
	if amount < MinTopupAmount || amount > MaxTopupAmount {
		return nil, errors.BadRequest("Top-up amount is out of range", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.initialize(ctx, user, amount, entity.PaymentPurposeWalletTopup)
}

func (uc *PaymentUseCase) initialize(ctx context.Context, user *entity.User, amount int64, purpose string) (*CheckoutResponse, error) {
	payment := &entity.Payment{
		Reference: NewPaymentReference(),
		UserID:    user.ID,
		Email:     user.Email,
		Amount:    amount,
		Purpose:   purpose,
		Status:    entity.PaymentStatusPending,
		CreatedAt: time.Now(),
	}
	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	resp, err := uc.gateway.InitializeTransaction(ctx, service.InitializeRequest{
		Email:       user.Email,
		Amount:      amount,
		Reference:   payment.Reference,
		CallbackURL: uc.callbackURL,
		Metadata: map[string]interface{}{
			"userId":  user.ID,
			"purpose": purpose,
		},
	})
	if err != nil {
		if markErr := uc.paymentRepo.MarkFailed(ctx, payment.Reference); markErr != nil {
			logger.Error("Failed to mark payment %s failed: %v", payment.Reference, markErr)
		}
		return nil, errors.Upstream("Failed to start payment", err)
	}

	logger.Info("Payment %s initialized for %s (%s, %d kobo)", payment.Reference, user.ID, purpose, amount)
	return &CheckoutResponse{
		Reference:        payment.Reference,
		AuthorizationURL: resp.AuthorizationURL,
		AccessCode:       resp.AccessCode,
		Amount:           amount,
	}, nil
}

// VerifyPayment lets the client confirm a checkout without waiting for the
// webhook. It applies the same settlement, so whichever arrives second is a no-op.
func (uc *PaymentUseCase) VerifyPayment(ctx context.Context, userID, reference string) (*entity.Payment, error) {
	payment, err := uc.paymentRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, errors.NotFound("Payment", nil)
	}
	if payment.Status == entity.PaymentStatusSuccess {
		return payment, nil
	}

	txn, err := uc.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, errors.Upstream("Failed to verify payment", err)
	}

	switch txn.Status {
	case "success":
		if _, err := uc.settle(ctx, payment, txn); err != nil {
			return nil, err
		}
	case "failed", "abandoned", "reversed":
		if err := uc.paymentRepo.MarkFailed(ctx, reference); err != nil {
			return nil, err
		}
	}

	return uc.paymentRepo.GetByReference(ctx, reference)
}

// HandleWebhook applies a verified Paystack event.
func (uc *PaymentUseCase) HandleWebhook(ctx context.Context, event string, txn *service.VerifyResponse) error {
	if event != EventChargeSuccess {
		logger.Debug("Ignoring Paystack event %s", event)
		return nil
	}
	if txn == nil || txn.Reference == "" {
		return errors.BadRequest("charge.success without reference", nil)
	}

	payment, err := uc.paymentRepo.GetByReference(ctx, txn.Reference)
	if err == nil {
		_, err = uc.settle(ctx, payment, txn)
		return err
	}
	if !errors.Is(err, errors.CodeNotFound) {
		return err
	}

	// Not one of ours: a transfer into a dedicated virtual account.
	return uc.creditDeposit(ctx, txn)
}

func (uc *PaymentUseCase) settle(ctx context.Context, payment *entity.Payment, txn *service.VerifyResponse) (*entity.SettlementResult, error) {
	if txn.Amount < payment.Amount {
		logger.Warn("Payment %s underpaid: expected %d, got %d", payment.Reference, payment.Amount, txn.Amount)
		return nil, errors.BadRequest("Paid amount does not match", nil)
	}

	result, err := uc.paymentRepo.Settle(ctx, entity.Settlement{
		Reference:    payment.Reference,
		Amount:       payment.Amount,
		CustomerCode: txn.CustomerCode,
		Channel:      txn.Channel,
		PaidAt:       txn.PaidAt,
	})
	if err != nil {
		return nil, err
	}

	if result.AlreadyApplied {
		logger.Info("Payment %s already settled, skipping", payment.Reference)
	} else {
		logger.Info("Payment %s settled for %s (%s)", payment.Reference, result.UserID, result.Purpose)
	}
	return result, nil
}

func (uc *PaymentUseCase) creditDeposit(ctx context.Context, txn *service.VerifyResponse) error {
	if txn.CustomerCode == "" {
		logger.Warn("charge.success %s has no matching payment or customer", txn.Reference)
		return errors.NotFound("Payment", nil)
	}
	if txn.Amount <= 0 {
		return errors.BadRequest("Deposit amount must be positive", nil)
	}

	user, err := uc.userRepo.GetByPaystackCustomerCode(ctx, txn.CustomerCode)
	if err != nil {
		logger.Warn("Deposit %s for unknown customer %s", txn.Reference, txn.CustomerCode)
		return err
	}

	result, err := uc.paymentRepo.CreditDeposit(ctx, user.ID, entity.Settlement{
		Reference:    txn.Reference,
		Amount:       txn.Amount,
		CustomerCode: txn.CustomerCode,
		Channel:      txn.Channel,
		PaidAt:       txn.PaidAt,
	})
	if err != nil {
		return err
	}

	if result.AlreadyApplied {
		logger.Info("Deposit %s already credited, skipping", txn.Reference)
	} else {
		logger.Info("Deposit %s credited to %s (%d kobo)", txn.Reference, user.ID, txn.Amount)
	}
	return nil
}

func NewPaymentReference() string {
	return "rl_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}
