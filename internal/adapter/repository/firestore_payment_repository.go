package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/pkg/errors"
)

// Payments are keyed by Paystack reference at payments/{reference}.
type firestorePaymentRepository struct {
	client *firestore.Client
}

func NewFirestorePaymentRepository(client *firestore.Client) repository.PaymentRepository {
	return &firestorePaymentRepository{
		client: client,
	}
}

func (r *firestorePaymentRepository) payments() *firestore.CollectionRef {
	return r.client.Collection("payments")
}

// KoboToNaira converts a Paystack amount into the unit stored on user balances.
func KoboToNaira(kobo int64) float64 {
	return float64(kobo) / 100
}

func (r *firestorePaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	if payment.Status == "" {
		payment.Status = entity.PaymentStatusPending
	}

	_, err := r.payments().Doc(payment.Reference).Create(ctx, payment)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Payment reference already used", err)
		}
		return errors.Internal("Failed to create payment", err)
	}
	return nil
}

func (r *firestorePaymentRepository) GetByReference(ctx context.Context, reference string) (*entity.Payment, error) {
	doc, err := r.payments().Doc(reference).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Payment", err)
		}
		return nil, errors.Internal("Failed to get payment", err)
	}

	var payment entity.Payment
	if err := doc.DataTo(&payment); err != nil {
		return nil, errors.Internal("Failed to parse payment data", err)
	}
	return &payment, nil
}

func (r *firestorePaymentRepository) MarkFailed(ctx context.Context, reference string) error {
	ref := r.payments().Doc(reference)
	return r.runTx(ctx, "Failed to mark payment failed", func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Payment", err)
			}
			return err
		}
		// A later failure notice must never undo a settled payment.
		if s, _ := doc.DataAt("status"); s == entity.PaymentStatusSuccess {
			return nil
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: entity.PaymentStatusFailed},
			{Path: "processedAt", Value: time.Now()},
		})
	})
}

func (r *firestorePaymentRepository) Settle(ctx context.Context, settlement entity.Settlement) (*entity.SettlementResult, error) {
	paymentRef := r.payments().Doc(settlement.Reference)
	result := &entity.SettlementResult{}

	err := r.runTx(ctx, "Failed to settle payment", func(ctx context.Context, tx *firestore.Transaction) error {
		*result = entity.SettlementResult{}

		doc, err := tx.Get(paymentRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Payment", err)
			}
			return err
		}

		var payment entity.Payment
		if err := doc.DataTo(&payment); err != nil {
			return errors.Internal("Failed to parse payment data", err)
		}
		result.UserID = payment.UserID
		result.Purpose = payment.Purpose

		if payment.Status == entity.PaymentStatusSuccess {
			result.AlreadyApplied = true
			return nil
		}

		amount := settlement.Amount
		if amount <= 0 {
			amount = payment.Amount
		}

		userRef := r.client.Collection("users").Doc(payment.UserID)
		switch payment.Purpose {
		case entity.PaymentPurposeAdUnlock:
			if err := tx.Update(userRef, []firestore.Update{
				{Path: "adsPaid", Value: true},
				{Path: "updatedAt", Value: time.Now()},
			}); err != nil {
				return err
			}
		case entity.PaymentPurposeWalletTopup:
			if err := tx.Update(userRef, []firestore.Update{
				{Path: "balance", Value: firestore.Increment(KoboToNaira(amount))},
				{Path: "updatedAt", Value: time.Now()},
			}); err != nil {
				return err
			}
		default:
			return errors.BadRequest("Unknown payment purpose: "+payment.Purpose, nil)
		}

		return tx.Update(paymentRef, settledUpdates(settlement))
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *firestorePaymentRepository) CreditDeposit(ctx context.Context, userID string, settlement entity.Settlement) (*entity.SettlementResult, error) {
	paymentRef := r.payments().Doc(settlement.Reference)
	userRef := r.client.Collection("users").Doc(userID)
	result := &entity.SettlementResult{UserID: userID, Purpose: entity.PaymentPurposeWalletTopup}

	err := r.runTx(ctx, "Failed to credit deposit", func(ctx context.Context, tx *firestore.Transaction) error {
		result.AlreadyApplied = false

		doc, err := tx.Get(paymentRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if err == nil {
			if s, _ := doc.DataAt("status"); s == entity.PaymentStatusSuccess {
				result.AlreadyApplied = true
				return nil
			}
		}

		if err := tx.Update(userRef, []firestore.Update{
			{Path: "balance", Value: firestore.Increment(KoboToNaira(settlement.Amount))},
			{Path: "updatedAt", Value: time.Now()},
		}); err != nil {
			return err
		}

		now := time.Now()
		return tx.Set(paymentRef, &entity.Payment{
			Reference:   settlement.Reference,
			UserID:      userID,
			Amount:      settlement.Amount,
			Purpose:     entity.PaymentPurposeWalletTopup,
			Status:      entity.PaymentStatusSuccess,
			Channel:     settlement.Channel,
			CreatedAt:   now,
			ProcessedAt: &now,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func settledUpdates(settlement entity.Settlement) []firestore.Update {
	processedAt := settlement.PaidAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}
	updates := []firestore.Update{
		{Path: "status", Value: entity.PaymentStatusSuccess},
		{Path: "processedAt", Value: processedAt},
	}
	if settlement.Channel != "" {
		updates = append(updates, firestore.Update{Path: "channel", Value: settlement.Channel})
	}
	return updates
}

func (r *firestorePaymentRepository) runTx(ctx context.Context, msg string, fn func(context.Context, *firestore.Transaction) error) error {
	err := r.client.RunTransaction(ctx, fn)
	if err == nil {
		return nil
	}
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if status.Code(err) == codes.NotFound {
		return errors.NotFound("User", err)
	}
	return errors.Internal(msg, err)
}
