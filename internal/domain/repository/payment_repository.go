package repository

import (
	"context"

	"roomlink/internal/domain/entity"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByReference(ctx context.Context, reference string) (*entity.Payment, error)
	MarkFailed(ctx context.Context, reference string) error

	// Settle applies a confirmed charge for a payment we initialized. Applying
	// the same reference twice is a no-op reported through AlreadyApplied.
	Settle(ctx context.Context, settlement entity.Settlement) (*entity.SettlementResult, error)
	// CreditDeposit applies a transfer into a user's dedicated account, keyed by reference.
	CreditDeposit(ctx context.Context, userID string, settlement entity.Settlement) (*entity.SettlementResult, error)
}
