package repository

import (
	"context"

	"roomlink/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByPaystackCustomerCode(ctx context.Context, code string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	SetVerified(ctx context.Context, id string, verified bool) error

	// Blocked list updates are array set operations, safe under concurrent writers.
	AddBlocked(ctx context.Context, userID, targetID string) error
	RemoveBlocked(ctx context.Context, userID, targetID string) error

	AddFCMToken(ctx context.Context, userID, token string) error
	RemoveFCMTokens(ctx context.Context, userID string, tokens []string) error

	SetPaystackCustomer(ctx context.Context, userID, customerCode string, account *entity.VirtualAccount) error
}
