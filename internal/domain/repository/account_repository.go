package repository

import (
	"context"

	"roomlink/internal/domain/entity"
)

type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetByID(ctx context.Context, id string) (*entity.Account, error)
}

type DirectMessageRepository interface {
	Create(ctx context.Context, message *entity.DirectMessage) error
	ListBetween(ctx context.Context, userA, userB string, limit, offset int64) ([]*entity.DirectMessage, error)
	MarkRead(ctx context.Context, id, receiverID string) error
	Delete(ctx context.Context, id, senderID string) error
}
