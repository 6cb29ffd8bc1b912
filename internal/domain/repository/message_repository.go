package repository

import (
	"context"

	"roomlink/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)
	// ListBetween returns the exchange between two users about a listing, oldest first.
	ListBetween(ctx context.Context, userA, userB, listingID string, limit, offset int) ([]*entity.Message, int64, error)
	// ListForUser returns every message the user sent or received, newest first.
	ListForUser(ctx context.Context, userID string) ([]*entity.Message, error)
	MarkRead(ctx context.Context, messageID, userID string) error
	// MarkConversationRead marks all of otherID's messages to readerID as read and returns how many changed.
	MarkConversationRead(ctx context.Context, readerID, otherID, listingID string) (int, error)
}
