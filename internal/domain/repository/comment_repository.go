package repository

import (
	"context"

	"roomlink/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, listingID, id string) (*entity.Comment, error)
	ListByListing(ctx context.Context, listingID string) ([]*entity.Comment, error)
	SetHidden(ctx context.Context, listingID, id string, hidden bool) error
}
