package repository

import (
	"context"

	"roomlink/internal/domain/entity"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	List(ctx context.Context, filter entity.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error)
	Update(ctx context.Context, listing *entity.Listing) error
	SetHidden(ctx context.Context, id string, hidden bool) error
	CountActiveByPoster(ctx context.Context, posterID string) (int, error)
}
