package repository

import (
	"context"

	"roomlink/internal/domain/entity"
)

type ReviewRepository interface {
	// SubmitReview stores the review and folds its rating into the target's
	// running average atomically. Returns NOT_FOUND when the target is missing.
	SubmitReview(ctx context.Context, review *entity.Review) (*entity.RatingSummary, error)
	ListByTarget(ctx context.Context, targetType, targetID string, limit, offset int) ([]*entity.Review, int64, error)
}
