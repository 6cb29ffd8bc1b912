package usecase

import (
	"context"
	"strings"
	"time"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/internal/domain/service"
	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
)

type ReviewUseCase struct {
	reviewRepo  repository.ReviewRepository
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	onChange    func(ctx context.Context)
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
	}
}

// OnListingRatingChanged registers a callback fired after a listing's
// aggregate changes, used to drop cached listing pages.
func (uc *ReviewUseCase) OnListingRatingChanged(fn func(ctx context.Context)) {
	uc.onChange = fn
}

type SubmitReviewInput struct {
	Rating  float64
	Comment string
}

type ReviewResult struct {
	Review  *entity.Review        `json:"review"`
	Summary *entity.RatingSummary `json:"summary"`
}

func (uc *ReviewUseCase) SubmitUserReview(ctx context.Context, reviewerID, targetUserID string, input SubmitReviewInput) (*ReviewResult, error) {
	if err := service.ValidateRating(input.Rating); err != nil {
		return nil, err
	}
	if reviewerID == targetUserID {
		return nil, errors.BadRequest("You cannot review yourself", nil)
	}

	return uc.submit(ctx, &entity.Review{
		TargetType: entity.ReviewTargetUser,
		TargetID:   targetUserID,
		ReviewerID: reviewerID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
	})
}

func (uc *ReviewUseCase) SubmitListingReview(ctx context.Context, reviewerID, listingID string, input SubmitReviewInput) (*ReviewResult, error) {
	if err := service.ValidateRating(input.Rating); err != nil {
		return nil, err
	}

	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.PosterID == reviewerID {
		return nil, errors.BadRequest("You cannot review your own listing", nil)
	}

	result, err := uc.submit(ctx, &entity.Review{
		TargetType: entity.ReviewTargetListing,
		TargetID:   listingID,
		ReviewerID: reviewerID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
	})
	if err != nil {
		return nil, err
	}
	if uc.onChange != nil {
		uc.onChange(ctx)
	}
	return result, nil
}

func (uc *ReviewUseCase) submit(ctx context.Context, review *entity.Review) (*ReviewResult, error) {
	review.CreatedAt = time.Now()

	summary, err := uc.reviewRepo.SubmitReview(ctx, review)
	if err != nil {
		logger.Warn("Review of %s %s by %s failed: %v", review.TargetType, review.TargetID, review.ReviewerID, err)
		return nil, err
	}

	logger.Info("Review %s stored for %s %s: avg=%.2f count=%d",
		review.ID, review.TargetType, review.TargetID, summary.AverageRating, summary.ReviewCount)
	return &ReviewResult{Review: review, Summary: summary}, nil
}

func (uc *ReviewUseCase) ListReviews(ctx context.Context, targetType, targetID string, limit, offset int) ([]*entity.Review, int64, error) {
	if targetType != entity.ReviewTargetUser && targetType != entity.ReviewTargetListing {
		return nil, 0, errors.BadRequest("Unknown review target type", nil)
	}
	return uc.reviewRepo.ListByTarget(ctx, targetType, targetID, limit, offset)
}
