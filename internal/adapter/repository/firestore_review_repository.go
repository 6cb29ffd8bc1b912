package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/internal/domain/service"
	"roomlink/pkg/errors"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

func (r *firestoreReviewRepository) targetRef(targetType, targetID string) (*firestore.DocumentRef, error) {
	switch targetType {
	case entity.ReviewTargetUser:
		return r.client.Collection("users").Doc(targetID), nil
	case entity.ReviewTargetListing:
		return r.client.Collection("listings").Doc(targetID), nil
	default:
		return nil, errors.BadRequest("Unknown review target type", nil)
	}
}

// SubmitReview reads the target, folds the rating into its running average
// and writes the review in one transaction. Firestore retries the closure on
// contention, so concurrent reviews never lose an update.
func (r *firestoreReviewRepository) SubmitReview(ctx context.Context, review *entity.Review) (*entity.RatingSummary, error) {
	if err := service.ValidateRating(review.Rating); err != nil {
		return nil, err
	}

	targetRef, err := r.targetRef(review.TargetType, review.TargetID)
	if err != nil {
		return nil, err
	}

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	reviewRef := targetRef.Collection("reviews").Doc(review.ID)

	var summary entity.RatingSummary
	err = r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(targetRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Review target", err)
			}
			return err
		}

		oldAvg, _ := toFloat(doc.Data()["averageRating"])
		oldCount, _ := toFloat(doc.Data()["reviewCount"])

		newAvg, newCount := service.ApplyRating(oldAvg, int(oldCount), review.Rating)
		summary = entity.RatingSummary{AverageRating: newAvg, ReviewCount: newCount}

		if err := tx.Update(targetRef, []firestore.Update{
			{Path: "averageRating", Value: newAvg},
			{Path: "reviewCount", Value: newCount},
		}); err != nil {
			return err
		}
		return tx.Create(reviewRef, review)
	})
	if err != nil {
		var appErr *errors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, errors.Internal("Failed to submit review", err)
	}

	return &summary, nil
}

func (r *firestoreReviewRepository) ListByTarget(ctx context.Context, targetType, targetID string, limit, offset int) ([]*entity.Review, int64, error) {
	targetRef, err := r.targetRef(targetType, targetID)
	if err != nil {
		return nil, 0, err
	}

	query := targetRef.Collection("reviews").OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count reviews", err)
	}
	total := int64(len(countDocs))

	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	reviews := []*entity.Review{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate reviews", err)
		}

		var review entity.Review
		if err := doc.DataTo(&review); err != nil {
			return nil, 0, errors.Internal("Failed to parse review data", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, total, nil
}

// toFloat reads a numeric Firestore field that may have been stored as int64 or float64.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
