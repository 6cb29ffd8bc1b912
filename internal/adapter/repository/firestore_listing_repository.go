package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/pkg/errors"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) listings() *firestore.CollectionRef {
	return r.client.Collection("listings")
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = r.listings().NewDoc().ID
	}

	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now
	if listing.Status == "" {
		listing.Status = entity.ListingStatusActive
	}

	_, err := r.listings().Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to create listing", err)
	}
	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.listings().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}
	listing.ID = doc.Ref.ID
	return &listing, nil
}

// List applies the equality filters in Firestore and the price range in
// memory, which keeps the query on a single composite index.
func (r *firestoreListingRepository) List(ctx context.Context, filter entity.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	query := r.listings().Query
	if filter.PosterID != "" {
		query = query.Where("posterId", "==", filter.PosterID)
	}
	if !filter.IncludeHidden {
		query = query.Where("hidden", "==", false)
	}
	if filter.Location != "" {
		query = query.Where("location", "==", strings.TrimSpace(filter.Location))
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var matched []*entity.Listing
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate listings", err)
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, 0, errors.Internal("Failed to parse listing data", err)
		}
		listing.ID = doc.Ref.ID

		if filter.MinPrice > 0 && listing.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && listing.Price > filter.MaxPrice {
			continue
		}
		matched = append(matched, &listing)
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return []*entity.Listing{}, total, nil
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listing.UpdatedAt = time.Now()

	_, err := r.listings().Doc(listing.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: listing.Title},
		{Path: "description", Value: listing.Description},
		{Path: "price", Value: listing.Price},
		{Path: "currency", Value: listing.Currency},
		{Path: "location", Value: listing.Location},
		{Path: "images", Value: listing.Images},
		{Path: "amenities", Value: listing.Amenities},
		{Path: "houseRules", Value: listing.HouseRules},
		{Path: "updatedAt", Value: listing.UpdatedAt},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Listing", err)
		}
		return errors.Internal("Failed to update listing", err)
	}
	return nil
}

func (r *firestoreListingRepository) SetHidden(ctx context.Context, id string, hidden bool) error {
	statusValue := entity.ListingStatusActive
	if hidden {
		statusValue = entity.ListingStatusHidden
	}

	_, err := r.listings().Doc(id).Update(ctx, []firestore.Update{
		{Path: "hidden", Value: hidden},
		{Path: "status", Value: statusValue},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Listing", err)
		}
		return errors.Internal("Failed to update listing visibility", err)
	}
	return nil
}

func (r *firestoreListingRepository) CountActiveByPoster(ctx context.Context, posterID string) (int, error) {
	docs, err := r.listings().
		Where("posterId", "==", posterID).
		Where("hidden", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count listings", err)
	}
	return len(docs), nil
}
