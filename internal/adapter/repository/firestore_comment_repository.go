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
	"roomlink/pkg/errors"
)

// Comments live under listings/{listingId}/comments.
type firestoreCommentRepository struct {
	client *firestore.Client
}

func NewFirestoreCommentRepository(client *firestore.Client) repository.CommentRepository {
	return &firestoreCommentRepository{
		client: client,
	}
}

func (r *firestoreCommentRepository) comments(listingID string) *firestore.CollectionRef {
	return r.client.Collection("listings").Doc(listingID).Collection("comments")
}

func (r *firestoreCommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	_, err := r.comments(comment.ListingID).Doc(comment.ID).Set(ctx, comment)
	if err != nil {
		return errors.Internal("Failed to create comment", err)
	}
	return nil
}

func (r *firestoreCommentRepository) GetByID(ctx context.Context, listingID, id string) (*entity.Comment, error) {
	doc, err := r.comments(listingID).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Comment", err)
		}
		return nil, errors.Internal("Failed to get comment", err)
	}

	var comment entity.Comment
	if err := doc.DataTo(&comment); err != nil {
		return nil, errors.Internal("Failed to parse comment data", err)
	}
	comment.ID = doc.Ref.ID
	return &comment, nil
}

func (r *firestoreCommentRepository) ListByListing(ctx context.Context, listingID string) ([]*entity.Comment, error) {
	iter := r.comments(listingID).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	comments := []*entity.Comment{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate comments", err)
		}

		var comment entity.Comment
		if err := doc.DataTo(&comment); err != nil {
			return nil, errors.Internal("Failed to parse comment data", err)
		}
		comment.ID = doc.Ref.ID
		comments = append(comments, &comment)
	}
	return comments, nil
}

func (r *firestoreCommentRepository) SetHidden(ctx context.Context, listingID, id string, hidden bool) error {
	_, err := r.comments(listingID).Doc(id).Update(ctx, []firestore.Update{
		{Path: "hidden", Value: hidden},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Comment", err)
		}
		return errors.Internal("Failed to update comment", err)
	}
	return nil
}
