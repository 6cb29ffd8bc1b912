package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
)

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) messages() *firestore.CollectionRef {
	return r.client.Collection("messages")
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	message.Participants = []string{message.SenderID, message.ReceiverID}
	if message.ReadBy == nil {
		message.ReadBy = []string{message.SenderID}
	}

	_, err := r.messages().Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}
	return nil
}

func (r *firestoreMessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	doc, err := r.messages().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}
	return decodeMessage(doc)
}

func decodeMessage(doc *firestore.DocumentSnapshot) (*entity.Message, error) {
	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	message.ID = doc.Ref.ID
	return &message, nil
}

// ListForUser queries on the participants array so one index serves both directions.
func (r *firestoreMessageRepository) ListForUser(ctx context.Context, userID string) ([]*entity.Message, error) {
	iter := r.messages().
		Where("participants", "array-contains", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	messages := []*entity.Message{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while listing messages for %s: %v", userID, err)
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		message, err := decodeMessage(doc)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (r *firestoreMessageRepository) ListBetween(ctx context.Context, userA, userB, listingID string, limit, offset int) ([]*entity.Message, int64, error) {
	all, err := r.ListForUser(ctx, userA)
	if err != nil {
		return nil, 0, err
	}

	var thread []*entity.Message
	for _, m := range all {
		if m.Counterpart(userA) != userB {
			continue
		}
		if listingID != "" && m.ListingID != listingID {
			continue
		}
		thread = append(thread, m)
	}

	sort.SliceStable(thread, func(i, j int) bool {
		return thread[i].CreatedAt.Before(thread[j].CreatedAt)
	})

	total := int64(len(thread))
	if offset >= len(thread) {
		return []*entity.Message{}, total, nil
	}
	end := len(thread)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return thread[offset:end], total, nil
}

func (r *firestoreMessageRepository) MarkRead(ctx context.Context, messageID, userID string) error {
	_, err := r.messages().Doc(messageID).Update(ctx, []firestore.Update{
		{Path: "readBy", Value: firestore.ArrayUnion(userID)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Message", err)
		}
		return errors.Internal("Failed to mark message read", err)
	}
	return nil
}

func (r *firestoreMessageRepository) MarkConversationRead(ctx context.Context, readerID, otherID, listingID string) (int, error) {
	query := r.messages().
		Where("receiverId", "==", readerID).
		Where("senderId", "==", otherID)
	if listingID != "" {
		query = query.Where("listingId", "==", listingID)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to query conversation", err)
	}

	bw := r.client.BulkWriter(ctx)
	marked := 0
	for _, doc := range docs {
		message, err := decodeMessage(doc)
		if err != nil {
			return 0, err
		}
		if message.IsReadBy(readerID) {
			continue
		}
		if _, err := bw.Update(doc.Ref, []firestore.Update{
			{Path: "readBy", Value: firestore.ArrayUnion(readerID)},
		}); err != nil {
			bw.End()
			return 0, errors.Internal("Failed to mark conversation read", err)
		}
		marked++
	}
	bw.End()

	return marked, nil
}
