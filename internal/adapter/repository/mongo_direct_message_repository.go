package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/pkg/errors"
)

type mongoDirectMessageRepository struct {
	collection *mongo.Collection
}

func NewMongoDirectMessageRepository(db *mongo.Database) repository.DirectMessageRepository {
	return &mongoDirectMessageRepository{
		collection: db.Collection("messages"),
	}
}

func (r *mongoDirectMessageRepository) Create(ctx context.Context, message *entity.DirectMessage) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	res, err := r.collection.InsertOne(ctx, message)
	if err != nil {
		return errors.Internal("Failed to send message", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		message.ID = id
	}
	return nil
}

func (r *mongoDirectMessageRepository) ListBetween(ctx context.Context, userA, userB string, limit, offset int64) ([]*entity.DirectMessage, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"senderId": userA, "receiverId": userB},
		bson.M{"senderId": userB, "receiverId": userA},
	}}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Internal("Failed to fetch messages", err)
	}
	defer cursor.Close(ctx)

	messages := []*entity.DirectMessage{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, errors.Internal("Failed to decode messages", err)
	}
	return messages, nil
}

func (r *mongoDirectMessageRepository) MarkRead(ctx context.Context, id, receiverID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.BadRequest("Invalid message ID", err)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "receiverId": receiverID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return errors.Internal("Failed to mark message read", err)
	}
	if res.MatchedCount == 0 {
		return errors.NotFound("Message", nil)
	}
	return nil
}

// Delete removes the message only when senderID sent it.
func (r *mongoDirectMessageRepository) Delete(ctx context.Context, id, senderID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.BadRequest("Invalid message ID", err)
	}

	var existing entity.DirectMessage
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			return errors.NotFound("Message", err)
		}
		return errors.Internal("Failed to get message", err)
	}
	if existing.SenderID != senderID {
		return errors.Forbidden("Only the sender can delete this message", nil)
	}

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "senderId": senderID}); err != nil {
		return errors.Internal("Failed to delete message", err)
	}
	return nil
}
