package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account and DirectMessage back the legacy Mongo API under /api.

type Account struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
}

type DirectMessage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   string             `bson:"senderId" json:"sender_id"`
	ReceiverID string             `bson:"receiverId" json:"receiver_id"`
	ListingID  string             `bson:"listingId,omitempty" json:"listing_id,omitempty"`
	Content    string             `bson:"content" json:"content"`
	Read       bool               `bson:"read" json:"read"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
}
