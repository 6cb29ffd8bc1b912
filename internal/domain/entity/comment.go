package entity

import "time"

type Comment struct {
	ID               string    `json:"id" firestore:"id"`
	ListingID        string    `json:"listing_id" firestore:"listingId"`
	UserID           string    `json:"user_id" firestore:"userId"`
	Text             string    `json:"text" firestore:"text"`
	ReplyToCommentID string    `json:"reply_to_comment_id,omitempty" firestore:"replyToCommentId,omitempty"`
	Hidden           bool      `json:"-" firestore:"hidden"`
	CreatedAt        time.Time `json:"created_at" firestore:"createdAt"`
}

// CommentThread is a top-level comment with its direct and nested replies flattened in order.
type CommentThread struct {
	*Comment
	Replies []*Comment `json:"replies"`
}
