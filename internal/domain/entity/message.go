package entity

import "time"

type Message struct {
	ID           string    `json:"id" firestore:"id"`
	ListingID    string    `json:"listing_id" firestore:"listingId"`
	SenderID     string    `json:"sender_id" firestore:"senderId"`
	ReceiverID   string    `json:"receiver_id" firestore:"receiverId"`
	Participants []string  `json:"-" firestore:"participants"`
	Content      string    `json:"content" firestore:"content"`
	ImageURL     string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	ReadBy       []string  `json:"read_by" firestore:"readBy"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
}

func (m *Message) IsReadBy(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Counterpart returns the other participant from userID's point of view.
func (m *Message) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// Conversation summarises the latest exchange between two users about a listing.
type Conversation struct {
	OtherUserID string   `json:"other_user_id"`
	ListingID   string   `json:"listing_id"`
	LastMessage *Message `json:"last_message"`
	UnreadCount int      `json:"unread_count"`
}
