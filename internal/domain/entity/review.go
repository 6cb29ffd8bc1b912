package entity

import (
	"time"
)

const (
	ReviewTargetUser    = "user"
	ReviewTargetListing = "listing"
)

// Review lives in the reviews subcollection of the user or listing it rates.
type Review struct {
	ID         string    `json:"id" firestore:"id"`
	TargetType string    `json:"target_type" firestore:"targetType"`
	TargetID   string    `json:"target_id" firestore:"targetId"`
	ReviewerID string    `json:"reviewer_id" firestore:"reviewerId"`
	Rating     float64   `json:"rating" firestore:"rating"`
	Comment    string    `json:"comment" firestore:"comment"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

// RatingSummary is the aggregate stored on the reviewed document.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}
