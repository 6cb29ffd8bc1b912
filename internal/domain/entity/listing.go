package entity

import (
	"time"
)

const (
	ListingStatusActive = "active"
	ListingStatusHidden = "hidden"
)

type Listing struct {
	ID          string   `json:"id" firestore:"id"`
	PosterID    string   `json:"poster_id" firestore:"posterId"`
	Title       string   `json:"title" firestore:"title"`
	Description string   `json:"description" firestore:"description"`
	Price       float64  `json:"price" firestore:"price"`
	Currency    string   `json:"currency" firestore:"currency"`
	Location    string   `json:"location" firestore:"location"`
	Images      []string `json:"images" firestore:"images"`
	Amenities   []string `json:"amenities" firestore:"amenities"`
	HouseRules  []string `json:"house_rules" firestore:"houseRules"`

	AverageRating float64 `json:"average_rating" firestore:"averageRating"`
	ReviewCount   int     `json:"review_count" firestore:"reviewCount"`

	Status string `json:"status" firestore:"status"`
	Hidden bool   `json:"hidden" firestore:"hidden"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ListingFilter narrows a listing query. Zero values mean "no constraint".
type ListingFilter struct {
	Location string
	PosterID string
	MinPrice float64
	MaxPrice float64
	// IncludeHidden is only honoured for the poster's own listings.
	IncludeHidden bool
}
