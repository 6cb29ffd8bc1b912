package entity

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type VirtualAccount struct {
	BankName      string `json:"bank_name" firestore:"bankName"`
	AccountName   string `json:"account_name" firestore:"accountName"`
	AccountNumber string `json:"account_number" firestore:"accountNumber"`
}

type User struct {
	ID        string `json:"id" firestore:"id"`
	Email     string `json:"email" firestore:"email"`
	Username  string `json:"username" firestore:"username"`
	FullName  string `json:"full_name,omitempty" firestore:"fullName,omitempty"`
	Phone     string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Bio       string `json:"bio,omitempty" firestore:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty" firestore:"avatarUrl,omitempty"`
	Role      string `json:"role" firestore:"role"`

	AverageRating float64 `json:"average_rating" firestore:"averageRating"`
	ReviewCount   int     `json:"review_count" firestore:"reviewCount"`

	Blocked    []string `json:"blocked" firestore:"blocked"`
	AdsPaid    bool     `json:"ads_paid" firestore:"adsPaid"`
	IsVerified bool     `json:"is_verified" firestore:"isVerified"`
	Balance    float64  `json:"balance" firestore:"balance"`

	FCMTokens            []string        `json:"-" firestore:"fcmTokens"`
	PaystackCustomerCode string          `json:"-" firestore:"paystackCustomerCode,omitempty"`
	VirtualAccount       *VirtualAccount `json:"virtual_account,omitempty" firestore:"virtualAccount,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// HasBlocked reports whether u has userID in its blocked list.
func (u *User) HasBlocked(userID string) bool {
	for _, id := range u.Blocked {
		if id == userID {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicProfile is what other users get to see.
type PublicProfile struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	FullName      string    `json:"full_name,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	IsVerified    bool      `json:"is_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:            u.ID,
		Username:      u.Username,
		FullName:      u.FullName,
		Bio:           u.Bio,
		AvatarURL:     u.AvatarURL,
		AverageRating: u.AverageRating,
		ReviewCount:   u.ReviewCount,
		IsVerified:    u.IsVerified,
		CreatedAt:     u.CreatedAt,
	}
}
