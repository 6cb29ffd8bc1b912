package entity

import "time"

const (
	PaymentPurposeAdUnlock    = "ad_unlock"
	PaymentPurposeWalletTopup = "wallet_topup"

	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Payment is keyed by its Paystack reference so webhook replays land on the same document.
type Payment struct {
	Reference        string     `json:"reference" firestore:"reference"`
	UserID           string     `json:"user_id" firestore:"userId"`
	Email            string     `json:"email" firestore:"email"`
	Amount           int64      `json:"amount" firestore:"amount"` // kobo
	Purpose          string     `json:"purpose" firestore:"purpose"`
	Status           string     `json:"status" firestore:"status"`
	AuthorizationURL string     `json:"authorization_url,omitempty" firestore:"authorizationUrl,omitempty"`
	Channel          string     `json:"channel,omitempty" firestore:"channel,omitempty"`
	CreatedAt        time.Time  `json:"created_at" firestore:"createdAt"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty" firestore:"processedAt,omitempty"`
}

// Settlement describes a confirmed charge to apply to a user.
type Settlement struct {
	Reference    string
	Amount       int64 // kobo
	CustomerCode string
	Channel      string
	PaidAt       time.Time
}

// SettlementResult tells the caller what a settlement actually changed.
type SettlementResult struct {
	UserID         string
	Purpose        string
	AlreadyApplied bool
}
