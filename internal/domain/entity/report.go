package entity

import "time"

const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

var ReportReasons = []string{"spam", "scam", "inappropriate", "harassment", "other"}

type Report struct {
	ID             string     `json:"id" firestore:"id"`
	ReporterID     string     `json:"reporter_id" firestore:"reporterId"`
	ListingID      string     `json:"listing_id,omitempty" firestore:"listingId,omitempty"`
	ReportedUserID string     `json:"reported_user_id,omitempty" firestore:"reportedUserId,omitempty"`
	Reason         string     `json:"reason" firestore:"reason"`
	Details        string     `json:"details,omitempty" firestore:"details,omitempty"`
	Status         string     `json:"status" firestore:"status"`
	ResolvedBy     string     `json:"resolved_by,omitempty" firestore:"resolvedBy,omitempty"`
	CreatedAt      time.Time  `json:"created_at" firestore:"createdAt"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty" firestore:"resolvedAt,omitempty"`
}
