package usecase

import (
	"time"

	"roomlink/internal/domain/entity"
)

// ActionLimiter is satisfied by ratelimit.RateLimiter.
type ActionLimiter interface {
	Allow(key, action string) (bool, time.Duration)
}

type allowAll struct{}

func (allowAll) Allow(string, string) (bool, time.Duration) { return true, 0 }

type MessageNotifier interface {
	NotifyNewMessage(message *entity.Message)
}

type CommentNotifier interface {
	NotifyNewComment(comment *entity.Comment, listing *entity.Listing, parent *entity.Comment)
}
