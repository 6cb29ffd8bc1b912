package service

import "context"

type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

// PushSender delivers a push notification and reports the tokens the
// provider rejected as unregistered, so callers can prune them.
type PushSender interface {
	Send(ctx context.Context, tokens []string, msg PushMessage) (invalidTokens []string, err error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// RealtimePublisher pushes an event to every live connection of a user.
type RealtimePublisher interface {
	PublishToUser(userID, eventType string, data interface{})
	IsOnline(userID string) bool
}
