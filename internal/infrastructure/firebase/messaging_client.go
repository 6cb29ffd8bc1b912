package firebase

import (
	"context"

	"firebase.google.com/go/v4/messaging"

	"roomlink/internal/domain/service"
)

// FCM rejects multicast batches above this size.
const maxMulticastTokens = 500

type FCMSender struct {
	client *messaging.Client
}

func NewFCMSender(client *messaging.Client) *FCMSender {
	return &FCMSender{client: client}
}

var _ service.PushSender = (*FCMSender)(nil)

func (s *FCMSender) Send(ctx context.Context, tokens []string, msg service.PushMessage) ([]string, error) {
	var invalid []string

	for start := 0; start < len(tokens); start += maxMulticastTokens {
		end := start + maxMulticastTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[start:end]

		resp, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens: batch,
			Notification: &messaging.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
		})
		if err != nil {
			return invalid, err
		}

		for i, r := range resp.Responses {
			if r.Success || r.Error == nil {
				continue
			}
			if messaging.IsUnregistered(r.Error) || messaging.IsInvalidArgument(r.Error) {
				invalid = append(invalid, batch[i])
			}
		}
	}

	return invalid, nil
}
