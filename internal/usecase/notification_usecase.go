package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/internal/domain/service"
	"roomlink/pkg/logger"
)

const triggerTimeout = 30 * time.Second

// NotificationUseCase runs the side effects that follow a write: push
// notifications, the welcome mail and Paystack provisioning for new users.
// Every step logs and continues on failure; nothing is surfaced to the
// request that caused it.
type NotificationUseCase struct {
	userRepo repository.UserRepository
	push     service.PushSender
	mailer   service.Mailer
	gateway  service.PaymentGateway

	wg    sync.WaitGroup
	async bool
}

func NewNotificationUseCase(
	userRepo repository.UserRepository,
	push service.PushSender,
	mailer service.Mailer,
	gateway service.PaymentGateway,
) *NotificationUseCase {
	return &NotificationUseCase{
		userRepo: userRepo,
		push:     push,
		mailer:   mailer,
		gateway:  gateway,
		async:    true,
	}
}

// Dispatch runs fn on its own goroutine with a context detached from the
// caller's request, bounded by triggerTimeout.
func (uc *NotificationUseCase) Dispatch(name string, fn func(ctx context.Context)) {
	run := func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Trigger %s panicked: %v", name, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), triggerTimeout)
		defer cancel()
		fn(ctx)
	}

	if !uc.async {
		run()
		return
	}

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		run()
	}()
}

// Wait blocks until every dispatched trigger has finished.
func (uc *NotificationUseCase) Wait() {
	uc.wg.Wait()
}

func (uc *NotificationUseCase) NotifyNewMessage(message *entity.Message) {
	uc.Dispatch("new_message", func(ctx context.Context) {
		sender, err := uc.userRepo.GetByID(ctx, message.SenderID)
		if err != nil {
			logger.Warn("new_message trigger: sender %s not found: %v", message.SenderID, err)
			return
		}

		body := message.Content
		if body == "" && message.ImageURL != "" {
			body = "Sent you a photo"
		}

		uc.pushToUser(ctx, message.ReceiverID, service.PushMessage{
			Title: displayName(sender),
			Body:  truncate(body, 120),
			Data: map[string]string{
				"type":      "new_message",
				"messageId": message.ID,
				"senderId":  message.SenderID,
				"listingId": message.ListingID,
			},
		})
	})
}

// NotifyNewComment pushes to the listing poster and, for replies, to the
// parent comment's author. Nobody is notified about their own comment.
func (uc *NotificationUseCase) NotifyNewComment(comment *entity.Comment, listing *entity.Listing, parent *entity.Comment) {
	uc.Dispatch("new_comment", func(ctx context.Context) {
		author, err := uc.userRepo.GetByID(ctx, comment.UserID)
		if err != nil {
			logger.Warn("new_comment trigger: author %s not found: %v", comment.UserID, err)
			return
		}

		data := map[string]string{
			"type":      "new_comment",
			"commentId": comment.ID,
			"listingId": comment.ListingID,
		}

		notified := map[string]bool{comment.UserID: true}
		if listing != nil && !notified[listing.PosterID] {
			notified[listing.PosterID] = true
			uc.pushToUser(ctx, listing.PosterID, service.PushMessage{
				Title: fmt.Sprintf("New comment on %s", truncate(listing.Title, 40)),
				Body:  fmt.Sprintf("%s: %s", displayName(author), truncate(comment.Text, 100)),
				Data:  data,
			})
		}
		if parent != nil && !notified[parent.UserID] {
			uc.pushToUser(ctx, parent.UserID, service.PushMessage{
				Title: fmt.Sprintf("%s replied to your comment", displayName(author)),
				Body:  truncate(comment.Text, 120),
				Data:  data,
			})
		}
	})
}

// OnUserCreated sends the welcome mail and provisions the Paystack customer
// and dedicated virtual account.
func (uc *NotificationUseCase) OnUserCreated(user *entity.User) {
	uc.Dispatch("user_created", func(ctx context.Context) {
		if uc.mailer != nil && user.Email != "" {
			body := fmt.Sprintf("Hi %s,\n\nWelcome to RoomLink! You can now browse rooms, message posters and list your own space.\n\nThe RoomLink team", displayName(user))
			if err := uc.mailer.Send(ctx, user.Email, "Welcome to RoomLink", body); err != nil {
				logger.Error("user_created trigger: welcome mail to %s failed: %v", user.Email, err)
			}
		}

		if uc.gateway == nil {
			return
		}

		first, last := splitName(user.FullName, user.Username)
		code, err := uc.gateway.CreateCustomer(ctx, service.CustomerRequest{
			Email:     user.Email,
			FirstName: first,
			LastName:  last,
			Phone:     user.Phone,
		})
		if err != nil {
			logger.Error("user_created trigger: Paystack customer for %s failed: %v", user.ID, err)
			return
		}

		var account *entity.VirtualAccount
		acct, err := uc.gateway.AssignDedicatedAccount(ctx, code)
		if err != nil {
			logger.Error("user_created trigger: dedicated account for %s failed: %v", user.ID, err)
		} else {
			account = &entity.VirtualAccount{
				BankName:      acct.BankName,
				AccountName:   acct.AccountName,
				AccountNumber: acct.AccountNumber,
			}
		}

		if err := uc.userRepo.SetPaystackCustomer(ctx, user.ID, code, account); err != nil {
			logger.Error("user_created trigger: saving Paystack customer for %s failed: %v", user.ID, err)
		}
	})
}

func (uc *NotificationUseCase) pushToUser(ctx context.Context, userID string, msg service.PushMessage) {
	if uc.push == nil {
		return
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("push: recipient %s not found: %v", userID, err)
		return
	}
	if len(user.FCMTokens) == 0 {
		return
	}

	invalid, err := uc.push.Send(ctx, user.FCMTokens, msg)
	if err != nil {
		logger.Error("push to %s failed: %v", userID, err)
	}
	if len(invalid) > 0 {
		if err := uc.userRepo.RemoveFCMTokens(ctx, userID, invalid); err != nil {
			logger.Error("pruning %d tokens for %s failed: %v", len(invalid), userID, err)
		} else {
			logger.Info("Pruned %d invalid FCM tokens for %s", len(invalid), userID)
		}
	}
}

func displayName(u *entity.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.Username != "" {
		return u.Username
	}
	return "Someone"
}

func splitName(fullName, fallback string) (string, string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return fallback, ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
