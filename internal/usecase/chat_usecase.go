package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/internal/domain/service"
	"roomlink/internal/infrastructure/ratelimit"
	ws "roomlink/internal/infrastructure/websocket"
	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
)

const maxMessageLength = 4000

type ChatUseCase struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	uploader    service.FileUploadService
	realtime    service.RealtimePublisher
	notifier    MessageNotifier
	limiter     ActionLimiter
}

func NewChatUseCase(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	uploader service.FileUploadService,
	realtime service.RealtimePublisher,
	notifier MessageNotifier,
	limiter ActionLimiter,
) *ChatUseCase {
	if limiter == nil {
		limiter = allowAll{}
	}
	return &ChatUseCase{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		uploader:    uploader,
		realtime:    realtime,
		notifier:    notifier,
		limiter:     limiter,
	}
}

var _ ws.InboundHandler = (*ChatUseCase)(nil)

type SendMessageInput struct {
	ReceiverID       string
	ListingID        string
	Content          string
	Image            io.Reader
	ImageContentType string
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*entity.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" && input.Image == nil {
		return nil, errors.BadRequest("Message must have text or an image", nil)
	}
	if len([]rune(content)) > maxMessageLength {
		return nil, errors.BadRequest("Message is too long", nil)
	}
	if input.ReceiverID == "" {
		return nil, errors.BadRequest("Receiver is required", nil)
	}
	if input.ReceiverID == senderID {
		return nil, errors.BadRequest("You cannot message yourself", nil)
	}

	sender, receiver, err := uc.loadPair(ctx, senderID, input.ReceiverID)
	if err != nil {
		return nil, err
	}
	if blockedEitherWay(sender, receiver) {
		return nil, errors.Forbidden("You cannot message this user", nil)
	}

	if ok, wait := uc.limiter.Allow(senderID, ratelimit.ActionSendMessage); !ok {
		return nil, errors.TooManyRequests("You are sending messages too fast", wait)
	}

	message := &entity.Message{
		ListingID:  input.ListingID,
		SenderID:   senderID,
		ReceiverID: input.ReceiverID,
		Content:    content,
		ReadBy:     []string{senderID},
		CreatedAt:  time.Now(),
	}

	if input.Image != nil {
		if uc.uploader == nil {
			return nil, errors.Internal("File storage is not configured", nil)
		}
		url, err := uc.uploader.UploadFile(ctx, input.Image, input.ImageContentType, "chat/"+senderID, true)
		if err != nil {
			return nil, uploadError(err)
		}
		message.ImageURL = url
	}

	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	if uc.realtime != nil {
		uc.realtime.PublishToUser(message.ReceiverID, ws.MessageTypeNewMessage, message)
		uc.realtime.PublishToUser(message.SenderID, ws.MessageTypeNewMessage, message)
	}
	if uc.notifier != nil {
		uc.notifier.NotifyNewMessage(message)
	}

	logger.Debug("Message %s sent from %s to %s", message.ID, senderID, input.ReceiverID)
	return message, nil
}

func (uc *ChatUseCase) GetConversation(ctx context.Context, userID, otherID, listingID string, limit, offset int) ([]*entity.Message, int64, error) {
	if err := uc.ensureNotBlocked(ctx, userID, otherID); err != nil {
		return nil, 0, err
	}
	return uc.messageRepo.ListBetween(ctx, userID, otherID, listingID, limit, offset)
}

// ListConversations returns the newest message per (other user, listing) pair.
func (uc *ChatUseCase) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	messages, err := uc.messageRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return groupConversations(userID, messages), nil
}

// groupConversations expects messages newest first.
func groupConversations(userID string, messages []*entity.Message) []*entity.Conversation {
	type key struct{ other, listing string }

	index := make(map[key]*entity.Conversation)
	conversations := []*entity.Conversation{}
	for _, m := range messages {
		k := key{m.Counterpart(userID), m.ListingID}
		conv, ok := index[k]
		if !ok {
			conv = &entity.Conversation{OtherUserID: k.other, ListingID: k.listing, LastMessage: m}
			index[k] = conv
			conversations = append(conversations, conv)
		}
		if m.ReceiverID == userID && !m.IsReadBy(userID) {
			conv.UnreadCount++
		}
	}
	return conversations
}

func (uc *ChatUseCase) MarkConversationRead(ctx context.Context, userID, otherID, listingID string) (int, error) {
	marked, err := uc.messageRepo.MarkConversationRead(ctx, userID, otherID, listingID)
	if err != nil {
		return 0, err
	}

	if marked > 0 && uc.realtime != nil {
		uc.realtime.PublishToUser(otherID, ws.MessageTypeMessageRead, map[string]interface{}{
			"reader_id":  userID,
			"listing_id": listingID,
			"count":      marked,
		})
	}
	return marked, nil
}

func (uc *ChatUseCase) MarkMessageRead(ctx context.Context, userID, messageID string) error {
	message, err := uc.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.ReceiverID != userID {
		return errors.Forbidden("Only the receiver can mark a message read", nil)
	}
	if message.IsReadBy(userID) {
		return nil
	}

	if err := uc.messageRepo.MarkRead(ctx, messageID, userID); err != nil {
		return err
	}

	if uc.realtime != nil {
		uc.realtime.PublishToUser(message.SenderID, ws.MessageTypeMessageRead, map[string]interface{}{
			"reader_id":  userID,
			"message_id": messageID,
			"listing_id": message.ListingID,
		})
	}
	return nil
}

// Typing relays a typing indicator unless either side has blocked the other.
func (uc *ChatUseCase) Typing(ctx context.Context, fromUserID string, data ws.TypingData) error {
	if err := uc.ensureNotBlocked(ctx, fromUserID, data.ToUserID); err != nil {
		return err
	}
	if uc.realtime != nil {
		data.UserID = fromUserID
		uc.realtime.PublishToUser(data.ToUserID, ws.MessageTypeTyping, data)
	}
	return nil
}

func (uc *ChatUseCase) MarkRead(ctx context.Context, readerID string, data ws.MarkReadData) error {
	_, err := uc.MarkConversationRead(ctx, readerID, data.OtherUserID, data.ListingID)
	return err
}

func (uc *ChatUseCase) ensureNotBlocked(ctx context.Context, userID, otherID string) error {
	user, other, err := uc.loadPair(ctx, userID, otherID)
	if err != nil {
		return err
	}
	if blockedEitherWay(user, other) {
		return errors.Forbidden("This conversation is unavailable", nil)
	}
	return nil
}

func (uc *ChatUseCase) loadPair(ctx context.Context, a, b string) (*entity.User, *entity.User, error) {
	userA, err := uc.userRepo.GetByID(ctx, a)
	if err != nil {
		return nil, nil, err
	}
	userB, err := uc.userRepo.GetByID(ctx, b)
	if err != nil {
		return nil, nil, err
	}
	return userA, userB, nil
}
