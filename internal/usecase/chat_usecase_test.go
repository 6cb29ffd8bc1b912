package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomlink/internal/domain/entity"
	"roomlink/internal/infrastructure/ratelimit"
	ws "roomlink/internal/infrastructure/websocket"
	"roomlink/pkg/errors"
)

type recordingNotifier struct{ messages []*entity.Message }

func (n *recordingNotifier) NotifyNewMessage(m *entity.Message) { n.messages = append(n.messages, m) }

type chatFixture struct {
	*fixture
	uc       *ChatUseCase
	realtime *fakeRealtime
	notifier *recordingNotifier
	uploader *fakeUploader
	limiter  *fakeLimiter
}

func newChatFixture() *chatFixture {
	f := newFixture()
	f.addUser("alice")
	f.addUser("bob")
	cf := &chatFixture{
		fixture:  f,
		realtime: &fakeRealtime{},
		notifier: &recordingNotifier{},
		uploader: &fakeUploader{},
		limiter:  &fakeLimiter{deny: map[string]bool{}},
	}
	cf.uc = NewChatUseCase(f.messages, f.users, cf.uploader, cf.realtime, cf.notifier, cf.limiter)
	return cf
}

func TestSendMessage_DeliversAndNotifies(t *testing.T) {
	cf := newChatFixture()

	msg, err := cf.uc.SendMessage(context.Background(), "alice", SendMessageInput{
		ReceiverID: "bob", ListingID: "l1", Content: " is the room free? ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "is the room free?", msg.Content)
	assert.Equal(t, []string{"alice"}, msg.ReadBy)

	require.Len(t, cf.realtime.events, 2)
	assert.Equal(t, "bob", cf.realtime.events[0].UserID)
	assert.Equal(t, ws.MessageTypeNewMessage, cf.realtime.events[0].Type)
	assert.Equal(t, "alice", cf.realtime.events[1].UserID)
	require.Len(t, cf.notifier.messages, 1)
}

func TestSendMessage_WithImage(t *testing.T) {
	cf := newChatFixture()

	msg, err := cf.uc.SendMessage(context.Background(), "alice", SendMessageInput{
		ReceiverID: "bob", Image: strings.NewReader("jpegbytes"), ImageContentType: "image/jpeg",
	})
	require.NoError(t, err)
	assert.Empty(t, msg.Content)
	assert.Equal(t, cf.uploader.uploaded[0], msg.ImageURL)
}

func TestSendMessage_Validation(t *testing.T) {
	cf := newChatFixture()
	ctx := context.Background()

	cases := map[string]SendMessageInput{
		"empty":    {ReceiverID: "bob", Content: "   "},
		"too long": {ReceiverID: "bob", Content: strings.Repeat("a", maxMessageLength+1)},
		"self":     {ReceiverID: "alice", Content: "hi"},
		"receiver": {Content: "hi"},
	}
	for name, in := range cases {
		_, err := cf.uc.SendMessage(ctx, "alice", in)
		assert.True(t, errors.Is(err, errors.CodeBadRequest), name)
	}

	_, err := cf.uc.SendMessage(ctx, "alice", SendMessageInput{ReceiverID: "ghost", Content: "hi"})
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	assert.Empty(t, cf.db.messages)
}

func TestSendMessage_BlockedEitherWay(t *testing.T) {
	ctx := context.Background()

	for _, blocker := range []string{"alice", "bob"} {
		cf := newChatFixture()
		other := "bob"
		if blocker == "bob" {
			other = "alice"
		}
		require.NoError(t, cf.users.AddBlocked(ctx, blocker, other))

		_, err := cf.uc.SendMessage(ctx, "alice", SendMessageInput{ReceiverID: "bob", Content: "hi"})
		assert.True(t, errors.Is(err, errors.CodeForbidden), "blocked by %s", blocker)

		_, _, err = cf.uc.GetConversation(ctx, "alice", "bob", "", 20, 0)
		assert.True(t, errors.Is(err, errors.CodeForbidden))

		err = cf.uc.Typing(ctx, "alice", ws.TypingData{ToUserID: "bob", Typing: true})
		assert.True(t, errors.Is(err, errors.CodeForbidden))

		assert.Empty(t, cf.db.messages)
		assert.Empty(t, cf.realtime.events)
	}
}

func TestSendMessage_RateLimited(t *testing.T) {
	cf := newChatFixture()
	cf.limiter.deny[ratelimit.ActionSendMessage] = true

	_, err := cf.uc.SendMessage(context.Background(), "alice", SendMessageInput{ReceiverID: "bob", Content: "hi"})
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, errors.CodeTooManyRequests, appErr.Code)
	assert.Equal(t, 5*time.Second, appErr.RetryAfter)
}

func TestConversationReadFlow(t *testing.T) {
	cf := newChatFixture()
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		_, err := cf.uc.SendMessage(ctx, "alice", SendMessageInput{ReceiverID: "bob", ListingID: "l1", Content: text})
		require.NoError(t, err)
	}
	reply, err := cf.uc.SendMessage(ctx, "bob", SendMessageInput{ReceiverID: "alice", ListingID: "l1", Content: "yes"})
	require.NoError(t, err)

	convs, err := cf.uc.ListConversations(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "alice", convs[0].OtherUserID)
	assert.Equal(t, 3, convs[0].UnreadCount)

	cf.realtime.events = nil
	n, err := cf.uc.MarkConversationRead(ctx, "bob", "alice", "l1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, cf.realtime.events, 1)
	assert.Equal(t, "alice", cf.realtime.events[0].UserID)
	assert.Equal(t, ws.MessageTypeMessageRead, cf.realtime.events[0].Type)

	convs, err = cf.uc.ListConversations(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, convs[0].UnreadCount)

	// nothing left to mark, nothing published
	cf.realtime.events = nil
	n, err = cf.uc.MarkConversationRead(ctx, "bob", "alice", "l1")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, cf.realtime.events)

	// only the receiver may mark a single message read
	assert.True(t, errors.Is(cf.uc.MarkMessageRead(ctx, "bob", reply.ID), errors.CodeForbidden))
	require.NoError(t, cf.uc.MarkMessageRead(ctx, "alice", reply.ID))
	stored, err := cf.messages.GetByID(ctx, reply.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsReadBy("alice"))
}

func TestGroupConversations(t *testing.T) {
	now := time.Now()
	msgs := []*entity.Message{
		{ID: "m4", SenderID: "carol", ReceiverID: "me", ListingID: "l2", ReadBy: []string{"carol"}, CreatedAt: now},
		{ID: "m3", SenderID: "me", ReceiverID: "bob", ListingID: "l1", ReadBy: []string{"me"}, CreatedAt: now.Add(-time.Minute)},
		{ID: "m2", SenderID: "bob", ReceiverID: "me", ListingID: "l1", ReadBy: []string{"bob"}, CreatedAt: now.Add(-2 * time.Minute)},
		{ID: "m1", SenderID: "bob", ReceiverID: "me", ListingID: "l9", ReadBy: []string{"bob", "me"}, CreatedAt: now.Add(-3 * time.Minute)},
	}

	convs := groupConversations("me", msgs)
	require.Len(t, convs, 3)

	assert.Equal(t, "carol", convs[0].OtherUserID)
	assert.Equal(t, 1, convs[0].UnreadCount)

	assert.Equal(t, "bob", convs[1].OtherUserID)
	assert.Equal(t, "l1", convs[1].ListingID)
	assert.Equal(t, "m3", convs[1].LastMessage.ID)
	assert.Equal(t, 1, convs[1].UnreadCount)

	assert.Equal(t, "l9", convs[2].ListingID)
	assert.Equal(t, 0, convs[2].UnreadCount)

	assert.Empty(t, groupConversations("me", nil))
}

func TestTyping_RelaysWithSenderID(t *testing.T) {
	cf := newChatFixture()

	require.NoError(t, cf.uc.Typing(context.Background(), "alice", ws.TypingData{ToUserID: "bob", UserID: "spoofed", Typing: true}))
	require.Len(t, cf.realtime.events, 1)
	data := cf.realtime.events[0].Data.(ws.TypingData)
	assert.Equal(t, "alice", data.UserID)
	assert.True(t, data.Typing)
}
