package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"roomlink/internal/domain/entity"
	"roomlink/pkg/errors"
)

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[primitive.ObjectID]*entity.Account
}

func (r *fakeAccountRepo) Create(ctx context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return errors.Conflict("Email already exists", nil)
		}
	}
	a.ID = primitive.NewObjectID()
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.NotFound("User", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[oid]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	cp := *a
	return &cp, nil
}

type fakeDirectMessageRepo struct {
	messages []*entity.DirectMessage
}

func (r *fakeDirectMessageRepo) Create(ctx context.Context, m *entity.DirectMessage) error {
	m.ID = primitive.NewObjectID()
	r.messages = append(r.messages, m)
	return nil
}

func (r *fakeDirectMessageRepo) ListBetween(ctx context.Context, a, b string, limit, offset int64) ([]*entity.DirectMessage, error) {
	out := []*entity.DirectMessage{}
	for _, m := range r.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeDirectMessageRepo) find(id string) *entity.DirectMessage {
	for _, m := range r.messages {
		if m.ID.Hex() == id {
			return m
		}
	}
	return nil
}

func (r *fakeDirectMessageRepo) MarkRead(ctx context.Context, id, receiverID string) error {
	m := r.find(id)
	if m == nil || m.ReceiverID != receiverID {
		return errors.NotFound("Message", nil)
	}
	m.Read = true
	return nil
}

func (r *fakeDirectMessageRepo) Delete(ctx context.Context, id, senderID string) error {
	m := r.find(id)
	if m == nil {
		return errors.NotFound("Message", nil)
	}
	if m.SenderID != senderID {
		return errors.Forbidden("Only the sender can delete a message", nil)
	}
	out := r.messages[:0]
	for _, x := range r.messages {
		if x != m {
			out = append(out, x)
		}
	}
	r.messages = out
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Generate(userID, email string) (string, error) {
	return fmt.Sprintf("token-%s-%s", userID, email), nil
}

func newLegacyFixture() (*fakeAccountRepo, *fakeDirectMessageRepo, *LegacyUseCase) {
	accounts := &fakeAccountRepo{accounts: map[primitive.ObjectID]*entity.Account{}}
	messages := &fakeDirectMessageRepo{}
	return accounts, messages, NewLegacyUseCase(accounts, messages, fakeTokens{})
}

func TestLegacySignupAndLogin(t *testing.T) {
	accounts, _, uc := newLegacyFixture()
	ctx := context.Background()

	res, err := uc.Signup(ctx, " Emeka ", "Emeka@Example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "Emeka", res.Account.Name)
	assert.Equal(t, "emeka@example.com", res.Account.Email)
	assert.Contains(t, res.Token, res.Account.ID.Hex())

	stored, err := accounts.GetByEmail(ctx, "emeka@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.Password)

	_, err = uc.Signup(ctx, "Again", "emeka@example.com", "x")
	assert.True(t, errors.Is(err, errors.CodeConflict))

	res, err = uc.Login(ctx, "EMEKA@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, res.Account.ID)

	_, err = uc.Login(ctx, "emeka@example.com", "wrong")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))
	_, err = uc.Login(ctx, "nobody@example.com", "hunter22")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))
}

func TestLegacyMessages(t *testing.T) {
	_, messages, uc := newLegacyFixture()
	ctx := context.Background()

	a, err := uc.Signup(ctx, "A", "a@example.com", "pw123456")
	require.NoError(t, err)
	b, err := uc.Signup(ctx, "B", "b@example.com", "pw123456")
	require.NoError(t, err)
	aID, bID := a.Account.ID.Hex(), b.Account.ID.Hex()

	_, err = uc.SendMessage(ctx, aID, bID, "", "  ")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
	_, err = uc.SendMessage(ctx, aID, aID, "", "hi")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
	_, err = uc.SendMessage(ctx, aID, primitive.NewObjectID().Hex(), "", "hi")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	msg, err := uc.SendMessage(ctx, aID, bID, "l1", "hello")
	require.NoError(t, err)
	assert.False(t, msg.Read)

	conv, err := uc.Conversation(ctx, bID, aID, 50, 0)
	require.NoError(t, err)
	require.Len(t, conv, 1)

	assert.True(t, errors.Is(uc.MarkRead(ctx, aID, msg.ID.Hex()), errors.CodeNotFound))
	require.NoError(t, uc.MarkRead(ctx, bID, msg.ID.Hex()))
	assert.True(t, messages.messages[0].Read)

	assert.True(t, errors.Is(uc.DeleteMessage(ctx, bID, msg.ID.Hex()), errors.CodeForbidden))
	require.NoError(t, uc.DeleteMessage(ctx, aID, msg.ID.Hex()))
	assert.Empty(t, messages.messages)
}
