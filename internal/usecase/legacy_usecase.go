package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/pkg/errors"
)

// TokenIssuer is satisfied by token.Manager.
type TokenIssuer interface {
	Generate(userID, email string) (string, error)
}

// LegacyUseCase backs the Mongo-based /api surface kept for older clients.
type LegacyUseCase struct {
	accountRepo repository.AccountRepository
	messageRepo repository.DirectMessageRepository
	tokens      TokenIssuer
}

func NewLegacyUseCase(
	accountRepo repository.AccountRepository,
	messageRepo repository.DirectMessageRepository,
	tokens TokenIssuer,
) *LegacyUseCase {
	return &LegacyUseCase{
		accountRepo: accountRepo,
		messageRepo: messageRepo,
		tokens:      tokens,
	}
}

type LegacyAuthResult struct {
	Token   string          `json:"token"`
	Account *entity.Account `json:"user"`
}

func (uc *LegacyUseCase) Signup(ctx context.Context, name, email, password string) (*LegacyAuthResult, error) {
	email = normalizeEmail(email)

	if _, err := uc.accountRepo.GetByEmail(ctx, email); err == nil {
		return nil, errors.Conflict("Email already exists", nil)
	} else if !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	account := &entity.Account{
		Name:      strings.TrimSpace(name),
		Email:     email,
		Password:  string(hash),
		CreatedAt: time.Now(),
	}
	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return uc.issue(account)
}

func (uc *LegacyUseCase) Login(ctx context.Context, email, password string) (*LegacyAuthResult, error) {
	account, err := uc.accountRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.Unauthorized("Invalid credentials", nil)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return nil, errors.Unauthorized("Invalid credentials", nil)
	}

	return uc.issue(account)
}

func (uc *LegacyUseCase) issue(account *entity.Account) (*LegacyAuthResult, error) {
	token, err := uc.tokens.Generate(account.ID.Hex(), account.Email)
	if err != nil {
		return nil, errors.Internal("Failed to generate token", err)
	}
	return &LegacyAuthResult{Token: token, Account: account}, nil
}

func (uc *LegacyUseCase) SendMessage(ctx context.Context, senderID, receiverID, listingID, content string) (*entity.DirectMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.BadRequest("Message content is required", nil)
	}
	if receiverID == "" || receiverID == senderID {
		return nil, errors.BadRequest("Invalid receiver", nil)
	}
	if _, err := uc.accountRepo.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	message := &entity.DirectMessage{
		SenderID:   senderID,
		ReceiverID: receiverID,
		ListingID:  listingID,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (uc *LegacyUseCase) Conversation(ctx context.Context, userID, otherID string, limit, offset int) ([]*entity.DirectMessage, error) {
	return uc.messageRepo.ListBetween(ctx, userID, otherID, int64(limit), int64(offset))
}

func (uc *LegacyUseCase) MarkRead(ctx context.Context, userID, messageID string) error {
	return uc.messageRepo.MarkRead(ctx, messageID, userID)
}

func (uc *LegacyUseCase) DeleteMessage(ctx context.Context, userID, messageID string) error {
	return uc.messageRepo.Delete(ctx, messageID, userID)
}
