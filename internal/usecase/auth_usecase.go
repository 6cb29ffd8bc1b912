package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/internal/domain/service"
	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
)

const (
	OTPLength      = 6
	OTPExpiry      = 10 * time.Minute
	OTPMaxAttempts = 5
)

// UserCreatedHook runs after a profile has been written.
type UserCreatedHook interface {
	OnUserCreated(user *entity.User)
}

type AuthUseCase struct {
	userRepo repository.UserRepository
	otpRepo  repository.OTPRepository
	auth     service.AuthProvider
	mailer   service.Mailer
	hook     UserCreatedHook
	now      func() time.Time
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	otpRepo repository.OTPRepository,
	auth service.AuthProvider,
	mailer service.Mailer,
	hook UserCreatedHook,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		otpRepo:  otpRepo,
		auth:     auth,
		mailer:   mailer,
		hook:     hook,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
	FullName string
	Phone    string
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	email := normalizeEmail(input.Email)

	if existing, err := uc.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, errors.Conflict("Email already in use", nil)
	} else if err != nil && !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}

	uid, err := uc.auth.CreateUser(ctx, email, input.Password, input.Username)
	if err != nil {
		return nil, errors.BadRequest("Failed to create account", err)
	}

	now := uc.now()
	user := &entity.User{
		ID:        uid,
		Email:     email,
		Username:  strings.TrimSpace(input.Username),
		FullName:  strings.TrimSpace(input.FullName),
		Phone:     strings.TrimSpace(input.Phone),
		Role:      entity.RoleUser,
		Blocked:   []string{},
		FCMTokens: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if delErr := uc.auth.DeleteUser(ctx, uid); delErr != nil {
			logger.Error("Failed to roll back auth user %s: %v", uid, delErr)
		}
		return nil, err
	}

	logger.Info("Registered user %s", uid)
	if uc.hook != nil {
		uc.hook.OnUserCreated(user)
	}
	return user, nil
}

// EnsureProfile creates the Firestore profile for an auth user that signed
// up on the client, so the auth trigger behaviour holds for both paths.
func (uc *AuthUseCase) EnsureProfile(ctx context.Context, uid, email string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}

	now := uc.now()
	user = &entity.User{
		ID:        uid,
		Email:     normalizeEmail(email),
		Username:  strings.Split(email, "@")[0],
		Role:      entity.RoleUser,
		Blocked:   []string{},
		FCMTokens: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, errors.CodeConflict) {
			return uc.userRepo.GetByID(ctx, uid)
		}
		return nil, err
	}

	if uc.hook != nil {
		uc.hook.OnUserCreated(user)
	}
	return user, nil
}

// SendOTP replaces any outstanding code for email with a fresh one.
func (uc *AuthUseCase) SendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, err := uc.userRepo.GetByEmail(ctx, email); err != nil {
		// Unknown addresses get the same answer as known ones.
		if errors.Is(err, errors.CodeNotFound) {
			logger.Debug("OTP requested for unknown email %s", email)
			return nil
		}
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return errors.Internal("Failed to generate code", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return errors.Internal("Failed to hash code", err)
	}

	now := uc.now()
	if err := uc.otpRepo.Save(ctx, &entity.OTP{
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(OTPExpiry),
		CreatedAt: now,
	}); err != nil {
		return err
	}

	body := fmt.Sprintf("Your RoomLink verification code is %s.\n\nIt expires in %d minutes.", code, int(OTPExpiry.Minutes()))
	if err := uc.mailer.Send(ctx, email, "Your RoomLink verification code", body); err != nil {
		return errors.Upstream("Failed to send verification email", err)
	}
	return nil
}

func (uc *AuthUseCase) VerifyOTP(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)

	otp, err := uc.otpRepo.ConsumeAttempt(ctx, email, OTPMaxAttempts, uc.now())
	switch {
	case err == entity.ErrOTPExpired:
		return errors.BadRequest("Verification code expired", nil)
	case err == entity.ErrOTPExhausted:
		return errors.TooManyRequests("Too many attempts, request a new code", 0)
	case errors.Is(err, errors.CodeNotFound):
		return errors.BadRequest("No verification code requested", nil)
	case err != nil:
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(strings.TrimSpace(code))); err != nil {
		return errors.BadRequest("Invalid verification code", nil)
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := uc.userRepo.SetVerified(ctx, user.ID, true); err != nil {
		return err
	}
	if err := uc.otpRepo.Delete(ctx, email); err != nil {
		logger.Warn("Failed to delete used OTP for %s: %v", email, err)
	}

	logger.Info("User %s verified", user.ID)
	return nil
}

func (uc *AuthUseCase) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

func generateOTP() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", OTPLength, n.Int64()), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
