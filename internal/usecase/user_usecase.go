package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/internal/domain/service"
	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	uploader service.FileUploadService
}

func NewUserUseCase(userRepo repository.UserRepository, uploader service.FileUploadService) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		uploader: uploader,
	}
}

type UpdateProfileInput struct {
	Username string
	FullName string
	Phone    string
	Bio      string
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// GetPublicProfile hides the profile from anyone the owner has blocked.
func (uc *UserUseCase) GetPublicProfile(ctx context.Context, viewerID, userID string) (*entity.PublicProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if viewerID != "" && user.HasBlocked(viewerID) {
		return nil, errors.NotFound("User", nil)
	}
	return user.Public(), nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(input.Username); v != "" {
		user.Username = v
	}
	if v := strings.TrimSpace(input.FullName); v != "" {
		user.FullName = v
	}
	if v := strings.TrimSpace(input.Phone); v != "" {
		user.Phone = v
	}
	if v := strings.TrimSpace(input.Bio); v != "" {
		user.Bio = v
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) UploadAvatar(ctx context.Context, userID string, file io.Reader, contentType string) (*entity.User, error) {
	if uc.uploader == nil {
		return nil, errors.Internal("File storage is not configured", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := uc.uploader.UploadFile(ctx, file, contentType, "avatars/"+userID, true)
	if err != nil {
		return nil, uploadError(err)
	}

	previous := user.AvatarURL
	user.AvatarURL = url
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if previous != "" {
		if err := uc.uploader.DeleteFile(ctx, previous); err != nil {
			logger.Warn("Failed to delete old avatar %s: %v", previous, err)
		}
	}
	return user, nil
}

func (uc *UserUseCase) BlockUser(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return errors.BadRequest("You cannot block yourself", nil)
	}
	if _, err := uc.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	if err := uc.userRepo.AddBlocked(ctx, userID, targetID); err != nil {
		return err
	}
	logger.Info("User %s blocked %s", userID, targetID)
	return nil
}

func (uc *UserUseCase) UnblockUser(ctx context.Context, userID, targetID string) error {
	if err := uc.userRepo.RemoveBlocked(ctx, userID, targetID); err != nil {
		return err
	}
	logger.Info("User %s unblocked %s", userID, targetID)
	return nil
}

func (uc *UserUseCase) ListBlocked(ctx context.Context, userID string) ([]*entity.PublicProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profiles := make([]*entity.PublicProfile, 0, len(user.Blocked))
	for _, id := range user.Blocked {
		blocked, err := uc.userRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, errors.CodeNotFound) {
				continue
			}
			return nil, err
		}
		profiles = append(profiles, blocked.Public())
	}
	return profiles, nil
}

// IsBlockedEitherWay reports whether a has blocked b or b has blocked a.
func (uc *UserUseCase) IsBlockedEitherWay(ctx context.Context, a, b string) (bool, error) {
	userA, err := uc.userRepo.GetByID(ctx, a)
	if err != nil {
		return false, err
	}
	userB, err := uc.userRepo.GetByID(ctx, b)
	if err != nil {
		return false, err
	}
	return blockedEitherWay(userA, userB), nil
}

func blockedEitherWay(a, b *entity.User) bool {
	return a.HasBlocked(b.ID) || b.HasBlocked(a.ID)
}

func (uc *UserUseCase) RegisterFCMToken(ctx context.Context, userID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.BadRequest("Token is required", nil)
	}
	return uc.userRepo.AddFCMToken(ctx, userID, token)
}

func (uc *UserUseCase) UnregisterFCMToken(ctx context.Context, userID, token string) error {
	return uc.userRepo.RemoveFCMTokens(ctx, userID, []string{token})
}

// uploadError keeps client-facing validation errors and wraps the rest.
func uploadError(err error) error {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return errors.Internal("Failed to upload file", err)
}
