package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/pkg/errors"
	"roomlink/pkg/logger"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) users() *firestore.CollectionRef {
	return r.client.Collection("users")
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.Blocked == nil {
		user.Blocked = []string{}
	}
	if user.FCMTokens == nil {
		user.FCMTokens = []string{}
	}

	// Create fails if the profile already exists, so a replayed auth trigger can't wipe it.
	_, err := r.users().Doc(user.ID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("User profile already exists", err)
		}
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.users().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	return decodeUser(doc)
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *firestoreUserRepository) GetByPaystackCustomerCode(ctx context.Context, code string) (*entity.User, error) {
	return r.findOne(ctx, "paystackCustomerCode", code)
}

func (r *firestoreUserRepository) findOne(ctx context.Context, field, value string) (*entity.User, error) {
	iter := r.users().Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("User", nil)
		}
		return nil, errors.Internal("Failed to query user", err)
	}

	return decodeUser(doc)
}

func decodeUser(doc *firestore.DocumentSnapshot) (*entity.User, error) {
	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = doc.Ref.ID
	return &user, nil
}

// Update writes the editable profile fields only; ratings, balance and the
// blocked list have their own atomic paths.
func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	logger.Debug("Updating user profile: %s", user.ID)

	updateData := map[string]interface{}{
		"username":  user.Username,
		"fullName":  user.FullName,
		"phone":     user.Phone,
		"bio":       user.Bio,
		"avatarUrl": user.AvatarURL,
		"updatedAt": time.Now(),
	}

	// Skip empty strings so a partial update doesn't blank existing values.
	clean := make(map[string]interface{}, len(updateData))
	for key, value := range updateData {
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		clean[key] = value
	}

	_, err := r.users().Doc(user.ID).Set(ctx, clean, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update user", err)
	}
	return nil
}

func (r *firestoreUserRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "isVerified", Value: verified},
	})
}

func (r *firestoreUserRepository) AddBlocked(ctx context.Context, userID, targetID string) error {
	return r.update(ctx, userID, []firestore.Update{
		{Path: "blocked", Value: firestore.ArrayUnion(targetID)},
	})
}

func (r *firestoreUserRepository) RemoveBlocked(ctx context.Context, userID, targetID string) error {
	return r.update(ctx, userID, []firestore.Update{
		{Path: "blocked", Value: firestore.ArrayRemove(targetID)},
	})
}

func (r *firestoreUserRepository) AddFCMToken(ctx context.Context, userID, token string) error {
	return r.update(ctx, userID, []firestore.Update{
		{Path: "fcmTokens", Value: firestore.ArrayUnion(token)},
	})
}

func (r *firestoreUserRepository) RemoveFCMTokens(ctx context.Context, userID string, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	values := make([]interface{}, len(tokens))
	for i, t := range tokens {
		values[i] = t
	}
	return r.update(ctx, userID, []firestore.Update{
		{Path: "fcmTokens", Value: firestore.ArrayRemove(values...)},
	})
}

func (r *firestoreUserRepository) SetPaystackCustomer(ctx context.Context, userID, customerCode string, account *entity.VirtualAccount) error {
	updates := []firestore.Update{
		{Path: "paystackCustomerCode", Value: customerCode},
	}
	if account != nil {
		updates = append(updates, firestore.Update{Path: "virtualAccount", Value: account})
	}
	return r.update(ctx, userID, updates)
}

func (r *firestoreUserRepository) update(ctx context.Context, id string, updates []firestore.Update) error {
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now()})
	_, err := r.users().Doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("User", err)
		}
		return errors.Internal("Failed to update user", err)
	}
	return nil
}
