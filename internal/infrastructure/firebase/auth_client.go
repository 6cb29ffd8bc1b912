package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"roomlink/internal/domain/service"
)

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

var _ service.AuthProvider = (*FirebaseAuthClient)(nil)

func (f *FirebaseAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return "", err
	}

	return user.UID, nil
}

func (f *FirebaseAuthClient) DeleteUser(ctx context.Context, uid string) error {
	return f.client.DeleteUser(ctx, uid)
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, idToken string) (*service.VerifiedToken, error) {
	result, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	email, _ := result.Claims["email"].(string)
	return &service.VerifiedToken{UID: result.UID, Email: email}, nil
}

// IsEmailExists reports whether err is Firebase's duplicate-email error.
func IsEmailExists(err error) bool {
	return auth.IsEmailAlreadyExists(err)
}
