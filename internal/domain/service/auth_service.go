package service

import "context"

// VerifiedToken is what the auth middleware needs from an ID token.
type VerifiedToken struct {
	UID   string
	Email string
}

type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (*VerifiedToken, error)
}

// AuthProvider creates and removes identities in the auth backend.
type AuthProvider interface {
	TokenVerifier
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
}
