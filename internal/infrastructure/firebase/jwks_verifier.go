package firebase

import (
	"context"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"

	"roomlink/internal/domain/service"
	"roomlink/pkg/logger"
)

const googleSecureTokenJWKS = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// JWKSVerifier checks Firebase ID tokens against Google's published keys.
// It needs no service account, which suits local and emulator setups.
type JWKSVerifier struct {
	projectID string
	keyfunc   jwt.Keyfunc
	close     func()
}

func NewJWKSVerifier(projectID string) (*JWKSVerifier, error) {
	return NewJWKSVerifierFromURL(projectID, googleSecureTokenJWKS)
}

func NewJWKSVerifierFromURL(projectID, jwksURL string) (*JWKSVerifier, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firebase project ID is required for JWKS verification")
	}

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Error("Failed to refresh Firebase JWKS: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS: %w", err)
	}

	return &JWKSVerifier{projectID: projectID, keyfunc: jwks.Keyfunc, close: jwks.EndBackground}, nil
}

// newJWKSVerifierWithKeyfunc is used by tests to supply a static key.
func newJWKSVerifierWithKeyfunc(projectID string, kf jwt.Keyfunc) *JWKSVerifier {
	return &JWKSVerifier{projectID: projectID, keyfunc: kf, close: func() {}}
}

var _ service.TokenVerifier = (*JWKSVerifier)(nil)

type firebaseClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (v *JWKSVerifier) VerifyToken(ctx context.Context, idToken string) (*service.VerifiedToken, error) {
	claims := &firebaseClaims{}
	parsed, err := jwt.ParseWithClaims(idToken, claims, v.keyfunc)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid ID token")
	}
	if parsed.Method.Alg() != jwt.SigningMethodRS256.Alg() {
		return nil, fmt.Errorf("unexpected signing algorithm %s", parsed.Method.Alg())
	}

	if !claims.VerifyAudience(v.projectID, true) {
		return nil, fmt.Errorf("ID token has wrong audience")
	}
	if !claims.VerifyIssuer("https://securetoken.google.com/"+v.projectID, true) {
		return nil, fmt.Errorf("ID token has wrong issuer")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("ID token has no subject")
	}

	return &service.VerifiedToken{UID: claims.Subject, Email: claims.Email}, nil
}

func (v *JWKSVerifier) Close() {
	v.close()
}
