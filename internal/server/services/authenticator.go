package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/server/auth"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
)

// TokenVerifier checks a token's signature, algorithm and expiry.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticator turns an Authorization header value into the user that owns
// the live session. Every failure is a common.ErrUnauthenticated kind except
// a store fault, which is returned as is.
type Authenticator struct {
	verifier TokenVerifier
	sessions Sessions
}

func NewAuthenticator(verifier TokenVerifier, sessions Sessions) *Authenticator {
	return &Authenticator{verifier: verifier, sessions: sessions}
}

// Authenticate returns the authenticated user and the presented token.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*models.User, string, error) {
	if header == "" {
		return nil, "", common.ErrMissingCredentials
	}

	token, ok := ParseBearer(header)
	if !ok {
		return nil, "", common.ErrMalformedCredentials
	}

	claims, err := a.verifier.Verify(token)
	if err != nil {
		return nil, "", common.ErrTokenInvalid.Wrap(err)
	}

	user, err := a.sessions.Validate(ctx, claims.UserID, token)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// ParseBearer extracts the token from "Bearer <token>". The scheme is case
// sensitive and the token must be a single non-empty word.
func ParseBearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != common.AuthScheme {
		return "", false
	}
	if token == "" || strings.ContainsAny(token, " \t\r\n") {
		return "", false
	}
	return token, true
}
