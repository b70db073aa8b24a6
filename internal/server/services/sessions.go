package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	"github.com/dmitrijs2005/contactkeeper/internal/server/repositories/repomanager"
)

// TokenIssuer mints and checks signed session tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// Sessions decides which tokens are live. The gate consults it on every
// protected request, after the token's signature and expiry are checked.
type Sessions interface {
	// Issue mints a token for user and makes it the user's live session.
	Issue(ctx context.Context, user *models.User) (string, error)
	// Revoke ends the user's live session. Revoking twice is not an error.
	Revoke(ctx context.Context, user *models.User) error
	// Validate loads the user and checks that presented is its live
	// session. Unknown users and stale tokens yield common.ErrSessionRevoked.
	Validate(ctx context.Context, userID, presented string) (*models.User, error)
}

// SingleSlotSessions stores one token per user on the user row, so a new
// login replaces and thereby revokes the previous one.
type SingleSlotSessions struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      TokenIssuer
}

func NewSingleSlotSessions(db *sql.DB, m repomanager.RepositoryManager, issuer TokenIssuer) *SingleSlotSessions {
	return &SingleSlotSessions{db: db, repomanager: m, issuer: issuer}
}

func (s *SingleSlotSessions) Issue(ctx context.Context, user *models.User) (string, error) {
	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("error issuing token: %w", err)
	}

	if err := s.repomanager.Users(s.db).SetToken(ctx, user.ID, &token); err != nil {
		return "", fmt.Errorf("error storing session: %w", err)
	}

	user.StartSession(token)
	return token, nil
}

func (s *SingleSlotSessions) Revoke(ctx context.Context, user *models.User) error {
	err := s.repomanager.Users(s.db).SetToken(ctx, user.ID, nil)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error clearing session: %w", err)
	}
	user.EndSession()
	return nil
}

func (s *SingleSlotSessions) Validate(ctx context.Context, userID, presented string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrSessionRevoked
		}
		return nil, fmt.Errorf("error loading session owner: %w", err)
	}

	if !user.HoldsSession(presented) {
		return nil, common.ErrSessionRevoked
	}

	return user, nil
}
