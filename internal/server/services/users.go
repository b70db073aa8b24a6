// Package services contains server-side business logic: account lifecycle,
// session handling, avatars and contacts.
package services

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/dbx"
	"github.com/dmitrijs2005/contactkeeper/internal/logging"
	"github.com/dmitrijs2005/contactkeeper/internal/server/auth"
	"github.com/dmitrijs2005/contactkeeper/internal/server/config"
	"github.com/dmitrijs2005/contactkeeper/internal/server/mail"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	"github.com/dmitrijs2005/contactkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// mailTimeout bounds a verification send so a slow relay cannot hold a
// request open indefinitely.
const mailTimeout = 10 * time.Second

// PasswordHasher is the one-way password function.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	User  *models.User
}

// UserService implements the account lifecycle: registration, login and
// logout, email verification and profile updates.
type UserService struct {
	db                   *sql.DB
	repomanager          repomanager.RepositoryManager
	hasher               PasswordHasher
	sessions             Sessions
	mailer               mail.Sender
	log                  logging.Logger
	verificationRequired bool
	publicBaseURL        string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, sessions Sessions, mailer mail.Sender, log logging.Logger) *UserService {
	return &UserService{
		db:                   db,
		repomanager:          m,
		hasher:               auth.NewBcryptHasher(cfg.BcryptCost),
		sessions:             sessions,
		mailer:               mailer,
		log:                  log.With("module", "users"),
		verificationRequired: cfg.VerificationRequired,
		publicBaseURL:        cfg.PublicBaseURL,
	}
}

// Register creates an account. When verification is required the account
// starts unverified and a verification email is sent; a failed send is
// logged and does not fail the registration.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	_, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrEmailInUse
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return nil, common.ErrPasswordRequired
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Subscription: models.TierStarter,
		AvatarURL:    GravatarURL(email),
		Verified:     !s.verificationRequired,
	}
	if s.verificationRequired {
		token := uuid.NewString()
		user.VerificationToken = &token
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrEmailInUse
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "verified", user.Verified)

	if user.VerificationToken != nil {
		if err := s.sendVerification(ctx, user); err != nil {
			s.log.Error(ctx, "verification email not sent", "user_id", user.ID, "error", err)
		}
	}

	return user, nil
}

// Login checks credentials and opens a session, revoking any earlier one.
// An unknown email and a wrong password are indistinguishable.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	if s.verificationRequired && !user.Verified {
		return nil, common.ErrEmailNotVerified
	}

	token, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{Token: token, User: user}, nil
}

// Logout ends the user's session.
func (s *UserService) Logout(ctx context.Context, user *models.User) error {
	if err := s.sessions.Revoke(ctx, user); err != nil {
		return err
	}
	s.log.Info(ctx, "user logged out", "user_id", user.ID)
	return nil
}

// VerifyEmail consumes a verification token. The token is single use: the
// row is locked, marked verified and the token cleared in one transaction.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return common.ErrUserNotFound
	}

	var userID string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.FindByVerificationToken(ctx, token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUserNotFound
			}
			return fmt.Errorf("error searching user: %w", err)
		}

		if err := repo.SetVerification(ctx, user.ID, true, nil); err != nil {
			return fmt.Errorf("error saving user: %w", err)
		}

		user.Verified = true
		user.VerificationToken = nil
		userID = user.ID
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "email verified", "user_id", userID)
	return nil
}

// ResendVerification sends the verification email again. Unlike
// registration, a failed send is an error here.
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("error searching user: %w", err)
	}

	if user.Verified {
		return common.ErrAlreadyVerified
	}

	if user.VerificationToken == nil {
		token := uuid.NewString()
		if err := repo.SetVerification(ctx, user.ID, false, &token); err != nil {
			return fmt.Errorf("error saving user: %w", err)
		}
		user.VerificationToken = &token
	}

	if err := s.sendVerification(ctx, user); err != nil {
		return fmt.Errorf("error sending verification email: %w", err)
	}
	return nil
}

// Current returns the public view of an authenticated user.
func (s *UserService) Current(user *models.User) models.UserView {
	return user.View()
}

func (s *UserService) UpdateSubscription(ctx context.Context, user *models.User, tier models.SubscriptionTier) (*models.User, error) {
	if !tier.Valid() {
		return nil, common.ErrInvalidTier
	}

	if err := s.repomanager.Users(s.db).SetSubscription(ctx, user.ID, tier); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error saving user: %w", err)
	}
	user.Subscription = tier
	return user, nil
}

func (s *UserService) sendVerification(ctx context.Context, user *models.User) error {
	msg, err := mail.VerificationEmail(s.publicBaseURL, user.Email, *user.VerificationToken)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()
	return s.mailer.Send(ctx, msg)
}

// GravatarURL is the default avatar for email: 250px, G rated, with the
// "mystery person" fallback.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	q := url.Values{"s": {"250"}, "r": {"g"}, "d": {"mp"}}
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
