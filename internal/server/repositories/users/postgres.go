// Package users provides the PostgreSQL-backed user store.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/dbx"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
)

const emailConstraint = "users_email_key"

const selectUser = `SELECT id, email, password, subscription, token, avatar_url, verify, verification_token
		 FROM users`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, password, subscription, avatar_url, verify, verification_token)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	subscription := user.Subscription
	if subscription == "" {
		subscription = models.TierStarter
	}

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, string(subscription), nullString(user.AvatarURL),
		user.Verified, user.VerificationToken).Scan(&user.ID)

	if err != nil {
		if dbx.IsUniqueViolation(err, emailConstraint) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Subscription = subscription
	return user, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, selectUser+`
		 WHERE email = $1`, email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, selectUser+`
		 WHERE id = $1`, id)
}

// FindByVerificationToken locks the matching row when called inside a
// transaction, so concurrent verifications of one token serialize.
func (r *PostgresRepository) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, selectUser+`
		 WHERE verification_token = $1
		 FOR UPDATE`, token)
}

// SetToken replaces the session slot. A nil token ends the session.
func (r *PostgresRepository) SetToken(ctx context.Context, id string, token *string) error {
	return r.updateOne(ctx, `UPDATE users SET token = $2 WHERE id = $1`, id, token)
}

func (r *PostgresRepository) SetSubscription(ctx context.Context, id string, tier models.SubscriptionTier) error {
	return r.updateOne(ctx, `UPDATE users SET subscription = $2 WHERE id = $1`, id, string(tier))
}

func (r *PostgresRepository) SetAvatarURL(ctx context.Context, id string, avatarURL string) error {
	return r.updateOne(ctx, `UPDATE users SET avatar_url = $2 WHERE id = $1`, id, nullString(avatarURL))
}

func (r *PostgresRepository) SetVerification(ctx context.Context, id string, verified bool, token *string) error {
	return r.updateOne(ctx, `UPDATE users SET verify = $2, verification_token = $3 WHERE id = $1`, id, verified, token)
}

// updateOne runs a single-row UPDATE keyed by id. Writers touch only their
// own columns, so a stale in-memory user never overwrites the session slot.
func (r *PostgresRepository) updateOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dbx.IsInvalidInput(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var avatar sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Subscription,
		&user.Token, &avatar, &user.Verified, &user.VerificationToken)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.AvatarURL = avatar.String
	return user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
