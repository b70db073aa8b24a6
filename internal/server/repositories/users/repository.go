package users

import (
	"context"

	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
)

// Repository is the user store. Lookups and setters return
// common.ErrorNotFound for a missing row; Create returns common.ErrConflict
// when the email is taken. Each setter writes only its own columns.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	SetToken(ctx context.Context, id string, token *string) error
	SetSubscription(ctx context.Context, id string, tier models.SubscriptionTier) error
	SetAvatarURL(ctx context.Context, id string, avatarURL string) error
	SetVerification(ctx context.Context, id string, verified bool, token *string) error
}
