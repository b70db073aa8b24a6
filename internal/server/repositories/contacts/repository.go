package contacts

import (
	"context"

	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
)

// Repository stores contacts. Every method is scoped to an owner; a contact
// that exists but belongs to someone else is reported as common.ErrorNotFound.
type Repository interface {
	List(ctx context.Context, owner string, filter models.ContactFilter) ([]models.Contact, error)
	Get(ctx context.Context, owner, id string) (*models.Contact, error)
	Create(ctx context.Context, c *models.Contact) (*models.Contact, error)
	Update(ctx context.Context, c *models.Contact) (*models.Contact, error)
	Delete(ctx context.Context, owner, id string) (*models.Contact, error)
}
