package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/dbx"
	"github.com/dmitrijs2005/contactkeeper/internal/logging"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	"github.com/dmitrijs2005/contactkeeper/internal/server/repositories/repomanager"
)

// ContactService manages a user's contacts. Every call is scoped to owner.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ContactService {
	return &ContactService{db: db, repomanager: m, log: log.With("module", "contacts")}
}

func (s *ContactService) List(ctx context.Context, owner string, filter models.ContactFilter) ([]models.Contact, error) {
	items, err := s.repomanager.Contacts(s.db).List(ctx, owner, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing contacts: %w", err)
	}
	return items, nil
}

func (s *ContactService) Get(ctx context.Context, owner, id string) (*models.Contact, error) {
	c, err := s.repomanager.Contacts(s.db).Get(ctx, owner, id)
	if err != nil {
		return nil, contactError(err)
	}
	return c, nil
}

func (s *ContactService) Create(ctx context.Context, owner string, c models.Contact) (*models.Contact, error) {
	c.ID = ""
	c.Owner = owner

	created, err := s.repomanager.Contacts(s.db).Create(ctx, &c)
	if err != nil {
		return nil, contactError(err)
	}

	s.log.Debug(ctx, "contact created", "owner", owner, "contact_id", created.ID)
	return created, nil
}

// Update applies a partial change. An empty patch is a validation error.
func (s *ContactService) Update(ctx context.Context, owner, id string, patch models.ContactPatch) (*models.Contact, error) {
	if patch.Empty() {
		return nil, common.ErrEmptyUpdate
	}

	var updated *models.Contact
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Contacts(tx)

		c, err := repo.Get(ctx, owner, id)
		if err != nil {
			return err
		}

		patch.Apply(c)

		updated, err = repo.Update(ctx, c)
		return err
	})
	if err != nil {
		return nil, contactError(err)
	}

	return updated, nil
}

func (s *ContactService) UpdateFavorite(ctx context.Context, owner, id string, favorite bool) (*models.Contact, error) {
	return s.Update(ctx, owner, id, models.ContactPatch{Favorite: &favorite})
}

// Delete removes the contact and returns it as it was.
func (s *ContactService) Delete(ctx context.Context, owner, id string) (*models.Contact, error) {
	c, err := s.repomanager.Contacts(s.db).Delete(ctx, owner, id)
	if err != nil {
		return nil, contactError(err)
	}

	s.log.Debug(ctx, "contact deleted", "owner", owner, "contact_id", c.ID)
	return c, nil
}

func contactError(err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return common.ErrContactNotFound
	case errors.Is(err, common.ErrConflict):
		return common.ErrContactExists
	}
	return fmt.Errorf("contact store: %w", err)
}
