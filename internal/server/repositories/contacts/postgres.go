// Package contacts provides the PostgreSQL-backed contact store.
package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/dbx"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
)

const ownerEmailConstraint = "contacts_owner_email_key"

const contactColumns = `id, name, email, phone, favorite, owner`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns one page of the owner's contacts ordered by name. A nil
// filter.Favorite lists all contacts.
func (r *PostgresRepository) List(ctx context.Context, owner string, filter models.ContactFilter) ([]models.Contact, error) {
	filter = filter.Normalize()

	query :=
		`SELECT ` + contactColumns + `
		 FROM contacts
		 WHERE owner = $1 AND ($2::boolean IS NULL OR favorite = $2)
		 ORDER BY name, id
		 LIMIT $3 OFFSET $4`

	var favorite sql.NullBool
	if filter.Favorite != nil {
		favorite = sql.NullBool{Bool: *filter.Favorite, Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, query, owner, favorite, filter.Limit, filter.Offset())
	if err != nil {
		if dbx.IsInvalidInput(err) {
			return []models.Contact{}, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Contact, 0)
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Favorite, &c.Owner); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, owner, id string) (*models.Contact, error) {
	query :=
		`SELECT ` + contactColumns + `
		 FROM contacts
		 WHERE id = $1 AND owner = $2`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id, owner))
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	query :=
		`INSERT INTO contacts (name, email, phone, favorite, owner)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING ` + contactColumns

	return r.scanOne(r.db.QueryRowContext(ctx, query, c.Name, c.Email, c.Phone, c.Favorite, c.Owner))
}

// Update overwrites all mutable fields of the contact identified by c.ID
// and c.Owner.
func (r *PostgresRepository) Update(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	query :=
		`UPDATE contacts
		 SET name = $3, email = $4, phone = $5, favorite = $6
		 WHERE id = $1 AND owner = $2
		 RETURNING ` + contactColumns

	return r.scanOne(r.db.QueryRowContext(ctx, query, c.ID, c.Owner, c.Name, c.Email, c.Phone, c.Favorite))
}

func (r *PostgresRepository) Delete(ctx context.Context, owner, id string) (*models.Contact, error) {
	query :=
		`DELETE FROM contacts
		 WHERE id = $1 AND owner = $2
		 RETURNING ` + contactColumns

	return r.scanOne(r.db.QueryRowContext(ctx, query, id, owner))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Favorite, &c.Owner)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), dbx.IsInvalidInput(err), dbx.IsForeignKeyViolation(err):
			return nil, common.ErrorNotFound
		case dbx.IsUniqueViolation(err, ownerEmailConstraint):
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}
